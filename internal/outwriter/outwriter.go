// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/huangsam/commitmood/internal/contract"
	"github.com/huangsam/commitmood/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteAnalysis prints a single repository analysis using the configured output format.
func (ow *OutWriter) WriteAnalysis(output schema.AnalysisOutput, cfg *contract.Config, duration time.Duration) error {
	return WriteAnalysisResults(output, cfg, duration)
}

// WriteComparison prints a multi-repository comparison using the configured output format.
func (ow *OutWriter) WriteComparison(result schema.ComparisonResult, cfg *contract.Config, duration time.Duration) error {
	return PrintComparisonResults(result, cfg, duration)
}

// WriteReport writes the plain-text comparison report to path.
func (ow *OutWriter) WriteReport(result schema.ComparisonResult, cfg *contract.Config, path string) error {
	return WriteComparisonReport(result, cfg, path)
}
