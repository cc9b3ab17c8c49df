package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/huangsam/commitmood/schema"
)

// Display values for sentiment labels.
const (
	PositiveValue = "Positive"
	NeutralValue  = "Neutral"
	NegativeValue = "Negative"
)

// Color variables for console output.
var (
	PositiveColor = color.New(color.FgGreen, color.Bold) // PositiveColor marks upbeat commits.
	NeutralColor  = color.New(color.FgYellow)            // NeutralColor is informational, not bold.
	NegativeColor = color.New(color.FgRed, color.Bold)   // NegativeColor represents standard danger.
)

// GetPlainLabel returns the display text for a sentiment label.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(label schema.Label) string {
	switch label {
	case schema.PositiveLabel:
		return PositiveValue
	case schema.NegativeLabel:
		return NegativeValue
	default:
		return NeutralValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
func GetColorLabel(label schema.Label) string {
	text := GetPlainLabel(label)

	switch label {
	case schema.PositiveLabel:
		return PositiveColor.Sprint(text)
	case schema.NegativeLabel:
		return NegativeColor.Sprint(text)
	default:
		return NeutralColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".commitmood_cache.db"
	}
	return filepath.Join(homeDir, ".commitmood_cache.db")
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for run history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".commitmood_history.db"
	}
	return filepath.Join(homeDir, ".commitmood_history.db")
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the "..." and at least one character.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
