package outwriter

import (
	"os"

	"golang.org/x/term"

	"github.com/huangsam/commitmood/internal/contract"
)

// Bounds for the message column of the commit table.
const (
	minMessageWidth = 20
	maxMessageWidth = 80
)

// terminalWidth returns the configured width, or the detected terminal width.
func terminalWidth(cfg *contract.Config) int {
	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		return cfg.Width
	}

	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		return 80 // Conservative default for narrow terminals and CI
	}
	return detectedWidth
}

// GetMaxMessageWidth calculates the maximum width for commit messages in table output
// based on terminal width.
func GetMaxMessageWidth(cfg *contract.Config) int {
	// Date + SHA + Author + Compound + Label with borders/padding
	baseWidth := 70

	available := terminalWidth(cfg) - baseWidth
	if available < minMessageWidth {
		return minMessageWidth
	}
	if available > maxMessageWidth {
		return maxMessageWidth
	}
	return available
}

// GetMaxTableRows returns how many of the latest commits the text table shows.
// Taller terminals show more rows.
func GetMaxTableRows() int {
	_, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || height <= 0 {
		return defaultTableRows
	}
	// Leave room for the summary block and table borders
	return max(defaultTableRows, min(height-20, maxTableRows))
}
