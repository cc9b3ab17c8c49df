package schema

import (
	"strings"
	"time"
	"unicode"
)

// cleanParts cleans a slice of name parts by trimming non-alphanumeric punctuation from ends,
// and additionally trims trailing periods for looser handling.
func cleanParts(parts []string) []string {
	var cleaned []string
	for _, p := range parts {
		cp := strings.TrimFunc(p, func(r rune) bool {
			if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '-' || r == '\'' || r == '.' {
				return false
			}
			return true
		})
		cp = strings.TrimSuffix(cp, ".")
		if cp != "" {
			cleaned = append(cleaned, cp)
		}
	}
	return cleaned
}

// getInitial extracts the initial from the last name part, using the first rune for Unicode safety.
func getInitial(last string) string {
	rr := []rune(last)
	if len(rr) > 0 {
		return string(rr[0])
	}
	return ""
}

// AbbreviateName formats "Samuel Huang" to "Samuel H".
// It handles names with parentheses, quotes, backticks, hyphens, and apostrophes appropriately.
// It also handles single-word names by returning them unchanged, and bot accounts without abbreviation.
func AbbreviateName(name string) string {
	// Trim leading/trailing whitespace.
	trimmedName := strings.TrimSpace(name)

	// Special case: bot accounts (e.g., dependabot[bot]) are not abbreviated.
	if strings.Contains(name, "[bot]") {
		parts := strings.Fields(trimmedName)
		if len(parts) > 0 {
			return strings.Join(parts, " ")
		}
		return trimmedName
	}

	// Remove outer punctuation.
	trimmedName = strings.Trim(trimmedName, "()\"'`")

	// Split into parts.
	parts := strings.Fields(trimmedName)
	cleaned := cleanParts(parts)

	// Handle based on number of cleaned parts.
	if len(cleaned) >= 2 {
		first := cleaned[0]
		last := cleaned[len(cleaned)-1]
		initial := getInitial(last)
		if initial != "" {
			return first + " " + initial
		}
		return first
	}

	if len(cleaned) == 1 {
		return cleaned[0]
	}

	// Fallback.
	return trimmedName
}

// Subject returns the first line of a commit message, truncated to maxRunes
// with a trailing ellipsis. A maxRunes below 4 disables truncation.
func Subject(message string, maxRunes int) string {
	line, _, _ := strings.Cut(strings.TrimSpace(message), "\n")
	line = strings.TrimSpace(line)
	runes := []rune(line)
	if maxRunes > 3 && len(runes) > maxRunes {
		return string(runes[:maxRunes-3]) + "..."
	}
	return line
}

// ParseCommitTime parses a commit timestamp in RFC 3339 form.
func ParseCommitTime(ts string) (time.Time, error) {
	return time.Parse(time.RFC3339, ts)
}

// CommitDay returns the UTC calendar day of a commit timestamp.
func CommitDay(ts string) (time.Time, error) {
	t, err := ParseCommitTime(ts)
	if err != nil {
		return time.Time{}, err
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}
