package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAbbreviateName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		// Basic cases
		{"popcorn", "popcorn"},            // single-part name
		{"Samuel Huang", "Samuel H"},      // standard two-part name
		{"First Second Third", "First T"}, // three substantial parts, uses last

		// Punctuation
		{"`backtickname", "backtickname"},    // name with backticks
		{"Ava (Billy) Cathy", "Ava C"},       // name with parentheses
		{"O'Neill John", "O'Neill J"},        // name with apostrophe
		{"Anne-Marie Smith", "Anne-Marie S"}, // name with hyphen
		{"Test-Name", "Test-Name"},           // hyphen in middle, single part

		// Spaces
		{"  Alice  ", "Alice"},   // leading/trailing spaces
		{"John   Doe", "John D"}, // multiple spaces

		// Initials and suffixes
		{"A B", "A B"},                      // two parts, uses last single letter
		{"X Y Z", "X Z"},                    // three parts, uses last single letter
		{"A B C D", "A D"},                  // four parts, uses last single letter
		{"A. B. C.", "A C"},                 // initials with periods, trimmed
		{"John D. Smith", "John S"},         // Initial as a middle component
		{"J. R. R. Tolkien", "J T"},         // Multiple initials
		{"Charles Darwin III", "Charles I"}, // Suffix as the last component
		{"Mr. Robert E. Lee", "Mr L"},       // Honorific and middle initial
		{"Dr. Mary J. Jane", "Dr J"},        // Honorific and middle initial (with period)

		// Symbols and special cases
		{"*Security-Bot*", "Security-Bot"},         // Leading/trailing symbols
		{"[John Smith]", "John S"},                 // Name fully wrapped in brackets
		{"C++-Bot", "C++-Bot"},                     // Single-part name with internal symbols
		{"123 Test", "123 T"},                      // starts with number
		{"user@example.com", "user@example.com"},   // E-mail as a name (single part)
		{"O'Malley-Ryan, Sean", "O'Malley-Ryan S"}, // Comma and hyphenated first name
		{"Ludwig van Beethoven", "Ludwig B"},       // Name with common prefix "van"
		{"Leonardo da Vinci", "Leonardo V"},        // Name with common prefix "da"

		// Bot accounts
		{"dependabot[bot]", "dependabot[bot]"},   // bot account, no abbreviation
		{"dependabot [bot]", "dependabot [bot]"}, // bot account with space, no abbreviation

		// Unicode
		{"张三", "张三"},                            // Chinese name, single part
		{"李 明", "李 明"},                          // Two-part Chinese name (First + Initial of Last character)
		{"राम कुमार", "राम क"},                  // Hindi name with Unicode
		{"Hans Müller", "Hans M"},               // German name with umlaut
		{"Jean-Pierre Dubois", "Jean-Pierre D"}, // French name with hyphen
		{"José María", "José M"},                // Spanish name with accent
		{"山田太郎", "山田太郎"},                        // Japanese name, single part
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AbbreviateName(tt.name)
			assert.Equal(t, tt.want, got, "AbbreviateName(%q) should match expected result", tt.name)
		})
	}
}

func TestSubject(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		maxRunes int
		want     string
	}{
		{"single line", "Fix typo", 50, "Fix typo"},
		{"multi line", "Add parser\n\nLonger body here", 50, "Add parser"},
		{"surrounding space", "  Bump deps  \n", 50, "Bump deps"},
		{"truncated", "Refactor the whole storage layer", 12, "Refactor ..."},
		{"unicode truncated", "修复了一个严重的错误", 6, "修复了..."},
		{"no truncation when tiny", "Refactor everything", 3, "Refactor everything"},
		{"empty", "", 10, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Subject(tt.message, tt.maxRunes))
		})
	}
}

func TestCommitDay(t *testing.T) {
	day, err := CommitDay("2024-03-05T23:10:00-02:00")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC), day)

	_, err = CommitDay("yesterday")
	assert.Error(t, err)
}

func TestRepoRefFullName(t *testing.T) {
	ref := RepoRef{Owner: "octocat", Name: "hello-world"}
	assert.Equal(t, "octocat/hello-world", ref.FullName())
}

func TestAggregateLabelAccessors(t *testing.T) {
	agg := Aggregate{
		Total:           4,
		PositiveCount:   2,
		NeutralCount:    1,
		NegativeCount:   1,
		PositivePercent: 50,
		NeutralPercent:  25,
		NegativePercent: 25,
	}

	assert.Equal(t, 2, agg.CountFor(PositiveLabel))
	assert.Equal(t, 1, agg.CountFor(NeutralLabel))
	assert.Equal(t, 1, agg.CountFor(NegativeLabel))
	assert.Equal(t, 50.0, agg.PercentFor(PositiveLabel))
	assert.Equal(t, 25.0, agg.PercentFor(NegativeLabel))
}
