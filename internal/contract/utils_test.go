package contract

import (
	"testing"

	"github.com/fatih/color"
	"github.com/huangsam/commitmood/schema"
	"github.com/stretchr/testify/assert"
)

func TestGetPlainLabel(t *testing.T) {
	assert.Equal(t, PositiveValue, GetPlainLabel(schema.PositiveLabel))
	assert.Equal(t, NeutralValue, GetPlainLabel(schema.NeutralLabel))
	assert.Equal(t, NegativeValue, GetPlainLabel(schema.NegativeLabel))
	assert.Equal(t, NeutralValue, GetPlainLabel("unknown"))
}

func TestGetColorLabel(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	assert.Equal(t, PositiveValue, GetColorLabel(schema.PositiveLabel))
	assert.Equal(t, NegativeValue, GetColorLabel(schema.NegativeLabel))
}

func TestTruncateText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxWidth int
		want     string
	}{
		{"short", "Fix bug", 20, "Fix bug"},
		{"exact", "Fix bug", 7, "Fix bug"},
		{"truncated", "Refactor storage layer", 10, "Refacto..."},
		{"tiny width ignored", "Refactor", 3, "Refactor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateText(tt.text, tt.maxWidth))
		})
	}
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "TRUE", "1"} {
		v, err := ParseBoolString(s)
		assert.NoError(t, err)
		assert.True(t, v, s)
	}
	for _, s := range []string{"no", "False", "0"} {
		v, err := ParseBoolString(s)
		assert.NoError(t, err)
		assert.False(t, v, s)
	}
	_, err := ParseBoolString("maybe")
	assert.Error(t, err)
}

func TestDBFilePathsDiffer(t *testing.T) {
	assert.NotEqual(t, GetCacheDBFilePath(), GetHistoryDBFilePath())
}
