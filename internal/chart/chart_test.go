package chart

import (
	"bytes"
	"errors"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/commitmood/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRows() []schema.AnalysisRow {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	scores := []schema.ScoreResult{
		{Compound: 0.6, Positive: 0.5, Neutral: 0.5, Label: schema.PositiveLabel},
		{Compound: 0, Neutral: 1, Label: schema.NeutralLabel},
		{Compound: -0.4, Negative: 0.4, Neutral: 0.6, Label: schema.NegativeLabel},
		{Compound: 0.3, Positive: 0.3, Neutral: 0.7, Label: schema.PositiveLabel},
		{Compound: 0.01, Neutral: 1, Label: schema.NeutralLabel},
		{Compound: -0.7, Negative: 0.6, Neutral: 0.4, Label: schema.NegativeLabel},
	}
	rows := make([]schema.AnalysisRow, len(scores))
	for i, score := range scores {
		rows[i] = schema.AnalysisRow{
			CommitRecord: schema.CommitRecord{
				ShortHash: "abcdef" + string(rune('0'+i)),
				Message:   "commit",
				Timestamp: base.Add(time.Duration(i) * 20 * time.Hour).Format(time.RFC3339),
				Author:    "dev",
			},
			ScoreResult: score,
		}
	}
	return rows
}

func decodePNG(t *testing.T, path string) (int, int) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	return cfg.Width, cfg.Height
}

func TestRenderTimeline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sentiment_analysis.png")
	require.NoError(t, RenderTimeline(sampleRows(), path))

	w, h := decodePNG(t, path)
	assert.Equal(t, Width, w)
	assert.Equal(t, 2*PanelHeight, h)
}

func TestRenderTimelineSameInstant(t *testing.T) {
	rows := sampleRows()[:2]
	rows[1].Timestamp = rows[0].Timestamp

	path := filepath.Join(t.TempDir(), "same.png")
	require.NoError(t, RenderTimeline(rows, path))
	_, h := decodePNG(t, path)
	assert.Equal(t, 2*PanelHeight, h)
}

func TestRenderTimelineNoData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.png")
	assert.ErrorIs(t, RenderTimeline(nil, path), ErrNoData)

	bad := sampleRows()[:1]
	bad[0].Timestamp = "not a date"
	assert.ErrorIs(t, RenderTimeline(bad, path), ErrNoData)

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestRenderDistribution(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sentiment_distribution.png")
	aggregate := schema.Aggregate{
		Total: 4, PositiveCount: 3, NegativeCount: 1,
		PositivePercent: 75, NegativePercent: 25,
	}
	require.NoError(t, RenderDistribution(aggregate, path))

	w, h := decodePNG(t, path)
	assert.Equal(t, PieSize, w)
	assert.Equal(t, PieSize, h)
}

func TestRenderDistributionNoData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "none.png")
	assert.ErrorIs(t, RenderDistribution(schema.Aggregate{}, path), ErrNoData)
}

func TestPaddedRange(t *testing.T) {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	start, end := paddedRange(at, at)
	assert.True(t, start.Before(at))
	assert.True(t, end.After(at))
}

func TestLabelColor(t *testing.T) {
	assert.Equal(t, PositiveColor, LabelColor(schema.PositiveLabel))
	assert.Equal(t, NegativeColor, LabelColor(schema.NegativeLabel))
	assert.Equal(t, NeutralColor, LabelColor(schema.NeutralLabel))
}

// failingCloser records writes and fails on Close.
type failingCloser struct {
	bytes.Buffer
	closed bool
}

func (f *failingCloser) Close() error {
	f.closed = true
	return errors.New("disk full")
}

func TestWriteAndClose(t *testing.T) {
	t.Run("close error reported", func(t *testing.T) {
		wc := &failingCloser{}
		err := writeAndClose(wc, func(w io.Writer) error {
			_, werr := w.Write([]byte("png"))
			return werr
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
		assert.True(t, wc.closed)
		assert.Equal(t, "png", wc.String())
	})

	t.Run("write error wins and file is still closed", func(t *testing.T) {
		wc := &failingCloser{}
		err := writeAndClose(wc, func(io.Writer) error { return assert.AnError })
		assert.ErrorIs(t, err, assert.AnError)
		assert.True(t, wc.closed)
	})
}
