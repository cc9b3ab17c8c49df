// Package chart renders sentiment charts as PNG files.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"os"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/huangsam/commitmood/core/algo"
	"github.com/huangsam/commitmood/internal/contract"
	"github.com/huangsam/commitmood/schema"
)

// ErrNoData is returned when there is nothing to plot.
var ErrNoData = errors.New("no data to visualize")

// Canvas dimensions in pixels.
const (
	Width       = 1400
	PanelHeight = 500
	PieSize     = 800
)

// rollingWindow is the number of commits in the moving average.
const rollingWindow = 5

// Label colors shared by every chart.
var (
	PositiveColor = drawing.ColorFromHex("2ecc71")
	NeutralColor  = drawing.ColorFromHex("95a5a6")
	NegativeColor = drawing.ColorFromHex("e74c3c")
	TrendColor    = drawing.ColorFromHex("2980b9")
)

// LabelColor returns the plot color of a label.
func LabelColor(label schema.Label) drawing.Color {
	switch label {
	case schema.PositiveLabel:
		return PositiveColor
	case schema.NegativeLabel:
		return NegativeColor
	default:
		return NeutralColor
	}
}

// RenderTimeline writes a two-panel PNG to path. The top panel plots the
// compound score of each commit with a moving average; the bottom panel
// stacks daily commit counts by label.
func RenderTimeline(rows []schema.AnalysisRow, path string) error {
	top, bottom, err := timelinePanels(rows)
	if err != nil {
		return err
	}

	var topBuf, bottomBuf bytes.Buffer
	if err := top.Render(chart.PNG, &topBuf); err != nil {
		return fmt.Errorf("render sentiment panel: %w", err)
	}
	if err := bottom.Render(chart.PNG, &bottomBuf); err != nil {
		return fmt.Errorf("render daily panel: %w", err)
	}

	img, err := stack(&topBuf, &bottomBuf)
	if err != nil {
		return err
	}
	return writePNG(path, img)
}

// RenderDistribution writes a pie chart of label proportions to path.
// Labels without commits are left out.
func RenderDistribution(aggregate schema.Aggregate, path string) error {
	var values []chart.Value
	for _, label := range schema.AllLabels {
		count := aggregate.CountFor(label)
		if count == 0 {
			continue
		}
		values = append(values, chart.Value{
			Value: float64(count),
			Label: fmt.Sprintf("%s (%.1f%%)", contract.GetPlainLabel(label), aggregate.PercentFor(label)),
			Style: chart.Style{FillColor: LabelColor(label), StrokeColor: drawing.ColorWhite},
		})
	}
	if len(values) == 0 {
		return ErrNoData
	}

	pie := chart.PieChart{
		Title:  "Commit Message Sentiment Distribution",
		Width:  PieSize,
		Height: PieSize,
		Values: values,
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	return writeAndClose(f, func(w io.Writer) error {
		if err := pie.Render(chart.PNG, w); err != nil {
			return fmt.Errorf("render distribution chart: %w", err)
		}
		return nil
	})
}

// timelinePanels builds the two charts that make up the timeline.
func timelinePanels(rows []schema.AnalysisRow) (*chart.Chart, *chart.Chart, error) {
	sorted := algo.SortRowsByTime(rows)
	var (
		times     []time.Time
		compounds []float64
		labels    []schema.Label
	)
	for _, row := range sorted {
		ts, err := schema.ParseCommitTime(row.Timestamp)
		if err != nil {
			continue
		}
		times = append(times, ts)
		compounds = append(compounds, row.Compound)
		labels = append(labels, row.Label)
	}
	if len(times) == 0 {
		return nil, nil, ErrNoData
	}

	start, end := paddedRange(times[0], times[len(times)-1])

	scatter := chart.TimeSeries{
		Name: "Commit sentiment",
		Style: chart.Style{
			StrokeWidth: chart.Disabled,
			DotWidth:    4,
			DotColorProvider: func(_, _ chart.Range, index int, _, _ float64) drawing.Color {
				return LabelColor(labels[index]).WithAlpha(180)
			},
		},
		XValues: times,
		YValues: compounds,
	}
	trend := chart.TimeSeries{
		Name:    fmt.Sprintf("Moving average (%d commits)", rollingWindow),
		Style:   chart.Style{StrokeColor: TrendColor, StrokeWidth: 2},
		XValues: times,
		YValues: algo.RollingMean(compounds, rollingWindow),
	}
	zero := chart.TimeSeries{
		Name:    "Neutral",
		Style:   chart.Style{StrokeColor: drawing.ColorBlack.WithAlpha(120), StrokeWidth: 1, StrokeDashArray: []float64{5, 5}},
		XValues: []time.Time{start, end},
		YValues: []float64{0, 0},
	}

	top := &chart.Chart{
		Title:  "Commit Message Sentiment Over Time",
		Width:  Width,
		Height: PanelHeight,
		XAxis:  chart.XAxis{ValueFormatter: chart.TimeDateValueFormatter},
		YAxis: chart.YAxis{
			Name:  "Compound score",
			Range: &chart.ContinuousRange{Min: -1.05, Max: 1.05},
		},
		Series: []chart.Series{zero, scatter, trend},
	}
	top.Elements = []chart.Renderable{chart.Legend(top)}

	bottom := &chart.Chart{
		Title:  "Daily Commit Sentiment Distribution",
		Width:  Width,
		Height: PanelHeight,
		XAxis:  chart.XAxis{ValueFormatter: chart.TimeDateValueFormatter},
		YAxis:  chart.YAxis{Name: "Commits"},
		Series: dailySeries(algo.DailyLabelCounts(sorted), start, end),
	}
	bottom.YAxis.Range = &chart.ContinuousRange{Min: 0, Max: maxDaily(bottom.Series) + 1}
	bottom.Elements = []chart.Renderable{chart.Legend(bottom)}

	return top, bottom, nil
}

// dailySeries stacks label counts as cumulative filled areas. The tallest
// band comes first so the lower bands are drawn over it.
func dailySeries(days []algo.DailyCount, start, end time.Time) []chart.Series {
	xs := make([]time.Time, 0, len(days)+2)
	cumulative := make([][]float64, len(schema.AllLabels))
	xs = append(xs, start)
	for i := range cumulative {
		cumulative[i] = append(cumulative[i], 0)
	}
	for _, day := range days {
		xs = append(xs, day.Day)
		var running float64
		for i, label := range schema.AllLabels {
			running += float64(day.Counts[label])
			cumulative[i] = append(cumulative[i], running)
		}
	}
	xs = append(xs, end)
	for i := range cumulative {
		cumulative[i] = append(cumulative[i], 0)
	}

	series := make([]chart.Series, 0, len(schema.AllLabels))
	for i := len(schema.AllLabels) - 1; i >= 0; i-- {
		label := schema.AllLabels[i]
		color := LabelColor(label)
		series = append(series, chart.TimeSeries{
			Name:    contract.GetPlainLabel(label),
			Style:   chart.Style{StrokeColor: color, StrokeWidth: 1, FillColor: color.WithAlpha(160)},
			XValues: xs,
			YValues: cumulative[i],
		})
	}
	return series
}

// maxDaily returns the highest stacked value across series.
func maxDaily(series []chart.Series) float64 {
	var hi float64
	for _, s := range series {
		ts, ok := s.(chart.TimeSeries)
		if !ok {
			continue
		}
		_, top := algo.MinMax(ts.YValues)
		hi = max(hi, top)
	}
	return hi
}

// paddedRange widens a time range so the axis is never empty.
func paddedRange(start, end time.Time) (time.Time, time.Time) {
	pad := end.Sub(start) / 50
	if pad < 12*time.Hour {
		pad = 12 * time.Hour
	}
	return start.Add(-pad), end.Add(pad)
}

// stack decodes two PNG panels and draws them one above the other.
func stack(top, bottom *bytes.Buffer) (image.Image, error) {
	topImg, err := png.Decode(top)
	if err != nil {
		return nil, fmt.Errorf("decode sentiment panel: %w", err)
	}
	bottomImg, err := png.Decode(bottom)
	if err != nil {
		return nil, fmt.Errorf("decode daily panel: %w", err)
	}

	tb, bb := topImg.Bounds(), bottomImg.Bounds()
	canvas := image.NewRGBA(image.Rect(0, 0, max(tb.Dx(), bb.Dx()), tb.Dy()+bb.Dy()))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(canvas, image.Rect(0, 0, tb.Dx(), tb.Dy()), topImg, tb.Min, draw.Over)
	draw.Draw(canvas, image.Rect(0, tb.Dy(), bb.Dx(), tb.Dy()+bb.Dy()), bottomImg, bb.Min, draw.Over)
	return canvas, nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	return writeAndClose(f, func(w io.Writer) error {
		return png.Encode(w, img)
	})
}

// writeAndClose runs write against wc and closes it. A failed close is
// reported so a truncated file never counts as written.
func writeAndClose(wc io.WriteCloser, write func(io.Writer) error) error {
	werr := write(wc)
	cerr := wc.Close()
	if werr != nil {
		return werr
	}
	if cerr != nil {
		return fmt.Errorf("close chart file: %w", cerr)
	}
	return nil
}
