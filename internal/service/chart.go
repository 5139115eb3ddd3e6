package service

import (
	"errors"
	"io"
	"strings"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrEmptyPlot is returned when rendering a plot without samples.
var ErrEmptyPlot = errors.New("plot has no data")

// Timestamp layouts seen in model outputs, tried in order.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

var lineColors = map[string]string{
	"blue": "0000ff",
	"red":  "ff0000",
}

const (
	chartWidth  = 1024
	chartHeight = 400
)

// RenderPNG draws the plot as a PNG line chart.
func RenderPNG(w io.Writer, p Plot) error {
	var series []chart.Series
	for _, s := range p.Data {
		if len(s.Y) == 0 {
			continue
		}
		series = append(series, chartSeries(s))
	}
	if len(series) == 0 {
		return ErrEmptyPlot
	}

	graph := chart.Chart{
		Title:      p.Title,
		Width:      chartWidth,
		Height:     chartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		YAxis:      chart.YAxis{Name: p.Layout.YAxis.Title},
		Series:     series,
	}
	if _, ok := series[0].(chart.TimeSeries); ok {
		graph.XAxis = chart.XAxis{ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01-02 15:04")}
	}

	return graph.Render(chart.PNG, w)
}

func chartSeries(s Series) chart.Series {
	hex, ok := lineColors[s.Line.Color]
	if !ok {
		hex = "333333"
	}
	style := chart.Style{
		StrokeColor: drawing.ColorFromHex(hex),
		StrokeWidth: float64(s.Line.Width),
	}

	ys := s.Y
	if times, ok := parseTimes(s.X); ok && len(times) == len(ys) {
		if len(ys) == 1 {
			// go-chart cannot draw a zero-width range; extend a lone sample
			// into a flat segment.
			times = append(times, times[0].Add(time.Hour))
			ys = []float64{ys[0], ys[0]}
		}
		return chart.TimeSeries{Name: s.Name, Style: style, XValues: times, YValues: ys}
	}

	if len(ys) == 1 {
		ys = []float64{ys[0], ys[0]}
	}
	xs := make([]float64, len(ys))
	for i := range xs {
		xs[i] = float64(i)
	}
	return chart.ContinuousSeries{Name: s.Name, Style: style, XValues: xs, YValues: ys}
}

// parseTimes parses every value with the first layout that accepts the
// first value.
func parseTimes(values []string) ([]time.Time, bool) {
	if len(values) == 0 {
		return nil, false
	}

	for _, layout := range timeLayouts {
		if _, err := time.Parse(layout, strings.TrimSpace(values[0])); err != nil {
			continue
		}
		times := make([]time.Time, len(values))
		for i, v := range values {
			t, err := time.Parse(layout, strings.TrimSpace(v))
			if err != nil {
				return nil, false
			}
			times[i] = t
		}
		return times, true
	}
	return nil, false
}
