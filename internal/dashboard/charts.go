package dashboard

import (
	"fmt"
	"sort"

	"loandash/domain/core"
	"loandash/internal/analysis"
)

// Chart types understood by the page script
const (
	ChartLine      = "line"
	ChartBar       = "bar"
	ChartPie       = "pie"
	ChartHistogram = "histogram"
	ChartBox       = "box"
)

var defaultColors = []string{
	"#4C72B0", "#DD8452", "#55A868", "#C44E52", "#8172B3",
	"#937860", "#DA8BC3", "#8C8C8C", "#CCB974", "#64B5CD",
}

// ChartPoint is one labelled value
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// ChartSeries is one named trace
type ChartSeries struct {
	Name string       `json:"name"`
	Data []ChartPoint `json:"data"`
}

// BoxSeries groups the box statistics of one term across purposes
type BoxSeries struct {
	Name  string              `json:"name"`
	Boxes []analysis.BoxStats `json:"boxes"`
}

// ChartConfig is the renderer-neutral description of a chart
type ChartConfig struct {
	ID         string        `json:"id"`
	ChartType  string        `json:"chart_type"`
	Title      string        `json:"title"`
	XAxis      string        `json:"x_axis,omitempty"`
	YAxis      string        `json:"y_axis,omitempty"`
	ShowLegend bool          `json:"show_legend"`
	Markers    bool          `json:"markers,omitempty"`
	Hole       float64       `json:"hole,omitempty"`
	BinEdges   []float64     `json:"bin_edges,omitempty"`
	Series     []ChartSeries `json:"series,omitempty"`
	Boxes      []BoxSeries   `json:"boxes,omitempty"`
	Colors     []string      `json:"colors"`
}

// Tab is one tab of a tabbed chart container
type Tab struct {
	Label string      `json:"label"`
	Chart ChartConfig `json:"chart"`
}

func assignColors(n int) []string {
	colors := make([]string, n)
	for i := range colors {
		colors[i] = defaultColors[i%len(defaultColors)]
	}
	return colors
}

func newChart(id, chartType, title, xAxis, yAxis string) ChartConfig {
	return ChartConfig{
		ID:        id,
		ChartType: chartType,
		Title:     title,
		XAxis:     xAxis,
		YAxis:     yAxis,
	}
}

func dateSeriesChart(id, title, yAxis string, points []analysis.DatePoint) ChartConfig {
	data := make([]ChartPoint, len(points))
	for i, p := range points {
		data[i] = ChartPoint{Label: p.Date.Format(core.DateLayout), Value: p.Value}
	}
	c := newChart(id, ChartLine, title, "Issue Date", yAxis)
	c.Markers = true
	c.Series = []ChartSeries{{Name: yAxis, Data: data}}
	c.Colors = assignColors(1)
	return c
}

func bucketChart(id, chartType, title, xAxis, yAxis string, buckets []analysis.Bucket) ChartConfig {
	data := make([]ChartPoint, len(buckets))
	for i, b := range buckets {
		data[i] = ChartPoint{Label: b.Label, Value: float64(b.Count)}
	}
	c := newChart(id, chartType, title, xAxis, yAxis)
	c.Series = []ChartSeries{{Name: yAxis, Data: data}}
	if chartType == ChartPie {
		c.ShowLegend = true
		c.Colors = assignColors(len(data))
	} else {
		c.Colors = assignColors(1)
	}
	return c
}

func histogramChart(id, title string, h analysis.Histogram) ChartConfig {
	c := newChart(id, ChartHistogram, title, "Loan Amount", "count")
	c.ShowLegend = true
	c.BinEdges = h.Edges
	for _, s := range h.Series {
		data := make([]ChartPoint, len(s.Counts))
		for i, n := range s.Counts {
			data[i] = ChartPoint{Label: binLabel(h.Edges[i], h.Edges[i+1]), Value: n}
		}
		c.Series = append(c.Series, ChartSeries{Name: s.Term, Data: data})
	}
	c.Colors = assignColors(len(c.Series))
	return c
}

func binLabel(lo, hi float64) string {
	return fmt.Sprintf("%s-%s", FormatCount(lo), FormatCount(hi))
}

func boxChart(id, title string, boxes []analysis.BoxStats) ChartConfig {
	c := newChart(id, ChartBox, title, "Loan Purpose", "Loan Amount")
	c.ShowLegend = true

	index := make(map[string]int)
	for _, b := range boxes {
		i, ok := index[b.Term]
		if !ok {
			i = len(c.Boxes)
			index[b.Term] = i
			c.Boxes = append(c.Boxes, BoxSeries{Name: b.Term})
		}
		c.Boxes[i].Boxes = append(c.Boxes[i].Boxes, b)
	}
	sort.Slice(c.Boxes, func(i, j int) bool { return c.Boxes[i].Name < c.Boxes[j].Name })
	c.Colors = assignColors(len(c.Boxes))
	return c
}
