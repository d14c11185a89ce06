// Package report summarises proving durations and renders them as an HTML
// bar chart.
package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/pkg/errors"
)

// Sample is one timed proving run.
type Sample struct {
	Program  string
	Operands int
	Duration time.Duration
}

// Stats summarises the durations of one program at one operand count.
// Durations are in milliseconds.
type Stats struct {
	Program  string  `json:"program"`
	Operands int     `json:"operands"`
	Count    int     `json:"count"`
	Mean     float64 `json:"mean_ms"`
	Std      float64 `json:"std_ms"`
	Min      float64 `json:"min_ms"`
	Median   float64 `json:"median_ms"`
	Max      float64 `json:"max_ms"`
}

// Label names the group of s.
func (s Stats) Label() string {
	return fmt.Sprintf("%s/%d", s.Program, s.Operands)
}

type groupKey struct {
	program  string
	operands int
}

// Summarize groups samples by program and operand count. Groups are ordered
// by program, then by operand count.
func Summarize(samples []Sample) []Stats {
	groups := make(map[groupKey][]float64)
	for _, s := range samples {
		k := groupKey{s.Program, s.Operands}
		groups[k] = append(groups[k], float64(s.Duration)/float64(time.Millisecond))
	}

	out := make([]Stats, 0, len(groups))
	for k, ms := range groups {
		st := computeStats(ms)
		st.Program = k.program
		st.Operands = k.operands
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Program != out[j].Program {
			return out[i].Program < out[j].Program
		}
		return out[i].Operands < out[j].Operands
	})
	return out
}

func computeStats(x []float64) Stats {
	n := len(x)
	if n == 0 {
		return Stats{}
	}
	cp := append([]float64(nil), x...)
	sort.Float64s(cp)

	var m float64
	for _, v := range x {
		m += v
	}
	m /= float64(n)

	var std float64
	if n > 1 {
		var m2 float64
		for _, v := range x {
			d := v - m
			m2 += d * d
		}
		std = math.Sqrt(m2 / float64(n-1))
	}
	return Stats{Count: n, Mean: m, Std: std, Min: cp[0], Median: quantileSorted(cp, 0.5), Max: cp[n-1]}
}

func quantileSorted(sorted []float64, p float64) float64 {
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := p * float64(len(sorted)-1)
	l := int(math.Floor(pos))
	r := int(math.Ceil(pos))
	if l == r {
		return sorted[l]
	}
	w := pos - float64(l)
	return sorted[l]*(1-w) + sorted[r]*w
}

func toBarItems(vals []float64) []opts.BarData {
	out := make([]opts.BarData, len(vals))
	for i, v := range vals {
		out[i] = opts.BarData{Value: v}
	}
	return out
}

func newDurationChart(title string, stats []Stats) *charts.Bar {
	labels := make([]string, len(stats))
	mean := make([]float64, len(stats))
	median := make([]float64, len(stats))
	for i, st := range stats {
		labels[i] = st.Label()
		mean[i] = st.Mean
		median[i] = st.Median
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: "proving time (ms)"}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1200px", Height: "600px"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(labels).
		AddSeries("mean", toBarItems(mean)).
		AddSeries("median", toBarItems(median)).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}))
	return bar
}

// Render writes an HTML page charting stats to w.
func Render(w io.Writer, title string, stats []Stats) error {
	if len(stats) == 0 {
		return errors.New("nothing to render")
	}
	page := components.NewPage()
	page.PageTitle = title
	page.AddCharts(newDurationChart(title, stats))
	return errors.Wrap(page.Render(w), "render report")
}
