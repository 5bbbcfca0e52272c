package web

import (
	"fmt"

	"github.com/Ayush-535-Programmer/Spotify-Playlist-Analyzer/internal/analysis"
)

// Chart geometry in SVG user units.
const (
	chartTop        = 24
	chartLeft       = 40
	chartRightPad   = 16
	chartPlotHeight = 240
	chartLabelSpace = 80
	chartGroupWidth = 28
	chartGroupGap   = 6
	chartMaxTicks   = 5
)

type chartBar struct {
	X, Y, Width, Height int
	Class               string
	Title               string
}

type chartText struct {
	X, Y  int
	Label string
}

// chartView is a grouped bar chart of tracks added per day, laid out for the report template.
type chartView struct {
	Width, Height              int
	Top, Left, Right, Baseline int
	Bars                       []chartBar
	Labels                     []chartText
	Ticks                      []chartText
	LegendA, LegendB           string
	Empty                      bool
}

// buildChart lays out one pair of bars per histogram date, A on the left.
func buildChart(h analysis.Histogram, legendA, legendB string) chartView {
	if len(h) == 0 {
		return chartView{Empty: true, LegendA: legendA, LegendB: legendB}
	}

	top := h.Max()
	plotWidth := len(h) * chartGroupWidth
	baseline := chartTop + chartPlotHeight

	c := chartView{
		Width:    chartLeft + plotWidth + chartRightPad,
		Height:   baseline + chartLabelSpace,
		Top:      chartTop,
		Left:     chartLeft,
		Right:    chartLeft + plotWidth,
		Baseline: baseline,
		LegendA:  legendA,
		LegendB:  legendB,
	}

	barWidth := (chartGroupWidth - chartGroupGap) / 2
	scale := func(n int) int {
		return n * chartPlotHeight / top
	}

	for i, dc := range h {
		x := chartLeft + i*chartGroupWidth + chartGroupGap/2
		date := dc.Date.String()

		for j, bar := range []struct {
			count int
			class string
			name  string
		}{{dc.A, "bar-a", legendA}, {dc.B, "bar-b", legendB}} {
			height := scale(bar.count)
			c.Bars = append(c.Bars, chartBar{
				X:      x + j*barWidth,
				Y:      baseline - height,
				Width:  barWidth,
				Height: height,
				Class:  bar.class,
				Title:  fmt.Sprintf("%s: %d added to %s", date, bar.count, bar.name),
			})
		}

		c.Labels = append(c.Labels, chartText{X: x + barWidth, Y: baseline + 12, Label: date})
	}

	step := (top + chartMaxTicks - 1) / chartMaxTicks
	for v := 0; v <= top; v += step {
		c.Ticks = append(c.Ticks, chartText{X: chartLeft - 6, Y: baseline - scale(v) + 3, Label: fmt.Sprint(v)})
	}

	return c
}
