// Package report renders a per-collection language-distribution
// dashboard: one bar chart per collection plus a single standalone HTML
// page.
package report

import (
	"sort"

	charts "github.com/vicanso/go-charts/v2"

	"github.com/impresso-project/lid-ensemble-go/pkg/types"
)

const (
	barChartWidth   = 520
	barChartHeight  = 320
	barChartPad     = 30
	maxBarLanguages = 10 // keep the dashboard readable on long-tail collections
)

// languageBarChart renders the ensemble language distribution for one
// collection as an SVG bar chart, keeping at most maxBarLanguages of the
// most frequent languages.
func languageBarChart(stats types.CollectionStats) (string, error) {
	dist := stats.LidDistributions["ensemble"]
	if len(dist) == 0 {
		return "", nil
	}

	type entry struct {
		lang  string
		ratio float64
	}
	entries := make([]entry, 0, len(dist))
	for lang, ratio := range dist {
		entries = append(entries, entry{lang, ratio})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ratio > entries[j].ratio })
	if len(entries) > maxBarLanguages {
		entries = entries[:maxBarLanguages]
	}

	names := make([]string, len(entries))
	values := make([]float64, len(entries))
	for i, e := range entries {
		names[i] = e.lang
		values[i] = e.ratio
	}

	p, err := charts.BarRender(
		[][]float64{values},
		charts.SVGTypeOption(),
		charts.TitleTextOptionFunc(stats.Collection+" -- language distribution"),
		charts.XAxisDataOptionFunc(names),
		charts.ThemeOptionFunc("light"),
		charts.WidthOptionFunc(barChartWidth),
		charts.HeightOptionFunc(barChartHeight),
		charts.PaddingOptionFunc(charts.Box{Top: barChartPad, Right: barChartPad, Bottom: barChartPad, Left: barChartPad}),
	)
	if err != nil {
		return "", err
	}
	buf, err := p.Bytes()
	if err != nil {
		return "", err
	}
	return string(buf), nil
}
