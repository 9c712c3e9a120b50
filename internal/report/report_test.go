package report

import (
	"strings"
	"testing"

	"github.com/impresso-project/lid-ensemble-go/pkg/types"
)

func ratioPtr(f float64) *float64 { return &f }

func sampleStats() types.CollectionStats {
	return types.CollectionStats{
		Collection: "GDL",
		N:          120,
		LidDistributions: map[string]map[string]float64{
			"ensemble": {"de": 0.6, "fr": 0.35, "lb": 0.05},
		},
		OverallOrigLgSupport:  ratioPtr(0.9),
		DominantLanguage:      "de",
		DominantLanguageRatio: 0.6,
	}
}

func TestLanguageBarChartRendersSVGForNonEmptyDistribution(t *testing.T) {
	svg, err := languageBarChart(sampleStats())
	if err != nil {
		t.Fatalf("languageBarChart: %v", err)
	}
	if !strings.Contains(svg, "<svg") {
		t.Errorf("languageBarChart() = %q, want an <svg> element", svg)
	}
}

func TestLanguageBarChartEmptyDistributionReturnsEmptyString(t *testing.T) {
	svg, err := languageBarChart(types.CollectionStats{Collection: "EMPTY"})
	if err != nil {
		t.Fatalf("languageBarChart: %v", err)
	}
	if svg != "" {
		t.Errorf("languageBarChart() on empty distribution = %q, want empty", svg)
	}
}

func TestWriteHTMLIncludesEachCollection(t *testing.T) {
	var buf strings.Builder
	stats := []types.CollectionStats{sampleStats(), {Collection: "JDG", N: 5, DominantLanguage: "fr", DominantLanguageRatio: 1}}

	if err := WriteHTML(&buf, "test", "2026-07-30T00:00:00Z", stats); err != nil {
		t.Fatalf("WriteHTML: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"GDL", "JDG", "lidens test"} {
		if !strings.Contains(out, want) {
			t.Errorf("WriteHTML() output missing %q", want)
		}
	}
}

func TestWriteHTMLShowsNAForNilOrigLgSupport(t *testing.T) {
	var buf strings.Builder
	stats := []types.CollectionStats{{Collection: "NOORIG", N: 3}}

	if err := WriteHTML(&buf, "test", "2026-07-30T00:00:00Z", stats); err != nil {
		t.Fatalf("WriteHTML: %v", err)
	}
	if !strings.Contains(buf.String(), "n/a") {
		t.Errorf("WriteHTML() should render n/a for a nil OverallOrigLgSupport")
	}
}

func TestFormatPercent(t *testing.T) {
	if got := formatPercent(0.604); got != "60.4" {
		t.Errorf("formatPercent(0.604) = %q, want 60.4", got)
	}
}
