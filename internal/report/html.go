package report

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"sort"

	"github.com/impresso-project/lid-ensemble-go/internal/textstat"
	"github.com/impresso-project/lid-ensemble-go/pkg/types"
)

//go:embed templates/report.html templates/report.css
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/report.html"))

// collectionView is the per-collection data the HTML template renders;
// CollectionStats is reshaped here because html/template should not
// have to know about nested maps and nullable pointers.
type collectionView struct {
	Name                        string
	N                           int
	DominantLanguage            string
	DominantLanguageRatioPct    string
	OverallOrigLgSupportDisplay string
	ChartSVG                    template.HTML
}

// pageData is the root object passed to the template.
type pageData struct {
	GeneratedAt string
	Version     string
	InlineCSS   template.CSS
	Collections []collectionView
}

// WriteHTML renders a single standalone HTML dashboard for every given
// collection's stats, one bar chart and summary table per collection,
// sorted by collection name for a stable page layout.
func WriteHTML(w io.Writer, version, generatedAt string, stats []types.CollectionStats) error {
	css, err := templateFS.ReadFile("templates/report.css")
	if err != nil {
		return fmt.Errorf("report: read embedded stylesheet: %w", err)
	}

	sorted := append([]types.CollectionStats(nil), stats...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Collection < sorted[j].Collection })

	views := make([]collectionView, len(sorted))
	for i, s := range sorted {
		svg, err := languageBarChart(s)
		if err != nil {
			return fmt.Errorf("report: render chart for %s: %w", s.Collection, err)
		}
		views[i] = collectionView{
			Name:                        s.Collection,
			N:                           s.N,
			DominantLanguage:            s.DominantLanguage,
			DominantLanguageRatioPct:    formatPercent(s.DominantLanguageRatio),
			OverallOrigLgSupportDisplay: formatOrigLgSupport(s.OverallOrigLgSupport),
			ChartSVG:                    template.HTML(svg),
		}
	}

	data := pageData{
		GeneratedAt: generatedAt,
		Version:     version,
		InlineCSS:   template.CSS(css),
		Collections: views,
	}
	return pageTemplate.Execute(w, data)
}

func formatPercent(ratio float64) string {
	return fmt.Sprintf("%.1f", textstat.Round(ratio*100, 1))
}

func formatOrigLgSupport(support *float64) string {
	if support == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", *support)
}
