package main

import (
	"fmt"
	"io"
	"os"
	"text/template"

	"brand-trends/internal/application/trend"
	domain "brand-trends/internal/domain/trend"
)

const reportTemplate = `{{.Metric}}: {{.Brand}} vs {{.Compare}} ({{.Weeks}} weeks, {{.From}} to {{.To}})
{{range .Cards}}
=== {{.Label}} ===
Latest:  {{.Latest}}
Average: {{.Average}}
Range:   {{.Min}} to {{.Max}}
Change:  {{.Change}}
Samples: {{.Samples}}
{{end}}
{{printf "%-8s" "Week"}} {{printf "%12s" .Brand}} {{printf "%14s" .Compare}}
{{range .Rows}}{{printf "%-8s" .Week}} {{printf "%12s" .Focal}} {{printf "%14s" .Comparison}}
{{end}}`

// Reporter 以純文字輸出趨勢統計。
type Reporter struct {
	writer io.Writer
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{writer: writer}
}

type reportCard struct {
	Label, Latest, Average, Min, Max, Change string
	Samples                                   int
}

type reportRow struct {
	Week, Focal, Comparison string
}

type reportData struct {
	Metric, Brand, Compare, From, To string
	Weeks                            int
	Cards                            []reportCard
	Rows                             []reportRow
}

func (r *Reporter) Handle(res trend.Result) error {
	t, err := template.New("report").Parse(reportTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	return t.Execute(r.writer, buildReport(res))
}

func buildReport(res trend.Result) reportData {
	v := res.View
	out := reportData{
		Metric:  v.MetricLabel,
		Brand:   v.Focal.Label,
		Compare: v.Comparison.Label,
		Weeks:   res.TotalWeeks,
		Cards:   []reportCard{card(v.Focal, v), card(v.Comparison, v)},
	}
	focal, comp := v.Series.Focal, v.Series.Comparison
	if len(focal) > 0 {
		out.From = focal[0].Week
		out.To = focal[len(focal)-1].Week
	}
	for i := range focal {
		out.Rows = append(out.Rows, reportRow{
			Week:       focal[i].Week,
			Focal:      cell(focal[i], v),
			Comparison: cell(comp[i], v),
		})
	}
	return out
}

func card(s domain.SeriesSummary, v domain.View) reportCard {
	c := reportCard{Label: s.Label, Latest: "n/a", Average: "n/a", Min: "n/a", Max: "n/a", Change: "n/a"}
	if s.Stats == nil {
		return c
	}
	c.Latest = s.Latest
	c.Average = s.Average
	c.Min = domain.FormatValue(s.Stats.Min, v.Metric)
	c.Max = domain.FormatValue(s.Stats.Max, v.Metric)
	c.Change = s.Change
	c.Samples = s.Stats.Samples
	return c
}

func cell(p domain.TimeSeriesPoint, v domain.View) string {
	if !p.Present {
		return "-"
	}
	return domain.FormatValue(p.Value, v.Metric)
}
