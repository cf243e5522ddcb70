package trend

import (
	"errors"
	"fmt"

	"brand-trends/internal/domain/brandanalysis"
)

// MinimumRecords 為顯示趨勢所需的最少週數。
const MinimumRecords = 2

var (
	ErrNotEnoughData = errors.New("not enough analyses for trends")
	ErrInvalidConfig = errors.New("invalid trend config")
)

// SeriesSummary 為單一序列的統計卡片。
type SeriesSummary struct {
	Label     string      `json:"label"`
	Stats     *Statistics `json:"stats"`
	Latest    string      `json:"latest"`
	Average   string      `json:"average"`
	Change    string      `json:"change"`
	Direction string      `json:"direction"`
}

// AxisLabel 為 X 軸週標籤。
type AxisLabel struct {
	X    float64 `json:"x"`
	Text string  `json:"text"`
}

// ChartLayout 為雙線圖所需的全部座標。
type ChartLayout struct {
	Frame              Frame        `json:"frame"`
	Domain             Domain       `json:"domain"`
	Focal              []ChartPoint `json:"primary"`
	Comparison         []ChartPoint `json:"comparison"`
	FocalSegments      []Segment    `json:"primary_segments"`
	ComparisonSegments []Segment    `json:"comparison_segments"`
	Gridlines          []Gridline   `json:"gridlines"`
	XLabels            []AxisLabel  `json:"x_labels"`
}

// View 為一次趨勢計算的完整結果。
type View struct {
	Config      Config                  `json:"-"`
	Metric      brandanalysis.MetricKey `json:"metric"`
	MetricLabel string                  `json:"metric_label"`
	Unit        string                  `json:"unit"`
	Series      Pair                    `json:"series"`
	Focal       SeriesSummary           `json:"primary_stats"`
	Comparison  SeriesSummary           `json:"comparison_stats"`
	Chart       ChartLayout             `json:"chart"`
}

// Validate 檢查選擇條件是否可計算。未知的品牌或指標不算錯誤，只會得到全零序列。
func (c Config) Validate() error {
	if c.FocalBrand == "" {
		return fmt.Errorf("%w: focal brand is required", ErrInvalidConfig)
	}
	return nil
}

// Compute 依已排序的週報產出序列、統計與版面。gridlines < 2 時使用預設值。
func Compute(records []brandanalysis.AnalysisRecord, cfg Config, frame Frame, gridlines int) (View, error) {
	if err := cfg.Validate(); err != nil {
		return View{}, err
	}
	if len(records) < MinimumRecords {
		return View{}, ErrNotEnoughData
	}

	pair := BuildSeries(records, cfg)
	opts := StatsOptions{SkipMissing: cfg.SkipMissing}

	domain := DomainOf(pair.Focal, pair.Comparison)
	if cfg.SkipMissing && hasPresent(pair) {
		domain = DomainOf(presentOnly(pair.Focal), presentOnly(pair.Comparison))
	}

	focalPts := Layout(pair.Focal, domain, frame)
	compPts := Layout(pair.Comparison, domain, frame)
	annotate(focalPts, cfg)
	annotate(compPts, cfg)

	grid := Gridlines(domain, frame, gridlines)
	for i := range grid {
		grid[i].Label = FormatAxis(grid[i].Value)
	}

	xLabels := make([]AxisLabel, len(pair.Focal))
	for i, p := range pair.Focal {
		xLabels[i] = AxisLabel{X: frame.X(i, len(pair.Focal)), Text: p.Week}
	}

	return View{
		Config:      cfg,
		Metric:      cfg.Metric,
		MetricLabel: cfg.Metric.Label(),
		Unit:        cfg.Metric.Unit(),
		Series:      pair,
		Focal:       summarize(cfg.FocalBrand, ComputeStatsWith(pair.Focal, opts), cfg.Metric),
		Comparison:  summarize(cfg.ComparisonLabel(), ComputeStatsWith(pair.Comparison, opts), cfg.Metric),
		Chart: ChartLayout{
			Frame:              frame,
			Domain:             domain,
			Focal:              focalPts,
			Comparison:         compPts,
			FocalSegments:      Segments(focalPts, cfg.SkipMissing),
			ComparisonSegments: Segments(compPts, cfg.SkipMissing),
			Gridlines:          grid,
			XLabels:            xLabels,
		},
	}, nil
}

func annotate(points []ChartPoint, cfg Config) {
	for i := range points {
		points[i].Tooltip = Tooltip(points[i].Point, cfg.Metric, cfg.SkipMissing)
	}
}

func summarize(label string, s *Statistics, metric brandanalysis.MetricKey) SeriesSummary {
	out := SeriesSummary{Label: label, Stats: s}
	if s == nil {
		return out
	}
	out.Latest = FormatValue(s.Latest, metric)
	out.Average = FormatValue(s.Average, metric)
	out.Change = FormatChange(s)
	out.Direction = s.Direction()
	return out
}

func presentOnly(s Series) Series {
	out := make(Series, 0, len(s))
	for _, p := range s {
		if p.Present {
			out = append(out, p)
		}
	}
	return out
}

func hasPresent(p Pair) bool {
	for _, s := range []Series{p.Focal, p.Comparison} {
		for _, pt := range s {
			if pt.Present {
				return true
			}
		}
	}
	return false
}
