package trend

import (
	"fmt"
	"strconv"

	"brand-trends/internal/domain/brandanalysis"
)

const (
	// GroupAverage 為比較對象的特殊值，代表整體群組平均。
	GroupAverage      = "GROUP_AVERAGE"
	GroupAverageLabel = "Group Average"
)

// Config 為一次趨勢計算的選擇條件；值型別，可直接比較。
type Config struct {
	FocalBrand  string
	Comparison  string
	Metric      brandanalysis.MetricKey
	SkipMissing bool
}

// ComparesToGroup 是否與群組平均比較；未指定比較對象時視為 GroupAverage。
func (c Config) ComparesToGroup() bool {
	return c.Comparison == "" || c.Comparison == GroupAverage
}

// ComparisonLabel 回傳比較線的顯示名稱。
func (c Config) ComparisonLabel() string {
	if c.ComparesToGroup() {
		return GroupAverageLabel
	}
	return c.Comparison
}

// Key 提供快取用的字串鍵。
func (c Config) Key() string {
	return fmt.Sprintf("%s|%s|%s|%t", c.FocalBrand, c.Comparison, c.Metric, c.SkipMissing)
}

// TimeSeriesPoint 為某週的單一數值。
type TimeSeriesPoint struct {
	Week       string  `json:"week"`
	WeekNumber int     `json:"week_num"`
	Year       int     `json:"year"`
	Value      float64 `json:"value"`
	Present    bool    `json:"present"`
	Label      string  `json:"label"`
}

// Series 依 (year, week) 遞增排列的時間序列。
type Series []TimeSeriesPoint

// Values 取出數值。
func (s Series) Values() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Value
	}
	return out
}

// Pair 為焦點品牌與比較對象兩條索引對齊的序列。
type Pair struct {
	Focal      Series `json:"primary"`
	Comparison Series `json:"comparison"`
}

// WeekLabel 產生顯示用週標籤，例如 W39'24；不具排序意義。
func WeekLabel(week, year int) string {
	y := strconv.Itoa(year)
	if len(y) > 2 {
		y = y[len(y)-2:]
	}
	return "W" + strconv.Itoa(week) + "'" + y
}

// BuildSeries 對每筆週報各產生一個焦點點與比較點。
// records 須已由呼叫端依時間排序；此處不重新排序。
// 品牌或指標缺值時該點為 0（Present=false），不會省略，兩條序列長度恆等於 len(records)。
func BuildSeries(records []brandanalysis.AnalysisRecord, cfg Config) Pair {
	out := Pair{
		Focal:      make(Series, 0, len(records)),
		Comparison: make(Series, 0, len(records)),
	}
	compLabel := cfg.ComparisonLabel()
	for _, r := range records {
		week := WeekLabel(r.WeekNumber, r.Year)

		focal, _ := r.Brand(cfg.FocalBrand).Get(cfg.Metric)
		out.Focal = append(out.Focal, newPoint(r, week, focal, cfg.FocalBrand))

		var compSet brandanalysis.MetricSet
		if cfg.ComparesToGroup() {
			compSet = r.GroupAverage
		} else {
			compSet = r.Brand(cfg.Comparison)
		}
		comp, _ := compSet.Get(cfg.Metric)
		out.Comparison = append(out.Comparison, newPoint(r, week, comp, compLabel))
	}
	return out
}

func newPoint(r brandanalysis.AnalysisRecord, week string, raw brandanalysis.RawValue, label string) TimeSeriesPoint {
	v := Parse(raw)
	return TimeSeriesPoint{
		Week:       week,
		WeekNumber: r.WeekNumber,
		Year:       r.Year,
		Value:      v.Value,
		Present:    v.Present,
		Label:      label,
	}
}
