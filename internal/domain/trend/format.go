package trend

import (
	"fmt"
	"math"

	"brand-trends/internal/domain/brandanalysis"

	"github.com/shopspring/decimal"
)

const (
	arrowUp   = "↑"
	arrowDown = "↓"
	noData    = "no data"
)

// FormatValue 兩位小數並加上指標單位，例如 56.40%。
func FormatValue(v float64, metric brandanalysis.MetricKey) string {
	return decimal.NewFromFloat(v).StringFixed(2) + metric.Unit()
}

// FormatAxis 格線標籤使用一位小數。
func FormatAxis(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(1)
}

// FormatChange 以箭頭與百分比絕對值（一位小數）表示週變化，例如 ↓ 40.0%。
func FormatChange(s *Statistics) string {
	if s == nil {
		return ""
	}
	arrow := arrowUp
	if s.Direction() == "down" {
		arrow = arrowDown
	}
	return arrow + " " + decimal.NewFromFloat(math.Abs(s.ChangePercent)).StringFixed(1) + "%"
}

// Tooltip 產生點位提示文字：「<名稱> <週>: <數值><單位>」。
// flagMissing 時缺值點顯示 no data 而不是 0.00。
func Tooltip(p TimeSeriesPoint, metric brandanalysis.MetricKey, flagMissing bool) string {
	value := FormatValue(p.Value, metric)
	if flagMissing && !p.Present {
		value = noData
	}
	return fmt.Sprintf("%s %s: %s", p.Label, p.Week, value)
}
