package brandanalysis

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"
)

// MetricKey 表示週報中的績效指標。
type MetricKey string

const (
	MetricOmzetIndex MetricKey = "omzet_index"
	MetricDvk        MetricKey = "dvk"
	MetricRent       MetricKey = "rent"
	MetricMarge      MetricKey = "marge"
	MetricOS         MetricKey = "os"
)

var metricOrder = []MetricKey{MetricOmzetIndex, MetricDvk, MetricRent, MetricMarge, MetricOS}

var metricLabels = map[MetricKey]string{
	MetricOmzetIndex: "Omzet Index",
	MetricDvk:        "Doorverkoop %",
	MetricRent:       "Rentabiliteit",
	MetricMarge:      "Marge %",
	MetricOS:         "OS (Voorraadrotatie)",
}

var metricUnits = map[MetricKey]string{
	MetricOmzetIndex: "",
	MetricDvk:        "%",
	MetricRent:       "€",
	MetricMarge:      "%",
	MetricOS:         "",
}

// MetricKeys 回傳固定的指標清單（顯示順序）。
func MetricKeys() []MetricKey {
	out := make([]MetricKey, len(metricOrder))
	copy(out, metricOrder)
	return out
}

// Valid 檢查是否為支援的指標。
func (k MetricKey) Valid() bool {
	_, ok := metricLabels[k]
	return ok
}

// Label 回傳指標顯示名稱；未知指標回傳 key 本身。
func (k MetricKey) Label() string {
	if l, ok := metricLabels[k]; ok {
		return l
	}
	return string(k)
}

// Unit 回傳數值後綴：無、% 或 €。
func (k MetricKey) Unit() string {
	return metricUnits[k]
}

// RawValue 為報表抽取出的原始文字數值，可能帶 % 或 € 符號。
type RawValue string

// UnmarshalJSON 接受字串、數字或 null。
func (v *RawValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = RawValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("metric value must be string or number: %w", err)
	}
	*v = RawValue(n.String())
	return nil
}

// MetricSet 為單一品牌（或群組平均）的指標值。
type MetricSet map[MetricKey]RawValue

// Get 取得指標值；缺值時 ok 為 false。
func (m MetricSet) Get(key MetricKey) (RawValue, bool) {
	if m == nil {
		return "", false
	}
	v, ok := m[key]
	return v, ok
}

// AnalysisRecord 為某一週報表的不可變快照。
type AnalysisRecord struct {
	ID           string               `json:"id"`
	Year         int                  `json:"year"`
	WeekNumber   int                  `json:"week_number"`
	UploadDate   time.Time            `json:"upload_date"`
	Status       string               `json:"status,omitempty"`
	BrandsData   map[string]MetricSet `json:"brands_data"`
	GroupAverage MetricSet            `json:"group_average"`
	Files        map[string]string    `json:"files,omitempty"`
}

const (
	StatusCompleted = "completed"

	MinWeek = 1
	MaxWeek = 53
)

// RecordID 以週數與年份組成識別碼，例如 week_39_2024。
func RecordID(week, year int) string {
	return "week_" + strconv.Itoa(week) + "_" + strconv.Itoa(year)
}

// Validate 基礎欄位檢查。
func (r AnalysisRecord) Validate() error {
	if r.Year <= 0 {
		return errors.New("year is required")
	}
	if r.WeekNumber < MinWeek || r.WeekNumber > MaxWeek {
		return fmt.Errorf("week_number must be between %d and %d", MinWeek, MaxWeek)
	}
	return nil
}

// Brand 取得某品牌的指標；不存在時回傳 nil。
func (r AnalysisRecord) Brand(name string) MetricSet {
	if r.BrandsData == nil {
		return nil
	}
	return r.BrandsData[name]
}

// Before 依 (year, week) 比較先後。
func (r AnalysisRecord) Before(o AnalysisRecord) bool {
	if r.Year != o.Year {
		return r.Year < o.Year
	}
	return r.WeekNumber < o.WeekNumber
}

// SortChronologically 回傳依 (year, week) 遞增的新切片，原切片不變。
func SortChronologically(records []AnalysisRecord) []AnalysisRecord {
	out := make([]AnalysisRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Before(out[j])
	})
	return out
}

// SortNewestFirst 回傳最新週在前的新切片（列表頁使用）。
func SortNewestFirst(records []AnalysisRecord) []AnalysisRecord {
	out := make([]AnalysisRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[j].Before(out[i])
	})
	return out
}

// AvailableBrands 彙整所有週報中出現過的品牌並排序。
func AvailableBrands(records []AnalysisRecord) []string {
	seen := make(map[string]struct{})
	for _, r := range records {
		for brand := range r.BrandsData {
			seen[brand] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for b := range seen {
		out = append(out, b)
	}
	sort.Strings(out)
	return out
}
