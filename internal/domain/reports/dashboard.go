package reports

import (
	"sort"

	"brand-trends/internal/domain/brandanalysis"
	"brand-trends/internal/domain/settings"
	"brand-trends/internal/domain/trend"
)

// DefaultTopN 每個指標排行榜的預設筆數。
const DefaultTopN = 10

// BrandBrief 單一品牌在某週的指標值。
type BrandBrief struct {
	Brand     string  `json:"brand"`
	Value     float64 `json:"value"`
	Formatted string  `json:"formatted"`
}

// MetricGap 主品牌與群組平均的差距；GapPercent = (brand/group - 1) * 100。
type MetricGap struct {
	Metric       brandanalysis.MetricKey `json:"metric"`
	Label        string                  `json:"label"`
	Brand        float64                 `json:"brand"`
	Group        float64                 `json:"group"`
	GapPercent   float64                 `json:"gap_percent"`
	Above        bool                    `json:"above"`
	BrandPresent bool                    `json:"brand_present"`
	GroupPresent bool                    `json:"group_present"`
}

// CompetitorRow 追蹤品牌在該週的全部指標；Missing 表示該週報表沒有此品牌。
type CompetitorRow struct {
	Brand   string                             `json:"brand"`
	Missing bool                               `json:"missing,omitempty"`
	Values  map[brandanalysis.MetricKey]string `json:"values"`
}

// WeekOverview 單週報表的品牌總覽。
type WeekOverview struct {
	AnalysisID   string                                   `json:"analysis_id"`
	Year         int                                      `json:"year"`
	WeekNumber   int                                      `json:"week_number"`
	Week         string                                   `json:"week"`
	BrandCount   int                                      `json:"brand_count"`
	PrimaryBrand string                                   `json:"primary_brand"`
	Primary      []MetricGap                              `json:"primary"`
	HighMargin   []BrandBrief                             `json:"high_margin"`
	LowMargin    []BrandBrief                             `json:"low_margin"`
	TopBrands    map[brandanalysis.MetricKey][]BrandBrief `json:"top_brands"`
	Competitors  []CompetitorRow                          `json:"competitors"`
	Thresholds   settings.Thresholds                      `json:"thresholds"`
}

// BuildWeekOverview 依設定的門檻與主品牌整理單週報表。topN <= 0 時使用 DefaultTopN。
func BuildWeekOverview(rec brandanalysis.AnalysisRecord, st settings.Settings, topN int) WeekOverview {
	if topN <= 0 {
		topN = DefaultTopN
	}
	ba := st.BrandAnalyzer
	out := WeekOverview{
		AnalysisID:   rec.ID,
		Year:         rec.Year,
		WeekNumber:   rec.WeekNumber,
		Week:         trend.WeekLabel(rec.WeekNumber, rec.Year),
		BrandCount:   len(rec.BrandsData),
		PrimaryBrand: ba.PrimaryBrand,
		Thresholds:   ba.Thresholds,
		TopBrands:    make(map[brandanalysis.MetricKey][]BrandBrief),
	}

	primary := rec.Brand(ba.PrimaryBrand)
	for _, k := range brandanalysis.MetricKeys() {
		out.Primary = append(out.Primary, gap(k, primary, rec.GroupAverage))
		out.TopBrands[k] = top(rankBy(rec, k), topN, true)
	}

	margins := rankBy(rec, brandanalysis.MetricMarge)
	var high, low []BrandBrief
	for _, b := range margins {
		if b.Value > ba.Thresholds.HighMargin {
			high = append(high, b)
		}
		if b.Value < ba.Thresholds.LowMargin {
			low = append(low, b)
		}
	}
	out.HighMargin = top(high, topN, true)
	out.LowMargin = top(low, topN, false)

	for _, brand := range ba.CompetitorBrands {
		set := rec.Brand(brand)
		row := CompetitorRow{Brand: brand, Missing: set == nil, Values: make(map[brandanalysis.MetricKey]string)}
		for _, k := range brandanalysis.MetricKeys() {
			raw, _ := set.Get(k)
			row.Values[k] = string(raw)
		}
		out.Competitors = append(out.Competitors, row)
	}
	return out
}

func gap(k brandanalysis.MetricKey, brand, group brandanalysis.MetricSet) MetricGap {
	rawB, _ := brand.Get(k)
	rawG, _ := group.Get(k)
	b, g := trend.Parse(rawB), trend.Parse(rawG)
	out := MetricGap{
		Metric:       k,
		Label:        k.Label(),
		Brand:        b.Value,
		Group:        g.Value,
		BrandPresent: b.Present,
		GroupPresent: g.Present,
		Above:        b.Value > g.Value,
	}
	if g.Value != 0 {
		out.GapPercent = (b.Value/g.Value - 1) * 100
	}
	return out
}

// rankBy 回傳該週有此指標的品牌（缺值略過），品牌名稱排序以確保結果穩定。
func rankBy(rec brandanalysis.AnalysisRecord, k brandanalysis.MetricKey) []BrandBrief {
	brands := make([]string, 0, len(rec.BrandsData))
	for b := range rec.BrandsData {
		brands = append(brands, b)
	}
	sort.Strings(brands)

	out := make([]BrandBrief, 0, len(brands))
	for _, b := range brands {
		raw, _ := rec.BrandsData[b].Get(k)
		v := trend.Parse(raw)
		if !v.Present {
			continue
		}
		out = append(out, BrandBrief{Brand: b, Value: v.Value, Formatted: trend.FormatValue(v.Value, k)})
	}
	return out
}

func top(list []BrandBrief, n int, desc bool) []BrandBrief {
	sorted := make([]BrandBrief, len(list))
	copy(sorted, list)
	sort.SliceStable(sorted, func(i, j int) bool {
		if desc {
			return sorted[i].Value > sorted[j].Value
		}
		return sorted[i].Value < sorted[j].Value
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
