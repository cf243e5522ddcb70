package trend

import (
	"testing"

	"brand-trends/internal/domain/brandanalysis"

	"github.com/stretchr/testify/assert"
)

func record(year, week int, brands map[string]brandanalysis.MetricSet, group brandanalysis.MetricSet) brandanalysis.AnalysisRecord {
	return brandanalysis.AnalysisRecord{
		ID:           brandanalysis.RecordID(week, year),
		Year:         year,
		WeekNumber:   week,
		BrandsData:   brands,
		GroupAverage: group,
	}
}

func sampleRecords() []brandanalysis.AnalysisRecord {
	return []brandanalysis.AnalysisRecord{
		record(2024, 51, map[string]brandanalysis.MetricSet{
			"FREEBIRD": {brandanalysis.MetricDvk: "41.2%"},
			"AAIKO":    {brandanalysis.MetricDvk: "38%"},
		}, brandanalysis.MetricSet{brandanalysis.MetricDvk: "40.00"}),
		record(2024, 52, map[string]brandanalysis.MetricSet{
			"AAIKO": {brandanalysis.MetricDvk: "39.5%"},
		}, brandanalysis.MetricSet{brandanalysis.MetricDvk: "41.10"}),
		record(2025, 1, map[string]brandanalysis.MetricSet{
			"FREEBIRD": {brandanalysis.MetricDvk: "44.0%"},
			"AAIKO":    {brandanalysis.MetricDvk: "N/A"},
		}, brandanalysis.MetricSet{brandanalysis.MetricDvk: "42.30"}),
	}
}

func TestWeekLabel(t *testing.T) {
	assert.Equal(t, "W39'24", WeekLabel(39, 2024))
	assert.Equal(t, "W1'25", WeekLabel(1, 2025))
	assert.Equal(t, "W5'9", WeekLabel(5, 9))
}

func TestBuildSeries_GroupAverage(t *testing.T) {
	recs := sampleRecords()
	pair := BuildSeries(recs, Config{FocalBrand: "FREEBIRD", Comparison: GroupAverage, Metric: brandanalysis.MetricDvk})

	assert.Len(t, pair.Focal, len(recs))
	assert.Len(t, pair.Comparison, len(recs))
	assert.Equal(t, []float64{41.2, 0, 44}, pair.Focal.Values())
	assert.Equal(t, []float64{40, 41.1, 42.3}, pair.Comparison.Values())

	assert.False(t, pair.Focal[1].Present, "brand absent that week")
	assert.True(t, pair.Focal[0].Present)
	assert.Equal(t, "FREEBIRD", pair.Focal[0].Label)
	assert.Equal(t, GroupAverageLabel, pair.Comparison[0].Label)

	for i := range recs {
		assert.Equal(t, pair.Focal[i].Week, pair.Comparison[i].Week, "series must be index aligned")
		assert.Equal(t, recs[i].WeekNumber, pair.Focal[i].WeekNumber)
		assert.Equal(t, recs[i].Year, pair.Comparison[i].Year)
	}
	assert.Equal(t, "W1'25", pair.Focal[2].Week)
}

func TestBuildSeries_NamedBrand(t *testing.T) {
	pair := BuildSeries(sampleRecords(), Config{FocalBrand: "FREEBIRD", Comparison: "AAIKO", Metric: brandanalysis.MetricDvk})

	assert.Equal(t, []float64{38, 39.5, 0}, pair.Comparison.Values())
	assert.Equal(t, "AAIKO", pair.Comparison[0].Label)
	assert.False(t, pair.Comparison[2].Present)
}

func TestBuildSeries_KeepsInputOrder(t *testing.T) {
	recs := sampleRecords()
	reversed := []brandanalysis.AnalysisRecord{recs[2], recs[1], recs[0]}
	pair := BuildSeries(reversed, Config{FocalBrand: "FREEBIRD", Metric: brandanalysis.MetricDvk})

	assert.Equal(t, "W1'25", pair.Focal[0].Week)
	assert.Equal(t, "W51'24", pair.Focal[2].Week)
}

func TestBuildSeries_UnknownBrandOrMetric(t *testing.T) {
	recs := sampleRecords()

	pair := BuildSeries(recs, Config{FocalBrand: "UNKNOWN", Comparison: "ALSO UNKNOWN", Metric: brandanalysis.MetricDvk})
	assert.Equal(t, []float64{0, 0, 0}, pair.Focal.Values())
	assert.Equal(t, []float64{0, 0, 0}, pair.Comparison.Values())

	pair = BuildSeries(recs, Config{FocalBrand: "FREEBIRD", Metric: "volume"})
	assert.Len(t, pair.Focal, 3)
	assert.Equal(t, []float64{0, 0, 0}, pair.Focal.Values())
}

func TestBuildSeries_Empty(t *testing.T) {
	pair := BuildSeries(nil, Config{FocalBrand: "FREEBIRD", Metric: brandanalysis.MetricDvk})
	assert.Empty(t, pair.Focal)
	assert.Empty(t, pair.Comparison)
}

func TestConfig(t *testing.T) {
	assert.Equal(t, GroupAverageLabel, Config{}.ComparisonLabel())
	assert.Equal(t, "AAIKO", Config{Comparison: "AAIKO"}.ComparisonLabel())
	a := Config{FocalBrand: "A", Comparison: GroupAverage, Metric: brandanalysis.MetricOS}
	b := a
	assert.Equal(t, a.Key(), b.Key())
	b.SkipMissing = true
	assert.NotEqual(t, a.Key(), b.Key())
}

func TestBuildSeries_EmptyComparisonUsesGroupAverage(t *testing.T) {
	recs := sampleRecords()
	implicit := BuildSeries(recs, Config{FocalBrand: "FREEBIRD", Metric: brandanalysis.MetricDvk})
	explicit := BuildSeries(recs, Config{FocalBrand: "FREEBIRD", Comparison: GroupAverage, Metric: brandanalysis.MetricDvk})

	assert.Equal(t, explicit.Comparison, implicit.Comparison)
	assert.Equal(t, GroupAverageLabel, implicit.Comparison[0].Label)
	assert.Equal(t, GroupAverageLabel, Config{}.ComparisonLabel())
}
