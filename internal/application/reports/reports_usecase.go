package reports

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"brand-trends/internal/domain/brandanalysis"
	reportsDomain "brand-trends/internal/domain/reports"
	"brand-trends/internal/domain/settings"
	"brand-trends/internal/domain/trend"
)

// RecordReader 提供週報查詢。
type RecordReader interface {
	Records(ctx context.Context) ([]brandanalysis.AnalysisRecord, error)
	Get(ctx context.Context, id string) (brandanalysis.AnalysisRecord, error)
}

// SettingsReader 讀取主品牌、追蹤品牌與門檻。
type SettingsReader interface {
	Load(ctx context.Context) (settings.Settings, error)
}

// UseCase 產出單週品牌總覽與 CSV 匯出。
type UseCase struct {
	records  RecordReader
	settings SettingsReader
	topN     int
}

// NewUseCase 建立報表用例；topN <= 0 時使用預設排行筆數。
func NewUseCase(records RecordReader, settings SettingsReader, topN int) *UseCase {
	return &UseCase{records: records, settings: settings, topN: topN}
}

// WeekOverview 產出指定週報的總覽；id 為空時使用最新一週。
func (u *UseCase) WeekOverview(ctx context.Context, id string) (reportsDomain.WeekOverview, error) {
	rec, err := u.record(ctx, id)
	if err != nil {
		return reportsDomain.WeekOverview{}, err
	}
	st, err := u.settings.Load(ctx)
	if errors.Is(err, settings.ErrNotFound) {
		st, err = settings.Defaults(), nil
	}
	if err != nil {
		return reportsDomain.WeekOverview{}, fmt.Errorf("load settings: %w", err)
	}
	return reportsDomain.BuildWeekOverview(rec, st, u.topN), nil
}

// ExportWeekCSV 匯出單週所有品牌與群組平均的正規化數值。
func (u *UseCase) ExportWeekCSV(ctx context.Context, id string) (string, error) {
	rec, err := u.record(ctx, id)
	if err != nil {
		return "", err
	}

	keys := brandanalysis.MetricKeys()
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	header := []string{"week", "brand"}
	for _, k := range keys {
		header = append(header, string(k))
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	week := trend.WeekLabel(rec.WeekNumber, rec.Year)
	brands := make([]string, 0, len(rec.BrandsData))
	for b := range rec.BrandsData {
		brands = append(brands, b)
	}
	sort.Strings(brands)

	rows := make([][]string, 0, len(brands)+1)
	for _, b := range brands {
		rows = append(rows, csvRow(week, b, rec.BrandsData[b], keys))
	}
	if len(rec.GroupAverage) > 0 {
		rows = append(rows, csvRow(week, trend.GroupAverage, rec.GroupAverage, keys))
	}
	if err := w.WriteAll(rows); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (u *UseCase) record(ctx context.Context, id string) (brandanalysis.AnalysisRecord, error) {
	if id = strings.TrimSpace(id); id != "" {
		return u.records.Get(ctx, id)
	}
	recs, err := u.records.Records(ctx)
	if err != nil {
		return brandanalysis.AnalysisRecord{}, fmt.Errorf("load analyses: %w", err)
	}
	if len(recs) == 0 {
		return brandanalysis.AnalysisRecord{}, brandanalysis.ErrNotFound
	}
	return brandanalysis.SortNewestFirst(recs)[0], nil
}

// csvRow 缺值輸出空字串，與真正的 0 區分。
func csvRow(week, brand string, set brandanalysis.MetricSet, keys []brandanalysis.MetricKey) []string {
	row := []string{week, brand}
	for _, k := range keys {
		raw, _ := set.Get(k)
		v := trend.Parse(raw)
		if !v.Present {
			row = append(row, "")
			continue
		}
		row = append(row, formatFloat(v.Value))
	}
	return row
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
