package reports

import (
	"context"
	"errors"
	"strings"
	"testing"

	"brand-trends/internal/domain/brandanalysis"
	"brand-trends/internal/domain/settings"
)

type fakeRecordReader struct {
	recs []brandanalysis.AnalysisRecord
	err  error
}

func (f fakeRecordReader) Records(_ context.Context) ([]brandanalysis.AnalysisRecord, error) {
	return f.recs, f.err
}

func (f fakeRecordReader) Get(_ context.Context, id string) (brandanalysis.AnalysisRecord, error) {
	for _, r := range f.recs {
		if r.ID == id {
			return r, nil
		}
	}
	return brandanalysis.AnalysisRecord{}, brandanalysis.ErrNotFound
}

type fakeSettingsReader struct {
	st  settings.Settings
	err error
}

func (f fakeSettingsReader) Load(_ context.Context) (settings.Settings, error) {
	return f.st, f.err
}

func sampleRecords() []brandanalysis.AnalysisRecord {
	return []brandanalysis.AnalysisRecord{
		{
			ID: "week_40_2024", Year: 2024, WeekNumber: 40,
			BrandsData: map[string]brandanalysis.MetricSet{
				"FREEBIRD": {brandanalysis.MetricMarge: "58%", brandanalysis.MetricRent: "€ 340,00"},
				"AAIKO":    {brandanalysis.MetricMarge: "44%"},
			},
			GroupAverage: brandanalysis.MetricSet{brandanalysis.MetricMarge: "51.5%"},
		},
		{
			ID: "week_39_2024", Year: 2024, WeekNumber: 39,
			BrandsData: map[string]brandanalysis.MetricSet{
				"FREEBIRD": {brandanalysis.MetricMarge: "55%"},
			},
		},
	}
}

func TestWeekOverview_Latest(t *testing.T) {
	recs := sampleRecords()
	uc := NewUseCase(fakeRecordReader{recs: []brandanalysis.AnalysisRecord{recs[1], recs[0]}}, fakeSettingsReader{err: settings.ErrNotFound}, 0)

	out, err := uc.WeekOverview(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.AnalysisID != "week_40_2024" {
		t.Fatalf("expected latest week, got %s", out.AnalysisID)
	}
	if len(out.HighMargin) != 1 || out.HighMargin[0].Brand != "FREEBIRD" {
		t.Fatalf("unexpected high margin brands: %+v", out.HighMargin)
	}
	if len(out.LowMargin) != 1 || out.LowMargin[0].Brand != "AAIKO" {
		t.Fatalf("unexpected low margin brands: %+v", out.LowMargin)
	}
}

func TestWeekOverview_ByID(t *testing.T) {
	uc := NewUseCase(fakeRecordReader{recs: sampleRecords()}, fakeSettingsReader{st: settings.Defaults()}, 0)

	out, err := uc.WeekOverview(context.Background(), " week_39_2024 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.WeekNumber != 39 || len(out.HighMargin) != 0 {
		t.Fatalf("unexpected overview: %+v", out)
	}

	if _, err := uc.WeekOverview(context.Background(), "week_1_2000"); !errors.Is(err, brandanalysis.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestWeekOverview_Errors(t *testing.T) {
	uc := NewUseCase(fakeRecordReader{}, fakeSettingsReader{}, 0)
	if _, err := uc.WeekOverview(context.Background(), ""); !errors.Is(err, brandanalysis.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on empty store, got %v", err)
	}

	boom := errors.New("boom")
	uc = NewUseCase(fakeRecordReader{err: boom}, fakeSettingsReader{}, 0)
	if _, err := uc.WeekOverview(context.Background(), ""); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped load error, got %v", err)
	}

	uc = NewUseCase(fakeRecordReader{recs: sampleRecords()}, fakeSettingsReader{err: boom}, 0)
	if _, err := uc.WeekOverview(context.Background(), ""); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped settings error, got %v", err)
	}
}

func TestExportWeekCSV(t *testing.T) {
	uc := NewUseCase(fakeRecordReader{recs: sampleRecords()}, fakeSettingsReader{}, 0)

	out, err := uc.ExportWeekCSV(context.Background(), "week_40_2024")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header + 2 brands + group, got %d lines:\n%s", len(lines), out)
	}
	if lines[0] != "week,brand,omzet_index,dvk,rent,marge,os" {
		t.Fatalf("unexpected header: %s", lines[0])
	}
	if lines[1] != "W40'24,AAIKO,,,,44," {
		t.Fatalf("unexpected AAIKO row: %s", lines[1])
	}
	if lines[2] != "W40'24,FREEBIRD,,,340,58," {
		t.Fatalf("unexpected FREEBIRD row: %s", lines[2])
	}
	if lines[3] != "W40'24,GROUP_AVERAGE,,,,51.5," {
		t.Fatalf("unexpected group row: %s", lines[3])
	}
}
