package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"brand-trends/internal/application/trend"
	"brand-trends/internal/domain/brandanalysis"
	"brand-trends/internal/domain/settings"
	"brand-trends/internal/infrastructure/chart"
	"brand-trends/internal/infrastructure/persistence/file"

	"github.com/spf13/cobra"
)

const commandTimeout = 30 * time.Second

// selectionFlags 為 stats 與 chart 共用的篩選參數。
type selectionFlags struct {
	recordsPath  string
	settingsPath string
	brand        string
	compare      string
	metric       string
	skipMissing  bool
}

func (f *selectionFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.recordsPath, "file", "", "Path to a JSON array of weekly analyses")
	cmd.Flags().StringVar(&f.settingsPath, "settings", "", "Optional settings JSON (default brand and comparison)")
	cmd.Flags().StringVar(&f.brand, "brand", "", "Focal brand (defaults to settings or first brand)")
	cmd.Flags().StringVar(&f.compare, "compare", "", "Comparison brand or GROUP_AVERAGE")
	cmd.Flags().StringVar(&f.metric, "metric", "", "Metric: omzet_index, dvk, rent, marge, os")
	cmd.Flags().BoolVar(&f.skipMissing, "skip-missing", false, "Leave weeks without data out of statistics and lines")
	_ = cmd.MarkFlagRequired("file")
}

func (f *selectionFlags) selection() trend.Selection {
	return trend.Selection{
		Brand:       f.brand,
		Compare:     f.compare,
		Metric:      f.metric,
		SkipMissing: f.skipMissing,
	}
}

func (f *selectionFlags) useCase(renderer trend.ChartRenderer) *trend.UseCase {
	var st trend.SettingsReader = defaultSettings{}
	if f.settingsPath != "" {
		st = file.NewSettingsStore(f.settingsPath)
	}
	return trend.NewUseCase(jsonRecords{path: f.recordsPath}, st, renderer, trend.Options{})
}

func newRootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "trendctl",
		Short:         "Brand trend statistics and charts from weekly analyses",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.AddCommand(newStatsCmd(), newChartCmd())
	return root
}

func newStatsCmd() *cobra.Command {
	var f selectionFlags
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print statistics for a brand against its comparison",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			res, err := f.useCase(nil).Trends(ctx, f.selection())
			if err != nil {
				return fmt.Errorf("compute trends: %w", err)
			}
			return NewReporter(cmd.OutOrStdout()).Handle(res)
		},
	}
	f.bind(cmd)
	return cmd
}

func newChartCmd() *cobra.Command {
	var (
		f             selectionFlags
		outPath       string
		format        string
		width, height int
	)
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render the trend chart to a PNG or SVG file",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			imgFormat := imageFormat(format, outPath)
			img, err := f.useCase(chart.NewRenderer(width, height)).RenderChart(ctx, f.selection(), imgFormat)
			if err != nil {
				return fmt.Errorf("render chart: %w", err)
			}
			if err := os.WriteFile(outPath, img, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", outPath, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", outPath, len(img))
			return nil
		},
	}
	f.bind(cmd)
	cmd.Flags().StringVar(&outPath, "out", "", "Output file")
	cmd.Flags().StringVar(&format, "format", "", "png or svg (defaults to the --out extension)")
	cmd.Flags().IntVar(&width, "width", chart.DefaultWidth, "Image width in pixels")
	cmd.Flags().IntVar(&height, "height", chart.DefaultHeight, "Image height in pixels")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

// imageFormat 未指定 --format 時依副檔名判斷，預設 png。
func imageFormat(flag, outPath string) trend.ImageFormat {
	if flag != "" {
		return trend.ImageFormat(strings.ToLower(flag))
	}
	if strings.EqualFold(filepath.Ext(outPath), ".svg") {
		return trend.FormatSVG
	}
	return trend.FormatPNG
}

// jsonRecords 從 JSON 檔讀取週報陣列。
type jsonRecords struct {
	path string
}

func (j jsonRecords) Records(ctx context.Context) ([]brandanalysis.AnalysisRecord, error) {
	data, err := os.ReadFile(j.path)
	if err != nil {
		return nil, err
	}
	var recs []brandanalysis.AnalysisRecord
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("parse %s: %w", j.path, err)
	}
	for i := range recs {
		recs[i].BrandsData = brandanalysis.NormalizeBrandKeys(recs[i].BrandsData)
		if recs[i].ID == "" {
			recs[i].ID = brandanalysis.RecordID(recs[i].WeekNumber, recs[i].Year)
		}
	}
	return recs, nil
}

type defaultSettings struct{}

func (defaultSettings) Load(context.Context) (settings.Settings, error) {
	return settings.Defaults(), nil
}
