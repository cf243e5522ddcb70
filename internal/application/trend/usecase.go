package trend

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"strconv"
	"sync"

	"brand-trends/internal/domain/brandanalysis"
	"brand-trends/internal/domain/settings"
	domain "brand-trends/internal/domain/trend"

	"golang.org/x/sync/errgroup"
)

// RecordReader 提供全部週報。
type RecordReader interface {
	Records(ctx context.Context) ([]brandanalysis.AnalysisRecord, error)
}

// SettingsReader 提供儀表板設定（含預設品牌與比較對象）。
type SettingsReader interface {
	Load(ctx context.Context) (settings.Settings, error)
}

// ImageFormat 圖表輸出格式。
type ImageFormat string

const (
	FormatPNG ImageFormat = "png"
	FormatSVG ImageFormat = "svg"
)

// ErrUnsupportedFormat 不支援的圖檔格式。
var ErrUnsupportedFormat = errors.New("unsupported image format")

// ChartRenderer 將趨勢結果繪成圖檔。
type ChartRenderer interface {
	Render(view domain.View, format ImageFormat) ([]byte, error)
}

// Options 圖表版面與格線設定。
type Options struct {
	Frame     domain.Frame
	Gridlines int
}

// Selection 使用者的篩選條件；空值代表使用預設。
type Selection struct {
	Brand       string
	Compare     string
	Metric      string
	SkipMissing bool
}

// Option 下拉選單項目。
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Result 趨勢頁所需的完整資料。
type Result struct {
	View              domain.View `json:"view"`
	Brand             string      `json:"brand"`
	Compare           string      `json:"compare"`
	AvailableBrands   []string    `json:"available_brands"`
	ComparisonOptions []Option    `json:"comparison_options"`
	Metrics           []Option    `json:"metrics"`
	TotalWeeks        int         `json:"total_weeks"`
}

type memo struct {
	key    string
	result Result
}

// UseCase 載入週報與設定、解析預設值並計算趨勢。
type UseCase struct {
	records  RecordReader
	settings SettingsReader
	renderer ChartRenderer
	opts     Options

	mu   sync.Mutex
	last *memo
}

// NewUseCase 建立趨勢用例；renderer 可為 nil（不提供圖檔匯出）。
func NewUseCase(records RecordReader, settings SettingsReader, renderer ChartRenderer, opts Options) *UseCase {
	if opts.Frame == (domain.Frame{}) {
		opts.Frame = domain.DefaultFrame()
	}
	return &UseCase{
		records:  records,
		settings: settings,
		renderer: renderer,
		opts:     opts,
	}
}

// Trends 計算趨勢。週報不足兩週時回傳 domain.ErrNotEnoughData，Result 仍帶 TotalWeeks 與品牌清單。
func (u *UseCase) Trends(ctx context.Context, sel Selection) (Result, error) {
	var (
		recs []brandanalysis.AnalysisRecord
		cfg  settings.Settings
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := u.records.Records(gctx)
		if err != nil {
			return fmt.Errorf("load analyses: %w", err)
		}
		recs = r
		return nil
	})
	g.Go(func() error {
		s, err := u.settings.Load(gctx)
		if errors.Is(err, settings.ErrNotFound) {
			s, err = settings.Defaults(), nil
		}
		if err != nil {
			return fmt.Errorf("load settings: %w", err)
		}
		cfg = s
		return nil
	})
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	recs = brandanalysis.SortChronologically(recs)
	brands := brandanalysis.AvailableBrands(recs)
	tc := resolve(sel, cfg, brands)

	out := Result{
		Brand:             tc.FocalBrand,
		Compare:           tc.Comparison,
		AvailableBrands:   brands,
		ComparisonOptions: comparisonOptions(brands, tc.FocalBrand),
		Metrics:           metricOptions(),
		TotalWeeks:        len(recs),
	}
	if len(recs) < domain.MinimumRecords {
		return out, domain.ErrNotEnoughData
	}

	key := fingerprint(recs) + "|" + tc.Key()
	if cached, ok := u.cached(key); ok {
		return cached, nil
	}

	view, err := domain.Compute(recs, tc, u.opts.Frame, u.opts.Gridlines)
	if err != nil {
		return out, err
	}
	out.View = view
	u.remember(key, out)
	return out, nil
}

// RenderChart 計算趨勢後輸出圖檔。
func (u *UseCase) RenderChart(ctx context.Context, sel Selection, format ImageFormat) ([]byte, error) {
	if format != FormatPNG && format != FormatSVG {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if u.renderer == nil {
		return nil, fmt.Errorf("%w: chart export disabled", ErrUnsupportedFormat)
	}
	res, err := u.Trends(ctx, sel)
	if err != nil {
		return nil, err
	}
	return u.renderer.Render(res.View, format)
}

func (u *UseCase) cached(key string) (Result, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.last == nil || u.last.key != key {
		return Result{}, false
	}
	return u.last.result, true
}

func (u *UseCase) remember(key string, r Result) {
	u.mu.Lock()
	u.last = &memo{key: key, result: r}
	u.mu.Unlock()
}

// resolve 依序套用：使用者選擇、設定預設值、第一個品牌／群組平均。
func resolve(sel Selection, s settings.Settings, brands []string) domain.Config {
	ba := s.BrandAnalyzer

	brand := brandanalysis.NormalizeBrand(sel.Brand)
	if brand == "" {
		brand = ba.DefaultTrendBrand
	}
	if brand == "" && len(brands) > 0 {
		brand = brands[0]
	}

	compare := brandanalysis.NormalizeBrand(sel.Compare)
	if compare == "" {
		compare = ba.DefaultComparison
	}
	if compare == "" {
		compare = domain.GroupAverage
	}

	metric := brandanalysis.MetricKey(sel.Metric)
	if metric == "" {
		metric = brandanalysis.MetricOmzetIndex
	}

	return domain.Config{
		FocalBrand:  brand,
		Comparison:  compare,
		Metric:      metric,
		SkipMissing: sel.SkipMissing,
	}
}

func comparisonOptions(brands []string, focal string) []Option {
	out := []Option{{Value: domain.GroupAverage, Label: domain.GroupAverageLabel}}
	for _, b := range brands {
		if b == focal {
			continue
		}
		out = append(out, Option{Value: b, Label: b})
	}
	return out
}

func metricOptions() []Option {
	keys := brandanalysis.MetricKeys()
	out := make([]Option, 0, len(keys))
	for _, k := range keys {
		out = append(out, Option{Value: string(k), Label: k.Label()})
	}
	return out
}

// fingerprint 以 id 與上傳時間識別一組週報；內容被覆蓋時上傳時間會改變。
func fingerprint(recs []brandanalysis.AnalysisRecord) string {
	h := fnv.New64a()
	for _, r := range recs {
		h.Write([]byte(r.ID))
		h.Write([]byte{0})
		h.Write([]byte(strconv.FormatInt(r.UploadDate.UnixNano(), 10)))
		h.Write([]byte{0})
	}
	return strconv.Itoa(len(recs)) + ":" + strconv.FormatUint(h.Sum64(), 16)
}
