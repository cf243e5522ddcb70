package chart

import (
	"bytes"
	"errors"
	"fmt"

	apptrend "brand-trends/internal/application/trend"
	domain "brand-trends/internal/domain/trend"

	gochart "github.com/wcharczuk/go-chart/v2"
)

const (
	DefaultWidth  = 900
	DefaultHeight = 360
)

// ErrNothingToDraw 兩條序列在略過缺值後都沒有點。
var ErrNothingToDraw = errors.New("nothing to draw")

// Renderer 以 go-chart 將趨勢結果輸出為 PNG 或 SVG。
type Renderer struct {
	width  int
	height int
}

// NewRenderer 建立圖檔輸出器；尺寸 <= 0 時使用預設值。
func NewRenderer(width, height int) *Renderer {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &Renderer{width: width, height: height}
}

// Render 實作 trend.ChartRenderer。
func (r *Renderer) Render(view domain.View, format apptrend.ImageFormat) ([]byte, error) {
	var provider gochart.RendererProvider
	switch format {
	case apptrend.FormatPNG:
		provider = gochart.PNG
	case apptrend.FormatSVG:
		provider = gochart.SVG
	default:
		return nil, fmt.Errorf("%w: %q", apptrend.ErrUnsupportedFormat, format)
	}

	ch, err := r.build(view)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := ch.Render(provider, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) build(view domain.View) (gochart.Chart, error) {
	skip := view.Config.SkipMissing
	var series []gochart.Series
	if s, ok := lineSeries(view.Focal.Label, view.Series.Focal, skip, gochart.Style{
		StrokeColor: gochart.ColorBlue,
		StrokeWidth: 2,
		DotColor:    gochart.ColorBlue,
		DotWidth:    3,
	}); ok {
		series = append(series, s)
	}
	if s, ok := lineSeries(view.Comparison.Label, view.Series.Comparison, skip, gochart.Style{
		StrokeColor:     gochart.ColorAlternateGray,
		StrokeWidth:     2,
		StrokeDashArray: []float64{5, 5},
		DotColor:        gochart.ColorAlternateGray,
		DotWidth:        3,
	}); ok {
		series = append(series, s)
	}
	if len(series) == 0 {
		return gochart.Chart{}, ErrNothingToDraw
	}

	n := len(view.Series.Focal)
	ch := gochart.Chart{
		Title:  view.MetricLabel + " Comparison",
		Width:  r.width,
		Height: r.height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis:  xAxis(view.Series.Focal, n),
		YAxis:  yAxis(view),
		Series: series,
	}
	ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}
	return ch, nil
}

// lineSeries X 為週序號；略過缺值時只保留有資料的點，單點時複製一份避免零寬度範圍。
func lineSeries(name string, s domain.Series, skipMissing bool, style gochart.Style) (gochart.ContinuousSeries, bool) {
	xs := make([]float64, 0, len(s))
	ys := make([]float64, 0, len(s))
	for i, p := range s {
		if skipMissing && !p.Present {
			continue
		}
		xs = append(xs, float64(i))
		ys = append(ys, p.Value)
	}
	if len(xs) == 0 {
		return gochart.ContinuousSeries{}, false
	}
	if len(xs) == 1 {
		xs = append(xs, xs[0])
		ys = append(ys, ys[0])
	}
	return gochart.ContinuousSeries{Name: name, XValues: xs, YValues: ys, Style: style}, true
}

func xAxis(s domain.Series, n int) gochart.XAxis {
	ticks := make([]gochart.Tick, 0, len(s))
	for i, p := range s {
		ticks = append(ticks, gochart.Tick{Value: float64(i), Label: p.Week})
	}
	maxX := float64(n - 1)
	if maxX <= 0 {
		maxX = 1
	}
	return gochart.XAxis{
		Ticks: ticks,
		Range: &gochart.ContinuousRange{Min: 0, Max: maxX},
	}
}

// yAxis 刻度沿用版面計算出的格線，確保圖檔與儀表板一致。
func yAxis(view domain.View) gochart.YAxis {
	d := view.Chart.Domain
	grid := view.Chart.Gridlines
	ticks := make([]gochart.Tick, 0, len(grid))
	for i := len(grid) - 1; i >= 0; i-- {
		label := grid[i].Label
		if label == "" {
			label = domain.FormatAxis(grid[i].Value)
		}
		ticks = append(ticks, gochart.Tick{Value: grid[i].Value, Label: label})
	}
	return gochart.YAxis{
		Name:  view.Unit,
		Range: &gochart.ContinuousRange{Min: d.Max - d.Range(), Max: d.Max},
		Ticks: ticks,
	}
}
