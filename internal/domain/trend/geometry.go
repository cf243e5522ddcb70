package trend

// DefaultGridlines 為水平格線的預設數量。
const DefaultGridlines = 5

// Domain 為兩條序列共用的數值範圍。
type Domain struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Range 回傳 Max-Min；兩者相等時回傳 1，避免高度為零的刻度。
func (d Domain) Range() float64 {
	r := d.Max - d.Min
	if r == 0 {
		return 1
	}
	return r
}

// DomainOf 取所有序列數值的聯合最小／最大值。沒有任何點時為 {0, 0}。
func DomainOf(series ...Series) Domain {
	var d Domain
	first := true
	for _, s := range series {
		for _, p := range s {
			if first {
				d.Min, d.Max = p.Value, p.Value
				first = false
				continue
			}
			if p.Value < d.Min {
				d.Min = p.Value
			}
			if p.Value > d.Max {
				d.Max = p.Value
			}
		}
	}
	return d
}

// Frame 描述繪圖區：X 以寬度百分比表示，Y 以像素表示。
type Frame struct {
	Start   float64 `json:"start"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Padding float64 `json:"padding"`
}

// DefaultFrame 回傳儀表板折線圖的預設版面。
func DefaultFrame() Frame {
	return Frame{Start: 8, Width: 85, Height: 300, Padding: 40}
}

// X 回傳第 i 個點（共 n 點）的水平位置；單點置中。
func (f Frame) X(i, n int) float64 {
	if n <= 1 {
		return f.Start + f.Width/2
	}
	return f.Start + float64(i)/float64(n-1)*f.Width
}

// Y 將數值線性映射到 [Padding, Height-Padding]，數值越大越靠上。
// 超出 domain 的數值（例如略過缺值時的 0）會被夾在繪圖區邊界。
func (f Frame) Y(v float64, d Domain) float64 {
	y := f.Padding + (d.Max-v)/d.Range()*f.band()
	return min(max(y, f.Padding), f.Height-f.Padding)
}

func (f Frame) band() float64 {
	return f.Height - 2*f.Padding
}

// ChartPoint 為版面座標，並保留來源點供 tooltip 使用。
type ChartPoint struct {
	X       float64         `json:"x"`
	Y       float64         `json:"y"`
	Missing bool            `json:"missing,omitempty"`
	Tooltip string          `json:"tooltip,omitempty"`
	Point   TimeSeriesPoint `json:"point"`
}

// Segment 為相鄰兩點間的連線。
type Segment struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Gridline 為水平格線的像素位置與代表數值。
type Gridline struct {
	Position float64 `json:"position"`
	Value    float64 `json:"value"`
	Label    string  `json:"label,omitempty"`
}

// Layout 將序列轉成座標；相同輸入恆得相同輸出。
func Layout(series Series, d Domain, f Frame) []ChartPoint {
	out := make([]ChartPoint, len(series))
	n := len(series)
	for i, p := range series {
		out[i] = ChartPoint{
			X:       f.X(i, n),
			Y:       f.Y(p.Value, d),
			Missing: !p.Present,
			Point:   p,
		}
	}
	return out
}

// Segments 連接相鄰點；skipMissing 時略過缺值點，直接連到下一個有值的點。
func Segments(points []ChartPoint, skipMissing bool) []Segment {
	var kept []ChartPoint
	for _, p := range points {
		if skipMissing && p.Missing {
			continue
		}
		kept = append(kept, p)
	}
	if len(kept) < 2 {
		return nil
	}
	out := make([]Segment, 0, len(kept)-1)
	for i := 0; i < len(kept)-1; i++ {
		out = append(out, Segment{X1: kept[i].X, Y1: kept[i].Y, X2: kept[i+1].X, Y2: kept[i+1].Y})
	}
	return out
}

// Gridlines 在數值範圍內平均配置 count 條格線，由上（Max）到下（Min）。
func Gridlines(d Domain, f Frame, count int) []Gridline {
	if count < 2 {
		count = DefaultGridlines
	}
	out := make([]Gridline, count)
	r := d.Range()
	for k := 0; k < count; k++ {
		frac := float64(k) / float64(count-1)
		out[k] = Gridline{
			Position: f.Padding + f.band()*frac,
			Value:    d.Max - r*frac,
		}
	}
	return out
}
