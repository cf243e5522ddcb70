package trend

// Statistics 為單一序列的描述統計。
type Statistics struct {
	Average       float64 `json:"avg"`
	Min           float64 `json:"min"`
	Max           float64 `json:"max"`
	Latest        float64 `json:"latest"`
	Previous      float64 `json:"previous"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	Samples       int     `json:"samples"`
}

// StatsOptions 控制缺值是否納入統計。
type StatsOptions struct {
	SkipMissing bool
}

// Direction 依變化量回傳 up / down（0 視為 up）。
func (s Statistics) Direction() string {
	if s.Change >= 0 {
		return "up"
	}
	return "down"
}

// ComputeStats 計算序列統計；空序列回傳 nil。缺值以 0 計入。
func ComputeStats(series Series) *Statistics {
	return ComputeStatsWith(series, StatsOptions{})
}

// ComputeStatsWith 同 ComputeStats；SkipMissing 時只使用有資料的點，全部缺值則回傳 nil。
func ComputeStatsWith(series Series, opts StatsOptions) *Statistics {
	values := make([]float64, 0, len(series))
	for _, p := range series {
		if opts.SkipMissing && !p.Present {
			continue
		}
		values = append(values, p.Value)
	}
	return statsOf(values)
}

func statsOf(values []float64) *Statistics {
	n := len(values)
	if n == 0 {
		return nil
	}
	sum := 0.0
	minV, maxV := values[0], values[0]
	for _, v := range values {
		sum += v
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	latest := values[n-1]
	previous := latest
	if n > 1 {
		previous = values[n-2]
	}
	change := latest - previous
	changePct := 0.0
	if previous != 0 {
		changePct = change / previous * 100
	}
	return &Statistics{
		Average:       sum / float64(n),
		Min:           minV,
		Max:           maxV,
		Latest:        latest,
		Previous:      previous,
		Change:        change,
		ChangePercent: changePct,
		Samples:       n,
	}
}
