package settings

import (
	"context"
	"errors"
)

// ErrNotFound 表示尚未儲存任何設定。
var ErrNotFound = errors.New("settings not found")

// Thresholds 品牌分析的判斷門檻。
type Thresholds struct {
	HighMargin      float64 `json:"high_margin"`
	LowMargin       float64 `json:"low_margin"`
	HighVolumeShare float64 `json:"high_volume_share"`
}

// BrandAnalyzer 品牌分析與趨勢頁的偏好設定。
type BrandAnalyzer struct {
	CompetitorBrands  []string   `json:"competitor_brands"`
	PrimaryBrand      string     `json:"primary_brand"`
	DefaultTrendBrand string     `json:"default_trend_brand,omitempty"`
	DefaultComparison string     `json:"default_comparison,omitempty"`
	Thresholds        Thresholds `json:"thresholds"`
}

// Settings 為儀表板全域設定。
type Settings struct {
	BrandAnalyzer BrandAnalyzer `json:"brand_analyzer"`
}

// DefaultCompetitorBrands 預設追蹤的品牌。
var DefaultCompetitorBrands = []string{
	"FREEBIRD",
	"FABIENNE CHAPOT",
	"HARPER & YVE",
	"JOSH V",
	"POM AMSTERDAM",
	"AAIKO",
}

// Defaults 回傳尚未設定時使用的預設值。
func Defaults() Settings {
	brands := make([]string, len(DefaultCompetitorBrands))
	copy(brands, DefaultCompetitorBrands)
	return Settings{
		BrandAnalyzer: BrandAnalyzer{
			CompetitorBrands:  brands,
			PrimaryBrand:      "FREEBIRD",
			DefaultComparison: "GROUP_AVERAGE",
			Thresholds: Thresholds{
				HighMargin:      56,
				LowMargin:       48,
				HighVolumeShare: 1.0,
			},
		},
	}
}

// Validate 檢查門檻是否合理。
func (s Settings) Validate() error {
	t := s.BrandAnalyzer.Thresholds
	if t.LowMargin > t.HighMargin {
		return errors.New("low_margin must not exceed high_margin")
	}
	if t.HighVolumeShare < 0 {
		return errors.New("high_volume_share must not be negative")
	}
	return nil
}

// Store 讀寫設定；尚未儲存時 Load 回傳 ErrNotFound。
type Store interface {
	Load(ctx context.Context) (Settings, error)
	Save(ctx context.Context, s Settings) error
}
