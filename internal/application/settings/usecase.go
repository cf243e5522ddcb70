package settings

import (
	"context"
	"errors"
	"fmt"

	"brand-trends/internal/domain/brandanalysis"
	domain "brand-trends/internal/domain/settings"
)

const groupAverage = "GROUP_AVERAGE"

// ErrInvalidSettings 設定內容不合法。
var ErrInvalidSettings = errors.New("invalid settings")

// UseCase 讀寫儀表板設定。
type UseCase struct {
	store domain.Store
}

func NewUseCase(store domain.Store) *UseCase {
	return &UseCase{store: store}
}

// Get 讀取設定；尚未儲存時回傳預設值。
func (u *UseCase) Get(ctx context.Context) (domain.Settings, error) {
	s, err := u.store.Load(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Defaults(), nil
	}
	if err != nil {
		return domain.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	return s, nil
}

// Load 同 Get，供趨勢用例以 SettingsReader 介面使用。
func (u *UseCase) Load(ctx context.Context) (domain.Settings, error) {
	return u.Get(ctx)
}

// Update 正規化後儲存並回傳實際生效的設定。
func (u *UseCase) Update(ctx context.Context, in domain.Settings) (domain.Settings, error) {
	s := Normalize(in)
	if err := s.Validate(); err != nil {
		return domain.Settings{}, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	if err := u.store.Save(ctx, s); err != nil {
		return domain.Settings{}, fmt.Errorf("save settings: %w", err)
	}
	return s, nil
}

// Normalize 品牌名稱轉大寫去重；空清單補預設品牌，主品牌不在清單中時取第一個。
func Normalize(in domain.Settings) domain.Settings {
	out := in
	ba := &out.BrandAnalyzer

	ba.CompetitorBrands = brandanalysis.NormalizeBrands(in.BrandAnalyzer.CompetitorBrands)
	if len(ba.CompetitorBrands) == 0 {
		ba.CompetitorBrands = domain.Defaults().BrandAnalyzer.CompetitorBrands
	}

	ba.PrimaryBrand = brandanalysis.NormalizeBrand(ba.PrimaryBrand)
	if !contains(ba.CompetitorBrands, ba.PrimaryBrand) {
		ba.PrimaryBrand = ba.CompetitorBrands[0]
	}

	ba.DefaultTrendBrand = brandanalysis.NormalizeBrand(ba.DefaultTrendBrand)

	ba.DefaultComparison = brandanalysis.NormalizeBrand(ba.DefaultComparison)
	if ba.DefaultComparison == "" {
		ba.DefaultComparison = groupAverage
	}
	return out
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
