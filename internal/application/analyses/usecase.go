package analyses

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"brand-trends/internal/domain/brandanalysis"
)

// Repository 週報儲存；找不到時回傳 brandanalysis.ErrNotFound。
type Repository interface {
	List(ctx context.Context) ([]brandanalysis.AnalysisRecord, error)
	Get(ctx context.Context, id string) (brandanalysis.AnalysisRecord, error)
	Save(ctx context.Context, rec brandanalysis.AnalysisRecord) error
	Delete(ctx context.Context, id string) error
}

// UseCase 處理週報列表、查詢、匯入與刪除。
type UseCase struct {
	repo Repository
	now  func() time.Time
}

func NewUseCase(repo Repository) *UseCase {
	return &UseCase{repo: repo, now: time.Now}
}

// Summary 為列表頁使用的精簡資訊。
type Summary struct {
	ID         string            `json:"id"`
	Year       int               `json:"year"`
	WeekNumber int               `json:"week_number"`
	UploadDate time.Time         `json:"upload_date"`
	Status     string            `json:"status"`
	BrandCount int               `json:"brand_count"`
	Files      map[string]string `json:"files,omitempty"`
}

// List 回傳所有週報，最新週在前。
func (u *UseCase) List(ctx context.Context) ([]Summary, error) {
	recs, err := u.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	recs = brandanalysis.SortNewestFirst(recs)
	out := make([]Summary, 0, len(recs))
	for _, r := range recs {
		out = append(out, Summary{
			ID:         r.ID,
			Year:       r.Year,
			WeekNumber: r.WeekNumber,
			UploadDate: r.UploadDate,
			Status:     r.Status,
			BrandCount: len(r.BrandsData),
			Files:      r.Files,
		})
	}
	return out, nil
}

// Records 回傳完整週報（趨勢計算使用），順序不保證。
func (u *UseCase) Records(ctx context.Context) ([]brandanalysis.AnalysisRecord, error) {
	return u.repo.List(ctx)
}

// Get 取得單一週報。
func (u *UseCase) Get(ctx context.Context, id string) (brandanalysis.AnalysisRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return brandanalysis.AnalysisRecord{}, brandanalysis.ErrNotFound
	}
	return u.repo.Get(ctx, id)
}

// IngestInput 已抽取完成的週報資料。
type IngestInput struct {
	Year         int                                `json:"year"`
	WeekNumber   int                                `json:"week_number"`
	BrandsData   map[string]brandanalysis.MetricSet `json:"brands_data"`
	GroupAverage brandanalysis.MetricSet            `json:"group_average"`
	Files        map[string]string                  `json:"files,omitempty"`
}

// ErrInvalidInput 匯入資料不完整。
var ErrInvalidInput = errors.New("invalid analysis input")

// Ingest 驗證並儲存週報；同週同年重複匯入會覆蓋舊資料。
func (u *UseCase) Ingest(ctx context.Context, in IngestInput) (brandanalysis.AnalysisRecord, error) {
	rec := brandanalysis.AnalysisRecord{
		ID:           brandanalysis.RecordID(in.WeekNumber, in.Year),
		Year:         in.Year,
		WeekNumber:   in.WeekNumber,
		UploadDate:   u.now().UTC(),
		Status:       brandanalysis.StatusCompleted,
		BrandsData:   brandanalysis.NormalizeBrandKeys(in.BrandsData),
		GroupAverage: in.GroupAverage,
		Files:        in.Files,
	}
	if err := rec.Validate(); err != nil {
		return brandanalysis.AnalysisRecord{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(rec.BrandsData) == 0 && len(rec.GroupAverage) == 0 {
		return brandanalysis.AnalysisRecord{}, fmt.Errorf("%w: brands_data or group_average is required", ErrInvalidInput)
	}
	if err := u.repo.Save(ctx, rec); err != nil {
		return brandanalysis.AnalysisRecord{}, fmt.Errorf("save analysis: %w", err)
	}
	return rec, nil
}

// Delete 刪除週報。
func (u *UseCase) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return brandanalysis.ErrNotFound
	}
	return u.repo.Delete(ctx, id)
}
