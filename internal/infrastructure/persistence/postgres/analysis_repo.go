package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"brand-trends/internal/domain/brandanalysis"
)

// AnalysisRepo 以 brand_analyses 表保存週報；品牌資料以 JSONB 欄位儲存。
type AnalysisRepo struct {
	db *sql.DB
}

// NewAnalysisRepo 建立 AnalysisRepo。
func NewAnalysisRepo(db *sql.DB) *AnalysisRepo {
	return &AnalysisRepo{db: db}
}

const analysisColumns = `id, year, week_number, upload_date, status, brands_data, group_average, files`

// List 取出全部週報。
func (r *AnalysisRepo) List(ctx context.Context) ([]brandanalysis.AnalysisRecord, error) {
	const q = `SELECT ` + analysisColumns + ` FROM brand_analyses ORDER BY year, week_number;`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []brandanalysis.AnalysisRecord
	for rows.Next() {
		rec, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Get 依 id 取得週報。
func (r *AnalysisRepo) Get(ctx context.Context, id string) (brandanalysis.AnalysisRecord, error) {
	const q = `SELECT ` + analysisColumns + ` FROM brand_analyses WHERE id = $1 LIMIT 1;`
	rec, err := scanAnalysis(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return brandanalysis.AnalysisRecord{}, brandanalysis.ErrNotFound
	}
	return rec, err
}

// Save 以 id 為唯一鍵寫入或覆蓋。
func (r *AnalysisRepo) Save(ctx context.Context, rec brandanalysis.AnalysisRecord) error {
	const q = `
INSERT INTO brand_analyses (id, year, week_number, upload_date, status, brands_data, group_average, files)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (id)
DO UPDATE SET year = EXCLUDED.year,
              week_number = EXCLUDED.week_number,
              upload_date = EXCLUDED.upload_date,
              status = EXCLUDED.status,
              brands_data = EXCLUDED.brands_data,
              group_average = EXCLUDED.group_average,
              files = EXCLUDED.files;
`
	brands, err := json.Marshal(rec.BrandsData)
	if err != nil {
		return fmt.Errorf("marshal brands_data: %w", err)
	}
	group, err := json.Marshal(rec.GroupAverage)
	if err != nil {
		return fmt.Errorf("marshal group_average: %w", err)
	}
	files, err := json.Marshal(rec.Files)
	if err != nil {
		return fmt.Errorf("marshal files: %w", err)
	}
	_, err = r.db.ExecContext(ctx, q,
		rec.ID,
		rec.Year,
		rec.WeekNumber,
		rec.UploadDate,
		rec.Status,
		brands,
		group,
		files,
	)
	return err
}

// Delete 刪除週報；不存在時回傳 ErrNotFound。
func (r *AnalysisRepo) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM brand_analyses WHERE id = $1;`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return brandanalysis.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(s scanner) (brandanalysis.AnalysisRecord, error) {
	var (
		rec                  brandanalysis.AnalysisRecord
		brands, group, files []byte
	)
	if err := s.Scan(&rec.ID, &rec.Year, &rec.WeekNumber, &rec.UploadDate, &rec.Status, &brands, &group, &files); err != nil {
		return brandanalysis.AnalysisRecord{}, err
	}
	if err := unmarshalOptional(brands, &rec.BrandsData); err != nil {
		return brandanalysis.AnalysisRecord{}, fmt.Errorf("decode brands_data of %s: %w", rec.ID, err)
	}
	if err := unmarshalOptional(group, &rec.GroupAverage); err != nil {
		return brandanalysis.AnalysisRecord{}, fmt.Errorf("decode group_average of %s: %w", rec.ID, err)
	}
	if err := unmarshalOptional(files, &rec.Files); err != nil {
		return brandanalysis.AnalysisRecord{}, fmt.Errorf("decode files of %s: %w", rec.ID, err)
	}
	return rec, nil
}

func unmarshalOptional(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}
