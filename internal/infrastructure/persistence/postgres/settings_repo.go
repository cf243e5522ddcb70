package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	settingsDomain "brand-trends/internal/domain/settings"
)

// SettingsRepo 以 app_settings 單列 JSONB 保存設定。
type SettingsRepo struct {
	db *sql.DB
}

func NewSettingsRepo(db *sql.DB) *SettingsRepo {
	return &SettingsRepo{db: db}
}

const settingsRowID = 1

func (r *SettingsRepo) Load(ctx context.Context) (settingsDomain.Settings, error) {
	const q = `SELECT data FROM app_settings WHERE id = $1 LIMIT 1;`
	var data []byte
	if err := r.db.QueryRowContext(ctx, q, settingsRowID).Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return settingsDomain.Settings{}, settingsDomain.ErrNotFound
		}
		return settingsDomain.Settings{}, err
	}
	var out settingsDomain.Settings
	if err := json.Unmarshal(data, &out); err != nil {
		return settingsDomain.Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	return out, nil
}

func (r *SettingsRepo) Save(ctx context.Context, s settingsDomain.Settings) error {
	const q = `
INSERT INTO app_settings (id, data, updated_at)
VALUES ($1, $2, NOW())
ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW();
`
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, q, settingsRowID, data)
	return err
}
