package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	settingsDomain "brand-trends/internal/domain/settings"
)

// SettingsStore 以 JSON 檔保存設定（縮排兩格）；寫入採暫存檔再 rename。
type SettingsStore struct {
	path string
	mu   sync.Mutex
}

func NewSettingsStore(path string) *SettingsStore {
	return &SettingsStore{path: path}
}

// Load 檔案不存在時回傳 settings.ErrNotFound。
func (s *SettingsStore) Load(ctx context.Context) (settingsDomain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return settingsDomain.Settings{}, settingsDomain.ErrNotFound
	}
	if err != nil {
		return settingsDomain.Settings{}, fmt.Errorf("read settings: %w", err)
	}
	var out settingsDomain.Settings
	if err := json.Unmarshal(data, &out); err != nil {
		return settingsDomain.Settings{}, fmt.Errorf("parse settings: %w", err)
	}
	return out, nil
}

func (s *SettingsStore) Save(ctx context.Context, st settingsDomain.Settings) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".settings-*.json")
	if err != nil {
		return fmt.Errorf("create temp settings: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
