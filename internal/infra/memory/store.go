package memory

import (
	"context"
	"sync"
	"time"

	authDomain "brand-trends/internal/domain/auth"
	"brand-trends/internal/domain/brandanalysis"
	settingsDomain "brand-trends/internal/domain/settings"
)

// Store 為未設定資料庫時使用的記憶體儲存，併發安全，程序結束即消失。
type Store struct {
	mu       sync.RWMutex
	analyses map[string]brandanalysis.AnalysisRecord
	settings *settingsDomain.Settings
	sessions map[string]authDomain.Session
}

// NewStore 建立新的記憶體 Store 實例。
func NewStore() *Store {
	return &Store{
		analyses: make(map[string]brandanalysis.AnalysisRecord),
		sessions: make(map[string]authDomain.Session),
	}
}

// List 回傳所有週報（順序不保證）。
func (s *Store) List(ctx context.Context) ([]brandanalysis.AnalysisRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]brandanalysis.AnalysisRecord, 0, len(s.analyses))
	for _, r := range s.analyses {
		out = append(out, r)
	}
	return out, nil
}

// Get 依 id 取得週報。
func (s *Store) Get(ctx context.Context, id string) (brandanalysis.AnalysisRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.analyses[id]
	if !ok {
		return brandanalysis.AnalysisRecord{}, brandanalysis.ErrNotFound
	}
	return r, nil
}

// Save 以 id 覆蓋寫入。
func (s *Store) Save(ctx context.Context, rec brandanalysis.AnalysisRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analyses[rec.ID] = rec
	return nil
}

// Delete 刪除週報。
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.analyses[id]; !ok {
		return brandanalysis.ErrNotFound
	}
	delete(s.analyses, id)
	return nil
}

// SettingsStore 以 Load/Save 介面暴露設定，避免與週報的 List/Get 方法混淆。
func (s *Store) SettingsStore() settingsDomain.Store {
	return settingsView{s}
}

type settingsView struct {
	s *Store
}

func (v settingsView) Load(ctx context.Context) (settingsDomain.Settings, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	if v.s.settings == nil {
		return settingsDomain.Settings{}, settingsDomain.ErrNotFound
	}
	return cloneSettings(*v.s.settings), nil
}

func (v settingsView) Save(ctx context.Context, st settingsDomain.Settings) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	c := cloneSettings(st)
	v.s.settings = &c
	return nil
}

func cloneSettings(st settingsDomain.Settings) settingsDomain.Settings {
	brands := make([]string, len(st.BrandAnalyzer.CompetitorBrands))
	copy(brands, st.BrandAnalyzer.CompetitorBrands)
	st.BrandAnalyzer.CompetitorBrands = brands
	return st
}

// SaveSession 儲存登入 session。
func (s *Store) SaveSession(ctx context.Context, sess authDomain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return nil
}

// GetSession 查詢 session。
func (s *Store) GetSession(ctx context.Context, id string) (authDomain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return authDomain.Session{}, authDomain.ErrSessionNotFound
	}
	return sess, nil
}

// RevokeSession 標記 session 為已撤銷；不存在時忽略。
func (s *Store) RevokeSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil
	}
	now := time.Now()
	sess.RevokedAt = &now
	s.sessions[id] = sess
	return nil
}

// PurgeSessions 移除已過期或已撤銷的 session，回傳移除數量。
func (s *Store) PurgeSessions(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, sess := range s.sessions {
		if !sess.Active(now) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}
