package auth

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrSessionNotFound    = errors.New("session not found")
)

// Subject 為儀表板唯一的登入身分；系統只有一組共用密碼。
const Subject = "dashboard"

// Session 紀錄一次登入與其生命週期，JWT 以 ID 綁定。
type Session struct {
	ID        string
	ExpiresAt time.Time
	RevokedAt *time.Time
	UserAgent string
	IPAddress string
	CreatedAt time.Time
}

// Active 檢查 session 是否仍可使用。
func (s Session) Active(now time.Time) bool {
	if s.ExpiresAt.Before(now) {
		return false
	}
	if s.RevokedAt != nil && !s.RevokedAt.IsZero() {
		return false
	}
	return true
}

// SessionStore 提供 session 儲存/查詢/撤銷。找不到時回傳 ErrSessionNotFound。
type SessionStore interface {
	SaveSession(ctx context.Context, sess Session) error
	GetSession(ctx context.Context, id string) (Session, error)
	RevokeSession(ctx context.Context, id string) error
}

// ClientMeta 登入時附帶的用戶端資訊。
type ClientMeta struct {
	UserAgent string
	IP        string
}
