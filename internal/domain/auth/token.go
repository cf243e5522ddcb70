package auth

import "time"

// Token 為簽發後的 access token 與其對應 session。
type Token struct {
	AccessToken string
	SessionID   string
	ExpiresAt   time.Time
}
