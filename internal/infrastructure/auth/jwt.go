package authinfra

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"brand-trends/internal/domain/auth"

	"github.com/golang-jwt/jwt/v5"
)

// JWTIssuer 實作 TokenIssuer：access token 為 HS256 JWT，並以 sid 綁定可撤銷的 session。
type JWTIssuer struct {
	secret   []byte
	ttl      time.Duration
	sessions auth.SessionStore
	now      func() time.Time
}

// NewJWTIssuer 建立 JWT 簽發器。
func NewJWTIssuer(secret string, ttl time.Duration, sessions auth.SessionStore) *JWTIssuer {
	return &JWTIssuer{
		secret:   []byte(secret),
		ttl:      ttl,
		sessions: sessions,
		now:      time.Now,
	}
}

// Claims 定義 access token 的 payload。
type Claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// Issue 建立 session 並簽發 access token。
func (j *JWTIssuer) Issue(ctx context.Context, meta auth.ClientMeta) (auth.Token, error) {
	now := j.now()
	exp := now.Add(j.ttl)
	sid, err := randomToken()
	if err != nil {
		return auth.Token{}, err
	}
	if j.sessions != nil {
		if err := j.sessions.SaveSession(ctx, auth.Session{
			ID:        sid,
			ExpiresAt: exp,
			UserAgent: meta.UserAgent,
			IPAddress: meta.IP,
			CreatedAt: now,
		}); err != nil {
			return auth.Token{}, fmt.Errorf("save session: %w", err)
		}
	}

	claims := Claims{
		SessionID: sid,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   auth.Subject,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return auth.Token{}, err
	}
	return auth.Token{AccessToken: signed, SessionID: sid, ExpiresAt: exp}, nil
}

// Verify 驗證簽章、期限與 session 狀態。
func (j *JWTIssuer) Verify(ctx context.Context, token string) (auth.Token, error) {
	claims, err := j.ParseAccessToken(token)
	if err != nil {
		return auth.Token{}, fmt.Errorf("%w: %v", auth.ErrUnauthenticated, err)
	}
	exp := time.Time{}
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	if j.sessions != nil {
		sess, err := j.sessions.GetSession(ctx, claims.SessionID)
		if errors.Is(err, auth.ErrSessionNotFound) {
			return auth.Token{}, fmt.Errorf("%w: session not found", auth.ErrUnauthenticated)
		}
		if err != nil {
			return auth.Token{}, fmt.Errorf("get session: %w", err)
		}
		if !sess.Active(j.now()) {
			return auth.Token{}, fmt.Errorf("%w: session expired or revoked", auth.ErrUnauthenticated)
		}
		exp = sess.ExpiresAt
	}
	return auth.Token{AccessToken: token, SessionID: claims.SessionID, ExpiresAt: exp}, nil
}

// Revoke 撤銷 token 對應的 session；無法解析的 token 直接忽略。
func (j *JWTIssuer) Revoke(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" || j.sessions == nil {
		return nil
	}
	claims, err := j.ParseAccessToken(token)
	if err != nil {
		return nil
	}
	return j.sessions.RevokeSession(ctx, claims.SessionID)
}

// ParseAccessToken 驗證並解析 access token。
func (j *JWTIssuer) ParseAccessToken(token string) (Claims, error) {
	var claims Claims
	tkn, err := jwt.ParseWithClaims(token, &claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return j.secret, nil
	}, jwt.WithTimeFunc(j.now))
	if err != nil {
		return Claims{}, err
	}
	if !tkn.Valid {
		return Claims{}, errors.New("invalid token")
	}
	if claims.SessionID == "" {
		return Claims{}, errors.New("missing session id")
	}
	return claims, nil
}

func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
