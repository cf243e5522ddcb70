package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"brand-trends/internal/domain/auth"
)

// PasswordHasher 驗證密碼。
type PasswordHasher interface {
	Compare(hashed, plain string) bool
}

// TokenIssuer 簽發/驗證/撤銷 token。Verify 對無效或已撤銷的 token 回傳 auth.ErrUnauthenticated。
type TokenIssuer interface {
	Issue(ctx context.Context, meta auth.ClientMeta) (auth.Token, error)
	Verify(ctx context.Context, token string) (auth.Token, error)
	Revoke(ctx context.Context, token string) error
}

// LoginUseCase 以共用密碼登入並簽發 token。
type LoginUseCase struct {
	passwordHash string
	hasher       PasswordHasher
	tokens       TokenIssuer
}

func NewLoginUseCase(passwordHash string, hasher PasswordHasher, tokens TokenIssuer) *LoginUseCase {
	return &LoginUseCase{
		passwordHash: passwordHash,
		hasher:       hasher,
		tokens:       tokens,
	}
}

type LoginInput struct {
	Password string
	Meta     auth.ClientMeta
}

func (uc *LoginUseCase) Execute(ctx context.Context, input LoginInput) (auth.Token, error) {
	if input.Password == "" {
		return auth.Token{}, errors.New("password required")
	}
	if uc.passwordHash == "" || !uc.hasher.Compare(uc.passwordHash, input.Password) {
		return auth.Token{}, auth.ErrInvalidCredentials
	}
	token, err := uc.tokens.Issue(ctx, input.Meta)
	if err != nil {
		return auth.Token{}, fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// LogoutUseCase 撤銷 token 對應的 session；空 token 視為已登出。
type LogoutUseCase struct {
	tokens TokenIssuer
}

func NewLogoutUseCase(tokens TokenIssuer) *LogoutUseCase {
	return &LogoutUseCase{tokens: tokens}
}

func (uc *LogoutUseCase) Execute(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return uc.tokens.Revoke(ctx, token)
}

// CheckResult 登入狀態。
type CheckResult struct {
	Authenticated bool       `json:"authenticated"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
}

// CheckUseCase 回報 token 是否仍有效。
type CheckUseCase struct {
	tokens TokenIssuer
}

func NewCheckUseCase(tokens TokenIssuer) *CheckUseCase {
	return &CheckUseCase{tokens: tokens}
}

// Execute 無效 token 不視為錯誤，只回傳未登入；其他錯誤（例如 session 儲存失敗）照常回傳。
func (uc *CheckUseCase) Execute(ctx context.Context, token string) (CheckResult, error) {
	if token == "" {
		return CheckResult{}, nil
	}
	t, err := uc.tokens.Verify(ctx, token)
	if errors.Is(err, auth.ErrUnauthenticated) {
		return CheckResult{}, nil
	}
	if err != nil {
		return CheckResult{}, err
	}
	exp := t.ExpiresAt
	return CheckResult{Authenticated: true, ExpiresAt: &exp}, nil
}
