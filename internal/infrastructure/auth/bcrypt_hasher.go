package authinfra

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher 使用 bcrypt 檢查密碼。
type BcryptHasher struct{}

func (BcryptHasher) Compare(hashed, plain string) bool {
	if hashed == "" || plain == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}

func (BcryptHasher) Hash(plain string) (string, error) {
	return HashPassword(plain)
}

// HashPassword 產生 bcrypt 雜湊。
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ResolvePasswordHash 優先使用設定的雜湊，否則將明文密碼雜湊；兩者皆空時回傳空字串（登入關閉）。
func ResolvePasswordHash(hash, plain string) (string, error) {
	if h := strings.TrimSpace(hash); h != "" {
		if _, err := bcrypt.Cost([]byte(h)); err != nil {
			return "", err
		}
		return h, nil
	}
	if plain == "" {
		return "", nil
	}
	return HashPassword(plain)
}
