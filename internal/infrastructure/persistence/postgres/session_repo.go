package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	authDomain "brand-trends/internal/domain/auth"
)

// SessionRepo 保存登入 session。
type SessionRepo struct {
	db  *sql.DB
	now func() time.Time
}

func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{db: db, now: time.Now}
}

func (r *SessionRepo) SaveSession(ctx context.Context, sess authDomain.Session) error {
	const q = `
INSERT INTO auth_sessions (id, expires_at, user_agent, ip_address, created_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE SET expires_at = EXCLUDED.expires_at, revoked_at = NULL;
`
	_, err := r.db.ExecContext(ctx, q, sess.ID, sess.ExpiresAt, sess.UserAgent, sess.IPAddress, sess.CreatedAt)
	return err
}

func (r *SessionRepo) GetSession(ctx context.Context, id string) (authDomain.Session, error) {
	const q = `
SELECT id, expires_at, revoked_at, user_agent, ip_address, created_at
FROM auth_sessions
WHERE id = $1
LIMIT 1;
`
	var (
		sess    authDomain.Session
		revoked sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(&sess.ID, &sess.ExpiresAt, &revoked, &sess.UserAgent, &sess.IPAddress, &sess.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return authDomain.Session{}, authDomain.ErrSessionNotFound
	}
	if err != nil {
		return authDomain.Session{}, err
	}
	if revoked.Valid {
		t := revoked.Time
		sess.RevokedAt = &t
	}
	return sess, nil
}

func (r *SessionRepo) RevokeSession(ctx context.Context, id string) error {
	const q = `UPDATE auth_sessions SET revoked_at = $2 WHERE id = $1 AND revoked_at IS NULL;`
	_, err := r.db.ExecContext(ctx, q, id, r.now())
	return err
}

// PurgeExpired 刪除過期或已撤銷超過保留期的 session。
func (r *SessionRepo) PurgeExpired(ctx context.Context, retain time.Duration) (int64, error) {
	const q = `DELETE FROM auth_sessions WHERE expires_at < $1 OR revoked_at < $1;`
	res, err := r.db.ExecContext(ctx, q, r.now().Add(-retain))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
