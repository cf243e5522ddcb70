package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	authDomain "brand-trends/internal/domain/auth"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestSessionRepo_SaveSession(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %s", err)
	}
	defer db.Close()

	repo := NewSessionRepo(db)
	sess := authDomain.Session{
		ID:        "s-1",
		ExpiresAt: time.Now().Add(time.Hour),
		UserAgent: "UA",
		IPAddress: "127.0.0.1",
		CreatedAt: time.Now(),
	}

	mock.ExpectExec("INSERT INTO auth_sessions").
		WithArgs(sess.ID, sess.ExpiresAt, sess.UserAgent, sess.IPAddress, sess.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.SaveSession(context.Background(), sess); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}
}

func TestSessionRepo_GetSession(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %s", err)
	}
	defer db.Close()

	repo := NewSessionRepo(db)
	cols := []string{"id", "expires_at", "revoked_at", "user_agent", "ip_address", "created_at"}
	revoked := time.Now().Add(-time.Minute)

	mock.ExpectQuery("SELECT (.+) FROM auth_sessions").
		WithArgs("s-1").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("s-1", time.Now().Add(time.Hour), nil, "UA", "127.0.0.1", time.Now()))
	sess, err := repo.GetSession(context.Background(), "s-1")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if sess.ID != "s-1" || sess.RevokedAt != nil || !sess.Active(time.Now()) {
		t.Errorf("unexpected session: %+v", sess)
	}

	mock.ExpectQuery("SELECT (.+) FROM auth_sessions").
		WithArgs("s-2").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("s-2", time.Now().Add(time.Hour), revoked, "UA", "127.0.0.1", time.Now()))
	sess, err = repo.GetSession(context.Background(), "s-2")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if sess.RevokedAt == nil || sess.Active(time.Now()) {
		t.Errorf("expected revoked session: %+v", sess)
	}

	mock.ExpectQuery("SELECT (.+) FROM auth_sessions").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)
	if _, err := repo.GetSession(context.Background(), "missing"); !errors.Is(err, authDomain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionRepo_RevokeSession(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %s", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE auth_sessions").
		WithArgs("s-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := NewSessionRepo(db).RevokeSession(context.Background(), "s-1"); err != nil {
		t.Fatalf("RevokeSession failed: %v", err)
	}
}

func TestSessionRepo_PurgeExpired(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %s", err)
	}
	defer db.Close()

	mock.ExpectExec("DELETE FROM auth_sessions").
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := NewSessionRepo(db).PurgeExpired(context.Background(), 24*time.Hour)
	if err != nil || n != 3 {
		t.Fatalf("unexpected purge result: n=%d err=%v", n, err)
	}
}
