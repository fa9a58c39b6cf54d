package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"padron-electoral/internal/core/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}
	return db, mock
}

func TestBlacklistAddIsIdempotent(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBlacklistRepository(db)
	expiresAt := time.Now().UTC().Add(time.Hour)

	// First insert creates the row.
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "token_blacklist" (.+) ON CONFLICT \("token_jti"\) DO NOTHING`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	if err := repo.Add(context.Background(), "jti-abc", expiresAt); err != nil {
		t.Fatalf("Add: %v", err)
	}

	// Second insert conflicts and is a no-op, not an error.
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "token_blacklist" (.+) ON CONFLICT \("token_jti"\) DO NOTHING`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectCommit()

	if err := repo.Add(context.Background(), "jti-abc", expiresAt); err != nil {
		t.Fatalf("duplicate Add: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBlacklistExists(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBlacklistRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "token_blacklist" WHERE token_jti =`).
		WithArgs("jti-abc").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	revoked, err := repo.Exists(context.Background(), "jti-abc")
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !revoked {
		t.Fatalf("expected revoked jti to be reported")
	}

	mock.ExpectQuery(`SELECT count\(\*\) FROM "token_blacklist" WHERE token_jti =`).
		WithArgs("jti-other").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	revoked, err = repo.Exists(context.Background(), "jti-other")
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if revoked {
		t.Fatalf("unknown jti must not be reported revoked")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestConsumeLocksAndDeletes(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRefreshTokenRepository(db)
	expiresAt := time.Now().UTC().Add(time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "refresh_tokens" WHERE token = (.+) FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "token", "expires_at"}).
			AddRow(5, 7, "opaque-token", expiresAt))
	mock.ExpectExec(`DELETE FROM "refresh_tokens"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	stored, err := repo.Consume(context.Background(), "opaque-token")
	if err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if stored.UserID != 7 {
		t.Fatalf("unexpected owner: %d", stored.UserID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestConsumeUnknownToken(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRefreshTokenRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "refresh_tokens" WHERE token = (.+) FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "token", "expires_at"}))
	mock.ExpectRollback()

	if _, err := repo.Consume(context.Background(), "unknown"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestConsumeExpiredToken(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRefreshTokenRepository(db)
	expiresAt := time.Now().UTC().Add(-time.Minute)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "refresh_tokens" WHERE token = (.+) FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "token", "expires_at"}).
			AddRow(5, 7, "stale-token", expiresAt))
	mock.ExpectExec(`DELETE FROM "refresh_tokens"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	if _, err := repo.Consume(context.Background(), "stale-token"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetByUsernameNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`SELECT (.+) FROM "usuarios" WHERE username =`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := repo.GetByUsername(context.Background(), "ghost"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
