package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/postboard/blog-api/internal/core/domain"
)

var userRowColumns = []string{"id", "email", "password", "created_at"}

func TestUserRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (email, password) VALUES ($1, $2) RETURNING id, email, password, created_at`)).
		WithArgs("a@example.com", "hash").
		WillReturnRows(sqlmock.NewRows(userRowColumns).AddRow(int64(1), "a@example.com", "hash", created))

	u, err := repo.Create(context.Background(), "a@example.com", "hash")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.ID != 1 || u.Email != "a@example.com" || !u.CreatedAt.Equal(created) {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestUserRepository_Create_Duplicate(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs("a@example.com", "hash").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	if _, err := repo.Create(context.Background(), "a@example.com", "hash"); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestUserRepository_FindByEmail(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE email = $1`)).
		WithArgs("b@example.com").
		WillReturnRows(sqlmock.NewRows(userRowColumns).AddRow(int64(2), "b@example.com", "digest", time.Now()))

	u, err := repo.FindByEmail(context.Background(), "b@example.com")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if u.PasswordHash != "digest" {
		t.Fatalf("expected digest to be loaded, got %q", u.PasswordHash)
	}
}

func TestUserRepository_FindByID_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE id = $1`)).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows(userRowColumns))

	if _, err := repo.FindByID(context.Background(), 9); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserRepository_FindByID_DriverError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE id = $1`)).
		WithArgs(int64(9)).
		WillReturnError(errors.New("conn refused"))

	_, err := repo.FindByID(context.Background(), 9)
	if err == nil || errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected wrapped driver error, got %v", err)
	}
}
