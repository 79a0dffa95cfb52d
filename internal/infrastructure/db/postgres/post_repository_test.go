package postgres

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/postboard/blog-api/internal/core/domain"
	"github.com/postboard/blog-api/internal/core/ports"
)

var detailRowColumns = []string{
	"id", "title", "content", "published", "created_at", "owner_id",
	"id", "email", "created_at", "votes",
}

func detailRow(id, ownerID, votes int64) *sqlmock.Rows {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(detailRowColumns).
		AddRow(id, "Title", "Body", true, now, ownerID, ownerID, "owner@example.com", now, votes)
}

func TestPostRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO posts (title, content, published, owner_id)`)).
		WithArgs("Title", "Body", true, int64(3)).
		WillReturnRows(detailRow(10, 3, 0))

	p, err := repo.Create(context.Background(), 3, ports.PostFields{Title: "Title", Content: "Body", Published: true})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.ID != 10 || p.OwnerID != 3 || p.Owner.Email != "owner@example.com" || p.Votes != 0 {
		t.Fatalf("unexpected post: %+v", p)
	}
}

func TestPostRepository_Create_UnknownOwner(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO posts`)).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	if _, err := repo.Create(context.Background(), 3, ports.PostFields{Title: "t", Content: "c"}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestPostRepository_FindByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE p.id = $1`)).
		WithArgs(int64(10)).
		WillReturnRows(detailRow(10, 3, 4))

	p, err := repo.FindByID(context.Background(), 10)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if p.Votes != 4 {
		t.Fatalf("expected 4 votes, got %d", p.Votes)
	}

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE p.id = $1`)).
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows(detailRowColumns))

	if _, err := repo.FindByID(context.Background(), 11); !errors.Is(err, domain.ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestPostRepository_List(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	rows := detailRow(2, 1, 0)
	rows.AddRow(int64(1), "Older", "Body", false, time.Now(), int64(1), int64(1), "owner@example.com", time.Now(), int64(2))

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE p.title ILIKE $1 ESCAPE '\' ORDER BY p.created_at DESC, p.id DESC LIMIT $2 OFFSET $3`)).
		WithArgs(`%50\%%`, 10, 5).
		WillReturnRows(rows)

	posts, err := repo.List(context.Background(), ports.ListPostsFilter{Search: "50%", Limit: 10, Offset: 5})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(posts) != 2 || posts[0].ID != 2 || posts[1].Votes != 2 {
		t.Fatalf("unexpected posts: %+v", posts)
	}
}

func TestPostRepository_List_Empty(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE p.owner_id = $1 ORDER BY`)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(detailRowColumns))

	posts, err := repo.List(context.Background(), ports.ListPostsFilter{OwnerID: 5})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if posts == nil || len(posts) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", posts)
	}
}

func TestBuildListQuery(t *testing.T) {
	query, args := buildListQuery(ports.ListPostsFilter{OwnerID: 7, Search: "go", Limit: 3})

	if !strings.Contains(query, "WHERE p.owner_id = $1 AND p.title ILIKE $2") {
		t.Fatalf("unexpected where clause: %s", query)
	}
	if strings.Contains(query, "OFFSET") {
		t.Fatalf("zero offset must be omitted: %s", query)
	}
	if len(args) != 3 || args[0] != int64(7) || args[1] != "%go%" || args[2] != 3 {
		t.Fatalf("unexpected args: %#v", args)
	}

	query, args = buildListQuery(ports.ListPostsFilter{})
	if strings.Contains(query, "WHERE") || strings.Contains(query, "LIMIT") || len(args) != 0 {
		t.Fatalf("empty filter must not constrain: %s %v", query, args)
	}
}

func TestPostRepository_UpdateOwned(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	fields := ports.PostFields{Title: "New", Content: "Body", Published: false}

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE id = $4 AND owner_id = $5`)).
		WithArgs("New", "Body", false, int64(10), int64(3)).
		WillReturnRows(detailRow(10, 3, 1))

	if _, err := repo.UpdateOwned(context.Background(), 10, 3, fields); err != nil {
		t.Fatalf("UpdateOwned: %v", err)
	}

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE id = $4 AND owner_id = $5`)).
		WithArgs("New", "Body", false, int64(10), int64(4)).
		WillReturnRows(sqlmock.NewRows(detailRowColumns))

	if _, err := repo.UpdateOwned(context.Background(), 10, 4, fields); !errors.Is(err, domain.ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound when no row matches, got %v", err)
	}
}

func TestPostRepository_DeleteOwned(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM posts WHERE id = $1 AND owner_id = $2`)).
		WithArgs(int64(10), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.DeleteOwned(context.Background(), 10, 3); err != nil {
		t.Fatalf("DeleteOwned: %v", err)
	}

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM posts`)).
		WithArgs(int64(10), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.DeleteOwned(context.Background(), 10, 3); !errors.Is(err, domain.ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}
