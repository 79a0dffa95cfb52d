package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/postboard/blog-api/internal/core/domain"
	"github.com/postboard/blog-api/internal/core/ports"
)

// Every read goes through the same projection so a post always carries its
// owner and vote count.
const (
	detailColumns = `p.id, p.title, p.content, p.published, p.created_at, p.owner_id,
		u.id, u.email, u.created_at,
		(SELECT COUNT(*) FROM votes v WHERE v.post_id = p.id) AS votes`

	selectDetail = `SELECT ` + detailColumns + `
		FROM posts p
		JOIN users u ON u.id = p.owner_id`

	insertPost = `WITH p AS (
			INSERT INTO posts (title, content, published, owner_id)
			VALUES ($1, $2, $3, $4)
			RETURNING *
		)
		SELECT ` + detailColumns + `
		FROM p
		JOIN users u ON u.id = p.owner_id`

	updatePost = `WITH p AS (
			UPDATE posts SET title = $1, content = $2, published = $3
			WHERE id = $4 AND owner_id = $5
			RETURNING *
		)
		SELECT ` + detailColumns + `
		FROM p
		JOIN users u ON u.id = p.owner_id`

	deletePost = `DELETE FROM posts WHERE id = $1 AND owner_id = $2`
)

type PostRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(ctx context.Context, ownerID int64, f ports.PostFields) (*domain.PostDetail, error) {
	p, err := scanDetail(r.db.QueryRowContext(ctx, insertPost, f.Title, f.Content, f.Published, ownerID))
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("insert post: %w", err)
	}
	return p, nil
}

func (r *PostRepository) FindByID(ctx context.Context, id int64) (*domain.PostDetail, error) {
	p, err := scanDetail(r.db.QueryRowContext(ctx, selectDetail+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return p, nil
}

// List returns posts newest first. A zero Limit means no limit.
func (r *PostRepository) List(ctx context.Context, f ports.ListPostsFilter) ([]*domain.PostDetail, error) {
	query, args := buildListQuery(f)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]*domain.PostDetail, 0)
	for rows.Next() {
		p, err := scanDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (r *PostRepository) UpdateOwned(ctx context.Context, id, ownerID int64, f ports.PostFields) (*domain.PostDetail, error) {
	p, err := scanDetail(r.db.QueryRowContext(ctx, updatePost, f.Title, f.Content, f.Published, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("update post: %w", err)
	}
	return p, nil
}

// DeleteOwned removes the post and, through the foreign key cascade, its votes.
func (r *PostRepository) DeleteOwned(ctx context.Context, id, ownerID int64) error {
	res, err := r.db.ExecContext(ctx, deletePost, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if n == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

func buildListQuery(f ports.ListPostsFilter) (string, []any) {
	var (
		sb    strings.Builder
		args  []any
		conds []string
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	sb.WriteString(selectDetail)
	if f.OwnerID != 0 {
		conds = append(conds, "p.owner_id = "+arg(f.OwnerID))
	}
	if f.Search != "" {
		conds = append(conds, "p.title ILIKE "+arg("%"+escapeLike(f.Search)+"%")+` ESCAPE '\'`)
	}
	if len(conds) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conds, " AND "))
	}
	sb.WriteString(" ORDER BY p.created_at DESC, p.id DESC")
	if f.Limit > 0 {
		sb.WriteString(" LIMIT " + arg(f.Limit))
	}
	if f.Offset > 0 {
		sb.WriteString(" OFFSET " + arg(f.Offset))
	}
	return sb.String(), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDetail(s scanner) (*domain.PostDetail, error) {
	var p domain.PostDetail
	err := s.Scan(
		&p.ID, &p.Title, &p.Content, &p.Published, &p.CreatedAt, &p.OwnerID,
		&p.Owner.ID, &p.Owner.Email, &p.Owner.CreatedAt,
		&p.Votes,
	)
	if err != nil {
		return nil, err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.Owner.CreatedAt = p.Owner.CreatedAt.UTC()
	return &p, nil
}
