package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/postboard/blog-api/internal/core/domain"
)

type VoteRepository struct {
	db *sql.DB
}

func NewVoteRepository(db *sql.DB) *VoteRepository {
	return &VoteRepository{db: db}
}

// Add records a vote. The composite primary key rejects a second vote by the
// same user, including one raced in concurrently.
func (r *VoteRepository) Add(ctx context.Context, v domain.Vote) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO votes (post_id, user_id) VALUES ($1, $2)`, v.PostID, v.UserID)
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return domain.ErrVoteExists
	case isForeignKeyViolation(err):
		return domain.ErrPostNotFound
	default:
		return fmt.Errorf("insert vote: %w", err)
	}
}

func (r *VoteRepository) Remove(ctx context.Context, v domain.Vote) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM votes WHERE post_id = $1 AND user_id = $2`, v.PostID, v.UserID)
	if err != nil {
		return fmt.Errorf("delete vote: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete vote: %w", err)
	}
	if n == 0 {
		return domain.ErrVoteNotFound
	}
	return nil
}
