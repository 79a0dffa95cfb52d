package ports

import (
	"context"

	"github.com/postboard/blog-api/internal/core/domain"
)

// VoteRepository persists upvotes. Add returns domain.ErrVoteExists on a
// duplicate (user, post) pair; Remove returns domain.ErrVoteNotFound.
type VoteRepository interface {
	Add(ctx context.Context, vote domain.Vote) error
	Remove(ctx context.Context, vote domain.Vote) error
}
