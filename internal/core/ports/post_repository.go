package ports

import (
	"context"

	"github.com/postboard/blog-api/internal/core/domain"
)

// ListPostsFilter carries the query parameters for listing posts.
type ListPostsFilter struct {
	OwnerID int64  // 0 = any owner
	Search  string // case-insensitive substring of title; empty matches everything
	Limit   int    // 0 = no limit
	Offset  int
}

// PostFields are the client-writable columns of a post.
type PostFields struct {
	Title     string
	Content   string
	Published bool
}

// PostRepository defines persistence for posts. Every read returns the post
// joined with its owner and vote count.
type PostRepository interface {
	Create(ctx context.Context, ownerID int64, fields PostFields) (*domain.PostDetail, error)
	FindByID(ctx context.Context, id int64) (*domain.PostDetail, error)
	List(ctx context.Context, filter ListPostsFilter) ([]*domain.PostDetail, error)
	// UpdateOwned applies fields only when the post is still owned by ownerID.
	// It returns domain.ErrPostNotFound when no row matched.
	UpdateOwned(ctx context.Context, id, ownerID int64, fields PostFields) (*domain.PostDetail, error)
	// DeleteOwned removes the post (and its votes) only when owned by ownerID.
	// It returns domain.ErrPostNotFound when no row matched.
	DeleteOwned(ctx context.Context, id, ownerID int64) error
}
