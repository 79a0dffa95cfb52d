package ports

import (
	"context"

	"github.com/postboard/blog-api/internal/core/domain"
)

// ListPostsInput carries the list endpoint parameters before normalisation.
type ListPostsInput struct {
	Search string
	Limit  int
	Skip   int
}

// CreatePostInput carries the data for a new post owned by UserID.
type CreatePostInput struct {
	UserID         int64
	Fields         PostFields
	IdempotencyKey string
}

// PostService defines the post use cases. userID is always the authenticated
// caller resolved by the auth middleware.
type PostService interface {
	ListPosts(ctx context.Context, userID int64, input ListPostsInput) ([]*domain.PostDetail, error)
	ListOwnPosts(ctx context.Context, userID int64) ([]*domain.PostDetail, error)
	GetPost(ctx context.Context, userID, postID int64) (*domain.PostDetail, error)
	CreatePost(ctx context.Context, input CreatePostInput) (*domain.PostDetail, error)
	UpdatePost(ctx context.Context, userID, postID int64, fields PostFields) (*domain.PostDetail, error)
	DeletePost(ctx context.Context, userID, postID int64) error
}

// VoteService casts and withdraws upvotes.
type VoteService interface {
	Vote(ctx context.Context, userID, postID int64, dir domain.VoteDirection) error
}
