package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/postboard/blog-api/internal/core/domain"
	"github.com/postboard/blog-api/internal/core/ports"
)

const (
	defaultListLimit = 10
	maxListLimit     = 100

	defaultReplayPoll = 50 * time.Millisecond
	defaultReplayWait = 5 * time.Second
)

type PostService struct {
	posts  ports.PostRepository
	idem   ports.IdempotencyStore // optional
	logger zerolog.Logger

	// how often and how long a request waits for a concurrent holder of its
	// idempotency key
	replayPoll time.Duration
	replayWait time.Duration
}

// NewPostService returns a PostService. idem may be nil, in which case
// Idempotency-Key headers are ignored.
func NewPostService(posts ports.PostRepository, idem ports.IdempotencyStore, logger zerolog.Logger) *PostService {
	return &PostService{
		posts:      posts,
		idem:       idem,
		logger:     logger,
		replayPoll: defaultReplayPoll,
		replayWait: defaultReplayWait,
	}
}

// ListPosts returns a page of posts whose title contains input.Search.
func (s *PostService) ListPosts(ctx context.Context, userID int64, input ports.ListPostsInput) ([]*domain.PostDetail, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	skip := input.Skip
	if skip < 0 {
		skip = 0
	}

	return s.posts.List(ctx, ports.ListPostsFilter{
		Search: input.Search,
		Limit:  limit,
		Offset: skip,
	})
}

// ListOwnPosts returns every post owned by the caller.
func (s *PostService) ListOwnPosts(ctx context.Context, userID int64) ([]*domain.PostDetail, error) {
	return s.posts.List(ctx, ports.ListPostsFilter{OwnerID: userID})
}

func (s *PostService) GetPost(ctx context.Context, userID, postID int64) (*domain.PostDetail, error) {
	return s.posts.FindByID(ctx, postID)
}

// CreatePost stores a new post owned by the caller. With an idempotency key
// the key is reserved before the insert, so concurrent requests sharing it
// produce one post and every request returns that post.
func (s *PostService) CreatePost(ctx context.Context, input ports.CreatePostInput) (*domain.PostDetail, error) {
	if s.idem == nil || input.IdempotencyKey == "" {
		return s.create(ctx, input)
	}

	deadline := time.Now().Add(s.replayWait)
	for {
		postID, reserved, err := s.idem.Reserve(ctx, input.UserID, input.IdempotencyKey)
		switch {
		case err != nil:
			s.logger.Warn().Err(err).Str("idempotency_key", input.IdempotencyKey).Msg("idempotency reserve failed, creating anyway")
			return s.create(ctx, input)
		case reserved:
			return s.createReserved(ctx, input)
		case postID > 0:
			return s.replay(ctx, input, postID)
		}

		// another request holds the key and has not finished
		if time.Now().After(deadline) {
			return nil, domain.ErrIdempotencyInProgress
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.replayPoll):
		}
	}
}

func (s *PostService) create(ctx context.Context, input ports.CreatePostInput) (*domain.PostDetail, error) {
	post, err := s.posts.Create(ctx, input.UserID, input.Fields)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", input.UserID).Msg("failed to create post")
		return nil, err
	}

	s.logger.Info().Int64("post_id", post.ID).Int64("user_id", input.UserID).Msg("post created")
	return post, nil
}

// createReserved inserts under a held reservation. A failed insert releases
// the key so the client can retry with it.
func (s *PostService) createReserved(ctx context.Context, input ports.CreatePostInput) (*domain.PostDetail, error) {
	post, err := s.create(ctx, input)
	if err != nil {
		if rerr := s.idem.Release(ctx, input.UserID, input.IdempotencyKey); rerr != nil {
			s.logger.Warn().Err(rerr).Str("idempotency_key", input.IdempotencyKey).Msg("failed to release idempotency key")
		}
		return nil, err
	}

	if err := s.idem.Complete(ctx, input.UserID, input.IdempotencyKey, post.ID); err != nil {
		s.logger.Warn().Err(err).Str("idempotency_key", input.IdempotencyKey).Msg("failed to store idempotency key")
	}
	return post, nil
}

// replay returns the post created under the key. If it has since been
// deleted a fresh post is created.
func (s *PostService) replay(ctx context.Context, input ports.CreatePostInput, postID int64) (*domain.PostDetail, error) {
	existing, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		if !errors.Is(err, domain.ErrPostNotFound) {
			s.logger.Warn().Err(err).Int64("post_id", postID).Msg("idempotent replay lookup failed")
		}
		return s.create(ctx, input)
	}

	s.logger.Info().Str("idempotency_key", input.IdempotencyKey).Int64("post_id", postID).Msg("idempotent replay")
	return existing, nil
}

// UpdatePost replaces the writable fields of a post owned by the caller.
// A missing post is reported before an ownership failure.
func (s *PostService) UpdatePost(ctx context.Context, userID, postID int64, fields ports.PostFields) (*domain.PostDetail, error) {
	if err := s.authorize(ctx, userID, postID); err != nil {
		return nil, err
	}

	updated, err := s.posts.UpdateOwned(ctx, postID, userID, fields)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("post_id", postID).Int64("user_id", userID).Msg("post updated")
	return updated, nil
}

func (s *PostService) DeletePost(ctx context.Context, userID, postID int64) error {
	if err := s.authorize(ctx, userID, postID); err != nil {
		return err
	}

	if err := s.posts.DeleteOwned(ctx, postID, userID); err != nil {
		return err
	}

	s.logger.Info().Int64("post_id", postID).Int64("user_id", userID).Msg("post deleted")
	return nil
}

func (s *PostService) authorize(ctx context.Context, userID, postID int64) error {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return err
	}
	if err := domain.AuthorizeOwner(post.OwnerID, userID); err != nil {
		s.logger.Warn().Int64("post_id", postID).Int64("user_id", userID).Msg("ownership check denied")
		return err
	}
	return nil
}
