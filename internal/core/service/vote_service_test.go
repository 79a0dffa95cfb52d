package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/postboard/blog-api/internal/core/domain"
	"github.com/postboard/blog-api/internal/core/ports"
)

type stubVoteRepo struct {
	votes map[domain.Vote]struct{}
}

func newStubVoteRepo() *stubVoteRepo {
	return &stubVoteRepo{votes: make(map[domain.Vote]struct{})}
}

func (r *stubVoteRepo) Add(_ context.Context, v domain.Vote) error {
	if _, ok := r.votes[v]; ok {
		return domain.ErrVoteExists
	}
	r.votes[v] = struct{}{}
	return nil
}

func (r *stubVoteRepo) Remove(_ context.Context, v domain.Vote) error {
	if _, ok := r.votes[v]; !ok {
		return domain.ErrVoteNotFound
	}
	delete(r.votes, v)
	return nil
}

func TestVoteService_Vote(t *testing.T) {
	posts := newStubPostRepo()
	votes := newStubVoteRepo()
	svc := NewVoteService(posts, votes, zerolog.Nop())
	post, _ := posts.Create(context.Background(), 1, ports.PostFields{Title: "t", Content: "c"})
	ctx := context.Background()

	if err := svc.Vote(ctx, 2, post.ID, domain.VoteAdd); err != nil {
		t.Fatalf("add vote failed: %v", err)
	}
	if err := svc.Vote(ctx, 2, post.ID, domain.VoteAdd); !errors.Is(err, domain.ErrVoteExists) {
		t.Fatalf("expected ErrVoteExists, got %v", err)
	}
	if err := svc.Vote(ctx, 2, post.ID, domain.VoteRemove); err != nil {
		t.Fatalf("remove vote failed: %v", err)
	}
	if err := svc.Vote(ctx, 2, post.ID, domain.VoteRemove); !errors.Is(err, domain.ErrVoteNotFound) {
		t.Fatalf("expected ErrVoteNotFound, got %v", err)
	}
}

func TestVoteService_Vote_MissingPost(t *testing.T) {
	svc := NewVoteService(newStubPostRepo(), newStubVoteRepo(), zerolog.Nop())

	if err := svc.Vote(context.Background(), 1, 42, domain.VoteAdd); !errors.Is(err, domain.ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestVoteService_Vote_InvalidDirection(t *testing.T) {
	svc := NewVoteService(newStubPostRepo(), newStubVoteRepo(), zerolog.Nop())

	if err := svc.Vote(context.Background(), 1, 1, domain.VoteDirection(2)); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
