package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/postboard/blog-api/internal/core/domain"
	"github.com/postboard/blog-api/internal/core/ports"
)

type VoteService struct {
	posts ports.PostRepository
	votes ports.VoteRepository
	log   zerolog.Logger
}

func NewVoteService(posts ports.PostRepository, votes ports.VoteRepository, log zerolog.Logger) *VoteService {
	return &VoteService{posts: posts, votes: votes, log: log}
}

// Vote casts (dir=1) or withdraws (dir=0) the caller's upvote on a post.
func (s *VoteService) Vote(ctx context.Context, userID, postID int64, dir domain.VoteDirection) error {
	vote := domain.Vote{UserID: userID, PostID: postID}

	switch dir {
	case domain.VoteAdd:
		if _, err := s.posts.FindByID(ctx, postID); err != nil {
			return err
		}
		if err := s.votes.Add(ctx, vote); err != nil {
			return err
		}
		s.log.Debug().Int64("post_id", postID).Int64("user_id", userID).Msg("vote added")
		return nil
	case domain.VoteRemove:
		if err := s.votes.Remove(ctx, vote); err != nil {
			return err
		}
		s.log.Debug().Int64("post_id", postID).Int64("user_id", userID).Msg("vote removed")
		return nil
	default:
		return fmt.Errorf("%w: dir must be 0 or 1", domain.ErrValidation)
	}
}
