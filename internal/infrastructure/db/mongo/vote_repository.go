package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/postboard/blog-api/internal/core/domain"
)

type VoteRepository struct {
	coll *mongo.Collection
}

func NewVoteRepository(db *mongo.Database) *VoteRepository {
	return &VoteRepository{coll: db.Collection(collVotes)}
}

type voteDoc struct {
	PostID int64 `bson:"post_id"`
	UserID int64 `bson:"user_id"`
}

// Add relies on the unique (post_id, user_id) index from EnsureIndexes.
func (r *VoteRepository) Add(ctx context.Context, v domain.Vote) error {
	if _, err := r.coll.InsertOne(ctx, voteDoc{PostID: v.PostID, UserID: v.UserID}); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrVoteExists
		}
		return fmt.Errorf("insert vote: %w", err)
	}
	return nil
}

func (r *VoteRepository) Remove(ctx context.Context, v domain.Vote) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"post_id": v.PostID, "user_id": v.UserID})
	if err != nil {
		return fmt.Errorf("delete vote: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrVoteNotFound
	}
	return nil
}
