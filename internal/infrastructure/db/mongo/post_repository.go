package mongo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/postboard/blog-api/internal/core/domain"
	"github.com/postboard/blog-api/internal/core/ports"
)

type PostRepository struct {
	db    *mongo.Database
	posts *mongo.Collection
	votes *mongo.Collection
	now   func() time.Time
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{
		db:    db,
		posts: db.Collection(collPosts),
		votes: db.Collection(collVotes),
		now:   time.Now,
	}
}

type postDoc struct {
	ID        int64     `bson:"_id"`
	Title     string    `bson:"title"`
	Content   string    `bson:"content"`
	Published bool      `bson:"published"`
	CreatedAt time.Time `bson:"created_at"`
	OwnerID   int64     `bson:"owner_id"`
}

// postDetailDoc is the shape produced by detailStages.
type postDetailDoc struct {
	ID        int64     `bson:"_id"`
	Title     string    `bson:"title"`
	Content   string    `bson:"content"`
	Published bool      `bson:"published"`
	CreatedAt time.Time `bson:"created_at"`
	OwnerID   int64     `bson:"owner_id"`
	Owner     userDoc   `bson:"owner"`
	Votes     int64     `bson:"votes"`
}

func (d postDetailDoc) toDomain() *domain.PostDetail {
	return &domain.PostDetail{
		Post: domain.Post{
			ID:        d.ID,
			Title:     d.Title,
			Content:   d.Content,
			Published: d.Published,
			CreatedAt: d.CreatedAt.UTC(),
			OwnerID:   d.OwnerID,
		},
		Owner: domain.User{
			ID:        d.Owner.ID,
			Email:     d.Owner.Email,
			CreatedAt: d.Owner.CreatedAt.UTC(),
		},
		Votes: d.Votes,
	}
}

// detailStages joins the owner and counts votes.
func detailStages() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: collUsers},
			{Key: "localField", Value: "owner_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "owner"},
		}}},
		{{Key: "$unwind", Value: "$owner"}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: collVotes},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "post_id"},
			{Key: "as", Value: "votes"},
		}}},
		{{Key: "$addFields", Value: bson.D{{Key: "votes", Value: bson.D{{Key: "$size", Value: "$votes"}}}}}},
	}
}

func (r *PostRepository) Create(ctx context.Context, ownerID int64, f ports.PostFields) (*domain.PostDetail, error) {
	id, err := nextID(ctx, r.db, collPosts)
	if err != nil {
		return nil, err
	}

	doc := postDoc{
		ID:        id,
		Title:     f.Title,
		Content:   f.Content,
		Published: f.Published,
		CreatedAt: r.now().UTC().Truncate(time.Millisecond),
		OwnerID:   ownerID,
	}
	if _, err := r.posts.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}
	return r.FindByID(ctx, id)
}

func (r *PostRepository) FindByID(ctx context.Context, id int64) (*domain.PostDetail, error) {
	pipeline := append(mongo.Pipeline{{{Key: "$match", Value: bson.M{"_id": id}}}}, detailStages()...)

	posts, err := r.aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("find post: %w", err)
	}
	if len(posts) == 0 {
		return nil, domain.ErrPostNotFound
	}
	return posts[0], nil
}

func (r *PostRepository) List(ctx context.Context, f ports.ListPostsFilter) ([]*domain.PostDetail, error) {
	match := bson.M{}
	if f.OwnerID != 0 {
		match["owner_id"] = f.OwnerID
	}
	if f.Search != "" {
		match["title"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}}},
	}
	if f.Offset > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$skip", Value: int64(f.Offset)}})
	}
	if f.Limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: int64(f.Limit)}})
	}
	pipeline = append(pipeline, detailStages()...)

	posts, err := r.aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (r *PostRepository) UpdateOwned(ctx context.Context, id, ownerID int64, f ports.PostFields) (*domain.PostDetail, error) {
	res, err := r.posts.UpdateOne(ctx,
		bson.M{"_id": id, "owner_id": ownerID},
		bson.M{"$set": bson.M{"title": f.Title, "content": f.Content, "published": f.Published}},
	)
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrPostNotFound
	}
	return r.FindByID(ctx, id)
}

// DeleteOwned removes the post and then its votes. Without a foreign key the
// cascade is done by hand.
func (r *PostRepository) DeleteOwned(ctx context.Context, id, ownerID int64) error {
	res, err := r.posts.DeleteOne(ctx, bson.M{"_id": id, "owner_id": ownerID})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPostNotFound
	}

	if _, err := r.votes.DeleteMany(ctx, bson.M{"post_id": id}); err != nil {
		return fmt.Errorf("delete post votes: %w", err)
	}
	return nil
}

func (r *PostRepository) aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]*domain.PostDetail, error) {
	cur, err := r.posts.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []postDetailDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]*domain.PostDetail, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}
