package domain

import (
	"errors"
	"time"
)

var (
	ErrPostNotFound = errors.New("post not found")
	ErrForbidden    = errors.New("not authorized to perform requested action")
	ErrValidation   = errors.New("validation failed")
)

// ErrIdempotencyInProgress means another request holding the same
// Idempotency-Key has not finished creating its post.
var ErrIdempotencyInProgress = errors.New("a request with this idempotency key is still in progress")

// Post is the stored post row. OwnerID never changes after creation.
type Post struct {
	ID        int64
	Title     string
	Content   string
	Published bool
	CreatedAt time.Time
	OwnerID   int64
}

// PostDetail is a post joined with its owner and vote count.
type PostDetail struct {
	Post
	Owner User
	Votes int64
}

// AuthorizeOwner is the ownership policy for mutating operations: the acting
// user may change a resource only if they own it.
func AuthorizeOwner(ownerID, actorID int64) error {
	if ownerID != actorID {
		return ErrForbidden
	}
	return nil
}
