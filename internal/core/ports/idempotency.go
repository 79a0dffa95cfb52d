package ports

import "context"

// IdempotencyStore serialises post creations that share a client-supplied key.
//
// Reserve atomically claims key for userID. The winner gets reserved=true and
// must follow up with Complete or Release. Every other caller gets
// reserved=false with the post id recorded so far, which is 0 while the
// winning request is still in flight.
type IdempotencyStore interface {
	Reserve(ctx context.Context, userID int64, key string) (postID int64, reserved bool, err error)
	Complete(ctx context.Context, userID int64, key string, postID int64) error
	Release(ctx context.Context, userID int64, key string) error
}
