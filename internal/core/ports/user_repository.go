package ports

import (
	"context"

	"github.com/postboard/blog-api/internal/core/domain"
)

// UserRepository defines user persistence. Create returns domain.ErrUserExists
// when the email is already taken; lookups return domain.ErrUserNotFound.
type UserRepository interface {
	Create(ctx context.Context, email, passwordHash string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}
