package ports

import (
	"context"

	"github.com/postboard/blog-api/internal/core/domain"
)

// AccessToken is the result of a successful login.
type AccessToken struct {
	AccessToken string
	TokenType   string
}

type AuthService interface {
	Register(ctx context.Context, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*AccessToken, error)
}

type UserService interface {
	GetUser(ctx context.Context, id int64) (*domain.User, error)
}
