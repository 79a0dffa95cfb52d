package domain

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthenticated covers every way a bearer token can fail. Callers must
	// not distinguish between missing, malformed, expired or forged tokens.
	ErrUnauthenticated = errors.New("could not validate credentials")
)

// User models a registered account. ID is immutable once assigned by the store.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
