package ports

// PasswordHasher is a one-way adaptive hash. Verify never errors on a
// mismatch; it simply reports false.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// TokenIssuer mints signed, time-limited identity tokens.
type TokenIssuer interface {
	Issue(userID int64) (string, error)
}

// TokenValidator resolves a token back to the user id it was issued for.
// Every failure is reported as domain.ErrUnauthenticated.
type TokenValidator interface {
	Validate(token string) (int64, error)
}

// TokenService issues and validates tokens.
type TokenService interface {
	TokenIssuer
	TokenValidator
}
