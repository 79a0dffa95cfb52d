package security

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/postboard/blog-api/internal/core/domain"
)

const (
	tokenIssuer     = "blog-api"
	defaultTokenTTL = 30 * time.Minute
	// MinSecretBytes is the shortest HS256 key accepted at startup.
	MinSecretBytes = 32
)

var ErrWeakSecret = errors.New("jwt secret must be at least 32 bytes")

// JWTService issues and validates HS256 tokens carrying the user id as the
// subject claim. The secret is read-only after construction.
type JWTService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTService(secret string, ttl time.Duration) (*JWTService, error) {
	if len(secret) < MinSecretBytes {
		return nil, ErrWeakSecret
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &JWTService{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

func (s *JWTService) Issue(userID int64) (string, error) {
	if userID <= 0 {
		return "", errors.New("issue token: invalid user id")
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		Issuer:    tokenIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Validate checks signature, algorithm, issuer and expiry. Any failure is
// collapsed into domain.ErrUnauthenticated.
func (s *JWTService) Validate(token string) (int64, error) {
	if token == "" {
		return 0, domain.ErrUnauthenticated
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return 0, domain.ErrUnauthenticated
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, domain.ErrUnauthenticated
	}
	return userID, nil
}
