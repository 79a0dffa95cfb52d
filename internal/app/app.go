// Package app assembles the HTTP API from configuration: storage, security,
// services and router.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/postboard/blog-api/internal/api"
	"github.com/postboard/blog-api/internal/api/handler"
	"github.com/postboard/blog-api/internal/core/ports"
	"github.com/postboard/blog-api/internal/core/service"
	"github.com/postboard/blog-api/internal/infrastructure/config"
	redisdb "github.com/postboard/blog-api/internal/infrastructure/db/redis"
	"github.com/postboard/blog-api/internal/infrastructure/security"
	"github.com/postboard/blog-api/pkg/logger"
)

type App struct {
	cfg     *config.Config
	log     zerolog.Logger
	router  *echo.Echo
	closers []func(ctx context.Context) error
}

// New connects the configured store (retrying with backoff), prepares its
// schema, and wires every service into the router. On error anything already
// opened is closed. The shared logger must be initialised first.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logger.Get()
	a := &App{cfg: cfg, log: log}

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, store.close)
	checks := []handler.Check{store.check}

	idem, check, err := a.openIdempotency(ctx)
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}
	if check != nil {
		checks = append(checks, *check)
	}

	tokens, err := security.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		_ = a.Close(ctx)
		return nil, fmt.Errorf("token service: %w", err)
	}
	hasher := security.NewBcryptHasher(bcrypt.DefaultCost)

	a.router = api.NewRouter(api.Deps{
		Log:             log,
		Tokens:          tokens,
		Auth:            service.NewAuthService(store.users, hasher, tokens, log),
		Users:           service.NewUserService(store.users),
		Posts:           service.NewPostService(store.posts, idem, log),
		Votes:           service.NewVoteService(store.posts, store.votes, log),
		ReadinessChecks: checks,
	})
	return a, nil
}

// openIdempotency connects Redis when configured. A disabled or unreachable
// Redis leaves post creation without replay protection rather than failing
// startup.
func (a *App) openIdempotency(ctx context.Context) (ports.IdempotencyStore, *handler.Check, error) {
	client, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     a.cfg.Redis.Addr,
		Password: a.cfg.Redis.Password,
		DB:       a.cfg.Redis.DB,
	})
	switch {
	case errors.Is(err, redisdb.ErrDisabled):
		a.log.Info().Msg("redis not configured, idempotency keys disabled")
		return nil, nil, nil
	case err != nil:
		a.log.Warn().Err(err).Msg("redis unavailable, idempotency keys disabled")
		return nil, nil, nil
	}

	a.closers = append(a.closers, func(context.Context) error { return client.Close() })
	a.log.Info().Str("addr", a.cfg.Redis.Addr).Msg("redis connected")

	check := &handler.Check{
		Name: "redis",
		Ping: func(ctx context.Context) error { return client.Ping(ctx).Err() },
	}
	return redisdb.NewIdempotencyStore(client, a.cfg.Redis.IdempotencyTTL), check, nil
}

func (a *App) Handler() http.Handler {
	return a.router
}

// Close releases connections in reverse order of acquisition.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
