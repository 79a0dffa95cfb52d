package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/postboard/blog-api/internal/api/handler"
	"github.com/postboard/blog-api/internal/core/ports"
	"github.com/postboard/blog-api/internal/infrastructure/config"
	mongodb "github.com/postboard/blog-api/internal/infrastructure/db/mongo"
	"github.com/postboard/blog-api/internal/infrastructure/db/postgres"
)

const (
	retryInitialInterval = 500 * time.Millisecond
	retryMaxInterval     = 5 * time.Second
)

// store is the repository set backed by one storage driver.
type store struct {
	users ports.UserRepository
	posts ports.PostRepository
	votes ports.VoteRepository
	check handler.Check
	close func(ctx context.Context) error
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*store, error) {
	switch cfg.Storage.Driver {
	case config.DriverMongo:
		return openMongo(ctx, cfg, log)
	default:
		return openPostgres(ctx, cfg, log)
	}
}

func openPostgres(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*store, error) {
	var db *sql.DB
	err := retry(ctx, log, config.DriverPostgres, cfg.Storage.ConnectMaxElapsed, func() error {
		var err error
		db, err = postgres.Connect(ctx, postgres.Config{
			DSN:          cfg.Postgres.URL,
			MaxOpenConns: cfg.Postgres.MaxOpenConns,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := postgres.Migrate(db, log); err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Info().Msg("postgres connected and migrated")

	return &store{
		users: postgres.NewUserRepository(db),
		posts: postgres.NewPostRepository(db),
		votes: postgres.NewVoteRepository(db),
		check: handler.Check{Name: config.DriverPostgres, Ping: db.PingContext},
		close: func(context.Context) error { return db.Close() },
	}, nil
}

func openMongo(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*store, error) {
	var (
		client *mongo.Client
		db     *mongo.Database
	)
	err := retry(ctx, log, config.DriverMongo, cfg.Storage.ConnectMaxElapsed, func() error {
		var err error
		client, db, err = mongodb.Connect(ctx, mongodb.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("mongo connected, indexes ensured")

	return &store{
		users: mongodb.NewUserRepository(db),
		posts: mongodb.NewPostRepository(db),
		votes: mongodb.NewVoteRepository(db),
		check: handler.Check{
			Name: config.DriverMongo,
			Ping: func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) },
		},
		close: client.Disconnect,
	}, nil
}

// retry runs connect with exponential backoff until it succeeds, ctx is done,
// or maxElapsed passes.
func retry(ctx context.Context, log zerolog.Logger, name string, maxElapsed time.Duration, connect func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = retryInitialInterval
	b.MaxInterval = retryMaxInterval
	b.MaxElapsedTime = maxElapsed

	notify := func(err error, wait time.Duration) {
		log.Warn().Err(err).Str("store", name).Dur("retry_in", wait).Msg("store unreachable, retrying")
	}

	if err := backoff.RetryNotify(connect, backoff.WithContext(b, ctx), notify); err != nil {
		return fmt.Errorf("connect %s: %w", name, err)
	}
	return nil
}
