// Package mongo opens MongoDB connections with a bounded startup retry and
// exposes helpers shared by the repositories built on top of it.
package mongo

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/userkit/pkg/logger"
)

// Option configures Connect.
type Option func(*connectOptions)

type connectOptions struct {
	logger *slog.Logger
}

// WithLogger logs failed connection attempts.
func WithLogger(l *slog.Logger) Option {
	return func(o *connectOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// Connect dials the server and pings it, retrying up to cfg.RetryAttempts
// times. It gives up early when ctx is done.
func Connect(ctx context.Context, cfg Config, opts ...Option) (*mongo.Client, error) {
	o := &connectOptions{logger: logger.Discard()}
	for _, opt := range opts {
		opt(o)
	}

	attempts := max(cfg.RetryAttempts, 1)
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		client, err := dial(ctx, cfg)
		if err == nil {
			return client, nil
		}
		lastErr = err
		o.logger.WarnContext(ctx, "mongo connection attempt failed",
			logger.Component("mongo"),
			logger.Attempt(attempt),
			logger.Error(err),
		)

		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrFailedToConnectToMongo, ctx.Err())
		case <-time.After(cfg.RetryInterval):
		}
	}

	return nil, errors.Join(ErrFailedToConnectToMongo, lastErr)
}

// ConnectDatabase is Connect followed by selecting cfg.Database.
func ConnectDatabase(ctx context.Context, cfg Config, opts ...Option) (*mongo.Database, error) {
	client, err := Connect(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return client.Database(cfg.Database), nil
}

func dial(ctx context.Context, cfg Config) (*mongo.Client, error) {
	client, err := mongo.Connect(
		options.Client().
			ApplyURI(cfg.ConnectionURL).
			SetConnectTimeout(cfg.ConnectTimeout).
			SetMaxPoolSize(cfg.MaxPoolSize).
			SetMinPoolSize(cfg.MinPoolSize).
			SetMaxConnIdleTime(cfg.MaxConnIdleTime),
	)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, err
	}
	return client, nil
}

// Healthcheck returns a readiness probe that pings the server.
func Healthcheck(client *mongo.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := client.Ping(ctx, nil); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}

// IsDuplicateKey reports whether err was caused by a unique index violation.
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

// IsNotFound reports whether err signals an empty single-document result.
func IsNotFound(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
