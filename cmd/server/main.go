package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dmitrymomot/userkit/modules/account"
	"github.com/dmitrymomot/userkit/pkg/clientip"
	"github.com/dmitrymomot/userkit/pkg/config"
	"github.com/dmitrymomot/userkit/pkg/httpserver"
	"github.com/dmitrymomot/userkit/pkg/logger"
	"github.com/dmitrymomot/userkit/pkg/metrics"
	"github.com/dmitrymomot/userkit/pkg/mongo"
	"github.com/dmitrymomot/userkit/pkg/ratelimiter"
	"github.com/dmitrymomot/userkit/pkg/rbac"
	"github.com/dmitrymomot/userkit/pkg/redis"
	"github.com/dmitrymomot/userkit/pkg/requestid"
	accountsvc "github.com/dmitrymomot/userkit/svc/account"
	"github.com/dmitrymomot/userkit/svc/auth"
)

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.New(
		logger.WithEnvironment(cfg.Env, cfg.Name),
		logger.WithContextExtractors(requestid.LoggerExtractor(), auth.LoggerExtractor()),
	)

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("server exited", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	db, err := mongo.ConnectDatabase(ctx, cfg.Mongo, mongo.WithLogger(log))
	if err != nil {
		return err
	}
	defer func() { _ = db.Client().Disconnect(context.WithoutCancel(ctx)) }()

	dir := accountsvc.NewMongoDirectory(db)
	if err := dir.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure user indexes: %w", err)
	}
	roleSource := accountsvc.NewMongoRoleSource(db)
	if err := roleSource.EnsureDefaults(ctx); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}
	roles, err := rbac.NewRegistry(ctx, roleSource)
	if err != nil {
		return err
	}

	checks := []httpserver.Check{{Name: "mongo", Fn: mongo.Healthcheck(db.Client())}}

	var limiterStore ratelimiter.Store
	if cfg.Redis.Enabled() {
		rdb, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer rdb.Close()
		limiterStore = ratelimiter.NewRedisStore(rdb, cfg.Name+":ratelimit")
		checks = append(checks, httpserver.Check{Name: "redis", Fn: redis.Healthcheck(rdb)})
	} else {
		mem := ratelimiter.NewMemoryStore()
		defer mem.Close()
		limiterStore = mem
	}
	limiter, err := ratelimiter.New(limiterStore, ratelimiter.Config{
		Capacity:       cfg.LoginRateCapacity,
		RefillRate:     cfg.LoginRateRefill,
		RefillInterval: cfg.LoginRateInterval,
	})
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)
	deps := account.Deps{Logger: log, Metrics: collector}

	tokens, err := auth.NewTokenService(cfg.Auth.Secret,
		auth.WithTokenIssuer(cfg.Auth.Issuer),
		auth.WithTokenLogger(log),
	)
	if err != nil {
		return err
	}
	hasher := accountsvc.NewBcryptHasher(cfg.Accounts.BcryptCost)

	signInOpts := []auth.ServiceOption{auth.WithLogger(log), auth.WithMetrics(collector)}
	var google *auth.GoogleVerifier
	if cfg.Auth.GoogleEnabled() {
		validator, err := auth.NewIDTokenValidator(ctx)
		if err != nil {
			return fmt.Errorf("google id token validator: %w", err)
		}
		google = auth.NewGoogleVerifier(validator, cfg.Auth.GoogleClientID, log)
		signInOpts = append(signInOpts, auth.WithGoogle(google))
	}
	signIn := auth.NewService(auth.NewCredentialVerifier(dir, hasher, log), tokens, dir, signInOpts...)

	authOpts := []account.AuthOption{account.WithRateLimiter(limiter, deps)}
	if cfg.Auth.OAuthEnabled() {
		oauth := auth.NewGoogleOAuth(auth.NewGoogleOAuthConfig(cfg.Auth), tokens.JWT(),
			cfg.Auth.GoogleStateTTL, google, signIn, log)
		authOpts = append(authOpts, account.WithOAuth(oauth))
	}

	users := accountsvc.NewService(dir, roles, cfg.Accounts,
		accountsvc.WithLogger(log),
		accountsvc.WithHasher(hasher),
	)
	session := auth.NewSessionGate(tokens, dir, log)

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer,
		requestid.Middleware,
		clientip.NewResolver().Middleware,
		cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", auth.TokenHeader, requestid.Header},
			ExposedHeaders: []string{requestid.Header, "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
			MaxAge:         300,
		}),
		metrics.Middleware(collector),
	)
	r.Get("/health/live", httpserver.LivenessHandler())
	r.Get("/health/ready", httpserver.ReadinessHandler(log, cfg.ReadinessTimeout, checks...))
	r.Handle("/metrics", metrics.Handler(reg))
	r.Mount("/", account.Router(account.RouterOptions{
		Users: account.NewUsersHandler(users, session, deps),
		Auth:  account.NewAuthHandler(signIn, session, deps, authOpts...),
	}))

	return httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log)).Run(ctx, r)
}
