package main

import (
	"time"

	"github.com/dmitrymomot/userkit/pkg/httpserver"
	"github.com/dmitrymomot/userkit/pkg/mongo"
	"github.com/dmitrymomot/userkit/pkg/redis"
	accountsvc "github.com/dmitrymomot/userkit/svc/account"
	"github.com/dmitrymomot/userkit/svc/auth"
)

type appConfig struct {
	Env  string `env:"APP_ENV" envDefault:"development"`
	Name string `env:"APP_NAME" envDefault:"userkit"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Token bucket shared by the sign-in endpoints, per client IP and path.
	LoginRateCapacity int           `env:"LOGIN_RATE_CAPACITY" envDefault:"10"`
	LoginRateRefill   int           `env:"LOGIN_RATE_REFILL" envDefault:"1"`
	LoginRateInterval time.Duration `env:"LOGIN_RATE_INTERVAL" envDefault:"30s"`

	ReadinessTimeout time.Duration `env:"READINESS_TIMEOUT" envDefault:"2s"`

	HTTP     httpserver.Config
	Mongo    mongo.Config
	Redis    redis.Config
	Auth     auth.Config
	Accounts accountsvc.Config
}
