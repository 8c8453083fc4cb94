// Package config loads application configuration from environment variables.
//
// It wraps `github.com/joho/godotenv` and `github.com/caarlos0/env/v11`:
// the default `.env` file is read once per process, then `env` field tags
// drive parsing into any struct. Each package that needs settings owns a
// small Config struct; main composes them and passes the parsed values to
// constructors explicitly. Nothing in this package holds parsed values.
//
// # Usage
//
//	type Config struct {
//	    Addr   string `env:"HTTP_ADDR" envDefault:":3000"`
//	    Secret string `env:"PRIVATEKEYSECRET,required"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//	    log.Fatalf("parsing env: %v", err)
//	}
//
// # Error Handling
//
//   - `ErrParsingConfig`  – failed to parse env vars into struct.
//   - `ErrNilPointer`     – nil pointer passed to `Load`/`MustLoad`.
//   - `ErrLoadingEnvFile` – an explicit file passed to `LoadEnv` is unreadable.
package config
