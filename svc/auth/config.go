package auth

import "time"

type Config struct {
	Secret             string        `env:"PRIVATEKEYSECRET,required"`
	Issuer             string        `env:"JWT_ISSUER"`
	GoogleClientID     string        `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string        `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string        `env:"GOOGLE_REDIRECT_URL"`
	GoogleStateTTL     time.Duration `env:"GOOGLE_OAUTH_STATE_TTL" envDefault:"10m"`
}

// GoogleEnabled reports whether ID-token sign-in can be offered.
func (c Config) GoogleEnabled() bool { return c.GoogleClientID != "" }

// OAuthEnabled reports whether the authorization-code flow can be offered.
func (c Config) OAuthEnabled() bool {
	return c.GoogleEnabled() && c.GoogleClientSecret != "" && c.GoogleRedirectURL != ""
}
