package account

type Config struct {
	BcryptCost   int   `env:"BCRYPT_COST" envDefault:"10"`
	DefaultLimit int64 `env:"USERS_PAGE_DEFAULT_LIMIT" envDefault:"5"`
	MaxLimit     int64 `env:"USERS_PAGE_MAX_LIMIT" envDefault:"100"`
}
