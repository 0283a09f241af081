package auth

// Config is the env-tagged session cookie configuration.
type Config struct {
	JWTSecret   string `env:"JWT_SECRET,required"`
	UserCookie  string `env:"AUTH_USER_COOKIE" envDefault:"user_token"`
	AdminCookie string `env:"AUTH_ADMIN_COOKIE" envDefault:"super_admin_token"`
}

// NewFromConfig builds a Verifier from cfg with opts applied last.
func NewFromConfig(cfg Config, opts ...Option) (*Verifier, error) {
	base := []Option{WithCookieNames(cfg.UserCookie, cfg.AdminCookie)}
	return NewVerifier(cfg.JWTSecret, append(base, opts...)...)
}
