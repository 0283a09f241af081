package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/benbjohnson/clock"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/fieldhub/migrations"
	"github.com/dmitrymomot/fieldhub/pkg/clientip"
	"github.com/dmitrymomot/fieldhub/pkg/cookie"
	"github.com/dmitrymomot/fieldhub/pkg/csrf"
	"github.com/dmitrymomot/fieldhub/pkg/httpserver"
	"github.com/dmitrymomot/fieldhub/pkg/logger"
	"github.com/dmitrymomot/fieldhub/pkg/metrics"
	"github.com/dmitrymomot/fieldhub/pkg/pg"
	"github.com/dmitrymomot/fieldhub/pkg/ratelimiter"
	"github.com/dmitrymomot/fieldhub/pkg/redis"
	"github.com/dmitrymomot/fieldhub/pkg/requestid"
	"github.com/dmitrymomot/fieldhub/pkg/tenant"
	"github.com/dmitrymomot/fieldhub/svc/auth"
)

// App owns the process-wide dependencies and the HTTP handler built on them.
type App struct {
	cfg     Config
	log     *slog.Logger
	metrics *metrics.Metrics
	handler http.Handler

	pool *pgxpool.Pool
	rdb  *goredis.Client
}

type Option func(*options)

type options struct {
	logger      *slog.Logger
	clock       clock.Clock
	tenantStore tenant.Store
	csrfStore   csrf.Store
	limitStore  ratelimiter.Store
	migrate     bool
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func WithClock(c clock.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithTenantStore bypasses TENANT_STORE. The store is still wrapped in the
// lookup cache when TENANT_CACHE_TTL is set.
func WithTenantStore(s tenant.Store) Option {
	return func(o *options) { o.tenantStore = s }
}

// WithCSRFStore bypasses CSRF_STORE.
func WithCSRFStore(s csrf.Store) Option {
	return func(o *options) { o.csrfStore = s }
}

// WithRateLimitStore bypasses RATELIMIT_STORE.
func WithRateLimitStore(s ratelimiter.Store) Option {
	return func(o *options) { o.limitStore = s }
}

// WithMigrations applies pending migrations after connecting to Postgres.
func WithMigrations() Option {
	return func(o *options) { o.migrate = true }
}

// New connects the configured backends and assembles the router. Resources
// opened before a failure are released before returning.
func New(ctx context.Context, cfg Config, opts ...Option) (_ *App, err error) {
	o := &options{clock: clock.New()}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = NewLogger(cfg)
	}

	a := &App{cfg: cfg, log: o.logger, metrics: metrics.New()}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	tenantStore, err := a.tenantStore(ctx, o)
	if err != nil {
		return nil, err
	}
	csrfStore, err := a.csrfStore(ctx, o)
	if err != nil {
		return nil, err
	}

	limiter, err := a.limiter(ctx, o)
	if err != nil {
		return nil, err
	}

	verifier, err := auth.NewFromConfig(cfg.Auth, auth.WithClock(o.clock))
	if err != nil {
		return nil, errors.Join(ErrSetup, err)
	}
	cookies, err := cookie.NewFromConfig(cfg.Cookie, cookie.WithSecure(cfg.CSRF.SecureCookies))
	if err != nil {
		return nil, errors.Join(ErrSetup, err)
	}

	minter := csrf.NewStoreMinter(csrfStore,
		csrf.WithTTL(cfg.CSRF.ServerTTL),
		csrf.WithMinterClock(o.clock),
	)
	csrfHandler := csrf.NewHandler(csrfStore, minter, verifier, cookies,
		csrf.WithHandlerLogger(a.log),
		csrf.WithHandlerObserver(a.metrics),
		csrf.WithBindingCookie(cfg.CSRF.BindingCookie, cfg.CSRF.ServerTTL),
	)
	directory := tenant.NewDirectory(tenantStore,
		tenant.WithLogger(a.log),
		tenant.WithObserver(a.metrics),
	)

	a.handler = newRouter(routerDeps{
		log:                a.log,
		clock:              o.clock,
		metrics:            a.metrics,
		clientIP:           clientip.NewResolver(clientip.WithTrustProxyHeaders(cfg.TrustProxyHeaders)),
		limiter:            limiter,
		csrf:               csrfHandler,
		sessions:           verifier,
		directory:          directory,
		fallbackName:       cfg.Tenant.FallbackName(),
		trustForwardedHost: cfg.Tenant.TrustForwardedHost,
		checks:             a.healthChecks(),
	})
	return a, nil
}

// NewLogger builds the process logger from cfg with the request-scoped
// extractors installed.
func NewLogger(cfg Config) *slog.Logger {
	return logger.New(
		logger.WithEnvironment(cfg.Environment(), cfg.Name),
		logger.WithLevelName(cfg.LogLevel),
		logger.WithContextExtractors(
			requestid.LoggerExtractor(),
			clientip.LoggerExtractor(),
			tenant.LoggerExtractor(),
			auth.LoggerExtractor(),
		),
	)
}

func (a *App) tenantStore(ctx context.Context, o *options) (tenant.Store, error) {
	store := o.tenantStore
	if store == nil {
		switch a.cfg.Tenant.Store {
		case tenant.StorePostgres:
			pool, err := a.connectPG(ctx, o.migrate)
			if err != nil {
				return nil, err
			}
			store = tenant.NewPostgresStore(pool)
		case tenant.StoreMemory:
			var orgs []tenant.Organization
			if a.cfg.Tenant.SeedFile != "" {
				var err error
				if orgs, err = tenant.LoadSeedFile(a.cfg.Tenant.SeedFile); err != nil {
					return nil, err
				}
			}
			store = tenant.NewMemoryStore(orgs...)
			a.log.Info("tenant store in memory mode", logger.Component("app"), slog.Int("organizations", len(orgs)))
		default:
			return nil, tenant.ErrUnknownStore
		}
	}

	if a.cfg.Tenant.CacheTTL > 0 && a.cfg.Tenant.CacheSize > 0 {
		store = tenant.NewCachedStore(store, a.cfg.Tenant.CacheTTL, a.cfg.Tenant.CacheSize, o.clock)
	}
	return store, nil
}

func (a *App) csrfStore(ctx context.Context, o *options) (csrf.Store, error) {
	if o.csrfStore != nil {
		return o.csrfStore, nil
	}
	if a.cfg.CSRF.Store != csrf.StoreRedis {
		return csrf.NewStore(a.cfg.CSRF, nil, o.clock)
	}

	rdb, err := a.redisClient(ctx)
	if err != nil {
		return nil, err
	}
	return csrf.NewStore(a.cfg.CSRF, rdb, o.clock)
}

// limiter returns nil when rate limiting is disabled.
func (a *App) limiter(ctx context.Context, o *options) (ratelimiter.Limiter, error) {
	if !a.cfg.Limit.Enabled {
		return nil, nil
	}

	store := o.limitStore
	if store == nil {
		var err error
		if a.cfg.Limit.Store == ratelimiter.StoreRedis {
			var rdb *goredis.Client
			if rdb, err = a.redisClient(ctx); err != nil {
				return nil, err
			}
			store, err = ratelimiter.NewStore(a.cfg.Limit, rdb, o.clock)
		} else {
			store, err = ratelimiter.NewStore(a.cfg.Limit, nil, o.clock)
		}
		if err != nil {
			return nil, err
		}
	}

	b, err := ratelimiter.NewBucket(store, a.cfg.Limit)
	if err != nil {
		return nil, errors.Join(ErrSetup, err)
	}
	return b, nil
}

// redisClient connects once and shares the client between stores.
func (a *App) redisClient(ctx context.Context) (*goredis.Client, error) {
	if a.rdb != nil {
		return a.rdb, nil
	}
	rdb, err := redis.Connect(ctx, a.cfg.Redis)
	if err != nil {
		return nil, err
	}
	a.rdb = rdb
	return rdb, nil
}

func (a *App) connectPG(ctx context.Context, migrate bool) (*pgxpool.Pool, error) {
	if a.cfg.PG.ConnectionString == "" {
		return nil, ErrMissingDatabase
	}
	pool, err := pg.Connect(ctx, a.cfg.PG)
	if err != nil {
		return nil, err
	}
	a.pool = pool

	if migrate {
		if err := pg.Migrate(ctx, pool, migrations.FS, a.log); err != nil {
			return nil, err
		}
	}
	return pool, nil
}

func (a *App) healthChecks() map[string]httpserver.Check {
	checks := map[string]httpserver.Check{}
	if a.pool != nil {
		checks["postgres"] = pg.Healthcheck(a.pool)
	}
	if a.rdb != nil {
		checks["redis"] = redis.Healthcheck(a.rdb)
	}
	return checks
}

// Handler is the fully wired HTTP handler.
func (a *App) Handler() http.Handler { return a.handler }

func (a *App) Logger() *slog.Logger { return a.log }

// Run serves HTTP until ctx is done or the process receives SIGINT/SIGTERM.
func (a *App) Run(ctx context.Context) error {
	srv := httpserver.NewFromConfig(a.cfg.HTTP,
		httpserver.WithLogger(a.log),
		httpserver.WithStartHook(func(addr string) {
			a.log.Info("http server listening", logger.Component("app"), slog.String("addr", addr))
		}),
	)
	return srv.Run(ctx, a.handler)
}

// Close releases backend connections. Safe to call more than once.
func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
		a.pool = nil
	}
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.log.Warn("redis close failed", logger.Component("app"), logger.Error(err))
		}
		a.rdb = nil
	}
}
