package bootstrap

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/islamipic/api/internal/application/auth"
	"github.com/islamipic/api/internal/application/gallery"
	"github.com/islamipic/api/internal/audit"
	"github.com/islamipic/api/internal/config"
	"github.com/islamipic/api/internal/infrastructure/db/postgres"
	"github.com/islamipic/api/internal/infrastructure/memory"
	"github.com/islamipic/api/internal/infrastructure/messaging/rabbitmq"
	"github.com/islamipic/api/internal/infrastructure/redis"
	"github.com/islamipic/api/internal/infrastructure/security"
	"github.com/islamipic/api/internal/infrastructure/storage"
	"github.com/islamipic/api/internal/logger"
	http_handlers "github.com/islamipic/api/internal/transport/http/handlers"
	"github.com/islamipic/api/internal/transport/http/middleware"
	"github.com/islamipic/api/internal/transport/http/response"
	"github.com/islamipic/api/internal/transport/http/router"
)

/*
========================
 Public entry (prod)
========================
*/

func NewServer() (*http.Server, func(), error) {
	return newServer(defaultDeps())
}

// NewServerWithDeps allows injecting dependencies for testing.
func NewServerWithDeps(deps Deps) (*http.Server, func(), error) {
	return newServer(deps)
}

/*
========================
 Dependency injection
========================
*/

type Deps struct {
	LoadConfig func() (*config.Config, error)

	NewDB func(dsn string) (*sql.DB, error)

	NewRedis func(addr, password string, db int) RedisClient

	NewPublisher func(rabbitURL string) (auth.EventPublisher, error)

	NewStorage func(ctx context.Context, cfg *config.Config) (gallery.ObjectStorage, error)

	NewRouter func(router.Deps) (http.Handler, error)
}

type RedisClient interface {
	Ping(ctx context.Context) error
	Close() error
}

/*
========================
 Core bootstrap logic
========================
*/

func newServer(deps Deps) (*http.Server, func(), error) {
	// 0) config
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	// 1) db
	db, err := deps.NewDB(cfg.DBAddr)
	if err != nil {
		return nil, nil, err
	}

	cleanupFns := []func(){
		func() { _ = db.Close() },
	}

	accountRepo := postgres.NewAccountRepo(db)
	imageRepo := postgres.NewImageRepo(db)

	// 2) redis (best-effort: token revocation and rate limiting degrade
	// gracefully when it is down)
	var redisCli RedisClient
	if deps.NewRedis != nil {
		c := deps.NewRedis(cfg.RedisAddr, "", 0)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := c.Ping(ctx); err != nil {
			logger.Logger.Warn().Err(err).Msg("redis unavailable; denylist and rate limits disabled")
			_ = c.Close()
		} else {
			logger.Logger.Info().Msg("redis connected")
			redisCli = c
			cleanupFns = append(cleanupFns, func() { _ = c.Close() })
		}
	}

	var denylist auth.TokenDenylist
	var fwLimiter *redis.FixedWindowLimiter
	if rc, ok := redisCli.(*redis.Client); ok {
		denylist = redis.NewTokenDenylist(rc)
		fwLimiter = redis.NewFixedWindowLimiter(rc)
	} else {
		// no redis, or an injected stand-in: memory denylist, no rate limits
		denylist = memory.NewTokenDenylist()
	}

	// 3) publisher
	var pub auth.EventPublisher
	pub, err = deps.NewPublisher(cfg.RabbitURL)
	if err != nil {
		if cfg.Env == "dev" {
			logger.Logger.Warn().Err(err).Msg("rabbitmq unavailable; using noop publisher")
			pub = memory.NewNoopPublisher()
		} else {
			runCleanup(cleanupFns)
			return nil, nil, err
		}
	}
	if c, ok := pub.(interface{ Close() error }); ok {
		cleanupFns = append(cleanupFns, func() { _ = c.Close() })
	}

	// 4) object storage
	store, err := deps.NewStorage(context.Background(), cfg)
	if err != nil {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	// 5) security
	logger.Logger.Info().Str("issuer", cfg.JWTIssuer).Msg("initializing jwt signer")
	hasher := security.NewBcryptHasher(12)
	signer := security.NewJWTSigner(cfg.JWTSecret, cfg.JWTIssuer)

	// The single super-admin comes from the environment, never from an
	// HTTP endpoint.
	if err := postgres.SeedSuperAdmin(context.Background(), accountRepo, hasher,
		cfg.SuperAdminName, cfg.SuperAdminEmail, cfg.SuperAdminPassword); err != nil {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	// 6) services
	auditLog := audit.New(logger.Logger)

	authSvc := auth.NewService(accountRepo, hasher, signer, denylist, pub, auth.Config{
		AccessTTL:     cfg.AccessTokenTTL,
		RefreshTTL:    cfg.RefreshTokenTTL,
		VerifyBaseURL: cfg.VerifyBaseURL,
	}).WithAudit(auditLog.Record)

	gallerySvc := gallery.NewService(imageRepo, store).WithAudit(auditLog.Record)

	// 7) handlers + middleware
	secureCookies := cfg.Env != "dev"

	authH := http_handlers.NewAuthHandler(authSvc, cfg.RefreshTokenTTL, secureCookies)
	accountH := http_handlers.NewAccountHandler(authSvc)
	imageH := http_handlers.NewImageHandler(gallerySvc)
	healthH := http_handlers.NewHealthHandler(map[string]http_handlers.Pinger{
		"postgres": pingerFunc(db.PingContext),
		"redis":    redisCli, // nil when unavailable; skipped
	})

	authMW := middleware.Auth(signer, accountRepo, response.WriteError)

	// rate limit (fail-open; nil disables the route's limiter)
	rl := func(key string, limit int, window time.Duration) func(http.Handler) http.Handler {
		if fwLimiter == nil {
			return nil
		}
		return middleware.RateLimitFixedWindow(fwLimiter, middleware.FixedWindowConfig{
			RouteKey: key,
			Limit:    limit,
			Window:   window,
		}, response.WriteError)
	}

	// 8) router
	mux, err := deps.NewRouter(router.Deps{
		Health:   healthH,
		Auth:     authH,
		Accounts: accountH,
		Images:   imageH,
		AuthMW:   authMW,

		RLRegister: rl("auth.register", 3, time.Minute),
		RLLogin:    rl("auth.login", 5, time.Minute),
		RLRefresh:  rl("auth.refresh", 10, time.Minute),

		WriteErr: response.WriteError,
	})
	if err != nil {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	// 9) server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	cleanup := func() {
		runCleanup(cleanupFns)
	}

	return srv, cleanup, nil
}

/*
========================
 Default deps (prod)
========================
*/

func defaultDeps() Deps {
	return Deps{
		LoadConfig: config.Load,
		NewDB:      config.NewDB,
		NewRedis: func(addr, password string, db int) RedisClient {
			return redis.New(addr, password, db)
		},
		NewPublisher: func(url string) (auth.EventPublisher, error) {
			return rabbitmq.NewPublisher(url)
		},
		NewStorage: func(ctx context.Context, cfg *config.Config) (gallery.ObjectStorage, error) {
			s, err := storage.NewS3Store(ctx, cfg)
			if err != nil {
				return nil, err
			}
			if err := s.EnsureBucket(ctx); err != nil {
				return nil, err
			}
			return s, nil
		},
		NewRouter: router.New,
	}
}

/*
========================
 helpers
========================
*/

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func runCleanup(fns []func()) {
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
