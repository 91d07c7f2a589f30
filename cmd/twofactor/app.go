package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/twofactor/pkg/audit"
	"github.com/dmitrymomot/twofactor/pkg/clientip"
	"github.com/dmitrymomot/twofactor/pkg/config"
	"github.com/dmitrymomot/twofactor/pkg/email"
	"github.com/dmitrymomot/twofactor/pkg/httpserver"
	"github.com/dmitrymomot/twofactor/pkg/logger"
	"github.com/dmitrymomot/twofactor/pkg/notify"
	"github.com/dmitrymomot/twofactor/pkg/pg"
	"github.com/dmitrymomot/twofactor/pkg/pgstore"
	"github.com/dmitrymomot/twofactor/pkg/redis"
	"github.com/dmitrymomot/twofactor/pkg/requestid"
	"github.com/dmitrymomot/twofactor/pkg/totp"
	"github.com/dmitrymomot/twofactor/pkg/twofactor"
)

type appConfig struct {
	Env             string        `env:"APP_ENV" envDefault:"development"`
	Name            string        `env:"APP_NAME" envDefault:"twofactor"`
	APIToken        string        `env:"API_TOKEN"`
	RedisEnabled    bool          `env:"REDIS_ENABLED" envDefault:"false"`
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL" envDefault:"1h"`
	SMSRevealCodes  bool          `env:"SMS_LOG_REVEAL_CODES" envDefault:"false"`
}

// app holds the wired dependencies shared by the commands.
type app struct {
	cfg     appConfig
	pgCfg   pg.Config
	log     *slog.Logger
	pool    *pgxpool.Pool
	rdb     *goredis.Client
	prefix  string // redis key prefix
	svc     *twofactor.Service
	checks  []httpserver.Check
	closers []func()
}

func loadAppConfig() (appConfig, error) {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func newLogger(cfg appConfig) *slog.Logger {
	return logger.New(
		logger.WithEnvironment(cfg.Env, cfg.Name),
		logger.WithContextExtractors(requestid.LoggerExtractor(), clientip.LoggerExtractor()),
	)
}

// connect opens Postgres (and Redis when enabled) without building the service.
func connect(ctx context.Context) (*app, error) {
	cfg, err := loadAppConfig()
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, log: newLogger(cfg)}

	if err := config.Load(&a.pgCfg); err != nil {
		return nil, err
	}
	if a.pool, err = pg.Connect(ctx, a.pgCfg); err != nil {
		return nil, err
	}
	a.checks = append(a.checks, httpserver.Check{Name: "postgres", Probe: pg.Healthcheck(a.pool)})

	if cfg.RedisEnabled {
		var redisCfg redis.Config
		if err := config.Load(&redisCfg); err != nil {
			a.close()
			return nil, err
		}
		a.prefix = redisCfg.KeyPrefix
		if a.rdb, err = redis.Connect(ctx, redisCfg); err != nil {
			a.close()
			return nil, err
		}
		a.checks = append(a.checks, httpserver.Check{Name: "redis", Probe: redis.Healthcheck(a.rdb)})
	}

	return a, nil
}

// bootstrap connects and builds the two-factor service on top of Postgres.
// Redis, when enabled, backs the session gate and the TOTP replay guard so
// several instances share them.
func bootstrap(ctx context.Context) (*app, error) {
	a, err := connect(ctx)
	if err != nil {
		return nil, err
	}

	var (
		tfCfg    twofactor.Config
		totpCfg  totp.Config
		emailCfg email.Config
	)
	if err := errors.Join(
		config.Load(&tfCfg),
		config.Load(&totpCfg),
		config.Load(&emailCfg),
	); err != nil {
		a.close()
		return nil, err
	}

	var cipher pgstore.SecretCipher
	if totpCfg.EncryptionKey != "" {
		c, err := totp.NewCipherFromConfig(totpCfg)
		if err != nil {
			a.close()
			return nil, err
		}
		cipher = c
	} else {
		a.log.WarnContext(ctx, "TOTP_ENCRYPTION_KEY is not set, totp secrets are stored unencrypted")
	}

	sender, err := email.New(emailCfg)
	if err != nil {
		a.close()
		return nil, err
	}

	auditLog := audit.NewLogger(pgstore.NewAuditStorage(a.pool),
		audit.WithRequestIDExtractor(nonEmpty(requestid.FromContext)),
		audit.WithIPExtractor(nonEmpty(clientip.FromContext)),
	)

	opts := []twofactor.Option{
		twofactor.WithConfig(tfCfg),
		twofactor.WithLogger(a.log),
		twofactor.WithAuditor(twofactor.NewAuditTrail(auditLog, a.log)),
		twofactor.WithNotifier(notify.NewRouter(map[twofactor.Method]twofactor.Notifier{
			twofactor.MethodEmail: notify.NewEmailNotifier(sender, tfCfg.Issuer),
			twofactor.MethodSMS:   notify.NewLogNotifier(a.log, a.cfg.SMSRevealCodes),
		})),
	}

	var gate *twofactor.SessionGate
	if a.rdb != nil {
		gate = twofactor.NewSessionGate(
			redis.NewGateStore(a.rdb, a.prefix),
			twofactor.WithGateTTL(tfCfg.GateTTL),
		)
		if tfCfg.ReplayProtection {
			opts = append(opts, twofactor.WithReplayGuard(redis.NewReplayGuard(a.rdb, a.prefix, tfCfg.TOTPSkew)))
		}
	}

	a.svc = twofactor.NewService(
		pgstore.NewTokenStore(a.pool),
		pgstore.NewSecretStore(a.pool, cipher),
		gate,
		opts...,
	)
	return a, nil
}

func (a *app) onClose(fn func()) {
	a.closers = append(a.closers, fn)
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.log.Error("failed to close redis client", logger.Error(err))
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
}

func nonEmpty(fn func(context.Context) string) func(context.Context) (string, bool) {
	return func(ctx context.Context) (string, bool) {
		v := fn(ctx)
		return v, v != ""
	}
}
