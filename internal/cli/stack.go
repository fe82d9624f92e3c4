package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/senglish"
	"github.com/aretw0/senglish/internal/config"
	"github.com/aretw0/senglish/pkg/adapters/memory"
	"github.com/aretw0/senglish/pkg/adapters/redis"
	"github.com/aretw0/senglish/pkg/adapters/sqlite"
	"github.com/aretw0/senglish/pkg/domain"
	"github.com/aretw0/senglish/pkg/persistence/middleware"
	"github.com/aretw0/senglish/pkg/ports"
	"github.com/aretw0/senglish/pkg/session"
)

// BagFactory builds the state bag of one session.
type BagFactory func(sessionID string) ports.StateBag

// Stack wires the configuration into the pieces shared by every command:
// the state backend, the optional distributed locker and interpreter options.
type Stack struct {
	Config config.Config
	Logger *slog.Logger

	bags    BagFactory
	locker  ports.DistributedLocker
	closers []func() error
}

// NewStack opens the configured state backend.
func NewStack(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Stack, error) {
	s := &Stack{Config: cfg, Logger: logger}

	switch cfg.State.Backend {
	case config.BackendRedis:
		shared := redis.New(cfg.State.RedisAddr, cfg.State.RedisPassword, cfg.State.RedisDB)
		if err := shared.Client().Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.State.RedisAddr, err)
		}
		prefix := cfg.State.RedisPrefix
		s.bags = func(sessionID string) ports.StateBag {
			return redis.NewFromClient(shared.Client(), redis.WithPrefix(prefix+sessionID+":"))
		}
		s.locker = redis.NewLocker(shared.Client(), prefix)
		s.closers = append(s.closers, shared.Client().Close)

	case config.BackendSQLite:
		db, err := sqlite.Open(ctx, cfg.State.SQLitePath)
		if err != nil {
			return nil, err
		}
		s.bags = sqliteBags(db)
		s.closers = append(s.closers, db.Close)

	default:
		s.bags = func(string) ports.StateBag { return memory.NewBag() }
	}

	mws, err := bagMiddleware(cfg.State)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	if len(mws) > 0 {
		base := s.bags
		s.bags = func(sessionID string) ports.StateBag {
			return middleware.Chain(base(sessionID), mws...)
		}
	}

	logger.Debug("state backend ready", "backend", cfg.State.Backend, "middleware", len(mws))
	return s, nil
}

// bagMiddleware builds the configured value filters. Masking runs first so
// masked values are encrypted too.
func bagMiddleware(cfg config.StateConfig) ([]middleware.Middleware, error) {
	var mws []middleware.Middleware
	if len(cfg.MaskKeys) > 0 {
		mws = append(mws, middleware.NewPIIMiddleware(cfg.MaskKeys))
	}
	active, fallback, err := cfg.Keys()
	if err != nil {
		return nil, err
	}
	if active != nil {
		mws = append(mws, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey:    active,
			FallbackKeys: fallback,
		}))
	}
	return mws, nil
}

func sqliteBags(db *sql.DB) BagFactory {
	return func(sessionID string) ports.StateBag {
		return sqlite.NewBag(db, sessionID)
	}
}

// Options returns the interpreter options for a session.
func (s *Stack) Options(sessionID string, hooks ...domain.LifecycleHooks) []senglish.Option {
	opts := []senglish.Option{
		senglish.WithLogger(s.Logger.With("session_id", sessionID)),
		senglish.WithStateBag(s.bags(sessionID)),
		senglish.WithConfig(senglish.Config{
			Debug:        s.Config.Debug,
			Warnings:     s.Config.Warnings,
			InputNode:    s.Config.InputNode,
			FetchTimeout: s.Config.FetchTimeout,
		}),
	}
	for _, h := range hooks {
		opts = append(opts, senglish.WithLifecycleHooks(h))
	}
	return opts
}

// Interpreter builds a standalone interpreter for one session.
func (s *Stack) Interpreter(sessionID string, hooks ...domain.LifecycleHooks) (*senglish.Interpreter, error) {
	return senglish.New(s.Options(sessionID, hooks...)...)
}

// Manager builds a session manager over the backend.
// The redis backend also serializes sessions across processes.
func (s *Stack) Manager(hooks ...domain.LifecycleHooks) *session.Manager {
	factory := func(ctx context.Context, sessionID string, extra ...senglish.Option) (*senglish.Interpreter, error) {
		return senglish.New(append(s.Options(sessionID, hooks...), extra...)...)
	}
	opts := []session.Option{session.WithLogger(s.Logger)}
	if s.locker != nil {
		opts = append(opts, session.WithLocker(s.locker))
	}
	return session.NewManager(factory, opts...)
}

// Close releases the backend.
func (s *Stack) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	s.closers = nil
	return errors.Join(errs...)
}
