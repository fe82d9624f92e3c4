package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/senglish"
	"github.com/aretw0/senglish/internal/logging"
	"github.com/aretw0/senglish/pkg/adapters/dom"
	"github.com/aretw0/senglish/pkg/domain"
	"github.com/aretw0/senglish/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed session lock is held.
const DefaultLockTTL = 30 * time.Second

// Factory builds the interpreter for a new session. extra carries options the
// Manager needs (hooks); implementations must pass them to senglish.New.
type Factory func(ctx context.Context, sessionID string, extra ...senglish.Option) (*senglish.Interpreter, error)

// DefaultFactory returns a Factory that applies base to every session.
func DefaultFactory(base ...senglish.Option) Factory {
	return func(ctx context.Context, sessionID string, extra ...senglish.Option) (*senglish.Interpreter, error) {
		opts := append(append([]senglish.Option{}, base...), extra...)
		return senglish.New(opts...)
	}
}

// DiagnosticObserver receives every diagnostic of every session.
type DiagnosticObserver func(ctx context.Context, sessionID string, e *domain.DiagnosticEvent)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates session access, ensuring safe concurrent operations.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	factory Factory

	mu       sync.Mutex                       // Global lock for the maps
	locks    map[string]*lockEntry            // Map of active locks
	sessions map[string]*senglish.Interpreter // Live interpreters

	obsMu     sync.RWMutex
	observers []DiagnosticObserver

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	logger  *slog.Logger // Logger for internal events (like deferred errors)
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the distributed lock expiration.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a new Session Manager. A nil factory uses DefaultFactory().
func NewManager(factory Factory, opts ...Option) *Manager {
	if factory == nil {
		factory = DefaultFactory()
	}
	m := &Manager{
		factory:  factory,
		locks:    make(map[string]*lockEntry),
		sessions: make(map[string]*senglish.Interpreter),
		lockTTL:  DefaultLockTTL,
		logger:   logging.NewNop(), // Default to no-op
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Observe registers a diagnostic observer for all current and future sessions.
func (m *Manager) Observe(obs DiagnosticObserver) {
	m.obsMu.Lock()
	defer m.obsMu.Unlock()
	m.observers = append(m.observers, obs)
}

func (m *Manager) hooksFor(sessionID string) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDiagnostic: func(ctx context.Context, e *domain.DiagnosticEvent) {
			m.obsMu.RLock()
			observers := m.observers
			m.obsMu.RUnlock()
			for _, obs := range observers {
				obs(ctx, sessionID, e)
			}
		},
	}
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// Get returns a live session.
func (m *Manager) Get(sessionID string) (*senglish.Interpreter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	in, ok := m.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
	}
	return in, nil
}

// LoadOrStart returns the session, creating it if needed.
func (m *Manager) LoadOrStart(ctx context.Context, sessionID string) (*senglish.Interpreter, error) {
	if in, err := m.Get(sessionID); err == nil {
		return in, nil
	}

	var in *senglish.Interpreter
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		// Another caller may have won the race while we waited.
		if existing, err := m.Get(sessionID); err == nil {
			in = existing
			return nil
		}
		created, err := m.factory(ctx, sessionID, senglish.WithLifecycleHooks(m.hooksFor(sessionID)))
		if err != nil {
			return fmt.Errorf("failed to initialize session: %w", err)
		}
		m.mu.Lock()
		m.sessions[sessionID] = created
		m.mu.Unlock()
		m.logger.Debug("session started", "session_id", sessionID)
		in = created
		return nil
	})
	return in, err
}

// Cmd runs a chain in the session (created on demand) under the session lock.
func (m *Manager) Cmd(ctx context.Context, sessionID, text string) (domain.Report, error) {
	in, err := m.LoadOrStart(ctx, sessionID)
	if err != nil {
		return domain.Report{}, err
	}
	var report domain.Report
	err = m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		report, err = in.Cmd(ctx, text)
		return err
	})
	return report, err
}

// Trigger fires an event in an existing session and waits for the chains it submits.
func (m *Manager) Trigger(ctx context.Context, sessionID, target, event, value string) error {
	in, err := m.Get(sessionID)
	if err != nil {
		return err
	}
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		if err := in.Trigger(ctx, target, event, value); err != nil {
			return err
		}
		return in.Sync(ctx)
	})
}

// Inspect snapshots the document of an existing session.
func (m *Manager) Inspect(ctx context.Context, sessionID string) (dom.Snapshot, error) {
	in, err := m.Get(sessionID)
	if err != nil {
		return dom.Snapshot{}, err
	}
	return in.Inspect(ctx)
}

// Delete closes the session and forgets it.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		m.mu.Lock()
		in, ok := m.sessions[sessionID]
		delete(m.sessions, sessionID)
		m.mu.Unlock()
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
		}
		return in.Close()
	})
}

// List returns the live session ids, sorted.
func (m *Manager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Close stops every session.
func (m *Manager) Close() error {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*senglish.Interpreter)
	m.mu.Unlock()

	var errs []error
	for _, in := range sessions {
		errs = append(errs, in.Close())
	}
	return errors.Join(errs...)
}

// WithLock executes a function while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	// Distributed Locking
	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
