package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/ordinal/internal/compiler"
	"github.com/aretw0/ordinal/internal/logging"
	"github.com/aretw0/ordinal/pkg/domain"
	"github.com/aretw0/ordinal/pkg/ports"
)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager serializes access to stored defaults per key. Locks are reference
// counted and dropped once no caller holds them.
type Manager struct {
	store ports.DefaultsStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.DistributedLocker
	lockTTL time.Duration

	logger *slog.Logger
	now    func() time.Time
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker also takes a distributed lock for every key, so several
// processes sharing a store (or a directory) do not interleave.
func WithLocker(locker ports.DistributedLocker, ttl time.Duration) Option {
	return func(m *Manager) {
		m.locker = locker
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

// WithClock overrides the time source used for Defaults.UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a Manager backed by store.
func NewManager(store ports.DefaultsStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: 30 * time.Second,
		logger:  logging.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Key normalizes a directory into a store key.
func Key(dir string) string {
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return filepath.Clean(dir)
}

func (m *Manager) acquire(key string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.locks[key]
	if !ok {
		entry = &lockEntry{}
		m.locks[key] = entry
	}
	entry.refs++
	return entry
}

func (m *Manager) release(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.locks[key]
	if !ok {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, key)
	}
}

// WithLock executes fn while holding the lock for key. Hosts also use it to
// serialize renames inside one directory.
func (m *Manager) WithLock(ctx context.Context, key string, fn func(context.Context) error) error {
	entry := m.acquire(key)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(key)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, key, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)", "key", key, "err", err)
			}
		}()
	}

	return fn(ctx)
}

// Resolve returns explicit when it is set, otherwise the expression
// remembered for key. It fails with domain.ErrDefaultsNotFound when neither
// exists.
func (m *Manager) Resolve(ctx context.Context, key, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	var expr string
	err := m.WithLock(ctx, key, func(ctx context.Context) error {
		d, err := m.store.Load(ctx, key)
		if err != nil {
			return err
		}
		expr = d.Expression
		return nil
	})
	if errors.Is(err, domain.ErrDefaultsNotFound) {
		return "", fmt.Errorf("no expression given and none remembered for %s: %w", key, err)
	}
	if err != nil {
		return "", fmt.Errorf("failed to load defaults: %w", err)
	}
	if expr == "" {
		return "", fmt.Errorf("empty expression remembered for %s: %w", key, domain.ErrDefaultsNotFound)
	}
	return expr, nil
}

// Remember stores expression as the default for key. Expressions that do
// not compile are rejected so a bad value never becomes the default.
func (m *Manager) Remember(ctx context.Context, key, expression string) error {
	if _, err := compiler.Compile(expression); err != nil {
		return err
	}
	return m.WithLock(ctx, key, func(ctx context.Context) error {
		d := &domain.Defaults{Expression: expression, UpdatedAt: m.now().UTC()}
		if err := m.store.Save(ctx, key, d); err != nil {
			return fmt.Errorf("failed to save defaults: %w", err)
		}
		m.logger.Debug("expression remembered", "key", key, "expression", expression)
		return nil
	})
}

// Forget removes the defaults stored for key.
func (m *Manager) Forget(ctx context.Context, key string) error {
	return m.WithLock(ctx, key, func(ctx context.Context) error {
		return m.store.Delete(ctx, key)
	})
}
