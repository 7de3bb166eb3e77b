package session_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/ordinal/pkg/adapters/memory"
	"github.com/aretw0/ordinal/pkg/domain"
	"github.com/aretw0/ordinal/pkg/ports"
	"github.com/aretw0/ordinal/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SlowStore simulates latency to provoke race conditions if locking is missing.
type SlowStore struct {
	data   map[string]domain.Defaults
	mu     sync.Mutex
	active int
	peak   int
}

func (s *SlowStore) enter() {
	s.mu.Lock()
	s.active++
	if s.active > s.peak {
		s.peak = s.active
	}
	s.mu.Unlock()
}

func (s *SlowStore) leave() {
	s.mu.Lock()
	s.active--
	s.mu.Unlock()
}

func (s *SlowStore) Save(ctx context.Context, key string, d *domain.Defaults) error {
	s.enter()
	defer s.leave()
	time.Sleep(5 * time.Millisecond)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		s.data = make(map[string]domain.Defaults)
	}
	s.data[key] = *d
	return nil
}

func (s *SlowStore) Load(ctx context.Context, key string) (*domain.Defaults, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.data[key]; ok {
		return &d, nil
	}
	return nil, domain.ErrDefaultsNotFound
}

func (s *SlowStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

type brokenStore struct{ SlowStore }

func (b *brokenStore) Load(ctx context.Context, key string) (*domain.Defaults, error) {
	return nil, errors.New("connection refused")
}

func TestManager_Resolve(t *testing.T) {
	ctx := context.Background()
	m := session.NewManager(memory.NewStore())

	_, err := m.Resolve(ctx, "/scans", "")
	assert.ErrorIs(t, err, domain.ErrDefaultsNotFound)

	require.NoError(t, m.Remember(ctx, "/scans", "%04d.djvu"))

	expr, err := m.Resolve(ctx, "/scans", "")
	require.NoError(t, err)
	assert.Equal(t, "%04d.djvu", expr)

	expr, err = m.Resolve(ctx, "/scans", "p%d.png")
	require.NoError(t, err)
	assert.Equal(t, "p%d.png", expr, "explicit expression wins")

	_, err = m.Resolve(ctx, "/other", "")
	assert.ErrorIs(t, err, domain.ErrDefaultsNotFound)

	require.NoError(t, m.Forget(ctx, "/scans"))
	_, err = m.Resolve(ctx, "/scans", "")
	assert.ErrorIs(t, err, domain.ErrDefaultsNotFound)
}

func TestManager_Remember(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	m := session.NewManager(store, session.WithClock(func() time.Time { return fixed }))

	t.Run("rejects invalid expression", func(t *testing.T) {
		err := m.Remember(ctx, "/scans", "cover.jpg")
		assert.ErrorIs(t, err, domain.ErrPattern)

		_, err = store.Load(ctx, "/scans")
		assert.ErrorIs(t, err, domain.ErrDefaultsNotFound)
	})

	t.Run("stamps update time", func(t *testing.T) {
		require.NoError(t, m.Remember(ctx, "/scans", "%03d.tif"))
		d, err := store.Load(ctx, "/scans")
		require.NoError(t, err)
		assert.Equal(t, fixed, d.UpdatedAt)
	})
}

func TestManager_StoreFailure(t *testing.T) {
	m := session.NewManager(&brokenStore{})
	_, err := m.Resolve(context.Background(), "/scans", "")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrDefaultsNotFound)

	expr, err := m.Resolve(context.Background(), "/scans", "%d")
	require.NoError(t, err)
	assert.Equal(t, "%d", expr)
}

func TestManager_Locking(t *testing.T) {
	store := &SlowStore{}
	m := session.NewManager(store)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, m.Remember(ctx, "/scans", fmt.Sprintf("%%0%dd.png", i+1)))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, store.peak, "saves for the same key must not overlap")
}

func TestKey(t *testing.T) {
	abs, err := filepath.Abs("scans")
	require.NoError(t, err)
	assert.Equal(t, abs, session.Key("scans"))
	assert.Equal(t, abs, session.Key("./scans/"))
}

type recordingLocker struct {
	mu     sync.Mutex
	locked []string
	held   int
}

func (l *recordingLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.locked = append(l.locked, key)
	l.held++
	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.held--
		return nil
	}, nil
}

func TestManager_WithLocker(t *testing.T) {
	locker := &recordingLocker{}
	m := session.NewManager(memory.NewStore(), session.WithLocker(locker, time.Second))
	ctx := context.Background()

	require.NoError(t, m.Remember(ctx, "/scans", "%d"))
	_, err := m.Resolve(ctx, "/scans", "")
	require.NoError(t, err)

	err = m.WithLock(ctx, "/scans", func(context.Context) error {
		assert.Equal(t, 1, locker.held)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"/scans", "/scans", "/scans"}, locker.locked)
	assert.Zero(t, locker.held)
}
