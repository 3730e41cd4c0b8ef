package catalog

import (
	"context"
	"log/slog"
	"sync"
)

// Manager owns the current store and swaps in replacements atomically on
// reload. The original page waited a fixed delay for its table widget to
// initialize; here readiness is explicit: Ready() closes after the first
// successful load, and WaitReady blocks on it.
type Manager struct {
	loader *Loader
	logger *slog.Logger

	mu    sync.RWMutex
	store *Store

	readyOnce sync.Once
	ready     chan struct{}

	subMu       sync.Mutex
	subscribers []func(*Store)
}

// NewManager creates a manager around a loader. No load happens until
// Reload is called.
func NewManager(loader *Loader, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Manager{
		loader: loader,
		logger: logger,
		ready:  make(chan struct{}),
	}
}

// Reload builds a fresh store from the source files and swaps it in. The
// previous store stays current when the load fails, so a broken edit to a
// source file never takes the catalogue down. Subscribers are notified
// after the swap.
func (m *Manager) Reload(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	store, err := m.loader.Load()
	if err != nil {
		m.logger.Error("catalogue reload failed, keeping previous store", "error", err)
		return err
	}

	m.mu.Lock()
	m.store = store
	m.mu.Unlock()

	m.readyOnce.Do(func() { close(m.ready) })

	m.subMu.Lock()
	subs := make([]func(*Store), len(m.subscribers))
	copy(subs, m.subscribers)
	m.subMu.Unlock()

	for _, fn := range subs {
		fn(store)
	}

	return nil
}

// Store returns the current store. Nil before the first successful load.
func (m *Manager) Store() *Store {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.store
}

// Ready returns a channel that closes after the first successful load.
func (m *Manager) Ready() <-chan struct{} {
	return m.ready
}

// WaitReady blocks until the catalogue has loaded once or the context is
// canceled.
func (m *Manager) WaitReady(ctx context.Context) error {
	select {
	case <-m.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// OnReload registers a callback invoked after every successful reload.
// Callbacks run on the reloading goroutine and should return quickly.
func (m *Manager) OnReload(fn func(*Store)) {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	m.subscribers = append(m.subscribers, fn)
}
