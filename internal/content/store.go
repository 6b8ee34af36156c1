package content

import (
	"fmt"
	"io/fs"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Store serves the current catalog and swaps it on reload. Readers never see
// a partially loaded catalog.
type Store struct {
	current atomic.Pointer[Catalog]
	source  fs.FS
	logger  *slog.Logger

	mu        sync.Mutex
	listeners []func(*Catalog)
}

// NewStore wraps an initial catalog. source may be nil, in which case Reload
// is a no-op.
func NewStore(initial *Catalog, source fs.FS, logger *slog.Logger) *Store {
	s := &Store{
		source: source,
		logger: logger,
	}
	s.current.Store(initial)
	return s
}

// Catalog returns the active catalog.
func (s *Store) Catalog() *Catalog {
	return s.current.Load()
}

// Subscribe registers fn to run after every successful reload.
func (s *Store) Subscribe(fn func(*Catalog)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Reload re-reads the source. An invalid catalog is rejected and the previous
// one stays active.
func (s *Store) Reload() error {
	if s.source == nil {
		return nil
	}

	l := s.logger.With(slog.String("method", "Reload"))

	next, err := Load(s.source)
	if err != nil {
		l.Error("Rejected content reload", slog.Any("error", err))
		return fmt.Errorf("failed to reload content: %w", err)
	}

	s.current.Store(next)

	s.mu.Lock()
	listeners := make([]func(*Catalog), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(next)
	}

	l.Info("Content catalog reloaded",
		slog.Int("locations", len(next.locations)),
		slog.Int("services", len(next.services)))
	return nil
}
