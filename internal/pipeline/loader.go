package pipeline

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Identity scopes a load to one signed-in user.
type Identity struct {
	UserID string
	Token  string
}

// Valid reports whether the identity can authorize a read.
func (id Identity) Valid() bool {
	return id.UserID != "" && id.Token != ""
}

// FetchFunc performs one bounded read for id.
type FetchFunc[T any] func(ctx context.Context, id Identity) ([]T, error)

// Result is the outcome of one load, tagged with the generation it belongs to.
type Result[T any] struct {
	Name  string
	Gen   uint64
	Items []T
	Err   error
}

// State summarizes a loader for status displays.
type State struct {
	Loaded   bool
	Loading  bool
	Count    int
	Err      error
	LoadedAt time.Time
}

// Loader holds the local copy of one user-scoped entity set. Every load
// replaces the set; results from superseded generations are dropped.
type Loader[T any] struct {
	name  string
	fetch FetchFunc[T]
	log   *zap.Logger
	now   func() time.Time

	mu       sync.Mutex
	gen      uint64
	applied  uint64
	items    []T
	loaded   bool
	err      error
	loadedAt time.Time
}

// NewLoader creates a loader named for logging.
func NewLoader[T any](name string, fetch FetchFunc[T], log *zap.Logger) *Loader[T] {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader[T]{
		name:  name,
		fetch: fetch,
		log:   log.Named("loader").With(zap.String("set", name)),
		now:   time.Now,
	}
}

// Name returns the loader's name.
func (l *Loader[T]) Name() string { return l.name }

// Run starts a new generation and performs the read without applying it.
// Without a valid identity no read is issued and the result is empty.
func (l *Loader[T]) Run(ctx context.Context, id Identity) Result[T] {
	l.mu.Lock()
	l.gen++
	gen := l.gen
	l.mu.Unlock()

	r := Result[T]{Name: l.name, Gen: gen}
	if !id.Valid() {
		return r
	}
	r.Items, r.Err = l.fetch(ctx, id)
	return r
}

// Apply stores r if its generation is still current and reports whether it did.
// A failed read leaves the set empty.
func (l *Loader[T]) Apply(r Result[T]) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if r.Gen != l.gen {
		l.log.Debug("dropping stale result", zap.Uint64("gen", r.Gen), zap.Uint64("current", l.gen))
		return false
	}
	l.applied = r.Gen
	l.loaded = true
	l.loadedAt = l.now()
	l.err = r.Err
	if r.Err != nil {
		l.log.Warn("load failed", zap.Error(r.Err))
		l.items = nil
		return true
	}
	l.items = r.Items
	return true
}

// Load runs and applies a read, returning the read error if any.
func (l *Loader[T]) Load(ctx context.Context, id Identity) error {
	r := l.Run(ctx, id)
	l.Apply(r)
	return r.Err
}

// Invalidate empties the set and orphans any read in flight.
func (l *Loader[T]) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
	l.applied = l.gen
	l.items = nil
	l.loaded = false
	l.err = nil
}

// Items returns a copy of the current set.
func (l *Loader[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// State returns the loader's status.
func (l *Loader[T]) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return State{
		Loaded:   l.loaded,
		Loading:  l.gen != l.applied,
		Count:    len(l.items),
		Err:      l.err,
		LoadedAt: l.loadedAt,
	}
}
