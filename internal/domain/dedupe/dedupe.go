// Package dedupe tracks idempotency keys for score submissions.
package dedupe

import (
	"container/list"
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Sentinel kinds for idempotency errors.
var (
	// ErrKeyInFlight reports a key that is claimed but not yet bound.
	ErrKeyInFlight = errors.New("idempotency key in flight")

	// ErrKeyReused reports a key sent again with a different payload.
	ErrKeyReused = errors.New("idempotency key reused with a different payload")
)

// Deduper records idempotency keys so a retried submission maps back to the
// record its first attempt created.
type Deduper interface {
	// SeenAndRecord atomically checks if key was seen and claims it if not.
	// Returns true if key was already claimed, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, key string) bool

	// Bind attaches the created record id to a claimed key.
	Bind(ctx context.Context, key string, id uuid.UUID)

	// Resolve returns the record id bound to key. ok is false while the
	// first request is still in flight or when the key is unknown.
	Resolve(ctx context.Context, key string) (id uuid.UUID, ok bool)

	// Unrecord releases a claim so the key can be retried, for example after
	// the create failed.
	Unrecord(ctx context.Context, key string)

	Size() int64
}

// entry is the list payload for one key.
type entry struct {
	key   string
	id    uuid.UUID
	bound bool
}

// inMemoryDeduper keeps keys in insertion order and evicts the oldest bound
// key when full. Claims still in flight are never evicted, so the cache may
// exceed maxSize while more than maxSize creates run at once.
// maxSize <= 0 means unbounded.
type inMemoryDeduper struct {
	mu      sync.Mutex
	keys    map[string]*list.Element
	order   *list.List // front is oldest
	maxSize int
	size    atomic.Int64
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: 10_000,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.keys = make(map[string]*list.Element)
	d.order = list.New()
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.keys[key]; exists {
		return true
	}
	if d.maxSize > 0 && d.order.Len() >= d.maxSize {
		d.evictOldest()
	}
	d.keys[key] = d.order.PushBack(&entry{key: key})
	d.size.Add(1)
	return false
}

func (d *inMemoryDeduper) Bind(_ context.Context, key string, id uuid.UUID) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if el, ok := d.keys[key]; ok {
		e := el.Value.(*entry)
		e.id = id
		e.bound = true
	}
}

func (d *inMemoryDeduper) Resolve(_ context.Context, key string) (uuid.UUID, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	el, ok := d.keys[key]
	if !ok {
		return uuid.Nil, false
	}
	e := el.Value.(*entry)
	return e.id, e.bound
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if el, ok := d.keys[key]; ok {
		d.order.Remove(el)
		delete(d.keys, key)
		d.size.Add(-1)
	}
}

// evictOldest drops the oldest bound key, skipping claims still in flight.
// Caller holds d.mu.
func (d *inMemoryDeduper) evictOldest() {
	for el := d.order.Front(); el != nil; el = el.Next() {
		e := el.Value.(*entry)
		if !e.bound {
			continue
		}
		d.order.Remove(el)
		delete(d.keys, e.key)
		d.size.Add(-1)
		return
	}
}

// Size returns the current number of tracked keys.
func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}
