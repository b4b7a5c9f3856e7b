package repository

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/okian/wordscore/internal/domain/model"
	"github.com/okian/wordscore/internal/domain/ranking"
)

// Treap-based, in-memory Store implementation.
//
// The tree is keyed by the leaderboard ordering (points DESC, createdAt ASC,
// id ASC), so in-order traversal yields the default leaderboard and a page
// is found by skipping subtrees by size. Other orderings sort a copy.

// leaderboardOrder compares records by the default leaderboard ordering.
var leaderboardOrder = ranking.Compare(ranking.DefaultOrders())

// treap node
type node struct {
	rec   model.ScoreRecord
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

func rotateRight(y *node) *node {
	x := y.left
	y.left = x.right
	x.right = y
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	x.right = y.left
	y.left = x
	fix(x)
	fix(y)
	return y
}

func insert(n *node, rec model.ScoreRecord, prio uint64) *node {
	if n == nil {
		return &node{rec: rec, prio: prio, size: 1}
	}
	if leaderboardOrder(rec, n.rec) < 0 {
		n.left = insert(n.left, rec, prio)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, rec, prio)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, rec model.ScoreRecord) *node {
	if n == nil {
		return nil
	}
	switch c := leaderboardOrder(rec, n.rec); {
	case c < 0:
		n.left = deleteNode(n.left, rec)
	case c > 0:
		n.right = deleteNode(n.right, rec)
	default:
		// Rotate the higher-priority child up until n is a leaf.
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, rec)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, rec)
		}
	}
	fix(n)
	return n
}

// collectRange appends up to limit records in order, starting at offset.
func collectRange(n *node, offset, limit int, out *[]model.ScoreRecord) {
	if n == nil || len(*out) >= limit {
		return
	}
	leftSize := nsize(n.left)
	if offset < leftSize {
		collectRange(n.left, offset, limit, out)
	}
	if len(*out) >= limit {
		return
	}
	if offset <= leftSize {
		*out = append(*out, n.rec)
	}
	rightOffset := offset - leftSize - 1
	if rightOffset < 0 {
		rightOffset = 0
	}
	collectRange(n.right, rightOffset, limit, out)
}

// collectAll appends all records in leaderboard order.
func collectAll(n *node, out *[]model.ScoreRecord) {
	if n == nil {
		return
	}
	collectAll(n.left, out)
	*out = append(*out, n.rec)
	collectAll(n.right, out)
}

// MemoryStore keeps score records in a treap guarded by one RWMutex.
type MemoryStore struct {
	mu     sync.RWMutex
	root   *node
	byID   map[uuid.UUID]model.ScoreRecord
	closed bool

	now   func() time.Time
	newID func() uuid.UUID
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore constructs an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		byID:  make(map[uuid.UUID]model.ScoreRecord),
		now:   time.Now,
		newID: uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save implements Store.Save in O(log n) expected time.
func (s *MemoryStore) Save(ctx context.Context, rec model.ScoreRecord) (model.ScoreRecord, error) {
	if err := ctx.Err(); err != nil {
		return model.ScoreRecord{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return model.ScoreRecord{}, ErrClosed
	}

	if rec.ID == uuid.Nil {
		rec.ID = s.newID()
	}
	if _, exists := s.byID[rec.ID]; exists {
		return model.ScoreRecord{}, ErrDuplicateID
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now()
	}
	rec.CreatedAt = rec.CreatedAt.UTC()

	s.root = insert(s.root, rec, rand.Uint64())
	s.byID[rec.ID] = rec
	return rec, nil
}

// Get implements Store.Get.
func (s *MemoryStore) Get(ctx context.Context, id uuid.UUID) (model.ScoreRecord, error) {
	if err := ctx.Err(); err != nil {
		return model.ScoreRecord{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return model.ScoreRecord{}, ErrClosed
	}

	rec, ok := s.byID[id]
	if !ok {
		return model.ScoreRecord{}, &RecordNotFoundError{ID: id}
	}
	return rec, nil
}

// Page implements Store.Page. The default ordering is served from the tree
// directly; any other ordering sorts a snapshot.
func (s *MemoryStore) Page(ctx context.Context, req ranking.SortRequest) ([]model.ScoreRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.Page < 0 || req.Size < 0 {
		return nil, fmt.Errorf("%w: page=%d size=%d", ranking.ErrInvalidPagination, req.Page, req.Size)
	}
	orders := req.Orders
	if len(orders) == 0 {
		orders = ranking.DefaultOrders()
	}
	// Offset saturates, so a page past any reachable record is simply empty.
	offset, limit := req.Offset(), req.Size

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	total := nsize(s.root)
	if limit <= 0 || offset >= total {
		return []model.ScoreRecord{}, nil
	}

	if slices.Equal(orders, ranking.DefaultOrders()) {
		out := make([]model.ScoreRecord, 0, min(limit, total-offset))
		collectRange(s.root, offset, limit, &out)
		return out, nil
	}

	all := make([]model.ScoreRecord, 0, total)
	collectAll(s.root, &all)
	slices.SortFunc(all, ranking.Compare(orders))
	end := offset + min(limit, len(all)-offset)
	return slices.Clone(all[offset:end]), nil
}

// DeleteByIDs implements Store.DeleteByIDs.
func (s *MemoryStore) DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}

	removed := 0
	for _, id := range ids {
		rec, ok := s.byID[id]
		if !ok {
			continue
		}
		s.root = deleteNode(s.root, rec)
		delete(s.byID, id)
		removed++
	}
	return removed, nil
}

// Count implements Store.Count.
func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrClosed
	}
	return len(s.byID), nil
}

// Close releases the records. Further calls fail with ErrClosed.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.root = nil
	s.byID = nil
	return nil
}
