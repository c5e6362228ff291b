package repository

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/okian/cricscore/internal/domain/model"
	"github.com/okian/cricscore/pkg/logger"
	"github.com/okian/cricscore/pkg/metrics"
)

// Treap-based in-memory DeliveryStore. In-order traversal yields deliveries
// by match, innings, over, ball.

type node struct {
	key   model.Key
	d     *model.DeliveryEvent
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

func insert(n, nn *node) *node {
	if n == nil {
		return nn
	}
	if nn.key.Compare(n.key) < 0 {
		n.left = insert(n.left, nn)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, nn)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, key model.Key) *node {
	if n == nil {
		return nil
	}
	switch c := key.Compare(n.key); {
	case c < 0:
		n.left = deleteNode(n.left, key)
	case c > 0:
		n.right = deleteNode(n.right, key)
	default:
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, key)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, key)
		}
	}
	fix(n)
	return n
}

func find(n *node, key model.Key) *node {
	for n != nil {
		switch c := key.Compare(n.key); {
		case c < 0:
			n = n.left
		case c > 0:
			n = n.right
		default:
			return n
		}
	}
	return nil
}

// cmpInnings orders k against the (match, innings) prefix.
func cmpInnings(k model.Key, matchID string, innings int) int {
	switch {
	case k.MatchID < matchID:
		return -1
	case k.MatchID > matchID:
		return 1
	case k.Innings < innings:
		return -1
	case k.Innings > innings:
		return 1
	}
	return 0
}

// collectInnings appends the deliveries of one innings in key order, stopping
// at limit when limit > 0.
func collectInnings(n *node, matchID string, innings, limit int, out *[]*model.DeliveryEvent) {
	if n == nil || (limit > 0 && len(*out) >= limit) {
		return
	}
	c := cmpInnings(n.key, matchID, innings)
	if c >= 0 {
		collectInnings(n.left, matchID, innings, limit, out)
	}
	if c == 0 && (limit <= 0 || len(*out) < limit) {
		*out = append(*out, n.d.Clone())
	}
	if c <= 0 {
		collectInnings(n.right, matchID, innings, limit, out)
	}
}

// lastInnings returns the greatest node of one innings.
func lastInnings(n *node, matchID string, innings int) *node {
	var best *node
	for n != nil {
		if cmpInnings(n.key, matchID, innings) <= 0 {
			if cmpInnings(n.key, matchID, innings) == 0 {
				best = n
			}
			n = n.right
		} else {
			n = n.left
		}
	}
	return best
}

// TreapStore keeps the ball-by-ball log in memory.
type TreapStore struct {
	mu     sync.RWMutex
	root   *node
	byID   map[string]model.Key
	closed bool
	logger logger.Logger
}

// NewTreapStore returns an empty in-memory store.
func NewTreapStore(_ context.Context, opts ...Option) *TreapStore {
	o := applyOptions(opts)
	metrics.UpdateStoreRecords(0)
	return &TreapStore{
		byID:   make(map[string]model.Key),
		logger: o.logger,
	}
}

func observe(driver, op string, start time.Time) {
	metrics.RecordStoreLatency(driver, op, float64(time.Since(start).Microseconds())/1000)
}

// Create implements DeliveryStore.
func (s *TreapStore) Create(ctx context.Context, d *model.DeliveryEvent) error {
	defer observe(DriverMemory, "create", time.Now())
	key := d.Key()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if _, dup := s.byID[d.ID]; dup {
		s.mu.Unlock()
		return fmt.Errorf("id %s: %w", d.ID, ErrDuplicateDelivery)
	}
	if find(s.root, key) != nil {
		s.mu.Unlock()
		return fmt.Errorf("%s: %w", key, ErrDuplicateDelivery)
	}
	s.root = insert(s.root, &node{key: key, d: d.Clone(), prio: rand.Uint64(), size: 1})
	s.byID[d.ID] = key
	n := len(s.byID)
	s.mu.Unlock()

	metrics.UpdateStoreRecords(n)
	s.logger.Debug(ctx, "delivery stored", logger.String("key", key.String()))
	return nil
}

// Get implements DeliveryStore.
func (s *TreapStore) Get(_ context.Context, key model.Key) (*model.DeliveryEvent, error) {
	defer observe(DriverMemory, "get", time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := find(s.root, key)
	if n == nil {
		metrics.RecordErrorByComponent("repository", "not_found")
		return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	return n.d.Clone(), nil
}

// Delete implements DeliveryStore.
func (s *TreapStore) Delete(ctx context.Context, key model.Key) error {
	defer observe(DriverMemory, "delete", time.Now())
	s.mu.Lock()
	n := find(s.root, key)
	if n == nil {
		s.mu.Unlock()
		return fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	delete(s.byID, n.d.ID)
	s.root = deleteNode(s.root, key)
	count := len(s.byID)
	s.mu.Unlock()

	metrics.UpdateStoreRecords(count)
	s.logger.Debug(ctx, "delivery deleted", logger.String("key", key.String()))
	return nil
}

// List implements DeliveryStore.
func (s *TreapStore) List(_ context.Context, matchID string, innings int, limit int) ([]*model.DeliveryEvent, error) {
	defer observe(DriverMemory, "list", time.Now())
	if err := checkLimit(limit); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.DeliveryEvent, 0)
	collectInnings(s.root, matchID, innings, limit, &out)
	return out, nil
}

// Last implements DeliveryStore.
func (s *TreapStore) Last(_ context.Context, matchID string, innings int) (*model.DeliveryEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := lastInnings(s.root, matchID, innings)
	if n == nil {
		return nil, fmt.Errorf("%s/%d: %w", matchID, innings, ErrNotFound)
	}
	return n.d.Clone(), nil
}

// Count implements DeliveryStore.
func (s *TreapStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return nsize(s.root), nil
}

// Close rejects further writes. Reads keep working.
func (s *TreapStore) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}
