package analytics

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/cricscore/internal/domain/field"
	"github.com/okian/cricscore/internal/domain/model"
)

// Op is what a job does to the projection.
type Op int

const (
	// OpApply adds a committed delivery.
	OpApply Op = iota
	// OpRetract removes an undone delivery.
	OpRetract
)

func (o Op) String() string {
	switch o {
	case OpApply:
		return "apply"
	case OpRetract:
		return "retract"
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// Job is one unit of work for the analytics pipeline.
type Job struct {
	Op       Op
	Delivery *model.DeliveryEvent
}

type inningsKey struct {
	matchID string
	innings int
}

// projection holds the deliveries of one innings by ID. A retract that
// arrives before its apply leaves a tombstone so the late apply is dropped.
type projection struct {
	applied   map[string]*model.DeliveryEvent
	retracted map[string]struct{}
}

func newProjection() *projection {
	return &projection{
		applied:   make(map[string]*model.DeliveryEvent),
		retracted: make(map[string]struct{}),
	}
}

// Aggregator is the in-memory analytics projection. Jobs may arrive in any
// order and more than once.
type Aggregator struct {
	mu          sync.RWMutex
	innings     map[inningsKey]*projection
	innerRadius float64
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithInnerRadius sets the infield radius used for the ring split.
func WithInnerRadius(r float64) Option {
	return func(a *Aggregator) {
		if r >= 0 {
			a.innerRadius = r
		}
	}
}

// NewAggregator returns an empty aggregator.
func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{
		innings:     make(map[inningsKey]*projection),
		innerRadius: field.DefaultInnerRadius,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Handle applies job. It satisfies the worker pool's handler signature.
func (a *Aggregator) Handle(_ context.Context, job Job) error {
	if job.Delivery == nil {
		return fmt.Errorf("%s: nil delivery: %w", job.Op, ErrUnknownOp)
	}
	switch job.Op {
	case OpApply:
		a.Apply(job.Delivery)
	case OpRetract:
		a.Retract(job.Delivery)
	default:
		return fmt.Errorf("%s: %w", job.Op, ErrUnknownOp)
	}
	return nil
}

func (a *Aggregator) projectionFor(d *model.DeliveryEvent) *projection {
	k := inningsKey{matchID: d.MatchID, innings: d.Innings}
	p, ok := a.innings[k]
	if !ok {
		p = newProjection()
		a.innings[k] = p
	}
	return p
}

// Apply adds d. It reports false when d was already applied or retracted.
func (a *Aggregator) Apply(d *model.DeliveryEvent) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	p := a.projectionFor(d)
	if _, gone := p.retracted[d.ID]; gone {
		delete(p.retracted, d.ID)
		return false
	}
	if _, dup := p.applied[d.ID]; dup {
		return false
	}
	p.applied[d.ID] = d.Clone()
	return true
}

// Retract removes d. It reports false when d had not been applied yet.
func (a *Aggregator) Retract(d *model.DeliveryEvent) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	p := a.projectionFor(d)
	if _, ok := p.applied[d.ID]; ok {
		delete(p.applied, d.ID)
		return true
	}
	p.retracted[d.ID] = struct{}{}
	return false
}

// Replace discards the projection of an innings and loads deliveries in its
// place.
func (a *Aggregator) Replace(matchID string, innings int, deliveries []*model.DeliveryEvent) {
	p := newProjection()
	for _, d := range deliveries {
		p.applied[d.ID] = d.Clone()
	}
	a.mu.Lock()
	a.innings[inningsKey{matchID: matchID, innings: innings}] = p
	a.mu.Unlock()
}

// Report summarises one innings. An unknown innings yields an empty report.
func (a *Aggregator) Report(matchID string, innings int) Report {
	a.mu.RLock()
	var ds []*model.DeliveryEvent
	if p, ok := a.innings[inningsKey{matchID: matchID, innings: innings}]; ok {
		ds = make([]*model.DeliveryEvent, 0, len(p.applied))
		for _, d := range p.applied {
			ds = append(ds, d)
		}
	}
	a.mu.RUnlock()
	return Summarize(matchID, innings, ds, a.innerRadius)
}

// Len returns the number of applied deliveries across all innings.
func (a *Aggregator) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	n := 0
	for _, p := range a.innings {
		n += len(p.applied)
	}
	return n
}
