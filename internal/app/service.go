// Package service runs scoring sessions on top of the classification engine
// and implements the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	eventqueue "github.com/okian/cricscore/internal/adapters/mq/queue"
	workerpool "github.com/okian/cricscore/internal/adapters/mq/worker"
	"github.com/okian/cricscore/internal/adapters/repository"
	"github.com/okian/cricscore/internal/domain/analytics"
	"github.com/okian/cricscore/internal/domain/dedupe"
	"github.com/okian/cricscore/internal/domain/field"
	"github.com/okian/cricscore/internal/domain/geometry"
	"github.com/okian/cricscore/internal/domain/interaction"
	"github.com/okian/cricscore/internal/domain/model"
	"github.com/okian/cricscore/internal/domain/pitch"
	"github.com/okian/cricscore/internal/domain/reference"
	"github.com/okian/cricscore/pkg/logger"
	"github.com/okian/cricscore/pkg/metrics"
)

const stopTimeout = 10 * time.Second

// Service owns the record store, the analytics pipeline and every open
// scoring session.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.DeliveryStore
	reference  reference.Provider
	deduper    dedupe.Deduper
	queue      *eventqueue.InMemoryQueue
	pool       *workerpool.Pool
	aggregator *analytics.Aggregator
	pitch      *pitch.Mapper
	field      *field.Mapper

	// Configuration
	workerCount int
	queueSize   int
	dedupeSize  int
	trapezoid   pitch.Trapezoid
	pitchSize   geometry.Size
	circle      field.Circle
	fieldSize   geometry.Size

	// State
	sessions  map[string]*session
	started   bool
	startedAt time.Time

	logger logger.Logger
}

// New constructs a Service. Components are built by Start.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU(),
		queueSize:   10_000,
		dedupeSize:  50_000,
		trapezoid:   pitch.DefaultTrapezoid(),
		pitchSize:   pitch.DefaultSize(),
		circle:      field.DefaultCircle(),
		fieldSize:   field.DefaultWidgetSize(),
		sessions:    make(map[string]*session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start validates the widget geometry and starts the analytics pipeline.
// Degenerate geometry keeps the service from starting.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	s.logger.Info(ctx, "starting scoring service...")

	pm, err := pitch.New(s.trapezoid)
	if err != nil {
		return fmt.Errorf("pitch geometry: %w", err)
	}
	fm, err := field.New(s.circle)
	if err != nil {
		return fmt.Errorf("field geometry: %w", err)
	}
	for _, size := range []geometry.Size{s.pitchSize, s.fieldSize} {
		if _, err := geometry.NewViewport(size); err != nil {
			return fmt.Errorf("widget size: %w", err)
		}
	}
	s.pitch, s.field = pm, fm

	if s.store == nil {
		s.store = repository.NewTreapStore(ctx)
		s.logger.Info(ctx, "using in-memory store")
	}
	if s.reference == nil {
		s.reference = reference.Default()
	}
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.aggregator = analytics.NewAggregator(analytics.WithInnerRadius(s.circle.InnerRadius))
	s.queue = eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))
	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.aggregator, workerpool.WithLogger(s.logger.Named("analytics")))
	s.pool.Start(context.WithoutCancel(ctx))

	s.started = true
	s.startedAt = time.Now().UTC()
	s.logger.Info(ctx, "scoring service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)
	return nil
}

// Stop drains the analytics queue and closes the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	s.logger.Info(ctx, "stopping scoring service...")

	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "analytics workers did not drain", logger.Error(err))
	}
	if err := s.store.Close(); err != nil {
		s.logger.Error(ctx, "error closing store", logger.Error(err))
	}
	s.sessions = make(map[string]*session)
	metrics.UpdateActiveSessions(0)

	s.started = false
	s.logger.Info(ctx, "scoring service stopped")
}

// running returns an error unless Start has succeeded. Callers hold s.mu.
func (s *Service) running() error {
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// ClassifyPitch maps a widget-local point on the pitch map without touching
// any session.
func (s *Service) ClassifyPitch(_ context.Context, p geometry.Point) (pitch.Result, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.running(); err != nil {
		return pitch.Result{}, false, err
	}
	r, ok := s.pitch.Classify(p)
	metrics.RecordClassification(metrics.MapperPitch, outcome(ok))
	return r, ok, nil
}

// ClassifyField maps a widget-local point on the wagon wheel without touching
// any session.
func (s *Service) ClassifyField(_ context.Context, p geometry.Point) (field.Result, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.running(); err != nil {
		return field.Result{}, false, err
	}
	r, ok := s.field.Classify(p)
	metrics.RecordClassification(metrics.MapperField, outcome(ok))
	return r, ok, nil
}

func outcome(ok bool) string {
	if ok {
		return metrics.OutcomeAccepted
	}
	return metrics.OutcomeRejected
}

// Reference lists one kind of reference data.
func (s *Service) Reference(_ context.Context, kind reference.Kind) ([]reference.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.running(); err != nil {
		return nil, err
	}
	return s.reference.List(kind)
}

// ListDeliveries returns up to limit committed deliveries of an innings.
func (s *Service) ListDeliveries(ctx context.Context, matchID string, innings, limit int) ([]*model.DeliveryEvent, error) {
	store, err := s.components()
	if err != nil {
		return nil, err
	}
	return store.List(ctx, matchID, innings, limit)
}

// Analytics returns the current projection of an innings.
func (s *Service) Analytics(_ context.Context, matchID string, innings int) (analytics.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.running(); err != nil {
		return analytics.Report{}, err
	}
	return s.aggregator.Report(matchID, innings), nil
}

// RebuildAnalytics waits for queued jobs and then reloads the projection of an
// innings from the store.
func (s *Service) RebuildAnalytics(ctx context.Context, matchID string, innings int) (analytics.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.running(); err != nil {
		return analytics.Report{}, err
	}
	if err := s.pool.WaitIdle(ctx); err != nil {
		return analytics.Report{}, err
	}
	ds, err := s.store.List(ctx, matchID, innings, 0)
	if err != nil {
		return analytics.Report{}, err
	}
	s.aggregator.Replace(matchID, innings, ds)
	metrics.UpdateAnalyticsDeliveries(s.aggregator.Len())
	s.logger.Info(ctx, "analytics rebuilt",
		logger.String("match", matchID),
		logger.Int("innings", innings),
		logger.Int("deliveries", len(ds)),
	)
	return s.aggregator.Report(matchID, innings), nil
}

// WaitIdle blocks until every queued analytics job has been applied.
func (s *Service) WaitIdle(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.running(); err != nil {
		return err
	}
	return s.pool.WaitIdle(ctx)
}

func (s *Service) components() (repository.DeliveryStore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.running(); err != nil {
		return nil, err
	}
	return s.store, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}
	if !s.started {
		return stats
	}

	stats["uptimeSeconds"] = time.Since(s.startedAt).Seconds()
	stats["activeSessions"] = len(s.sessions)
	stats["queueLength"] = s.queue.Len()
	stats["pendingJobs"] = s.queue.Pending()
	stats["analyticsDeliveries"] = s.aggregator.Len()
	stats["dedupeEntries"] = s.deduper.Size()
	if n, err := s.store.Count(ctx); err == nil {
		stats["storedDeliveries"] = n
		metrics.UpdateStoreRecords(n)
	} else {
		s.logger.Warn(ctx, "store count failed", logger.Error(err))
	}
	metrics.UpdateActiveSessions(len(s.sessions))
	metrics.UpdateAnalyticsDeliveries(s.aggregator.Len())
	return stats
}

// enqueue hands a job to the analytics pipeline. A full queue is logged and
// counted; the projection can be rebuilt from the store.
func (s *Service) enqueue(ctx context.Context, job analytics.Job) {
	if err := s.queue.Enqueue(ctx, job); err != nil {
		metrics.RecordErrorByComponent("service", "analytics_enqueue")
		s.logger.Warn(ctx, "analytics job dropped",
			logger.String("op", job.Op.String()),
			logger.String("delivery", job.Delivery.ID),
			logger.Error(err),
		)
	}
}

func (s *Service) newControllers() (*interaction.Controller[pitch.Result], *interaction.Controller[field.Result], error) {
	pc, err := interaction.New[pitch.Result](s.pitch, s.pitchSize)
	if err != nil {
		return nil, nil, err
	}
	fc, err := interaction.New[field.Result](s.field, s.fieldSize)
	if err != nil {
		return nil, nil, err
	}
	return pc, fc, nil
}

// isNotFound reports whether err means the record store has no such entry.
func isNotFound(err error) bool { return errors.Is(err, repository.ErrNotFound) }
