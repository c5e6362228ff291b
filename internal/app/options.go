package service

import (
	"github.com/okian/cricscore/internal/adapters/repository"
	"github.com/okian/cricscore/internal/domain/field"
	"github.com/okian/cricscore/internal/domain/geometry"
	"github.com/okian/cricscore/internal/domain/pitch"
	"github.com/okian/cricscore/internal/domain/reference"
	"github.com/okian/cricscore/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of analytics workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the analytics queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the commit guard.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore sets the record store. The service closes it on Stop.
// Without one an in-memory store is opened on Start.
func WithStore(store repository.DeliveryStore) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithReference sets the reference data provider.
func WithReference(p reference.Provider) Option {
	return func(s *Service) {
		if p != nil {
			s.reference = p
		}
	}
}

// WithPitch sets the pitch drawing and its widget size.
func WithPitch(t pitch.Trapezoid, size geometry.Size) Option {
	return func(s *Service) {
		s.trapezoid = t
		s.pitchSize = size
	}
}

// WithField sets the wagon wheel circle and its widget size.
func WithField(c field.Circle, size geometry.Size) Option {
	return func(s *Service) {
		s.circle = c
		s.fieldSize = size
	}
}
