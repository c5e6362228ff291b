package service

import (
	"context"
	"io"

	"github.com/okian/cricscore/internal/adapters/render"
	"github.com/okian/cricscore/internal/domain/field"
	"github.com/okian/cricscore/internal/domain/pitch"
)

// SessionPitchSVG draws the session's pitch map with its current mark.
func (s *Service) SessionPitchSVG(_ context.Context, id string, w io.Writer) error {
	return s.withSession(id, func(sess *session) error {
		var marks []pitch.Result
		if r, ok := sess.pitch.Mark(); ok {
			marks = append(marks, r)
		}
		return render.PitchMap(w, s.pitch, sess.pitch.Viewport().Size(), marks...)
	})
}

// SessionFieldSVG draws the session's wagon wheel with its current shot.
func (s *Service) SessionFieldSVG(_ context.Context, id string, w io.Writer) error {
	return s.withSession(id, func(sess *session) error {
		var shots []field.Result
		if r, ok := sess.field.Mark(); ok {
			shots = append(shots, r)
		}
		return render.WagonWheel(w, s.field, sess.field.Viewport().Size(), shots...)
	})
}

// InningsPitchSVG draws the run-by-zone heatmap of an innings with a dot for
// every recorded pitch mark.
func (s *Service) InningsPitchSVG(ctx context.Context, matchID string, innings int, w io.Writer) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.running(); err != nil {
		return err
	}
	ds, err := s.store.List(ctx, matchID, innings, 0)
	if err != nil {
		return err
	}
	var marks []pitch.Result
	for _, d := range ds {
		if d.PitchMark != nil {
			marks = append(marks, *d.PitchMark)
		}
	}
	rep := s.aggregator.Report(matchID, innings)
	return render.PitchHeatmap(w, s.pitch, s.pitchSize, rep.Zones, marks...)
}

// InningsFieldSVG draws every recorded shot of an innings.
func (s *Service) InningsFieldSVG(ctx context.Context, matchID string, innings int, w io.Writer) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.running(); err != nil {
		return err
	}
	ds, err := s.store.List(ctx, matchID, innings, 0)
	if err != nil {
		return err
	}
	var shots []field.Result
	for _, d := range ds {
		if d.ShotDirection != nil {
			shots = append(shots, *d.ShotDirection)
		}
	}
	return render.WagonWheel(w, s.field, s.fieldSize, shots...)
}
