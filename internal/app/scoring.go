package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/okian/cricscore/internal/domain/analytics"
	"github.com/okian/cricscore/internal/domain/field"
	"github.com/okian/cricscore/internal/domain/geometry"
	"github.com/okian/cricscore/internal/domain/model"
	"github.com/okian/cricscore/internal/domain/pitch"
	"github.com/okian/cricscore/internal/domain/reference"
	"github.com/okian/cricscore/pkg/logger"
	"github.com/okian/cricscore/pkg/metrics"
)

// StartSession opens a scoring session for an innings. The session resumes
// after any deliveries already logged for it.
func (s *Service) StartSession(ctx context.Context, req StartRequest) (SessionView, error) {
	req.MatchID = strings.TrimSpace(req.MatchID)
	switch {
	case req.MatchID == "":
		return SessionView{}, fmt.Errorf("%w: match id is required", ErrInvalidSession)
	case req.Innings < 1:
		return SessionView{}, fmt.Errorf("%w: innings %d must be at least 1", ErrInvalidSession, req.Innings)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.running(); err != nil {
		return SessionView{}, err
	}

	logged, err := s.store.List(ctx, req.MatchID, req.Innings, 0)
	if err != nil {
		return SessionView{}, fmt.Errorf("load innings log: %w", err)
	}
	pc, fc, err := s.newControllers()
	if err != nil {
		return SessionView{}, err
	}
	sess := newSession(req, logged, pc, fc)
	s.sessions[sess.id] = sess
	metrics.UpdateActiveSessions(len(s.sessions))

	s.logger.Info(ctx, "session started",
		logger.String("session", sess.id),
		logger.String("match", req.MatchID),
		logger.Int("innings", req.Innings),
		logger.Int("resumedAfter", len(logged)),
	)
	return sess.view(), nil
}

// CloseSession forgets a session. Committed deliveries stay in the store.
func (s *Service) CloseSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return fmt.Errorf("%s: %w", id, ErrSessionNotFound)
	}
	delete(s.sessions, id)
	metrics.UpdateActiveSessions(len(s.sessions))
	s.logger.Info(ctx, "session closed", logger.String("session", id))
	return nil
}

// GetSession returns a snapshot of a session.
func (s *Service) GetSession(_ context.Context, id string) (SessionView, error) {
	var v SessionView
	err := s.withSession(id, func(sess *session) error {
		v = sess.view()
		return nil
	})
	return v, err
}

// withSession runs fn holding the session lock. The service read lock is held
// too so Stop cannot close the store underneath.
func (s *Service) withSession(id string, fn func(*session) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.running(); err != nil {
		return err
	}
	sess, ok := s.sessions[id]
	if !ok {
		return fmt.Errorf("%s: %w", id, ErrSessionNotFound)
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return fn(sess)
}

// ClickPitch sends a pointer event to the session's pitch map. accepted is
// false when the click missed the pitch; the draft is then unchanged.
func (s *Service) ClickPitch(ctx context.Context, id string, ev geometry.PointerEvent) (r pitch.Result, accepted bool, err error) {
	err = s.withSession(id, func(sess *session) error {
		r, accepted, err = sess.pitch.Click(ev)
		return err
	})
	s.recordClick(ctx, metrics.MapperPitch, id, accepted, err)
	return r, accepted, err
}

// ClickField sends a pointer event to the session's wagon wheel.
func (s *Service) ClickField(ctx context.Context, id string, ev geometry.PointerEvent) (r field.Result, accepted bool, err error) {
	err = s.withSession(id, func(sess *session) error {
		r, accepted, err = sess.field.Click(ev)
		return err
	})
	s.recordClick(ctx, metrics.MapperField, id, accepted, err)
	return r, accepted, err
}

func (s *Service) recordClick(ctx context.Context, mapper, id string, accepted bool, err error) {
	switch {
	case err != nil:
		metrics.RecordClassification(mapper, metrics.OutcomeError)
		s.log().Debug(ctx, "click failed", logger.String("session", id), logger.String("mapper", mapper), logger.Error(err))
	default:
		metrics.RecordClassification(mapper, outcome(accepted))
	}
}

// UpdateDraft applies a patch to the session draft.
func (s *Service) UpdateDraft(_ context.Context, id string, patch DraftPatch) (SessionView, error) {
	var v SessionView
	err := s.withSession(id, func(sess *session) error {
		patch.apply(sess.draft)
		v = sess.view()
		return nil
	})
	return v, err
}

// StartBall discards the draft and starts a fresh one at the same position.
// Both widgets return to Idle.
func (s *Service) StartBall(_ context.Context, id string) (SessionView, error) {
	var v SessionView
	err := s.withSession(id, func(sess *session) error {
		sess.nextBall()
		v = sess.view()
		return nil
	})
	return v, err
}

// EndOver moves the session to ball 1 of the next over.
func (s *Service) EndOver(ctx context.Context, id string) (SessionView, error) {
	var v SessionView
	err := s.withSession(id, func(sess *session) error {
		sess.endOver()
		sess.nextBall()
		v = sess.view()
		return nil
	})
	if err == nil {
		s.log().Info(ctx, "over ended", logger.String("session", id), logger.Int("over", v.Over))
	}
	return v, err
}

// Commit validates the draft, stores it and queues it for analytics, then
// advances the session to the next ball. draftID, when set, must name the
// current draft; resending an already committed draft returns
// ErrAlreadyCommitted.
func (s *Service) Commit(ctx context.Context, id, draftID string) (*model.DeliveryEvent, error) {
	var committed *model.DeliveryEvent
	err := s.withSession(id, func(sess *session) error {
		d := sess.draft
		if draftID != "" && draftID != d.ID {
			if s.deduper.SeenAndRecord(ctx, draftID) {
				metrics.RecordDuplicateCommit()
				return fmt.Errorf("%s: %w", draftID, ErrAlreadyCommitted)
			}
			s.deduper.Unrecord(ctx, draftID)
			return fmt.Errorf("%s: %w", draftID, ErrStaleDraft)
		}
		if err := d.Validate(); err != nil {
			return err
		}
		if err := s.checkReferences(d); err != nil {
			return err
		}
		if s.deduper.SeenAndRecord(ctx, d.ID) {
			metrics.RecordDuplicateCommit()
			return fmt.Errorf("%s: %w", d.ID, ErrAlreadyCommitted)
		}

		d.Timestamp = time.Now().UTC()
		if err := s.store.Create(ctx, d); err != nil {
			s.deduper.Unrecord(ctx, d.ID)
			d.Timestamp = time.Time{}
			return err
		}
		committed = d.Clone()
		s.enqueue(ctx, analytics.Job{Op: analytics.OpApply, Delivery: committed.Clone()})

		sess.committed++
		sess.advance(d)
		sess.nextBall()
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordDeliveryCommitted()
	s.log().Info(ctx, "delivery committed",
		logger.String("session", id),
		logger.String("key", committed.Key().String()),
		logger.Int("runs", committed.TotalRuns()),
		logger.Bool("wicket", committed.Wicket),
	)
	return committed, nil
}

// Undo deletes the latest delivery of the session's innings and puts it back
// in the draft for re-recording.
func (s *Service) Undo(ctx context.Context, id string) (*model.DeliveryEvent, error) {
	var undone *model.DeliveryEvent
	err := s.withSession(id, func(sess *session) error {
		last, err := s.store.Last(ctx, sess.matchID, sess.innings)
		if isNotFound(err) {
			return fmt.Errorf("%s/%d: %w", sess.matchID, sess.innings, ErrNothingToUndo)
		}
		if err != nil {
			return err
		}
		if err := s.store.Delete(ctx, last.Key()); err != nil {
			return err
		}
		s.deduper.Unrecord(ctx, last.ID)
		s.enqueue(ctx, analytics.Job{Op: analytics.OpRetract, Delivery: last.Clone()})

		remaining, err := s.store.List(ctx, sess.matchID, sess.innings, 0)
		if err != nil {
			return err
		}
		sess.rewind(last, remaining)
		undone = last
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordDeliveryUndone()
	s.log().Info(ctx, "delivery undone", logger.String("session", id), logger.String("key", undone.Key().String()))
	return undone, nil
}

type refCheck struct {
	kind reference.Kind
	name string
}

// checkReferences rejects names the reference data does not know. A kind with
// no entries accepts anything.
func (s *Service) checkReferences(d *model.DeliveryEvent) error {
	checks := []refCheck{
		{reference.Players, d.Batter},
		{reference.Players, d.Bowler},
		{reference.WicketTypes, d.WicketType},
		{reference.ShotTypes, d.ShotType},
		{reference.BallTypes, d.BallType},
	}
	for _, f := range d.FieldersInvolved {
		checks = append(checks, refCheck{reference.Players, f})
	}
	for _, c := range checks {
		if c.name == "" || s.reference.Has(c.kind, c.name) {
			continue
		}
		if entries, err := s.reference.List(c.kind); err == nil && len(entries) == 0 {
			continue
		}
		return fmt.Errorf("%w: %s %q", ErrUnknownReference, c.kind, c.name)
	}
	return nil
}

func (s *Service) log() logger.Logger {
	if s.logger == nil {
		return logger.Get()
	}
	return s.logger
}
