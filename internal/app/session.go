package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/cricscore/internal/domain/field"
	"github.com/okian/cricscore/internal/domain/interaction"
	"github.com/okian/cricscore/internal/domain/model"
	"github.com/okian/cricscore/internal/domain/pitch"
)

// StartRequest opens a scoring session for one innings.
type StartRequest struct {
	MatchID string `json:"match_id"`
	Innings int    `json:"innings"`
	Batter  string `json:"batter"`
	Bowler  string `json:"bowler"`
}

// DraftPatch changes the fields of the draft that are set. Pitch and shot
// marks only come from clicks.
type DraftPatch struct {
	Batter           *string       `json:"batter,omitempty"`
	Bowler           *string       `json:"bowler,omitempty"`
	RunsOff          *int          `json:"runs_off,omitempty"`
	Extras           *model.Extras `json:"extras,omitempty"`
	ExtraRuns        *int          `json:"extra_runs,omitempty"`
	Wicket           *bool         `json:"wicket,omitempty"`
	WicketType       *string       `json:"wicket_type,omitempty"`
	FieldersInvolved *[]string     `json:"fielders_involved,omitempty"`
	ShotType         *string       `json:"shot_type,omitempty"`
	BallType         *string       `json:"ball_type,omitempty"`
	VideoReference   *string       `json:"video_reference,omitempty"`
	Commentary       *string       `json:"commentary,omitempty"`
}

func (p *DraftPatch) apply(d *model.DeliveryEvent) {
	setString := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	setInt := func(dst *int, v *int) {
		if v != nil {
			*dst = *v
		}
	}
	setString(&d.Batter, p.Batter)
	setString(&d.Bowler, p.Bowler)
	setInt(&d.RunsOff, p.RunsOff)
	setInt(&d.ExtraRuns, p.ExtraRuns)
	setString(&d.WicketType, p.WicketType)
	setString(&d.ShotType, p.ShotType)
	setString(&d.BallType, p.BallType)
	setString(&d.VideoReference, p.VideoReference)
	setString(&d.Commentary, p.Commentary)
	if p.Extras != nil {
		d.Extras = *p.Extras
	}
	if p.Wicket != nil {
		d.Wicket = *p.Wicket
		if !d.Wicket && p.WicketType == nil {
			d.WicketType = ""
		}
	}
	if p.FieldersInvolved != nil {
		d.FieldersInvolved = append([]string(nil), (*p.FieldersInvolved)...)
	}
}

// SessionView is a snapshot of a session.
type SessionView struct {
	ID         string               `json:"id"`
	MatchID    string               `json:"match_id"`
	Innings    int                  `json:"innings"`
	Over       int                  `json:"over"`
	Ball       int                  `json:"ball"`
	LegalBalls int                  `json:"legal_balls_in_over"`
	ResetToken uint64               `json:"reset_token"`
	PitchState interaction.State    `json:"pitch_state"`
	FieldState interaction.State    `json:"field_state"`
	PitchMark  *pitch.Result        `json:"pitch_mark,omitempty"`
	Shot       *field.Result        `json:"shot,omitempty"`
	Draft      *model.DeliveryEvent `json:"draft"`
	Committed  int                  `json:"committed"`
	StartedAt  time.Time            `json:"started_at"`
}

// session is one scorer working on one innings. mu serializes every
// operation on the controllers and the draft.
type session struct {
	mu sync.Mutex

	id        string
	matchID   string
	innings   int
	startedAt time.Time

	over       int
	ball       int
	legalBalls int
	committed  int

	token uint64
	draft *model.DeliveryEvent

	pitch *interaction.Controller[pitch.Result]
	field *interaction.Controller[field.Result]
}

// newSession opens a session positioned after the deliveries already logged
// for the innings.
func newSession(req StartRequest, logged []*model.DeliveryEvent, p *interaction.Controller[pitch.Result], f *interaction.Controller[field.Result]) *session {
	s := &session{
		id:        uuid.NewString(),
		matchID:   req.MatchID,
		innings:   req.Innings,
		startedAt: time.Now().UTC(),
		pitch:     p,
		field:     f,
	}
	s.resume(logged)
	s.draft = s.blankDraft(req.Batter, req.Bowler)
	p.OnClassified(func(r pitch.Result) { s.draft.ApplyPitchMark(r) })
	f.OnClassified(func(r field.Result) { s.draft.ApplyShot(r) })
	s.reset()
	return s
}

func (s *session) blankDraft(batter, bowler string) *model.DeliveryEvent {
	return &model.DeliveryEvent{
		ID:      uuid.NewString(),
		MatchID: s.matchID,
		Innings: s.innings,
		Over:    s.over,
		Ball:    s.ball,
		Batter:  batter,
		Bowler:  bowler,
	}
}

// reset bumps the token and lets both widgets observe it.
func (s *session) reset() {
	s.token++
	s.pitch.ObserveReset(s.token)
	s.field.ObserveReset(s.token)
}

// nextBall starts a fresh draft at the current position, keeping the players.
// Both widgets return to Idle.
func (s *session) nextBall() {
	s.draft = s.blankDraft(s.draft.Batter, s.draft.Bowler)
	s.reset()
}

// advance moves past a committed delivery. Only legal deliveries count
// towards the over.
func (s *session) advance(d *model.DeliveryEvent) {
	s.over, s.ball = d.Over, d.Ball+1
	if d.IsLegal() {
		s.legalBalls++
		if s.legalBalls >= model.BallsPerOver {
			s.endOver()
			return
		}
	}
}

func (s *session) endOver() {
	s.over++
	s.ball = 1
	s.legalBalls = 0
}

// resume positions the session after logged, which is in over/ball order.
func (s *session) resume(logged []*model.DeliveryEvent) {
	s.over, s.ball, s.legalBalls = 0, 1, 0
	if len(logged) == 0 {
		return
	}
	last := logged[len(logged)-1]
	for _, d := range logged {
		if d.Over == last.Over && d.IsLegal() {
			s.legalBalls++
		}
	}
	s.over, s.ball = last.Over, last.Ball+1
	if s.legalBalls >= model.BallsPerOver {
		s.endOver()
	}
	s.committed = len(logged)
}

// rewind puts the session back on an undone delivery so it can be recorded
// again. remaining is the innings log without it. The marks are restored by
// clicking the recorded points again.
func (s *session) rewind(undone *model.DeliveryEvent, remaining []*model.DeliveryEvent) {
	s.over, s.ball, s.legalBalls = undone.Over, undone.Ball, 0
	for _, d := range remaining {
		if d.Over == undone.Over && d.IsLegal() {
			s.legalBalls++
		}
	}
	restored := undone.Clone()
	restored.ID = uuid.NewString()
	restored.Timestamp = time.Time{}
	restored.PitchMark, restored.ShotDirection = nil, nil
	s.draft = restored
	s.committed = len(remaining)
	s.reset()
	if m := undone.PitchMark; m != nil {
		_, _, _ = s.pitch.ClickLocal(m.Point())
	}
	if m := undone.ShotDirection; m != nil {
		_, _, _ = s.field.ClickLocal(m.Point())
	}
}

func (s *session) view() SessionView {
	v := SessionView{
		ID:         s.id,
		MatchID:    s.matchID,
		Innings:    s.innings,
		Over:       s.over,
		Ball:       s.ball,
		LegalBalls: s.legalBalls,
		ResetToken: s.token,
		PitchState: s.pitch.State(),
		FieldState: s.field.State(),
		Draft:      s.draft.Clone(),
		Committed:  s.committed,
		StartedAt:  s.startedAt,
	}
	if r, ok := s.pitch.Mark(); ok {
		v.PitchMark = &r
	}
	if r, ok := s.field.Mark(); ok {
		v.Shot = &r
	}
	return v
}
