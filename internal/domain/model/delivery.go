// Package model contains domain models passed between layers.
package model

import (
	"cmp"
	"fmt"
	"time"

	"github.com/okian/cricscore/internal/domain/field"
	"github.com/okian/cricscore/internal/domain/pitch"
)

// BallsPerOver is the number of legal deliveries in an over.
const BallsPerOver = 6

// Key identifies a delivery within the ball-by-ball log.
type Key struct {
	MatchID string
	Innings int
	Over    int
	Ball    int
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%d/%d.%d", k.MatchID, k.Innings, k.Over, k.Ball)
}

// Compare orders keys by match, innings, over, then ball.
func (k Key) Compare(o Key) int {
	if c := cmp.Compare(k.MatchID, o.MatchID); c != 0 {
		return c
	}
	if c := cmp.Compare(k.Innings, o.Innings); c != 0 {
		return c
	}
	if c := cmp.Compare(k.Over, o.Over); c != 0 {
		return c
	}
	return cmp.Compare(k.Ball, o.Ball)
}

// DeliveryEvent is one ball bowled. It is a draft while the scorer fills it in
// and is never changed once committed.
type DeliveryEvent struct {
	ID               string        `json:"id"`
	MatchID          string        `json:"match_id"`
	Innings          int           `json:"innings"`
	Over             int           `json:"over"`
	Ball             int           `json:"ball"`
	Batter           string        `json:"batter"`
	Bowler           string        `json:"bowler"`
	RunsOff          int           `json:"runs_off"`
	Extras           Extras        `json:"extras"`
	ExtraRuns        int           `json:"extra_runs"`
	Wicket           bool          `json:"wicket"`
	WicketType       string        `json:"wicket_type,omitempty"`
	FieldersInvolved []string      `json:"fielders_involved,omitempty"`
	PitchMark        *pitch.Result `json:"pitch_mark,omitempty"`
	ShotDirection    *field.Result `json:"shot_direction,omitempty"`
	ShotType         string        `json:"shot_type,omitempty"`
	BallType         string        `json:"ball_type,omitempty"`
	VideoReference   string        `json:"video_reference,omitempty"`
	Commentary       string        `json:"commentary,omitempty"`
	Timestamp        time.Time     `json:"timestamp"`
}

// Key returns the unique log key of the delivery.
func (d *DeliveryEvent) Key() Key {
	return Key{MatchID: d.MatchID, Innings: d.Innings, Over: d.Over, Ball: d.Ball}
}

// ApplyPitchMark records where the ball pitched.
func (d *DeliveryEvent) ApplyPitchMark(r pitch.Result) { d.PitchMark = &r }

// ApplyShot records the shot direction.
func (d *DeliveryEvent) ApplyShot(r field.Result) { d.ShotDirection = &r }

// IsLegal reports whether the delivery counts towards the over.
func (d *DeliveryEvent) IsLegal() bool {
	return !d.Extras.Has(Wide) && !d.Extras.Has(NoBall)
}

// FacedByBatter reports whether the delivery counts as a ball faced.
func (d *DeliveryEvent) FacedByBatter() bool { return !d.Extras.Has(Wide) }

// TotalRuns is the team total added by the delivery.
func (d *DeliveryEvent) TotalRuns() int { return d.RunsOff + d.ExtraRuns }

// BowlerRuns is the part of TotalRuns charged to the bowler. Byes and leg
// byes are not.
func (d *DeliveryEvent) BowlerRuns() int {
	if d.Extras.Has(Bye) || d.Extras.Has(LegBye) {
		return d.RunsOff
	}
	return d.TotalRuns()
}

// Validate checks the rules a delivery must satisfy before commit.
func (d *DeliveryEvent) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: "+format, append([]any{ErrInvalidDelivery}, args...)...)
	}
	switch {
	case d.MatchID == "":
		return invalid("match id is required")
	case d.Innings < 1:
		return invalid("innings %d must be at least 1", d.Innings)
	case d.Over < 0:
		return invalid("over %d is negative", d.Over)
	case d.Ball < 1:
		return invalid("ball %d must be at least 1", d.Ball)
	case d.Batter == "":
		return invalid("batter is required")
	case d.Bowler == "":
		return invalid("bowler is required")
	case d.RunsOff < 0:
		return invalid("runs off bat %d is negative", d.RunsOff)
	case d.ExtraRuns < 0:
		return invalid("extra runs %d is negative", d.ExtraRuns)
	case d.WicketType != "" && !d.Wicket:
		return invalid("wicket type %q without a wicket", d.WicketType)
	case d.Extras.Has(Wide) && d.Extras.Has(NoBall):
		return invalid("a delivery cannot be both wide and no ball")
	case d.Extras.Has(Bye) && d.Extras.Has(LegBye):
		return invalid("a delivery cannot be both bye and leg bye")
	case d.Extras.Has(Wide) && (d.Extras.Has(Bye) || d.Extras.Has(LegBye)):
		return invalid("byes off a wide are recorded as wides")
	case d.PitchMark != nil && !(d.PitchMark.LengthZone.Valid() && d.PitchMark.LineColumn.Valid()):
		return invalid("pitch mark %v/%v is out of range", d.PitchMark.LengthZone, d.PitchMark.LineColumn)
	case d.ShotDirection != nil && !d.ShotDirection.Sector.Valid():
		return invalid("shot sector %v is out of range", d.ShotDirection.Sector)
	}
	return nil
}

// Clone returns a deep copy.
func (d *DeliveryEvent) Clone() *DeliveryEvent {
	if d == nil {
		return nil
	}
	c := *d
	if d.FieldersInvolved != nil {
		c.FieldersInvolved = append([]string(nil), d.FieldersInvolved...)
	}
	if d.PitchMark != nil {
		pm := *d.PitchMark
		c.PitchMark = &pm
	}
	if d.ShotDirection != nil {
		sd := *d.ShotDirection
		c.ShotDirection = &sd
	}
	return &c
}
