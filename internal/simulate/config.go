// Package simulate drives a running cricscore server with synthetic innings
// and checks that every click, commit and scorecard comes back as planned.
package simulate

import (
	"time"

	service "github.com/okian/cricscore/internal/app"
	"github.com/okian/cricscore/internal/domain/field"
	"github.com/okian/cricscore/internal/domain/geometry"
	"github.com/okian/cricscore/internal/domain/pitch"
)

// Config holds configuration for a simulation run.
type Config struct {
	BaseURL    string        // Base URL of the service
	Matches    int           // Number of innings to play
	Overs      int           // Overs per innings
	Workers    int           // Innings played concurrently
	Seed       uint64        // Seed for the ball generator
	Timeout    time.Duration // HTTP request timeout
	OutputFile string        // Where to save the generated plans, empty to skip
	Verbose    bool          // Log every ball
}

// Roster is the reference data a simulated innings picks names from.
type Roster struct {
	Players     []string `json:"players"`
	ShotTypes   []string `json:"shot_types"`
	BallTypes   []string `json:"ball_types"`
	WicketTypes []string `json:"wicket_types"`
}

// Ball is one planned delivery: the clicks to send, what they must classify
// as, and the draft fields to set before committing.
type Ball struct {
	Seq       int                    `json:"seq"`
	Miss      *geometry.PointerEvent `json:"miss,omitempty"`
	Pitch     geometry.PointerEvent  `json:"pitch"`
	WantPitch pitch.Result           `json:"want_pitch"`
	Field     *geometry.PointerEvent `json:"field,omitempty"`
	WantField *field.Result          `json:"want_field,omitempty"`
	Patch     service.DraftPatch     `json:"patch"`
}

// Tally is the scorecard summary an innings should end with.
type Tally struct {
	Deliveries int `json:"deliveries"`
	Runs       int `json:"runs"`
	Wickets    int `json:"wickets"`
	LegalBalls int `json:"legal_balls"`
}

// Plan is a full innings to play.
type Plan struct {
	MatchID string `json:"match_id"`
	Innings int    `json:"innings"`
	Balls   []Ball `json:"balls"`
	Want    Tally  `json:"want"`
}

// Result is what playing one plan produced.
type Result struct {
	MatchID         string
	Innings         int
	Balls           int
	MissesAccepted  int // off-pitch clicks the server classified anyway
	PitchMismatches int
	FieldMismatches int
	CommitFailures  int
	Stored          int
	Want            Tally
	Got             Tally
	Err             error
}

// Problems counts everything that did not go as planned.
func (r Result) Problems() int {
	n := r.MissesAccepted + r.PitchMismatches + r.FieldMismatches + r.CommitFailures
	if r.Err != nil {
		n++
	}
	if r.Stored != r.Want.Deliveries {
		n++
	}
	if r.Got != r.Want {
		n++
	}
	return n
}

// Stats holds run statistics.
type Stats struct {
	Innings   int
	Balls     int
	Requests  int
	Problems  int
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// Report is the outcome of a simulation run.
type Report struct {
	Results []Result
	Stats   Stats
}
