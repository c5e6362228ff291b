package simulate

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/okian/cricscore/internal/domain/field"
	"github.com/okian/cricscore/internal/domain/geometry"
	"github.com/okian/cricscore/internal/domain/model"
	"github.com/okian/cricscore/internal/domain/pitch"
)

// ErrThinRoster is returned when the roster cannot field a batter and a bowler.
var ErrThinRoster = errors.New("roster needs at least two players")

// runWeights is the chance of each off-the-bat score for a fair delivery.
var runWeights = []struct {
	runs   int
	weight int
}{{0, 40}, {1, 30}, {2, 10}, {3, 3}, {4, 11}, {6, 6}}

// Generator plans innings against the default pitch and field layout.
// Clicks land well inside a cell or sector so that rescaling the rendered box
// never moves them across a boundary.
type Generator struct {
	rng       *rand.Rand
	pitch     *pitch.Mapper
	field     *field.Mapper
	pitchSize geometry.Size
	fieldSize geometry.Size
}

// NewGenerator returns a generator seeded with seed.
func NewGenerator(seed uint64) (*Generator, error) {
	pm, err := pitch.New(pitch.DefaultTrapezoid())
	if err != nil {
		return nil, err
	}
	fm, err := field.New(field.DefaultCircle())
	if err != nil {
		return nil, err
	}
	return &Generator{
		rng:       rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		pitch:     pm,
		field:     fm,
		pitchSize: pitch.DefaultSize(),
		fieldSize: field.DefaultWidgetSize(),
	}, nil
}

// Innings plans overs complete overs for matchID. Batters come from the first
// half of the players and bowlers from the second.
func (g *Generator) Innings(matchID string, overs int, roster Roster) (Plan, error) {
	if len(roster.Players) < 2 {
		return Plan{}, ErrThinRoster
	}
	half := len(roster.Players) / 2
	batters, bowlers := roster.Players[:half], roster.Players[half:]

	plan := Plan{MatchID: matchID, Innings: 1}
	for seq := 0; plan.Want.LegalBalls < overs*model.BallsPerOver; seq++ {
		batter := batters[plan.Want.Wickets%len(batters)]
		bowler := bowlers[(plan.Want.LegalBalls/model.BallsPerOver)%len(bowlers)]
		b, err := g.ball(seq, batter, bowler, roster)
		if err != nil {
			return Plan{}, err
		}
		plan.Balls = append(plan.Balls, b)

		plan.Want.Deliveries++
		plan.Want.Runs += *b.Patch.RunsOff + *b.Patch.ExtraRuns
		if *b.Patch.Wicket {
			plan.Want.Wickets++
		}
		if x := *b.Patch.Extras; !x.Has(model.Wide) && !x.Has(model.NoBall) {
			plan.Want.LegalBalls++
		}
	}
	return plan, nil
}

func (g *Generator) ball(seq int, batter, bowler string, roster Roster) (Ball, error) {
	b := Ball{Seq: seq}
	if g.rng.IntN(10) == 0 {
		// below the near edge of the pitch
		miss := g.pointer(geometry.Pt(g.pitchSize.Width/2, g.pitchSize.Height-5), g.pitchSize)
		b.Miss = &miss
	}

	p, want, err := g.pitchPoint()
	if err != nil {
		return Ball{}, err
	}
	b.Pitch, b.WantPitch = g.pointer(p, g.pitchSize), want

	runsOff, extras, extraRuns, wicket := g.outcome()
	patch := &b.Patch
	patch.Batter, patch.Bowler = ptr(batter), ptr(bowler)
	patch.RunsOff, patch.Extras, patch.ExtraRuns, patch.Wicket = ptr(runsOff), ptr(extras), ptr(extraRuns), ptr(wicket)
	patch.Commentary = ptr(fmt.Sprintf("simulated ball %d", seq+1))
	if wicket && len(roster.WicketTypes) > 0 {
		patch.WicketType = ptr(pick(g.rng, roster.WicketTypes))
	}
	if len(roster.BallTypes) > 0 {
		patch.BallType = ptr(pick(g.rng, roster.BallTypes))
	}

	if !extras.Has(model.Wide) && (runsOff > 0 || g.rng.IntN(2) == 0) {
		fp, wantField, err := g.fieldPoint()
		if err != nil {
			return Ball{}, err
		}
		ev := g.pointer(fp, g.fieldSize)
		b.Field, b.WantField = &ev, &wantField
		if len(roster.ShotTypes) > 0 {
			patch.ShotType = ptr(pick(g.rng, roster.ShotTypes))
		}
	}
	return b, nil
}

// outcome draws the runs, extras and wicket of one delivery.
func (g *Generator) outcome() (runsOff int, extras model.Extras, extraRuns int, wicket bool) {
	switch roll := g.rng.IntN(100); {
	case roll < 4:
		return 0, model.NewExtras(model.Wide), 1, false
	case roll < 6:
		return g.runs(), model.NewExtras(model.NoBall), 1, false
	case roll < 8:
		return 0, model.NewExtras(model.LegBye), 1 + g.rng.IntN(2), false
	}
	runsOff = g.runs()
	return runsOff, 0, 0, runsOff == 0 && g.rng.IntN(12) == 0
}

func (g *Generator) runs() int {
	total := 0
	for _, w := range runWeights {
		total += w.weight
	}
	n := g.rng.IntN(total)
	for _, w := range runWeights {
		if n < w.weight {
			return w.runs
		}
		n -= w.weight
	}
	return 0
}

// pitchPoint picks a random cell and a point in its middle 80%.
func (g *Generator) pitchPoint() (geometry.Point, pitch.Result, error) {
	row := (float64(g.rng.IntN(pitch.ZoneCount)) + 0.1 + 0.8*g.rng.Float64()) / pitch.ZoneCount
	col := (float64(g.rng.IntN(pitch.ColumnCount)) + 0.1 + 0.8*g.rng.Float64()) / pitch.ColumnCount
	t := g.pitch.Trapezoid()
	p := geometry.Lerp(geometry.Lerp(t.FarLeft, t.FarRight, col), geometry.Lerp(t.NearLeft, t.NearRight, col), row)
	want, ok := g.pitch.Classify(p)
	if !ok {
		return geometry.Point{}, pitch.Result{}, fmt.Errorf("planned pitch point (%.1f,%.1f) is off the pitch", p.X, p.Y)
	}
	return p, want, nil
}

// fieldPoint picks a random sector and a point away from its edges and the
// boundary rope.
func (g *Generator) fieldPoint() (geometry.Point, field.Result, error) {
	c := g.field.Circle()
	angle := (float64(g.rng.IntN(field.SectorCount)) + 0.8*(g.rng.Float64()-0.5)) * field.SectorWidth
	if angle < 0 {
		angle += geometry.FullTurn
	}
	p := geometry.FromPolar(c.Center, c.Radius*(0.1+0.85*g.rng.Float64()), angle)
	want, ok := g.field.Classify(p)
	if !ok {
		return geometry.Point{}, field.Result{}, fmt.Errorf("planned shot (%.1f,%.1f) is outside the field", p.X, p.Y)
	}
	return p, want, nil
}

// pointer renders p as a click on a widget drawn at a random scale and offset.
func (g *Generator) pointer(p geometry.Point, size geometry.Size) geometry.PointerEvent {
	scale := 0.5 + g.rng.Float64()
	box := geometry.Box{
		Left:   float64(g.rng.IntN(200)),
		Top:    float64(g.rng.IntN(200)),
		Width:  size.Width * scale,
		Height: size.Height * scale,
	}
	return geometry.PointerEvent{
		ClientX: box.Left + p.X*scale,
		ClientY: box.Top + p.Y*scale,
		Box:     box,
	}
}

func pick(rng *rand.Rand, xs []string) string { return xs[rng.IntN(len(xs))] }

func ptr[T any](v T) *T { return &v }
