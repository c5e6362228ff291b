// Package analytics derives heatmaps, shot charts and the scorecard from the
// committed ball-by-ball log.
package analytics

import (
	"fmt"
	"slices"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/okian/cricscore/internal/domain/field"
	"github.com/okian/cricscore/internal/domain/model"
	"github.com/okian/cricscore/internal/domain/pitch"
)

// Cell accumulates deliveries that pitched in one zone and column.
type Cell struct {
	LineColumn pitch.LineColumn `json:"line_column"`
	Balls      int              `json:"balls"`
	Runs       int              `json:"runs"`
	Dots       int              `json:"dots"`
	Wickets    int              `json:"wickets"`
}

// ZoneRow is one length zone of the heatmap, columns in index order.
type ZoneRow struct {
	LengthZone pitch.LengthZone `json:"length_zone"`
	Cells      []Cell           `json:"cells"`
}

// SectorCell summarises shots into one field sector.
type SectorCell struct {
	Sector       field.Sector `json:"sector"`
	Shots        int          `json:"shots"`
	Runs         int          `json:"runs"`
	Fours        int          `json:"fours"`
	Sixes        int          `json:"sixes"`
	MeanRadius   float64      `json:"mean_radius"`
	StdDevRadius float64      `json:"stddev_radius"`
}

// RingCell splits shots by the fielding circle.
type RingCell struct {
	Ring  field.Ring `json:"ring"`
	Shots int        `json:"shots"`
	Runs  int        `json:"runs"`
}

// BatterLine is a row of the batting card.
type BatterLine struct {
	Name       string  `json:"name"`
	Runs       int     `json:"runs"`
	Balls      int     `json:"balls"`
	Fours      int     `json:"fours"`
	Sixes      int     `json:"sixes"`
	StrikeRate float64 `json:"strike_rate"`
	Out        bool    `json:"out"`
}

// BowlerLine is a row of the bowling card.
type BowlerLine struct {
	Name    string  `json:"name"`
	Overs   string  `json:"overs"`
	Maidens int     `json:"maidens"`
	Runs    int     `json:"runs"`
	Wickets int     `json:"wickets"`
	Economy float64 `json:"economy"`

	balls int
}

// Scorecard is the short innings summary.
type Scorecard struct {
	Runs       int          `json:"runs"`
	Wickets    int          `json:"wickets"`
	Overs      string       `json:"overs"`
	LegalBalls int          `json:"legal_balls"`
	Extras     int          `json:"extras"`
	RunRate    float64      `json:"run_rate"`
	Batters    []BatterLine `json:"batters"`
	Bowlers    []BowlerLine `json:"bowlers"`
}

// Report is the analytics view of one innings.
type Report struct {
	MatchID    string       `json:"match_id"`
	Innings    int          `json:"innings"`
	Deliveries int          `json:"deliveries"`
	Zones      []ZoneRow    `json:"zones"`
	Sectors    []SectorCell `json:"sectors"`
	Rings      []RingCell   `json:"rings"`
	Scorecard  Scorecard    `json:"scorecard"`
}

// FormatOvers renders legal balls as overs.balls.
func FormatOvers(legalBalls int) string {
	return fmt.Sprintf("%d.%d", legalBalls/model.BallsPerOver, legalBalls%model.BallsPerOver)
}

func perOver(runs, legalBalls int) float64 {
	if legalBalls == 0 {
		return 0
	}
	return float64(runs) * model.BallsPerOver / float64(legalBalls)
}

// creditsBowler reports whether a dismissal counts in the bowler's figures.
func creditsBowler(wicketType string) bool {
	return !strings.EqualFold(wicketType, "Run Out") && !strings.EqualFold(wicketType, "Retired Hurt")
}

// Summarize builds a report from deliveries of one innings. innerRadius splits
// shots into infield and outfield.
func Summarize(matchID string, innings int, deliveries []*model.DeliveryEvent, innerRadius float64) Report {
	ds := slices.Clone(deliveries)
	slices.SortFunc(ds, func(a, b *model.DeliveryEvent) int { return a.Key().Compare(b.Key()) })

	rep := Report{
		MatchID:    matchID,
		Innings:    innings,
		Deliveries: len(ds),
		Zones:      make([]ZoneRow, pitch.ZoneCount),
		Sectors:    make([]SectorCell, field.SectorCount),
		Rings:      []RingCell{{Ring: field.Infield}, {Ring: field.Outfield}},
	}
	for _, z := range pitch.Zones() {
		row := ZoneRow{LengthZone: z, Cells: make([]Cell, pitch.ColumnCount)}
		for _, c := range pitch.Columns() {
			row.Cells[c].LineColumn = c
		}
		rep.Zones[z] = row
	}
	radii := make([][]float64, field.SectorCount)
	for _, s := range field.Sectors() {
		rep.Sectors[s].Sector = s
	}

	card := &rep.Scorecard
	batters := map[string]*BatterLine{}
	bowlers := map[string]*BowlerLine{}
	var batterOrder, bowlerOrder []string
	type overKey struct {
		bowler string
		over   int
	}
	overs := map[overKey]*[2]int{} // legal balls, runs conceded

	for _, d := range ds {
		runs := d.TotalRuns()
		card.Runs += runs
		card.Extras += d.ExtraRuns
		if d.IsLegal() {
			card.LegalBalls++
		}
		if d.Wicket {
			card.Wickets++
		}

		if pm := d.PitchMark; pm != nil && pm.LengthZone.Valid() && pm.LineColumn.Valid() {
			cell := &rep.Zones[pm.LengthZone].Cells[pm.LineColumn]
			cell.Balls++
			cell.Runs += runs
			if runs == 0 && d.IsLegal() {
				cell.Dots++
			}
			if d.Wicket {
				cell.Wickets++
			}
		}

		if sd := d.ShotDirection; sd != nil && sd.Sector.Valid() {
			sc := &rep.Sectors[sd.Sector]
			sc.Shots++
			sc.Runs += d.RunsOff
			switch d.RunsOff {
			case 4:
				sc.Fours++
			case 6:
				sc.Sixes++
			}
			radii[sd.Sector] = append(radii[sd.Sector], sd.Radius)
			ring := field.Outfield
			if sd.Radius <= innerRadius {
				ring = field.Infield
			}
			rep.Rings[ring].Shots++
			rep.Rings[ring].Runs += d.RunsOff
		}

		b, seen := batters[d.Batter]
		if !seen {
			b = &BatterLine{Name: d.Batter}
			batters[d.Batter] = b
			batterOrder = append(batterOrder, d.Batter)
		}
		b.Runs += d.RunsOff
		if d.FacedByBatter() {
			b.Balls++
		}
		switch d.RunsOff {
		case 4:
			b.Fours++
		case 6:
			b.Sixes++
		}
		if d.Wicket {
			b.Out = true
		}

		w, seen := bowlers[d.Bowler]
		if !seen {
			w = &BowlerLine{Name: d.Bowler}
			bowlers[d.Bowler] = w
			bowlerOrder = append(bowlerOrder, d.Bowler)
		}
		w.Runs += d.BowlerRuns()
		if d.IsLegal() {
			w.balls++
		}
		if d.Wicket && creditsBowler(d.WicketType) {
			w.Wickets++
		}
		ovk := overKey{bowler: d.Bowler, over: d.Over}
		o := overs[ovk]
		if o == nil {
			o = &[2]int{}
			overs[ovk] = o
		}
		if d.IsLegal() {
			o[0]++
		}
		o[1] += d.BowlerRuns()
	}

	for k, o := range overs {
		if o[0] == model.BallsPerOver && o[1] == 0 {
			bowlers[k.bowler].Maidens++
		}
	}
	for s, rs := range radii {
		switch len(rs) {
		case 0:
		case 1:
			rep.Sectors[s].MeanRadius = rs[0]
		default:
			rep.Sectors[s].MeanRadius, rep.Sectors[s].StdDevRadius = stat.MeanStdDev(rs, nil)
		}
	}

	card.Overs = FormatOvers(card.LegalBalls)
	card.RunRate = perOver(card.Runs, card.LegalBalls)
	card.Batters = make([]BatterLine, 0, len(batterOrder))
	for _, name := range batterOrder {
		b := batters[name]
		if b.Balls > 0 {
			b.StrikeRate = float64(b.Runs) * 100 / float64(b.Balls)
		}
		card.Batters = append(card.Batters, *b)
	}
	card.Bowlers = make([]BowlerLine, 0, len(bowlerOrder))
	for _, name := range bowlerOrder {
		w := bowlers[name]
		w.Overs = FormatOvers(w.balls)
		w.Economy = perOver(w.Runs, w.balls)
		card.Bowlers = append(card.Bowlers, *w)
	}
	return rep
}
