package analytics_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/okian/cricscore/internal/domain/analytics"
	"github.com/okian/cricscore/internal/domain/field"
	"github.com/okian/cricscore/internal/domain/model"
	"github.com/okian/cricscore/internal/domain/pitch"
	. "github.com/smartystreets/goconvey/convey"
)

func ball(over, n int, runs int) *model.DeliveryEvent {
	return &model.DeliveryEvent{
		ID:      fmt.Sprintf("d-%d-%d", over, n),
		MatchID: "m1",
		Innings: 1,
		Over:    over,
		Ball:    n,
		Batter:  "Opener",
		Bowler:  "Quick",
		RunsOff: runs,
	}
}

// anOver is a maiden by Quick followed by a busy over from Spinner.
func anOver() []*model.DeliveryEvent {
	var ds []*model.DeliveryEvent
	for n := 1; n <= 6; n++ {
		ds = append(ds, ball(0, n, 0))
	}

	four := ball(1, 1, 4)
	four.Bowler = "Spinner"
	four.ApplyPitchMark(pitch.Result{LengthZone: pitch.Short, LineColumn: pitch.OutsideOff})
	four.ApplyShot(field.Result{Sector: field.Point, Radius: 150})

	wide := ball(1, 2, 0)
	wide.Bowler = "Spinner"
	wide.Extras = model.NewExtras(model.Wide)
	wide.ExtraRuns = 1

	six := ball(1, 3, 6)
	six.Bowler = "Spinner"
	six.ApplyShot(field.Result{Sector: field.LongOn, Radius: 140})

	single := ball(1, 4, 1)
	single.Bowler = "Spinner"
	single.ApplyShot(field.Result{Sector: field.Point, Radius: 50})

	legBye := ball(1, 5, 0)
	legBye.Bowler = "Spinner"
	legBye.Extras = model.NewExtras(model.LegBye)
	legBye.ExtraRuns = 1

	out := ball(1, 6, 0)
	out.Bowler = "Spinner"
	out.Batter = "Number Three"
	out.Wicket = true
	out.WicketType = "Bowled"
	out.ApplyPitchMark(pitch.Result{LengthZone: pitch.Good, LineColumn: pitch.Middle})

	return append(ds, four, wide, six, single, legBye, out)
}

func TestSummarize(t *testing.T) {
	Convey("Given two overs of deliveries", t, func() {
		rep := analytics.Summarize("m1", 1, anOver(), field.DefaultInnerRadius)

		Convey("Then the scorecard totals add up", func() {
			card := rep.Scorecard
			So(rep.Deliveries, ShouldEqual, 12)
			So(card.Runs, ShouldEqual, 13)
			So(card.Extras, ShouldEqual, 2)
			So(card.Wickets, ShouldEqual, 1)
			So(card.LegalBalls, ShouldEqual, 11)
			So(card.Overs, ShouldEqual, "1.5")
			So(card.RunRate, ShouldAlmostEqual, 13*6/11.0)
		})

		Convey("Then batters appear in order of arrival", func() {
			b := rep.Scorecard.Batters
			So(b, ShouldHaveLength, 2)
			So(b[0].Name, ShouldEqual, "Opener")
			So(b[0].Runs, ShouldEqual, 11)
			So(b[0].Balls, ShouldEqual, 10)
			So(b[0].Fours, ShouldEqual, 1)
			So(b[0].Sixes, ShouldEqual, 1)
			So(b[0].StrikeRate, ShouldAlmostEqual, 110)
			So(b[0].Out, ShouldBeFalse)
			So(b[1].Out, ShouldBeTrue)
		})

		Convey("Then bowlers are charged without leg byes", func() {
			w := rep.Scorecard.Bowlers
			So(w, ShouldHaveLength, 2)
			So(w[0].Name, ShouldEqual, "Quick")
			So(w[0].Overs, ShouldEqual, "1.0")
			So(w[0].Maidens, ShouldEqual, 1)
			So(w[0].Runs, ShouldEqual, 0)
			So(w[1].Name, ShouldEqual, "Spinner")
			So(w[1].Overs, ShouldEqual, "0.5")
			So(w[1].Runs, ShouldEqual, 12)
			So(w[1].Wickets, ShouldEqual, 1)
			So(w[1].Maidens, ShouldEqual, 0)
		})

		Convey("Then the heatmap counts pitched deliveries by cell", func() {
			short := rep.Zones[pitch.Short].Cells[pitch.OutsideOff]
			So(short.Balls, ShouldEqual, 1)
			So(short.Runs, ShouldEqual, 4)
			good := rep.Zones[pitch.Good].Cells[pitch.Middle]
			So(good.Wickets, ShouldEqual, 1)
			So(good.Dots, ShouldEqual, 1)
			So(rep.Zones[pitch.Yorker].LengthZone, ShouldEqual, pitch.Yorker)
			So(rep.Zones[pitch.Yorker].Cells[pitch.WideDownLeg].LineColumn, ShouldEqual, pitch.WideDownLeg)
		})

		Convey("Then the shot chart groups by sector and ring", func() {
			pt := rep.Sectors[field.Point]
			So(pt.Shots, ShouldEqual, 2)
			So(pt.Runs, ShouldEqual, 5)
			So(pt.Fours, ShouldEqual, 1)
			So(pt.MeanRadius, ShouldAlmostEqual, 100)
			So(pt.StdDevRadius, ShouldAlmostEqual, 70.71067811865476, 1e-9)
			So(rep.Sectors[field.LongOn].Sixes, ShouldEqual, 1)
			So(rep.Sectors[field.LongOn].StdDevRadius, ShouldEqual, 0)
			So(rep.Rings[field.Infield].Shots, ShouldEqual, 1)
			So(rep.Rings[field.Outfield].Shots, ShouldEqual, 2)
			So(rep.Rings[field.Outfield].Runs, ShouldEqual, 10)
		})
	})

	Convey("Given no deliveries", t, func() {
		rep := analytics.Summarize("m1", 2, nil, 75)
		So(rep.Scorecard.Overs, ShouldEqual, "0.0")
		So(rep.Scorecard.RunRate, ShouldEqual, 0)
		So(rep.Zones, ShouldHaveLength, pitch.ZoneCount)
		So(rep.Sectors, ShouldHaveLength, field.SectorCount)
		So(rep.Scorecard.Batters, ShouldBeEmpty)
	})

	Convey("Given a run out", t, func() {
		d := ball(0, 1, 1)
		d.Wicket = true
		d.WicketType = "Run Out"
		rep := analytics.Summarize("m1", 1, []*model.DeliveryEvent{d}, 75)
		So(rep.Scorecard.Wickets, ShouldEqual, 1)
		So(rep.Scorecard.Bowlers[0].Wickets, ShouldEqual, 0)
	})
}

func TestAggregator(t *testing.T) {
	ctx := context.Background()

	Convey("Given an aggregator", t, func() {
		agg := analytics.NewAggregator(analytics.WithInnerRadius(60))

		Convey("When deliveries are applied, some twice", func() {
			for _, d := range anOver() {
				So(agg.Handle(ctx, analytics.Job{Op: analytics.OpApply, Delivery: d}), ShouldBeNil)
			}
			So(agg.Apply(ball(0, 1, 0)), ShouldBeFalse)

			Convey("Then each counts once", func() {
				So(agg.Len(), ShouldEqual, 12)
				So(agg.Report("m1", 1).Scorecard.Runs, ShouldEqual, 13)
			})

			Convey("And a retraction removes one", func() {
				So(agg.Retract(ball(1, 3, 6)), ShouldBeTrue)
				So(agg.Report("m1", 1).Scorecard.Runs, ShouldEqual, 7)
			})

			Convey("And other innings stay empty", func() {
				So(agg.Report("m1", 2).Deliveries, ShouldEqual, 0)
			})
		})

		Convey("When a retraction arrives before its apply", func() {
			d := ball(0, 1, 3)
			So(agg.Retract(d), ShouldBeFalse)
			So(agg.Apply(d), ShouldBeFalse)

			Convey("Then the late apply is dropped", func() {
				So(agg.Len(), ShouldEqual, 0)
			})
		})

		Convey("When an innings is replaced", func() {
			agg.Apply(ball(5, 1, 2))
			agg.Replace("m1", 1, []*model.DeliveryEvent{ball(0, 1, 4)})
			So(agg.Len(), ShouldEqual, 1)
			So(agg.Report("m1", 1).Scorecard.Runs, ShouldEqual, 4)
		})

		Convey("When a job is malformed", func() {
			err := agg.Handle(ctx, analytics.Job{Op: analytics.Op(9), Delivery: ball(0, 1, 0)})
			So(errors.Is(err, analytics.ErrUnknownOp), ShouldBeTrue)
			err = agg.Handle(ctx, analytics.Job{Op: analytics.OpApply})
			So(errors.Is(err, analytics.ErrUnknownOp), ShouldBeTrue)
		})
	})

	Convey("Given overs notation", t, func() {
		So(analytics.FormatOvers(0), ShouldEqual, "0.0")
		So(analytics.FormatOvers(63), ShouldEqual, "10.3")
	})
}
