package pitch_test

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/okian/cricscore/internal/domain/geometry"
	"github.com/okian/cricscore/internal/domain/pitch"
	. "github.com/smartystreets/goconvey/convey"
)

// skewed is a parallelogram pitch whose boundaries fall on round numbers:
// zone edges at y=50+60n, far-edge columns at x=140+18n, near-edge columns at
// x=185+18n.
func skewed() pitch.Trapezoid {
	return pitch.Trapezoid{
		NearLeft:  geometry.Pt(185, 410),
		NearRight: geometry.Pt(275, 410),
		FarRight:  geometry.Pt(230, 50),
		FarLeft:   geometry.Pt(140, 50),
	}
}

func TestDefaultTrapezoid(t *testing.T) {
	Convey("Given the stock pitch drawing", t, func() {
		tr := pitch.DefaultTrapezoid()

		Convey("Then the corners match the 460x500 widget layout", func() {
			So(tr.NearLeft, ShouldResemble, geometry.Pt(100, 410))
			So(tr.NearRight, ShouldResemble, geometry.Pt(360, 410))
			So(tr.FarRight, ShouldResemble, geometry.Pt(275, 50))
			So(tr.FarLeft, ShouldResemble, geometry.Pt(185, 50))
			So(pitch.DefaultSize(), ShouldResemble, geometry.Size{Width: 460, Height: 500})
		})

		Convey("And a mapper can be built from it", func() {
			m, err := pitch.New(tr)
			So(err, ShouldBeNil)
			So(m.Trapezoid(), ShouldResemble, tr)
		})
	})
}

func TestClassify(t *testing.T) {
	Convey("Given a mapper over a skewed pitch", t, func() {
		m, err := pitch.New(skewed())
		So(err, ShouldBeNil)

		Convey("When the centroid is clicked", func() {
			res, ok := m.Classify(geometry.Pt(207.5, 230))

			Convey("Then it is a good length on middle", func() {
				So(ok, ShouldBeTrue)
				So(res.LengthZone, ShouldEqual, pitch.Good)
				So(res.LineColumn, ShouldEqual, pitch.Middle)
				So(res.X, ShouldEqual, 207.5)
				So(res.Y, ShouldEqual, 230)
			})
		})

		Convey("When the same point is classified twice", func() {
			a, okA := m.Classify(geometry.Pt(201.3, 377.7))
			b, okB := m.Classify(geometry.Pt(201.3, 377.7))
			So(okA, ShouldEqual, okB)
			So(a, ShouldResemble, b)
		})

		Convey("When a point sits exactly on a zone boundary", func() {
			for n := 1; n < pitch.ZoneCount; n++ {
				res, ok := m.Classify(geometry.Pt(200, float64(50+60*n)))
				So(ok, ShouldBeTrue)
				So(res.LengthZone, ShouldEqual, pitch.LengthZone(n))
			}
		})

		Convey("When a point sits exactly on a column boundary at the far edge", func() {
			for n := 1; n < pitch.ColumnCount; n++ {
				res, ok := m.Classify(geometry.Pt(float64(140+18*n), 50))
				So(ok, ShouldBeTrue)
				So(res.LengthZone, ShouldEqual, pitch.FullToss)
				So(res.LineColumn, ShouldEqual, pitch.LineColumn(n))
			}
		})

		Convey("When the near-right corner is clicked", func() {
			res, ok := m.Classify(geometry.Pt(275, 410))

			Convey("Then the last zone and column absorb the closed edge", func() {
				So(ok, ShouldBeTrue)
				So(res.LengthZone, ShouldEqual, pitch.Bouncer)
				So(res.LineColumn, ShouldEqual, pitch.WideDownLeg)
			})
		})

		Convey("When the far-left corner is clicked", func() {
			res, ok := m.Classify(geometry.Pt(140, 50))
			So(ok, ShouldBeTrue)
			So(res.LengthZone, ShouldEqual, pitch.FullToss)
			So(res.LineColumn, ShouldEqual, pitch.WideOutsideOff)
		})

		Convey("When the click misses the pitch", func() {
			cases := []geometry.Point{
				geometry.Pt(200, 49.999), // beyond the far edge
				geometry.Pt(200, 410.001),
				geometry.Pt(139.999, 50), // beside the far edge
				geometry.Pt(230.001, 50),
				geometry.Pt(184.9, 410),
				geometry.Pt(math.NaN(), 200),
				geometry.Pt(200, math.Inf(1)),
			}
			for _, p := range cases {
				_, ok := m.Classify(p)
				So(ok, ShouldBeFalse)
			}
		})

		Convey("Then every cell is reachable through its centre", func() {
			tr := skewed()
			for _, z := range pitch.Zones() {
				fy := (float64(z) + 0.5) / pitch.ZoneCount
				left := geometry.Lerp(tr.FarLeft, tr.NearLeft, fy)
				right := geometry.Lerp(tr.FarRight, tr.NearRight, fy)
				for _, c := range pitch.Columns() {
					p := geometry.Lerp(left, right, (float64(c)+0.5)/pitch.ColumnCount)
					res, ok := m.Classify(p)
					So(ok, ShouldBeTrue)
					So(res.LengthZone, ShouldEqual, z)
					So(res.LineColumn, ShouldEqual, c)
				}
			}
		})
	})

	Convey("Given the stock pitch", t, func() {
		m, err := pitch.New(pitch.DefaultTrapezoid())
		So(err, ShouldBeNil)

		Convey("Then a click just inside the narrow far edge is accepted", func() {
			res, ok := m.Classify(geometry.Pt(186, 51))
			So(ok, ShouldBeTrue)
			So(res.LengthZone, ShouldEqual, pitch.FullToss)
			So(res.LineColumn, ShouldEqual, pitch.WideOutsideOff)
		})

		Convey("And a click outside the slanted side is rejected", func() {
			// At y=230 the left edge is at x=142.5.
			_, ok := m.Classify(geometry.Pt(142, 230))
			So(ok, ShouldBeFalse)
			_, ok = m.Classify(geometry.Pt(143, 230))
			So(ok, ShouldBeTrue)
		})
	})
}

func TestNewRejectsDegenerateGeometry(t *testing.T) {
	Convey("Given malformed trapezoids", t, func() {
		base := skewed()

		tilted := base
		tilted.NearRight.Y = 409
		flat := base
		flat.FarLeft.Y, flat.FarRight.Y = 410, 410
		inverted := base
		inverted.NearLeft.X, inverted.NearRight.X = 275, 185
		pinched := base
		pinched.FarRight.X = pinched.FarLeft.X
		nan := base
		nan.FarLeft.X = math.NaN()

		for _, tr := range []pitch.Trapezoid{tilted, flat, inverted, pinched, nan} {
			m, err := pitch.New(tr)
			So(m, ShouldBeNil)
			So(errors.Is(err, pitch.ErrDegenerateGeometry), ShouldBeTrue)
		}
	})
}

func TestRenderHelpers(t *testing.T) {
	Convey("Given a mapper over a skewed pitch", t, func() {
		tr := skewed()
		m, err := pitch.New(tr)
		So(err, ShouldBeNil)

		Convey("Then the outer bands share the trapezoid corners", func() {
			first := m.ZoneBand(pitch.FullToss)
			last := m.ZoneBand(pitch.Bouncer)
			So(first[0], ShouldResemble, tr.FarLeft)
			So(first[1], ShouldResemble, tr.FarRight)
			So(last[2], ShouldResemble, tr.NearRight)
			So(last[3], ShouldResemble, tr.NearLeft)
		})

		Convey("And zone boundaries are horizontal", func() {
			a, b := m.ZoneBoundary(3)
			So(a.Y, ShouldAlmostEqual, 230)
			So(b.Y, ShouldAlmostEqual, 230)
		})

		Convey("And column boundaries run from the far to the near edge", func() {
			a, b := m.ColumnBoundary(2)
			So(a.Y, ShouldEqual, 50)
			So(b.Y, ShouldEqual, 410)
			So(a.X, ShouldAlmostEqual, 176)
			So(b.X, ShouldAlmostEqual, 221)
		})

		Convey("And column label anchors classify into their own column", func() {
			for _, c := range pitch.Columns() {
				res, ok := m.Classify(m.ColumnLabelAnchor(c))
				So(ok, ShouldBeTrue)
				So(res.LineColumn, ShouldEqual, c)
			}
		})

		Convey("And zone label anchors sit level with their zone", func() {
			for _, z := range pitch.Zones() {
				p := m.ZoneLabelAnchor(z)
				So(p.Y, ShouldAlmostEqual, 50+60*(float64(z)+0.5))
			}
		})
	})
}

func TestLabels(t *testing.T) {
	Convey("Given a classification result", t, func() {
		res := pitch.Result{LengthZone: pitch.Good, LineColumn: pitch.OutsideOff, X: 1, Y: 2}

		Convey("When it is encoded as JSON", func() {
			b, err := json.Marshal(res)
			So(err, ShouldBeNil)

			Convey("Then categories use their display labels", func() {
				So(string(b), ShouldEqual, `{"length_zone":"Good","line_column":"Outside Off","x":1,"y":2}`)
			})

			Convey("And decoding restores the result", func() {
				var back pitch.Result
				So(json.Unmarshal(b, &back), ShouldBeNil)
				So(back, ShouldResemble, res)
			})
		})

		Convey("When an unknown label is decoded", func() {
			var z pitch.LengthZone
			err := json.Unmarshal([]byte(`"Half Volley"`), &z)
			So(errors.Is(err, pitch.ErrUnknownCategory), ShouldBeTrue)
		})

		Convey("Then every label is distinct and parses back", func() {
			seen := map[string]bool{}
			for _, z := range pitch.Zones() {
				So(seen[z.String()], ShouldBeFalse)
				seen[z.String()] = true
				back, err := pitch.ParseLengthZone(z.String())
				So(err, ShouldBeNil)
				So(back, ShouldEqual, z)
			}
			for _, c := range pitch.Columns() {
				back, err := pitch.ParseLineColumn(c.String())
				So(err, ShouldBeNil)
				So(back, ShouldEqual, c)
			}
			So(pitch.LengthZone(9).String(), ShouldEqual, "LengthZone(9)")
		})
	})
}
