package geometry_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/cricscore/internal/domain/geometry"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLerp(t *testing.T) {
	Convey("Given two points", t, func() {
		p0 := geometry.Pt(140, 50)
		p1 := geometry.Pt(185, 410)

		Convey("Then t=0 and t=1 return the endpoints", func() {
			So(geometry.Lerp(p0, p1, 0), ShouldResemble, p0)
			So(geometry.Lerp(p0, p1, 1), ShouldResemble, p1)
		})

		Convey("And t=0.5 returns the midpoint", func() {
			mid := geometry.Lerp(p0, p1, 0.5)
			So(mid.X, ShouldAlmostEqual, 162.5)
			So(mid.Y, ShouldAlmostEqual, 230)
		})

		Convey("And t outside [0,1] extrapolates", func() {
			p := geometry.Lerp(geometry.Pt(0, 0), geometry.Pt(10, 0), 1.5)
			So(p.X, ShouldAlmostEqual, 15)
			p = geometry.Lerp(geometry.Pt(0, 0), geometry.Pt(10, 0), -1)
			So(p.X, ShouldAlmostEqual, -10)
		})
	})
}

func TestPolar(t *testing.T) {
	Convey("Given a centre at (170,170)", t, func() {
		c := geometry.Pt(170, 170)

		Convey("When the point is straight up", func() {
			r, a := geometry.Polar(c, geometry.Pt(170, 20))
			Convey("Then the bearing is 0", func() {
				So(r, ShouldAlmostEqual, 150)
				So(a, ShouldEqual, 0)
			})
		})

		Convey("When the point is to the east", func() {
			_, a := geometry.Polar(c, geometry.Pt(270, 170))
			So(a, ShouldAlmostEqual, math.Pi/2)
		})

		Convey("When the point is straight down", func() {
			_, a := geometry.Polar(c, geometry.Pt(170, 300))
			So(a, ShouldAlmostEqual, math.Pi)
		})

		Convey("When the point is to the west", func() {
			_, a := geometry.Polar(c, geometry.Pt(70, 170))
			So(a, ShouldAlmostEqual, 3*math.Pi/2)
		})

		Convey("When the point is just west of north", func() {
			_, a := geometry.Polar(c, geometry.Pt(169.999, 20))
			Convey("Then the bearing wraps to just under 2π", func() {
				So(a, ShouldBeLessThan, geometry.FullTurn)
				So(a, ShouldBeGreaterThan, geometry.FullTurn-0.001)
			})
		})

		Convey("When the point is the centre", func() {
			r, a := geometry.Polar(c, c)
			Convey("Then radius and angle are zero, not NaN", func() {
				So(r, ShouldEqual, 0)
				So(a, ShouldEqual, 0)
				So(math.IsNaN(a), ShouldBeFalse)
			})
		})

		Convey("Then FromPolar inverts Polar", func() {
			for _, p := range []geometry.Point{geometry.Pt(200, 40), geometry.Pt(90, 250), geometry.Pt(170, 169)} {
				r, a := geometry.Polar(c, p)
				back := geometry.FromPolar(c, r, a)
				So(back.X, ShouldAlmostEqual, p.X, 1e-9)
				So(back.Y, ShouldAlmostEqual, p.Y, 1e-9)
			}
		})
	})
}

func TestViewport(t *testing.T) {
	Convey("Given a 460x500 widget", t, func() {
		vp, err := geometry.NewViewport(geometry.Size{Width: 460, Height: 500})
		So(err, ShouldBeNil)

		Convey("When it is rendered at half size with an offset", func() {
			ev := geometry.PointerEvent{
				ClientX: 10 + 115,
				ClientY: 20 + 125,
				Box:     geometry.Box{Left: 10, Top: 20, Width: 230, Height: 250},
			}
			p, err := vp.ToLocal(ev)

			Convey("Then device pixels are scaled into logical space", func() {
				So(err, ShouldBeNil)
				So(p.X, ShouldAlmostEqual, 230)
				So(p.Y, ShouldAlmostEqual, 250)
			})
		})

		Convey("When the bounding box has no area", func() {
			_, err := vp.ToLocal(geometry.PointerEvent{ClientX: 1, ClientY: 1})
			So(errors.Is(err, geometry.ErrDegenerateViewport), ShouldBeTrue)
		})

		Convey("When the pointer is not a number", func() {
			_, err := vp.ToLocal(geometry.PointerEvent{
				ClientX: math.NaN(),
				Box:     geometry.Box{Width: 10, Height: 10},
			})
			So(errors.Is(err, geometry.ErrInvalidPointer), ShouldBeTrue)
		})
	})

	Convey("Given a zero-size widget", t, func() {
		_, err := geometry.NewViewport(geometry.Size{})
		So(errors.Is(err, geometry.ErrDegenerateViewport), ShouldBeTrue)
	})
}
