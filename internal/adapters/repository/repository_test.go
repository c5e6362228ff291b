package repository_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/cricscore/internal/adapters/repository"
	"github.com/okian/cricscore/internal/domain/field"
	"github.com/okian/cricscore/internal/domain/geometry"
	"github.com/okian/cricscore/internal/domain/model"
	"github.com/okian/cricscore/internal/domain/pitch"
	. "github.com/smartystreets/goconvey/convey"
)

func delivery(match string, innings, over, ball int) *model.DeliveryEvent {
	return &model.DeliveryEvent{
		ID:        fmt.Sprintf("%s-%d-%d-%d", match, innings, over, ball),
		MatchID:   match,
		Innings:   innings,
		Over:      over,
		Ball:      ball,
		Batter:    "R Sharma",
		Bowler:    "D Chahar",
		RunsOff:   1,
		Timestamp: time.Date(2026, 4, 2, 14, 30, 0, 125, time.UTC),
	}
}

func stores(t *testing.T) map[string]func() repository.DeliveryStore {
	dir := t.TempDir()
	return map[string]func() repository.DeliveryStore{
		repository.DriverMemory: func() repository.DeliveryStore {
			return repository.NewTreapStore(context.Background())
		},
		repository.DriverSQLite: func() repository.DeliveryStore {
			s, err := repository.OpenSQLite(context.Background(), filepath.Join(dir, fmt.Sprintf("%d.db", time.Now().UnixNano())))
			if err != nil {
				t.Fatalf("open sqlite: %v", err)
			}
			return s
		},
	}
}

func TestDeliveryStores(t *testing.T) {
	for name, open := range stores(t) {
		Convey("Given an empty "+name+" store", t, func() {
			ctx := context.Background()
			s := open()
			Reset(func() { _ = s.Close() })

			Convey("When a delivery with pitch and shot results is stored", func() {
				pm, err := pitch.New(pitch.DefaultTrapezoid())
				So(err, ShouldBeNil)
				fm, err := field.New(field.DefaultCircle())
				So(err, ShouldBeNil)
				pr, ok := pm.Classify(geometry.Pt(230.25, 230.5))
				So(ok, ShouldBeTrue)
				fr, ok := fm.Classify(geometry.Pt(90.125, 250))
				So(ok, ShouldBeTrue)

				d := delivery("m1", 1, 0, 1)
				d.Extras = model.NewExtras(model.NoBall)
				d.ExtraRuns = 1
				d.Wicket = true
				d.WicketType = "Run Out"
				d.FieldersInvolved = []string{"J Bumrah", "I Kishan"}
				d.ShotType = "Flick"
				d.BallType = "Inswinger"
				d.Commentary = "tucked away, sharp throw"
				d.ApplyPitchMark(pr)
				d.ApplyShot(fr)
				So(s.Create(ctx, d), ShouldBeNil)

				Convey("Then reloading reproduces enums and raw coordinates", func() {
					got, err := s.Get(ctx, d.Key())
					So(err, ShouldBeNil)
					So(*got.PitchMark, ShouldResemble, pr)
					So(*got.ShotDirection, ShouldResemble, fr)
					So(got.Extras, ShouldEqual, d.Extras)
					So(got.FieldersInvolved, ShouldResemble, d.FieldersInvolved)
					So(got.Timestamp.Equal(d.Timestamp), ShouldBeTrue)
					So(got.WicketType, ShouldEqual, "Run Out")
					So(got.Commentary, ShouldEqual, d.Commentary)
				})

				Convey("And the caller's copy is not shared", func() {
					d.FieldersInvolved[0] = "changed"
					got, err := s.Get(ctx, d.Key())
					So(err, ShouldBeNil)
					So(got.FieldersInvolved[0], ShouldEqual, "J Bumrah")
				})

				Convey("And the same key is rejected", func() {
					dup := delivery("m1", 1, 0, 1)
					dup.ID = "other"
					err := s.Create(ctx, dup)
					So(errors.Is(err, repository.ErrDuplicateDelivery), ShouldBeTrue)
				})

				Convey("And the same id is rejected", func() {
					dup := delivery("m1", 1, 0, 2)
					dup.ID = d.ID
					err := s.Create(ctx, dup)
					So(errors.Is(err, repository.ErrDuplicateDelivery), ShouldBeTrue)
				})
			})

			Convey("When a delivery has no pitch or shot", func() {
				d := delivery("m1", 1, 0, 1)
				So(s.Create(ctx, d), ShouldBeNil)
				got, err := s.Get(ctx, d.Key())
				So(err, ShouldBeNil)
				So(got.PitchMark, ShouldBeNil)
				So(got.ShotDirection, ShouldBeNil)
				So(got.FieldersInvolved, ShouldBeNil)
			})

			Convey("When deliveries of two innings are stored out of order", func() {
				for _, k := range []model.Key{
					{MatchID: "m1", Innings: 1, Over: 1, Ball: 2},
					{MatchID: "m1", Innings: 2, Over: 0, Ball: 1},
					{MatchID: "m1", Innings: 1, Over: 0, Ball: 6},
					{MatchID: "m0", Innings: 1, Over: 3, Ball: 1},
					{MatchID: "m1", Innings: 1, Over: 1, Ball: 1},
					{MatchID: "m1", Innings: 1, Over: 0, Ball: 1},
				} {
					So(s.Create(ctx, delivery(k.MatchID, k.Innings, k.Over, k.Ball)), ShouldBeNil)
				}

				Convey("Then List returns one innings in over/ball order", func() {
					list, err := s.List(ctx, "m1", 1, 0)
					So(err, ShouldBeNil)
					So(len(list), ShouldEqual, 4)
					var keys []string
					for _, d := range list {
						keys = append(keys, d.Key().String())
					}
					So(keys, ShouldResemble, []string{"m1/1/0.1", "m1/1/0.6", "m1/1/1.1", "m1/1/1.2"})
				})

				Convey("And a limit truncates from the start", func() {
					list, err := s.List(ctx, "m1", 1, 2)
					So(err, ShouldBeNil)
					So(len(list), ShouldEqual, 2)
					So(list[1].Key().String(), ShouldEqual, "m1/1/0.6")
				})

				Convey("And a negative limit is rejected", func() {
					_, err := s.List(ctx, "m1", 1, -1)
					So(errors.Is(err, repository.ErrInvalidLimit), ShouldBeTrue)
				})

				Convey("And an unknown innings is empty, not nil", func() {
					list, err := s.List(ctx, "m9", 1, 0)
					So(err, ShouldBeNil)
					So(list, ShouldNotBeNil)
					So(len(list), ShouldEqual, 0)
				})

				Convey("And Last returns the latest ball of the innings", func() {
					last, err := s.Last(ctx, "m1", 1)
					So(err, ShouldBeNil)
					So(last.Key().String(), ShouldEqual, "m1/1/1.2")

					_, err = s.Last(ctx, "m1", 3)
					So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
				})

				Convey("And Count covers every innings", func() {
					n, err := s.Count(ctx)
					So(err, ShouldBeNil)
					So(n, ShouldEqual, 6)
				})

				Convey("And Delete removes one delivery", func() {
					k := model.Key{MatchID: "m1", Innings: 1, Over: 1, Ball: 2}
					So(s.Delete(ctx, k), ShouldBeNil)
					_, err := s.Get(ctx, k)
					So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
					So(errors.Is(s.Delete(ctx, k), repository.ErrNotFound), ShouldBeTrue)

					last, err := s.Last(ctx, "m1", 1)
					So(err, ShouldBeNil)
					So(last.Key().String(), ShouldEqual, "m1/1/1.1")

					Convey("Then the freed key and id can be reused", func() {
						So(s.Create(ctx, delivery("m1", 1, 1, 2)), ShouldBeNil)
					})
				})
			})
		})
	}
}

func TestTreapStoreClose(t *testing.T) {
	Convey("Given a closed memory store", t, func() {
		s := repository.NewTreapStore(context.Background())
		So(s.Close(), ShouldBeNil)

		Convey("Then writes are rejected", func() {
			err := s.Create(context.Background(), delivery("m1", 1, 0, 1))
			So(errors.Is(err, repository.ErrClosed), ShouldBeTrue)
		})
	})
}

func TestOpen(t *testing.T) {
	Convey("Given the driver names", t, func() {
		ctx := context.Background()

		Convey("Then memory and the empty driver open a treap store", func() {
			for _, d := range []string{"", repository.DriverMemory} {
				s, err := repository.Open(ctx, d, "")
				So(err, ShouldBeNil)
				_, ok := s.(*repository.TreapStore)
				So(ok, ShouldBeTrue)
			}
		})

		Convey("Then sqlite opens a database file", func() {
			s, err := repository.Open(ctx, repository.DriverSQLite, filepath.Join(t.TempDir(), "nested", "log.db"))
			So(err, ShouldBeNil)
			_, ok := s.(*repository.SQLiteStore)
			So(ok, ShouldBeTrue)
			So(s.Close(), ShouldBeNil)
		})

		Convey("Then an unknown driver is an error", func() {
			_, err := repository.Open(ctx, "postgres", "")
			So(errors.Is(err, repository.ErrUnknownDriver), ShouldBeTrue)
		})
	})
}
