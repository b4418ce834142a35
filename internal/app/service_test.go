package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	service "github.com/okian/rallystats/internal/app"
	"github.com/okian/rallystats/internal/domain/attribution"
	"github.com/okian/rallystats/internal/domain/expand"
	"github.com/okian/rallystats/internal/domain/model"
	"github.com/okian/rallystats/internal/domain/segment"
	"github.com/okian/rallystats/internal/domain/speed"
	"github.com/okian/rallystats/internal/testrally"
	logging "github.com/okian/rallystats/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

const tolerance = 1e-9

func pos(x, y float64) model.Position { return model.Position{X: x, Y: y} }

func observation(a1, a2, obj model.Position) model.Observation {
	return model.Observation{
		Actors: map[model.ActorID]model.Position{model.Actor1: a1, model.Actor2: a2},
		Object: &obj,
	}
}

// threeContactMatch has contacts at 0, 24 and 48 on a court 100 units wide
// and 10 m across. Actor 1 strikes first and moves 10 units afterwards;
// actor 2 strikes at 24 after moving 20 units.
func threeContactMatch() model.Match {
	frames := make([]model.Observation, 60)
	for f := range frames {
		frames[f] = observation(pos(0, 5), pos(10, 10), pos(10, 0))
	}
	frames[0] = observation(pos(0, 1), pos(10, 30), pos(0, 0))
	frames[48] = observation(pos(0, 15), pos(10, 10), pos(10, 20))

	return model.Match{
		ID:                   "three-contacts",
		Frames:               frames,
		ContactFrames:        []int{0, 24, 48},
		ProjectionPixelWidth: 100,
		ReferenceWidthMeters: 10,
	}
}

func TestServiceRun(t *testing.T) {
	convey.Convey("Given a match with three contacts", t, func() {
		convey.So(logging.Init(), convey.ShouldBeNil)
		ctx := context.Background()
		m := threeContactMatch()

		convey.Convey("When the pipeline runs with the default denominator", func() {
			svc := service.New(service.WithFrameRate(24), service.WithWorkerCount(2))
			convey.So(svc.Denominator(), convey.ShouldEqual, expand.DenominatorCross)

			rep, err := svc.Run(ctx, m)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then two one-second segments are analysed", func() {
				convey.So(rep.RunID, convey.ShouldNotBeEmpty)
				convey.So(rep.MatchID, convey.ShouldEqual, "three-contacts")
				convey.So(rep.Segments, convey.ShouldResemble, []model.Segment{{Start: 0, End: 24}, {Start: 24, End: 48}})
				convey.So(rep.Deltas, convey.ShouldHaveLength, 2)

				first, second := rep.Deltas[0], rep.Deltas[1]
				convey.So(first.Striker, convey.ShouldEqual, model.Actor1)
				convey.So(first.ShotSpeed, convey.ShouldAlmostEqual, 3.6, tolerance)
				convey.So(first.OpponentSpeed, convey.ShouldAlmostEqual, 7.2, tolerance)
				convey.So(second.Striker, convey.ShouldEqual, model.Actor2)
				convey.So(second.ShotSpeed, convey.ShouldAlmostEqual, 7.2, tolerance)
				convey.So(second.OpponentSpeed, convey.ShouldAlmostEqual, 3.6, tolerance)
			})

			convey.Convey("Then the snapshots start with the zero seed", func() {
				convey.So(rep.Snapshots, convey.ShouldHaveLength, 3)
				convey.So(rep.Snapshots[0], convey.ShouldResemble, model.Snapshot{})
				convey.So(rep.Snapshots[1].FrameNum, convey.ShouldEqual, 0)
				convey.So(rep.Snapshots[2].FrameNum, convey.ShouldEqual, 24)
				convey.So(rep.Snapshots[2].Of(model.Actor1).ShotCount, convey.ShouldEqual, 1)
				convey.So(rep.Snapshots[2].Of(model.Actor2).ShotCount, convey.ShouldEqual, 1)
			})

			convey.Convey("Then there is one row per frame filled forward", func() {
				convey.So(rep.Rows, convey.ShouldHaveLength, 60)
				for f, r := range rep.Rows {
					convey.So(r.Frame, convey.ShouldEqual, f)
					if f < 24 {
						convey.So(r.SnapshotFrame, convey.ShouldEqual, 0)
						convey.So(r.Of(model.Actor1).ShotCount, convey.ShouldEqual, 1)
					} else {
						convey.So(r.SnapshotFrame, convey.ShouldEqual, 24)
					}
				}
			})

			convey.Convey("Then movement averages divide by the other actor's shots", func() {
				early := rep.Rows[10]
				convey.So(early.Of(model.Actor1).AverageMovementSpeed.Defined, convey.ShouldBeFalse)
				convey.So(early.Of(model.Actor2).AverageShotSpeed.Defined, convey.ShouldBeFalse)
				convey.So(early.Of(model.Actor2).AverageMovementSpeed.Value, convey.ShouldAlmostEqual, 7.2, tolerance)

				late := rep.Rows[59]
				convey.So(late.Of(model.Actor1).AverageShotSpeed.Value, convey.ShouldAlmostEqual, 3.6, tolerance)
				convey.So(late.Of(model.Actor1).AverageMovementSpeed.Value, convey.ShouldAlmostEqual, 3.6, tolerance)
				convey.So(late.Of(model.Actor2).AverageShotSpeed.Value, convey.ShouldAlmostEqual, 7.2, tolerance)
			})
		})

		convey.Convey("When the self denominator is selected", func() {
			rep, err := service.New(service.WithDenominator(expand.DenominatorSelf)).Run(ctx, m)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then an actor without shots has no movement average", func() {
				convey.So(rep.Rows[10].Of(model.Actor2).AverageMovementSpeed.Defined, convey.ShouldBeFalse)
				convey.So(rep.Rows[59].Of(model.Actor2).AverageMovementSpeed.Value, convey.ShouldAlmostEqual, 7.2, tolerance)
			})
		})

		convey.Convey("When the projection width is overridden", func() {
			rep, err := service.New(service.WithProjectionPixelWidth(200)).Run(ctx, m)
			convey.So(err, convey.ShouldBeNil)
			convey.So(rep.Deltas[0].ShotSpeed, convey.ShouldAlmostEqual, 1.8, tolerance)
		})

		convey.Convey("When the match carries no reference width", func() {
			m.ReferenceWidthMeters = 0
			rep, err := service.New(service.WithReferenceWidthMeters(20)).Run(ctx, m)
			convey.So(err, convey.ShouldBeNil)
			convey.So(rep.Deltas[0].ShotSpeed, convey.ShouldAlmostEqual, 7.2, tolerance)
		})

		convey.Convey("When the frame rate is doubled", func() {
			rep, err := service.New(service.WithFrameRate(48)).Run(ctx, m)
			convey.So(err, convey.ShouldBeNil)
			convey.So(rep.Deltas[0].ShotSpeed, convey.ShouldAlmostEqual, 7.2, tolerance)
		})
	})

	convey.Convey("Given fewer than two contacts", t, func() {
		convey.So(logging.Init(), convey.ShouldBeNil)
		for _, contacts := range [][]int{nil, {12}} {
			m := threeContactMatch()
			m.ContactFrames = contacts

			rep, err := service.New().Run(context.Background(), m)
			convey.So(err, convey.ShouldBeNil)
			convey.So(rep.Segments, convey.ShouldBeEmpty)
			convey.So(rep.Snapshots, convey.ShouldResemble, []model.Snapshot{{}})
			convey.So(rep.Rows, convey.ShouldHaveLength, 60)
			for f, r := range rep.Rows {
				want := model.Row{Frame: f}
				convey.So(cmp.Diff(want, r), convey.ShouldBeEmpty)
			}
		}
	})
}

func TestServiceRunFailures(t *testing.T) {
	convey.Convey("Given malformed matches", t, func() {
		convey.So(logging.Init(), convey.ShouldBeNil)
		ctx := context.Background()
		svc := service.New()

		convey.Convey("When contact frames are not increasing", func() {
			m := threeContactMatch()
			m.ContactFrames = []int{0, 24, 24}
			rep, err := svc.Run(ctx, m)

			convey.So(rep, convey.ShouldBeNil)
			convey.So(errors.Is(err, segment.ErrUnordered), convey.ShouldBeTrue)
			var oe *segment.OrderError
			convey.So(errors.As(err, &oe), convey.ShouldBeTrue)
			convey.So(oe.Frame, convey.ShouldEqual, 24)
		})

		convey.Convey("When a contact frame lies past the last frame", func() {
			m := threeContactMatch()
			m.ContactFrames = []int{0, 24, 60}
			_, err := svc.Run(ctx, m)
			convey.So(errors.Is(err, segment.ErrOutOfRange), convey.ShouldBeTrue)
		})

		convey.Convey("When the projection width is missing", func() {
			m := threeContactMatch()
			m.ProjectionPixelWidth = 0
			_, err := svc.Run(ctx, m)
			convey.So(errors.Is(err, speed.ErrInvalidCalibration), convey.ShouldBeTrue)
		})

		convey.Convey("When the object is missing at a segment end", func() {
			m := threeContactMatch()
			m.Frames[48].Object = nil
			rep, err := svc.Run(ctx, m)

			convey.So(rep, convey.ShouldBeNil)
			var me *service.MissingObjectError
			convey.So(errors.As(err, &me), convey.ShouldBeTrue)
			convey.So(me.Frame, convey.ShouldEqual, 48)
			convey.So(errors.Is(err, service.ErrMissingObject), convey.ShouldBeTrue)
		})

		convey.Convey("When an actor is missing at a contact", func() {
			m := threeContactMatch()
			delete(m.Frames[24].Actors, model.Actor1)
			_, err := svc.Run(ctx, m)

			var ae *attribution.MissingActorError
			convey.So(errors.As(err, &ae), convey.ShouldBeTrue)
			convey.So(ae.Frame, convey.ShouldEqual, 24)
			convey.So(ae.Actor, convey.ShouldEqual, model.Actor1)
		})

		convey.Convey("When the opponent is missing at a segment end", func() {
			m := threeContactMatch()
			m.ContactFrames = []int{0, 24}
			delete(m.Frames[24].Actors, model.Actor2)
			_, err := svc.Run(ctx, m)

			var ae *attribution.MissingActorError
			convey.So(errors.As(err, &ae), convey.ShouldBeTrue)
			convey.So(ae.Frame, convey.ShouldEqual, 24)
			convey.So(ae.Actor, convey.ShouldEqual, model.Actor2)
		})

		convey.Convey("When the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := svc.Run(cctx, threeContactMatch())
			convey.So(errors.Is(err, context.Canceled), convey.ShouldBeTrue)
		})
	})
}

func TestServiceRunGenerated(t *testing.T) {
	convey.Convey("Given generated matches", t, func() {
		convey.So(logging.Init(), convey.ShouldBeNil)
		ctx := context.Background()

		for seed := int64(1); seed <= 20; seed++ {
			gen := testrally.New(testrally.WithSeed(seed))
			frames := 50 + gen.Intn(400)
			m := gen.Match(frames, gen.Intn(30))

			svc := service.New(service.WithWorkerCount(1 + int(seed%4)))
			rep, err := svc.Run(ctx, m)
			convey.So(err, convey.ShouldBeNil)

			segs := len(m.ContactFrames) - 1
			if segs < 0 {
				segs = 0
			}
			convey.So(rep.Segments, convey.ShouldHaveLength, segs)
			convey.So(rep.Snapshots, convey.ShouldHaveLength, segs+1)
			convey.So(rep.Rows, convey.ShouldHaveLength, frames)

			last := rep.Snapshots[len(rep.Snapshots)-1]
			convey.So(last.Of(model.Actor1).ShotCount+last.Of(model.Actor2).ShotCount, convey.ShouldEqual, segs)

			for _, d := range rep.Deltas {
				obs := m.Frames[d.Segment.Start]
				striker := model.Distance(obs.Actors[d.Striker], *obs.Object)
				opponent := model.Distance(obs.Actors[d.Opponent], *obs.Object)
				convey.So(striker, convey.ShouldBeLessThanOrEqualTo, opponent)
			}

			again, err := svc.Run(ctx, m)
			convey.So(err, convey.ShouldBeNil)
			convey.So(again.RunID, convey.ShouldNotEqual, rep.RunID)
			convey.So(cmp.Diff(rep.Rows, again.Rows), convey.ShouldBeEmpty)
		}
	})
}
