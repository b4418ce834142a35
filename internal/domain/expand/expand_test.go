package expand_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/okian/rallystats/internal/domain/expand"
	"github.com/okian/rallystats/internal/domain/model"
	"github.com/okian/rallystats/internal/domain/stats"
	"github.com/okian/rallystats/internal/testrally"
	. "github.com/smartystreets/goconvey/convey"
)

func snapshot(frame int, p1, p2 model.ActorStats) model.Snapshot {
	return model.Snapshot{FrameNum: frame}.With(model.Actor1, p1).With(model.Actor2, p2)
}

func TestExpand(t *testing.T) {
	Convey("Given a seed and two snapshots", t, func() {
		seed := model.Snapshot{}
		s1 := snapshot(3,
			model.ActorStats{ShotCount: 1, TotalShotSpeed: 40, LastShotSpeed: 40},
			model.ActorStats{TotalMovementSpeed: 10, LastMovementSpeed: 10})
		s2 := snapshot(6,
			model.ActorStats{ShotCount: 1, TotalShotSpeed: 40, LastShotSpeed: 40, TotalMovementSpeed: 6, LastMovementSpeed: 6},
			model.ActorStats{ShotCount: 1, TotalShotSpeed: 60, LastShotSpeed: 60, TotalMovementSpeed: 10, LastMovementSpeed: 10})
		snaps := []model.Snapshot{seed, s1, s2}

		rows, err := expand.New().Expand(snaps, 9)
		So(err, ShouldBeNil)

		Convey("Then there is one row per frame", func() {
			So(rows, ShouldHaveLength, 9)
			for f, r := range rows {
				So(r.Frame, ShouldEqual, f)
			}
		})

		Convey("Then each row is forward-filled from the latest snapshot at or before it", func() {
			wantIdx := []int{0, 0, 0, 1, 1, 1, 2, 2, 2}
			for f, r := range rows {
				src := snaps[wantIdx[f]]
				So(r.SnapshotFrame, ShouldEqual, src.FrameNum)
				for _, id := range model.Actors {
					So(cmp.Diff(src.Of(id), r.Of(id).ActorStats), ShouldBeEmpty)
				}
			}
		})

		Convey("Then actors without shots report an undefined shot average", func() {
			r := rows[4]
			So(r.Of(model.Actor1).AverageShotSpeed, ShouldResemble, model.Average{Value: 40, Defined: true})
			So(r.Of(model.Actor2).AverageShotSpeed, ShouldResemble, model.Undefined)
			So(rows[0].Of(model.Actor1).AverageShotSpeed.Defined, ShouldBeFalse)
		})

		Convey("Then movement averages use the other actor's shot count", func() {
			// Frame 4: actor 2 moved 10 while actor 1 has 1 shot, actor 2 has 0 shots.
			r := rows[4]
			So(r.Of(model.Actor2).AverageMovementSpeed, ShouldResemble, model.Average{Value: 10, Defined: true})
			So(r.Of(model.Actor1).AverageMovementSpeed, ShouldResemble, model.Undefined)

			r = rows[8]
			So(r.Of(model.Actor1).AverageMovementSpeed, ShouldResemble, model.Average{Value: 6, Defined: true})
			So(r.Of(model.Actor2).AverageMovementSpeed, ShouldResemble, model.Average{Value: 10, Defined: true})
		})

		Convey("Then expanding again yields an identical table", func() {
			again, err := expand.New().Expand(snaps, 9)
			So(err, ShouldBeNil)
			So(cmp.Diff(rows, again), ShouldBeEmpty)
		})
	})

	Convey("Given the corrected denominator", t, func() {
		s1 := snapshot(2,
			model.ActorStats{ShotCount: 2, TotalShotSpeed: 80, TotalMovementSpeed: 9},
			model.ActorStats{ShotCount: 1, TotalShotSpeed: 30, TotalMovementSpeed: 12})
		e := expand.New(expand.WithDenominator(expand.DenominatorSelf))
		So(e.Denominator(), ShouldEqual, expand.DenominatorSelf)

		rows, err := e.Expand([]model.Snapshot{{}, s1}, 3)
		So(err, ShouldBeNil)

		Convey("Then movement averages use the actor's own shot count", func() {
			So(rows[2].Of(model.Actor1).AverageMovementSpeed.Value, ShouldEqual, 4.5)
			So(rows[2].Of(model.Actor2).AverageMovementSpeed.Value, ShouldEqual, 12)
		})

		Convey("And the literal denominator gives the cross-indexed values", func() {
			lit, err := expand.New().Expand([]model.Snapshot{{}, s1}, 3)
			So(err, ShouldBeNil)
			So(lit[2].Of(model.Actor1).AverageMovementSpeed.Value, ShouldEqual, 9)
			So(lit[2].Of(model.Actor2).AverageMovementSpeed.Value, ShouldEqual, 6)
		})
	})

	Convey("Given two snapshots at the same frame", t, func() {
		first := snapshot(0, model.ActorStats{ShotCount: 1, TotalShotSpeed: 5, LastShotSpeed: 5}, model.ActorStats{})
		rows, err := expand.New().Expand([]model.Snapshot{{}, first}, 2)
		So(err, ShouldBeNil)

		Convey("Then the later snapshot fills the row", func() {
			So(rows, ShouldHaveLength, 2)
			So(rows[0].Of(model.Actor1).ShotCount, ShouldEqual, 1)
			So(rows[1].Of(model.Actor1).ShotCount, ShouldEqual, 1)
		})
	})

	Convey("Given only the seed snapshot", t, func() {
		rows, err := expand.New().Expand([]model.Snapshot{{}}, 5)
		So(err, ShouldBeNil)

		Convey("Then every row is zeroed with undefined averages", func() {
			for _, r := range rows {
				So(r.SnapshotFrame, ShouldEqual, 0)
				for _, id := range model.Actors {
					So(r.Of(id).ActorStats, ShouldResemble, model.ActorStats{})
					So(r.Of(id).AverageShotSpeed, ShouldResemble, model.Undefined)
					So(r.Of(id).AverageMovementSpeed, ShouldResemble, model.Undefined)
				}
			}
		})
	})

	Convey("Given a snapshot past the last frame", t, func() {
		late := snapshot(10, model.ActorStats{ShotCount: 1}, model.ActorStats{})
		rows, err := expand.New().Expand([]model.Snapshot{{}, late}, 4)
		So(err, ShouldBeNil)
		So(rows[3].SnapshotFrame, ShouldEqual, 0)
	})

	Convey("Given zero frames", t, func() {
		rows, err := expand.New().Expand([]model.Snapshot{{}}, 0)
		So(err, ShouldBeNil)
		So(rows, ShouldBeEmpty)
	})

	Convey("Given malformed input", t, func() {
		e := expand.New()

		_, err := e.Expand(nil, 3)
		So(errors.Is(err, expand.ErrMissingSeed), ShouldBeTrue)

		_, err = e.Expand([]model.Snapshot{{FrameNum: 2}}, 3)
		So(errors.Is(err, expand.ErrMissingSeed), ShouldBeTrue)

		_, err = e.Expand([]model.Snapshot{{}, {FrameNum: 5}, {FrameNum: 4}}, 3)
		So(errors.Is(err, expand.ErrUnorderedSnapshots), ShouldBeTrue)

		_, err = e.Expand([]model.Snapshot{{}}, -1)
		So(errors.Is(err, expand.ErrNegativeFrames), ShouldBeTrue)
	})
}

func TestExpandProperties(t *testing.T) {
	Convey("Given snapshot sequences folded from random matches", t, func() {
		gen := testrally.New(testrally.WithSeed(3))

		Convey("Then every row equals the snapshot with the greatest frame_num at or before it", func() {
			for trial := 0; trial < 20; trial++ {
				total := 50 + trial*10
				frames := gen.ContactFrames(total, 2+trial)
				var deltas []stats.Delta
				for k := 0; k+1 < len(frames); k++ {
					striker := model.Actors[gen.Intn(2)]
					deltas = append(deltas, stats.Delta{
						Segment:       model.Segment{Start: frames[k], End: frames[k+1]},
						Striker:       striker,
						Opponent:      striker.Other(),
						ShotSpeed:     gen.Float64() * 100,
						OpponentSpeed: gen.Float64() * 20,
					})
				}
				snaps, err := stats.Fold(deltas)
				So(err, ShouldBeNil)

				rows, err := expand.New().Expand(snaps, total)
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, total)

				for f, r := range rows {
					want := snaps[0]
					for _, s := range snaps {
						if s.FrameNum <= f {
							want = s
						}
					}
					So(r.SnapshotFrame, ShouldEqual, want.FrameNum)
					for _, id := range model.Actors {
						So(r.Of(id).ActorStats, ShouldResemble, want.Of(id))
					}
				}
			}
		})
	})
}

func TestParseDenominator(t *testing.T) {
	Convey("Given denominator names", t, func() {
		d, err := expand.ParseDenominator("cross")
		So(err, ShouldBeNil)
		So(d, ShouldEqual, expand.DenominatorCross)

		d, err = expand.ParseDenominator(" SELF ")
		So(err, ShouldBeNil)
		So(d, ShouldEqual, expand.DenominatorSelf)

		d, err = expand.ParseDenominator("")
		So(err, ShouldBeNil)
		So(d, ShouldEqual, expand.DenominatorCross)

		_, err = expand.ParseDenominator("opponent")
		So(errors.Is(err, expand.ErrUnknownDenominator), ShouldBeTrue)

		So(expand.DenominatorCross.String(), ShouldEqual, "cross")
		So(expand.DenominatorSelf.String(), ShouldEqual, "self")
	})
}
