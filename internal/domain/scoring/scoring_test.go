package scoring_test

import (
	"math"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	scoring "github.com/okian/specialscout/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEstimate(t *testing.T) {
	Convey("Given the match score estimator", t, func() {
		Convey("When a team taxis, scores one upper auto ball and climbs mid", func() {
			So(scoring.Estimate(true, 1, 0, 0, 0, scoring.ClimbMid), ShouldEqual, 16)
		})

		Convey("When a team has a full auto and teleop and climbs high", func() {
			So(scoring.Estimate(true, 2, 1, 3, 0, scoring.ClimbHigh), ShouldEqual, 33)
		})

		Convey("When the climb code is unknown", func() {
			Convey("Then the climb contributes nothing", func() {
				So(scoring.Estimate(false, 0, 0, 0, 0, 99), ShouldEqual, 0)
				So(scoring.Estimate(true, 1, 1, 1, 1, -7), ShouldEqual, 2+4+2+2+1)
			})
		})

		Convey("When nothing happened and no climb was attempted", func() {
			So(scoring.Estimate(false, 0, 0, 0, 0, scoring.ClimbNone), ShouldEqual, 0)
		})

		Convey("When counters are negative", func() {
			Convey("Then they are not rejected", func() {
				So(scoring.Estimate(false, -1, 0, 0, 0, scoring.ClimbNone), ShouldEqual, -4)
			})
		})

		Convey("When counters are at their limits", func() {
			Convey("Then the sum does not overflow", func() {
				got := scoring.Estimate(true, math.MaxInt16, math.MaxInt16, math.MaxInt16, math.MaxInt16, scoring.ClimbHigh)
				So(got, ShouldEqual, int64(2+9*math.MaxInt16+15))
			})
		})
	})
}

func TestClimbBonus(t *testing.T) {
	Convey("Climb bonuses follow the code table", t, func() {
		So(scoring.ClimbBonus(scoring.ClimbNone), ShouldEqual, 0)
		So(scoring.ClimbBonus(scoring.ClimbAttempt), ShouldEqual, 4)
		So(scoring.ClimbBonus(scoring.ClimbLow), ShouldEqual, 6)
		So(scoring.ClimbBonus(scoring.ClimbMid), ShouldEqual, 10)
		So(scoring.ClimbBonus(scoring.ClimbHigh), ShouldEqual, 15)
		So(scoring.ClimbBonus(4), ShouldEqual, 0)
	})
}

func TestEstimateIsLinear(t *testing.T) {
	Convey("Given random counters", t, func() {
		f := gofakeit.New(7)

		for i := 0; i < 200; i++ {
			au := int16(f.IntRange(0, 20))
			al := int16(f.IntRange(0, 20))
			tu := int16(f.IntRange(0, 40))
			tl := int16(f.IntRange(0, 40))
			climb := int8(f.IntRange(-1, 3))

			base := scoring.Estimate(false, 0, 0, 0, 0, climb)
			got := scoring.Estimate(true, au, al, tu, tl, climb)

			So(got-base, ShouldEqual, 2+4*int64(au)+2*int64(al)+2*int64(tu)+int64(tl))
		}
	})
}
