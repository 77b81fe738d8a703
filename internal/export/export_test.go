package export

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/okian/specialscout/internal/domain/model"
	"github.com/okian/specialscout/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/xuri/excelize/v2"
)

func init() {
	_ = logger.Init()
}

type source struct {
	aggs []model.TeamAggregate
	err  error
}

func (s source) TeamAggregates(context.Context) ([]model.TeamAggregate, error) {
	return s.aggs, s.err
}

func TestWrite(t *testing.T) {
	Convey("Given two aggregates", t, func() {
		aggs := []model.TeamAggregate{
			{Team: 118, Matches: 2, Taxi: true, TaxiTrue: true, AutoUpperAccum: 3, Climb: 3, StatedClimb: 2, ScoreAccum: 72},
			{Team: 202, AutoShoot: true, StatedClimb: 1},
		}

		Convey("When they are written", func() {
			var buf bytes.Buffer
			So(Write(&buf, aggs), ShouldBeNil)

			f, err := excelize.OpenReader(&buf)
			So(err, ShouldBeNil)
			defer f.Close()

			Convey("Then there is one sheet with a header and a row per team", func() {
				So(f.GetSheetList(), ShouldResemble, []string{SheetName})
				rows, err := f.GetRows(SheetName)
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 3)
				So(rows[0], ShouldResemble, Columns)
				So(rows[0], ShouldHaveLength, 15)
				So(rows[1], ShouldResemble, []string{"118", "2", "TRUE", "TRUE", "FALSE", "FALSE", "FALSE", "3", "0", "0", "0", "0", "3", "2", "72"})
				So(rows[2][0], ShouldEqual, "202")
				So(rows[2][5], ShouldEqual, "TRUE")
			})
		})

		Convey("When there are none", func() {
			var buf bytes.Buffer
			So(Write(&buf, nil), ShouldBeNil)
			f, err := excelize.OpenReader(&buf)
			So(err, ShouldBeNil)
			defer f.Close()
			rows, err := f.GetRows(SheetName)
			So(err, ShouldBeNil)
			So(rows, ShouldHaveLength, 1)
		})
	})
}

func TestToFile(t *testing.T) {
	Convey("Given a source", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "team_details.xlsx")

		Convey("The workbook lands on disk", func() {
			n, err := ToFile(ctx, source{aggs: []model.TeamAggregate{{Team: 5}}}, path)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 1)

			f, err := excelize.OpenFile(path)
			So(err, ShouldBeNil)
			defer f.Close()
			v, err := f.GetCellValue(SheetName, "A2")
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "5")
		})

		Convey("Read failures are wrapped", func() {
			boom := errors.New("boom")
			_, err := ToFile(ctx, source{err: boom}, path)
			So(errors.Is(err, boom), ShouldBeTrue)
		})

		Convey("An unwritable path is an ErrWrite", func() {
			_, err := ToFile(ctx, source{}, filepath.Join(t.TempDir(), "missing", "x.xlsx"))
			So(errors.Is(err, ErrWrite), ShouldBeTrue)
		})
	})
}
