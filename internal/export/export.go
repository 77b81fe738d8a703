// Package export writes team aggregates to a spreadsheet.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/okian/specialscout/internal/domain/model"
	"github.com/okian/specialscout/pkg/logger"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding one row per team.
const SheetName = "team_details"

// Columns is the header row, in aggregate column order.
var Columns = []string{ //nolint:gochecknoglobals // fixed header
	"team", "matches", "taxi", "taxi_true", "preload", "auto_shoot", "auto_shoot_true",
	"auto_upper_accum", "auto_lower_accum", "shots_accum", "shots_upper_accum", "shots_lower_accum",
	"climb", "stated_climb", "score_accum",
}

// Source lists every team aggregate ordered by team.
type Source interface {
	TeamAggregates(ctx context.Context) ([]model.TeamAggregate, error)
}

// ErrWrite wraps spreadsheet failures.
var ErrWrite = errors.New("export: write workbook")

func row(a model.TeamAggregate) []interface{} {
	return []interface{}{
		int64(a.Team), a.Matches, a.Taxi, a.TaxiTrue, a.Preload, a.AutoShoot, a.AutoShootTrue,
		a.AutoUpperAccum, a.AutoLowerAccum, a.ShotsAccum, a.ShotsUpperAccum, a.ShotsLowerAccum,
		a.Climb, a.StatedClimb, a.ScoreAccum,
	}
}

// Workbook builds the spreadsheet for aggs. The caller closes it.
func Workbook(aggs []model.TeamAggregate) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), SheetName); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %w", ErrWrite, err)
	}

	header := make([]interface{}, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := setRow(f, 1, header); err != nil {
		_ = f.Close()
		return nil, err
	}
	for i, a := range aggs {
		if err := setRow(f, i+2, row(a)); err != nil {
			_ = f.Close()
			return nil, err
		}
	}
	return f, nil
}

func setRow(f *excelize.File, n int, cells []interface{}) error {
	axis, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err := f.SetSheetRow(SheetName, axis, &cells); err != nil {
		return fmt.Errorf("%w: row %d: %w", ErrWrite, n, err)
	}
	return nil
}

// Write streams the workbook for aggs to w.
func Write(w io.Writer, aggs []model.TeamAggregate) error {
	f, err := Workbook(aggs)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// ToFile reads every aggregate from src and writes them to path. It returns
// the number of teams written.
func ToFile(ctx context.Context, src Source, path string) (int, error) {
	aggs, err := src.TeamAggregates(ctx)
	if err != nil {
		return 0, fmt.Errorf("export: read aggregates: %w", err)
	}

	out, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err := Write(out, aggs); err != nil {
		_ = out.Close()
		return 0, err
	}
	if err := out.Close(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrWrite, err)
	}

	logger.Get().Info(ctx, "team details exported",
		logger.String("path", path),
		logger.Int("teams", len(aggs)))
	return len(aggs), nil
}
