package postgres

import (
	"context"
	"database/sql"
	"errors"

	repository "github.com/okian/specialscout/internal/adapters/repository"
	"github.com/okian/specialscout/internal/domain/model"
	"github.com/uptrace/bun"
)

// unit pins one pooled connection for the life of its transaction.
type unit struct {
	conn bun.Conn
	tx   bun.Tx
	done bool
}

func (u *unit) InsertRaw(ctx context.Context, submitter model.SubmitterID, rec model.Record) error {
	if u.done {
		return repository.ErrUnitClosed
	}
	row := model.Dispatch(rec,
		func(m *model.MatchRecord) any { return newMatchResponse(submitter, m) },
		func(p *model.PitRecord) any { return newPitResponse(submitter, p) },
	)
	_, err := u.tx.NewInsert().Model(row).Exec(ctx)
	return err
}

func (u *unit) FetchAggregate(ctx context.Context, team model.Team) (model.TeamAggregate, bool, error) {
	if u.done {
		return model.TeamAggregate{}, false, repository.ErrUnitClosed
	}
	var row TeamDetails
	err := u.tx.NewSelect().Model(&row).Where("team = ?", int64(team)).Scan(ctx)
	if isNoRows(err) {
		return model.TeamAggregate{}, false, nil
	}
	if err != nil {
		return model.TeamAggregate{}, false, err
	}
	return row.Aggregate(), true, nil
}

func (u *unit) UpsertAggregate(ctx context.Context, agg model.TeamAggregate) error {
	if u.done {
		return repository.ErrUnitClosed
	}
	_, err := u.tx.NewInsert().
		Model(newTeamDetails(agg)).
		On("CONFLICT (team) DO UPDATE").
		Set(teamDetailsUpdate).
		Exec(ctx)
	return err
}

func (u *unit) UpsertImage(ctx context.Context, team model.Team, img []byte) error {
	if u.done {
		return repository.ErrUnitClosed
	}
	_, err := u.tx.NewInsert().
		Model(&Image{Team: int64(team), Img: img}).
		On("CONFLICT (team) DO UPDATE").
		Set("img = EXCLUDED.img").
		Exec(ctx)
	return err
}

func (u *unit) Commit(_ context.Context) error {
	if u.done {
		return repository.ErrUnitClosed
	}
	if err := u.tx.Commit(); err != nil {
		return err
	}
	u.done = true
	return u.conn.Close()
}

func (u *unit) Rollback(_ context.Context) error {
	if u.done {
		return nil
	}
	u.done = true
	err := u.tx.Rollback()
	if errors.Is(err, sql.ErrTxDone) {
		err = nil
	}
	return errors.Join(err, u.conn.Close())
}
