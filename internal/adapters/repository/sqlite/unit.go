package sqlite

import (
	"context"
	"database/sql"
	"errors"

	repository "github.com/okian/specialscout/internal/adapters/repository"
	"github.com/okian/specialscout/internal/domain/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// unit pins one pooled connection for the life of its transaction.
type unit struct {
	conn *sql.Conn
	tx   *gorm.DB
	done bool
}

func (u *unit) InsertRaw(ctx context.Context, submitter model.SubmitterID, rec model.Record) error {
	if u.done {
		return repository.ErrUnitClosed
	}
	row := model.Dispatch(rec,
		func(m *model.MatchRecord) any { return newMatchRow(submitter, m) },
		func(p *model.PitRecord) any { return newPitRow(submitter, p) },
	)
	return u.tx.WithContext(ctx).Create(row).Error
}

func (u *unit) FetchAggregate(ctx context.Context, team model.Team) (model.TeamAggregate, bool, error) {
	if u.done {
		return model.TeamAggregate{}, false, repository.ErrUnitClosed
	}
	var row teamRow
	err := u.tx.WithContext(ctx).Where("team = ?", int64(team)).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.TeamAggregate{}, false, nil
	}
	if err != nil {
		return model.TeamAggregate{}, false, err
	}
	return row.aggregate(), true, nil
}

func (u *unit) UpsertAggregate(ctx context.Context, agg model.TeamAggregate) error {
	if u.done {
		return repository.ErrUnitClosed
	}
	return u.tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "team"}},
		UpdateAll: true,
	}).Create(newTeamRow(agg)).Error
}

func (u *unit) UpsertImage(ctx context.Context, team model.Team, img []byte) error {
	if u.done {
		return repository.ErrUnitClosed
	}
	return u.tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "team"}},
		DoUpdates: clause.AssignmentColumns([]string{"img"}),
	}).Create(&imageRow{Team: int64(team), Img: img}).Error
}

func (u *unit) Commit(_ context.Context) error {
	if u.done {
		return repository.ErrUnitClosed
	}
	err := u.tx.Commit().Error
	if err != nil {
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
	err := u.tx.Rollback().Error
	if errors.Is(err, sql.ErrTxDone) {
		err = nil
	}
	return errors.Join(err, u.conn.Close())
}
