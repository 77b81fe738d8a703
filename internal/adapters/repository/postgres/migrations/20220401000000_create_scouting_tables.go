package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			for _, stmt := range []string{
				`CREATE TABLE IF NOT EXISTS match_responses (
					timestamp           INTEGER  NOT NULL,
					uuid                BIGINT   NOT NULL,
					event               TEXT     NOT NULL,
					team_number         BIGINT   NOT NULL,
					match_number        SMALLINT NOT NULL,
					did_preload         BOOLEAN  NOT NULL,
					did_taxi            BOOLEAN  NOT NULL,
					got_field_cargo     BOOLEAN  NOT NULL,
					did_hp_shot         BOOLEAN  NOT NULL,
					did_hp_sink         BOOLEAN  NOT NULL,
					auto_scored_lower   SMALLINT NOT NULL,
					auto_scored_upper   SMALLINT NOT NULL,
					auto_shots          SMALLINT NOT NULL,
					teleop_scored_lower SMALLINT NOT NULL,
					teleop_scored_upper SMALLINT NOT NULL,
					teleop_shots        SMALLINT NOT NULL,
					pins                SMALLINT NOT NULL,
					times_pinned        SMALLINT NOT NULL,
					penalties           SMALLINT NOT NULL,
					performance         SMALLINT NOT NULL,
					red_score           INTEGER  NOT NULL,
					blue_score          INTEGER  NOT NULL,
					climb               SMALLINT NOT NULL,
					comment             TEXT     NOT NULL
				)`,
				`CREATE TABLE IF NOT EXISTS pit_responses (
					timestamp              INTEGER  NOT NULL,
					uuid                   BIGINT   NOT NULL,
					team                   INTEGER  NOT NULL,
					team_name              TEXT     NOT NULL,
					weight                 INTEGER  NOT NULL,
					drivetrain             TEXT     NOT NULL,
					size_x                 REAL     NOT NULL,
					size_y                 REAL     NOT NULL,
					size_z                 REAL     NOT NULL,
					can_shoot_auto_upper   BOOLEAN  NOT NULL,
					can_shoot_auto_lower   BOOLEAN  NOT NULL,
					can_shoot_teleop_upper BOOLEAN  NOT NULL,
					can_shoot_teleop_lower BOOLEAN  NOT NULL,
					climb                  SMALLINT NOT NULL,
					build_quality          SMALLINT NOT NULL,
					confidence             SMALLINT NOT NULL,
					driver_team            SMALLINT NOT NULL,
					comment                TEXT     NOT NULL,
					image                  BYTEA
				)`,
				`CREATE TABLE IF NOT EXISTS team_details (
					team              BIGINT  PRIMARY KEY,
					matches           BIGINT  NOT NULL,
					taxi              BOOLEAN NOT NULL,
					taxi_true         BOOLEAN NOT NULL,
					preload           BOOLEAN NOT NULL,
					auto_shoot        BOOLEAN NOT NULL,
					auto_shoot_true   BOOLEAN NOT NULL,
					auto_upper_accum  BIGINT  NOT NULL DEFAULT 0,
					auto_lower_accum  BIGINT  NOT NULL DEFAULT 0,
					shots_accum       BIGINT  NOT NULL DEFAULT 0,
					shots_upper_accum BIGINT  NOT NULL DEFAULT 0,
					shots_lower_accum BIGINT  NOT NULL DEFAULT 0,
					climb             BIGINT  NOT NULL DEFAULT 0,
					stated_climb      BIGINT  NOT NULL DEFAULT 0,
					score_accum       BIGINT  NOT NULL DEFAULT 0
				)`,
				`CREATE TABLE IF NOT EXISTS images (
					team BIGINT PRIMARY KEY,
					img  BYTEA
				)`,
			} {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("create scouting tables: %w", err)
				}
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		_, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS images, team_details, pit_responses, match_responses`)
		if err != nil {
			return fmt.Errorf("drop scouting tables: %w", err)
		}
		return nil
	})
}
