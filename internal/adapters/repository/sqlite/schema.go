package sqlite

import (
	"github.com/okian/specialscout/internal/domain/model"
)

// schema is applied on every start; existing tables are left alone.
var schema = []string{ //nolint:gochecknoglobals // static DDL
	`CREATE TABLE IF NOT EXISTS "match_responses" (
		"timestamp"           INTEGER NOT NULL,
		"uuid"                INTEGER NOT NULL,
		"event"               TEXT    NOT NULL,
		"team_number"         INTEGER NOT NULL,
		"match_number"        INTEGER NOT NULL,
		"did_preload"         INTEGER NOT NULL,
		"did_taxi"            INTEGER NOT NULL,
		"got_field_cargo"     INTEGER NOT NULL,
		"did_hp_shot"         INTEGER NOT NULL,
		"did_hp_sink"         INTEGER NOT NULL,
		"auto_scored_lower"   INTEGER NOT NULL,
		"auto_scored_upper"   INTEGER NOT NULL,
		"auto_shots"          INTEGER NOT NULL,
		"teleop_scored_lower" INTEGER NOT NULL,
		"teleop_scored_upper" INTEGER NOT NULL,
		"teleop_shots"        INTEGER NOT NULL,
		"pins"                INTEGER NOT NULL,
		"times_pinned"        INTEGER NOT NULL,
		"penalties"           INTEGER NOT NULL,
		"performance"         INTEGER NOT NULL,
		"red_score"           INTEGER NOT NULL,
		"blue_score"          INTEGER NOT NULL,
		"climb"               INTEGER NOT NULL,
		"comment"             TEXT    NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS "pit_responses" (
		"timestamp"              INTEGER NOT NULL,
		"uuid"                   INTEGER NOT NULL,
		"team"                   INTEGER NOT NULL,
		"team_name"              TEXT    NOT NULL,
		"weight"                 INTEGER NOT NULL,
		"drivetrain"             TEXT    NOT NULL,
		"size_x"                 REAL    NOT NULL,
		"size_y"                 REAL    NOT NULL,
		"size_z"                 REAL    NOT NULL,
		"can_shoot_auto_upper"   INTEGER NOT NULL,
		"can_shoot_auto_lower"   INTEGER NOT NULL,
		"can_shoot_teleop_upper" INTEGER NOT NULL,
		"can_shoot_teleop_lower" INTEGER NOT NULL,
		"climb"                  INTEGER NOT NULL,
		"build_quality"          INTEGER NOT NULL,
		"confidence"             INTEGER NOT NULL,
		"driver_team"            INTEGER NOT NULL,
		"comment"                TEXT    NOT NULL,
		"image"                  BLOB
	)`,
	`CREATE TABLE IF NOT EXISTS "team_details" (
		"team"              INTEGER NOT NULL UNIQUE,
		"matches"           INTEGER NOT NULL,
		"taxi"              INTEGER NOT NULL,
		"taxi_true"         INTEGER NOT NULL,
		"preload"           INTEGER NOT NULL,
		"auto_shoot"        INTEGER NOT NULL,
		"auto_shoot_true"   INTEGER NOT NULL,
		"auto_upper_accum"  INTEGER NOT NULL DEFAULT 0,
		"auto_lower_accum"  INTEGER NOT NULL DEFAULT 0,
		"shots_accum"       INTEGER NOT NULL DEFAULT 0,
		"shots_upper_accum" INTEGER NOT NULL DEFAULT 0,
		"shots_lower_accum" INTEGER NOT NULL DEFAULT 0,
		"climb"             INTEGER NOT NULL DEFAULT 0,
		"stated_climb"      INTEGER NOT NULL DEFAULT 0,
		"score_accum"       INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY("team")
	)`,
	`CREATE TABLE IF NOT EXISTS "images" (
		"team" INTEGER NOT NULL UNIQUE,
		"img"  BLOB,
		PRIMARY KEY("team")
	)`,
}

type matchRow struct {
	Timestamp         int32  `gorm:"column:timestamp"`
	UUID              uint32 `gorm:"column:uuid"`
	Event             string `gorm:"column:event"`
	TeamNumber        uint32 `gorm:"column:team_number"`
	MatchNumber       int16  `gorm:"column:match_number"`
	DidPreload        bool   `gorm:"column:did_preload"`
	DidTaxi           bool   `gorm:"column:did_taxi"`
	GotFieldCargo     bool   `gorm:"column:got_field_cargo"`
	DidHPShot         bool   `gorm:"column:did_hp_shot"`
	DidHPSink         bool   `gorm:"column:did_hp_sink"`
	AutoScoredLower   int16  `gorm:"column:auto_scored_lower"`
	AutoScoredUpper   int16  `gorm:"column:auto_scored_upper"`
	AutoShots         int16  `gorm:"column:auto_shots"`
	TeleopScoredLower int16  `gorm:"column:teleop_scored_lower"`
	TeleopScoredUpper int16  `gorm:"column:teleop_scored_upper"`
	TeleopShots       int16  `gorm:"column:teleop_shots"`
	Pins              int16  `gorm:"column:pins"`
	TimesPinned       int16  `gorm:"column:times_pinned"`
	Penalties         int16  `gorm:"column:penalties"`
	Performance       int16  `gorm:"column:performance"`
	RedScore          int32  `gorm:"column:red_score"`
	BlueScore         int32  `gorm:"column:blue_score"`
	Climb             int8   `gorm:"column:climb"`
	Comment           string `gorm:"column:comment"`
}

func (matchRow) TableName() string { return "match_responses" }

func newMatchRow(submitter model.SubmitterID, m *model.MatchRecord) *matchRow {
	return &matchRow{
		Timestamp:         m.Timestamp,
		UUID:              uint32(submitter),
		Event:             m.Event,
		TeamNumber:        m.Team,
		MatchNumber:       m.MatchNumber,
		DidPreload:        m.DidPreload,
		DidTaxi:           m.DidTaxi,
		GotFieldCargo:     m.GotFieldCargo,
		DidHPShot:         m.DidHPShot,
		DidHPSink:         m.DidHPSink,
		AutoScoredLower:   m.AutoScoredLower,
		AutoScoredUpper:   m.AutoScoredUpper,
		AutoShots:         m.AutoShots,
		TeleopScoredLower: m.TeleopScoredLower,
		TeleopScoredUpper: m.TeleopScoredUpper,
		TeleopShots:       m.TeleopShots,
		Pins:              m.Pins,
		TimesPinned:       m.TimesPinned,
		Penalties:         m.Penalties,
		Performance:       m.Performance,
		RedScore:          m.RedScore,
		BlueScore:         m.BlueScore,
		Climb:             m.Climb,
		Comment:           m.Comments,
	}
}

type pitRow struct {
	Timestamp           int32   `gorm:"column:timestamp"`
	UUID                uint32  `gorm:"column:uuid"`
	Team                int32   `gorm:"column:team"`
	TeamName            string  `gorm:"column:team_name"`
	Weight              uint16  `gorm:"column:weight"`
	Drivetrain          string  `gorm:"column:drivetrain"`
	SizeX               float32 `gorm:"column:size_x"`
	SizeY               float32 `gorm:"column:size_y"`
	SizeZ               float32 `gorm:"column:size_z"`
	CanShootAutoUpper   bool    `gorm:"column:can_shoot_auto_upper"`
	CanShootAutoLower   bool    `gorm:"column:can_shoot_auto_lower"`
	CanShootTeleopUpper bool    `gorm:"column:can_shoot_teleop_upper"`
	CanShootTeleopLower bool    `gorm:"column:can_shoot_teleop_lower"`
	Climb               int8    `gorm:"column:climb"`
	BuildQuality        int16   `gorm:"column:build_quality"`
	Confidence          int16   `gorm:"column:confidence"`
	DriverTeam          int16   `gorm:"column:driver_team"`
	Comment             string  `gorm:"column:comment"`
	Image               []byte  `gorm:"column:image"`
}

func (pitRow) TableName() string { return "pit_responses" }

func newPitRow(submitter model.SubmitterID, p *model.PitRecord) *pitRow {
	return &pitRow{
		Timestamp:           p.TimeStamp,
		UUID:                uint32(submitter),
		Team:                p.Team,
		TeamName:            p.TeamName,
		Weight:              p.Weight,
		Drivetrain:          p.Drivetrain,
		SizeX:               p.Size.X,
		SizeY:               p.Size.Y,
		SizeZ:               p.Size.Z,
		CanShootAutoUpper:   p.CanShootAutoUpper,
		CanShootAutoLower:   p.CanShootAutoLower,
		CanShootTeleopUpper: p.CanShootTeleopUpper,
		CanShootTeleopLower: p.CanShootTeleopLower,
		Climb:               p.Climb,
		BuildQuality:        p.BuildQuality,
		Confidence:          p.Confidence,
		DriverTeam:          p.DriverTeam,
		Comment:             p.Comment,
		Image:               []byte(p.Picture),
	}
}

type teamRow struct {
	Team            int64 `gorm:"column:team;primaryKey;autoIncrement:false"`
	Matches         int64 `gorm:"column:matches"`
	Taxi            bool  `gorm:"column:taxi"`
	TaxiTrue        bool  `gorm:"column:taxi_true"`
	Preload         bool  `gorm:"column:preload"`
	AutoShoot       bool  `gorm:"column:auto_shoot"`
	AutoShootTrue   bool  `gorm:"column:auto_shoot_true"`
	AutoUpperAccum  int64 `gorm:"column:auto_upper_accum"`
	AutoLowerAccum  int64 `gorm:"column:auto_lower_accum"`
	ShotsAccum      int64 `gorm:"column:shots_accum"`
	ShotsUpperAccum int64 `gorm:"column:shots_upper_accum"`
	ShotsLowerAccum int64 `gorm:"column:shots_lower_accum"`
	Climb           int64 `gorm:"column:climb"`
	StatedClimb     int64 `gorm:"column:stated_climb"`
	ScoreAccum      int64 `gorm:"column:score_accum"`
}

func (teamRow) TableName() string { return "team_details" }

func newTeamRow(a model.TeamAggregate) *teamRow {
	return &teamRow{
		Team:            int64(a.Team),
		Matches:         a.Matches,
		Taxi:            a.Taxi,
		TaxiTrue:        a.TaxiTrue,
		Preload:         a.Preload,
		AutoShoot:       a.AutoShoot,
		AutoShootTrue:   a.AutoShootTrue,
		AutoUpperAccum:  a.AutoUpperAccum,
		AutoLowerAccum:  a.AutoLowerAccum,
		ShotsAccum:      a.ShotsAccum,
		ShotsUpperAccum: a.ShotsUpperAccum,
		ShotsLowerAccum: a.ShotsLowerAccum,
		Climb:           a.Climb,
		StatedClimb:     a.StatedClimb,
		ScoreAccum:      a.ScoreAccum,
	}
}

func (r *teamRow) aggregate() model.TeamAggregate {
	return model.TeamAggregate{
		Team:            model.Team(r.Team),
		Matches:         r.Matches,
		Taxi:            r.Taxi,
		TaxiTrue:        r.TaxiTrue,
		Preload:         r.Preload,
		AutoShoot:       r.AutoShoot,
		AutoShootTrue:   r.AutoShootTrue,
		AutoUpperAccum:  r.AutoUpperAccum,
		AutoLowerAccum:  r.AutoLowerAccum,
		ShotsAccum:      r.ShotsAccum,
		ShotsUpperAccum: r.ShotsUpperAccum,
		ShotsLowerAccum: r.ShotsLowerAccum,
		Climb:           r.Climb,
		StatedClimb:     r.StatedClimb,
		ScoreAccum:      r.ScoreAccum,
	}
}

type imageRow struct {
	Team int64  `gorm:"column:team;primaryKey;autoIncrement:false"`
	Img  []byte `gorm:"column:img"`
}

func (imageRow) TableName() string { return "images" }
