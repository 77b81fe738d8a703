package postgres

import (
	"github.com/okian/specialscout/internal/domain/model"
	"github.com/uptrace/bun"
)

// MatchResponse is one stored match submission.
type MatchResponse struct {
	bun.BaseModel `bun:"table:match_responses,alias:mr"`

	Timestamp         int32  `bun:"timestamp,notnull"`
	UUID              uint32 `bun:"uuid,notnull"`
	Event             string `bun:"event,notnull"`
	TeamNumber        uint32 `bun:"team_number,notnull"`
	MatchNumber       int16  `bun:"match_number,notnull"`
	DidPreload        bool   `bun:"did_preload,notnull"`
	DidTaxi           bool   `bun:"did_taxi,notnull"`
	GotFieldCargo     bool   `bun:"got_field_cargo,notnull"`
	DidHPShot         bool   `bun:"did_hp_shot,notnull"`
	DidHPSink         bool   `bun:"did_hp_sink,notnull"`
	AutoScoredLower   int16  `bun:"auto_scored_lower,notnull"`
	AutoScoredUpper   int16  `bun:"auto_scored_upper,notnull"`
	AutoShots         int16  `bun:"auto_shots,notnull"`
	TeleopScoredLower int16  `bun:"teleop_scored_lower,notnull"`
	TeleopScoredUpper int16  `bun:"teleop_scored_upper,notnull"`
	TeleopShots       int16  `bun:"teleop_shots,notnull"`
	Pins              int16  `bun:"pins,notnull"`
	TimesPinned       int16  `bun:"times_pinned,notnull"`
	Penalties         int16  `bun:"penalties,notnull"`
	Performance       int16  `bun:"performance,notnull"`
	RedScore          int32  `bun:"red_score,notnull"`
	BlueScore         int32  `bun:"blue_score,notnull"`
	Climb             int8   `bun:"climb,notnull"`
	Comment           string `bun:"comment,notnull"`
}

// PitResponse is one stored pit submission.
type PitResponse struct {
	bun.BaseModel `bun:"table:pit_responses,alias:pr"`

	Timestamp           int32   `bun:"timestamp,notnull"`
	UUID                uint32  `bun:"uuid,notnull"`
	Team                int32   `bun:"team,notnull"`
	TeamName            string  `bun:"team_name,notnull"`
	Weight              uint16  `bun:"weight,notnull"`
	Drivetrain          string  `bun:"drivetrain,notnull"`
	SizeX               float32 `bun:"size_x,notnull"`
	SizeY               float32 `bun:"size_y,notnull"`
	SizeZ               float32 `bun:"size_z,notnull"`
	CanShootAutoUpper   bool    `bun:"can_shoot_auto_upper,notnull"`
	CanShootAutoLower   bool    `bun:"can_shoot_auto_lower,notnull"`
	CanShootTeleopUpper bool    `bun:"can_shoot_teleop_upper,notnull"`
	CanShootTeleopLower bool    `bun:"can_shoot_teleop_lower,notnull"`
	Climb               int8    `bun:"climb,notnull"`
	BuildQuality        int16   `bun:"build_quality,notnull"`
	Confidence          int16   `bun:"confidence,notnull"`
	DriverTeam          int16   `bun:"driver_team,notnull"`
	Comment             string  `bun:"comment,notnull"`
	Image               []byte  `bun:"image,type:bytea"`
}

// TeamDetails is the aggregate row, one per team.
type TeamDetails struct {
	bun.BaseModel `bun:"table:team_details,alias:td"`

	Team            int64 `bun:"team,pk"`
	Matches         int64 `bun:"matches,notnull"`
	Taxi            bool  `bun:"taxi,notnull"`
	TaxiTrue        bool  `bun:"taxi_true,notnull"`
	Preload         bool  `bun:"preload,notnull"`
	AutoShoot       bool  `bun:"auto_shoot,notnull"`
	AutoShootTrue   bool  `bun:"auto_shoot_true,notnull"`
	AutoUpperAccum  int64 `bun:"auto_upper_accum,notnull"`
	AutoLowerAccum  int64 `bun:"auto_lower_accum,notnull"`
	ShotsAccum      int64 `bun:"shots_accum,notnull"`
	ShotsUpperAccum int64 `bun:"shots_upper_accum,notnull"`
	ShotsLowerAccum int64 `bun:"shots_lower_accum,notnull"`
	Climb           int64 `bun:"climb,notnull"`
	StatedClimb     int64 `bun:"stated_climb,notnull"`
	ScoreAccum      int64 `bun:"score_accum,notnull"`
}

// Image is the latest picture of a team.
type Image struct {
	bun.BaseModel `bun:"table:images,alias:img"`

	Team int64  `bun:"team,pk"`
	Img  []byte `bun:"img,type:bytea"`
}

// teamDetailsUpdate sets every non-key column from the proposed row.
const teamDetailsUpdate = "matches = EXCLUDED.matches, taxi = EXCLUDED.taxi, taxi_true = EXCLUDED.taxi_true, " +
	"preload = EXCLUDED.preload, auto_shoot = EXCLUDED.auto_shoot, auto_shoot_true = EXCLUDED.auto_shoot_true, " +
	"auto_upper_accum = EXCLUDED.auto_upper_accum, auto_lower_accum = EXCLUDED.auto_lower_accum, " +
	"shots_accum = EXCLUDED.shots_accum, shots_upper_accum = EXCLUDED.shots_upper_accum, " +
	"shots_lower_accum = EXCLUDED.shots_lower_accum, climb = EXCLUDED.climb, " +
	"stated_climb = EXCLUDED.stated_climb, score_accum = EXCLUDED.score_accum"

func newMatchResponse(submitter model.SubmitterID, m *model.MatchRecord) *MatchResponse {
	return &MatchResponse{
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

func newPitResponse(submitter model.SubmitterID, p *model.PitRecord) *PitResponse {
	return &PitResponse{
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

func newTeamDetails(a model.TeamAggregate) *TeamDetails {
	return &TeamDetails{
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

// Aggregate converts the row back to the domain value.
func (t *TeamDetails) Aggregate() model.TeamAggregate {
	return model.TeamAggregate{
		Team:            model.Team(t.Team),
		Matches:         t.Matches,
		Taxi:            t.Taxi,
		TaxiTrue:        t.TaxiTrue,
		Preload:         t.Preload,
		AutoShoot:       t.AutoShoot,
		AutoShootTrue:   t.AutoShootTrue,
		AutoUpperAccum:  t.AutoUpperAccum,
		AutoLowerAccum:  t.AutoLowerAccum,
		ShotsAccum:      t.ShotsAccum,
		ShotsUpperAccum: t.ShotsUpperAccum,
		ShotsLowerAccum: t.ShotsLowerAccum,
		Climb:           t.Climb,
		StatedClimb:     t.StatedClimb,
		ScoreAccum:      t.ScoreAccum,
	}
}
