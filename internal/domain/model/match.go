package model

import (
	"encoding/json"

	"github.com/okian/specialscout/internal/domain/scoring"
)

// MatchRecord is one scout's observation of one team in one match.
type MatchRecord struct {
	Timestamp         int32  `json:"timestamp"`
	Event             string `json:"event"`
	MatchNumber       int16  `json:"match_number"`
	Team              uint32 `json:"team_number"`
	DidPreload        bool   `json:"did_preload"`
	DidTaxi           bool   `json:"did_taxi"`
	GotFieldCargo     bool   `json:"got_field_cargo"`
	DidHPShot         bool   `json:"did_hp_shot"`
	DidHPSink         bool   `json:"did_hp_sink"`
	AutoScoredLower   int16  `json:"auto_scored_lower"`
	AutoScoredUpper   int16  `json:"auto_scored_upper"`
	AutoShots         int16  `json:"auto_shots"`
	TeleopScoredLower int16  `json:"teleop_scored_lower"`
	TeleopScoredUpper int16  `json:"teleop_scored_upper"`
	TeleopShots       int16  `json:"teleop_shots"`
	Pins              int16  `json:"pins"`
	TimesPinned       int16  `json:"times_pinned"`
	Penalties         int16  `json:"penalties"`
	Climb             int8   `json:"climb"`
	Performance       int16  `json:"performance"`
	Comments          string `json:"comments"`
	RedScore          int32  `json:"red_score"`
	BlueScore         int32  `json:"blue_score"`
}

func (*MatchRecord) sealed() {}

// Kind returns KindMatch.
func (*MatchRecord) Kind() Kind { return KindMatch }

// TeamNumber returns the observed team.
func (m *MatchRecord) TeamNumber() Team { return Team(m.Team) }

// Score is the estimated points this team earned in the match.
func (m *MatchRecord) Score() int64 {
	return scoring.Estimate(m.DidTaxi, m.AutoScoredUpper, m.AutoScoredLower,
		m.TeleopScoredUpper, m.TeleopScoredLower, m.Climb)
}

// MarshalJSON writes the record with its "type" tag.
func (m MatchRecord) MarshalJSON() ([]byte, error) {
	type plain MatchRecord
	return json.Marshal(struct {
		Type Kind `json:"type"`
		plain
	}{KindMatch, plain(m)})
}
