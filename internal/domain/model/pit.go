package model

import "encoding/json"

// Size is a robot's bounding box as measured in the pit.
type Size struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

// PitRecord is one team's self-reported capabilities, gathered in the pit.
type PitRecord struct {
	TimeStamp           int32  `json:"time_stamp"`
	TeamName            string `json:"team_name"`
	Team                int32  `json:"team_number"`
	Drivetrain          string `json:"drivetrain"`
	Weight              uint16 `json:"weight"`
	Size                Size   `json:"size"`
	CanShootAutoUpper   bool   `json:"can_shoot_auto_upper"`
	CanShootAutoLower   bool   `json:"can_shoot_auto_lower"`
	CanShootTeleopUpper bool   `json:"can_shoot_teleop_upper"`
	CanShootTeleopLower bool   `json:"can_shoot_teleop_lower"`
	Climb               int8   `json:"climb"`
	Comment             string `json:"comment"`
	BuildQuality        int16  `json:"build_quality"`
	DriverTeam          int16  `json:"driver_team"`
	Confidence          int16  `json:"confidence"`
	// Picture is an opaque blob or URI, stored as-is.
	Picture string `json:"picture"`
}

func (*PitRecord) sealed() {}

// Kind returns KindPit.
func (*PitRecord) Kind() Kind { return KindPit }

// TeamNumber returns the reporting team.
func (p *PitRecord) TeamNumber() Team { return Team(p.Team) }

// CanShootAuto reports whether the team claims any autonomous shot.
func (p *PitRecord) CanShootAuto() bool {
	return p.CanShootAutoUpper || p.CanShootAutoLower
}

// MarshalJSON writes the record with its "type" tag.
func (p PitRecord) MarshalJSON() ([]byte, error) {
	type plain PitRecord
	return json.Marshal(struct {
		Type Kind `json:"type"`
		plain
	}{KindPit, plain(p)})
}
