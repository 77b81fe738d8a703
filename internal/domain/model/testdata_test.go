package model_test

const matchJSON = `{
	"type": "match",
	"timestamp": 1650000000,
	"event": "2022cmptx",
	"match_number": 12,
	"team_number": 118,
	"did_preload": true,
	"did_taxi": true,
	"got_field_cargo": false,
	"did_hp_shot": false,
	"did_hp_sink": false,
	"auto_scored_lower": 1,
	"auto_scored_upper": 2,
	"auto_shots": 3,
	"teleop_scored_lower": 0,
	"teleop_scored_upper": 3,
	"teleop_shots": 5,
	"pins": 0,
	"times_pinned": 1,
	"penalties": 0,
	"climb": 3,
	"performance": 4,
	"comments": "fast cycles",
	"red_score": 88,
	"blue_score": 70
}`

const pitJSON = `{
	"type": "pit",
	"time_stamp": 1650000100,
	"team_name": "Robonauts",
	"team_number": 202,
	"drivetrain": "swerve",
	"weight": 120,
	"size": {"x": 28.5, "y": 30, "z": 40},
	"can_shoot_auto_upper": true,
	"can_shoot_auto_lower": false,
	"can_shoot_teleop_upper": true,
	"can_shoot_teleop_lower": true,
	"climb": 2,
	"comment": "",
	"build_quality": 5,
	"driver_team": 4,
	"confidence": 3,
	"picture": "data:image/png;base64,AAAA"
}`
