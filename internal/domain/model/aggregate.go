package model

// TeamAggregate is the running summary of every submission about one team.
type TeamAggregate struct {
	Team    Team  `json:"team"`
	Matches int64 `json:"matches"`

	// Taxi is fixed when the row is created; TaxiTrue is the sticky flag.
	Taxi          bool `json:"taxi"`
	TaxiTrue      bool `json:"taxi_true"`
	Preload       bool `json:"preload"`
	AutoShoot     bool `json:"auto_shoot"`
	AutoShootTrue bool `json:"auto_shoot_true"`

	AutoUpperAccum  int64 `json:"auto_upper_accum"`
	AutoLowerAccum  int64 `json:"auto_lower_accum"`
	ShotsAccum      int64 `json:"shots_accum"`
	ShotsUpperAccum int64 `json:"shots_upper_accum"`
	ShotsLowerAccum int64 `json:"shots_lower_accum"`

	Climb       int64 `json:"climb"`
	StatedClimb int64 `json:"stated_climb"`
	ScoreAccum  int64 `json:"score_accum"`
}

// Seed builds the aggregate for a team seen for the first time.
func Seed(rec Record) TeamAggregate {
	return Dispatch(rec, seedMatch, seedPit)
}

func seedMatch(m *MatchRecord) TeamAggregate {
	autoShot := m.AutoShots > 0
	return TeamAggregate{
		Team:            m.TeamNumber(),
		Matches:         1,
		Taxi:            m.DidTaxi,
		TaxiTrue:        m.DidTaxi,
		Preload:         m.DidPreload,
		AutoShoot:       autoShot,
		AutoShootTrue:   autoShot,
		AutoUpperAccum:  int64(m.AutoScoredUpper),
		AutoLowerAccum:  int64(m.AutoScoredLower),
		ShotsAccum:      int64(m.TeleopShots),
		ShotsUpperAccum: int64(m.TeleopScoredUpper),
		ShotsLowerAccum: int64(m.TeleopScoredLower),
		Climb:           int64(m.Climb),
		StatedClimb:     int64(m.Climb),
		ScoreAccum:      m.Score(),
	}
}

// seedPit keeps climb at 0 since no match has been observed, but records
// the climb the team stated.
func seedPit(p *PitRecord) TeamAggregate {
	return TeamAggregate{
		Team:        p.TeamNumber(),
		AutoShoot:   p.CanShootAuto(),
		StatedClimb: int64(p.Climb),
	}
}

// Merge folds rec into a and returns the result.
// Pit records leave the aggregate unchanged.
func (a TeamAggregate) Merge(rec Record) TeamAggregate {
	return Dispatch(rec, a.mergeMatch, func(*PitRecord) TeamAggregate { return a })
}

func (a TeamAggregate) mergeMatch(m *MatchRecord) TeamAggregate {
	autoShot := m.AutoShots > 0

	a.Matches++
	a.TaxiTrue = a.TaxiTrue || m.DidTaxi
	a.Preload = a.Preload || m.DidPreload
	a.AutoShoot = a.AutoShoot || autoShot
	a.AutoShootTrue = a.AutoShootTrue || autoShot
	a.AutoUpperAccum += int64(m.AutoScoredUpper)
	a.AutoLowerAccum += int64(m.AutoScoredLower)
	a.ShotsAccum += int64(m.TeleopShots)
	a.ShotsUpperAccum += int64(m.TeleopScoredUpper)
	a.ShotsLowerAccum += int64(m.TeleopScoredLower)
	a.Climb = max(a.Climb, int64(m.Climb))
	a.ScoreAccum += m.Score()
	return a
}

// Apply seeds when existing is nil and merges otherwise.
func Apply(existing *TeamAggregate, rec Record) TeamAggregate {
	if existing == nil {
		return Seed(rec)
	}
	return existing.Merge(rec)
}
