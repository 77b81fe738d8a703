package loadgen

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/okian/specialscout/internal/domain/model"
	"github.com/okian/specialscout/internal/domain/scoring"
	"github.com/okian/specialscout/pkg/logger"
)

// Counter ranges for generated match records.
const (
	maxAutoScored    = 4
	maxTeleopScored  = 12
	maxShotsExtra    = 6
	maxFouls         = 3
	maxPerformance   = 5
	maxAllianceScore = 180
	maxSubmitter     = 64
)

var (
	drivetrains = []string{"tank", "swerve", "mecanum", "west coast", "h-drive"} //nolint:gochecknoglobals // fixed lookup table
	events      = []string{"2022cmptx", "2022txhou", "2022casj", "2022nyro"}     //nolint:gochecknoglobals // fixed lookup table
)

// Submission is one record as it will be posted.
type Submission struct {
	Submitter model.SubmitterID
	Record    model.Record
}

// Expectation is what a team's aggregate must show once every submission
// for it has been applied.
type Expectation struct {
	Team       model.Team
	Matches    int64
	ScoreAccum int64
}

// Generator produces reproducible scouting records for a seed.
type Generator struct {
	faker *gofakeit.Faker
	now   func() time.Time
}

// NewGenerator returns a generator seeded with seed. A zero seed picks a
// random one.
func NewGenerator(seed uint64) *Generator {
	return &Generator{faker: gofakeit.New(seed), now: time.Now}
}

// Match returns a plausible match record for team.
func (g *Generator) Match(team model.Team, matchNumber int) *model.MatchRecord {
	f := g.faker
	teleopUpper := int16(f.Number(0, maxTeleopScored))
	teleopLower := int16(f.Number(0, maxTeleopScored))
	return &model.MatchRecord{
		Timestamp:         int32(g.now().Unix()),
		Event:             f.RandomString(events),
		MatchNumber:       int16(matchNumber),
		Team:              uint32(team),
		DidPreload:        f.Bool(),
		DidTaxi:           f.Bool(),
		GotFieldCargo:     f.Bool(),
		DidHPShot:         f.Bool(),
		DidHPSink:         f.Bool(),
		AutoScoredLower:   int16(f.Number(0, maxAutoScored)),
		AutoScoredUpper:   int16(f.Number(0, maxAutoScored)),
		AutoShots:         int16(f.Number(0, maxAutoScored)),
		TeleopScoredLower: teleopLower,
		TeleopScoredUpper: teleopUpper,
		TeleopShots:       teleopUpper + teleopLower + int16(f.Number(0, maxShotsExtra)),
		Pins:              int16(f.Number(0, maxFouls)),
		TimesPinned:       int16(f.Number(0, maxFouls)),
		Penalties:         int16(f.Number(0, maxFouls)),
		Climb:             int8(f.Number(int(scoring.ClimbNone), int(scoring.ClimbHigh))),
		Performance:       int16(f.Number(1, maxPerformance)),
		Comments:          f.Sentence(f.Number(3, 8)),
		RedScore:          int32(f.Number(0, maxAllianceScore)),
		BlueScore:         int32(f.Number(0, maxAllianceScore)),
	}
}

// Pit returns a plausible pit record for team.
func (g *Generator) Pit(team model.Team) *model.PitRecord {
	f := g.faker
	return &model.PitRecord{
		TimeStamp:           int32(g.now().Unix()),
		TeamName:            f.Company(),
		Team:                int32(team),
		Drivetrain:          f.RandomString(drivetrains),
		Weight:              uint16(f.Number(60, 125)),
		Size:                model.Size{X: f.Float32Range(20, 40), Y: f.Float32Range(20, 40), Z: f.Float32Range(20, 60)},
		CanShootAutoUpper:   f.Bool(),
		CanShootAutoLower:   f.Bool(),
		CanShootTeleopUpper: f.Bool(),
		CanShootTeleopLower: f.Bool(),
		Climb:               int8(f.Number(int(scoring.ClimbNone), int(scoring.ClimbHigh))),
		Comment:             f.Sentence(f.Number(3, 8)),
		BuildQuality:        int16(f.Number(1, maxPerformance)),
		DriverTeam:          int16(f.Number(1, maxPerformance)),
		Confidence:          int16(f.Number(1, maxPerformance)),
		Picture:             f.URL(),
	}
}

// generate builds every submission of a run in a shuffled order, so teams
// interleave, together with the per-team expectations.
func generate(ctx context.Context, config *Config, g *Generator, stats *Stats) ([]Submission, []Expectation, error) {
	logger.Get().Info(ctx, "generating records",
		logger.Int("teams", config.Teams),
		logger.Int("matchesPerTeam", config.Matches),
		logger.Int("pitsPerTeam", config.Pits))

	subs := make([]Submission, 0, config.Teams*(config.Matches+config.Pits))
	expected := make([]Expectation, config.Teams)

	for i := range config.Teams {
		if err := ctx.Err(); err != nil {
			return nil, nil, fmt.Errorf("context cancelled during generation: %w", err)
		}
		team := model.Team(config.FirstTeam + int64(i))
		exp := Expectation{Team: team}
		for m := range config.Matches {
			rec := g.Match(team, m+1)
			exp.Matches++
			exp.ScoreAccum += rec.Score()
			subs = append(subs, Submission{Submitter: g.submitter(), Record: rec})
		}
		for range config.Pits {
			subs = append(subs, Submission{Submitter: g.submitter(), Record: g.Pit(team)})
		}
		expected[i] = exp
	}

	g.faker.ShuffleAnySlice(subs)

	stats.RecordsGenerated = len(subs)
	logger.Get().Info(ctx, "generated records successfully", logger.Int("count", len(subs)))
	return subs, expected, nil
}

func (g *Generator) submitter() model.SubmitterID {
	return model.SubmitterID(g.faker.Number(1, maxSubmitter))
}
