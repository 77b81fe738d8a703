// Package loadgen drives a running specialscout instance with synthetic
// scouting submissions and checks that the aggregates it reads back agree
// with what was sent.
package loadgen

import (
	"errors"
	"time"
)

// Config holds configuration for a load run.
type Config struct {
	BaseURL   string        // Base URL of the service
	Teams     int           // Number of distinct teams to submit for
	FirstTeam int64         // Team number of the first generated team
	Matches   int           // Match records per team
	Pits      int           // Pit records per team
	Workers   int           // Number of concurrent submitters
	Rate      float64       // Requests per second across all workers, 0 for unlimited
	Seed      uint64        // Seed for the record generator, 0 for random
	Mass      int           // Records per /dump_resps_mass request, 0 to post one by one
	Timeout   time.Duration // HTTP request timeout
	Verbose   bool          // Log every mismatch and request failure
}

// Stats holds run statistics.
type Stats struct {
	RunID            string
	RecordsGenerated int
	Requests         int64
	RecordsAccepted  int64
	RequestsFailed   int64
	TeamsVerified    int
	Mismatches       int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}

// Defaults.
const (
	DefaultBaseURL   = "http://localhost"
	DefaultTeams     = 10
	DefaultFirstTeam = 100
	DefaultMatches   = 12
	DefaultPits      = 1
	DefaultWorkers   = 8
	DefaultTimeout   = 10 * time.Second
)

var (
	// ErrInvalidConfig is returned for a config that cannot drive a run.
	ErrInvalidConfig = errors.New("invalid load configuration")
	// ErrUnhealthy is returned when the heartbeat check fails.
	ErrUnhealthy = errors.New("service is not healthy")
	// ErrMismatch is returned when a read-back aggregate disagrees with the
	// submitted records.
	ErrMismatch = errors.New("aggregate mismatch")
)

// DefaultConfig returns a config populated with the defaults above.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:   DefaultBaseURL,
		Teams:     DefaultTeams,
		FirstTeam: DefaultFirstTeam,
		Matches:   DefaultMatches,
		Pits:      DefaultPits,
		Workers:   DefaultWorkers,
		Timeout:   DefaultTimeout,
	}
}

// Validate reports the first unusable setting.
func (c *Config) Validate() error {
	switch {
	case c.BaseURL == "":
		return errors.Join(ErrInvalidConfig, errors.New("base url is empty"))
	case c.Teams <= 0:
		return errors.Join(ErrInvalidConfig, errors.New("teams must be positive"))
	case c.FirstTeam < 0:
		return errors.Join(ErrInvalidConfig, errors.New("first team must not be negative"))
	case c.Matches < 0 || c.Pits < 0:
		return errors.Join(ErrInvalidConfig, errors.New("record counts must not be negative"))
	case c.Workers <= 0:
		return errors.Join(ErrInvalidConfig, errors.New("workers must be positive"))
	case c.Rate < 0:
		return errors.Join(ErrInvalidConfig, errors.New("rate must not be negative"))
	case c.Mass < 0:
		return errors.Join(ErrInvalidConfig, errors.New("mass chunk must not be negative"))
	}
	return nil
}
