// Package scoring computes the deterministic performance estimate of one match.
package scoring

// Point weights per scoring action.
const (
	taxiPoints        = 2
	autoUpperWeight   = 4
	autoLowerWeight   = 2
	teleopUpperWeight = 2
	teleopLowerWeight = 1
)

// Climb codes as submitted by scouts.
const (
	ClimbNone    int8 = -1
	ClimbAttempt int8 = 0
	ClimbLow     int8 = 1
	ClimbMid     int8 = 2
	ClimbHigh    int8 = 3
)

var climbBonus = map[int8]int64{ //nolint:gochecknoglobals // fixed lookup table
	ClimbNone:    0,
	ClimbAttempt: 4,
	ClimbLow:     6,
	ClimbMid:     10,
	ClimbHigh:    15,
}

// ClimbBonus returns the points awarded for a climb code. Unknown codes score 0.
func ClimbBonus(code int8) int64 {
	return climbBonus[code]
}

// Estimate returns the score of a single match. Counters are not range
// checked; negative inputs lower the result.
func Estimate(didTaxi bool, autoUpper, autoLower, teleopUpper, teleopLower int16, climb int8) int64 {
	var score int64
	if didTaxi {
		score += taxiPoints
	}
	score += autoUpperWeight * int64(autoUpper)
	score += autoLowerWeight * int64(autoLower)
	score += teleopUpperWeight * int64(teleopUpper)
	score += teleopLowerWeight * int64(teleopLower)
	score += ClimbBonus(climb)
	return score
}
