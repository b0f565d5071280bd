package engine

import (
	"fmt"
)

// Config holds every tunable of the rule engine. It is passed in at
// construction so tests can vary bounds per case; nothing in this package
// reads ambient state.
type Config struct {
	MinDifficulty int
	MaxDifficulty int

	// ConsecutiveCorrectThreshold is the trailing streak length the
	// consistency rule requires before it fires.
	ConsecutiveCorrectThreshold int

	// ErrorRateThreshold is the window error rate at or above which the
	// error-rate rule fires.
	ErrorRateThreshold float64

	// FastResponseSeconds is the fixed fast-response cutoff for the speed
	// rule. 5 seconds, matching the platform's historical constant.
	FastResponseSeconds float64

	// HighAccuracyThreshold is the window accuracy the speed rule requires
	// alongside a fast correct answer.
	HighAccuracyThreshold float64

	// AttemptWindow bounds how many trailing attempts the rules consider.
	AttemptWindow int
}

func DefaultConfig() Config {
	return Config{
		MinDifficulty:               1,
		MaxDifficulty:               5,
		ConsecutiveCorrectThreshold: 3,
		ErrorRateThreshold:          0.5,
		FastResponseSeconds:         5,
		HighAccuracyThreshold:       0.8,
		AttemptWindow:               10,
	}
}

func (c Config) Validate() error {
	if c.MinDifficulty < 1 {
		return fmt.Errorf("min difficulty must be at least 1, got %d", c.MinDifficulty)
	}
	if c.MaxDifficulty < c.MinDifficulty {
		return fmt.Errorf("max difficulty %d is below min difficulty %d", c.MaxDifficulty, c.MinDifficulty)
	}
	if c.ConsecutiveCorrectThreshold < 1 {
		return fmt.Errorf("consecutive correct threshold must be at least 1, got %d", c.ConsecutiveCorrectThreshold)
	}
	if c.ErrorRateThreshold <= 0 || c.ErrorRateThreshold > 1 {
		return fmt.Errorf("error rate threshold must be in (0,1], got %v", c.ErrorRateThreshold)
	}
	if c.FastResponseSeconds <= 0 {
		return fmt.Errorf("fast response seconds must be positive, got %v", c.FastResponseSeconds)
	}
	if c.HighAccuracyThreshold <= 0 || c.HighAccuracyThreshold > 1 {
		return fmt.Errorf("high accuracy threshold must be in (0,1], got %v", c.HighAccuracyThreshold)
	}
	if c.AttemptWindow < 1 {
		return fmt.Errorf("attempt window must be at least 1, got %d", c.AttemptWindow)
	}
	return nil
}
