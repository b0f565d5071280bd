package engine

import (
	"math"
	"strings"
	"time"

	"github.com/Libras-Play/adaptive-service/internal/logger"
)

// Mastery score weights. They summarize recent performance into [0,1] and
// must sum to 1. The split follows the platform's original scoring formula
// and is a tunable default, not a derived quantity.
const (
	masteryAccuracyWeight    = 0.5
	masteryConsistencyWeight = 0.3
	masterySpeedWeight       = 0.2
)

const reasonInsufficientData = "insufficient data"

// RuleBasedStrategy implements Strategy with three independent signal rules
// and a ±1 safety bound:
//
//  1. Consistency: trailing streak of correct answers → +1
//  2. Error rate: window error rate at or above threshold → -1
//  3. Speed: fast correct latest answer with high window accuracy → +1
//
// Rules never observe each other's output; the combiner collapses their sum
// to sign(sum) so a decision never moves more than one level.
type RuleBasedStrategy struct {
	cfg Config
	log *logger.Logger
}

func NewRuleBasedStrategy(cfg Config, baseLog *logger.Logger) (*RuleBasedStrategy, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if baseLog == nil {
		baseLog = logger.NewNop()
	}
	return &RuleBasedStrategy{
		cfg: cfg,
		log: baseLog.With("strategy", "RuleBasedStrategy"),
	}, nil
}

func (s *RuleBasedStrategy) Evaluate(dctx Context) (*Decision, error) {
	if err := s.validate(dctx); err != nil {
		return nil, err
	}

	window := dctx.RecentAttempts
	if len(window) > s.cfg.AttemptWindow {
		window = window[len(window)-s.cfg.AttemptWindow:]
	}

	if len(window) == 0 {
		return &Decision{
			CurrentDifficulty: dctx.CurrentDifficulty,
			NextDifficulty:    dctx.CurrentDifficulty,
			MasteryScore:      0.0,
			Reason:            reasonInsufficientData,
			Adjustments:       Adjustments{},
			ModelUsed:         false,
			Timestamp:         time.Now().UTC(),
		}, nil
	}

	errorRate := windowErrorRate(window)

	adj := Adjustments{
		Consistency: s.consistencyAdjustment(window),
		ErrorRate:   s.errorRateAdjustment(errorRate),
		Speed:       s.speedAdjustment(window, errorRate),
	}

	// Safety bound: agreement between rules never moves more than one level.
	raw := adj.Consistency + adj.ErrorRate + adj.Speed
	net := 0
	if raw > 0 {
		net = 1
	} else if raw < 0 {
		net = -1
	}

	next := clamp(dctx.CurrentDifficulty+net, s.cfg.MinDifficulty, s.cfg.MaxDifficulty)

	decision := &Decision{
		CurrentDifficulty: dctx.CurrentDifficulty,
		NextDifficulty:    next,
		MasteryScore:      s.masteryScore(errorRate, adj),
		Reason:            describeAdjustments(adj),
		Adjustments:       adj,
		ModelUsed:         false,
		Timestamp:         time.Now().UTC(),
	}

	s.log.Debug("Evaluated difficulty decision",
		"user_id", dctx.UserID,
		"learning_language", dctx.LearningLanguage,
		"exercise_type", dctx.ExerciseType,
		"current", dctx.CurrentDifficulty,
		"next", next,
		"mastery", decision.MasteryScore,
		"reason", decision.Reason,
	)
	return decision, nil
}

func (s *RuleBasedStrategy) validate(dctx Context) error {
	if dctx.CurrentDifficulty < s.cfg.MinDifficulty || dctx.CurrentDifficulty > s.cfg.MaxDifficulty {
		return newValidationError("current_difficulty", "%d outside [%d,%d]",
			dctx.CurrentDifficulty, s.cfg.MinDifficulty, s.cfg.MaxDifficulty)
	}
	for i, a := range dctx.RecentAttempts {
		if a.TimeSpentSeconds < 0 {
			return newValidationError("recent_attempts", "attempt %d has negative time_spent_seconds %v",
				i, a.TimeSpentSeconds)
		}
	}
	return nil
}

// consistencyAdjustment fires +1 when the trailing
// ConsecutiveCorrectThreshold attempts are all correct. Shorter histories
// cannot establish a streak and return 0.
func (s *RuleBasedStrategy) consistencyAdjustment(window []Attempt) int {
	n := s.cfg.ConsecutiveCorrectThreshold
	if len(window) < n {
		return 0
	}
	for _, a := range window[len(window)-n:] {
		if !a.Correct {
			return 0
		}
	}
	return 1
}

func (s *RuleBasedStrategy) errorRateAdjustment(errorRate float64) int {
	if errorRate >= s.cfg.ErrorRateThreshold {
		return -1
	}
	return 0
}

// speedAdjustment rewards a confident, fast, accurate answer distinctly
// from a pure streak: the most recent attempt must be correct and under
// FastResponseSeconds, and window accuracy must clear
// HighAccuracyThreshold.
func (s *RuleBasedStrategy) speedAdjustment(window []Attempt, errorRate float64) int {
	latest := window[len(window)-1]
	if !latest.Correct {
		return 0
	}
	if latest.TimeSpentSeconds >= s.cfg.FastResponseSeconds {
		return 0
	}
	if 1-errorRate < s.cfg.HighAccuracyThreshold {
		return 0
	}
	return 1
}

func (s *RuleBasedStrategy) masteryScore(errorRate float64, adj Adjustments) float64 {
	consistency := 0.0
	if adj.Consistency == 1 {
		consistency = 1.0
	}
	speed := 0.0
	if adj.Speed == 1 {
		speed = 1.0
	}
	mastery := masteryAccuracyWeight*(1-errorRate) +
		masteryConsistencyWeight*consistency +
		masterySpeedWeight*speed
	mastery = math.Max(0, math.Min(1, mastery))
	return math.Round(mastery*100) / 100
}

func windowErrorRate(window []Attempt) float64 {
	errors := 0
	for _, a := range window {
		if !a.Correct {
			errors++
		}
	}
	return float64(errors) / float64(len(window))
}

func describeAdjustments(adj Adjustments) string {
	var fired []string
	if adj.Consistency == 1 {
		fired = append(fired, "consecutive correct answers")
	}
	if adj.ErrorRate == -1 {
		fired = append(fired, "high error rate")
	}
	if adj.Speed == 1 {
		fired = append(fired, "fast accurate responses")
	}
	if len(fired) == 0 {
		return "stable performance"
	}
	return strings.Join(fired, " + ")
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
