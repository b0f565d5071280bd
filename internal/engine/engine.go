package engine

import (
	"time"
)

// Attempt is one exercise attempt from the user's recent history.
// Attempts are immutable; the history store owns them.
type Attempt struct {
	Correct          bool      `json:"correct"`
	TimeSpentSeconds float64   `json:"timeSpentSeconds"`
	Timestamp        time.Time `json:"timestamp"`
}

// Context is the full input bundle for one evaluation. RecentAttempts is
// ordered oldest first, most recent last.
type Context struct {
	UserID            string
	LearningLanguage  string
	ExerciseType      string
	CurrentDifficulty int
	RecentAttempts    []Attempt
}

// Adjustments is the per-rule breakdown, each value in {-1, 0, +1}.
type Adjustments struct {
	Consistency int `json:"consistency"`
	ErrorRate   int `json:"errorRate"`
	Speed       int `json:"speed"`
}

// Decision is the evaluation result and, together with its Context, the
// audit-log row. Decisions are never mutated after creation.
type Decision struct {
	CurrentDifficulty int         `json:"currentDifficulty"`
	NextDifficulty    int         `json:"nextDifficulty"`
	MasteryScore      float64     `json:"masteryScore"`
	Reason            string      `json:"reason"`
	Adjustments       Adjustments `json:"adjustments"`
	ModelUsed         bool        `json:"modelUsed"`
	Timestamp         time.Time   `json:"timestamp"`
}

// Strategy produces a difficulty decision from a context. A strategy is
// picked once at construction time; the service never branches between
// rules and model per call.
type Strategy interface {
	Evaluate(dctx Context) (*Decision, error)
}
