package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AdaptiveDecisionLog is the append-only audit row for one difficulty
// decision. Rows are the future ML training dataset and are never updated
// or deleted. WindowSnapshot holds the attempt window the decision saw.
type AdaptiveDecisionLog struct {
	gorm.Model
	ID                    uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID                string         `gorm:"not null;index;column:user_id" json:"user_id"`
	LearningLanguage      string         `gorm:"not null;column:learning_language" json:"learning_language"`
	ExerciseType          string         `gorm:"not null;column:exercise_type" json:"exercise_type"`
	CurrentDifficulty     int            `gorm:"not null;column:current_difficulty" json:"current_difficulty"`
	NextDifficulty        int            `gorm:"not null;column:next_difficulty" json:"next_difficulty"`
	MasteryScore          float64        `gorm:"not null;column:mastery_score" json:"mastery_score"`
	Reason                string         `gorm:"not null;column:reason" json:"reason"`
	AvgTimeSpentSeconds   *float64       `gorm:"column:avg_time_spent_seconds" json:"avg_time_spent_seconds,omitempty"`
	LatestCorrect         *bool          `gorm:"column:latest_correct" json:"latest_correct,omitempty"`
	ErrorRate             *float64       `gorm:"column:error_rate" json:"error_rate,omitempty"`
	ConsistencyAdjustment int            `gorm:"not null;column:consistency_adjustment" json:"consistency_adjustment"`
	ErrorAdjustment       int            `gorm:"not null;column:error_adjustment" json:"error_adjustment"`
	SpeedAdjustment       int            `gorm:"not null;column:speed_adjustment" json:"speed_adjustment"`
	ModelUsed             bool           `gorm:"not null;column:model_used" json:"model_used"`
	ModelPrediction       *int           `gorm:"column:model_prediction" json:"model_prediction,omitempty"`
	WindowSnapshot        datatypes.JSON `gorm:"type:jsonb;column:window_snapshot" json:"window_snapshot"`
	DecidedAt             time.Time      `gorm:"not null;index;column:decided_at" json:"decided_at"`
	CreatedAt             time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt             time.Time      `gorm:"not null" json:"updated_at"`
}

func (AdaptiveDecisionLog) TableName() string {
	return "adaptive_decision_log"
}

func (l *AdaptiveDecisionLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
