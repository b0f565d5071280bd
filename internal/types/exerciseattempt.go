package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ExerciseAttempt is one row of the attempt-history store. Rows are
// immutable once written.
type ExerciseAttempt struct {
	gorm.Model
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           string    `gorm:"not null;index:idx_attempt_track;column:user_id" json:"user_id"`
	LearningLanguage string    `gorm:"not null;index:idx_attempt_track;column:learning_language" json:"learning_language"`
	ExerciseType     string    `gorm:"not null;index:idx_attempt_track;column:exercise_type" json:"exercise_type"`
	Correct          bool      `gorm:"not null;column:correct" json:"correct"`
	TimeSpentSeconds float64   `gorm:"not null;column:time_spent_seconds" json:"time_spent_seconds"`
	Difficulty       int       `gorm:"not null;column:difficulty" json:"difficulty"`
	AttemptedAt      time.Time `gorm:"not null;index;column:attempted_at" json:"attempted_at"`
	CreatedAt        time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time `gorm:"not null" json:"updated_at"`
}

func (ExerciseAttempt) TableName() string {
	return "exercise_attempt"
}

func (a *ExerciseAttempt) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
