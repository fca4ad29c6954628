package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReviewQuestion is a submitted question awaiting manual curation. Input is unique across the
// table; the unique index is what arbitrates concurrent submissions of the same text.
type ReviewQuestion struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Input     string    `gorm:"size:700;not null;uniqueIndex:ux_review_questions_input" json:"input"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName pins the table name independent of gorm's pluralisation rules.
func (ReviewQuestion) TableName() string {
	return "review_questions"
}

// BeforeCreate assigns a UUID when none is provided.
func (r *ReviewQuestion) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
