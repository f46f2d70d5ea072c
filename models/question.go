package models

import "time"

type Question struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	Lifecycle

	// Likert scales are shared across questions
	AnswerOptions []AnswerOption `gorm:"many2many:question_answer_options" json:"answer_options,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}
