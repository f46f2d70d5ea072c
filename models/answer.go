package models

import "time"

// Answer records one respondent's selection of an option for a question
// within a form. Re-submitting the same question creates a new row; the
// read layer orders by created_at and shows the most recent.
//
// UserID carries no database constraint: users are the one entity that may
// be hard-deleted, and their answers must survive them (reports join users
// with LEFT JOIN and render nulls for the missing row).
type Answer struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         uint      `gorm:"not null;index" json:"user_id"`
	FormID         uint      `gorm:"not null;index" json:"form_id"`
	QuestionID     uint      `gorm:"not null;index" json:"question_id"`
	AnswerOptionID uint      `gorm:"not null" json:"answer_option_id"`
	FormQuestionID *uint     `json:"form_question_id,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	Lifecycle

	Form         Form         `gorm:"foreignKey:FormID;constraint:OnDelete:CASCADE" json:"-"`
	Question     Question     `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"-"`
	AnswerOption AnswerOption `gorm:"foreignKey:AnswerOptionID" json:"-"`
}

func (Answer) TableName() string {
	return "answers"
}
