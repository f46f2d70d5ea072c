package models

import "time"

// AnswerOption is one selectable choice in a Likert scale, e.g.
// value "3", label "Neutro".
type AnswerOption struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Value     string    `gorm:"size:50;not null" json:"value"`
	Label     string    `gorm:"size:255;not null" json:"label"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	Lifecycle
}

func (AnswerOption) TableName() string {
	return "answer_options"
}
