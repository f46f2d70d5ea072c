package models

// FormQuestion is the ordered association between a form and a question.
// Position values are unique within a form's live question set and
// determine presentation order.
type FormQuestion struct {
	ID         uint `gorm:"primaryKey;autoIncrement" json:"id"`
	FormID     uint `gorm:"not null;index" json:"form_id"`
	QuestionID uint `gorm:"not null;index" json:"question_id"`
	Position   int  `gorm:"not null;default:0" json:"position"`
	Lifecycle

	Form     Form     `gorm:"foreignKey:FormID;constraint:OnDelete:CASCADE" json:"-"`
	Question Question `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"question"`
}

func (FormQuestion) TableName() string {
	return "form_questions"
}
