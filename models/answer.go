package models

type Answer struct {
	ID         uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	QuestionID uint   `gorm:"column:question_id;not null;index" json:"question_id"`
	Text       string `gorm:"column:text;size:255;not null" json:"text"`

	Question   *Question         `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"-"`
	Selections []AnswerSelection `gorm:"foreignKey:AnswerID" json:"-"`
}

func (Answer) TableName() string {
	return "answers"
}
