package models

import "time"

const (
	QuestionTypeMultipleChoice = "MULTIPLE_CHOICE"
	QuestionTypeBinary         = "BINARY"
	QuestionTypeDefault        = "DEFAULT"
)

// ValidQuestionType reports whether t is one of the supported question types.
func ValidQuestionType(t string) bool {
	switch t {
	case QuestionTypeMultipleChoice, QuestionTypeBinary, QuestionTypeDefault:
		return true
	}
	return false
}

type Question struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	SurveyID  uint      `gorm:"column:survey_id;not null;index" json:"survey_id"`
	Text      string    `gorm:"column:text;size:1000;not null" json:"text"`
	Type      string    `gorm:"column:type;size:50;not null;default:'DEFAULT'" json:"type"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Survey  *Survey  `gorm:"foreignKey:SurveyID;constraint:OnDelete:CASCADE" json:"-"`
	Answers []Answer `gorm:"foreignKey:QuestionID" json:"answers,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// AllowsMultiple reports whether a respondent may pick more than one answer.
func (q *Question) AllowsMultiple() bool {
	return q.Type == QuestionTypeMultipleChoice
}
