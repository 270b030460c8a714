package models

import "time"

// SurveyCompletion marks that a user has submitted a survey. The composite
// primary key is the uniqueness guarantee: at most one completion per
// (survey, user), even under concurrent submissions.
type SurveyCompletion struct {
	SurveyID  uint      `gorm:"column:survey_id;primaryKey;autoIncrement:false" json:"survey_id"`
	UserID    uint      `gorm:"column:user_id;primaryKey;autoIncrement:false" json:"user_id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Survey *Survey `gorm:"foreignKey:SurveyID;constraint:OnDelete:CASCADE" json:"-"`
	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (SurveyCompletion) TableName() string {
	return "survey_completions"
}
