package models

import (
	"time"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

const (
	SurveyStatusDraft     = "draft"
	SurveyStatusPublished = "published"
)

type Survey struct {
	ID          uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OwnerID     uint      `gorm:"column:owner_id;not null;index" json:"owner_id"`
	Title       string    `gorm:"column:title;size:255;not null;uniqueIndex" json:"title"`
	Slug        string    `gorm:"column:slug;size:255;index" json:"slug"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	Status      string    `gorm:"column:status;size:20;default:'draft'" json:"status"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Owner       *User              `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	Questions   []Question         `gorm:"foreignKey:SurveyID" json:"questions,omitempty"`
	Completions []SurveyCompletion `gorm:"foreignKey:SurveyID" json:"-"`
}

func (Survey) TableName() string {
	return "surveys"
}

// BeforeSave keeps the slug a pure function of the title: it is recomputed on
// every write, so renaming a draft moves its URL.
func (s *Survey) BeforeSave(tx *gorm.DB) error {
	s.Slug = slug.Make(s.Title)
	return nil
}

func (s *Survey) IsPublished() bool {
	return s.Status == SurveyStatusPublished
}

func (s *Survey) IsDraft() bool {
	return s.Status == SurveyStatusDraft
}
