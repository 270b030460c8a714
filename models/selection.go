package models

import "time"

// AnswerSelection records that a user picked an answer. Re-inserting the same
// pair is a no-op for the recorder (ON CONFLICT DO NOTHING).
type AnswerSelection struct {
	AnswerID  uint      `gorm:"column:answer_id;primaryKey;autoIncrement:false" json:"answer_id"`
	UserID    uint      `gorm:"column:user_id;primaryKey;autoIncrement:false" json:"user_id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Answer *Answer `gorm:"foreignKey:AnswerID;constraint:OnDelete:CASCADE" json:"-"`
	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (AnswerSelection) TableName() string {
	return "answer_selections"
}
