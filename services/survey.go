package services

import (
	"github.com/surveyhub/survey-server/models"

	"gorm.io/gorm"
)

type SurveyService struct {
	db *gorm.DB
}

func NewSurveyService(db *gorm.DB) *SurveyService {
	return &SurveyService{db: db}
}

// Publish moves a draft to published after checking the gate: at least one
// question, exactly 2 answers on every binary question, at least 2 on every
// other. Publishing an already published survey is a no-op; there is no way
// back to draft.
func (s *SurveyService) Publish(survey *models.Survey) error {
	if survey.IsPublished() {
		return nil
	}

	var questions []models.Question
	if err := s.db.Where("survey_id = ?", survey.ID).
		Preload("Answers", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Order("id ASC").
		Find(&questions).Error; err != nil {
		return err
	}

	if len(questions) == 0 {
		return &InvalidPublishError{Reason: "survey has no questions"}
	}
	for _, q := range questions {
		if q.Type == models.QuestionTypeBinary {
			if len(q.Answers) != 2 {
				return &InvalidPublishError{QuestionID: q.ID, Reason: "must have exactly 2 answers"}
			}
		} else if len(q.Answers) < 2 {
			return &InvalidPublishError{QuestionID: q.ID, Reason: "must have at least 2 answers"}
		}
	}

	survey.Status = models.SurveyStatusPublished
	return s.db.Save(survey).Error
}

// AnswerStat is the per-answer projection: how many users chose it.
type AnswerStat struct {
	ID     uint   `json:"id"`
	Text   string `json:"text"`
	Chosen int64  `json:"chosen"`
}

type QuestionStat struct {
	ID      uint         `json:"id"`
	Text    string       `json:"text"`
	Type    string       `json:"type"`
	Answers []AnswerStat `json:"answers"`
}

type SurveyStatistics struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Completed   int64          `json:"completed"`
	Questions   []QuestionStat `json:"questions"`
}

// Statistics counts the selection and completion sets as they are right now.
// Nothing is cached.
func (s *SurveyService) Statistics(survey *models.Survey) (*SurveyStatistics, error) {
	var questions []models.Question
	if err := s.db.Where("survey_id = ?", survey.ID).
		Preload("Answers", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Order("id ASC").
		Find(&questions).Error; err != nil {
		return nil, err
	}

	answerIDs := []uint{}
	for _, q := range questions {
		for _, a := range q.Answers {
			answerIDs = append(answerIDs, a.ID)
		}
	}

	chosen := map[uint]int64{}
	if len(answerIDs) > 0 {
		var rows []struct {
			AnswerID uint
			Count    int64
		}
		if err := s.db.Model(&models.AnswerSelection{}).
			Select("answer_id, COUNT(*) AS count").
			Where("answer_id IN ?", answerIDs).
			Group("answer_id").
			Scan(&rows).Error; err != nil {
			return nil, err
		}
		for _, r := range rows {
			chosen[r.AnswerID] = r.Count
		}
	}

	var completed int64
	if err := s.db.Model(&models.SurveyCompletion{}).
		Where("survey_id = ?", survey.ID).
		Count(&completed).Error; err != nil {
		return nil, err
	}

	stats := &SurveyStatistics{
		Title:       survey.Title,
		Description: survey.Description,
		Completed:   completed,
		Questions:   make([]QuestionStat, 0, len(questions)),
	}
	for _, q := range questions {
		qs := QuestionStat{ID: q.ID, Text: q.Text, Type: q.Type, Answers: make([]AnswerStat, 0, len(q.Answers))}
		for _, a := range q.Answers {
			qs.Answers = append(qs.Answers, AnswerStat{ID: a.ID, Text: a.Text, Chosen: chosen[a.ID]})
		}
		stats.Questions = append(stats.Questions, qs)
	}
	return stats, nil
}
