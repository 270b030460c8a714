package services

import (
	"errors"
	"fmt"

	"github.com/surveyhub/survey-server/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubmissionItem is one entry of an incoming batch: a question and the set of
// answer ids the respondent picked for it.
type SubmissionItem struct {
	QuestionID uint   `json:"question_id" binding:"required"`
	AnswerIDs  []uint `json:"answers" binding:"required"`
}

// ResolvedItem is a validated item with its entities loaded, ready for
// recording.
type ResolvedItem struct {
	Question models.Question
	Answers  []models.Answer
}

// answerRule bounds how many answers a question type accepts per submission.
// Max 0 means no upper bound.
type answerRule struct {
	Min, Max int
}

var rulesByType = map[string]answerRule{
	models.QuestionTypeMultipleChoice: {Min: 1},
	models.QuestionTypeBinary:         {Min: 1, Max: 1},
	models.QuestionTypeDefault:        {Min: 1, Max: 1},
}

type SubmissionService struct {
	db *gorm.DB
}

func NewSubmissionService(db *gorm.DB) *SubmissionService {
	return &SubmissionService{db: db}
}

// HasCompleted reports whether the user already holds a completion record for
// the survey.
func (s *SubmissionService) HasCompleted(surveyID, userID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.SurveyCompletion{}).
		Where("survey_id = ? AND user_id = ?", surveyID, userID).
		Count(&count).Error
	return count > 0, err
}

// Validate checks a batch against the survey, item by item in input order,
// and fails on the first violation. The survey must already be published;
// that precondition belongs to the caller.
func (s *SubmissionService) Validate(survey *models.Survey, items []SubmissionItem) ([]ResolvedItem, error) {
	resolved := make([]ResolvedItem, 0, len(items))

	for _, item := range items {
		var question models.Question
		if err := s.db.First(&question, item.QuestionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &NotFoundError{Resource: "question", ID: item.QuestionID}
			}
			return nil, err
		}

		if question.SurveyID != survey.ID {
			return nil, &InvalidSubmissionError{QuestionID: question.ID, Reason: "question not in survey"}
		}

		answerIDs := dedupe(item.AnswerIDs)
		if len(answerIDs) == 0 {
			return nil, &InvalidSubmissionError{QuestionID: question.ID, Reason: "question is required"}
		}

		rule, ok := rulesByType[question.Type]
		if !ok {
			rule = rulesByType[models.QuestionTypeDefault]
		}
		if rule.Max > 0 && len(answerIDs) > rule.Max {
			return nil, &InvalidSubmissionError{QuestionID: question.ID, Reason: "question allows only one answer"}
		}

		var answers []models.Answer
		if err := s.db.Where("id IN ?", answerIDs).Find(&answers).Error; err != nil {
			return nil, err
		}
		if len(answers) != len(answerIDs) {
			return nil, &NotFoundError{Resource: "answer", ID: missingID(answerIDs, answers)}
		}
		for _, answer := range answers {
			if answer.QuestionID != question.ID {
				return nil, &InvalidSubmissionError{
					QuestionID: question.ID,
					AnswerID:   answer.ID,
					Reason:     "answer does not belong to question",
				}
			}
		}

		resolved = append(resolved, ResolvedItem{Question: question, Answers: answers})
	}

	return resolved, nil
}

// Record commits a validated batch in one transaction: every chosen answer
// gains a selection row for the user, and the survey gains a completion row.
// Selections are idempotent; the completion's composite key is what makes two
// racing submissions by the same user resolve to exactly one success.
func (s *SubmissionService) Record(survey *models.Survey, userID uint, items []ResolvedItem) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			for _, answer := range item.Answers {
				selection := models.AnswerSelection{AnswerID: answer.ID, UserID: userID}
				if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&selection).Error; err != nil {
					return err
				}
			}
		}

		completion := models.SurveyCompletion{SurveyID: survey.ID, UserID: userID}
		return tx.Create(&completion).Error
	})

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrAlreadyCompleted
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRecordingFailed, err)
	}
	return nil
}

// Submit runs the whole pipeline: completion check, validation, recording.
// The completion check comes first, so an invalid batch from a user who has
// already finished the survey reports ErrAlreadyCompleted rather than the
// validation failure.
func (s *SubmissionService) Submit(survey *models.Survey, userID uint, items []SubmissionItem) ([]ResolvedItem, error) {
	done, err := s.HasCompleted(survey.ID, userID)
	if err != nil {
		return nil, err
	}
	if done {
		return nil, ErrAlreadyCompleted
	}

	resolved, err := s.Validate(survey, items)
	if err != nil {
		return nil, err
	}

	if err := s.Record(survey, userID, resolved); err != nil {
		return nil, err
	}
	return resolved, nil
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func missingID(wanted []uint, found []models.Answer) uint {
	present := make(map[uint]struct{}, len(found))
	for _, a := range found {
		present[a.ID] = struct{}{}
	}
	for _, id := range wanted {
		if _, ok := present[id]; !ok {
			return id
		}
	}
	return 0
}
