package services

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyCompleted rejects a user re-submitting a survey they have
	// already finished. Reported before batch validation runs.
	ErrAlreadyCompleted = errors.New("survey already completed")

	// ErrRecordingFailed wraps persistence failures while writing a
	// validated batch. The transaction has been rolled back.
	ErrRecordingFailed = errors.New("could not record submission")
)

// NotFoundError means a referenced entity does not exist anywhere.
type NotFoundError struct {
	Resource string
	ID       uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// InvalidSubmissionError carries the offending question (and answer, when the
// violation concerns one) together with a human-readable reason.
type InvalidSubmissionError struct {
	QuestionID uint
	AnswerID   uint
	Reason     string
}

func (e *InvalidSubmissionError) Error() string {
	if e.AnswerID != 0 {
		return fmt.Sprintf("question %d, answer %d: %s", e.QuestionID, e.AnswerID, e.Reason)
	}
	return fmt.Sprintf("question %d: %s", e.QuestionID, e.Reason)
}

// InvalidPublishError names the publish-gate guard that failed. QuestionID is
// zero when the survey itself is at fault (no questions).
type InvalidPublishError struct {
	QuestionID uint
	Reason     string
}

func (e *InvalidPublishError) Error() string {
	if e.QuestionID != 0 {
		return fmt.Sprintf("cannot publish: question %d %s", e.QuestionID, e.Reason)
	}
	return fmt.Sprintf("cannot publish: %s", e.Reason)
}
