package service

import (
	"errors"
	"fmt"

	"testgen/internal/model"
)

var (
	ErrNoCoreValues         = errors.New("at least one core value is required")
	ErrInvalidQuestionCount = errors.New("number of questions must be at least 1")
)

var sampleOptionLabels = []string{"Option A", "Option B", "Option C", "Option D"}

// SampleQuestions builds n placeholder questions, cycling through values in
// order. It is deterministic and never fails for valid arguments.
func SampleQuestions(values []model.CoreValue, n int) ([]model.Question, error) {
	if len(values) == 0 {
		return nil, ErrNoCoreValues
	}
	if n < 1 {
		return nil, ErrInvalidQuestionCount
	}

	questions := make([]model.Question, 0, n)
	for i := 0; i < n; i++ {
		name := values[i%len(values)].Name

		options := make([]model.Option, 0, len(sampleOptionLabels))
		for j, label := range sampleOptionLabels {
			options = append(options, model.Option{Text: label, Score: model.ScoreScale[j]})
		}

		questions = append(questions, model.Question{
			ID:         i + 1,
			Text:       fmt.Sprintf("Sample question %d about %s?", i+1, name),
			CoreValues: []string{name},
			Options:    options,
		})
	}
	return questions, nil
}
