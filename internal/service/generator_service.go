package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"testgen/internal/config"
	"testgen/internal/metrics"
	"testgen/internal/model"
	"testgen/internal/platform/logger"
)

// GenerationResult is the outcome of one generation request. Warning is set
// whenever Source is fallback.
type GenerationResult struct {
	Questions []model.Question
	Source    model.GenerationSource
	Warning   *GenerationError
}

// GeneratorService turns core values into scored questions using a hosted
// model, falling back to sample questions when the model is unavailable
type GeneratorService struct {
	config *config.AIConfig
	llm    TextGenerator
	log    *logger.Logger
}

// NewGeneratorService creates a new generator service. llm may be nil when
// AI is not configured.
func NewGeneratorService(cfg *config.AIConfig, llm TextGenerator, log *logger.Logger) *GeneratorService {
	return &GeneratorService{
		config: cfg,
		llm:    llm,
		log:    log.With("component", "generator"),
	}
}

// Generate produces n questions for values. The only error it returns is an
// invalid argument; every other failure degrades to sample questions.
func (s *GeneratorService) Generate(ctx context.Context, values []model.CoreValue, n int) (*GenerationResult, error) {
	fallback, err := SampleQuestions(values, n)
	if err != nil {
		return nil, err
	}

	if !s.config.IsEnabled() || s.llm == nil {
		return s.degrade(fallback, notConfiguredError()), nil
	}

	text, err := s.llm.Generate(ctx, buildQuestionPrompt(values, n))
	if err != nil {
		var genErr *GenerationError
		if !errors.As(err, &genErr) {
			genErr = transportError(err)
		}
		return s.degrade(fallback, genErr), nil
	}

	questions, genErr := ParseQuestions(text, n)
	if genErr != nil {
		return s.degrade(fallback, genErr), nil
	}
	if len(questions) < n {
		s.log.Warn("model returned fewer questions than requested", "requested", n, "returned", len(questions))
	}

	metrics.ObserveGeneration(string(model.SourceLive), "")
	s.log.Info("generated questions", "provider", s.config.Provider, "count", len(questions))
	return &GenerationResult{Questions: questions, Source: model.SourceLive}, nil
}

func (s *GeneratorService) degrade(fallback []model.Question, genErr *GenerationError) *GenerationResult {
	metrics.ObserveGeneration(string(model.SourceFallback), string(genErr.Reason))
	s.log.Warn("using sample questions", "reason", genErr.Reason, "status", genErr.Status, "error", genErr.Message)
	return &GenerationResult{
		Questions: fallback,
		Source:    model.SourceFallback,
		Warning:   genErr,
	}
}

func buildQuestionPrompt(values []model.CoreValue, n int) string {
	var sb strings.Builder
	for _, cv := range values {
		sb.WriteString(fmt.Sprintf("- %s: %s\n", cv.Name, cv.Description))
	}

	return fmt.Sprintf(`You are an expert in creating assessment questions for company core values.
Given these core values:
%s
Generate %d multiple-choice questions with these requirements:
1. Specific to one or more core values
2. Realistic workplace scenarios
3. 4 answer options with scores (8,6,4,2)
4. Make sure that it is impossible to guess the option with the highest score. Each option should be an equally viable solution in the workplace
5. Return ONLY a valid JSON array formatted like:
[
  {
    "id": 1,
    "text": "Question text",
    "core_values": ["Value1"],
    "options": [
      {"text": "Option A", "score": 8},
      {"text": "Option B", "score": 6}
    ]
  }
]`, sb.String(), n)
}

// ParseQuestions extracts a question list from model output. The first JSON
// array that decodes as questions is used; text around it, such as markdown
// fences or prose, is ignored. Extra questions are dropped and ids are
// renumbered from 1.
func ParseQuestions(text string, n int) ([]model.Question, *GenerationError) {
	questions, err := firstQuestionArray(text)
	if err != nil {
		return nil, invalidJSONError(err, text)
	}
	if len(questions) == 0 {
		return nil, shapeError("empty question list")
	}
	if len(questions) > n {
		questions = questions[:n]
	}

	for i := range questions {
		q := &questions[i]
		if problem := checkQuestion(q); problem != "" {
			return nil, shapeError(fmt.Sprintf("question %d: %s", i+1, problem))
		}
		q.ID = i + 1
	}
	return questions, nil
}

// firstQuestionArray decodes one JSON value at each '[' in turn, so a
// bracket in trailing prose does not spoil a valid array before it
func firstQuestionArray(text string) ([]model.Question, error) {
	var firstErr error
	for offset := 0; ; {
		i := strings.Index(text[offset:], "[")
		if i < 0 {
			break
		}
		start := offset + i
		var questions []model.Question
		err := json.NewDecoder(strings.NewReader(text[start:])).Decode(&questions)
		if err == nil {
			return questions, nil
		}
		if firstErr == nil {
			firstErr = err
		}
		offset = start + 1
	}
	if firstErr == nil {
		firstErr = errors.New("no JSON array in response")
	}
	return nil, firstErr
}

func checkQuestion(q *model.Question) string {
	if strings.TrimSpace(q.Text) == "" {
		return "missing text"
	}
	if len(q.CoreValues) == 0 {
		return "no core values"
	}
	if len(q.Options) < 2 {
		return "fewer than 2 options"
	}
	for _, o := range q.Options {
		if !model.IsOnScale(o.Score) {
			return fmt.Sprintf("score %d is not on the 8/6/4/2 scale", o.Score)
		}
	}
	return ""
}
