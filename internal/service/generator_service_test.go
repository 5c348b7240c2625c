package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"testgen/internal/config"
	"testgen/internal/model"
	"testgen/internal/platform/logger"
)

const twoQuestions = `[
  {"id": 7, "text": "A peer takes credit for your work.", "core_values": ["Integrity"],
   "options": [{"text": "Talk privately", "score": 8}, {"text": "Tell the manager", "score": 6},
               {"text": "Let it go", "score": 4}, {"text": "Do the same", "score": 2}]},
  {"id": 9, "text": "A deadline slips.", "core_values": ["Teamwork"],
   "options": [{"text": "Help", "score": 8}, {"text": "Wait", "score": 2}]}
]`

func enabledConfig() *config.AIConfig {
	return &config.AIConfig{Provider: config.ProviderHuggingFace, APIKey: "k", Temperature: 0.7, MaxTokens: 2000}
}

var testValues = []model.CoreValue{
	{Name: "Integrity", Description: "Do the right thing"},
	{Name: "Teamwork", Description: "Win together"},
}

func TestGenerateLiveSuccess(t *testing.T) {
	llm := &fakeTextGenerator{text: "```json\n" + twoQuestions + "\n```"}
	svc := NewGeneratorService(enabledConfig(), llm, logger.Nop())

	res, err := svc.Generate(context.Background(), testValues, 2)
	require.NoError(t, err)
	require.Equal(t, model.SourceLive, res.Source)
	require.Nil(t, res.Warning)
	require.Len(t, res.Questions, 2)
	require.Equal(t, 1, res.Questions[0].ID)
	require.Equal(t, 2, res.Questions[1].ID)
	require.Equal(t, "A peer takes credit for your work.", res.Questions[0].Text)

	require.Len(t, llm.prompts, 1)
	require.Contains(t, llm.prompts[0], "- Integrity: Do the right thing")
	require.Contains(t, llm.prompts[0], "- Teamwork: Win together")
	require.Contains(t, llm.prompts[0], "Generate 2 multiple-choice questions")
	require.Contains(t, llm.prompts[0], "(8,6,4,2)")
}

func TestGenerateTruncatesExtraQuestions(t *testing.T) {
	svc := NewGeneratorService(enabledConfig(), &fakeTextGenerator{text: twoQuestions}, logger.Nop())

	res, err := svc.Generate(context.Background(), testValues, 1)
	require.NoError(t, err)
	require.Equal(t, model.SourceLive, res.Source)
	require.Len(t, res.Questions, 1)
	require.Equal(t, 1, res.Questions[0].ID)
}

func TestGenerateNotConfigured(t *testing.T) {
	svc := NewGeneratorService(&config.AIConfig{}, nil, logger.Nop())

	res, err := svc.Generate(context.Background(), testValues, 3)
	require.NoError(t, err)
	require.Equal(t, model.SourceFallback, res.Source)
	require.NotNil(t, res.Warning)
	require.Equal(t, FailureNotConfigured, res.Warning.Reason)

	want, _ := SampleQuestions(testValues, 3)
	require.Equal(t, want, res.Questions)
}

func TestGenerateDegradedPathsEqualFallback(t *testing.T) {
	values := []model.CoreValue{{Name: "Integrity", Description: "Honest"}}
	want, _ := SampleQuestions(values, 5)

	cases := []struct {
		name   string
		llm    *fakeTextGenerator
		reason FailureReason
	}{
		{"status", &fakeTextGenerator{err: statusError(503, "model loading")}, FailureStatus},
		{"transport", &fakeTextGenerator{err: errors.New("dial tcp: refused")}, FailureTransport},
		{"prose", &fakeTextGenerator{text: "Sure! Here are some questions."}, FailureInvalidJSON},
		{"broken json", &fakeTextGenerator{text: `[{"id": 1, "text": }]`}, FailureInvalidJSON},
		{"empty array", &fakeTextGenerator{text: `[]`}, FailureShape},
		{"off scale", &fakeTextGenerator{text: `[{"text": "Q", "core_values": ["Integrity"], "options": [{"text": "A", "score": 7}, {"text": "B", "score": 2}]}]`}, FailureShape},
		{"one option", &fakeTextGenerator{text: `[{"text": "Q", "core_values": ["Integrity"], "options": [{"text": "A", "score": 8}]}]`}, FailureShape},
		{"no values", &fakeTextGenerator{text: `[{"text": "Q", "core_values": [], "options": [{"text": "A", "score": 8}, {"text": "B", "score": 2}]}]`}, FailureShape},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewGeneratorService(enabledConfig(), tc.llm, logger.Nop())
			res, err := svc.Generate(context.Background(), values, 5)
			require.NoError(t, err)
			require.Equal(t, model.SourceFallback, res.Source)
			require.Equal(t, tc.reason, res.Warning.Reason)
			require.NotEmpty(t, res.Warning.Message)
			require.Equal(t, want, res.Questions)
		})
	}
}

func TestGenerateStatusWarningMessage(t *testing.T) {
	svc := NewGeneratorService(enabledConfig(), &fakeTextGenerator{err: statusError(503, "busy")}, logger.Nop())
	res, err := svc.Generate(context.Background(), testValues, 1)
	require.NoError(t, err)
	require.Equal(t, "API error (status 503): busy", res.Warning.Message)
	require.Equal(t, 503, res.Warning.Status)
}

func TestGenerateInvalidArguments(t *testing.T) {
	svc := NewGeneratorService(enabledConfig(), &fakeTextGenerator{text: twoQuestions}, logger.Nop())

	_, err := svc.Generate(context.Background(), nil, 3)
	require.ErrorIs(t, err, ErrNoCoreValues)

	_, err = svc.Generate(context.Background(), testValues, 0)
	require.ErrorIs(t, err, ErrInvalidQuestionCount)
}

func TestParseQuestionsJSONErrorIncludesResponsePrefix(t *testing.T) {
	raw := "[" + strings.Repeat("x", 500) + "]"
	_, genErr := ParseQuestions(raw, 3)
	require.NotNil(t, genErr)
	require.Equal(t, FailureInvalidJSON, genErr.Reason)
	require.True(t, strings.HasPrefix(genErr.Message, "JSON parsing failed: "))
	require.Contains(t, genErr.Message, "Response: ["+strings.Repeat("x", 199)+"...")
	require.NotContains(t, genErr.Message, strings.Repeat("x", 200))
}

func TestParseQuestionsIgnoresBracketsInProse(t *testing.T) {
	raw := "See note [1] below.\n```json\n" + twoQuestions + "\n```\nAs discussed in [2]."
	qs, genErr := ParseQuestions(raw, 2)
	require.Nil(t, genErr)
	require.Len(t, qs, 2)
	require.Equal(t, 1, qs[0].ID)
	require.Equal(t, 2, qs[1].ID)
}

func TestParseQuestionsNoArray(t *testing.T) {
	_, genErr := ParseQuestions("I cannot help with that.", 2)
	require.NotNil(t, genErr)
	require.Equal(t, FailureInvalidJSON, genErr.Reason)
}

func TestParseQuestionsKeepsFewer(t *testing.T) {
	qs, genErr := ParseQuestions(twoQuestions, 10)
	require.Nil(t, genErr)
	require.Len(t, qs, 2)
}
