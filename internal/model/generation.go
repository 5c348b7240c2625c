package model

import "time"

// GenerationSource tells where a question set came from
type GenerationSource string

const (
	SourceLive     GenerationSource = "live"
	SourceFallback GenerationSource = "fallback"
)

// GenerationRun is a log entry for one test generation
type GenerationRun struct {
	ID           string           `json:"id" bson:"_id,omitempty"`
	OwnerID      string           `json:"ownerId" bson:"ownerId"`
	TestID       string           `json:"testId,omitempty" bson:"testId,omitempty"`
	NumQuestions int              `json:"numQuestions" bson:"numQuestions"`
	Returned     int              `json:"returned" bson:"returned"`
	Source       GenerationSource `json:"source" bson:"source"`
	Reason       string           `json:"reason,omitempty" bson:"reason,omitempty"`
	Error        string           `json:"error,omitempty" bson:"error,omitempty"`
	CreatedAt    time.Time        `json:"createdAt" bson:"createdAt"`
}

// GenerateTestRequest is the request body for test generation
type GenerateTestRequest struct {
	Name         string `json:"name"`
	NumQuestions int    `json:"num_questions" validate:"omitempty,min=1,max=20"`
}

// GenerateTestResponse is returned after a test was generated and saved
type GenerateTestResponse struct {
	TestID  string           `json:"test_id"`
	Test    *Test            `json:"test"`
	Source  GenerationSource `json:"source"`
	Warning string           `json:"warning,omitempty"`
}

// DefaultNumQuestions is used when a request does not set a count
const DefaultNumQuestions = 10
