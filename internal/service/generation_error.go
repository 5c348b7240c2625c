package service

import "fmt"

// FailureReason classifies why live generation was not used
type FailureReason string

const (
	FailureNotConfigured FailureReason = "not_configured"
	FailureTransport     FailureReason = "transport"
	FailureStatus        FailureReason = "status"
	FailureInvalidJSON   FailureReason = "invalid_json"
	FailureShape         FailureReason = "shape"
)

// GenerationError describes a degraded generation. It is reported as a
// warning next to fallback questions, never as a blocking error.
type GenerationError struct {
	Reason  FailureReason
	Status  int // set for FailureStatus
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	return e.Message
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

func notConfiguredError() *GenerationError {
	return &GenerationError{
		Reason:  FailureNotConfigured,
		Message: "AI generation is not configured; using sample questions",
	}
}

func transportError(err error) *GenerationError {
	return &GenerationError{
		Reason:  FailureTransport,
		Message: fmt.Sprintf("Error generating questions: %v", err),
		Err:     err,
	}
}

func statusError(status int, body string) *GenerationError {
	return &GenerationError{
		Reason:  FailureStatus,
		Status:  status,
		Message: fmt.Sprintf("API error (status %d): %s", status, clip(body, 300)),
	}
}

func invalidJSONError(err error, raw string) *GenerationError {
	return &GenerationError{
		Reason:  FailureInvalidJSON,
		Message: fmt.Sprintf("JSON parsing failed: %v. Response: %s...", err, clip(raw, 200)),
		Err:     err,
	}
}

func shapeError(detail string) *GenerationError {
	return &GenerationError{
		Reason:  FailureShape,
		Message: "Generated questions did not match the expected format: " + detail,
	}
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
