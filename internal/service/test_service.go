package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"testgen/internal/cache"
	"testgen/internal/firestore"
	"testgen/internal/model"
	"testgen/internal/platform/logger"
	"testgen/internal/repository"
)

var (
	ErrInvalidTestRequest = errors.New("invalid test request")
	ErrTestNotSaved       = errors.New("test could not be saved")
	ErrTestNotFound       = errors.New("test not found")
)

// QuestionGenerator produces questions for a set of core values
type QuestionGenerator interface {
	Generate(ctx context.Context, values []model.CoreValue, n int) (*GenerationResult, error)
}

// TestService generates, stores and exports core values tests
type TestService struct {
	coreValues repository.CoreValueRepo
	tests      repository.TestRepo
	runs       repository.GenerationRunRepo
	exports    cache.ExportCache
	generator  QuestionGenerator
	validate   *validator.Validate
	log        *logger.Logger
}

// NewTestService creates a new test service
func NewTestService(
	coreValues repository.CoreValueRepo,
	tests repository.TestRepo,
	runs repository.GenerationRunRepo,
	exports cache.ExportCache,
	generator QuestionGenerator,
	validate *validator.Validate,
	log *logger.Logger,
) *TestService {
	return &TestService{
		coreValues: coreValues,
		tests:      tests,
		runs:       runs,
		exports:    exports,
		generator:  generator,
		validate:   validate,
		log:        log.With("component", "tests"),
	}
}

// Generate builds a test from the caller's stored core values and saves it.
// A degraded generation still saves the test; the response carries a warning.
func (s *TestService) Generate(ctx context.Context, p model.Principal, req model.GenerateTestRequest) (*model.GenerateTestResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTestRequest, err)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = model.DefaultTestName
	}
	n := req.NumQuestions
	if n == 0 {
		n = model.DefaultNumQuestions
	}

	values, err := s.coreValues.Get(ctx, p.IDToken, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCoreValuesUnreadable, err)
	}
	if len(values) == 0 {
		return nil, ErrNoCoreValues
	}

	result, err := s.generator.Generate(ctx, values, n)
	if err != nil {
		return nil, err
	}

	test := &model.Test{
		Name:       name,
		Company:    p.Company(),
		CoreValues: values,
		Questions:  result.Questions,
	}
	run := &model.GenerationRun{
		OwnerID:      p.UserID,
		NumQuestions: n,
		Returned:     len(result.Questions),
		Source:       result.Source,
	}
	if result.Warning != nil {
		run.Reason = string(result.Warning.Reason)
		run.Error = result.Warning.Message
	}

	testID, err := s.tests.Create(ctx, p.IDToken, p.UserID, test)
	if err != nil {
		run.Error = err.Error()
		s.recordRun(ctx, run)
		return nil, fmt.Errorf("%w: %w", ErrTestNotSaved, err)
	}
	run.TestID = testID
	s.recordRun(ctx, run)

	if err := s.exports.SetTest(ctx, testID, test); err != nil {
		s.log.Warn("failed to cache test for export", "test_id", testID, "error", err)
	}

	resp := &model.GenerateTestResponse{
		TestID: testID,
		Test:   test,
		Source: result.Source,
	}
	if result.Warning != nil {
		resp.Warning = result.Warning.Message
	}
	return resp, nil
}

// Export returns a test owned by the caller, preferring the export cache
func (s *TestService) Export(ctx context.Context, p model.Principal, testID string) (*model.Test, error) {
	test, err := s.exports.GetTest(ctx, testID)
	if err != nil {
		s.log.Warn("export cache read failed", "test_id", testID, "error", err)
	}
	if test == nil {
		test, err = s.tests.Get(ctx, p.IDToken, testID)
		if errors.Is(err, firestore.ErrNotFound) {
			return nil, ErrTestNotFound
		}
		if err != nil {
			return nil, err
		}
		if err := s.exports.SetTest(ctx, testID, test); err != nil {
			s.log.Warn("failed to cache test for export", "test_id", testID, "error", err)
		}
	}

	// ownerless and other owners' tests are reported as missing
	if test.OwnerID == "" || test.OwnerID != p.UserID {
		return nil, ErrTestNotFound
	}
	return test, nil
}

// RecentRuns lists the caller's latest generation runs
func (s *TestService) RecentRuns(ctx context.Context, p model.Principal, limit int64) ([]*model.GenerationRun, error) {
	return s.runs.RecentByOwner(ctx, p.UserID, limit)
}

// recordRun is best effort; a missing log entry never fails a request
func (s *TestService) recordRun(ctx context.Context, run *model.GenerationRun) {
	run.CreatedAt = time.Now().UTC()
	if _, err := s.runs.Record(ctx, run); err != nil {
		s.log.Warn("failed to record generation run", "owner_id", run.OwnerID, "error", err)
	}
}
