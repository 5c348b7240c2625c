package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"testgen/internal/model"
	"testgen/internal/platform/logger"
	"testgen/internal/repository"
)

var (
	ErrInvalidCoreValue     = errors.New("invalid core value")
	ErrCoreValueIndex       = errors.New("core value index out of range")
	ErrCoreValuesUnreadable = errors.New("core values could not be read")
	ErrCoreValuesNotSaved   = errors.New("core values could not be saved")
)

// CoreValueService edits a user's core values list. Every mutation reads the
// stored list, applies the change and writes the whole list back.
type CoreValueService struct {
	repo     repository.CoreValueRepo
	validate *validator.Validate
	log      *logger.Logger
}

// NewCoreValueService creates a new core value service
func NewCoreValueService(repo repository.CoreValueRepo, validate *validator.Validate, log *logger.Logger) *CoreValueService {
	return &CoreValueService{
		repo:     repo,
		validate: validate,
		log:      log.With("component", "core_values"),
	}
}

// List returns the stored list. On a read failure the empty list is
// returned together with the error so callers can show it as a warning.
func (s *CoreValueService) List(ctx context.Context, p model.Principal) ([]model.CoreValue, error) {
	values, err := s.repo.Get(ctx, p.IDToken, p.UserID)
	if err != nil {
		return values, fmt.Errorf("%w: %w", ErrCoreValuesUnreadable, err)
	}
	return values, nil
}

// Add appends cv. If the save fails the list as it was before is returned.
func (s *CoreValueService) Add(ctx context.Context, p model.Principal, cv model.CoreValue) ([]model.CoreValue, error) {
	cv, err := s.clean(cv)
	if err != nil {
		return nil, err
	}
	current, err := s.load(ctx, p)
	if err != nil {
		return nil, err
	}
	next := append(model.CopyCoreValues(current), cv)
	return s.commit(ctx, p, current, next)
}

// Replace overwrites the list with values
func (s *CoreValueService) Replace(ctx context.Context, p model.Principal, values []model.CoreValue) ([]model.CoreValue, error) {
	next := make([]model.CoreValue, 0, len(values))
	for i, cv := range values {
		cleaned, err := s.clean(cv)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
		next = append(next, cleaned)
	}
	current, err := s.load(ctx, p)
	if err != nil {
		return nil, err
	}
	return s.commit(ctx, p, current, next)
}

// Delete removes the value at index, keeping the order of the rest
func (s *CoreValueService) Delete(ctx context.Context, p model.Principal, index int) ([]model.CoreValue, error) {
	current, err := s.load(ctx, p)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(current) {
		return current, fmt.Errorf("%w: %d of %d", ErrCoreValueIndex, index, len(current))
	}
	next := make([]model.CoreValue, 0, len(current)-1)
	next = append(next, current[:index]...)
	next = append(next, current[index+1:]...)
	return s.commit(ctx, p, current, next)
}

func (s *CoreValueService) clean(cv model.CoreValue) (model.CoreValue, error) {
	cv.Name = strings.TrimSpace(cv.Name)
	cv.Description = strings.TrimSpace(cv.Description)
	if err := s.validate.Struct(cv); err != nil {
		return cv, fmt.Errorf("%w: %v", ErrInvalidCoreValue, err)
	}
	return cv, nil
}

// load refuses to mutate a list that could not be read, so a transient
// failure never overwrites stored values with an empty list
func (s *CoreValueService) load(ctx context.Context, p model.Principal) ([]model.CoreValue, error) {
	current, err := s.repo.Get(ctx, p.IDToken, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCoreValuesUnreadable, err)
	}
	return current, nil
}

func (s *CoreValueService) commit(ctx context.Context, p model.Principal, previous, next []model.CoreValue) ([]model.CoreValue, error) {
	if err := s.repo.Save(ctx, p.IDToken, p.UserID, next); err != nil {
		s.log.Warn("core values not saved, keeping previous list", "user_id", p.UserID, "error", err)
		return previous, fmt.Errorf("%w: %w", ErrCoreValuesNotSaved, err)
	}
	return next, nil
}
