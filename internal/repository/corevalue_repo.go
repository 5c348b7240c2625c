package repository

import (
	"context"
	"errors"
	"time"

	"testgen/internal/firestore"
	"testgen/internal/model"
	"testgen/internal/platform/logger"
)

// CoreValueRepo reads and writes a user's core values list
type CoreValueRepo interface {
	// Get never returns a nil slice. On a read failure other than a missing
	// document it returns an empty list together with the error.
	Get(ctx context.Context, idToken, userID string) ([]model.CoreValue, error)
	// Save overwrites the whole list
	Save(ctx context.Context, idToken, userID string, values []model.CoreValue) error
}

type coreValueRepo struct {
	store DocumentStore
	log   *logger.Logger
	now   func() time.Time
}

// NewCoreValueRepo creates a new core values repository
func NewCoreValueRepo(store DocumentStore, log *logger.Logger) CoreValueRepo {
	return &coreValueRepo{
		store: store,
		log:   log.With("repo", "core_values"),
		now:   time.Now,
	}
}

func coreValuesPath(userID string) string {
	return firestore.DocPath("users", userID, "core_values", "core_values")
}

func (r *coreValueRepo) Get(ctx context.Context, idToken, userID string) ([]model.CoreValue, error) {
	path := coreValuesPath(userID)

	doc, err := r.store.GetDocument(ctx, idToken, path)
	switch {
	case errors.Is(err, firestore.ErrNotFound):
		r.initialize(ctx, idToken, path)
		return []model.CoreValue{}, nil
	case err != nil:
		r.log.Warn("failed to read core values", "user_id", userID, "error", err)
		return []model.CoreValue{}, err
	}

	if len(doc.Fields) == 0 {
		r.initialize(ctx, idToken, path)
		return []model.CoreValue{}, nil
	}

	values, err := firestore.DecodeCoreValuesDocument(doc)
	if err != nil {
		r.log.Warn("core values document did not decode", "user_id", userID, "error", err)
		return []model.CoreValue{}, err
	}
	return values, nil
}

// initialize writes an empty list so later reads find the document
func (r *coreValueRepo) initialize(ctx context.Context, idToken, path string) {
	fields := firestore.EncodeCoreValuesDocument(nil, r.now())
	if _, err := r.store.PatchDocument(ctx, idToken, path, fields); err != nil {
		r.log.Warn("failed to create empty core values document", "path", path, "error", err)
		return
	}
	r.log.Debug("created empty core values document", "path", path)
}

func (r *coreValueRepo) Save(ctx context.Context, idToken, userID string, values []model.CoreValue) error {
	fields := firestore.EncodeCoreValuesDocument(values, r.now())
	if _, err := r.store.PatchDocument(ctx, idToken, coreValuesPath(userID), fields); err != nil {
		r.log.Warn("failed to save core values", "user_id", userID, "count", len(values), "error", err)
		return err
	}
	r.log.Info("saved core values", "user_id", userID, "count", len(values))
	return nil
}
