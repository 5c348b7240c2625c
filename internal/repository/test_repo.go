package repository

import (
	"context"
	"strings"
	"time"

	"testgen/internal/firestore"
	"testgen/internal/model"
	"testgen/internal/platform/logger"
)

const testsCollection = "tests"

// TestRepo persists generated tests in the top-level tests collection
type TestRepo interface {
	// Create stamps the lifecycle fields onto test and returns the assigned id
	Create(ctx context.Context, idToken, ownerID string, test *model.Test) (string, error)
	Get(ctx context.Context, idToken, testID string) (*model.Test, error)
}

type testRepo struct {
	store DocumentStore
	log   *logger.Logger
	now   func() time.Time
}

// NewTestRepo creates a new test repository
func NewTestRepo(store DocumentStore, log *logger.Logger) TestRepo {
	return &testRepo{
		store: store,
		log:   log.With("repo", "tests"),
		now:   time.Now,
	}
}

func (r *testRepo) Create(ctx context.Context, idToken, ownerID string, test *model.Test) (string, error) {
	now := r.now().UTC()
	test.OwnerID = ownerID
	test.Status = model.TestStatusDraft
	test.CreatedAt = now
	test.UpdatedAt = now
	test.StartDate = now
	test.EndDate = now.Add(model.TestWindow)
	test.Students = []string{}
	test.CoreValues = model.CopyCoreValues(test.CoreValues)
	if test.Questions == nil {
		test.Questions = []model.Question{}
	}

	doc, err := r.store.CreateDocument(ctx, idToken, testsCollection, firestore.EncodeTest(test))
	if err != nil {
		r.log.Warn("failed to save test", "owner_id", ownerID, "questions", len(test.Questions), "error", err)
		return "", err
	}

	id := doc.ID()
	r.log.Info("saved test", "owner_id", ownerID, "test_id", id, "questions", len(test.Questions))
	return id, nil
}

// Get reads a test by id. A path containing slashes is read as-is, which
// lets callers reach documents under the older users/{id}/tests layout.
func (r *testRepo) Get(ctx context.Context, idToken, testID string) (*model.Test, error) {
	path := testPath(testID)
	doc, err := r.store.GetDocument(ctx, idToken, path)
	if err != nil {
		return nil, err
	}
	return firestore.DecodeTest(doc)
}

func testPath(testID string) string {
	if strings.Contains(testID, "/") {
		return testID
	}
	return firestore.DocPath(testsCollection, testID)
}
