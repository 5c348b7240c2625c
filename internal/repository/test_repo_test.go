package repository

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"testgen/internal/firestore"
	"testgen/internal/model"
	"testgen/internal/platform/logger"
)

func sampleTest() *model.Test {
	return &model.Test{
		Name:       "Core Values Assessment",
		Company:    "acme",
		CoreValues: []model.CoreValue{{Name: "Integrity", Description: "Honest"}},
		Questions: []model.Question{{
			ID:         1,
			Text:       "Q1",
			CoreValues: []string{"Integrity"},
			Options:    []model.Option{{Text: "A", Score: 8}, {Text: "B", Score: 6}, {Text: "C", Score: 4}, {Text: "D", Score: 2}},
		}},
		Status:   model.TestStatusPublished,
		Students: []string{"someone"},
	}
}

func TestTestCreateStampsLifecycle(t *testing.T) {
	fake, client := newFakeFirestore(t)
	repo := NewTestRepo(client, logger.Nop()).(*testRepo)
	fixed := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return fixed }

	in := sampleTest()
	original := in.CoreValues
	id, err := repo.Create(context.Background(), "tok", "u1", in)
	require.NoError(t, err)
	require.Equal(t, "gen1", id)
	require.Equal(t, []string{"POST tests"}, fake.callLog())

	require.Equal(t, model.TestStatusDraft, in.Status)
	require.Equal(t, "u1", in.OwnerID)
	require.Equal(t, fixed, in.CreatedAt)
	require.Equal(t, fixed, in.UpdatedAt)
	require.Equal(t, fixed, in.StartDate)
	require.Equal(t, fixed.Add(30*24*time.Hour), in.EndDate)
	require.Empty(t, in.Students)

	// the stored snapshot is independent of the caller's list
	original[0].Name = "Changed"
	got, err := repo.Get(context.Background(), "tok", id)
	require.NoError(t, err)
	require.Equal(t, "Integrity", got.CoreValues[0].Name)
	require.Equal(t, "u1", got.OwnerID)
	require.Equal(t, model.TestStatusDraft, got.Status)
	require.Len(t, got.Questions, 1)
	require.Equal(t, in.Questions, got.Questions)
	require.True(t, got.EndDate.Equal(fixed.Add(model.TestWindow)))
}

func TestTestCreateFailure(t *testing.T) {
	fake, client := newFakeFirestore(t)
	fake.fail(http.MethodPost, http.StatusServiceUnavailable)
	repo := NewTestRepo(client, logger.Nop())

	id, err := repo.Create(context.Background(), "tok", "u1", sampleTest())
	require.Error(t, err)
	require.Empty(t, id)
}

func TestTestGetLegacyPath(t *testing.T) {
	fake, client := newFakeFirestore(t)
	fake.put("users/u1/tests/old", firestore.Fields{
		"userId":     firestore.String("u1"),
		"name":       firestore.String("Legacy"),
		"coreValues": firestore.StringArray([]string{"Integrity"}),
	})
	repo := NewTestRepo(client, logger.Nop())

	got, err := repo.Get(context.Background(), "tok", "users/u1/tests/old")
	require.NoError(t, err)
	require.Equal(t, "Legacy", got.Name)
	require.Equal(t, []model.CoreValue{{Name: "Integrity"}}, got.CoreValues)
}

func TestTestGetNotFound(t *testing.T) {
	_, client := newFakeFirestore(t)
	repo := NewTestRepo(client, logger.Nop())

	_, err := repo.Get(context.Background(), "tok", "missing")
	require.ErrorIs(t, err, firestore.ErrNotFound)
}
