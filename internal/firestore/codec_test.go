package firestore

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"testgen/internal/model"
)

func decodeDoc(t *testing.T, raw string) *Document {
	t.Helper()
	var doc Document
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return &doc
}

func TestCoreValuesDocumentRoundTrip(t *testing.T) {
	now := time.Date(2025, 5, 2, 8, 0, 0, 0, time.UTC)
	values := []model.CoreValue{
		{Name: "Integrity", Description: "Do the right thing"},
		{Name: "Teamwork"},
	}

	body, err := json.Marshal(Document{Fields: EncodeCoreValuesDocument(values, now)})
	require.NoError(t, err)

	doc := decodeDoc(t, string(body))
	got, err := DecodeCoreValuesDocument(doc)
	require.NoError(t, err)
	require.Equal(t, values, got)

	stamp, err := LastUpdated(doc)
	require.NoError(t, err)
	require.True(t, stamp.Equal(now))
}

func TestDecodeCoreValuesDocumentMixedShapes(t *testing.T) {
	doc := decodeDoc(t, `{
		"name": "projects/p/databases/(default)/documents/users/u1/core_values/core_values",
		"fields": {
			"values": {"arrayValue": {"values": [
				{"mapValue": {"fields": {
					"name": {"stringValue": "Integrity"},
					"description": {"stringValue": "Honest"}
				}}},
				{"stringValue": "Courage"}
			]}},
			"updated_at": {"timestampValue": "2024-01-01T00:00:00Z"}
		}
	}`)

	got, err := DecodeCoreValuesDocument(doc)
	require.NoError(t, err)
	require.Equal(t, []model.CoreValue{
		{Name: "Integrity", Description: "Honest"},
		{Name: "Courage"},
	}, got)

	stamp, err := LastUpdated(doc)
	require.NoError(t, err)
	require.Equal(t, 2024, stamp.Year())
}

func TestDecodeCoreValuesDocumentEmptyForms(t *testing.T) {
	for _, raw := range []string{
		`{}`,
		`{"fields": {}}`,
		`{"fields": {"values": {"arrayValue": {}}}}`,
		`{"fields": {"values": {"nullValue": null}}}`,
	} {
		got, err := DecodeCoreValuesDocument(decodeDoc(t, raw))
		require.NoError(t, err, raw)
		require.NotNil(t, got, raw)
		require.Empty(t, got, raw)
	}

	got, err := DecodeCoreValuesDocument(nil)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestDecodeCoreValuesDocumentSchemaMismatch(t *testing.T) {
	doc := decodeDoc(t, `{"fields": {"values": {"arrayValue": {"values": [
		{"stringValue": "Integrity"},
		{"integerValue": "3"}
	]}}}}`)

	_, err := DecodeCoreValuesDocument(doc)
	require.ErrorIs(t, err, ErrSchemaMismatch)

	var se *SchemaError
	require.ErrorAs(t, err, &se)
	require.Equal(t, "values.[1]", se.Field)
	require.Equal(t, KindInteger, se.Got)
}

func TestDecodeCoreValuesDocumentValuesNotArray(t *testing.T) {
	doc := decodeDoc(t, `{"fields": {"values": {"stringValue": "Integrity"}}}`)
	_, err := DecodeCoreValuesDocument(doc)
	require.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestQuestionRoundTrip(t *testing.T) {
	q := model.Question{
		ID:         3,
		Text:       "A teammate misses a deadline. What do you do?",
		CoreValues: []string{"Teamwork", "Integrity"},
		Options: []model.Option{
			{Text: "Offer help", Score: 8},
			{Text: "Escalate kindly", Score: 6},
			{Text: "Wait and see", Score: 4},
			{Text: "Ignore it", Score: 2},
		},
	}

	raw, err := json.Marshal(EncodeQuestion(q))
	require.NoError(t, err)
	var v Value
	require.NoError(t, json.Unmarshal(raw, &v))

	got, err := DecodeQuestion(v)
	require.NoError(t, err)
	require.Equal(t, q, got)
}

func TestDecodeQuestionAcceptsCoreValueRecords(t *testing.T) {
	var v Value
	require.NoError(t, json.Unmarshal([]byte(`{"mapValue": {"fields": {
		"id": {"integerValue": 1},
		"text": {"stringValue": "Q"},
		"coreValues": {"arrayValue": {"values": [
			{"mapValue": {"fields": {"name": {"stringValue": "Integrity"}}}}
		]}},
		"options": {"arrayValue": {"values": [
			{"mapValue": {"fields": {"text": {"stringValue": "A"}, "score": {"doubleValue": 8}}}}
		]}}
	}}}`), &v))

	q, err := DecodeQuestion(v)
	require.NoError(t, err)
	require.Equal(t, 1, q.ID)
	require.Equal(t, []string{"Integrity"}, q.CoreValues)
	require.Equal(t, []model.Option{{Text: "A", Score: 8}}, q.Options)
}

func TestTestRoundTrip(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	in := &model.Test{
		Name:        "Core Values Assessment",
		Company:     "acme",
		Description: "quarterly",
		CoreValues:  []model.CoreValue{{Name: "Integrity", Description: "Honest"}},
		Questions: []model.Question{{
			ID:         1,
			Text:       "Q1",
			CoreValues: []string{"Integrity"},
			Options:    []model.Option{{Text: "A", Score: 8}, {Text: "B", Score: 2}},
		}},
		Status:    model.TestStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
		StartDate: now,
		EndDate:   now.Add(model.TestWindow),
		OwnerID:   "u1",
		Students:  []string{},
	}

	body, err := json.Marshal(Document{Fields: EncodeTest(in)})
	require.NoError(t, err)
	out, err := DecodeTest(decodeDoc(t, string(body)))
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestDecodeTestLegacyFieldNames(t *testing.T) {
	doc := decodeDoc(t, `{
		"name": "projects/p/databases/(default)/documents/users/u1/tests/t1",
		"fields": {
			"userId": {"stringValue": "u1"},
			"name": {"stringValue": "Old test"},
			"core_values": {"arrayValue": {"values": [{"stringValue": "Courage"}]}},
			"created_at": {"timestampValue": "2023-02-03T04:05:06Z"},
			"status": {"stringValue": "published"}
		}
	}`)

	got, err := DecodeTest(doc)
	require.NoError(t, err)
	require.Equal(t, "u1", got.OwnerID)
	require.Equal(t, []model.CoreValue{{Name: "Courage"}}, got.CoreValues)
	require.Equal(t, model.TestStatus("published"), got.Status)
	require.Equal(t, 2023, got.CreatedAt.Year())
	require.NotNil(t, got.Questions)
	require.NotNil(t, got.Students)
}

func TestDecodeTestNilDocument(t *testing.T) {
	_, err := DecodeTest(nil)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDetectShape(t *testing.T) {
	require.Equal(t, ShapeRecord, DetectShape(Map(nil)))
	require.Equal(t, ShapeNameOnly, DetectShape(String("x")))
	require.Equal(t, ShapeUnknown, DetectShape(Integer(1)))
	require.Equal(t, "name-only", ShapeNameOnly.String())
}
