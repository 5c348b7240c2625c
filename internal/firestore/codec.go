package firestore

import (
	"fmt"
	"time"

	"testgen/internal/model"
)

// EncodeCoreValue encodes a core value as a nested record
func EncodeCoreValue(cv model.CoreValue) Value {
	return Map(Fields{
		"name":        String(cv.Name),
		"description": String(cv.Description),
	})
}

// DecodeCoreValue decodes either a {name, description} record or a bare name
func DecodeCoreValue(v Value) (model.CoreValue, error) {
	switch DetectShape(v) {
	case ShapeRecord:
		fields, _ := v.AsMap()
		name, err := optionalString(fields, "name")
		if err != nil {
			return model.CoreValue{}, err
		}
		desc, err := optionalString(fields, "description")
		if err != nil {
			return model.CoreValue{}, err
		}
		return model.CoreValue{Name: name, Description: desc}, nil
	case ShapeNameOnly:
		name, _ := v.AsString()
		return model.CoreValue{Name: name}, nil
	}
	return model.CoreValue{}, &SchemaError{Want: KindMap, Got: v.Kind()}
}

// EncodeCoreValues encodes a list of core values, preserving order
func EncodeCoreValues(values []model.CoreValue) Value {
	items := make([]Value, 0, len(values))
	for _, cv := range values {
		items = append(items, EncodeCoreValue(cv))
	}
	return Array(items...)
}

// DecodeCoreValues decodes a list whose elements may mix historical shapes
func DecodeCoreValues(items []Value) ([]model.CoreValue, error) {
	out := make([]model.CoreValue, 0, len(items))
	for i, item := range items {
		cv, err := DecodeCoreValue(item)
		if err != nil {
			return nil, atField(fmt.Sprintf("[%d]", i), err)
		}
		out = append(out, cv)
	}
	return out, nil
}

// EncodeCoreValuesDocument builds the per-user core values document
func EncodeCoreValuesDocument(values []model.CoreValue, now time.Time) Fields {
	return Fields{
		"values":      EncodeCoreValues(values),
		"lastUpdated": Timestamp(now),
	}
}

// DecodeCoreValuesDocument reads the values list of a core values document.
// A document without a values field decodes to an empty list.
func DecodeCoreValuesDocument(doc *Document) ([]model.CoreValue, error) {
	if doc == nil {
		return []model.CoreValue{}, nil
	}
	items, name, err := optionalArray(doc.Fields, "values")
	if err != nil {
		return nil, err
	}
	values, err := DecodeCoreValues(items)
	return values, atField(name, err)
}

// EncodeOption encodes an option record
func EncodeOption(o model.Option) Value {
	return Map(Fields{
		"text":  String(o.Text),
		"score": Integer(int64(o.Score)),
	})
}

// DecodeOption decodes an option record
func DecodeOption(v Value) (model.Option, error) {
	fields, err := v.AsMap()
	if err != nil {
		return model.Option{}, err
	}
	text, err := optionalString(fields, "text")
	if err != nil {
		return model.Option{}, err
	}
	score, err := optionalInt(fields, "score")
	if err != nil {
		return model.Option{}, err
	}
	return model.Option{Text: text, Score: score}, nil
}

// EncodeQuestion encodes a question with its nested options
func EncodeQuestion(q model.Question) Value {
	options := make([]Value, 0, len(q.Options))
	for _, o := range q.Options {
		options = append(options, EncodeOption(o))
	}
	return Map(Fields{
		"id":          Integer(int64(q.ID)),
		"text":        String(q.Text),
		"core_values": StringArray(q.CoreValues),
		"options":     Array(options...),
	})
}

// DecodeQuestion decodes a question. Its core_values may hold names or
// full core value records; only the names are kept.
func DecodeQuestion(v Value) (model.Question, error) {
	fields, err := v.AsMap()
	if err != nil {
		return model.Question{}, err
	}
	id, err := optionalInt(fields, "id")
	if err != nil {
		return model.Question{}, err
	}
	text, err := optionalString(fields, "text")
	if err != nil {
		return model.Question{}, err
	}

	items, name, err := optionalArray(fields, "core_values", "coreValues")
	if err != nil {
		return model.Question{}, err
	}
	values, err := DecodeCoreValues(items)
	if err != nil {
		return model.Question{}, atField(name, err)
	}

	optItems, _, err := optionalArray(fields, "options")
	if err != nil {
		return model.Question{}, err
	}
	options := make([]model.Option, 0, len(optItems))
	for i, item := range optItems {
		o, err := DecodeOption(item)
		if err != nil {
			return model.Question{}, atField(fmt.Sprintf("options[%d]", i), err)
		}
		options = append(options, o)
	}

	return model.Question{
		ID:         id,
		Text:       text,
		CoreValues: model.CoreValueNames(values),
		Options:    options,
	}, nil
}

// EncodeTest builds the fields of a test document
func EncodeTest(t *model.Test) Fields {
	questions := make([]Value, 0, len(t.Questions))
	for _, q := range t.Questions {
		questions = append(questions, EncodeQuestion(q))
	}
	return Fields{
		"ownerId":     String(t.OwnerID),
		"name":        String(t.Name),
		"company":     String(t.Company),
		"description": String(t.Description),
		"coreValues":  EncodeCoreValues(t.CoreValues),
		"questions":   Array(questions...),
		"status":      String(string(t.Status)),
		"createdAt":   Timestamp(t.CreatedAt),
		"updatedAt":   Timestamp(t.UpdatedAt),
		"startDate":   Timestamp(t.StartDate),
		"endDate":     Timestamp(t.EndDate),
		"students":    StringArray(t.Students),
	}
}

// DecodeTest reads a test document written by any known schema version
func DecodeTest(doc *Document) (*model.Test, error) {
	if doc == nil {
		return nil, ErrNotFound
	}
	f := doc.Fields
	t := &model.Test{}
	var err error

	if t.OwnerID, err = optionalString(f, fieldOwner...); err != nil {
		return nil, err
	}
	if t.Name, err = optionalString(f, "name"); err != nil {
		return nil, err
	}
	if t.Company, err = optionalString(f, "company"); err != nil {
		return nil, err
	}
	if t.Description, err = optionalString(f, "description"); err != nil {
		return nil, err
	}
	status, err := optionalString(f, "status")
	if err != nil {
		return nil, err
	}
	t.Status = model.TestStatus(status)

	cvItems, cvName, err := optionalArray(f, fieldCoreValues...)
	if err != nil {
		return nil, err
	}
	if t.CoreValues, err = DecodeCoreValues(cvItems); err != nil {
		return nil, atField(cvName, err)
	}

	qItems, _, err := optionalArray(f, "questions")
	if err != nil {
		return nil, err
	}
	t.Questions = make([]model.Question, 0, len(qItems))
	for i, item := range qItems {
		q, err := DecodeQuestion(item)
		if err != nil {
			return nil, atField(fmt.Sprintf("questions[%d]", i), err)
		}
		t.Questions = append(t.Questions, q)
	}

	if t.CreatedAt, err = optionalTime(f, fieldCreatedAt...); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = optionalTime(f, fieldUpdatedAt...); err != nil {
		return nil, err
	}
	if t.StartDate, err = optionalTime(f, fieldStartDate...); err != nil {
		return nil, err
	}
	if t.EndDate, err = optionalTime(f, fieldEndDate...); err != nil {
		return nil, err
	}
	if t.Students, err = optionalStrings(f, "students"); err != nil {
		return nil, err
	}
	return t, nil
}

// LastUpdated returns the document's last-updated stamp from any known alias
func LastUpdated(doc *Document) (time.Time, error) {
	if doc == nil {
		return time.Time{}, nil
	}
	return optionalTime(doc.Fields, fieldLastUpdated...)
}
