package firestore

import "time"

// Shape is the historical layout of a list element
type Shape int

const (
	ShapeUnknown  Shape = iota
	ShapeRecord         // mapValue with named fields
	ShapeNameOnly       // bare stringValue holding the name
)

func (s Shape) String() string {
	switch s {
	case ShapeRecord:
		return "record"
	case ShapeNameOnly:
		return "name-only"
	}
	return "unknown"
}

// DetectShape keys on which wrapper the element carries
func DetectShape(v Value) Shape {
	switch v.Kind() {
	case KindMap:
		return ShapeRecord
	case KindString:
		return ShapeNameOnly
	}
	return ShapeUnknown
}

// Field aliases, current name first. Older documents used the later names.
var (
	fieldLastUpdated = []string{"lastUpdated", "updated_at"}
	fieldOwner       = []string{"ownerId", "userId"}
	fieldCoreValues  = []string{"coreValues", "core_values"}
	fieldCreatedAt   = []string{"createdAt", "created_at"}
	fieldUpdatedAt   = []string{"updatedAt", "updated_at"}
	fieldStartDate   = []string{"startDate", "start_date"}
	fieldEndDate     = []string{"endDate", "end_date"}
)

// lookup returns the first present alias
func lookup(fields Fields, names ...string) (Value, string, bool) {
	for _, name := range names {
		if v, ok := fields[name]; ok {
			return v, name, true
		}
	}
	return Value{}, "", false
}

func optionalString(fields Fields, names ...string) (string, error) {
	v, name, ok := lookup(fields, names...)
	if !ok || v.Kind() == KindNull {
		return "", nil
	}
	s, err := v.AsString()
	return s, atField(name, err)
}

func optionalInt(fields Fields, names ...string) (int, error) {
	v, name, ok := lookup(fields, names...)
	if !ok || v.Kind() == KindNull {
		return 0, nil
	}
	if v.Kind() == KindDouble {
		// some writers store whole numbers as doubles
		f, _ := v.AsDouble()
		if f == float64(int(f)) {
			return int(f), nil
		}
	}
	n, err := v.AsInteger()
	return int(n), atField(name, err)
}

func optionalTime(fields Fields, names ...string) (time.Time, error) {
	v, name, ok := lookup(fields, names...)
	if !ok || v.Kind() == KindNull {
		return time.Time{}, nil
	}
	t, err := v.AsTimestamp()
	return t, atField(name, err)
}

func optionalArray(fields Fields, names ...string) ([]Value, string, error) {
	v, name, ok := lookup(fields, names...)
	if !ok || v.Kind() == KindNull {
		return nil, "", nil
	}
	items, err := v.AsArray()
	return items, name, atField(name, err)
}

func optionalStrings(fields Fields, names ...string) ([]string, error) {
	items, name, err := optionalArray(fields, names...)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, err := item.AsString()
		if err != nil {
			return nil, atField(name, err)
		}
		out = append(out, s)
	}
	return out, nil
}
