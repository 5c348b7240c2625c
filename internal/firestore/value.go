package firestore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Kind is the type tag of a Value
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindInteger
	KindDouble
	KindBoolean
	KindTimestamp
	KindReference
	KindArray
	KindMap
)

var kindTags = map[Kind]string{
	KindNull:      "nullValue",
	KindString:    "stringValue",
	KindInteger:   "integerValue",
	KindDouble:    "doubleValue",
	KindBoolean:   "booleanValue",
	KindTimestamp: "timestampValue",
	KindReference: "referenceValue",
	KindArray:     "arrayValue",
	KindMap:       "mapValue",
}

// String returns the wire tag of the kind
func (k Kind) String() string {
	if tag, ok := kindTags[k]; ok {
		return tag
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Fields are the named values of a document or map value
type Fields map[string]Value

// Value is one tagged value of the document store wire format
type Value struct {
	kind Kind
	str  string
	num  int64
	dbl  float64
	bln  bool
	ts   time.Time
	arr  []Value
	obj  Fields
}

// Document is a stored document
type Document struct {
	Name       string `json:"name,omitempty"`
	Fields     Fields `json:"fields,omitempty"`
	CreateTime string `json:"createTime,omitempty"`
	UpdateTime string `json:"updateTime,omitempty"`
}

// ID returns the last path segment of the document name
func (d *Document) ID() string {
	for i := len(d.Name) - 1; i >= 0; i-- {
		if d.Name[i] == '/' {
			return d.Name[i+1:]
		}
	}
	return d.Name
}

func Null() Value                { return Value{kind: KindNull} }
func String(s string) Value      { return Value{kind: KindString, str: s} }
func Integer(n int64) Value      { return Value{kind: KindInteger, num: n} }
func Double(f float64) Value     { return Value{kind: KindDouble, dbl: f} }
func Boolean(b bool) Value       { return Value{kind: KindBoolean, bln: b} }
func Reference(ref string) Value { return Value{kind: KindReference, str: ref} }

// Timestamp wraps t, normalized to UTC
func Timestamp(t time.Time) Value { return Value{kind: KindTimestamp, ts: t.UTC()} }

// Array wraps values, preserving order
func Array(values ...Value) Value {
	if values == nil {
		values = []Value{}
	}
	return Value{kind: KindArray, arr: values}
}

// Map wraps fields as a nested record
func Map(fields Fields) Value {
	if fields == nil {
		fields = Fields{}
	}
	return Value{kind: KindMap, obj: fields}
}

// StringArray wraps each string as a stringValue
func StringArray(items []string) Value {
	values := make([]Value, 0, len(items))
	for _, s := range items {
		values = append(values, String(s))
	}
	return Array(values...)
}

// Kind returns the value's type tag
func (v Value) Kind() Kind { return v.kind }

func (v Value) mismatch(want Kind) error {
	return &SchemaError{Want: want, Got: v.kind}
}

// AsString returns the string of a stringValue or referenceValue
func (v Value) AsString() (string, error) {
	if v.kind != KindString && v.kind != KindReference {
		return "", v.mismatch(KindString)
	}
	return v.str, nil
}

// AsInteger returns the integer of an integerValue
func (v Value) AsInteger() (int64, error) {
	if v.kind != KindInteger {
		return 0, v.mismatch(KindInteger)
	}
	return v.num, nil
}

// AsDouble returns the number of a doubleValue or integerValue
func (v Value) AsDouble() (float64, error) {
	switch v.kind {
	case KindDouble:
		return v.dbl, nil
	case KindInteger:
		return float64(v.num), nil
	}
	return 0, v.mismatch(KindDouble)
}

// AsBoolean returns the bool of a booleanValue
func (v Value) AsBoolean() (bool, error) {
	if v.kind != KindBoolean {
		return false, v.mismatch(KindBoolean)
	}
	return v.bln, nil
}

// AsTimestamp returns the instant of a timestampValue
func (v Value) AsTimestamp() (time.Time, error) {
	if v.kind != KindTimestamp {
		return time.Time{}, v.mismatch(KindTimestamp)
	}
	return v.ts, nil
}

// AsArray returns the elements of an arrayValue
func (v Value) AsArray() ([]Value, error) {
	if v.kind != KindArray {
		return nil, v.mismatch(KindArray)
	}
	return v.arr, nil
}

// AsMap returns the fields of a mapValue
func (v Value) AsMap() (Fields, error) {
	if v.kind != KindMap {
		return nil, v.mismatch(KindMap)
	}
	return v.obj, nil
}

type arrayWire struct {
	Values []Value `json:"values,omitempty"`
}

type mapWire struct {
	Fields Fields `json:"fields,omitempty"`
}

// MarshalJSON encodes the value as {"<tag>": <payload>}
func (v Value) MarshalJSON() ([]byte, error) {
	var payload interface{}
	switch v.kind {
	case KindNull:
		payload = nil
	case KindString, KindReference:
		payload = v.str
	case KindInteger:
		// proto3 JSON carries int64 as a decimal string
		payload = strconv.FormatInt(v.num, 10)
	case KindDouble:
		payload = v.dbl
	case KindBoolean:
		payload = v.bln
	case KindTimestamp:
		payload = v.ts.UTC().Format(time.RFC3339Nano)
	case KindArray:
		payload = arrayWire{Values: v.arr}
	case KindMap:
		payload = mapWire{Fields: v.obj}
	default:
		return nil, fmt.Errorf("firestore: cannot encode %s", v.kind)
	}
	return json.Marshal(map[string]interface{}{v.kind.String(): payload})
}

// UnmarshalJSON decodes a tagged value. Exactly one tag must be present.
func (v *Value) UnmarshalJSON(data []byte) error {
	var wire map[string]json.RawMessage
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("%w: value is not an object: %v", ErrSchemaMismatch, err)
	}
	if len(wire) != 1 {
		return fmt.Errorf("%w: value must carry exactly one type tag, got %d", ErrSchemaMismatch, len(wire))
	}
	for tag, raw := range wire {
		return v.decodeTagged(tag, raw)
	}
	return nil
}

func (v *Value) decodeTagged(tag string, raw json.RawMessage) error {
	switch tag {
	case "nullValue":
		*v = Null()
	case "stringValue", "referenceValue":
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrSchemaMismatch, tag, err)
		}
		if tag == "referenceValue" {
			*v = Reference(s)
		} else {
			*v = String(s)
		}
	case "integerValue":
		n, err := parseInteger(raw)
		if err != nil {
			return fmt.Errorf("%w: integerValue: %v", ErrSchemaMismatch, err)
		}
		*v = Integer(n)
	case "doubleValue":
		f, err := parseDouble(raw)
		if err != nil {
			return fmt.Errorf("%w: doubleValue: %v", ErrSchemaMismatch, err)
		}
		*v = Double(f)
	case "booleanValue":
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return fmt.Errorf("%w: booleanValue: %v", ErrSchemaMismatch, err)
		}
		*v = Boolean(b)
	case "timestampValue":
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return fmt.Errorf("%w: timestampValue: %v", ErrSchemaMismatch, err)
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("%w: timestampValue: %v", ErrSchemaMismatch, err)
		}
		*v = Timestamp(t)
	case "arrayValue":
		var a arrayWire
		if err := json.Unmarshal(raw, &a); err != nil {
			return fmt.Errorf("%w: arrayValue: %v", ErrSchemaMismatch, err)
		}
		*v = Array(a.Values...)
	case "mapValue":
		var m mapWire
		if err := json.Unmarshal(raw, &m); err != nil {
			return fmt.Errorf("%w: mapValue: %v", ErrSchemaMismatch, err)
		}
		*v = Map(m.Fields)
	default:
		return fmt.Errorf("%w: unsupported type tag %q", ErrSchemaMismatch, tag)
	}
	return nil
}

// parseInteger accepts both the canonical "8" and a bare 8
func parseInteger(raw json.RawMessage) (int64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, err
		}
		return strconv.ParseInt(s, 10, 64)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, err
	}
	return n.Int64()
}

// parseDouble accepts numbers and the "NaN"/"Infinity" string forms
func parseDouble(raw json.RawMessage) (float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, err
		}
		return strconv.ParseFloat(s, 64)
	}
	var f float64
	err := json.Unmarshal(raw, &f)
	return f, err
}
