package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ColumnType is the inferred type of a dataset column.
type ColumnType string

const (
	TypeInteger ColumnType = "integer"
	TypeFloat   ColumnType = "float"
	TypeBoolean ColumnType = "boolean"
	TypeDate    ColumnType = "date"
	TypeText    ColumnType = "text"
	TypeNull    ColumnType = "null"
	TypeNested  ColumnType = "nested"
)

// ValueKind tags the variant held by a Value.
type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindInteger
	KindFloat
	KindBool
	KindText
	KindDate
	KindNested
)

func (k ValueKind) String() string {
	return [...]string{"null", "integer", "float", "bool", "text", "date", "nested"}[k]
}

// Value is a single cell. Only the field matching Kind is meaningful.
// Dates keep their source text; Nested keeps the raw JSON.
type Value struct {
	Kind  ValueKind
	Int   int64
	Float float64
	Bool  bool
	Str   string
	Raw   json.RawMessage
}

func Null() Value                  { return Value{} }
func Integer(v int64) Value        { return Value{Kind: KindInteger, Int: v} }
func Float(v float64) Value        { return Value{Kind: KindFloat, Float: v} }
func Bool(v bool) Value            { return Value{Kind: KindBool, Bool: v} }
func Text(v string) Value          { return Value{Kind: KindText, Str: v} }
func Date(v string) Value          { return Value{Kind: KindDate, Str: v} }
func Nested(raw json.RawMessage) Value {
	cp := make(json.RawMessage, len(raw))
	copy(cp, raw)
	return Value{Kind: KindNested, Raw: cp}
}

// IsNull reports whether the value is the Null variant.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// String renders the value as plain text; Null renders as "".
func (v Value) String() string {
	switch v.Kind {
	case KindInteger:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindText, KindDate:
		return v.Str
	case KindNested:
		return string(v.Raw)
	default:
		return ""
	}
}

// MarshalJSON encodes the value in its natural JSON form.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNull:
		return []byte("null"), nil
	case KindInteger:
		return []byte(strconv.FormatInt(v.Int, 10)), nil
	case KindFloat:
		return json.Marshal(v.Float)
	case KindBool:
		return json.Marshal(v.Bool)
	case KindText, KindDate:
		return json.Marshal(v.Str)
	case KindNested:
		if len(v.Raw) == 0 {
			return []byte("null"), nil
		}
		return v.Raw, nil
	}
	return nil, fmt.Errorf("unknown value kind %d", v.Kind)
}

// Row is an ordered mapping of column name to Value.
type Row struct {
	Columns []string
	Values  []Value
}

// NewRow returns an empty row with room for n columns.
func NewRow(n int) Row {
	return Row{Columns: make([]string, 0, n), Values: make([]Value, 0, n)}
}

// Set adds or replaces a column value, keeping first-insertion order.
func (r *Row) Set(column string, v Value) {
	for i, c := range r.Columns {
		if c == column {
			r.Values[i] = v
			return
		}
	}
	r.Columns = append(r.Columns, column)
	r.Values = append(r.Values, v)
}

// Get returns the value for column and whether it is present.
func (r Row) Get(column string) (Value, bool) {
	for i, c := range r.Columns {
		if c == column {
			return r.Values[i], true
		}
	}
	return Value{}, false
}

// Len returns the number of columns in the row.
func (r Row) Len() int { return len(r.Columns) }

// MarshalJSON encodes the row as an object in column order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r.Columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := r.Values[i].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Column is one entry of a Schema.
type Column struct {
	Name string
	Type ColumnType
}

// Schema is the ordered column→type mapping of a dataset.
type Schema []Column

// Names returns the column names in order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, c := range s {
		names[i] = c.Name
	}
	return names
}

// TypeOf returns the type of the named column.
func (s Schema) TypeOf(name string) (ColumnType, bool) {
	for _, c := range s {
		if c.Name == name {
			return c.Type, true
		}
	}
	return "", false
}

// MarshalJSON encodes the schema as {"column": "type", ...} in column order.
func (s Schema) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		typ, _ := json.Marshal(string(c.Type))
		buf.Write(typ)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
