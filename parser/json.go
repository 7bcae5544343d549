package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"askyourdata/models"
)

// orderedField is one member of a JSON object, in document order.
type orderedField struct {
	Key string
	Raw json.RawMessage
}

// ParseJSON accepts either a top-level array of objects or an object with
// at least one property holding a non-empty array of objects.
func ParseJSON(data []byte) (*Result, error) {
	trimmed := bytes.TrimSpace(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")))
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty JSON document", models.ErrEmptyOrMalformedFile)
	}
	if !json.Valid(trimmed) {
		return nil, fmt.Errorf("%w: invalid JSON", models.ErrEmptyOrMalformedFile)
	}

	switch trimmed[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrEmptyOrMalformedFile, err)
		}
		if len(items) == 0 || !isObject(items[0]) {
			return nil, models.ErrUnsupportedJsonShape
		}
		rows, schema, err := objectRows(items)
		if err != nil {
			return nil, err
		}
		tableName := "json_data"
		if len(schema) > 0 {
			tableName = tablePrefixed(schema[0].Name)
		}
		return newResult(tableName, schema, rows), nil

	case '{':
		fields, err := decodeObject(trimmed)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrEmptyOrMalformedFile, err)
		}
		for _, f := range fields {
			if len(f.Raw) == 0 || f.Raw[0] != '[' {
				continue
			}
			var items []json.RawMessage
			if err := json.Unmarshal(f.Raw, &items); err != nil {
				continue
			}
			if len(items) == 0 || !isObject(items[0]) {
				continue
			}
			rows, schema, err := objectRows(items)
			if err != nil {
				return nil, err
			}
			return newResult(tablePrefixed(f.Key), schema, rows), nil
		}
	}
	return nil, models.ErrUnsupportedJsonShape
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}

// objectRows converts each object element into a Row. Non-object elements
// are skipped. The schema comes from the first element.
func objectRows(items []json.RawMessage) ([]models.Row, models.Schema, error) {
	var (
		rows   []models.Row
		schema models.Schema
	)
	for _, item := range items {
		if !isObject(item) {
			continue
		}
		fields, err := decodeObject(item)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", models.ErrEmptyOrMalformedFile, err)
		}
		row := models.NewRow(len(fields))
		for _, f := range fields {
			row.Set(f.Key, jsonValue(f.Raw))
		}
		if schema == nil {
			schema = InferSchema(row)
		} else {
			row = alignRow(row, schema)
		}
		rows = append(rows, row)
	}
	return rows, schema, nil
}

// alignRow gives row exactly the schema's columns: missing ones become
// Null and unknown ones are dropped.
func alignRow(row models.Row, schema models.Schema) models.Row {
	out := models.NewRow(len(schema))
	for _, col := range schema {
		v, ok := row.Get(col.Name)
		if !ok {
			v = models.Null()
		}
		out.Set(col.Name, v)
	}
	return out
}

// decodeObject reads the members of a JSON object in document order.
func decodeObject(data []byte) ([]orderedField, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected object")
	}
	var fields []orderedField
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key")
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		fields = append(fields, orderedField{Key: key, Raw: raw})
	}
	return fields, nil
}

// jsonValue maps a raw JSON value to its native Value kind.
func jsonValue(raw json.RawMessage) models.Value {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return models.Null()
	}
	switch raw[0] {
	case 'n':
		return models.Null()
	case 't':
		return models.Bool(true)
	case 'f':
		return models.Bool(false)
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return models.Null()
		}
		if LooksLikeDate(s) {
			return models.Date(s)
		}
		return models.Text(s)
	case '{', '[':
		return models.Nested(raw)
	default:
		if n, err := strconv.ParseInt(string(raw), 10, 64); err == nil {
			return models.Integer(n)
		}
		f, err := strconv.ParseFloat(string(raw), 64)
		if err != nil {
			return models.Null()
		}
		if isIntegral(f) {
			return models.Integer(int64(f))
		}
		return models.Float(f)
	}
}
