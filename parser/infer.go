package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"askyourdata/models"
)

var (
	isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
	usDatePattern  = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}`)
)

// LooksLikeDate reports whether s starts with YYYY-MM-DD or MM/DD/YYYY.
func LooksLikeDate(s string) bool {
	return isoDatePattern.MatchString(s) || usDatePattern.MatchString(s)
}

// parseNumber accepts decimal numerals only; Inf, NaN and hex forms are
// rejected even though strconv understands them.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if !(r >= '0' && r <= '9' || r == '.' || r == '-' || r == '+' || r == 'e' || r == 'E') {
			return 0, false
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func isIntegral(f float64) bool {
	return f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64
}

// InferText classifies a raw text cell.
func InferText(s string) models.ColumnType {
	if f, ok := parseNumber(s); ok {
		if isIntegral(f) {
			return models.TypeInteger
		}
		return models.TypeFloat
	}
	if s == "true" || s == "false" {
		return models.TypeBoolean
	}
	if LooksLikeDate(s) {
		return models.TypeDate
	}
	return models.TypeText
}

// InferValue classifies an already typed value.
func InferValue(v models.Value) models.ColumnType {
	switch v.Kind {
	case models.KindInteger:
		return models.TypeInteger
	case models.KindFloat:
		return models.TypeFloat
	case models.KindBool:
		return models.TypeBoolean
	case models.KindDate:
		return models.TypeDate
	case models.KindText:
		return models.TypeText
	case models.KindNested:
		return models.TypeNested
	default:
		return models.TypeNull
	}
}

// InferSchema derives a schema from the first row only.
func InferSchema(first models.Row) models.Schema {
	schema := make(models.Schema, 0, first.Len())
	for i, col := range first.Columns {
		schema = append(schema, models.Column{Name: col, Type: InferValue(first.Values[i])})
	}
	return schema
}

// Coerce converts a raw text cell to the column type. Cells that cannot be
// converted become Null; a fractional number in an integer column is kept
// as a Float rather than truncated.
func Coerce(s string, typ models.ColumnType) models.Value {
	if typ == models.TypeText {
		return models.Text(s)
	}

	trimmed := strings.TrimSpace(s)
	if trimmed == "" || strings.EqualFold(trimmed, "null") {
		return models.Null()
	}

	switch typ {
	case models.TypeInteger:
		if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return models.Integer(n)
		}
		f, ok := parseNumber(trimmed)
		if !ok {
			return models.Null()
		}
		if isIntegral(f) {
			return models.Integer(int64(f))
		}
		return models.Float(f)
	case models.TypeFloat:
		if f, ok := parseNumber(trimmed); ok {
			return models.Float(f)
		}
	case models.TypeBoolean:
		switch strings.ToLower(trimmed) {
		case "true", "t", "1":
			return models.Bool(true)
		case "false", "f", "0":
			return models.Bool(false)
		}
	case models.TypeDate:
		if LooksLikeDate(trimmed) {
			return models.Date(trimmed)
		}
	case models.TypeNested:
		return models.Text(s)
	}
	return models.Null()
}

// typedCell converts a first-row text cell into the Value its inferred
// type implies.
func typedCell(s string) (models.Value, models.ColumnType) {
	typ := InferText(s)
	return Coerce(s, typ), typ
}
