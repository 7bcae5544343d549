package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"askyourdata/models"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// ParseCSV reads a header row followed by data rows. The schema comes from
// the first data row; later rows are coerced to it.
func ParseCSV(data []byte) (*Result, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: no header row", models.ErrEmptyOrMalformedFile)
		}
		return nil, fmt.Errorf("%w: %v", models.ErrEmptyOrMalformedFile, err)
	}
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}
	tableName := csvTableName(columns)
	columns = uniqueColumns(columns)

	var (
		schema models.Schema
		rows   []models.Row
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrEmptyOrMalformedFile, err)
		}
		if isBlankRecord(record) {
			continue
		}

		row := models.NewRow(len(columns))
		if schema == nil {
			schema = make(models.Schema, 0, len(columns))
			for i, col := range columns {
				cell := ""
				if i < len(record) {
					cell = record[i]
				}
				v, typ := typedCell(cell)
				schema = append(schema, models.Column{Name: col, Type: typ})
				row.Set(col, v)
			}
		} else {
			for i, col := range schema {
				if i >= len(record) {
					row.Set(col.Name, models.Null())
					continue
				}
				row.Set(col.Name, Coerce(record[i], col.Type))
			}
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: CSV file has no data rows", models.ErrEmptyOrMalformedFile)
	}

	return newResult(tableName, schema, rows), nil
}

func csvTableName(columns []string) string {
	if len(columns) == 0 || columns[0] == "" {
		return "uploaded_data"
	}
	return tablePrefixed(whitespaceRun.ReplaceAllString(columns[0], "_"))
}

func isBlankRecord(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// uniqueColumns names blank headers and suffixes repeated ones so every
// column keeps its own cell.
func uniqueColumns(columns []string) []string {
	seen := make(map[string]int, len(columns))
	out := make([]string, len(columns))
	for i, c := range columns {
		if c == "" {
			c = fmt.Sprintf("column_%d", i+1)
		}
		name := c
		for seen[name] > 0 {
			seen[c]++
			name = fmt.Sprintf("%s_%d", c, seen[c])
		}
		seen[name]++
		out[i] = name
	}
	return out
}
