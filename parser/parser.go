// Package parser turns uploaded file contents into typed rows and an
// inferred schema.
package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"askyourdata/models"
)

// Result is the outcome of parsing one uploaded file.
type Result struct {
	TableName   string
	Schema      models.Schema
	Rows        []models.Row
	RowCount    int
	ColumnCount int

	// SkippedTables names CREATE TABLE statements after the first one in an
	// SQL dump. Their inserts are not captured.
	SkippedTables []string
}

func newResult(tableName string, schema models.Schema, rows []models.Row) *Result {
	return &Result{
		TableName:   tableName,
		Schema:      schema,
		Rows:        rows,
		RowCount:    len(rows),
		ColumnCount: len(schema),
	}
}

// Parse dispatches on the declared file type.
func Parse(data []byte, fileType models.FileType, originalName string) (*Result, error) {
	switch fileType {
	case models.FileTypeCSV:
		return ParseCSV(data)
	case models.FileTypeJSON:
		return ParseJSON(data)
	case models.FileTypeSQL:
		return ParseSQL(data, originalName)
	default:
		return nil, fmt.Errorf("%w: %s", models.ErrUnsupportedFileType, fileType)
	}
}

// FileTypeFromName maps a filename extension to a supported FileType.
func FileTypeFromName(name string) (models.FileType, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	switch models.FileType(ext) {
	case models.FileTypeCSV, models.FileTypeJSON, models.FileTypeSQL:
		return models.FileType(ext), nil
	}
	if ext == "" {
		return "", fmt.Errorf("%w: %q has no extension", models.ErrUnsupportedFileType, name)
	}
	return "", fmt.Errorf("%w: .%s (only CSV, JSON, and SQL files are allowed)", models.ErrUnsupportedFileType, ext)
}

// BaseName strips directories and the extension from a filename.
func BaseName(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func tablePrefixed(name string) string {
	return "table_" + strings.ToLower(name)
}
