package service

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"askyourdata/models"
)

// ResultFile is the JSON export of one answered question.
type ResultFile struct {
	Query     string       `json:"query"`
	Timestamp string       `json:"timestamp"`
	Columns   []string     `json:"columns"`
	Rows      []models.Row `json:"rows"`
	RowCount  int          `json:"rowCount"`
}

// ResultFileName names the download for a message's results.
func ResultFileName(msg models.ChatMessage, format string) string {
	return fmt.Sprintf("result_%d_%s.%s", msg.ID, msg.Timestamp.Format("20060102_150405"), format)
}

// resultColumns is the union of the rows' columns in first-seen order.
func resultColumns(rows []models.Row) []string {
	seen := make(map[string]bool)
	var columns []string
	for _, row := range rows {
		for _, c := range row.Columns {
			if !seen[c] {
				seen[c] = true
				columns = append(columns, c)
			}
		}
	}
	return columns
}

// WriteResultJSON writes the message's query and result rows as JSON.
func WriteResultJSON(w io.Writer, msg models.ChatMessage) error {
	rows := msg.ResultRows
	if rows == nil {
		rows = []models.Row{}
	}
	columns := resultColumns(rows)
	if columns == nil {
		columns = []string{}
	}
	resultData := ResultFile{
		Timestamp: msg.Timestamp.Format(time.RFC3339),
		Columns:   columns,
		Rows:      rows,
		RowCount:  len(rows),
	}
	if msg.GeneratedQuery != nil {
		resultData.Query = *msg.GeneratedQuery
	}

	data, err := json.MarshalIndent(resultData, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

// WriteResultCSV writes the message's result rows as CSV with a header row.
// Missing and Null cells are empty.
func WriteResultCSV(w io.Writer, msg models.ChatMessage) error {
	columns := resultColumns(msg.ResultRows)

	writer := csv.NewWriter(w)
	if err := writer.Write(columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range msg.ResultRows {
		record := make([]string, len(columns))
		for i, col := range columns {
			if val, ok := row.Get(col); ok {
				record[i] = val.String()
			}
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
