package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"askyourdata/models"
)

// BuildQueryPrompt constructs the request asking the model to translate a
// question about tableName into SQL plus an explanation.
func BuildQueryPrompt(question string, schema models.Schema, sampleRows []models.Row, tableName string) string {
	var schemaBuilder strings.Builder
	for i, col := range schema {
		if i > 0 {
			schemaBuilder.WriteString("\n")
		}
		schemaBuilder.WriteString(fmt.Sprintf("%s (%s)", col.Name, col.Type))
	}

	if sampleRows == nil {
		sampleRows = []models.Row{}
	}
	sample, err := json.MarshalIndent(sampleRows, "", "  ")
	if err != nil {
		sample = []byte("[]")
	}

	var promptBuilder strings.Builder
	promptBuilder.WriteString(fmt.Sprintf("You are an SQL expert working with a database. Here's the structure for a table named %q:\n\n", tableName))
	promptBuilder.WriteString("Table Schema:\n")
	promptBuilder.WriteString(schemaBuilder.String())
	promptBuilder.WriteString("\n\nHere are a few sample rows from the table to help you understand the data types:\n")
	promptBuilder.Write(sample)
	promptBuilder.WriteString(fmt.Sprintf("\n\nThe user wants to know: %q\n\n", question))
	promptBuilder.WriteString("Please generate an SQL query to answer this question and provide a brief explanation of what the query does.\n")
	promptBuilder.WriteString("Return a valid JSON with the following format:\n")
	promptBuilder.WriteString("{\n")
	promptBuilder.WriteString("  \"sql\": \"YOUR SQL QUERY HERE\",\n")
	promptBuilder.WriteString("  \"explanation\": \"A clear explanation of what the query does and why it answers the user's question\"\n")
	promptBuilder.WriteString("}")

	return promptBuilder.String()
}
