package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"askyourdata/models"
	"askyourdata/parser"
	"askyourdata/store"

	"github.com/spf13/cobra"
)

type inspectOutput struct {
	File          string          `json:"file"`
	FileType      models.FileType `json:"fileType"`
	TableName     string          `json:"tableName"`
	RowCount      int             `json:"rowCount"`
	ColumnCount   int             `json:"columnCount"`
	Schema        models.Schema   `json:"schema"`
	Preview       []models.Row    `json:"preview"`
	SkippedTables []string        `json:"skippedTables,omitempty"`
}

func newInspectCmd() *cobra.Command {
	var rows int
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Parse a file and print its schema and first rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			fileType, err := parser.FileTypeFromName(path)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			res, err := parser.Parse(data, fileType, path)
			if err != nil {
				return fmt.Errorf("parse %s: %w", path, err)
			}

			if rows <= 0 {
				rows = store.DefaultPreviewLimit
			}
			preview := res.Rows
			if len(preview) > rows {
				preview = preview[:rows]
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(inspectOutput{
				File:          path,
				FileType:      fileType,
				TableName:     res.TableName,
				RowCount:      res.RowCount,
				ColumnCount:   res.ColumnCount,
				Schema:        res.Schema,
				Preview:       preview,
				SkippedTables: res.SkippedTables,
			})
		},
	}
	cmd.Flags().IntVar(&rows, "rows", store.DefaultPreviewLimit, "number of preview rows")
	return cmd
}
