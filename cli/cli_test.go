package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"askyourdata/models"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestInspectCSV(t *testing.T) {
	path := writeTemp(t, "people.csv", "name,age\nAlice,30\nBob,25\nCarol,41\n")

	out, err := runCLI(t, "inspect", path, "--rows", "2")
	require.NoError(t, err)

	var got struct {
		FileType  string                   `json:"fileType"`
		TableName string                   `json:"tableName"`
		RowCount  int                      `json:"rowCount"`
		Schema    map[string]string        `json:"schema"`
		Preview   []map[string]interface{} `json:"preview"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, string(models.FileTypeCSV), got.FileType)
	assert.Equal(t, "table_name", got.TableName)
	assert.Equal(t, 3, got.RowCount)
	assert.Equal(t, map[string]string{"name": "text", "age": "integer"}, got.Schema)
	assert.Len(t, got.Preview, 2)
}

func TestInspectSQLReportsSkippedTables(t *testing.T) {
	path := writeTemp(t, "dump.sql", `
CREATE TABLE a (id INT);
CREATE TABLE b (id INT);
INSERT INTO a VALUES (1);
`)
	out, err := runCLI(t, "inspect", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"skippedTables": [`)
	assert.Contains(t, out, `"b"`)
}

func TestInspectErrors(t *testing.T) {
	_, err := runCLI(t, "inspect", writeTemp(t, "notes.txt", "hello"))
	assert.ErrorIs(t, err, models.ErrUnsupportedFileType)

	_, err = runCLI(t, "inspect", writeTemp(t, "empty.csv", "a,b\n"))
	assert.ErrorIs(t, err, models.ErrEmptyOrMalformedFile)

	_, err = runCLI(t, "inspect", filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)

	_, err = runCLI(t, "inspect")
	assert.Error(t, err)
}
