package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"askyourdata/models"
)

func TestQuestion(t *testing.T) {
	q, err := Question("  how many rows?  ")
	require.NoError(t, err)
	assert.Equal(t, "how many rows?", q)

	for _, blank := range []string{"", "   ", "\n\t"} {
		_, err := Question(blank)
		assert.ErrorIs(t, err, models.ErrQuestionMissing)
	}

	long, err := Question(strings.Repeat("why ", 1000))
	require.NoError(t, err)
	assert.Len(t, long, MaxQuestionLength)
}

func TestUpload(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		size     int64
		want     models.FileType
		wantErr  error
	}{
		{"csv", "data.csv", 10, models.FileTypeCSV, nil},
		{"sql", "dump.SQL", 10, models.FileTypeSQL, nil},
		{"too large", "data.csv", 101, "", models.ErrUploadTooLarge},
		{"empty", "data.csv", 0, "", models.ErrEmptyOrMalformedFile},
		{"bad extension", "data.xlsx", 10, "", models.ErrUnsupportedFileType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Upload(tt.filename, tt.size, 100)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTableIdentifier(t *testing.T) {
	for _, ok := range []string{"Customers", "dbo.Customers", "_t1"} {
		assert.True(t, TableIdentifier(ok), ok)
	}
	for _, bad := range []string{"", "1abc", "a.b.c", "t; DROP TABLE x", "[t]", "t--"} {
		assert.False(t, TableIdentifier(bad), bad)
	}
}

func TestLooksLikeGibberish(t *testing.T) {
	for _, ok := range []string{"How many users signed up in 2023?", "average price by category", "top 10 orders"} {
		assert.False(t, LooksLikeGibberish(ok), ok)
	}
	for _, bad := range []string{"aaaaaaa", "??", "12345 67890 !!!", "asasasasas"} {
		assert.True(t, LooksLikeGibberish(bad), bad)
	}
}
