package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"askyourdata/models"
	"askyourdata/parser"
)

// MaxQuestionLength caps what is forwarded to the model. Longer questions
// are truncated, not rejected.
const MaxQuestionLength = 2000

var tableIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Question trims the question and rejects blank input.
func Question(question string) (string, error) {
	trimmed := strings.TrimSpace(question)
	if trimmed == "" {
		return "", models.ErrQuestionMissing
	}
	if len(trimmed) > MaxQuestionLength {
		trimmed = strings.ToValidUTF8(trimmed[:MaxQuestionLength], "")
	}
	return trimmed, nil
}

// Upload checks an uploaded file's name and size and returns its type.
func Upload(filename string, size, maxBytes int64) (models.FileType, error) {
	if maxBytes > 0 && size > maxBytes {
		return "", fmt.Errorf("%w: %d bytes exceeds the %d byte limit", models.ErrUploadTooLarge, size, maxBytes)
	}
	if size == 0 {
		return "", fmt.Errorf("%w: no file content", models.ErrEmptyOrMalformedFile)
	}
	return parser.FileTypeFromName(filename)
}

// TableIdentifier reports whether name is a plain table or schema.table
// identifier safe to bracket-quote into a query.
func TableIdentifier(name string) bool {
	return tableIdentifier.MatchString(name)
}

// LooksLikeGibberish flags questions unlikely to translate into anything
// useful. The question is still answered; callers only log it.
func LooksLikeGibberish(question string) bool {
	trimmed := strings.TrimSpace(question)
	if len(trimmed) < 3 {
		return true
	}
	if isRepeatedCharacters(trimmed) || hasExcessiveRepetition(trimmed) {
		return true
	}

	letterCount, totalChars := 0, 0
	for _, r := range trimmed {
		if unicode.IsLetter(r) {
			letterCount++
		}
		if !unicode.IsSpace(r) {
			totalChars++
		}
	}
	return totalChars == 0 || float64(letterCount)/float64(totalChars) < 0.3
}

// isRepeatedCharacters checks if a string is just repeated characters
func isRepeatedCharacters(s string) bool {
	if len(s) < 3 {
		return false
	}
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

// hasExcessiveRepetition checks for runs like "aaaaa" or "abababab"
func hasExcessiveRepetition(s string) bool {
	for width := 1; width <= 3; width++ {
		need := 5
		if width > 1 {
			need = 4
		}
		for i := 0; i+width*need <= len(s); i++ {
			pattern := s[i : i+width]
			if strings.TrimSpace(pattern) == "" {
				continue
			}
			repeats := 1
			for j := i + width; j+width <= len(s) && s[j:j+width] == pattern; j += width {
				repeats++
			}
			if repeats >= need {
				return true
			}
		}
	}
	return false
}
