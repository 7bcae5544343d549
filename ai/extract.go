package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Sources name the step that produced a Translation.
const (
	SourceFencedJSON = "fenced-json"
	SourceFenced     = "fenced"
	SourceBrace      = "brace"
	SourceKeyValue   = "key-value"
	SourceBareSQL    = "bare-sql"
	SourceDefault    = "default"
	SourceError      = "error"
)

const (
	fallbackExplanation = "I couldn't generate a good SQL query for your question. Here's a basic query to show the data."
	errorExplanation    = "I encountered an error while trying to generate SQL for your question. Here's a simple query to show a preview of your data instead."
	bareSQLExplanation  = "Here's the data from your table. I tried to answer your question but couldn't generate a structured response."
)

var (
	fencedJSONBlock = regexp.MustCompile("(?is)```json[ \\t]*\\r?\\n(.*?)```")
	fencedBlock     = regexp.MustCompile("(?s)```[A-Za-z]*[ \\t]*\\r?\\n(.*?)```")
	fencedSQLBlock  = regexp.MustCompile("(?is)```sql[ \\t]*\\r?\\n(.*?)```")
	bareSelect      = regexp.MustCompile(`(?is)\bSELECT\b.*?;`)

	sqlKeyValue         = regexp.MustCompile(`(?i)["']?\b(?:sql|query)\b["']?\s*:\s*"((?:\\.|[^"\\])*)"`)
	sqlKeyValueSingle   = regexp.MustCompile(`(?i)["']?\b(?:sql|query)\b["']?\s*:\s*'((?:\\.|[^'\\])*)'`)
	explainKeyValue     = regexp.MustCompile(`(?i)["']?\bexplanation\b["']?\s*:\s*"((?:\\.|[^"\\])*)"`)
	explainKeyValueSing = regexp.MustCompile(`(?i)["']?\bexplanation\b["']?\s*:\s*'((?:\\.|[^'\\])*)'`)

	plainIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// Translation is a generated query with its explanation.
type Translation struct {
	Query       string `json:"sql"`
	Explanation string `json:"explanation"`
	Source      string `json:"-"`
}

type payload struct {
	SQL         string `json:"sql"`
	Query       string `json:"query"`
	Explanation string `json:"explanation"`
}

type strategy struct {
	name    string
	extract func(text string) (payload, bool)
}

// strategies are tried in order; the first success wins.
var strategies = []strategy{
	{SourceFencedJSON, func(text string) (payload, bool) { return decodeFenced(fencedJSONBlock, text) }},
	{SourceFenced, func(text string) (payload, bool) { return decodeFenced(fencedBlock, text) }},
	{SourceBrace, braceFragment},
	{SourceKeyValue, keyValuePairs},
	{SourceBareSQL, bareSQL},
}

// DefaultQuery is the query used when nothing better is available. Table
// names that are not plain identifiers are double-quoted so they read back
// as one name.
func DefaultQuery(tableName string) string {
	return fmt.Sprintf("SELECT * FROM %s LIMIT 10", quoteIdentifier(tableName))
}

func quoteIdentifier(name string) string {
	if plainIdentifier.MatchString(name) {
		return name
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Extract pulls a query and explanation out of free-form model output. It
// always returns a usable Translation.
func Extract(text, tableName string) Translation {
	for _, s := range strategies {
		p, ok := s.extract(text)
		if !ok {
			continue
		}
		t := Translation{Query: p.query(), Explanation: strings.TrimSpace(p.Explanation), Source: s.name}
		if t.Explanation == "" {
			t.Explanation = fallbackExplanation
		}
		return t
	}
	return Translation{Query: DefaultQuery(tableName), Explanation: fallbackExplanation, Source: SourceDefault}
}

func (p payload) query() string {
	if q := strings.TrimSpace(p.SQL); q != "" {
		return q
	}
	return strings.TrimSpace(p.Query)
}

func decodePayload(s string) (payload, bool) {
	var p payload
	if err := json.Unmarshal([]byte(strings.TrimSpace(s)), &p); err != nil {
		return payload{}, false
	}
	return p, p.query() != ""
}

func decodeFenced(re *regexp.Regexp, text string) (payload, bool) {
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		if p, ok := decodePayload(m[1]); ok {
			return p, true
		}
	}
	return payload{}, false
}

// braceFragment decodes the first balanced {...} span, skipping braces
// inside JSON strings.
func braceFragment(text string) (payload, bool) {
	start := strings.IndexByte(text, '{')
	for start >= 0 {
		if end := closingBrace(text, start); end > 0 {
			if p, ok := decodePayload(text[start : end+1]); ok {
				return p, true
			}
		}
		next := strings.IndexByte(text[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return payload{}, false
}

func closingBrace(text string, start int) int {
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func keyValuePairs(text string) (payload, bool) {
	sql := firstGroup(text, sqlKeyValue, sqlKeyValueSingle)
	if strings.TrimSpace(sql) == "" {
		return payload{}, false
	}
	return payload{
		SQL:         sql,
		Explanation: firstGroup(text, explainKeyValue, explainKeyValueSing),
	}, true
}

func firstGroup(text string, patterns ...*regexp.Regexp) string {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return unescapeJSONString(m[1])
		}
	}
	return ""
}

func unescapeJSONString(s string) string {
	var out string
	if err := json.Unmarshal([]byte(`"`+s+`"`), &out); err == nil {
		return out
	}
	return s
}

func bareSQL(text string) (payload, bool) {
	if m := fencedSQLBlock.FindStringSubmatch(text); m != nil && strings.TrimSpace(m[1]) != "" {
		return payload{SQL: m[1], Explanation: bareSQLExplanation}, true
	}
	if m := bareSelect.FindString(text); m != "" {
		return payload{SQL: m, Explanation: bareSQLExplanation}, true
	}
	return payload{}, false
}
