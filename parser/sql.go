package parser

import (
	"regexp"
	"strings"

	"askyourdata/models"
	"askyourdata/sqlscan"
)

const placeholderSQLData = "SQL file imported without schema detection"

var nonWordRun = regexp.MustCompile(`\W+`)

// constraintWords start table-level clauses that are not column definitions.
var constraintWords = map[string]bool{
	"constraint": true, "primary": true, "foreign": true, "unique": true,
	"key": true, "check": true, "index": true, "fulltext": true, "spatial": true,
}

type sqlTable struct {
	name   string
	schema models.Schema
}

// ParseSQL extracts the first CREATE TABLE and the INSERT INTO statements
// that target it. Files without a CREATE TABLE become a single placeholder
// row named after the file so the upload still succeeds.
func ParseSQL(data []byte, originalName string) (*Result, error) {
	toks := sqlscan.Tokenize(string(data))

	var (
		table   *sqlTable
		skipped []string
		rows    []models.Row
	)
	for i := 0; i < len(toks); i++ {
		switch {
		case toks[i].Is("CREATE"):
			t, next, ok := parseCreateTable(toks, i)
			if !ok {
				continue
			}
			if table == nil {
				table = t
			} else {
				skipped = append(skipped, t.name)
			}
			i = next - 1
		case toks[i].Is("INSERT") && table != nil:
			name, tuples, next, ok := parseInsert(toks, i)
			if !ok {
				continue
			}
			if strings.EqualFold(name, table.name) {
				for _, tuple := range tuples {
					rows = append(rows, table.row(tuple))
				}
			}
			i = next - 1
		}
	}

	if table == nil {
		return placeholderResult(originalName), nil
	}
	if rows == nil {
		rows = []models.Row{}
	}
	res := newResult(table.name, table.schema, rows)
	res.SkippedTables = skipped
	return res, nil
}

func placeholderResult(originalName string) *Result {
	base := BaseName(originalName)
	name := strings.ToLower(nonWordRun.ReplaceAllString(base, "_"))
	if name == "" || name == "_" {
		name = "uploaded_data"
	}
	row := models.NewRow(2)
	row.Set("id", models.Integer(1))
	row.Set("data", models.Text(placeholderSQLData))
	schema := models.Schema{
		{Name: "id", Type: models.TypeInteger},
		{Name: "data", Type: models.TypeText},
	}
	return newResult(name, schema, []models.Row{row})
}

// parseCreateTable reads CREATE [TEMPORARY] TABLE [IF NOT EXISTS] name ( defs )
// starting at toks[i]. next is the index after the closing paren.
func parseCreateTable(toks []sqlscan.Token, i int) (*sqlTable, int, bool) {
	j := i + 1
	for j < len(toks) && (toks[j].Is("TEMPORARY") || toks[j].Is("TEMP") || toks[j].Is("UNLOGGED")) {
		j++
	}
	if j >= len(toks) || !toks[j].Is("TABLE") {
		return nil, i + 1, false
	}
	j++
	if j+2 < len(toks) && toks[j].Is("IF") && toks[j+1].Is("NOT") && toks[j+2].Is("EXISTS") {
		j += 3
	}
	name, j, ok := sqlscan.QualifiedName(toks, j)
	if !ok || j >= len(toks) || toks[j].Type != sqlscan.LParen {
		return nil, i + 1, false
	}
	closeIdx := sqlscan.MatchParen(toks, j)

	t := &sqlTable{name: strings.ToLower(name)}
	for _, def := range sqlscan.SplitTopLevel(toks[j+1 : closeIdx]) {
		if len(def) < 2 || !def[0].IsName() {
			continue
		}
		if !def[0].Quoted && constraintWords[strings.ToLower(def[0].Literal)] {
			continue
		}
		if def[1].Type != sqlscan.Ident {
			continue
		}
		t.schema = append(t.schema, models.Column{
			Name: def[0].Literal,
			Type: sqlColumnType(def[1].Literal),
		})
	}
	return t, closeIdx + 1, true
}

// sqlColumnType maps a declared type token by substring.
func sqlColumnType(token string) models.ColumnType {
	t := strings.ToLower(token)
	switch {
	case strings.Contains(t, "int"), strings.Contains(t, "serial"):
		return models.TypeInteger
	case strings.Contains(t, "float"), strings.Contains(t, "double"),
		strings.Contains(t, "decimal"), strings.Contains(t, "numeric"),
		strings.Contains(t, "real"):
		return models.TypeFloat
	case strings.Contains(t, "bool"):
		return models.TypeBoolean
	case strings.Contains(t, "date"), strings.Contains(t, "time"):
		return models.TypeDate
	default:
		return models.TypeText
	}
}

// insertTuple is one parenthesized VALUES group, with the column names it
// targets when the statement listed them.
type insertTuple struct {
	columns []string
	values  [][]sqlscan.Token
}

// parseInsert reads INSERT [INTO] name [(cols)] VALUES (...), (...) starting
// at toks[i]. The tuple list ends at the first token after a tuple that is
// not ", (", so trailing clauses such as ON CONFLICT (...) and a following
// statement without a semicolon are left to the caller.
func parseInsert(toks []sqlscan.Token, i int) (string, []insertTuple, int, bool) {
	j := i + 1
	for j < len(toks) && (toks[j].Is("IGNORE") || toks[j].Is("INTO")) {
		j++
	}
	name, j, ok := sqlscan.QualifiedName(toks, j)
	if !ok {
		return "", nil, i + 1, false
	}

	var columns []string
	if j < len(toks) && toks[j].Type == sqlscan.LParen {
		closeIdx := sqlscan.MatchParen(toks, j)
		for _, part := range sqlscan.SplitTopLevel(toks[j+1 : closeIdx]) {
			if len(part) > 0 && part[0].IsName() {
				columns = append(columns, part[0].Literal)
			}
		}
		j = closeIdx + 1
	}
	if j >= len(toks) || !(toks[j].Is("VALUES") || toks[j].Is("VALUE")) {
		return "", nil, i + 1, false
	}
	j++

	var tuples []insertTuple
	for j < len(toks) && toks[j].Type == sqlscan.LParen {
		closeIdx := sqlscan.MatchParen(toks, j)
		tuples = append(tuples, insertTuple{
			columns: columns,
			values:  sqlscan.SplitTopLevel(toks[j+1 : closeIdx]),
		})
		j = closeIdx + 1
		if j+1 < len(toks) && toks[j].Type == sqlscan.Comma && toks[j+1].Type == sqlscan.LParen {
			j++
			continue
		}
		break
	}
	return name, tuples, j, true
}

// row maps a tuple onto the table schema. Every schema column is present;
// cells without a value are Null.
func (t *sqlTable) row(tuple insertTuple) models.Row {
	byName := make(map[string][]sqlscan.Token, len(tuple.values))
	for k, v := range tuple.values {
		if tuple.columns != nil {
			if k < len(tuple.columns) {
				byName[strings.ToLower(tuple.columns[k])] = v
			}
			continue
		}
		if k < len(t.schema) {
			byName[strings.ToLower(t.schema[k].Name)] = v
		}
	}

	row := models.NewRow(len(t.schema))
	for _, col := range t.schema {
		cell, ok := byName[strings.ToLower(col.Name)]
		if !ok {
			row.Set(col.Name, models.Null())
			continue
		}
		row.Set(col.Name, sqlCell(cell, col.Type))
	}
	return row
}

// sqlCell converts the tokens of one VALUES cell. Quoted literals lose their
// quotes; anything that is not a single literal is kept as expression text.
func sqlCell(cell []sqlscan.Token, typ models.ColumnType) models.Value {
	switch {
	case len(cell) == 0:
		return models.Null()
	case len(cell) == 1 && cell[0].Is("NULL"):
		return models.Null()
	case len(cell) == 1 && (cell[0].Type == sqlscan.String || cell[0].Type == sqlscan.Ident && cell[0].Quoted):
		return Coerce(cell[0].Literal, typ)
	case len(cell) == 2 && cell[0].Type == sqlscan.Minus && cell[1].Type == sqlscan.Number:
		return Coerce("-"+cell[1].Literal, typ)
	case len(cell) == 1:
		return Coerce(cell[0].Literal, typ)
	}
	return Coerce(sqlscan.Join(cell), typ)
}
