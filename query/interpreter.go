// Package query evaluates model-generated query text against stored rows.
// It recognizes only a row count, a LIMIT clause and a plain table scan;
// anything else returns the whole table.
package query

import (
	"log"
	"strconv"

	"askyourdata/models"
	"askyourdata/sqlscan"
)

const (
	DefaultTable = "default_table"
	DefaultLimit = 10
)

// RowSource supplies the rows for a table, real or placeholder.
type RowSource interface {
	Rows(tableName string) []models.Row
}

type Interpreter struct {
	source RowSource
}

func NewInterpreter(source RowSource) *Interpreter {
	return &Interpreter{source: source}
}

// Plan is what the interpreter recognized in a query.
type Plan struct {
	Table    string
	Count    bool
	HasLimit bool
	Limit    int
}

// Analyze recognizes the table, count and limit of queryText.
func Analyze(queryText string) Plan {
	toks := sqlscan.Tokenize(queryText)
	plan := Plan{Table: DefaultTable}

	fromFound := false
	for i, t := range toks {
		switch {
		case !fromFound && t.Is("FROM"):
			if name, _, ok := sqlscan.QualifiedName(toks, i+1); ok {
				plan.Table = name
				fromFound = true
			}
		case t.Is("COUNT") && i+1 < len(toks) && toks[i+1].Type == sqlscan.LParen:
			plan.Count = true
		case !plan.HasLimit && t.Is("LIMIT"):
			plan.HasLimit = true
			plan.Limit = DefaultLimit
			if i+1 < len(toks) && toks[i+1].Type == sqlscan.Number {
				if n, err := strconv.Atoi(toks[i+1].Literal); err == nil && n >= 0 {
					plan.Limit = n
				}
			}
		}
	}
	return plan
}

// Execute runs queryText. It never fails.
func (in *Interpreter) Execute(queryText string) []models.Row {
	log.Printf("[QUERY] Executing SQL: %s", queryText)

	plan := Analyze(queryText)
	rows := in.source.Rows(plan.Table)

	switch {
	case plan.Count:
		row := models.NewRow(1)
		row.Set("count", models.Integer(int64(len(rows))))
		return []models.Row{row}
	case plan.HasLimit:
		if len(rows) > plan.Limit {
			rows = rows[:plan.Limit]
		}
	}

	out := make([]models.Row, len(rows))
	copy(out, rows)
	return out
}
