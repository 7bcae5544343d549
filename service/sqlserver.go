package service

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"askyourdata/config"
	"askyourdata/models"
	"askyourdata/parser"
	"askyourdata/validation"

	_ "github.com/microsoft/go-mssqldb"
)

const (
	DefaultImportLimit = 1000
	MaxImportLimit     = 10000
)

// SQLServerService imports tables from SQL Server as datasets.
type SQLServerService struct {
	db *sql.DB
}

func NewSQLServerService(cfg config.SQLServerConfig) (*SQLServerService, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("SQL Server configuration is incomplete")
	}

	db, err := sql.Open("sqlserver", buildConnectionString(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open SQL Server connection: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		// Start anyway; imports fail until the server is reachable.
		log.Printf("[SQLSERVER] Warning: failed to ping SQL Server during initialization: %v", err)
	}

	return &SQLServerService{db: db}, nil
}

func buildConnectionString(cfg config.SQLServerConfig) string {
	connStr := fmt.Sprintf("server=%s;port=%s;database=%s",
		cfg.Server, cfg.Port, cfg.Database)

	if cfg.UserID != "" {
		connStr += fmt.Sprintf(";user id=%s;password=%s", cfg.UserID, cfg.Password)
	} else {
		connStr += ";trusted_connection=true"
	}

	if cfg.Encrypt {
		// TLS without CA verification so self-signed certs work.
		connStr += ";encrypt=true;TrustServerCertificate=true"
	} else {
		connStr += ";encrypt=false"
	}

	return connStr
}

func (s *SQLServerService) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLServerService) IsConnected() bool {
	if s == nil || s.db == nil {
		return false
	}
	return s.db.Ping() == nil
}

// ImportTable reads up to limit rows of table (name or schema.name).
func (s *SQLServerService) ImportTable(ctx context.Context, table string, limit int) (*parser.Result, error) {
	if s.db == nil {
		return nil, fmt.Errorf("SQL Server connection is not initialized")
	}
	if !validation.TableIdentifier(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	limit = clampImportLimit(limit)

	query := fmt.Sprintf("SELECT TOP (@p1) * FROM %s", quoteTableName(table))
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var records [][]interface{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}
		records = append(records, values)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	log.Printf("[SQLSERVER] Read %d rows from %s", len(records), table)
	return importResult(table, columns, records)
}

func clampImportLimit(limit int) int {
	if limit <= 0 {
		return DefaultImportLimit
	}
	if limit > MaxImportLimit {
		return MaxImportLimit
	}
	return limit
}

func quoteTableName(table string) string {
	parts := strings.Split(table, ".")
	for i, p := range parts {
		parts[i] = "[" + p + "]"
	}
	return strings.Join(parts, ".")
}

// importResult converts scanned driver values into a parse result. The
// schema comes from the first row, as for uploaded files.
func importResult(table string, columns []string, records [][]interface{}) (*parser.Result, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: table %s has no rows", models.ErrEmptyOrMalformedFile, table)
	}

	rows := make([]models.Row, 0, len(records))
	for _, record := range records {
		row := models.NewRow(len(columns))
		for i, col := range columns {
			row.Set(col, driverValue(record[i]))
		}
		rows = append(rows, row)
	}
	schema := parser.InferSchema(rows[0])

	return &parser.Result{
		TableName:   "table_" + strings.ToLower(strings.ReplaceAll(table, ".", "_")),
		Schema:      schema,
		Rows:        rows,
		RowCount:    len(rows),
		ColumnCount: len(schema),
	}, nil
}

// driverValue maps a go-mssqldb scan result to a Value. DECIMAL and MONEY
// arrive as []byte text.
func driverValue(v interface{}) models.Value {
	switch val := v.(type) {
	case nil:
		return models.Null()
	case int64:
		return models.Integer(val)
	case int32:
		return models.Integer(int64(val))
	case int16:
		return models.Integer(int64(val))
	case uint8:
		return models.Integer(int64(val))
	case int:
		return models.Integer(int64(val))
	case float64:
		return models.Float(val)
	case float32:
		return models.Float(float64(val))
	case bool:
		return models.Bool(val)
	case time.Time:
		return models.Date(val.Format("2006-01-02"))
	case []byte:
		if f, err := strconv.ParseFloat(string(val), 64); err == nil {
			return models.Float(f)
		}
		return models.Text(string(val))
	case string:
		return models.Text(val)
	default:
		return models.Text(fmt.Sprintf("%v", val))
	}
}
