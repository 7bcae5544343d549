package models

import "time"

type FileType string

const (
	FileTypeCSV   FileType = "csv"
	FileTypeJSON  FileType = "json"
	FileTypeSQL   FileType = "sql"
	FileTypeMSSQL FileType = "mssql" // imported from SQL Server
)

// Dataset describes one ingested table. It is never modified after creation.
type Dataset struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	OriginalFilename string    `json:"originalFilename"`
	FileType         FileType  `json:"fileType"`
	TableName        string    `json:"tableName"`
	Schema           Schema    `json:"schema"`
	RowCount         int       `json:"rowCount"`
	ColumnCount      int       `json:"columnCount"`
	UploadedAt       time.Time `json:"uploadedAt"`
}

type Role string

const (
	RoleUser   Role = "user"
	RoleSystem Role = "system"
)

// DefaultChartKind is the chart kind attached to small result sets.
const DefaultChartKind = "bar"

// ChartSpec pairs a visualization kind with the rows to plot.
type ChartSpec struct {
	Kind string `json:"type"`
	Rows []Row  `json:"data"`
}

// ChatMessage is one entry of a dataset's conversation. Messages are
// append-only.
type ChatMessage struct {
	ID             int64      `json:"id"`
	DatasetID      int64      `json:"datasetId"`
	Role           Role       `json:"role"`
	Content        string     `json:"content"`
	Timestamp      time.Time  `json:"timestamp"`
	GeneratedQuery *string    `json:"sql"`
	ResultRows     []Row      `json:"resultData"`
	ChartSpec      *ChartSpec `json:"chartData"`
}

type AskRequest struct {
	Question string `json:"question" example:"How many rows are there?"`
}

type UploadResponse struct {
	Dataset Dataset `json:"dataset"`
	Preview []Row   `json:"preview"`
}

type ImportRequest struct {
	Table string `json:"table" binding:"required" example:"dbo.Customers"`
	Limit int    `json:"limit" example:"1000"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
