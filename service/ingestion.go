package service

import (
	"log"
	"strings"

	"askyourdata/models"
	"askyourdata/parser"
	"askyourdata/store"
	"askyourdata/validation"
)

// Ingestion parses uploaded files into the table store and registry.
type Ingestion struct {
	registry    *store.Registry
	tables      *store.Tables
	maxBytes    int64
	previewRows int
}

func NewIngestion(registry *store.Registry, tables *store.Tables, maxBytes int64, previewRows int) *Ingestion {
	if previewRows <= 0 {
		previewRows = store.DefaultPreviewLimit
	}
	return &Ingestion{
		registry:    registry,
		tables:      tables,
		maxBytes:    maxBytes,
		previewRows: previewRows,
	}
}

// Upload parses data according to the filename's extension, stores the
// rows and registers the dataset. It returns the dataset and a preview.
func (s *Ingestion) Upload(filename string, data []byte) (models.Dataset, []models.Row, error) {
	fileType, err := validation.Upload(filename, int64(len(data)), s.maxBytes)
	if err != nil {
		log.Printf("[UPLOAD] Rejected %s: %v", filename, err)
		return models.Dataset{}, nil, err
	}

	res, err := parser.Parse(data, fileType, filename)
	if err != nil {
		log.Printf("[UPLOAD] Failed to parse %s: %v", filename, err)
		return models.Dataset{}, nil, err
	}
	if len(res.SkippedTables) > 0 {
		log.Printf("[UPLOAD] %s defines %d more tables; only %s was imported (skipped: %s)",
			filename, len(res.SkippedTables), res.TableName, strings.Join(res.SkippedTables, ", "))
	}

	ds, preview := s.Register(parser.BaseName(filename), filename, fileType, res)
	log.Printf("[UPLOAD] Parsed %s: table %s, %d rows, %d columns", filename, ds.TableName, ds.RowCount, ds.ColumnCount)
	return ds, preview, nil
}

// Register stores parsed rows and records the dataset.
func (s *Ingestion) Register(name, originalFilename string, fileType models.FileType, res *parser.Result) (models.Dataset, []models.Row) {
	s.tables.Put(res.TableName, res.Rows)
	ds := s.registry.Create(models.Dataset{
		Name:             name,
		OriginalFilename: originalFilename,
		FileType:         fileType,
		TableName:        res.TableName,
		Schema:           res.Schema,
		RowCount:         res.RowCount,
		ColumnCount:      res.ColumnCount,
	})
	return ds, s.tables.Preview(ds.TableName, s.previewRows)
}

func (s *Ingestion) Datasets() []models.Dataset {
	return s.registry.List()
}

func (s *Ingestion) DatasetCount() int {
	return s.registry.Count()
}

func (s *Ingestion) Dataset(id int64) (models.Dataset, error) {
	return s.registry.Get(id)
}

// Preview returns up to limit rows of a registered dataset.
func (s *Ingestion) Preview(id int64, limit int) ([]models.Row, error) {
	ds, err := s.registry.Get(id)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.previewRows
	}
	return s.tables.Preview(ds.TableName, limit), nil
}
