// Package store holds process-lifetime state: table rows keyed by table
// name and dataset metadata keyed by id.
package store

import (
	"log"
	"sync"

	"askyourdata/cache"
	"askyourdata/models"
)

// DefaultPreviewLimit is used when a caller passes a non-positive limit.
const DefaultPreviewLimit = 10

// Tables maps table names to row sequences. Stored slices are never
// modified in place, so readers holding an old slice stay consistent
// after a Put.
type Tables struct {
	mu        sync.RWMutex
	tables    map[string][]models.Row
	synthetic *cache.Cache
}

func NewTables(synthetic *cache.Cache) *Tables {
	return &Tables{
		tables:    make(map[string][]models.Row),
		synthetic: synthetic,
	}
}

// Put replaces the whole table.
func (t *Tables) Put(tableName string, rows []models.Row) {
	cp := make([]models.Row, len(rows))
	copy(cp, rows)

	t.mu.Lock()
	t.tables[tableName] = cp
	t.mu.Unlock()

	log.Printf("[STORE] Stored %d rows for table %s", len(cp), tableName)
}

// Has reports whether rows were ever stored under tableName.
func (t *Tables) Has(tableName string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.tables[tableName]
	return ok
}

// Rows returns the stored rows for tableName, or the placeholder rows for
// a table that was never stored.
func (t *Tables) Rows(tableName string) []models.Row {
	t.mu.RLock()
	rows, ok := t.tables[tableName]
	t.mu.RUnlock()
	if ok {
		return rows
	}
	return t.placeholder(tableName)
}

// Preview returns up to limit rows from Rows. It never fails.
func (t *Tables) Preview(tableName string, limit int) []models.Row {
	if limit <= 0 {
		limit = DefaultPreviewLimit
	}
	rows := t.Rows(tableName)
	if len(rows) > limit {
		rows = rows[:limit]
	}
	out := make([]models.Row, len(rows))
	copy(out, rows)
	return out
}

func (t *Tables) placeholder(tableName string) []models.Row {
	key := "synthetic:" + tableName
	if cached, found := t.synthetic.Get(key); found {
		return cached.([]models.Row)
	}
	rows := GenerateSampleData(tableName)
	t.synthetic.SetPermanent(key, rows)
	log.Printf("[STORE] Generated %d placeholder rows for unknown table %s", len(rows), tableName)
	return rows
}
