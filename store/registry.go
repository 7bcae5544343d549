package store

import (
	"fmt"
	"log"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"askyourdata/models"
)

// Registry keeps dataset metadata for the lifetime of the process.
type Registry struct {
	mu       sync.RWMutex
	datasets map[int64]models.Dataset
	nextID   atomic.Int64
	now      func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		datasets: make(map[int64]models.Dataset),
		now:      time.Now,
	}
}

// Create assigns the id and upload time and stores the dataset.
func (r *Registry) Create(ds models.Dataset) models.Dataset {
	ds.ID = r.nextID.Add(1)
	ds.UploadedAt = r.now().UTC()
	ds.ColumnCount = len(ds.Schema)

	r.mu.Lock()
	r.datasets[ds.ID] = ds
	r.mu.Unlock()

	log.Printf("[REGISTRY] Created dataset with ID %d: %s", ds.ID, ds.Name)
	return ds
}

func (r *Registry) Get(id int64) (models.Dataset, error) {
	r.mu.RLock()
	ds, ok := r.datasets[id]
	r.mu.RUnlock()
	if !ok {
		return models.Dataset{}, fmt.Errorf("%w: %d", models.ErrDatasetNotFound, id)
	}
	return ds, nil
}

// List returns every dataset, newest first.
func (r *Registry) List() []models.Dataset {
	r.mu.RLock()
	out := make([]models.Dataset, 0, len(r.datasets))
	for _, ds := range r.datasets {
		out = append(out, ds)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].UploadedAt.Equal(out[j].UploadedAt) {
			return out[i].UploadedAt.After(out[j].UploadedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.datasets)
}
