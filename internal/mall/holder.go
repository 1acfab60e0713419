package mall

import (
	"sync"
	"time"
)

// Holder keeps the current dataset for concurrent readers. Replacing it is
// atomic: readers see either the old or the new dataset, never a mix.
type Holder struct {
	mu        sync.RWMutex
	dataset   Dataset
	updatedAt time.Time
}

// NewHolder creates a holder around an initial dataset
func NewHolder(ds Dataset) *Holder {
	return &Holder{dataset: ds, updatedAt: time.Now()}
}

// Get returns the current dataset. Callers must treat it as read-only.
func (h *Holder) Get() Dataset {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.dataset
}

// Set replaces the current dataset
func (h *Holder) Set(ds Dataset) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dataset = ds
	h.updatedAt = time.Now()
}

// UpdatedAt reports when the dataset was last replaced
func (h *Holder) UpdatedAt() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.updatedAt
}
