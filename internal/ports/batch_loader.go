package ports

import "github.com/aalvaropc/wallclock/internal/domain"

// BatchLoader loads conversion batches from a source (e.g., filesystem).
type BatchLoader interface {
	LoadBatch(path string) (domain.Batch, error)
	ListBatches(root string) ([]domain.BatchRef, error)
}
