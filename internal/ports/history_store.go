package ports

import "github.com/aalvaropc/wallclock/internal/domain"

// HistoryStore persists batch runs for reproducibility.
type HistoryStore interface {
	SaveRun(run domain.BatchRun) (id string, err error)
}
