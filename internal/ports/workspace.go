package ports

import "github.com/aalvaropc/wallclock/internal/domain"

type WorkspaceInitializer interface {
	Init(spec domain.WorkspaceSpec, force bool) error
}
