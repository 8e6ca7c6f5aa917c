package tui

import (
	"log/slog"
	"time"

	"github.com/aalvaropc/wallclock/internal/domain"
	"github.com/aalvaropc/wallclock/internal/ports"
	"github.com/aalvaropc/wallclock/internal/usecase"
)

type Deps struct {
	Source     ports.ZoneRuleSource
	SourceName string
	Converter  *usecase.Converter
	Renderer   *usecase.Renderer

	// Zones are the rows of the clock, in order.
	Zones []domain.ZoneID

	// WorkspaceRoot is empty outside a workspace.
	WorkspaceRoot        string
	WorkspaceInitializer ports.WorkspaceInitializer

	Logger *slog.Logger
	Debug  bool

	// Now defaults to time.Now.
	Now func() time.Time
}
