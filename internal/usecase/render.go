package usecase

import (
	"github.com/aalvaropc/wallclock/internal/domain"
	"github.com/aalvaropc/wallclock/internal/ports"
)

// Renderer maps instants to the wall clock of a zone. It holds no mutable
// state and is safe for concurrent use when its source is.
type Renderer struct {
	source ports.ZoneRuleSource
}

func NewRenderer(src ports.ZoneRuleSource) *Renderer {
	return &Renderer{source: src}
}

// RenderZoned renders at in zone together with the offset that applied.
func (r *Renderer) RenderZoned(at domain.Instant, zone domain.ZoneID) (domain.ZonedDateTime, error) {
	off, err := r.source.LookupOffset(zone, at)
	if err != nil {
		return domain.ZonedDateTime{}, err
	}
	return domain.ZonedDateTime{
		Instant: at,
		Zone:    zone,
		Civil:   domain.LocalCivil(at, off.Offset),
		Offset:  off,
	}, nil
}

func (r *Renderer) Render(at domain.Instant, zone domain.ZoneID) (domain.CivilDateTime, error) {
	z, err := r.RenderZoned(at, zone)
	if err != nil {
		return domain.CivilDateTime{}, err
	}
	return z.Civil, nil
}

func (r *Renderer) RenderDisplay(at domain.Instant, zone domain.ZoneID, format domain.DisplayFormat) (string, error) {
	z, err := r.RenderZoned(at, zone)
	if err != nil {
		return "", err
	}
	return z.Format(format), nil
}
