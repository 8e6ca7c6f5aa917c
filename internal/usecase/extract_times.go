package usecase

import (
	"github.com/aalvaropc/wallclock/internal/domain"
	ucextract "github.com/aalvaropc/wallclock/internal/usecase/extract"
)

// ExtractTimes pulls timestamps out of a JSON document and renders each one
// in a zone.
type ExtractTimes struct {
	renderer *Renderer
}

func NewExtractTimes(r *Renderer) *ExtractTimes {
	return &ExtractTimes{renderer: r}
}

// Execute fails only when the document or expression is unusable, or the zone
// is unknown. Individual matches that are not timestamps keep their Message.
func (uc *ExtractTimes) Execute(body []byte, expr string, zone domain.ZoneID, display domain.DisplayFormat) ([]domain.ExtractedTime, error) {
	found, err := ucextract.Apply(body, expr)
	if err != nil {
		return nil, err
	}

	for i := range found {
		e := &found[i]
		e.Zone = zone
		if !e.OK() {
			continue
		}
		z, err := uc.renderer.RenderZoned(e.Instant, zone)
		if err != nil {
			return nil, err
		}
		e.Display = z.Format(display)
		e.Offset = z.Offset.Offset.String()
	}
	return found, nil
}
