package ruletable

import (
	"slices"

	"github.com/aalvaropc/wallclock/internal/domain"
)

const Name = "rules"

// Source is immutable after construction and safe for concurrent use.
type Source struct {
	zones map[domain.ZoneID]Zone
	ids   []domain.ZoneID
}

func New(zones []Zone) *Source {
	s := &Source{zones: make(map[domain.ZoneID]Zone, len(zones))}
	for _, z := range zones {
		s.zones[z.ID] = z
		s.ids = append(s.ids, z.ID)
	}
	slices.Sort(s.ids)
	return s
}

// Open loads the rule table at path.
func Open(path string) (*Source, error) {
	zones, err := Load(path)
	if err != nil {
		return nil, err
	}
	return New(zones), nil
}

func (s *Source) LookupOffset(zone domain.ZoneID, at domain.Instant) (domain.ZoneOffset, error) {
	z, ok := s.zones[zone]
	if !ok {
		return domain.ZoneOffset{}, domain.UnknownZone("ruletable.lookup", zone, nil)
	}
	return z.Lookup(at), nil
}

func (s *Source) ListZones() ([]domain.ZoneID, error) {
	return slices.Clone(s.ids), nil
}

// Zone returns the declaration for id, for describing it.
func (s *Source) Zone(id domain.ZoneID) (Zone, bool) {
	z, ok := s.zones[id]
	return z, ok
}
