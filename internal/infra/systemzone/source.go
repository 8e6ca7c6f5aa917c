// Package systemzone answers offset lookups from the platform tz database,
// with the copy embedded by time/tzdata as a fallback.
package systemzone

import (
	"fmt"
	"slices"
	"sync"
	"time"

	// Embedded zoneinfo so lookups work on hosts without /usr/share/zoneinfo.
	_ "time/tzdata"

	"github.com/aalvaropc/wallclock/internal/domain"
)

const Name = "system"

// Source is safe for concurrent use. Loaded locations are cached for the
// life of the Source.
type Source struct {
	mu    sync.RWMutex
	cache map[domain.ZoneID]*time.Location
}

func New() *Source {
	return &Source{cache: map[domain.ZoneID]*time.Location{}}
}

func (s *Source) LookupOffset(zone domain.ZoneID, at domain.Instant) (domain.ZoneOffset, error) {
	loc, err := s.location(zone)
	if err != nil {
		return domain.ZoneOffset{}, err
	}
	t := at.Time().In(loc)
	abbr, off := t.Zone()
	return domain.ZoneOffset{
		Offset:       domain.Offset(off),
		IsDST:        t.IsDST(),
		Abbreviation: abbr,
	}, nil
}

// ListZones returns the common zones; the platform database cannot be
// enumerated portably. Use the tzif catalog for a full listing.
func (s *Source) ListZones() ([]domain.ZoneID, error) {
	return slices.Clone(domain.CommonZones), nil
}

func (s *Source) location(zone domain.ZoneID) (*time.Location, error) {
	const op = "systemzone.lookup"

	// "" and "Local" resolve to UTC and the host zone respectively; neither
	// is an IANA identifier.
	if zone == "" || zone == "Local" {
		return nil, domain.UnknownZone(op, zone, fmt.Errorf("%q is not an IANA zone identifier", string(zone)))
	}

	s.mu.RLock()
	loc, ok := s.cache[zone]
	s.mu.RUnlock()
	if ok {
		return loc, nil
	}

	loc, err := time.LoadLocation(string(zone))
	if err != nil {
		return nil, domain.UnknownZone(op, zone, err)
	}

	s.mu.Lock()
	s.cache[zone] = loc
	s.mu.Unlock()
	return loc, nil
}
