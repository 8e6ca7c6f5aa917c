package ports

import "github.com/aalvaropc/wallclock/internal/domain"

// ZoneCatalog lists the zone identifiers a source knows about.
type ZoneCatalog interface {
	ListZones() ([]domain.ZoneID, error)
}
