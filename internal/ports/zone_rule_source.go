package ports

import "github.com/aalvaropc/wallclock/internal/domain"

// ZoneRuleSource maps (zone, instant) to the offset in effect. Implementations
// must be safe for concurrent reads and fail with domain.KindUnknownZone for
// identifiers they do not recognize.
type ZoneRuleSource interface {
	LookupOffset(zone domain.ZoneID, at domain.Instant) (domain.ZoneOffset, error)
}
