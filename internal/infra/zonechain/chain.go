// Package zonechain combines several zone sources. A lookup tries each in
// order and moves on only when a source does not know the zone, so a real
// failure in an earlier source is never masked by a later one.
package zonechain

import (
	"slices"

	"github.com/aalvaropc/wallclock/internal/domain"
	"github.com/aalvaropc/wallclock/internal/ports"
)

const Name = "chain"

// Link is one member of a Chain.
type Link struct {
	Name   string
	Source ports.ZoneRuleSource
}

// Chain is safe for concurrent use when its members are.
type Chain struct {
	links []Link
}

func New(links ...Link) *Chain {
	return &Chain{links: slices.Clone(links)}
}

func (c *Chain) LookupOffset(zone domain.ZoneID, at domain.Instant) (domain.ZoneOffset, error) {
	off, _, err := c.Lookup(zone, at)
	return off, err
}

// Lookup also reports which link answered.
func (c *Chain) Lookup(zone domain.ZoneID, at domain.Instant) (domain.ZoneOffset, string, error) {
	for _, l := range c.links {
		off, err := l.Source.LookupOffset(zone, at)
		if err == nil {
			return off, l.Name, nil
		}
		if !domain.IsKind(err, domain.KindUnknownZone) {
			return domain.ZoneOffset{}, l.Name, err
		}
	}
	return domain.ZoneOffset{}, "", domain.UnknownZone("zonechain.lookup", zone, nil)
}

// ListZones is the sorted union of every member that can list its zones.
func (c *Chain) ListZones() ([]domain.ZoneID, error) {
	seen := map[domain.ZoneID]bool{}
	var out []domain.ZoneID
	for _, l := range c.links {
		cat, ok := l.Source.(ports.ZoneCatalog)
		if !ok {
			continue
		}
		ids, err := cat.ListZones()
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	slices.Sort(out)
	return out, nil
}

// Links returns the members in lookup order.
func (c *Chain) Links() []Link {
	return slices.Clone(c.links)
}
