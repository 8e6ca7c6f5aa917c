// Package ruletable serves synthetic zones declared in YAML. It is used for
// site-specific zones that are not in the tz database and for reproducing
// odd rule data in tests.
package ruletable

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aalvaropc/wallclock/internal/domain"
	"github.com/aalvaropc/wallclock/internal/infra/posixtz"
)

// Transition switches the zone to Offset from At onwards.
type Transition struct {
	At     domain.Instant
	Offset domain.ZoneOffset
}

// Zone is one synthetic zone. Instants before the first transition use
// Initial; instants after the last use Rule when set, otherwise the last
// transition's offset.
type Zone struct {
	ID          domain.ZoneID
	Initial     domain.ZoneOffset
	Transitions []Transition
	Rule        *posixtz.Rule
}

func (z Zone) Lookup(at domain.Instant) domain.ZoneOffset {
	n := len(z.Transitions)
	switch {
	case n == 0:
		if z.Rule != nil {
			return z.Rule.Lookup(at)
		}
		return z.Initial
	case at.Before(z.Transitions[0].At):
		return z.Initial
	case !at.Before(z.Transitions[n-1].At) && z.Rule != nil:
		return z.Rule.Lookup(at)
	}
	i := sort.Search(n, func(i int) bool { return z.Transitions[i].At.After(at) })
	return z.Transitions[i-1].Offset
}

// Load reads a rule table file.
func Load(path string) ([]Zone, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "ruletable.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}
	return Parse(path, b)
}

// Parse decodes and validates a rule table; path is only used in errors.
func Parse(path string, data []byte) ([]Zone, error) {
	var dto yamlTable
	if err := yaml.Unmarshal(data, &dto); err != nil {
		return nil, &domain.OpError{
			Op:   "ruletable.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	seen := map[domain.ZoneID]bool{}
	zones := make([]Zone, 0, len(dto.Zones))
	for i, yz := range dto.Zones {
		z, err := mapZone(path, fmt.Sprintf("zones[%d]", i), yz)
		if err != nil {
			return nil, err
		}
		if seen[z.ID] {
			return nil, invalidField(path, fmt.Sprintf("zones[%d].id", i), fmt.Sprintf("duplicate zone %q", z.ID))
		}
		seen[z.ID] = true
		zones = append(zones, z)
	}
	return zones, nil
}

func mapZone(path, field string, yz yamlZone) (Zone, error) {
	id := strings.TrimSpace(yz.ID)
	if id == "" {
		return Zone{}, invalidField(path, field+".id", "zone id is required")
	}
	z := Zone{ID: domain.ZoneID(id)}

	if strings.TrimSpace(yz.POSIX) != "" {
		rule, err := posixtz.Parse(yz.POSIX)
		if err != nil {
			return Zone{}, invalidField(path, field+".posix", err.Error())
		}
		z.Rule = &rule
	}

	if len(yz.Transitions) == 0 {
		if z.Rule == nil && yz.Initial == nil {
			return Zone{}, invalidField(path, field, "one of posix, initial or transitions is required")
		}
		if yz.Initial != nil {
			off, err := mapOffset(*yz.Initial)
			if err != nil {
				return Zone{}, invalidField(path, field+".initial", err.Error())
			}
			if z.Rule != nil {
				return Zone{}, invalidField(path, field+".initial", "initial needs transitions when posix is set")
			}
			z.Initial = off
		}
		return z, nil
	}

	if yz.Initial == nil {
		return Zone{}, invalidField(path, field+".initial", "initial offset is required with transitions")
	}
	initial, err := mapOffset(*yz.Initial)
	if err != nil {
		return Zone{}, invalidField(path, field+".initial", err.Error())
	}
	z.Initial = initial

	z.Transitions = make([]Transition, 0, len(yz.Transitions))
	for i, yt := range yz.Transitions {
		tf := fmt.Sprintf("%s.transitions[%d]", field, i)
		at, err := domain.ParseInstant(strings.TrimSpace(yt.At))
		if err != nil {
			return Zone{}, invalidField(path, tf+".at", err.Error())
		}
		if i > 0 && !at.After(z.Transitions[i-1].At) {
			return Zone{}, invalidField(path, tf+".at", "transitions must be strictly increasing")
		}
		off, err := mapOffset(yt.yamlOffset)
		if err != nil {
			return Zone{}, invalidField(path, tf, err.Error())
		}
		z.Transitions = append(z.Transitions, Transition{At: at, Offset: off})
	}
	return z, nil
}

func mapOffset(yo yamlOffset) (domain.ZoneOffset, error) {
	off, err := domain.ParseOffset(yo.Offset)
	if err != nil {
		return domain.ZoneOffset{}, err
	}
	abbr := strings.TrimSpace(yo.Abbr)
	if abbr == "" {
		abbr = off.String()
	}
	return domain.ZoneOffset{Offset: off, IsDST: yo.DST, Abbreviation: abbr}, nil
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "ruletable.validate",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("field %s: %s: %w", field, msg, domain.ErrInvalidConfig),
	}
}
