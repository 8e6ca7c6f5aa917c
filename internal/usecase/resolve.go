package usecase

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/aalvaropc/wallclock/internal/domain"
	"github.com/aalvaropc/wallclock/internal/ports"
)

const (
	DefaultMaxIterations = 10

	// probeWindow brackets the seed when looking for the offsets on either
	// side of a DST edge.
	probeWindow = 24 * time.Hour
)

// Converter maps civil readings in a zone to instants.
//
// The search starts from the reading interpreted as UTC and moves by the
// wall-clock difference between the target and the rendered guess until both
// agree. Readings near a DST edge are then classified by probing the offsets
// a day either side: overlaps and gaps are resolved by policy and flagged in
// the Resolution, everything else that fails to settle is an error.
type Converter struct {
	source        ports.ZoneRuleSource
	policy        domain.Policy
	maxIterations int
	log           *slog.Logger
}

type ConverterOption func(*Converter)

func WithPolicy(p domain.Policy) ConverterOption {
	return func(c *Converter) { c.policy = p }
}

// WithMaxIterations bounds the fixed-point search. Values below 1 keep the default.
func WithMaxIterations(n int) ConverterOption {
	return func(c *Converter) {
		if n > 0 {
			c.maxIterations = n
		}
	}
}

func WithLogger(l *slog.Logger) ConverterOption {
	return func(c *Converter) {
		if l != nil {
			c.log = l
		}
	}
}

func NewConverter(src ports.ZoneRuleSource, opts ...ConverterOption) *Converter {
	c := &Converter{
		source:        src,
		policy:        domain.PolicyEarlier,
		maxIterations: DefaultMaxIterations,
		log:           slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Converter) Policy() domain.Policy { return c.policy }

// Resolve converts civil in zone using the converter's policy.
func (c *Converter) Resolve(civil domain.CivilDateTime, zone domain.ZoneID) (domain.Resolution, error) {
	return c.ResolveWithPolicy(civil, zone, c.policy)
}

// ResolveInstant is Resolve for callers that only want a usable instant.
func (c *Converter) ResolveInstant(civil domain.CivilDateTime, zone domain.ZoneID) (domain.Instant, error) {
	res, err := c.Resolve(civil, zone)
	if err != nil {
		return domain.Instant{}, err
	}
	return res.Instant, nil
}

// ResolveWithPolicy converts civil in zone. With PolicyReject, readings in an
// overlap or gap return a classified Resolution together with a
// KindAmbiguousOrNonexistent error.
func (c *Converter) ResolveWithPolicy(civil domain.CivilDateTime, zone domain.ZoneID, policy domain.Policy) (domain.Resolution, error) {
	const op = "converter.resolve"

	res := domain.Resolution{Civil: civil, Zone: zone}
	if err := civil.Validate(); err != nil {
		return res, err
	}

	seed := civil.AsUTC()
	hit, iterations, found, err := c.search(civil, zone, seed)
	res.Iterations = iterations
	if err != nil {
		return res, err
	}

	before, err := c.source.LookupOffset(zone, seed.Add(-probeWindow))
	if err != nil {
		return res, err
	}
	after, err := c.source.LookupOffset(zone, seed.Add(probeWindow))
	if err != nil {
		return res, err
	}

	probes := []domain.Instant{seed.AddOffset(-before.Offset), seed.AddOffset(-after.Offset)}
	if found {
		probes = append(probes, hit)
	}
	candidates, err := c.verified(civil, zone, probes)
	if err != nil {
		return res, err
	}

	switch {
	case len(candidates) == 1:
		res.Status = domain.StatusConverged
		res.Instant = candidates[0]

	case len(candidates) >= 2:
		earlier, later := candidates[0], candidates[len(candidates)-1]
		res.Status = domain.StatusAmbiguousResolved
		res.Instant, res.Alternate = earlier, &later
		if policy == domain.PolicyLater {
			res.Instant, res.Alternate = later, &earlier
		}
		c.log.Debug("ambiguous civil reading",
			"zone", string(zone), "civil", civil.String(),
			"earlier", earlier.String(), "later", later.String(), "policy", string(policy))

	case after.Offset > before.Offset:
		shifted := seed.AddOffset(-before.Offset)
		gap := after.Offset - before.Offset
		landed, err := c.renderAt(zone, shifted)
		if err != nil {
			return res, err
		}
		if !landed.Equal(civil.AddSeconds(int64(gap))) {
			res.Status = domain.StatusDidNotConverge
			return res, notConverged(op, zone, civil, iterations)
		}
		res.Status = domain.StatusNonexistentResolved
		res.Instant = shifted
		res.Gap = gap
		c.log.Debug("nonexistent civil reading",
			"zone", string(zone), "civil", civil.String(),
			"gap", gap.String(), "instant", shifted.String())

	default:
		res.Status = domain.StatusDidNotConverge
		return res, notConverged(op, zone, civil, iterations)
	}

	off, err := c.source.LookupOffset(zone, res.Instant)
	if err != nil {
		return res, err
	}
	res.Offset = off

	if res.Flagged() && policy == domain.PolicyReject {
		return res, &domain.OpError{
			Op:   op,
			Kind: domain.KindAmbiguousOrNonexistent,
			Zone: zone,
			Err:  fmt.Errorf("%w: %s is %s", domain.ErrAmbiguousOrNonexistent, civil, res.Status),
		}
	}
	return res, nil
}

// search runs the bounded fixed-point iteration. found is false when the
// budget ran out without an exact match.
func (c *Converter) search(civil domain.CivilDateTime, zone domain.ZoneID, seed domain.Instant) (domain.Instant, int, bool, error) {
	guess := seed
	for i := 1; i <= c.maxIterations; i++ {
		rendered, err := c.renderAt(zone, guess)
		if err != nil {
			return domain.Instant{}, i, false, err
		}
		if rendered.Equal(civil) {
			return guess, i, true, nil
		}
		guess = guess.Add(civil.Sub(rendered))
	}
	return domain.Instant{}, c.maxIterations, false, nil
}

// verified keeps the probes that render exactly to civil, sorted and deduplicated.
func (c *Converter) verified(civil domain.CivilDateTime, zone domain.ZoneID, probes []domain.Instant) ([]domain.Instant, error) {
	out := make([]domain.Instant, 0, len(probes))
	for _, p := range probes {
		rendered, err := c.renderAt(zone, p)
		if err != nil {
			return nil, err
		}
		if !rendered.Equal(civil) || slices.ContainsFunc(out, p.Equal) {
			continue
		}
		out = append(out, p)
	}
	slices.SortFunc(out, domain.Instant.Compare)
	return out, nil
}

func (c *Converter) renderAt(zone domain.ZoneID, at domain.Instant) (domain.CivilDateTime, error) {
	off, err := c.source.LookupOffset(zone, at)
	if err != nil {
		return domain.CivilDateTime{}, err
	}
	return domain.LocalCivil(at, off.Offset), nil
}

func notConverged(op string, zone domain.ZoneID, civil domain.CivilDateTime, iterations int) error {
	return &domain.OpError{
		Op:   op,
		Kind: domain.KindDidNotConverge,
		Zone: zone,
		Err:  fmt.Errorf("%w: %s after %d iterations", domain.ErrDidNotConverge, civil, iterations),
	}
}
