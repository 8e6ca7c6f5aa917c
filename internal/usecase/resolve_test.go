package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/aalvaropc/wallclock/internal/domain"
)

func TestConverter_LiteralScenarios(t *testing.T) {
	conv := NewConverter(newFakeSource())

	cases := []struct {
		name  string
		civil domain.CivilDateTime
		zone  domain.ZoneID
		want  string
	}{
		{"new york EST", domain.Civil(2025, 11, 18, 10, 0), "America/New_York", "2025-11-18T15:00:00Z"},
		{"kolkata", domain.Civil(2025, 5, 10, 9, 30), "Asia/Kolkata", "2025-05-10T04:00:00Z"},
		{"kathmandu", domain.Civil(2025, 5, 10, 9, 30), "Asia/Kathmandu", "2025-05-10T03:45:00Z"},
		{"utc identity", domain.Civil(2025, 1, 1, 0, 0), "UTC", "2025-01-01T00:00:00Z"},
		{"new york EDT", domain.Civil(2025, 7, 4, 12, 0), "America/New_York", "2025-07-04T16:00:00Z"},
		{"kolkata crosses midnight", domain.Civil(2025, 3, 1, 2, 0), "Asia/Kolkata", "2025-02-28T20:30:00Z"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := conv.Resolve(tc.civil, tc.zone)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if res.Status != domain.StatusConverged {
				t.Fatalf("expected converged, got %s", res.Status)
			}
			if got := res.Instant.String(); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
			if res.Iterations < 1 || res.Iterations > DefaultMaxIterations {
				t.Fatalf("unexpected iteration count %d", res.Iterations)
			}
			if res.Alternate != nil {
				t.Fatalf("expected no alternate")
			}
		})
	}
}

func TestConverter_ResolveInstant(t *testing.T) {
	conv := NewConverter(newFakeSource())

	got, err := conv.ResolveInstant(domain.Civil(2025, 11, 18, 10, 0), "America/New_York")
	if err != nil {
		t.Fatalf("ResolveInstant: %v", err)
	}
	if got.UnixSeconds() != 1763478000 {
		t.Fatalf("expected 1763478000, got %d", got.UnixSeconds())
	}
}

func TestConverter_SpringForwardGapShiftsForward(t *testing.T) {
	src := newFakeSource()
	conv := NewConverter(src)

	res, err := conv.Resolve(domain.Civil(2025, 3, 9, 2, 30), "America/New_York")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Status != domain.StatusNonexistentResolved {
		t.Fatalf("expected nonexistent_resolved, got %s", res.Status)
	}
	if got := res.Instant.String(); got != "2025-03-09T07:30:00Z" {
		t.Fatalf("unexpected instant %s", got)
	}
	if res.Gap != domain.OffsetMinutes(60) {
		t.Fatalf("expected 1h gap, got %s", res.Gap)
	}
	if !res.Offset.IsDST || res.Offset.Abbreviation != "EDT" {
		t.Fatalf("expected EDT offset, got %+v", res.Offset)
	}

	back, err := NewRenderer(src).Render(res.Instant, "America/New_York")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if back != domain.Civil(2025, 3, 9, 3, 30) {
		t.Fatalf("expected 03:30 after the gap, got %s", back)
	}
}

func TestConverter_FallBackOverlap(t *testing.T) {
	civil := domain.Civil(2025, 11, 2, 1, 30)

	t.Run("earlier by default", func(t *testing.T) {
		res, err := NewConverter(newFakeSource()).Resolve(civil, "America/New_York")
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if res.Status != domain.StatusAmbiguousResolved {
			t.Fatalf("expected ambiguous_resolved, got %s", res.Status)
		}
		if got := res.Instant.String(); got != "2025-11-02T05:30:00Z" {
			t.Fatalf("unexpected instant %s", got)
		}
		if res.Alternate == nil || res.Alternate.String() != "2025-11-02T06:30:00Z" {
			t.Fatalf("unexpected alternate %v", res.Alternate)
		}
		if res.Offset.Abbreviation != "EDT" {
			t.Fatalf("expected EDT, got %+v", res.Offset)
		}
		if !res.Flagged() || !res.OK() {
			t.Fatalf("expected flagged and usable resolution")
		}
	})

	t.Run("later policy", func(t *testing.T) {
		conv := NewConverter(newFakeSource(), WithPolicy(domain.PolicyLater))
		res, err := conv.Resolve(civil, "America/New_York")
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if got := res.Instant.String(); got != "2025-11-02T06:30:00Z" {
			t.Fatalf("unexpected instant %s", got)
		}
		if res.Alternate == nil || res.Alternate.String() != "2025-11-02T05:30:00Z" {
			t.Fatalf("unexpected alternate %v", res.Alternate)
		}
		if res.Offset.Abbreviation != "EST" {
			t.Fatalf("expected EST, got %+v", res.Offset)
		}
	})
}

func TestConverter_RejectPolicy(t *testing.T) {
	conv := NewConverter(newFakeSource(), WithPolicy(domain.PolicyReject))

	for _, civil := range []domain.CivilDateTime{
		domain.Civil(2025, 11, 2, 1, 30),
		domain.Civil(2025, 3, 9, 2, 30),
	} {
		res, err := conv.Resolve(civil, "America/New_York")
		if err == nil {
			t.Fatalf("expected error for %s", civil)
		}
		if !domain.IsKind(err, domain.KindAmbiguousOrNonexistent) {
			t.Fatalf("expected KindAmbiguousOrNonexistent, got %v", err)
		}
		if !errors.Is(err, domain.ErrAmbiguousOrNonexistent) {
			t.Fatalf("expected ErrAmbiguousOrNonexistent in chain, got %v", err)
		}
		if !res.Flagged() {
			t.Fatalf("expected classified resolution, got %s", res.Status)
		}
	}

	// Ordinary readings are unaffected by the policy.
	if _, err := conv.Resolve(domain.Civil(2025, 11, 18, 10, 0), "America/New_York"); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
}

func TestConverter_UnknownZone(t *testing.T) {
	_, err := NewConverter(newFakeSource()).Resolve(domain.Civil(2025, 1, 1, 0, 0), "Mars/Olympus")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.KindUnknownZone) {
		t.Fatalf("expected KindUnknownZone, got %v", err)
	}
	if !errors.Is(err, domain.ErrUnknownZone) {
		t.Fatalf("expected ErrUnknownZone in chain, got %v", err)
	}
}

func TestConverter_InvalidCivilFields(t *testing.T) {
	src := newFakeSource()
	conv := NewConverter(src)

	for _, civil := range []domain.CivilDateTime{
		domain.Civil(2025, 2, 29, 0, 0),
		domain.Civil(2025, 13, 1, 0, 0),
		domain.Civil(2025, 1, 1, 24, 0),
		{Year: 2025, Month: 1, Day: 1, Second: 60},
	} {
		_, err := conv.Resolve(civil, "UTC")
		if !domain.IsKind(err, domain.KindInvalidCivilFields) {
			t.Fatalf("expected KindInvalidCivilFields for %+v, got %v", civil, err)
		}
	}
	if src.lookups != 0 {
		t.Fatalf("expected no source lookups for invalid input, got %d", src.lookups)
	}
}

func TestConverter_InconsistentDataDoesNotConverge(t *testing.T) {
	res, err := NewConverter(newFakeSource()).Resolve(domain.Civil(2025, 1, 1, 12, 0), "Test/Inconsistent")
	if err == nil {
		t.Fatalf("expected error, got instant %s", res.Instant)
	}
	if !domain.IsKind(err, domain.KindDidNotConverge) {
		t.Fatalf("expected KindDidNotConverge, got %v", err)
	}
	if res.Status != domain.StatusDidNotConverge || res.OK() {
		t.Fatalf("expected did_not_converge status, got %s", res.Status)
	}
	if res.Iterations != DefaultMaxIterations {
		t.Fatalf("expected full budget used, got %d", res.Iterations)
	}
}

func TestConverter_MaxIterationsOption(t *testing.T) {
	conv := NewConverter(newFakeSource(), WithMaxIterations(3))
	res, _ := conv.Resolve(domain.Civil(2025, 1, 1, 12, 0), "Test/Inconsistent")
	if res.Iterations != 3 {
		t.Fatalf("expected 3 iterations, got %d", res.Iterations)
	}

	if NewConverter(newFakeSource(), WithMaxIterations(0)).maxIterations != DefaultMaxIterations {
		t.Fatalf("expected non-positive budget to keep the default")
	}
}

func TestConverter_RoundTripThroughYear(t *testing.T) {
	src := newFakeSource()
	conv := NewConverter(src)
	r := NewRenderer(src)

	zones := []domain.ZoneID{"America/New_York", "America/Los_Angeles", "Asia/Kolkata", "Asia/Kathmandu", "UTC"}
	start := mustInstant("2025-01-01T00:00:00Z")
	end := mustInstant("2026-01-01T00:00:00Z")

	for _, zone := range zones {
		for at := start; at.Before(end); at = at.Add(37 * time.Minute) {
			civil, err := r.Render(at, zone)
			if err != nil {
				t.Fatalf("Render(%s, %s): %v", at, zone, err)
			}
			res, err := conv.Resolve(civil, zone)
			if err != nil {
				t.Fatalf("Resolve(%s, %s): %v", civil, zone, err)
			}
			if res.Status == domain.StatusNonexistentResolved {
				t.Fatalf("rendered reading %s in %s cannot be nonexistent", civil, zone)
			}
			back, err := r.Render(res.Instant, zone)
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			if back != civil {
				t.Fatalf("round trip mismatch in %s: %s -> %s -> %s", zone, civil, res.Instant, back)
			}
			if res.Status == domain.StatusConverged && !res.Instant.Equal(at) {
				t.Fatalf("expected %s, got %s for %s in %s", at, res.Instant, civil, zone)
			}
		}
	}
}
