package usecase

import (
	"sort"
	"sync"

	"github.com/aalvaropc/wallclock/internal/domain"
	"github.com/aalvaropc/wallclock/internal/ports"
)

// --- fakes shared by usecase tests ---

type fakeTransition struct {
	at  domain.Instant
	off domain.ZoneOffset
}

// fakeZone is a piecewise-constant offset function: initial applies before the
// first transition, each transition from its instant onwards.
type fakeZone struct {
	initial     domain.ZoneOffset
	transitions []fakeTransition
}

func (z fakeZone) lookup(at domain.Instant) domain.ZoneOffset {
	i := sort.Search(len(z.transitions), func(i int) bool {
		return z.transitions[i].at.After(at)
	})
	if i == 0 {
		return z.initial
	}
	return z.transitions[i-1].off
}

type fakeSource struct {
	mu      sync.Mutex
	zones   map[domain.ZoneID]fakeZone
	lookups int
}

func (s *fakeSource) LookupOffset(zone domain.ZoneID, at domain.Instant) (domain.ZoneOffset, error) {
	s.mu.Lock()
	s.lookups++
	s.mu.Unlock()

	z, ok := s.zones[zone]
	if !ok {
		return domain.ZoneOffset{}, domain.UnknownZone("fake.lookup", zone, nil)
	}
	return z.lookup(at), nil
}

func mustInstant(s string) domain.Instant {
	i, err := domain.ParseInstant(s)
	if err != nil {
		panic(err)
	}
	return i
}

func fixed(h, m int, abbr string) domain.ZoneOffset {
	return domain.ZoneOffset{Offset: domain.OffsetMinutes(h*60 + m), Abbreviation: abbr}
}

func dst(h int, abbr string) domain.ZoneOffset {
	return domain.ZoneOffset{Offset: domain.OffsetMinutes(h * 60), IsDST: true, Abbreviation: abbr}
}

// newFakeSource carries the 2025 rules of a handful of zones, enough for the
// scenarios exercised here.
func newFakeSource() *fakeSource {
	return &fakeSource{zones: map[domain.ZoneID]fakeZone{
		"UTC": {initial: fixed(0, 0, "UTC")},
		"America/New_York": {
			initial: fixed(-5, 0, "EST"),
			transitions: []fakeTransition{
				{at: mustInstant("2025-03-09T07:00:00Z"), off: dst(-4, "EDT")},
				{at: mustInstant("2025-11-02T06:00:00Z"), off: fixed(-5, 0, "EST")},
			},
		},
		"America/Los_Angeles": {
			initial: fixed(-8, 0, "PST"),
			transitions: []fakeTransition{
				{at: mustInstant("2025-03-09T10:00:00Z"), off: dst(-7, "PDT")},
				{at: mustInstant("2025-11-02T09:00:00Z"), off: fixed(-8, 0, "PST")},
			},
		},
		"Asia/Kolkata":   {initial: fixed(5, 30, "IST")},
		"Asia/Kathmandu": {initial: fixed(5, 45, "+0545")},
		// Wall clock never shows 12:xx on 2025-01-01, yet the offsets a day
		// either side agree, so there is neither a gap nor an overlap to blame.
		"Test/Inconsistent": {
			initial: fixed(0, 0, "Z0"),
			transitions: []fakeTransition{
				{at: mustInstant("2025-01-01T10:00:00Z"), off: fixed(-1, 0, "M1")},
				{at: mustInstant("2025-01-01T12:00:00Z"), off: fixed(1, 0, "P1")},
				{at: mustInstant("2025-01-01T14:00:00Z"), off: fixed(0, 0, "Z0")},
			},
		},
	}}
}

type fakeBatchLoader struct {
	batch domain.Batch
	err   error
}

func (f fakeBatchLoader) LoadBatch(_ string) (domain.Batch, error) {
	return f.batch, f.err
}

func (f fakeBatchLoader) ListBatches(_ string) ([]domain.BatchRef, error) {
	return nil, nil
}

type fakeStore struct {
	mu    sync.Mutex
	saved bool
	last  domain.BatchRun
	err   error
}

func (s *fakeStore) SaveRun(run domain.BatchRun) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	s.saved = true
	s.last = run
	return "run-123", nil
}

var (
	_ ports.ZoneRuleSource = (*fakeSource)(nil)
	_ ports.BatchLoader    = fakeBatchLoader{}
	_ ports.HistoryStore   = (*fakeStore)(nil)
)
