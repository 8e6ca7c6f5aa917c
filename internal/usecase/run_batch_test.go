package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aalvaropc/wallclock/internal/domain"
	"github.com/aalvaropc/wallclock/internal/ports"
)

func demoBatch() domain.Batch {
	return domain.Batch{
		Name: "demo",
		Zone: "America/New_York",
		Entries: []domain.BatchEntry{
			{Name: "standup", Kind: domain.EntryResolve, Civil: domain.Civil(2025, 11, 18, 10, 0)},
			{Name: "mumbai call", Kind: domain.EntryResolve, Zone: "Asia/Kolkata", Civil: domain.Civil(2025, 5, 10, 9, 30), Display: domain.DisplayISO},
			{Name: "deploy", Kind: domain.EntryRender, Zone: "America/Los_Angeles", Instant: mustInstant("2025-11-18T15:56:00Z"), Display: domain.DisplayTimeOnly},
			{Name: "gap", Kind: domain.EntryResolve, Civil: domain.Civil(2025, 3, 9, 2, 30)},
			{Name: "overlap strict", Kind: domain.EntryResolve, Civil: domain.Civil(2025, 11, 2, 1, 30), Policy: domain.PolicyReject},
			{Name: "nowhere", Kind: domain.EntryRender, Zone: "Mars/Olympus", Instant: mustInstant("2025-01-01T00:00:00Z")},
		},
	}
}

func newTestRunBatch(batch domain.Batch, store ports.HistoryStore, opts ...RunBatchOption) *RunBatch {
	src := newFakeSource()
	return NewRunBatch(fakeBatchLoader{batch: batch}, NewConverter(src), NewRenderer(src), store, opts...)
}

func TestRunBatch_Execute_ConvertsEntriesInOrder(t *testing.T) {
	store := &fakeStore{}
	uc := newTestRunBatch(demoBatch(), store, WithSourceName("fake"), WithConcurrency(3))

	run, id, err := uc.Execute(context.Background(), "batches/demo.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "run-123" {
		t.Fatalf("expected run id, got %q", id)
	}
	if !store.saved || store.last.BatchName != "demo" {
		t.Fatalf("expected run to be saved")
	}
	if run.Source != "fake" || run.BatchPath != "batches/demo.yaml" {
		t.Fatalf("unexpected run header %+v", run)
	}
	if len(run.Results) != 6 {
		t.Fatalf("expected 6 results, got %d", len(run.Results))
	}

	names := []string{"standup", "mumbai call", "deploy", "gap", "overlap strict", "nowhere"}
	for i, n := range names {
		if run.Results[i].Name != n {
			t.Fatalf("result %d: expected %q, got %q", i, n, run.Results[i].Name)
		}
	}

	standup := run.Results[0]
	if standup.Zone != "America/New_York" || standup.Instant == nil || standup.Instant.String() != "2025-11-18T15:00:00Z" {
		t.Fatalf("unexpected standup result %+v", standup)
	}
	if standup.Display != "Nov 18, 2025, 10:00 AM" || standup.Offset != "-05:00" {
		t.Fatalf("unexpected standup display %q offset %q", standup.Display, standup.Offset)
	}

	if got := run.Results[1].Display; got != "2025-05-10T09:30:00+05:30" {
		t.Fatalf("unexpected kolkata display %q", got)
	}

	deploy := run.Results[2]
	if deploy.Display != "07:56 AM" || deploy.Civil == nil || deploy.Civil.Hour != 7 {
		t.Fatalf("unexpected deploy result %+v", deploy)
	}

	gap := run.Results[3]
	if gap.Status != domain.StatusNonexistentResolved || gap.Display != "Mar 9, 2025, 03:30 AM" {
		t.Fatalf("unexpected gap result %+v", gap)
	}

	strict := run.Results[4]
	if strict.Error == nil || strict.Error.Kind != domain.KindAmbiguousOrNonexistent {
		t.Fatalf("expected ambiguous error, got %+v", strict.Error)
	}
	if strict.Status != domain.StatusAmbiguousResolved {
		t.Fatalf("expected classification to be kept, got %s", strict.Status)
	}

	if e := run.Results[5].Error; e == nil || e.Kind != domain.KindUnknownZone {
		t.Fatalf("expected unknown zone error, got %+v", e)
	}
	if run.Failures() != 2 {
		t.Fatalf("expected 2 failures, got %d", run.Failures())
	}
}

func TestRunBatch_Execute_NilStoreSkipsSave(t *testing.T) {
	uc := newTestRunBatch(demoBatch(), nil)

	run, id, err := uc.Execute(context.Background(), "demo.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "" {
		t.Fatalf("expected empty id when store is nil, got %q", id)
	}
	if run.BatchName != "demo" {
		t.Fatalf("expected BatchName=demo, got %q", run.BatchName)
	}
}

func TestRunBatch_Execute_DefaultZoneAndDisplay(t *testing.T) {
	batch := domain.Batch{
		Name: "bare",
		Entries: []domain.BatchEntry{
			{Name: "noon", Kind: domain.EntryResolve, Civil: domain.Civil(2025, 5, 10, 12, 0)},
		},
	}
	uc := newTestRunBatch(batch, nil, WithDefaultZone("Asia/Kathmandu"), WithDefaultDisplay(domain.DisplayDateTimeLocal))

	run, _, err := uc.Execute(context.Background(), "bare.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res := run.Results[0]
	if res.Zone != "Asia/Kathmandu" {
		t.Fatalf("expected default zone, got %q", res.Zone)
	}
	if res.Instant.String() != "2025-05-10T06:15:00Z" {
		t.Fatalf("unexpected instant %s", res.Instant)
	}
	if res.Display != "2025-05-10T12:00" {
		t.Fatalf("unexpected display %q", res.Display)
	}
}

func TestRunBatch_Execute_UnsupportedKind(t *testing.T) {
	batch := domain.Batch{Name: "odd", Entries: []domain.BatchEntry{{Name: "x", Kind: "teleport"}}}

	run, _, err := newTestRunBatch(batch, nil).Execute(context.Background(), "odd.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e := run.Results[0].Error; e == nil || e.Kind != domain.KindInvalidConfig {
		t.Fatalf("expected invalid_config entry error, got %+v", e)
	}
}

func TestRunBatch_Execute_ErrorLoadingBatch(t *testing.T) {
	loadErr := errors.New("batch not found")
	src := newFakeSource()
	uc := NewRunBatch(fakeBatchLoader{err: loadErr}, NewConverter(src), NewRenderer(src), nil)

	_, _, err := uc.Execute(context.Background(), "missing.yaml")
	if !errors.Is(err, loadErr) {
		t.Fatalf("expected loadErr, got %v", err)
	}
}

func TestRunBatch_Execute_StoreError(t *testing.T) {
	saveErr := errors.New("store unavailable")
	uc := newTestRunBatch(demoBatch(), &fakeStore{err: saveErr})

	run, id, err := uc.Execute(context.Background(), "demo.yaml")
	if !errors.Is(err, saveErr) {
		t.Fatalf("expected wrapped saveErr, got %v", err)
	}
	if id != "" {
		t.Fatalf("expected empty id on store error, got %q", id)
	}
	// run should still be returned so caller can inspect results.
	if len(run.Results) != 6 {
		t.Fatalf("expected results even on store error, got %d", len(run.Results))
	}
}

func TestRunBatch_Execute_StopsOnContextCancel(t *testing.T) {
	store := &fakeStore{}
	uc := newTestRunBatch(demoBatch(), store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	run, id, err := uc.Execute(ctx, "demo.yaml")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if id != "" || store.saved {
		t.Fatalf("expected nothing saved")
	}
	if len(run.Results) != 0 {
		t.Fatalf("expected 0 results, got %d", len(run.Results))
	}
	if run.EndedAt.Before(run.StartedAt) {
		t.Fatalf("expected EndedAt >= StartedAt")
	}
}

func TestRunBatch_Execute_UsesClock(t *testing.T) {
	fixedNow := time.Date(2025, 11, 18, 15, 56, 0, 0, time.UTC)
	uc := newTestRunBatch(demoBatch(), nil, WithClock(func() time.Time { return fixedNow }))

	run, _, err := uc.Execute(context.Background(), "demo.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !run.StartedAt.Equal(fixedNow) || !run.EndedAt.Equal(fixedNow) {
		t.Fatalf("expected injected clock, got %s / %s", run.StartedAt, run.EndedAt)
	}
}
