package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aalvaropc/wallclock/internal/domain"
	"github.com/aalvaropc/wallclock/internal/ports"
)

const defaultBatchConcurrency = 4

// RunBatch loads a batch file and converts every entry. Entries are
// independent: a failing entry is recorded in its result and the batch goes
// on. Results keep the order of the file.
type RunBatch struct {
	batches   ports.BatchLoader
	converter *Converter
	renderer  *Renderer
	store     ports.HistoryStore

	defaultZone    domain.ZoneID
	defaultDisplay domain.DisplayFormat
	sourceName     string
	concurrency    int
	now            func() time.Time
	log            *slog.Logger
}

type RunBatchOption func(*RunBatch)

// WithDefaultZone applies to entries when neither they nor the batch name a zone.
func WithDefaultZone(z domain.ZoneID) RunBatchOption {
	return func(uc *RunBatch) { uc.defaultZone = z }
}

func WithDefaultDisplay(f domain.DisplayFormat) RunBatchOption {
	return func(uc *RunBatch) { uc.defaultDisplay = f }
}

// WithSourceName labels the run with the zone source that produced it.
func WithSourceName(name string) RunBatchOption {
	return func(uc *RunBatch) { uc.sourceName = name }
}

func WithConcurrency(n int) RunBatchOption {
	return func(uc *RunBatch) {
		if n > 0 {
			uc.concurrency = n
		}
	}
}

func WithClock(now func() time.Time) RunBatchOption {
	return func(uc *RunBatch) {
		if now != nil {
			uc.now = now
		}
	}
}

func WithBatchLogger(l *slog.Logger) RunBatchOption {
	return func(uc *RunBatch) {
		if l != nil {
			uc.log = l
		}
	}
}

// NewRunBatch wires the use case. store may be nil, in which case runs are not persisted.
func NewRunBatch(bl ports.BatchLoader, conv *Converter, r *Renderer, store ports.HistoryStore, opts ...RunBatchOption) *RunBatch {
	uc := &RunBatch{
		batches:        bl,
		converter:      conv,
		renderer:       r,
		store:          store,
		defaultZone:    domain.UTC,
		defaultDisplay: domain.DisplayDateTime,
		concurrency:    defaultBatchConcurrency,
		now:            time.Now,
		log:            slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Execute runs the batch at path. The returned id is empty when nothing was
// saved. On cancellation the entries finished so far are returned along with
// the context error.
func (uc *RunBatch) Execute(ctx context.Context, path string) (domain.BatchRun, string, error) {
	batch, err := uc.batches.LoadBatch(path)
	if err != nil {
		return domain.BatchRun{}, "", err
	}

	run := domain.BatchRun{
		BatchName: batch.Name,
		BatchPath: path,
		Source:    uc.sourceName,
		StartedAt: uc.now(),
	}

	results := make([]domain.EntryResult, len(batch.Entries))
	done := make([]bool, len(batch.Entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.concurrency)
	for i, entry := range batch.Entries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = uc.convert(batch, entry)
			done[i] = true
			return nil
		})
	}
	waitErr := g.Wait()

	run.Results = make([]domain.EntryResult, 0, len(results))
	for i, res := range results {
		if done[i] {
			run.Results = append(run.Results, res)
		}
	}
	run.EndedAt = uc.now()

	if waitErr != nil {
		return run, "", waitErr
	}

	uc.log.Info("batch converted",
		"batch", batch.Name, "entries", len(run.Results), "failures", run.Failures())

	if uc.store == nil {
		return run, "", nil
	}
	id, err := uc.store.SaveRun(run)
	if err != nil {
		return run, "", fmt.Errorf("save run: %w", err)
	}
	return run, id, nil
}

func (uc *RunBatch) convert(batch domain.Batch, entry domain.BatchEntry) domain.EntryResult {
	zone := entry.Zone
	if zone == "" {
		zone = batch.Zone
	}
	if zone == "" {
		zone = uc.defaultZone
	}
	display := entry.Display
	if display == "" {
		display = uc.defaultDisplay
	}

	out := domain.EntryResult{Name: entry.Name, Kind: entry.Kind, Zone: zone}

	switch entry.Kind {
	case domain.EntryRender:
		at := entry.Instant
		out.Instant = &at
		z, err := uc.renderer.RenderZoned(at, zone)
		if err != nil {
			out.Error = domain.NewEntryError(err)
			return out
		}
		out.Civil = &z.Civil
		out.Offset = z.Offset.Offset.String()
		out.Display = z.Format(display)

	case domain.EntryResolve:
		civil := entry.Civil
		out.Civil = &civil
		policy := entry.Policy
		if policy == "" {
			policy = uc.converter.Policy()
		}
		res, err := uc.converter.ResolveWithPolicy(civil, zone, policy)
		out.Status = res.Status
		if err != nil {
			out.Error = domain.NewEntryError(err)
			return out
		}
		at := res.Instant
		out.Instant = &at
		out.Alternate = res.Alternate
		out.Offset = res.Offset.Offset.String()
		out.Display = domain.ZonedDateTime{
			Instant: at,
			Zone:    zone,
			Civil:   domain.LocalCivil(at, res.Offset.Offset),
			Offset:  res.Offset,
		}.Format(display)

	default:
		out.Error = domain.NewEntryError(&domain.OpError{
			Op:   "batch.entry",
			Kind: domain.KindInvalidConfig,
			Zone: zone,
			Err:  fmt.Errorf("%w: unsupported entry kind %q", domain.ErrInvalidConfig, entry.Kind),
		})
	}
	return out
}
