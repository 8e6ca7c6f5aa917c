package usecase

import (
	"context"
	"fmt"

	"github.com/aalvaropc/wallclock/internal/domain"
	"github.com/aalvaropc/wallclock/internal/ports"
)

type ValidateBatch struct {
	batches     ports.BatchLoader
	source      ports.ZoneRuleSource
	defaultZone domain.ZoneID
}

type ValidateOption func(*ValidateBatch)

func WithValidateDefaultZone(z domain.ZoneID) ValidateOption {
	return func(uc *ValidateBatch) {
		if z != "" {
			uc.defaultZone = z
		}
	}
}

func NewValidateBatch(bl ports.BatchLoader, src ports.ZoneRuleSource, opts ...ValidateOption) *ValidateBatch {
	uc := &ValidateBatch{
		batches:     bl,
		source:      src,
		defaultZone: domain.UTC,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Execute checks a batch without converting it: every entry must have a
// supported kind, valid civil fields and a zone the source knows.
func (uc *ValidateBatch) Execute(ctx context.Context, path string) (domain.Batch, error) {
	batch, err := uc.batches.LoadBatch(path)
	if err != nil {
		return domain.Batch{}, err
	}

	for _, e := range batch.Entries {
		if err := ctx.Err(); err != nil {
			return batch, err
		}
		if err := uc.check(batch, e); err != nil {
			return batch, fmt.Errorf("entry %q: %w", e.Name, err)
		}
	}
	return batch, nil
}

func (uc *ValidateBatch) check(batch domain.Batch, e domain.BatchEntry) error {
	zone := e.Zone
	if zone == "" {
		zone = batch.Zone
	}
	if zone == "" {
		zone = uc.defaultZone
	}

	var probe domain.Instant
	switch e.Kind {
	case domain.EntryResolve:
		if err := e.Civil.Validate(); err != nil {
			return err
		}
		probe = e.Civil.AsUTC()
	case domain.EntryRender:
		probe = e.Instant
	default:
		return &domain.OpError{
			Op:   "batch.validate",
			Kind: domain.KindInvalidConfig,
			Zone: zone,
			Err:  fmt.Errorf("%w: unsupported entry kind %q", domain.ErrInvalidConfig, e.Kind),
		}
	}

	_, err := uc.source.LookupOffset(zone, probe)
	return err
}
