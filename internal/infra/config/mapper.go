package config

import (
	"fmt"
	"strings"

	"github.com/aalvaropc/wallclock/internal/domain"
)

// MapBatch validates a decoded batch. Entries without a zone inherit the
// batch zone at run time, or the workspace default when the batch has none.
func MapBatch(path string, yb YAMLBatch) (domain.Batch, error) {
	if strings.TrimSpace(yb.Name) == "" {
		return domain.Batch{}, invalidField(path, "name", "batch name is required")
	}

	batch := domain.Batch{
		Name:    yb.Name,
		Zone:    domain.ZoneID(strings.TrimSpace(yb.Zone)),
		Entries: make([]domain.BatchEntry, 0, len(yb.Entries)),
	}

	for i, e := range yb.Entries {
		fieldPrefix := fmt.Sprintf("entries[%d]", i)
		if strings.TrimSpace(e.Name) == "" {
			return domain.Batch{}, invalidField(path, fieldPrefix+".name", "entry name is required")
		}

		entry := domain.BatchEntry{
			Name: e.Name,
			Zone: domain.ZoneID(strings.TrimSpace(e.Zone)),
		}

		resolve, render := strings.TrimSpace(e.Resolve), strings.TrimSpace(e.Render)
		switch {
		case resolve != "" && render != "":
			return domain.Batch{}, invalidField(path, fieldPrefix, "set only one of resolve or render")
		case resolve != "":
			civil, err := domain.ParseCivil(resolve)
			if err != nil {
				return domain.Batch{}, invalidField(path, fieldPrefix+".resolve", err.Error())
			}
			entry.Kind, entry.Civil = domain.EntryResolve, civil
		case render != "":
			at, err := domain.ParseInstant(render)
			if err != nil {
				return domain.Batch{}, invalidField(path, fieldPrefix+".render", err.Error())
			}
			entry.Kind, entry.Instant = domain.EntryRender, at
		default:
			return domain.Batch{}, invalidField(path, fieldPrefix, "one of resolve or render is required")
		}

		if strings.TrimSpace(e.Policy) != "" {
			p, err := domain.ParsePolicy(e.Policy)
			if err != nil {
				return domain.Batch{}, invalidField(path, fieldPrefix+".policy", err.Error())
			}
			entry.Policy = p
		}
		if strings.TrimSpace(e.Display) != "" {
			f, err := domain.ParseDisplayFormat(e.Display)
			if err != nil {
				return domain.Batch{}, invalidField(path, fieldPrefix+".display", err.Error())
			}
			entry.Display = f
		}

		batch.Entries = append(batch.Entries, entry)
	}

	return batch, nil
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "config.map",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("field %s: %s: %w", field, msg, domain.ErrInvalidConfig),
	}
}
