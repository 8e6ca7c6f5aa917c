package config

import (
	"strings"
	"testing"

	"github.com/aalvaropc/wallclock/internal/domain"
)

func TestMapBatchRequiresNames(t *testing.T) {
	_, err := MapBatch("batch.yaml", YAMLBatch{})
	if err == nil || !strings.Contains(err.Error(), "field name") {
		t.Fatalf("expected name error, got %v", err)
	}

	_, err = MapBatch("batch.yaml", YAMLBatch{Name: "b", Entries: []YAMLEntry{{Resolve: "2025-01-01T00:00"}}})
	if err == nil || !strings.Contains(err.Error(), "entries[0].name") {
		t.Fatalf("expected entry name error, got %v", err)
	}
}

func TestMapBatchEntryKinds(t *testing.T) {
	yb := YAMLBatch{
		Name: "sample",
		Entries: []YAMLEntry{
			{Name: "r", Resolve: "2025-05-10 09:30", Zone: "Asia/Kolkata"},
			{Name: "i", Render: "2025-11-18T15:56:00Z"},
		},
	}

	batch, err := MapBatch("batch.yaml", yb)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if batch.Entries[0].Kind != domain.EntryResolve || batch.Entries[0].Civil != domain.Civil(2025, 5, 10, 9, 30) {
		t.Fatalf("unexpected resolve entry %+v", batch.Entries[0])
	}
	if batch.Entries[1].Kind != domain.EntryRender || batch.Entries[1].Instant.UnixSeconds() != 1763481360 {
		t.Fatalf("unexpected render entry %+v", batch.Entries[1])
	}
	if batch.Entries[1].Zone != "" {
		t.Fatalf("expected zone left for the runner, got %q", batch.Entries[1].Zone)
	}
}

func TestMapBatchRejectsBadFields(t *testing.T) {
	cases := map[string]YAMLEntry{
		"entries[0]":         {Name: "none"},
		"entries[0].resolve": {Name: "bad civil", Resolve: "2025-02-30T10:00"},
		"entries[0].render":  {Name: "bad instant", Render: "yesterday"},
		"entries[0].policy":  {Name: "bad policy", Resolve: "2025-01-01T00:00", Policy: "nearest"},
		"entries[0].display": {Name: "bad display", Render: "2025-01-01T00:00:00Z", Display: "fancy"},
	}

	for field, entry := range cases {
		_, err := MapBatch("batch.yaml", YAMLBatch{Name: "b", Entries: []YAMLEntry{entry}})
		if !domain.IsKind(err, domain.KindInvalidConfig) {
			t.Fatalf("%s: expected KindInvalidConfig, got %v", field, err)
		}
		if !strings.Contains(err.Error(), field) {
			t.Fatalf("expected %s in error, got %v", field, err)
		}
	}
}
