package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/list"

	"github.com/aalvaropc/wallclock/internal/domain"
	"github.com/aalvaropc/wallclock/internal/usecase"
)

// clockItem is one row of the clock.
type clockItem struct {
	zone domain.ZoneID
	line string
	err  error
}

func (c clockItem) Title() string { return string(c.zone) }
func (c clockItem) Description() string {
	if c.err != nil {
		return "!! " + UserMessage(c.err)
	}
	return c.line
}
func (c clockItem) FilterValue() string { return string(c.zone) }

// clockRows renders at in every zone. A zone that fails keeps its row and
// shows the error instead.
func clockRows(r *usecase.Renderer, zones []domain.ZoneID, at domain.Instant) []list.Item {
	items := make([]list.Item, 0, len(zones))
	for _, z := range zones {
		zoned, err := r.RenderZoned(at, z)
		if err != nil {
			items = append(items, clockItem{zone: z, err: err})
			continue
		}
		items = append(items, clockItem{zone: z, line: clockLine(zoned)})
	}
	return items
}

func clockLine(z domain.ZonedDateTime) string {
	var b strings.Builder
	b.WriteString(z.Format(domain.DisplayDateTime))
	fmt.Fprintf(&b, "  UTC%s %s", z.Offset.Offset, z.Offset.Abbreviation)
	if z.Offset.IsDST {
		b.WriteString(" (DST)")
	}
	return b.String()
}

// describeResolution is the banner shown after converting a reading.
func describeResolution(res domain.Resolution) string {
	s := fmt.Sprintf("%s in %s = %s", res.Civil, res.Zone, res.Instant)
	switch res.Status {
	case domain.StatusAmbiguousResolved:
		s += fmt.Sprintf("  (occurs twice; other is %s)", res.Alternate)
	case domain.StatusNonexistentResolved:
		s += fmt.Sprintf("  (skipped by a %s gap; shifted forward)", res.Gap)
	}
	return s
}

func clampString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))

	n := 0
	for _, r := range s {
		if n >= maxLen {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String() + "…"
}
