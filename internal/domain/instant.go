package domain

import (
	"fmt"
	"strings"
	"time"
)

// Instant is an absolute point on the universal timeline, stored as
// milliseconds since 1970-01-01T00:00:00Z. It carries no zone.
type Instant struct {
	ms int64
}

func InstantFromUnix(sec int64) Instant {
	return Instant{ms: sec * 1000}
}

func InstantFromUnixMilli(ms int64) Instant {
	return Instant{ms: ms}
}

// InstantFromTime drops any location and sub-millisecond precision from t.
func InstantFromTime(t time.Time) Instant {
	return Instant{ms: t.UnixMilli()}
}

// ParseInstant accepts any RFC 3339 timestamp; the offset in the string is
// applied and then discarded.
func ParseInstant(s string) (Instant, error) {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s))
	if err != nil {
		return Instant{}, &OpError{
			Op:   "instant.parse",
			Kind: KindInvalidConfig,
			Err:  fmt.Errorf("%q is not an RFC 3339 timestamp: %w", s, err),
		}
	}
	return InstantFromTime(t), nil
}

func (i Instant) UnixMilli() int64 { return i.ms }

// UnixSeconds floors toward negative infinity so pre-epoch instants decompose correctly.
func (i Instant) UnixSeconds() int64 { return floorDiv(i.ms, 1000) }

func (i Instant) Add(d time.Duration) Instant {
	return Instant{ms: i.ms + d.Milliseconds()}
}

func (i Instant) AddOffset(o Offset) Instant {
	return Instant{ms: i.ms + int64(o)*1000}
}

func (i Instant) Sub(other Instant) time.Duration {
	return time.Duration(i.ms-other.ms) * time.Millisecond
}

func (i Instant) Compare(other Instant) int {
	switch {
	case i.ms < other.ms:
		return -1
	case i.ms > other.ms:
		return 1
	default:
		return 0
	}
}

func (i Instant) Before(other Instant) bool { return i.ms < other.ms }
func (i Instant) After(other Instant) bool  { return i.ms > other.ms }
func (i Instant) Equal(other Instant) bool  { return i.ms == other.ms }

// Time returns the instant as a UTC time.Time.
func (i Instant) Time() time.Time {
	return time.UnixMilli(i.ms).UTC()
}

// String renders RFC 3339 in UTC, e.g. 2025-11-18T15:00:00Z.
func (i Instant) String() string {
	return i.Time().Format(time.RFC3339Nano)
}

func (i Instant) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

func (i *Instant) UnmarshalText(b []byte) error {
	parsed, err := ParseInstant(string(b))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}
