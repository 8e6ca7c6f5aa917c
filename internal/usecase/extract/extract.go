package extract

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"

	"github.com/aalvaropc/wallclock/internal/domain"
)

// millisThreshold separates numeric timestamps in seconds from milliseconds.
// 1e11 seconds is in the year 5138; 1e11 milliseconds is in March 1973.
const millisThreshold = 1e11

// Apply evaluates a JSONPath expression against body and reads every match as
// an instant. Strings must be RFC 3339; numbers are Unix seconds, or
// milliseconds when their magnitude is at least 1e11.
//
// Policy:
// - If body is not JSON or the expression is invalid -> error, nothing extracted.
// - If a single match is not a timestamp -> it's reported in its Message; other matches still count.
func Apply(body []byte, expr string) ([]domain.ExtractedTime, error) {
	const op = "extract.apply"

	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, invalid(op, fmt.Errorf("empty jsonpath expression"))
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, invalid(op, fmt.Errorf("document is not valid JSON: %v", err))
	}

	val, err := jsonpath.Get(expr, doc)
	if err != nil {
		return nil, invalid(op, fmt.Errorf("jsonpath %s: %v", expr, err))
	}

	matches, ok := val.([]any)
	if !ok {
		matches = []any{val}
	}

	out := make([]domain.ExtractedTime, 0, len(matches))
	for i, m := range matches {
		out = append(out, toExtracted(i, m))
	}
	return out, nil
}

func toExtracted(i int, v any) domain.ExtractedTime {
	e := domain.ExtractedTime{Index: i, Raw: raw(v)}

	switch t := v.(type) {
	case string:
		at, err := domain.ParseInstant(strings.TrimSpace(t))
		if err != nil {
			e.Message = fmt.Sprintf("value %q is not an RFC 3339 timestamp", t)
			return e
		}
		e.Instant = at
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) || t != math.Trunc(t) {
			e.Message = fmt.Sprintf("value %s is not a whole Unix timestamp", e.Raw)
			return e
		}
		if math.Abs(t) >= millisThreshold {
			e.Instant = domain.InstantFromUnixMilli(int64(t))
		} else {
			e.Instant = domain.InstantFromUnix(int64(t))
		}
	case nil:
		e.Message = "no value found"
	default:
		e.Message = fmt.Sprintf("value %s is not a timestamp", e.Raw)
	}
	return e
}

func raw(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case nil:
		return ""
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}

func invalid(op string, err error) error {
	return &domain.OpError{
		Op:   op,
		Kind: domain.KindInvalidConfig,
		Err:  fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err),
	}
}
