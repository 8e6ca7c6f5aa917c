package domain

import (
	"fmt"
	"strings"
)

// ResolutionStatus tags how a civil reading was mapped to an instant.
type ResolutionStatus string

const (
	StatusConverged           ResolutionStatus = "converged"
	StatusAmbiguousResolved   ResolutionStatus = "ambiguous_resolved"
	StatusNonexistentResolved ResolutionStatus = "nonexistent_resolved"
	StatusDidNotConverge      ResolutionStatus = "did_not_converge"
)

// Policy selects the occurrence used for readings that fall into a DST overlap,
// or whether such readings (and gap readings) are rejected outright.
type Policy string

const (
	// PolicyEarlier picks the first occurrence of an overlapped reading.
	PolicyEarlier Policy = "earlier"
	// PolicyLater picks the second occurrence of an overlapped reading.
	PolicyLater Policy = "later"
	// PolicyReject fails with KindAmbiguousOrNonexistent instead of resolving.
	PolicyReject Policy = "reject"
)

// ParsePolicy is case-insensitive; "" yields PolicyEarlier.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyEarlier:
		return PolicyEarlier, nil
	case PolicyLater:
		return PolicyLater, nil
	case PolicyReject:
		return PolicyReject, nil
	default:
		return "", fmt.Errorf("unsupported policy %q (expected earlier|later|reject): %w", s, ErrInvalidConfig)
	}
}

// Resolution is the tagged result of converting a civil reading in a zone.
// Callers must look at Status before trusting Instant.
type Resolution struct {
	Civil   CivilDateTime
	Zone    ZoneID
	Instant Instant
	Status  ResolutionStatus
	// Offset is the offset in effect at Instant.
	Offset ZoneOffset
	// Alternate is the other occurrence of an overlapped reading.
	Alternate *Instant
	// Gap is the size of the skipped wall-clock interval for a nonexistent reading.
	Gap Offset
	// Iterations is the number of fixed-point rounds used.
	Iterations int
}

// Flagged reports whether the reading hit a DST edge and was resolved by policy.
func (r Resolution) Flagged() bool {
	return r.Status == StatusAmbiguousResolved || r.Status == StatusNonexistentResolved
}

// OK reports whether Instant may be used.
func (r Resolution) OK() bool {
	return r.Status == StatusConverged || r.Flagged()
}
