package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for broad classification.
var (
	ErrUnknownZone            = errors.New("unknown zone")
	ErrInvalidCivilFields     = errors.New("invalid civil fields")
	ErrDidNotConverge         = errors.New("conversion did not converge")
	ErrAmbiguousOrNonexistent = errors.New("ambiguous or nonexistent civil time")
	ErrNotFound               = errors.New("not found")
	ErrInvalidConfig          = errors.New("invalid config")
	ErrExecution              = errors.New("execution error")
)

// ErrorKind is a coarse-grained categorization for errors.
type ErrorKind string

const (
	KindUnknownZone            ErrorKind = "unknown_zone"
	KindInvalidCivilFields     ErrorKind = "invalid_civil_fields"
	KindDidNotConverge         ErrorKind = "did_not_converge"
	KindAmbiguousOrNonexistent ErrorKind = "ambiguous_or_nonexistent"
	KindNotFound               ErrorKind = "not_found"
	KindInvalidConfig          ErrorKind = "invalid_config"
	KindExecution              ErrorKind = "execution"
)

// OpError wraps an underlying error with operation context and a kind.
type OpError struct {
	Op   string
	Kind ErrorKind
	Zone ZoneID // Optional: zone involved in the operation
	Path string // Optional: relevant file path
	Err  error
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Zone != "" {
		base += fmt.Sprintf(" (zone=%s)", e.Zone)
	}
	if e.Path != "" {
		base += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsKind helps callers classify errors without depending on infra packages.
func IsKind(err error, kind ErrorKind) bool {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind == kind
	}
	return false
}

// UnknownZone builds the error every ZoneRuleSource returns for an unrecognized id.
func UnknownZone(op string, zone ZoneID, cause error) error {
	err := ErrUnknownZone
	if cause != nil {
		err = fmt.Errorf("%w: %v", ErrUnknownZone, cause)
	}
	return &OpError{
		Op:   op,
		Kind: KindUnknownZone,
		Zone: zone,
		Err:  err,
	}
}
