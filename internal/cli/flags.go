package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/aalvaropc/wallclock/internal/domain"
)

// globalOpts are the persistent flags shared by every command.
type globalOpts struct {
	debug     bool
	workspace string
	source    sourceValue
	zoneinfo  string

	cleanup func() error
}

type policyValue struct{ p domain.Policy }

func (v *policyValue) String() string { return string(v.p) }
func (v *policyValue) Type() string   { return "policy" }
func (v *policyValue) Set(s string) error {
	p, err := domain.ParsePolicy(s)
	if err != nil {
		return err
	}
	v.p = p
	return nil
}

type displayValue struct{ f domain.DisplayFormat }

func (v *displayValue) String() string { return string(v.f) }
func (v *displayValue) Type() string   { return "display" }
func (v *displayValue) Set(s string) error {
	f, err := domain.ParseDisplayFormat(s)
	if err != nil {
		return err
	}
	v.f = f
	return nil
}

type sourceValue struct{ k domain.SourceKind }

func (v *sourceValue) String() string { return string(v.k) }
func (v *sourceValue) Type() string   { return "source" }
func (v *sourceValue) Set(s string) error {
	switch k := domain.SourceKind(strings.ToLower(strings.TrimSpace(s))); k {
	case domain.SourceSystem, domain.SourceTZif, domain.SourceRules, domain.SourceChain:
		v.k = k
		return nil
	default:
		return fmt.Errorf("unsupported source %q (expected system|tzif|rules|chain)", s)
	}
}

type formatValue struct{ f string }

func (v *formatValue) String() string { return v.f }
func (v *formatValue) Type() string   { return "format" }
func (v *formatValue) Set(s string) error {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case "pretty", "json":
		v.f = f
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", s)
	}
}

var (
	_ pflag.Value = (*policyValue)(nil)
	_ pflag.Value = (*displayValue)(nil)
	_ pflag.Value = (*sourceValue)(nil)
	_ pflag.Value = (*formatValue)(nil)
)
