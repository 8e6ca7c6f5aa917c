package cli

import (
	"errors"

	"github.com/aalvaropc/wallclock/internal/domain"
	"github.com/aalvaropc/wallclock/internal/ui/tui"
)

// userMessage keeps plain errors (flag parsing, argument counts) verbatim;
// classified errors get the short wording the TUI uses.
func userMessage(err error) string {
	var oe *domain.OpError
	if errors.As(err, &oe) {
		return tui.UserMessage(err)
	}
	return err.Error()
}
