package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/wallclock/internal/domain"
)

type renderOutput struct {
	Instant domain.Instant       `json:"instant"`
	Zone    domain.ZoneID        `json:"zone"`
	Civil   domain.CivilDateTime `json:"civil"`
	Offset  string               `json:"offset"`
	Abbr    string               `json:"abbreviation"`
	DST     bool                 `json:"dst"`
	Display string               `json:"display"`
}

func renderCmd(g *globalOpts) *cobra.Command {
	var zone string
	var display displayValue
	format := formatValue{f: "pretty"}

	c := &cobra.Command{
		Use:   "render <instant>",
		Short: "Show an absolute instant as wall-clock time in a zone",
		Example: "  wallclock render 2025-11-18T15:56:00Z --zone America/Los_Angeles --display time\n" +
			"  wallclock render 1763478000 -z Asia/Kathmandu",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := parseInstantArg(args[0])
			if err != nil {
				return err
			}

			ws, err := loadWorkspace(g, false)
			if err != nil {
				return err
			}

			z := ws.zone(zone)
			zoned, err := ws.renderer().RenderZoned(at, z)
			if err != nil {
				return err
			}

			out := renderOutput{
				Instant: at,
				Zone:    z,
				Civil:   zoned.Civil,
				Offset:  zoned.Offset.Offset.String(),
				Abbr:    zoned.Offset.Abbreviation,
				DST:     zoned.Offset.IsDST,
				Display: zoned.Format(ws.display(display)),
			}
			if format.f == "json" {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out.Display)
			return nil
		},
	}

	c.Flags().StringVarP(&zone, "zone", "z", "", "Zone id (defaults to the workspace default zone)")
	c.Flags().Var(&display, "display", "Display format: date|time|datetime|local|iso")
	c.Flags().Var(&format, "format", "Output format: pretty|json")
	return c
}

// parseInstantArg takes RFC 3339, Unix seconds, or Unix milliseconds (12+ digits).
func parseInstantArg(s string) (domain.Instant, error) {
	in := strings.TrimSpace(s)
	if n, err := strconv.ParseInt(in, 10, 64); err == nil {
		digits := len(strings.TrimPrefix(in, "-"))
		if digits >= 12 {
			return domain.InstantFromUnixMilli(n), nil
		}
		return domain.InstantFromUnix(n), nil
	}
	return domain.ParseInstant(in)
}
