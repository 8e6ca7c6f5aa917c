package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/wallclock/internal/domain"
)

type resolveOutput struct {
	Civil      domain.CivilDateTime    `json:"civil"`
	Zone       domain.ZoneID           `json:"zone"`
	Instant    domain.Instant          `json:"instant"`
	Unix       int64                   `json:"unix"`
	Status     domain.ResolutionStatus `json:"status"`
	Offset     string                  `json:"offset"`
	Abbr       string                  `json:"abbreviation"`
	DST        bool                    `json:"dst"`
	Alternate  *domain.Instant         `json:"alternate,omitempty"`
	Gap        string                  `json:"gap,omitempty"`
	Iterations int                     `json:"iterations"`
	Display    string                  `json:"display"`
}

func resolveCmd(g *globalOpts) *cobra.Command {
	var zone string
	var policy policyValue
	var display displayValue
	format := formatValue{f: "pretty"}

	c := &cobra.Command{
		Use:   "resolve <civil>",
		Short: "Convert a wall-clock reading in a zone to an absolute instant",
		Example: "  wallclock resolve 2025-11-18T10:00 --zone America/New_York\n" +
			"  wallclock resolve '2025-11-02 01:30' -z America/New_York --policy later",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			civil, err := domain.ParseCivil(args[0])
			if err != nil {
				return err
			}

			ws, err := loadWorkspace(g, false)
			if err != nil {
				return err
			}

			z := ws.zone(zone)
			conv := ws.converter(policy.p)
			res, err := conv.Resolve(civil, z)
			if err != nil {
				ws.log.Warn("resolve.failed", "zone", string(z), "civil", civil.String(), "status", string(res.Status), "err", err)
				return err
			}

			out := resolveOutput{
				Civil:      civil,
				Zone:       z,
				Instant:    res.Instant,
				Unix:       res.Instant.UnixSeconds(),
				Status:     res.Status,
				Offset:     res.Offset.Offset.String(),
				Abbr:       res.Offset.Abbreviation,
				DST:        res.Offset.IsDST,
				Alternate:  res.Alternate,
				Iterations: res.Iterations,
				Display: domain.ZonedDateTime{
					Instant: res.Instant,
					Zone:    z,
					Civil:   domain.LocalCivil(res.Instant, res.Offset.Offset),
					Offset:  res.Offset,
				}.Format(ws.display(display)),
			}
			if res.Status == domain.StatusNonexistentResolved {
				out.Gap = res.Gap.String()
			}

			if format.f == "json" {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			printResolve(cmd.OutOrStdout(), out)
			return nil
		},
	}

	c.Flags().StringVarP(&zone, "zone", "z", "", "Zone id (defaults to the workspace default zone)")
	c.Flags().Var(&policy, "policy", "Overlap policy: earlier|later|reject")
	c.Flags().Var(&display, "display", "Display format: date|time|datetime|local|iso")
	c.Flags().Var(&format, "format", "Output format: pretty|json")
	return c
}

func printResolve(w io.Writer, out resolveOutput) {
	fmt.Fprintf(w, "Civil:    %s (%s)\n", out.Civil, out.Zone)
	fmt.Fprintf(w, "Instant:  %s\n", out.Instant)
	fmt.Fprintf(w, "Unix:     %d\n", out.Unix)
	fmt.Fprintf(w, "Offset:   %s %s\n", out.Offset, out.Abbr)
	fmt.Fprintf(w, "Status:   %s\n", out.Status)
	fmt.Fprintf(w, "Display:  %s\n", out.Display)

	switch out.Status {
	case domain.StatusAmbiguousResolved:
		fmt.Fprintf(w, "\nThis reading occurs twice; the other occurrence is %s.\n", out.Alternate)
	case domain.StatusNonexistentResolved:
		fmt.Fprintf(w, "\nThis reading is skipped by a %s gap; shown shifted forward.\n", out.Gap)
	}
}
