package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/wallclock/internal/domain"
	"github.com/aalvaropc/wallclock/internal/infra/posixtz"
	"github.com/aalvaropc/wallclock/internal/infra/ruletable"
	"github.com/aalvaropc/wallclock/internal/infra/tzif"
	"github.com/aalvaropc/wallclock/internal/infra/zonechain"
	"github.com/aalvaropc/wallclock/internal/ports"
)

var now = time.Now

func zonesCmd(g *globalOpts) *cobra.Command {
	c := &cobra.Command{
		Use:   "zones",
		Short: "Inspect the zones known to the configured source",
	}

	c.AddCommand(zonesListCmd(g), zonesDescribeCmd(g))
	return c
}

func zonesListCmd(g *globalOpts) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List zone ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(g, false)
			if err != nil {
				return err
			}

			ids, err := listZones(ws.source)
			if err != nil {
				return err
			}

			f := strings.ToLower(strings.TrimSpace(filter))
			w := cmd.OutOrStdout()
			n := 0
			for _, id := range ids {
				if f != "" && !strings.Contains(strings.ToLower(string(id)), f) {
					continue
				}
				fmt.Fprintln(w, id)
				n++
			}
			if n == 0 {
				fmt.Fprintln(w, "(no zones found)")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "Only list ids containing this text (case-insensitive)")
	return cmd
}

// listZones uses the source's own catalog, or the common zones when it has none.
func listZones(src ports.ZoneRuleSource) ([]domain.ZoneID, error) {
	if cat, ok := src.(ports.ZoneCatalog); ok {
		return cat.ListZones()
	}
	return append([]domain.ZoneID(nil), domain.CommonZones...), nil
}

func zonesDescribeCmd(g *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <zone>",
		Short: "Show the current offset and the daylight saving rule of a zone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := loadWorkspace(g, false)
			if err != nil {
				return err
			}

			id := domain.ZoneID(strings.TrimSpace(args[0]))
			at := domain.InstantFromTime(now())
			zoned, err := ws.renderer().RenderZoned(at, id)
			if err != nil {
				return err
			}

			rule, owner, err := zoneRule(ws.source, id, ws.sourceName)
			if err != nil {
				return err
			}
			printDescribe(cmd.OutOrStdout(), zoned, owner, rule, now().UTC().Year())
			return nil
		},
	}
}

// zoneRule finds the POSIX rule that governs id going forward, when the
// source that owns id can tell.
func zoneRule(src ports.ZoneRuleSource, id domain.ZoneID, name string) (*posixtz.Rule, string, error) {
	switch s := src.(type) {
	case *tzif.Source:
		z, err := s.Zone(id)
		if err != nil {
			return nil, name, err
		}
		if r, ok := z.FooterRule(); ok {
			return &r, name, nil
		}
	case *ruletable.Source:
		if z, ok := s.Zone(id); ok {
			return z.Rule, name, nil
		}
	case *zonechain.Chain:
		_, owner, err := s.Lookup(id, domain.InstantFromTime(now()))
		if err != nil {
			return nil, name, err
		}
		for _, l := range s.Links() {
			if l.Name == owner {
				return zoneRule(l.Source, id, owner)
			}
		}
	}
	return nil, name, nil
}

func printDescribe(w io.Writer, z domain.ZonedDateTime, owner string, rule *posixtz.Rule, year int) {
	fmt.Fprintf(w, "Zone:    %s\n", z.Zone)
	fmt.Fprintf(w, "Source:  %s\n", owner)

	dst := ""
	if z.Offset.IsDST {
		dst = ", daylight saving"
	}
	fmt.Fprintf(w, "Now:     %s (UTC%s %s%s)\n", z.Format(domain.DisplayDateTime), z.Offset.Offset, z.Offset.Abbreviation, dst)

	if rule == nil {
		fmt.Fprintln(w, "\nNo POSIX rule available from this source.")
		return
	}
	fmt.Fprintf(w, "Rule:    %s\n\n%s\n", rule.Raw, rule.Describe())
	if rule.HasDST() {
		start, end := rule.Transitions(year)
		fmt.Fprintf(w, "\nIn %d: starts %s, ends %s\n", year,
			domain.InstantFromUnix(start), domain.InstantFromUnix(end))
	}
}
