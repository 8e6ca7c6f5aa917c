package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/wallclock/internal/domain"
	"github.com/aalvaropc/wallclock/internal/usecase"
)

func extractCmd(g *globalOpts) *cobra.Command {
	var path string
	var zone string
	var display displayValue
	format := formatValue{f: "pretty"}

	c := &cobra.Command{
		Use:   "extract <file.json>",
		Short: "Render every timestamp a JSONPath expression selects from a JSON file",
		Example: "  wallclock extract shifts.json --path '$.shifts[*].start' --zone Asia/Kolkata\n" +
			"  cat shifts.json | wallclock extract - --path '$..end'",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			ws, err := loadWorkspace(g, false)
			if err != nil {
				return err
			}

			uc := usecase.NewExtractTimes(ws.renderer())
			times, err := uc.Execute(body, path, ws.zone(zone), ws.display(display))
			if err != nil {
				return err
			}

			if format.f == "json" {
				return writeJSON(cmd.OutOrStdout(), times)
			}
			printExtracted(cmd.OutOrStdout(), times)

			bad := 0
			for _, t := range times {
				if !t.OK() {
					bad++
				}
			}
			if bad > 0 {
				return fmt.Errorf("%d of %d value(s) could not be converted", bad, len(times))
			}
			return nil
		},
	}

	c.Flags().StringVarP(&path, "path", "p", "", "JSONPath expression selecting timestamps (required)")
	c.Flags().StringVarP(&zone, "zone", "z", "", "Zone id (defaults to the workspace default zone)")
	c.Flags().Var(&display, "display", "Display format: date|time|datetime|local|iso")
	c.Flags().Var(&format, "format", "Output format: pretty|json")

	_ = c.MarkFlagRequired("path")
	return c
}

// readInput reads a file, or stdin when name is "-".
func readInput(stdin io.Reader, name string) ([]byte, error) {
	var (
		b   []byte
		err error
	)
	if name == "-" {
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, &domain.OpError{
			Op:   "cli.extract",
			Kind: domain.KindNotFound,
			Path: name,
			Err:  err,
		}
	}
	return b, nil
}

func printExtracted(w io.Writer, times []domain.ExtractedTime) {
	if len(times) == 0 {
		fmt.Fprintln(w, "(no matches)")
		return
	}
	for _, t := range times {
		if !t.OK() {
			fmt.Fprintf(w, "[%d] %s  !! %s\n", t.Index, t.Raw, t.Message)
			continue
		}
		fmt.Fprintf(w, "[%d] %s  ->  %s (UTC%s)\n", t.Index, t.Raw, t.Display, t.Offset)
	}
}
