package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/wallclock/internal/domain"
	"github.com/aalvaropc/wallclock/internal/ports"
	"github.com/aalvaropc/wallclock/internal/usecase"
)

func runCmd(g *globalOpts) *cobra.Command {
	var batch string
	var noSave bool
	var concurrency int
	format := formatValue{f: "pretty"}

	c := &cobra.Command{
		Use:   "run",
		Short: "Convert every entry of a batch file and save the result under history/",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(g, false)
			if err != nil {
				return err
			}

			batchPath, err := resolveBatchPath(ws, batch)
			if err != nil {
				return err
			}

			var store ports.HistoryStore = ws.store
			if noSave || ws.store == nil {
				store = nil
			}

			uc := usecase.NewRunBatch(ws.batches, ws.converter(""), ws.renderer(), store,
				usecase.WithDefaultZone(ws.cfg.Defaults.Zone),
				usecase.WithDefaultDisplay(ws.cfg.Defaults.Display),
				usecase.WithSourceName(ws.sourceName),
				usecase.WithConcurrency(concurrency),
				usecase.WithBatchLogger(ws.log),
			)

			run, runID, err := uc.Execute(cmd.Context(), batchPath)
			if err != nil {
				if run.BatchName != "" {
					_ = printRun(cmd.OutOrStdout(), run, runID, format.f)
				}
				return err
			}

			if err := printRun(cmd.OutOrStdout(), run, runID, format.f); err != nil {
				return err
			}

			if fails := run.Failures(); fails > 0 {
				return fmt.Errorf("batch finished with %d failed entr%s", fails, plural(fails, "y", "ies"))
			}
			return nil
		},
	}

	c.Flags().StringVarP(&batch, "batch", "b", "", "Batch name or path (required)")
	c.Flags().BoolVar(&noSave, "no-save", false, "Do not save the run under history/")
	c.Flags().IntVar(&concurrency, "concurrency", 0, "Entries converted in parallel (default 4)")
	c.Flags().Var(&format, "format", "Output format: pretty|json")

	_ = c.MarkFlagRequired("batch")
	return c
}

func printRun(w io.Writer, run domain.BatchRun, runID string, format string) error {
	switch format {
	case "json":
		return writeJSON(w, map[string]any{
			"run_id": runID,
			"run":    run,
		})
	case "pretty", "":
		printPrettyRun(w, run, runID)
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
	}
}

func printPrettyRun(w io.Writer, run domain.BatchRun, runID string) {
	total := run.EndedAt.Sub(run.StartedAt)
	if run.StartedAt.IsZero() || run.EndedAt.IsZero() {
		total = 0
	}

	fmt.Fprintf(w, "Batch:    %s (%s)\n", run.BatchName, filepath.Base(run.BatchPath))
	fmt.Fprintf(w, "Source:   %s\n", run.Source)
	fmt.Fprintf(w, "Started:  %s\n", run.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Duration: %s\n", total)
	if runID != "" {
		fmt.Fprintf(w, "Run ID:   %s\n", runID)
	}
	fmt.Fprintln(w)

	for _, r := range run.Results {
		mark := "OK"
		switch {
		case r.Failed():
			mark = "FAIL"
		case r.Status == domain.StatusAmbiguousResolved || r.Status == domain.StatusNonexistentResolved:
			mark = "NOTE"
		}
		fmt.Fprintf(w, "- [%s] %s (%s, %s)\n", mark, r.Name, r.Kind, r.Zone)

		if r.Error != nil {
			fmt.Fprintf(w, "  error: %s (%s)\n", r.Error.Message, r.Error.Kind)
			continue
		}
		if r.Civil != nil && r.Instant != nil {
			fmt.Fprintf(w, "  %s  <->  %s  (UTC%s)\n", r.Civil, r.Instant, r.Offset)
		}
		fmt.Fprintf(w, "  %s\n", r.Display)
		if r.Status != "" && r.Status != domain.StatusConverged {
			fmt.Fprintf(w, "  status: %s", r.Status)
			if r.Alternate != nil {
				fmt.Fprintf(w, " (other occurrence %s)", r.Alternate)
			}
			fmt.Fprintln(w)
		}
	}

	fmt.Fprintf(w, "\n%d entr%s, %d failed\n", len(run.Results), plural(len(run.Results), "y", "ies"), run.Failures())
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
