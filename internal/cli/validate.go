package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/wallclock/internal/usecase"
)

func validateCmd(g *globalOpts) *cobra.Command {
	var batch string

	c := &cobra.Command{
		Use:   "validate",
		Short: "Check a batch file and its zones without converting anything",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(g, false)
			if err != nil {
				return err
			}

			batchPath, err := resolveBatchPath(ws, batch)
			if err != nil {
				return err
			}

			uc := usecase.NewValidateBatch(ws.batches, ws.source,
				usecase.WithValidateDefaultZone(ws.cfg.Defaults.Zone))
			b, err := uc.Execute(cmd.Context(), batchPath)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "OK: %s (%d entr%s)\n", b.Name, len(b.Entries), plural(len(b.Entries), "y", "ies"))
			return nil
		},
	}

	c.Flags().StringVarP(&batch, "batch", "b", "", "Batch name or path (required)")
	_ = c.MarkFlagRequired("batch")
	return c
}
