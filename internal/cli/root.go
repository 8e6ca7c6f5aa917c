package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/wallclock/internal/infra/fsworkspace"
	"github.com/aalvaropc/wallclock/internal/infra/logger"
	"github.com/aalvaropc/wallclock/internal/ui/tui"
)

func Execute() {
	g := &globalOpts{}
	cmd := newRootCmd(g)
	err := cmd.Execute()
	g.closeLog()
	if err != nil {
		reportError(os.Stderr, err, g.debug)
		os.Exit(1)
	}
}

func newRootCmd(g *globalOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "wallclock",
		Short:         "wallclock: civil time <-> absolute time across zones",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			g.openLog()
			return nil
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(g, false)
			if err != nil {
				return err
			}

			return tui.Run(tui.Deps{
				Source:               ws.source,
				SourceName:           ws.sourceName,
				Converter:            ws.converter(""),
				Renderer:             ws.renderer(),
				Zones:                ws.cfg.Clock.Zones,
				WorkspaceRoot:        ws.root,
				WorkspaceInitializer: fsworkspace.NewInitializer(),
				Logger:               logger.L(),
				Debug:                g.debug,
			})
		},
	}

	pf := cmd.PersistentFlags()
	pf.BoolVar(&g.debug, "debug", false, "enable verbose logging to .wallclock/logs/wallclock.log")
	pf.StringVarP(&g.workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	pf.Var(&g.source, "source", "Zone rule source: system|tzif|rules|chain (overrides wallclock.yaml)")
	pf.StringVar(&g.zoneinfo, "zoneinfo", "", "Zoneinfo directory for the tzif source")

	cmd.AddCommand(
		resolveCmd(g),
		renderCmd(g),
		zonesCmd(g),
		runCmd(g),
		validateCmd(g),
		extractCmd(g),
		initCmd(),
		versionCmd(),
	)
	return cmd
}

// openLog sends logs to the workspace when there is one. Outside a workspace
// logging stays off so no .wallclock directory appears in random places.
func (g *globalOpts) openLog() {
	root := g.workspace
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return
		}
		found, err := locator.FindRoot(wd)
		if err != nil {
			return
		}
		root = found
	}
	root, _ = filepath.Abs(root)

	cleanup, err := logger.Setup(logger.Config{Root: root, Debug: g.debug})
	if err == nil {
		g.cleanup = cleanup
	}
}

func (g *globalOpts) closeLog() {
	if g.cleanup != nil {
		_ = g.cleanup()
		g.cleanup = nil
	}
}

func reportError(w io.Writer, err error, debug bool) {
	logger.L().Error("command.failed", "err", err)
	fmt.Fprintf(w, "Error: %s\n", userMessage(err))
	if debug {
		fmt.Fprintf(w, "  %v\n", err)
	}
}
