package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"quarry/internal/analysis"
	"quarry/internal/memo"
	"quarry/internal/observ"
	"quarry/internal/source"
	"quarry/internal/workspace"
)

// setupColor applies the --color flag to the global color mode.
func setupColor(cmd *cobra.Command) error {
	mode, err := cmd.Flags().GetString("color")
	if err != nil {
		return err
	}
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
		color.NoColor = !isTerminal(os.Stdout)
	default:
		return fmt.Errorf("invalid --color value %q (must be auto, on or off)", mode)
	}
	return nil
}

// openWorkspace loads the workspace around the current directory into a
// fresh database. The returned timer is nil unless --timings was given.
func openWorkspace(cmd *cobra.Command) (*workspace.Workspace, *observ.Timer, error) {
	if err := setupColor(cmd); err != nil {
		return nil, nil, err
	}
	timings, err := cmd.Flags().GetBool("timings")
	if err != nil {
		return nil, nil, err
	}

	db := analysis.NewDB(memo.NewTable())
	var timer *observ.Timer
	if timings {
		timer = observ.NewTimer()
		db.SetTimer(timer)
	}

	var phase int
	if timer != nil {
		phase = timer.Begin("load-workspace")
	}
	ws, err := workspace.Load(cmd.Context(), db, ".")
	if timer != nil {
		timer.End(phase, "")
	}
	if err != nil {
		return nil, nil, err
	}
	return ws, timer, nil
}

func printTimings(cmd *cobra.Command, timer *observ.Timer) {
	if timer != nil {
		fmt.Fprint(cmd.OutOrStdout(), timer.Summary())
	}
}

// resolveFileArg maps a path argument to a loaded file, accepting both
// workspace-relative and cwd-relative forms.
func resolveFileArg(ws *workspace.Workspace, arg string) (source.FileID, error) {
	if id, ok := ws.FileByPath(arg); ok {
		return id, nil
	}
	abs, err := filepath.Abs(arg)
	if err == nil {
		if rel, relErr := filepath.Rel(ws.Dir, abs); relErr == nil {
			if id, ok := ws.FileByPath(rel); ok {
				return id, nil
			}
		}
	}
	return 0, fmt.Errorf("file %q is not part of the workspace", arg)
}
