package main

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"quarry/internal/crates"
	"quarry/internal/workspace"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Print the workspace crate graph",
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, timer, err := openWorkspace(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		names := make(map[crates.CrateID]string, len(ws.CrateByName))
		for name, id := range ws.CrateByName {
			names[id] = name
		}
		ordered := make([]string, 0, len(ws.CrateByName))
		for name := range ws.CrateByName {
			ordered = append(ordered, name)
		}
		sort.Strings(ordered)

		crateColor := color.New(color.FgCyan, color.Bold)
		graph := ws.DB.CrateGraph()
		for _, name := range ordered {
			id := ws.CrateByName[name]
			rootPath := ""
			for _, crate := range ws.Manifest.Crates {
				if crate.Name == name {
					rootPath = crate.Root
				}
			}
			fmt.Fprintf(out, "%s (%s)\n", crateColor.Sprint(name), rootPath)
			for _, dep := range graph.Dependencies(id) {
				fmt.Fprintf(out, "  -> %s as %q\n", names[dep.CrateID], dep.Name)
			}
		}

		reportChanges(cmd, ws)
		printTimings(cmd, timer)
		return nil
	},
}

// reportChanges diffs the workspace against the previous run's snapshot
// and persists the new one. Snapshot trouble is reported, never fatal.
func reportChanges(cmd *cobra.Command, ws *workspace.Workspace) {
	out := cmd.OutOrStdout()
	snap := workspace.TakeSnapshot(ws)
	prev, err := workspace.LoadSnapshot(ws)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: snapshot unavailable: %v\n", err)
	} else if prev == nil {
		fmt.Fprintf(out, "%d files (no previous snapshot)\n", len(snap.Files))
	} else {
		changed := snap.Diff(prev)
		if len(changed) == 0 {
			fmt.Fprintf(out, "%d files, all unchanged since last run\n", len(snap.Files))
		} else {
			fmt.Fprintf(out, "%d files, %d changed since last run\n", len(snap.Files), len(changed))
		}
	}
	if err := workspace.SaveSnapshot(ws, snap); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: saving snapshot: %v\n", err)
	}
}
