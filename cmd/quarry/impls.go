package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"quarry/internal/hir"
)

var implsCmd = &cobra.Command{
	Use:   "impls FILE",
	Short: "Print the impl blocks of a file's module",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, timer, err := openWorkspace(cmd)
		if err != nil {
			return err
		}
		fileID, err := resolveFileArg(ws, args[0])
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		crate, module, ok, err := ws.DB.ModuleForFile(ctx, fileID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("file %q is not a module of any crate", args[0])
		}
		impls, err := ws.DB.ImplsInModule(ctx, crate, module)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if impls.Len() == 0 {
			fmt.Fprintln(out, "no impl blocks")
		}
		impls.ForEach(func(id hir.ImplID, data *hir.ImplData) {
			if data.TargetTrait != nil {
				fmt.Fprintf(out, "impl %s for %s\n", data.TargetTrait, data.TargetType)
			} else {
				fmt.Fprintf(out, "impl %s\n", data.TargetType)
			}
			for _, item := range data.Items {
				loc := ws.DB.Defs().Loc(item.Def)
				fmt.Fprintf(out, "  %s def=%d at %s\n", item.Kind, item.Def, loc.SourceItemID)
			}
		})
		printTimings(cmd, timer)
		return nil
	},
}
