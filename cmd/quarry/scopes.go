package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"quarry/internal/hir"
)

var scopesCmd = &cobra.Command{
	Use:   "scopes FILE NAME",
	Short: "Dump the lexical scope tree of a function",
	Args:  cobra.ExactArgs(2),
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
		def, ok, err := ws.DB.LookupFunction(ctx, fileID, args[1])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no function %q in %s", args[1], args[0])
		}
		scopes, err := ws.DB.FnScopes(ctx, def)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for i := 1; i <= scopes.Len(); i++ {
			id := hir.ScopeID(i)
			parent := scopes.Parent(id)
			if parent.IsValid() {
				fmt.Fprintf(out, "scope %d (parent %d):", i, parent)
			} else {
				fmt.Fprintf(out, "scope %d (root):", i)
			}
			entries := scopes.Entries(id)
			if len(entries) == 0 {
				fmt.Fprint(out, " no bindings")
			}
			for _, entry := range entries {
				fmt.Fprintf(out, " %s", entry.Name)
			}
			fmt.Fprintln(out)
		}
		printTimings(cmd, timer)
		return nil
	},
}
