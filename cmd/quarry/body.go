package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"quarry/internal/hir"
)

var bodyCmd = &cobra.Command{
	Use:   "body FILE NAME",
	Short: "Lower a function body and dump its IR",
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
		mapping, err := ws.DB.BodyWithSourceMap(ctx, def)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		body := mapping.Body()
		fmt.Fprintf(out, "fn %s: %d exprs, %d pats\n", args[1], body.ExprCount(), body.PatCount())
		hir.DumpBody(out, body)
		printTimings(cmd, timer)
		return nil
	},
}
