package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"quarry/internal/hir"
)

var itemsCmd = &cobra.Command{
	Use:   "items FILE",
	Short: "Print a file's item index",
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
		tree, err := ws.DB.SyntaxTree(ctx, fileID)
		if err != nil {
			return err
		}
		items, err := ws.DB.FileItems(ctx, fileID)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		kindColor := color.New(color.FgGreen)
		for i := 1; i <= items.Len(); i++ {
			id := hir.ItemID(i)
			ptr := items.SyntaxPtr(id)
			node := items.Resolve(id, tree)
			name := ""
			if nameNode := node.ChildByFieldName("name"); nameNode != nil {
				name = tree.Text(nameNode)
			}
			fmt.Fprintf(out, "#%-3d %s %s %s\n", i, kindColor.Sprint(ptr.Kind), ptr.Range, name)
		}
		printTimings(cmd, timer)
		return nil
	},
}
