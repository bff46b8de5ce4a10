package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/chronotrace/timemaster/internal/facade"
)

var (
	treePath     string
	treeMaxDepth int
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "List the known project paths",
	Long: `tree lists the forest of project-path roots when --path is empty,
or the subtree rooted at --path otherwise.`,
	Example: `  timemaster tree
  timemaster tree --path=study
  timemaster tree --path=study --max-depth=1`,
	RunE: func(cmd *cobra.Command, args []string) error {
		const op = "timemaster tree"
		out := app.Facade.RunTreeQuery(cmd.Context(), facade.TreeQueryRequest{
			Path:     treePath,
			MaxDepth: treeMaxDepth,
		})
		if !out.OK {
			return ackError(op, out.ErrorKind, out.ErrorMessage)
		}

		if treePath == "" {
			if len(out.Roots) == 0 {
				infoColor.Println("no projects recorded yet")
				return nil
			}
			for _, r := range out.Roots {
				fmt.Println(r)
			}
			return nil
		}

		if !out.Found {
			warningColor.Printf("no project found at path %q\n", treePath)
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Path", "Depth"})
		table.SetBorder(false)
		table.SetHeaderColor(
			tablewriter.Colors{tablewriter.FgMagentaColor, tablewriter.Bold},
			tablewriter.Colors{tablewriter.FgMagentaColor, tablewriter.Bold},
		)
		for _, n := range out.Nodes {
			indent := strings.Repeat("  ", n.Depth)
			table.Append([]string{indent + n.Path, fmt.Sprintf("%d", n.Depth)})
		}
		table.Render()
		return nil
	},
}

func init() {
	treeCmd.Flags().StringVar(&treePath, "path", "", "project path to list the subtree of; empty lists roots")
	treeCmd.Flags().IntVar(&treeMaxDepth, "max-depth", 0, "maximum subtree depth to descend (0 means unbounded)")
}
