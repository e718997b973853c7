package cli

import (
	"fmt"

	"github.com/JonMunkholm/pmis/internal/schema"
	"github.com/JonMunkholm/pmis/internal/store"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func tablesCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "Show each table's row count and serving backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := g.open(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			out := cmd.OutOrStdout()
			conn := app.Service.Connection()
			fmt.Fprintf(out, "primary: %s", conn.Primary)
			if conn.SheetURL != "" {
				fmt.Fprintf(out, " (%s)", conn.SheetURL)
			}
			if conn.WorkbookPath != "" {
				fmt.Fprintf(out, "\nworkbook: %s", conn.WorkbookPath)
			}
			fmt.Fprintln(out)

			for _, spec := range schema.All() {
				res := app.Service.LoadTableResult(ctx, spec.Name)
				switch res.Status {
				case store.StatusOK:
					fmt.Fprintf(out, "  %s %-24s %4d rows  (%s)\n", okMark, spec.Name, res.Table.Len(), res.Backend)
				case store.StatusAbsent:
					fmt.Fprintf(out, "  %s %-24s %s\n", warnMark, spec.Name, color.New(color.FgYellow).Sprint("MISSING"))
				default:
					fmt.Fprintf(out, "  %s %-24s %v\n", failMark, spec.Name, res.Err)
				}
			}
			return nil
		},
	}
}
