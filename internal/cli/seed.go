package cli

import (
	"fmt"

	"github.com/JonMunkholm/pmis/internal/application"
	"github.com/JonMunkholm/pmis/internal/seed"
	"github.com/spf13/cobra"
)

func seedCmd(g *globals) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write the demo project data",
		Long: `Write the demo project (tasks, dropdown lists, a risk, a document and a
meeting log) to the configured storage, replacing those tables.
Use --dry-run to build the data in memory without writing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var app *application.App
			if dryRun {
				if _, err := g.config(); err != nil {
					return err
				}
				app = application.NewDryRun()
			} else {
				var err error
				if app, err = g.open(ctx); err != nil {
					return err
				}
			}
			defer app.Close()

			results, err := seed.Write(ctx, app.Service, seed.Sheets(app.Service.Now()))
			out := cmd.OutOrStdout()
			for _, r := range results {
				mark := okMark
				if r.FellBack {
					mark = warnMark
				}
				fmt.Fprintf(out, "  %s %-24s %3d rows  (%s)\n", mark, r.Name, r.Rows, r.Backend)
			}
			if err != nil {
				fmt.Fprintf(out, "  %s %v\n", failMark, err)
				return err
			}
			if dryRun {
				fmt.Fprintln(out, "dry run: nothing was written")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "build the data without writing")
	return cmd
}
