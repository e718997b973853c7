package cli

import (
	"fmt"
	"os"

	"github.com/JonMunkholm/pmis/internal/core"
	"github.com/JonMunkholm/pmis/internal/importer"
	"github.com/spf13/cobra"
)

func importCmd(g *globals) *cobra.Command {
	var appendRows bool
	cmd := &cobra.Command{
		Use:   "import <table> <file.csv>",
		Short: "Load a CSV export into a table",
		Long: `Load a CSV export into one table. The header row may sit below a few
title lines and may use the Arabic column names. Rows with a missing
identifier, an unreadable number or an unreadable date are skipped and
listed. The table is replaced unless --append is given.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer f.Close()

			ctx := cmd.Context()
			app, err := g.open(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			res, err := importer.Import(ctx, app.Service, args[0], f, appendRows)
			out := cmd.OutOrStdout()
			for _, fl := range res.Failed {
				fmt.Fprintf(out, "  %s line %d: %s\n", warnMark, fl.Line, fl.Reason)
			}
			if err != nil {
				if core.IsUserFacing(err) {
					fmt.Fprintf(out, "  %s %s\n", failMark, core.FormatUserError(err))
				}
				return err
			}
			verb := "replaced"
			if appendRows {
				verb = "appended to"
			}
			fmt.Fprintf(out, "  %s %d rows %s %s (%s)\n", okMark, res.Imported, verb, res.Table, res.Backend)
			return nil
		},
	}
	cmd.Flags().BoolVar(&appendRows, "append", false, "append rows instead of replacing the table")
	return cmd
}
