package cli

import (
	"fmt"

	"github.com/JonMunkholm/pmis/internal/core"
	"github.com/spf13/cobra"
)

func statsCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "stats [project-id]",
		Short: "Show quantity-based progress",
		Long: `Show quantity-based progress for one project, or for every registered
project when no project ID is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := g.open(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				printStats(cmd, args[0], "", app.Service.GetProjectStats(ctx, args[0]))
				return nil
			}

			projects := app.Service.Projects(ctx)
			if len(projects) == 0 {
				fmt.Fprintln(out, "no projects registered")
				return nil
			}
			for _, p := range projects {
				printStats(cmd, p.ID, p.Name, app.Service.GetProjectStats(ctx, p.ID))
			}
			return nil
		},
	}
}

func printStats(cmd *cobra.Command, id, name string, st core.ProjectStats) {
	mark := warnMark
	if st.Total > 0 && st.Remaining == 0 {
		mark = okMark
	}
	label := id
	if name != "" {
		label = id + " " + name
	}
	fmt.Fprintf(cmd.OutOrStdout(), "  %s %s: %.1f%% (%d remaining of %d)\n", mark, label, st.Progress, st.Remaining, st.Total)
}
