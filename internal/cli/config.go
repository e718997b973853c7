package cli

import (
	"fmt"
	"strings"

	"github.com/JonMunkholm/pmis/internal/core"
	"github.com/spf13/cobra"
)

func configCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "List or add dropdown values",
		Long: `List or add entries of the Config table, which feeds the dashboard's
selection lists (Team_Member, Task_Category, ...).`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list <type>",
		Short: "List the values of one type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := g.open(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			values := app.Service.GetConfigList(ctx, args[0])
			if len(values) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "no values for %s\n", args[0])
				return nil
			}
			for _, v := range values {
				fmt.Fprintln(cmd.OutOrStdout(), v)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <type> <value>",
		Short: "Append one value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, value := strings.TrimSpace(args[0]), strings.TrimSpace(args[1])
			if typ == "" || value == "" {
				return fmt.Errorf("type and value are required: %w", core.ErrInvalidInput)
			}

			ctx := cmd.Context()
			app, err := g.open(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			if !app.Service.WriteConfig(ctx, typ, value) {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s %s = %s\n", failMark, typ, value)
				return fmt.Errorf("save config: %w", core.ErrWriteFailed)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  %s %s = %s\n", okMark, typ, value)
			return nil
		},
	})
	return cmd
}
