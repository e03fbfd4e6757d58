package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dtroode/certdash/internal/app"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search competencies and SAOs",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")

		return withApp(cmd, true, func(ctx context.Context, a *app.App) error {
			a.Search.Search(ctx, query)
			st := a.Search.State()
			if err := stateError(st.Error); err != nil {
				return err
			}
			printSearchResults(cmd.OutOrStdout(), query, st.Results)
			return nil
		})
	},
}
