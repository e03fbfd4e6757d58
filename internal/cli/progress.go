package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/dtroode/certdash/internal/app"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show overall certification progress",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, true, func(ctx context.Context, a *app.App) error {
			a.Progress.UpdateProgress(ctx)

			snapshot := a.Progress.Snapshot()
			if snapshot.OverallProgress == nil {
				if err := stateError(a.Skills.State().Error); err != nil {
					return err
				}
				return errors.New("progress is unavailable, see the log for details")
			}

			printProgress(cmd.OutOrStdout(), snapshot.ProgressSnapshot)
			return nil
		})
	},
}
