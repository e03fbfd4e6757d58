package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dtroode/certdash/internal/app"
	"github.com/dtroode/certdash/internal/model"
)

const dateLayout = "2006-01-02"

var (
	deadlineTitle    string
	deadlineDate     string
	deadlinePriority string
	deadlineType     string
	deadlineRelated  string
)

var deadlinesCmd = &cobra.Command{
	Use:   "deadlines",
	Short: "List deadlines, soonest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, true, func(ctx context.Context, a *app.App) error {
			a.Deadlines.Load(ctx)
			st := a.Deadlines.State()
			if err := stateError(st.Error); err != nil {
				return err
			}
			printDeadlines(cmd.OutOrStdout(), st.Deadlines)
			return nil
		})
	},
}

var deadlineAddCmd = &cobra.Command{
	Use:     "add",
	Short:   "Add a deadline",
	Example: `  certdash deadlines add --title "Submit experience log" --date 2025-06-30 --priority high --type experience`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := time.Parse(dateLayout, deadlineDate)
		if err != nil {
			return fmt.Errorf("invalid date %q, want YYYY-MM-DD", deadlineDate)
		}

		nd := model.NewDeadline{
			Title:    deadlineTitle,
			Date:     date,
			Priority: model.DeadlinePriority(deadlinePriority),
			Type:     model.DeadlineType(deadlineType),
		}
		if cmd.Flags().Changed("related") {
			nd.RelatedID = &deadlineRelated
		}

		return withApp(cmd, true, func(ctx context.Context, a *app.App) error {
			a.Deadlines.Add(ctx, nd)
			if err := stateError(a.Deadlines.State().Error); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %q due %s.\n", nd.Title, date.Format(dateLayout))
			return nil
		})
	},
}

var deadlineMoveCmd = &cobra.Command{
	Use:   "move <id> <YYYY-MM-DD>",
	Short: "Change a deadline's date",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid deadline id %q", args[0])
		}
		date, err := time.Parse(dateLayout, args[1])
		if err != nil {
			return fmt.Errorf("invalid date %q, want YYYY-MM-DD", args[1])
		}

		return withApp(cmd, true, func(ctx context.Context, a *app.App) error {
			a.Deadlines.Update(ctx, id, model.DeadlineUpdate{Date: &date})
			if err := stateError(a.Deadlines.State().Error); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved to %s.\n", date.Format(dateLayout))
			return nil
		})
	},
}

var deadlineRemoveCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"remove"},
	Short:   "Delete a deadline",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid deadline id %q", args[0])
		}

		return withApp(cmd, true, func(ctx context.Context, a *app.App) error {
			a.Deadlines.Delete(ctx, id)
			if err := stateError(a.Deadlines.State().Error); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted.")
			return nil
		})
	},
}

func init() {
	deadlineAddCmd.Flags().StringVarP(&deadlineTitle, "title", "t", "", "Title")
	deadlineAddCmd.Flags().StringVarP(&deadlineDate, "date", "d", "", "Due date, YYYY-MM-DD")
	deadlineAddCmd.Flags().StringVarP(&deadlinePriority, "priority", "p", string(model.PriorityMedium), "high, medium or low")
	deadlineAddCmd.Flags().StringVar(&deadlineType, "type", string(model.DeadlineOther), "skill, experience, approval, document or other")
	deadlineAddCmd.Flags().StringVar(&deadlineRelated, "related", "", "Id of the related item")
	_ = deadlineAddCmd.MarkFlagRequired("title")
	_ = deadlineAddCmd.MarkFlagRequired("date")

	deadlinesCmd.AddCommand(deadlineAddCmd, deadlineMoveCmd, deadlineRemoveCmd)
}
