package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dtroode/certdash/internal/app"
	"github.com/dtroode/certdash/internal/model"
)

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "List competencies with their ranks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, true, func(ctx context.Context, a *app.App) error {
			a.Skills.LoadUserSkills(ctx)
			st := a.Skills.State()
			if err := stateError(st.Error); err != nil {
				return err
			}
			printCategories(cmd.OutOrStdout(), st.Categories)
			return nil
		})
	},
}

var rankCmd = &cobra.Command{
	Use:   "rank <skill-id> <rank>",
	Short: "Set the rank of a competency (0 clears it)",
	Example: `  certdash skills rank 4 3
  certdash skills rank 4 0`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		skillID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid skill id %q", args[0])
		}
		rank, err := strconv.Atoi(args[1])
		if err != nil || rank < 0 {
			return fmt.Errorf("invalid rank %q", args[1])
		}

		return withApp(cmd, true, func(ctx context.Context, a *app.App) error {
			a.Skills.LoadUserSkills(ctx)
			st := a.Skills.State()
			if err := stateError(st.Error); err != nil {
				return err
			}

			categoryIndex, ok := categoryOf(st.Categories, skillID)
			if !ok {
				return fmt.Errorf("unknown skill %d", skillID)
			}
			if err := <-a.Skills.UpdateSkillRank(ctx, categoryIndex, skillID, rank); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Skill %d %s.\n", skillID, rankVerb(rank))
			return nil
		})
	},
}

func init() {
	skillsCmd.AddCommand(rankCmd)
}

// categoryOf returns the index of the category holding skillID.
func categoryOf(categories []model.Category, skillID int) (int, bool) {
	for i, c := range categories {
		for _, sk := range c.Skills {
			if sk.ID == skillID {
				return i, true
			}
		}
	}
	return 0, false
}

func rankVerb(rank int) string {
	if rank == 0 {
		return "cleared"
	}
	return "ranked " + strconv.Itoa(rank)
}

// parseSkillIDs accepts "1,2,3" as well as repeated values.
func parseSkillIDs(values []string) ([]int, error) {
	var ids []int
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("invalid skill id %q", part)
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}
