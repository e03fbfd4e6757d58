package cli

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dtroode/certdash/internal/app"
	"github.com/dtroode/certdash/internal/catalog"
	"github.com/dtroode/certdash/internal/model"
	"github.com/dtroode/certdash/internal/store"
)

var (
	saoTitle   string
	saoContent string
	saoSkills  []string
)

var saosCmd = &cobra.Command{
	Use:   "saos",
	Short: "List Situation-Action-Outcome write-ups",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, true, func(ctx context.Context, a *app.App) error {
			a.SAOs.Load(ctx)
			st := a.SAOs.State()
			if err := stateError(st.Error); err != nil {
				return err
			}
			printSAOs(cmd.OutOrStdout(), st.SAOs)
			return nil
		})
	},
}

var saoAddCmd = &cobra.Command{
	Use:     "add",
	Short:   "Write a new SAO",
	Example: `  certdash saos add --title "Bridge Inspection" --content "..." --skill 1,6`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		skills, err := lookupSkills(saoSkills)
		if err != nil {
			return err
		}

		return withApp(cmd, true, func(ctx context.Context, a *app.App) error {
			a.SAOs.Create(ctx, saoTitle, saoContent, skills)
			if err := stateError(a.SAOs.State().Error); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %q.\n", saoTitle)
			return nil
		})
	},
}

var saoEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Rewrite an SAO; --skill replaces all linked skills",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid SAO id %q", args[0])
		}

		return withApp(cmd, true, func(ctx context.Context, a *app.App) error {
			a.SAOs.Load(ctx)
			current, err := findSAO(a.SAOs, id)
			if err != nil {
				return err
			}

			title, content, skills := current.Title, current.Content, current.Skills
			if cmd.Flags().Changed("title") {
				title = saoTitle
			}
			if cmd.Flags().Changed("content") {
				content = saoContent
			}
			if cmd.Flags().Changed("skill") {
				if skills, err = lookupSkills(saoSkills); err != nil {
					return err
				}
			}

			a.SAOs.Update(ctx, id, title, content, skills)
			if err := stateError(a.SAOs.State().Error); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %q.\n", title)
			return nil
		})
	},
}

var saoRemoveCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"remove"},
	Short:   "Delete an SAO",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid SAO id %q", args[0])
		}

		return withApp(cmd, true, func(ctx context.Context, a *app.App) error {
			a.SAOs.Delete(ctx, id)
			if err := stateError(a.SAOs.State().Error); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted.")
			return nil
		})
	},
}

func init() {
	saoAddCmd.Flags().StringVarP(&saoTitle, "title", "t", "", "Title")
	saoAddCmd.Flags().StringVarP(&saoContent, "content", "c", "", "Situation, action and outcome")
	saoAddCmd.Flags().StringSliceVarP(&saoSkills, "skill", "s", nil, "Linked skill ids")
	_ = saoAddCmd.MarkFlagRequired("title")

	saoEditCmd.Flags().StringVarP(&saoTitle, "title", "t", "", "New title")
	saoEditCmd.Flags().StringVarP(&saoContent, "content", "c", "", "New content")
	saoEditCmd.Flags().StringSliceVarP(&saoSkills, "skill", "s", nil, "Linked skill ids")

	saosCmd.AddCommand(saoAddCmd, saoEditCmd, saoRemoveCmd)
}

// lookupSkills resolves skill ids against the catalog.
func lookupSkills(values []string) ([]model.Skill, error) {
	ids, err := parseSkillIDs(values)
	if err != nil {
		return nil, err
	}

	skills := make([]model.Skill, 0, len(ids))
	for _, id := range ids {
		sk, ok := catalog.Lookup(id)
		if !ok {
			return nil, fmt.Errorf("unknown skill %d", id)
		}
		skills = append(skills, sk)
	}
	return skills, nil
}

func findSAO(saos *store.SAOs, id uuid.UUID) (model.SAO, error) {
	st := saos.State()
	if err := stateError(st.Error); err != nil {
		return model.SAO{}, err
	}
	for _, s := range st.SAOs {
		if s.ID == id {
			return s, nil
		}
	}
	return model.SAO{}, fmt.Errorf("SAO %s: %w", id, model.ErrNotFound)
}
