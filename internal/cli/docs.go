package cli

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dtroode/certdash/internal/app"
	"github.com/dtroode/certdash/internal/model"
)

var (
	docTitle       string
	docDescription string
	docCategory    string
	docStatus      string
	docFile        string
	docSkill       int
	docURLTTL      time.Duration
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "List supporting documents",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, true, func(ctx context.Context, a *app.App) error {
			a.Documents.Load(ctx)
			st := a.Documents.State()
			if err := stateError(st.Error); err != nil {
				return err
			}
			printDocuments(cmd.OutOrStdout(), st.Documents)
			return nil
		})
	},
}

var docAddCmd = &cobra.Command{
	Use:     "add",
	Short:   "Add a document, optionally uploading a file",
	Example: `  certdash docs add --title "Transcript" --category education --file ./transcript.pdf`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		doc := model.NewDocument{
			Title:    docTitle,
			Category: docCategory,
			Status:   model.DocumentStatus(docStatus),
		}
		if cmd.Flags().Changed("description") {
			doc.Description = &docDescription
		}
		if cmd.Flags().Changed("skill") {
			doc.RelatedSkillID = &docSkill
		}

		var upload *model.Upload
		if docFile != "" {
			f, err := os.Open(docFile)
			if err != nil {
				return fmt.Errorf("failed to open file: %w", err)
			}
			defer f.Close()

			info, err := f.Stat()
			if err != nil {
				return fmt.Errorf("failed to stat file: %w", err)
			}
			upload = &model.Upload{
				Name:        filepath.Base(docFile),
				ContentType: mime.TypeByExtension(filepath.Ext(docFile)),
				Size:        info.Size(),
				Reader:      f,
			}
		}

		return withApp(cmd, true, func(ctx context.Context, a *app.App) error {
			if err := a.Documents.Add(ctx, doc, upload); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %q.\n", docTitle)
			if msg := a.Documents.State().Error; msg != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: document list not refreshed: %s\n", msg)
			}
			return nil
		})
	},
}

var docStatusCmd = &cobra.Command{
	Use:   "status <id> <draft|submitted|approved>",
	Short: "Change a document's review status",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid document id %q", args[0])
		}
		status := model.DocumentStatus(args[1])

		return withApp(cmd, true, func(ctx context.Context, a *app.App) error {
			a.Documents.Load(ctx)
			a.Documents.Update(ctx, id, model.DocumentUpdate{Status: &status})
			if err := stateError(a.Documents.State().Error); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Document is now %s.\n", status)
			return nil
		})
	},
}

var docURLCmd = &cobra.Command{
	Use:   "url <id>",
	Short: "Print a temporary download link for a document's file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid document id %q", args[0])
		}

		return withApp(cmd, true, func(ctx context.Context, a *app.App) error {
			a.Documents.Load(ctx)
			if err := stateError(a.Documents.State().Error); err != nil {
				return err
			}
			url, err := a.Documents.SignedURL(ctx, id, docURLTTL)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		})
	},
}

var docRemoveCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"remove"},
	Short:   "Delete a document and its file",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid document id %q", args[0])
		}

		return withApp(cmd, true, func(ctx context.Context, a *app.App) error {
			a.Documents.Load(ctx)
			a.Documents.Delete(ctx, id)
			if err := stateError(a.Documents.State().Error); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted.")
			return nil
		})
	},
}

func init() {
	docAddCmd.Flags().StringVarP(&docTitle, "title", "t", "", "Title")
	docAddCmd.Flags().StringVarP(&docDescription, "description", "d", "", "Description")
	docAddCmd.Flags().StringVarP(&docCategory, "category", "c", "general", "Category")
	docAddCmd.Flags().StringVar(&docStatus, "status", string(model.DocumentDraft), "draft, submitted or approved")
	docAddCmd.Flags().StringVarP(&docFile, "file", "f", "", "File to upload")
	docAddCmd.Flags().IntVar(&docSkill, "skill", 0, "Related skill id")
	_ = docAddCmd.MarkFlagRequired("title")

	docURLCmd.Flags().DurationVar(&docURLTTL, "ttl", time.Hour, "Link lifetime")

	docsCmd.AddCommand(docAddCmd, docStatusCmd, docURLCmd, docRemoveCmd)
}
