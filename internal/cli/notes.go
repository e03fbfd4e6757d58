package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dtroode/certdash/internal/model"
	"github.com/dtroode/certdash/internal/store"
)

var (
	noteName     string
	noteCategory string
	noteContent  string
	noteFile     string
)

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "List notes kept on this device",
	Long: `List notes kept on this device.

Notes never leave this machine and survive sign-out.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLocal(func(docs *store.LocalDocuments) error {
			printLocalDocuments(cmd.OutOrStdout(), docs.List())
			return nil
		})
	},
}

var noteAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Save a note from --content or --file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := noteText(cmd)
		if err != nil {
			return err
		}
		if content == nil {
			return errors.New("one of --content or --file is required")
		}

		return withLocal(func(docs *store.LocalDocuments) error {
			doc, err := docs.Add(noteName, *content, noteCategory)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%s).\n", doc.ID, doc.Size)
			return nil
		})
	},
}

var noteEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change a note's name, category or content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var update model.LocalDocumentUpdate
		if cmd.Flags().Changed("name") {
			update.Name = &noteName
		}
		if cmd.Flags().Changed("category") {
			update.Category = &noteCategory
		}
		content, err := noteText(cmd)
		if err != nil {
			return err
		}
		update.Content = content

		return withLocal(func(docs *store.LocalDocuments) error {
			if err := docs.Update(args[0], update); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Updated.")
			return nil
		})
	},
}

var noteShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLocal(func(docs *store.LocalDocuments) error {
			doc, ok := docs.Get(args[0])
			if !ok {
				return fmt.Errorf("note %s: %w", args[0], model.ErrNotFound)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, headerStyle.Render(doc.Name))
			fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("%s · %s · %s", doc.Category, doc.Size, doc.CreatedAt.Format("2006-01-02 15:04"))))
			fmt.Fprintln(w)
			fmt.Fprintln(w, doc.Content)
			return nil
		})
	},
}

var noteRemoveCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"remove"},
	Short:   "Delete a note",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLocal(func(docs *store.LocalDocuments) error {
			if err := docs.Delete(args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted.")
			return nil
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{noteAddCmd, noteEditCmd} {
		c.Flags().StringVarP(&noteName, "name", "n", "", "Name")
		c.Flags().StringVarP(&noteCategory, "category", "c", "general", "Category")
		c.Flags().StringVar(&noteContent, "content", "", "Text of the note")
		c.Flags().StringVarP(&noteFile, "file", "f", "", "Read the text from a file")
		c.MarkFlagsMutuallyExclusive("content", "file")
	}
	_ = noteAddCmd.MarkFlagRequired("name")

	notesCmd.AddCommand(noteAddCmd, noteEditCmd, noteShowCmd, noteRemoveCmd)
}

// noteText returns the content given by --content or --file, or nil when neither is set.
func noteText(cmd *cobra.Command) (*string, error) {
	switch {
	case cmd.Flags().Changed("content"):
		return &noteContent, nil
	case cmd.Flags().Changed("file"):
		data, err := os.ReadFile(noteFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read note file: %w", err)
		}
		s := string(data)
		return &s, nil
	}
	return nil, nil
}
