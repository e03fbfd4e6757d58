// Package cli provides the certdash command-line client.
package cli

import (
	"context"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "certdash",
	Short: "Certification progress dashboard",
	Long: `Certification progress dashboard

Track competency ranks, SAO write-ups, supporting documents and deadlines
for your engineering certification, and keep private notes on this device.

Sign in once with 'certdash signin'; the session is resumed by later commands
until 'certdash signout'.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(signinCmd)
	rootCmd.AddCommand(signoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(skillsCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(saosCmd)
	rootCmd.AddCommand(docsCmd)
	rootCmd.AddCommand(deadlinesCmd)
	rootCmd.AddCommand(notesCmd)
	rootCmd.AddCommand(checkoutCmd)
}

// Execute runs the CLI with fang enhancements.
func Execute(ctx context.Context, version, commit string) error {
	return fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(version),
		fang.WithCommit(commit),
	)
}
