package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dtroode/certdash/internal/app"
	"github.com/dtroode/certdash/internal/model"
)

var (
	authEmail    string
	authPassword string
	authFullName string

	profileEmail    string
	profileFullName string
	profilePassword string
	profileConfirm  string
)

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account and sign in",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, false, func(ctx context.Context, a *app.App) error {
			if err := a.Lifecycle.SignUp(ctx, authEmail, authPassword, authFullName); err != nil {
				return err
			}
			return printSignedIn(cmd, a)
		})
	},
}

var signinCmd = &cobra.Command{
	Use:   "signin",
	Short: "Sign in with email and password",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, false, func(ctx context.Context, a *app.App) error {
			if err := a.Lifecycle.SignIn(ctx, authEmail, authPassword); err != nil {
				return err
			}
			return printSignedIn(cmd, a)
		})
	},
}

var signoutCmd = &cobra.Command{
	Use:   "signout",
	Short: "Sign out and forget the saved session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, true, func(ctx context.Context, a *app.App) error {
			if err := a.Lifecycle.SignOut(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		})
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, true, func(ctx context.Context, a *app.App) error {
			user, err := a.Auth.GetUser(ctx)
			if err != nil {
				return err
			}
			printUser(cmd, user)
			return nil
		})
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Update email, name or password",
	Long: `Update the signed-in user's profile.

Only the flags given are changed. A new password must be repeated with --confirm.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var update model.UserUpdate
		if cmd.Flags().Changed("email") {
			update.Email = &profileEmail
		}
		if cmd.Flags().Changed("name") {
			update.FullName = &profileFullName
		}
		if cmd.Flags().Changed("password") {
			update.Password = &profilePassword
		}
		if cmd.Flags().Changed("confirm") {
			update.PasswordConfirm = &profileConfirm
		}

		return withApp(cmd, true, func(ctx context.Context, a *app.App) error {
			user, err := a.Auth.UpdateUser(ctx, update)
			if err != nil {
				return err
			}
			printUser(cmd, user)
			return nil
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{signupCmd, signinCmd} {
		c.Flags().StringVarP(&authEmail, "email", "e", "", "Account email")
		c.Flags().StringVarP(&authPassword, "password", "p", "", "Account password")
		_ = c.MarkFlagRequired("email")
		_ = c.MarkFlagRequired("password")
	}
	signupCmd.Flags().StringVarP(&authFullName, "name", "n", "", "Full name")

	profileCmd.Flags().StringVar(&profileEmail, "email", "", "New email")
	profileCmd.Flags().StringVar(&profileFullName, "name", "", "New full name")
	profileCmd.Flags().StringVar(&profilePassword, "password", "", "New password")
	profileCmd.Flags().StringVar(&profileConfirm, "confirm", "", "New password again")
}

func printSignedIn(cmd *cobra.Command, a *app.App) error {
	st := a.Lifecycle.State()
	if st.User == nil {
		return errNoSession
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s.\n", st.User.Email)
	return nil
}

func printUser(cmd *cobra.Command, user model.User) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Email: %s\n", user.Email)
	if user.FullName != "" {
		fmt.Fprintf(w, "Name:  %s\n", user.FullName)
	}
	fmt.Fprintf(w, "Since: %s\n", user.CreatedAt.Format("2006-01-02"))
}
