package cli

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"storefront/internal/form"
	"storefront/internal/services"
	"storefront/internal/session"
	"storefront/internal/tui"
)

func newSignInCommand(a *App) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Sign in with email and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if email, err = a.valueOrPrompt(email, "Email", false); err != nil {
				return err
			}
			if password, err = a.valueOrPrompt(password, "Password", true); err != nil {
				return err
			}

			f := form.SignInForm()
			f.Change(form.FieldEmail, email)
			f.Change(form.FieldPassword, password)
			dest, err := a.shop.SignIn(cmd.Context(), f)
			if err != nil {
				return err
			}
			a.welcome(dest)
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted without echo when omitted)")
	return cmd
}

func newSignUpCommand(a *App) *cobra.Command {
	var firstName, lastName, email, password string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if firstName, err = a.valueOrPrompt(firstName, "First name", false); err != nil {
				return err
			}
			if lastName, err = a.valueOrPrompt(lastName, "Last name", false); err != nil {
				return err
			}
			if email, err = a.valueOrPrompt(email, "Email", false); err != nil {
				return err
			}
			if password, err = a.valueOrPrompt(password, "Password", true); err != nil {
				return err
			}

			f := form.SignUpForm()
			f.Change(form.FieldFirstName, firstName)
			f.Change(form.FieldLastName, lastName)
			f.Change(form.FieldEmail, email)
			f.Change(form.FieldPassword, password)
			dest, err := a.shop.SignUp(cmd.Context(), f)
			if err != nil {
				return err
			}
			a.welcome(dest)
			return nil
		},
	}
	cmd.Flags().StringVar(&firstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "last name")
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted without echo when omitted)")
	return cmd
}

func newLoginCommand(a *App) *cobra.Command {
	var signUp bool
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Open the interactive login dialog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := session.LoginModeSignIn
			if signUp {
				mode = session.LoginModeSignUp
			}
			dest, err := tui.RunLogin(cmd.Context(), a.store, a.shop, mode,
				tea.WithInput(a.stdin), tea.WithOutput(a.errOut), tea.WithContext(cmd.Context()))
			if errors.Is(err, tui.ErrCancelled) {
				a.printf("Login cancelled.\n")
				return nil
			}
			if err != nil {
				return err
			}
			a.welcome(dest)
			return nil
		},
	}
	cmd.Flags().BoolVar(&signUp, "signup", false, "open on the create account tab")
	return cmd
}

func newLogoutCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the session and cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.shop.Logout(cmd.Context()); err != nil {
				return err
			}
			a.printf("Signed out.\n")
			return nil
		},
	}
}

func newWhoAmICommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user := a.store.Session()
			if user == nil {
				a.printf("Not signed in.\n")
				return nil
			}
			role := "customer"
			if user.IsAdmin {
				role = "admin"
			}
			a.printf("%s <%s> (%s)\n", user.FullName(), user.Email, role)
			return nil
		},
	}
}

func (a *App) welcome(dest services.Destination) {
	user := a.store.Session()
	if user == nil {
		return
	}
	a.printf("Signed in as %s.\n", user.FullName())
	if dest == services.DestinationAdmin {
		a.printf("Admin tools: storefront admin dashboard\n")
	}
}
