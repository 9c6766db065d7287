package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"storefront/internal/storefront"
)

// NewRootCommand builds the storefront command tree.
func NewRootCommand(opts ...Option) *cobra.Command {
	a := newApp(opts...)

	root := &cobra.Command{
		Use:   "storefront",
		Short: "Shop from the terminal",
		Long: `storefront is a terminal client for the storefront backend.

Browse the catalogue, manage your cart, leave reviews and, for admins,
restock products and view the sales dashboard. The session and cart are
kept in local storage between invocations.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}
	root.SetIn(a.stdin)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default $STOREFRONT_CONFIG or <user config dir>/storefront/config.yaml)")
	flags.StringVar(&a.apiURL, "api-url", "", "backend base URL, overrides api.base_url")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newProductsCommand(a),
		newReviewsCommand(a),
		newCartCommand(a),
		newSignInCommand(a),
		newSignUpCommand(a),
		newLoginCommand(a),
		newLogoutCommand(a),
		newWhoAmICommand(a),
		newAdminCommand(a),
		newEventsCommand(a),
		newDevBackendCommand(a),
	)
	return root
}

// Execute runs the command line with os.Args.
func Execute(ctx context.Context, opts ...Option) error {
	return NewRootCommand(opts...).ExecuteContext(ctx)
}

// explain turns the action sentinels into instructions for the user.
func explain(err error) error {
	switch {
	case errors.Is(err, storefront.ErrLoginRequired):
		return errors.New("you are not signed in; run `storefront signin` or `storefront login` first")
	case errors.Is(err, storefront.ErrAdminRequired):
		return errors.New("this command requires an admin account")
	}
	return err
}
