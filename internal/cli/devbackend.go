package cli

import (
	"github.com/spf13/cobra"

	"storefront/internal/backendtest"
)

func newDevBackendCommand(a *App) *cobra.Command {
	var addr string
	var quiet bool
	cmd := &cobra.Command{
		Use:   "dev-backend",
		Short: "Serve an in-memory backend with demo data",
		Long: `Runs a throwaway backend implementing the same REST contract as the real
one, seeded with a few products plus admin@example.com (password admin) and
shopper@example.com (password shopper). Everything is lost on exit.`,
		Args: cobra.NoArgs,
		// The backend needs none of the client wiring.
		PersistentPreRunE:  func(*cobra.Command, []string) error { return nil },
		PersistentPostRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := []backendtest.Option{backendtest.WithAddr(addr)}
			if !quiet {
				opts = append(opts, backendtest.WithRequestLog(a.errOut))
			}
			srv, err := backendtest.Start(opts...)
			if err != nil {
				return err
			}
			if err := srv.SeedDemo(); err != nil {
				_ = srv.Close()
				return err
			}

			a.printf("Backend listening on %s\n", srv.URL)
			<-cmd.Context().Done()
			return srv.Close()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:4000", "listen address")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not log requests")
	return cmd
}
