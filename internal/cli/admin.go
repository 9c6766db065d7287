package cli

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"storefront/internal/dashboard"
)

const defaultDashboardWidth = 100

func newAdminCommand(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Admin tools",
	}

	var width int
	dash := &cobra.Command{
		Use:   "dashboard",
		Short: "Show catalogue stats, availability, ratings and sales",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.shop.Dashboard(cmd.Context())
			if err != nil {
				return explain(err)
			}
			a.printf("%s\n", dashboard.Render(d, a.terminalWidth(width)))
			return nil
		},
	}
	dash.Flags().IntVarP(&width, "width", "w", 0, "render width (default: terminal width)")

	stock := &cobra.Command{
		Use:   "stock <product-id>",
		Short: "Add one unit of stock to a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := a.shop.IncreaseStock(cmd.Context(), args[0])
			if err != nil {
				return explain(err)
			}
			for _, p := range products {
				if p.ID == args[0] {
					a.printf("%s now has %d in stock.\n", p.Name, p.Stock)
					return nil
				}
			}
			a.printf("Stock updated.\n")
			return nil
		},
	}

	cmd.AddCommand(dash, stock)
	return cmd
}

func (a *App) terminalWidth(flag int) int {
	if flag > 0 {
		return flag
	}
	if f, ok := a.out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			return w
		}
	}
	return defaultDashboardWidth
}
