package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"storefront/internal/models"
)

func newCartCommand(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show and change your cart",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cart, err := a.shop.RefreshCart(cmd.Context())
			if err != nil {
				return explain(err)
			}
			a.printCart(cart)
			return nil
		},
	}

	var quantity int
	add := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			product, err := a.shop.Product(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			cart, err := a.shop.AddToCart(cmd.Context(), *product, quantity)
			if err != nil {
				return explain(err)
			}
			a.printf("Added %d x %s.\n", quantity, product.Name)
			a.printCart(cart)
			return nil
		},
	}
	add.Flags().IntVarP(&quantity, "quantity", "q", 1, "units to add")

	remove := &cobra.Command{
		Use:   "remove <product-id>",
		Short: "Remove a product from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cart, err := a.shop.RemoveFromCart(cmd.Context(), args[0])
			if err != nil {
				return explain(err)
			}
			a.printCart(cart)
			return nil
		},
	}

	checkout := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order for everything in the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			before := a.store.Cart()
			if before.IsEmpty() {
				a.printf("Your cart is empty.\n")
				return nil
			}
			if _, err := a.shop.Checkout(cmd.Context()); err != nil {
				return explain(err)
			}
			a.printf("Order placed: %d items, %s.\n", before.TotalItemCount, formatPrice(before.TotalAmount))
			return nil
		},
	}

	cmd.AddCommand(show, add, remove, checkout)
	return cmd
}

func (a *App) printCart(cart *models.Cart) {
	if cart.IsEmpty() {
		a.printf("Your cart is empty.\n")
		return
	}

	t := newTable("Product", "Qty", "Price", "Subtotal")
	for _, item := range cart.Items {
		name := item.ProductID
		if item.Product != nil {
			name = item.Product.Name
		}
		t.Row(name, fmt.Sprint(item.Quantity), formatPrice(item.Price), formatPrice(float64(item.Quantity)*item.Price))
	}
	a.printf("%s\n", t.String())
	a.printf("%d items, total %s\n", cart.TotalItemCount, formatPrice(cart.TotalAmount))
}
