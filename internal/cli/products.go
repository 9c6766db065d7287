package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"storefront/internal/form"
	"storefront/internal/models"
)

func newProductsCommand(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Browse the catalogue",
	}

	var search string
	list := &cobra.Command{
		Use:   "list",
		Short: "List products, optionally filtered by a search query",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := a.shop.SearchProducts(cmd.Context(), search)
			if err != nil {
				return err
			}
			if len(products) == 0 {
				a.printf("No products found.\n")
				return nil
			}
			a.printf("%s\n", productTable(products))
			return nil
		},
	}
	list.Flags().StringVarP(&search, "search", "s", "", "filter by name, tolerating typos")

	reviews := &cobra.Command{
		Use:   "reviews <product-id>",
		Short: "Show the reviews of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reviews, err := a.shop.Reviews(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(reviews) == 0 {
				a.printf("No reviews yet.\n")
				return nil
			}
			for _, r := range reviews {
				a.printf("%s\n", formatReview(r))
			}
			return nil
		},
	}

	cmd.AddCommand(list, reviews)
	return cmd
}

func newReviewsCommand(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reviews",
		Short: "Write reviews",
	}

	var rating, comment string
	add := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Review a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := form.ReviewForm()
			f.Change(form.FieldRating, rating)
			f.Change(form.FieldComment, comment)

			review, err := a.shop.AddReview(cmd.Context(), args[0], f)
			if err != nil {
				return explain(err)
			}
			a.printf("Thanks! You rated it %d/5.\n", review.Rating)
			return nil
		},
	}
	add.Flags().StringVarP(&rating, "rating", "r", "", "rating from 1 to 5")
	add.Flags().StringVarP(&comment, "comment", "c", "", "what you thought of it")

	cmd.AddCommand(add)
	return cmd
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func productTable(products []models.Product) string {
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		stock := fmt.Sprint(p.Stock)
		if !p.InStock() {
			stock = "out of stock"
		}
		rows = append(rows, []string{
			p.ID,
			p.Name,
			formatPrice(p.Price),
			stock,
			fmt.Sprintf("%.1f (%d)", p.Rating.Average, p.Rating.Count),
		})
	}
	return newTable("ID", "Name", "Price", "Stock", "Rating").Rows(rows...).String()
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func formatPrice(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func formatReview(r models.Review) string {
	author := "anonymous"
	if r.User != nil && r.User.FullName() != "" {
		author = r.User.FullName()
	}
	stars := strings.Repeat("★", r.Rating) + strings.Repeat("☆", max(0, 5-r.Rating))
	line := fmt.Sprintf("%s %s", stars, author)
	if !r.CreatedAt.IsZero() {
		line += " on " + r.CreatedAt.Format("2006-01-02")
	}
	if r.Comment != "" {
		line += "\n  " + r.Comment
	}
	return line
}
