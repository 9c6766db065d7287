// Package dashboard computes the admin overview of the catalogue: headline
// numbers plus the availability, ratings and sales charts.
package dashboard

import (
	"storefront/internal/models"
)

// LabelLimit is the longest product name shown on the ratings chart before it
// is cut and suffixed with "...".
const LabelLimit = 15

// Stats are the headline cards.
type Stats struct {
	TotalProducts int
	TotalStock    int
	AverageRating float64
	TotalReviews  int
}

// Availability splits the catalogue by stock.
type Availability struct {
	InStock    int
	OutOfStock int
}

// RatingPoint is one product on the ratings chart.
type RatingPoint struct {
	ProductID string
	Label     string
	Average   float64
	Count     int
}

// SalesPoint is one product on the sales chart.
type SalesPoint struct {
	ProductID string
	Label     string
	Units     int
}

// Dashboard is everything the admin page shows.
type Dashboard struct {
	Stats        Stats
	Availability Availability
	Ratings      []RatingPoint
	Sales        []SalesPoint
}

// Build assembles the dashboard. Charts follow catalogue order.
func Build(products []models.Product, sales []models.ProductSales) Dashboard {
	return Dashboard{
		Stats:        ComputeStats(products),
		Availability: ComputeAvailability(products),
		Ratings:      ComputeRatings(products),
		Sales:        ComputeSales(products, sales),
	}
}

// ComputeStats totals the catalogue. AverageRating is the mean of the per
// product averages, unweighted, and 0 for an empty catalogue.
func ComputeStats(products []models.Product) Stats {
	var s Stats
	var ratingSum float64
	for _, p := range products {
		s.TotalStock += p.Stock
		s.TotalReviews += p.Rating.Count
		ratingSum += p.Rating.Average
	}
	s.TotalProducts = len(products)
	if s.TotalProducts > 0 {
		s.AverageRating = ratingSum / float64(s.TotalProducts)
	}
	return s
}

// ComputeAvailability counts products with and without stock. A negative
// stock is in neither bucket.
func ComputeAvailability(products []models.Product) Availability {
	var a Availability
	for _, p := range products {
		switch {
		case p.InStock():
			a.InStock++
		case p.Stock == 0:
			a.OutOfStock++
		}
	}
	return a
}

// ComputeRatings lists every product's rating with a shortened label.
func ComputeRatings(products []models.Product) []RatingPoint {
	points := make([]RatingPoint, 0, len(products))
	for _, p := range products {
		points = append(points, RatingPoint{
			ProductID: p.ID,
			Label:     TruncateLabel(p.Name),
			Average:   p.Rating.Average,
			Count:     p.Rating.Count,
		})
	}
	return points
}

// ComputeSales pairs each product with its units sold, matching on product id.
// Products without sales report 0; sales for products no longer in the
// catalogue are dropped.
func ComputeSales(products []models.Product, sales []models.ProductSales) []SalesPoint {
	units := make(map[string]int, len(sales))
	for _, s := range sales {
		units[s.ProductID] += s.Quantity
	}

	points := make([]SalesPoint, 0, len(products))
	for _, p := range products {
		points = append(points, SalesPoint{
			ProductID: p.ID,
			Label:     p.Name,
			Units:     units[p.ID],
		})
	}
	return points
}

// TruncateLabel cuts names longer than LabelLimit runes.
func TruncateLabel(name string) string {
	r := []rune(name)
	if len(r) <= LabelLimit {
		return name
	}
	return string(r[:LabelLimit]) + "..."
}
