package dashboard

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext  lipgloss.Color = "#a6adc8"
	colorSurface  lipgloss.Color = "#585b70"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorRed      lipgloss.Color = "#f38ba8"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorLavender lipgloss.Color = "#b4befe"

	minRenderWidth = 40
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorText)
	labelStyle = lipgloss.NewStyle().Foreground(colorSubtext)
	valueStyle = lipgloss.NewStyle().Bold(true).Foreground(colorText)
	cardStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface).
			Padding(0, 1)
	emptyBarStyle = lipgloss.NewStyle().Foreground(colorSurface)
)

// Render draws the dashboard for a terminal of the given width.
func Render(d Dashboard, width int) string {
	if width < minRenderWidth {
		width = minRenderWidth
	}

	sections := []string{
		titleStyle.Render("Admin Dashboard"),
		renderCards(d.Stats, width),
		titleStyle.Render("Product Availability"),
		renderBars([]bar{
			{label: "In Stock", value: float64(d.Availability.InStock), text: fmt.Sprint(d.Availability.InStock), color: colorGreen},
			{label: "Out of Stock", value: float64(d.Availability.OutOfStock), text: fmt.Sprint(d.Availability.OutOfStock), color: colorRed},
		}, 0, width),
	}

	ratings := make([]bar, 0, len(d.Ratings))
	for _, r := range d.Ratings {
		ratings = append(ratings, bar{
			label: r.Label,
			value: r.Average,
			text:  fmt.Sprintf("%.1f (%d)", r.Average, r.Count),
			color: colorYellow,
		})
	}
	sections = append(sections, titleStyle.Render("Product Ratings"), renderBars(ratings, 5, width))

	sales := make([]bar, 0, len(d.Sales))
	for _, s := range d.Sales {
		sales = append(sales, bar{
			label: s.Label,
			value: float64(s.Units),
			text:  fmt.Sprint(s.Units),
			color: colorLavender,
		})
	}
	sections = append(sections, titleStyle.Render("Units Sold"), renderBars(sales, 0, width))

	return strings.Join(sections, "\n\n")
}

func renderCards(s Stats, width int) string {
	cards := []struct{ label, value string }{
		{"Total Products", fmt.Sprint(s.TotalProducts)},
		{"Total Stock", fmt.Sprint(s.TotalStock)},
		{"Average Rating", fmt.Sprintf("%.1f", s.AverageRating)},
		{"Total Reviews", fmt.Sprint(s.TotalReviews)},
	}

	rendered := make([]string, 0, len(cards))
	for _, c := range cards {
		rendered = append(rendered, cardStyle.Render(labelStyle.Render(c.label)+"\n"+valueStyle.Render(c.value)))
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
	if lipgloss.Width(row) <= width {
		return row
	}
	return lipgloss.JoinVertical(lipgloss.Left, rendered...)
}

type bar struct {
	label string
	value float64
	text  string
	color lipgloss.Color
}

// renderBars draws one horizontal bar per entry. A scale of 0 uses the
// largest value.
func renderBars(bars []bar, scale float64, width int) string {
	if len(bars) == 0 {
		return labelStyle.Render("No data")
	}

	nameW, textW := 0, 0
	for _, b := range bars {
		nameW = max(nameW, lipgloss.Width(b.label))
		textW = max(textW, lipgloss.Width(b.text))
	}
	if scale == 0 {
		for _, b := range bars {
			scale = math.Max(scale, b.value)
		}
	}
	nameW = min(nameW, width/3)
	barW := max(width-nameW-textW-2, 1)

	lines := make([]string, 0, len(bars))
	for _, b := range bars {
		filled := 0
		if scale > 0 {
			filled = int(math.Round(float64(barW) * b.value / scale))
		}
		if filled < 1 && b.value > 0 {
			filled = 1
		}
		filled = min(filled, barW)

		label := b.label
		if lipgloss.Width(label) > nameW {
			label = string([]rune(label)[:nameW])
		}
		line := labelStyle.Width(nameW).Render(label) + " " +
			lipgloss.NewStyle().Foreground(b.color).Render(strings.Repeat("█", filled)) +
			emptyBarStyle.Render(strings.Repeat("░", barW-filled)) + " " +
			valueStyle.Render(b.text)
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
