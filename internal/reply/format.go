package reply

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/Rrens/property-assistant/internal/domain"
)

// KES formats an amount as "KES 250,000,000"
func KES(amount int64) string {
	return "KES " + humanize.Comma(amount)
}

func sqft(size int) string {
	return humanize.Comma(int64(size)) + " sq ft"
}

func bathrooms(n float64) string {
	return humanize.Ftoa(n)
}

// One line per property, in the order given
func priceLines(props []domain.Property) string {
	lines := make([]string, 0, len(props))
	for _, p := range props {
		lines = append(lines, fmt.Sprintf("• **%s** - %s (%s)", p.Title, KES(p.Price), p.Location))
	}
	return strings.Join(lines, "\n")
}

func listLines(props []domain.Property) string {
	lines := make([]string, 0, len(props))
	for _, p := range props {
		lines = append(lines, fmt.Sprintf("• **%s** in %s - %d bed, %s", p.Title, p.Location, p.Bedrooms, KES(p.Price)))
	}
	return strings.Join(lines, "\n")
}

func bedroomLines(props []domain.Property) string {
	lines := make([]string, 0, len(props))
	for _, p := range props {
		lines = append(lines, fmt.Sprintf("• **%s** - %d bed, %s", p.Title, p.Bedrooms, KES(p.Price)))
	}
	return strings.Join(lines, "\n")
}

var slotLabels = map[string]string{
	"name":    "your name",
	"contact": "your contact information (phone or email)",
	"date":    "your preferred date",
	"time":    "your preferred time",
}

func missingLabels(slots domain.Slots) string {
	var labels []string
	for _, m := range slots.Missing() {
		labels = append(labels, slotLabels[m])
	}
	return strings.Join(labels, ", ")
}

func priceBounds(props []domain.Property) (int64, int64) {
	low, high := props[0].Price, props[0].Price
	for _, p := range props[1:] {
		low = min(low, p.Price)
		high = max(high, p.Price)
	}
	return low, high
}
