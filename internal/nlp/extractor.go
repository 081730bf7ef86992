package nlp

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/Rrens/property-assistant/internal/config"
	"github.com/Rrens/property-assistant/internal/domain"
)

// TitleSource provides property titles in catalog order
type TitleSource interface {
	Titles() []string
}

// Extractor pulls structured slots out of free text.
// It holds only configuration, so Extract is pure for a fixed title set.
type Extractor struct {
	gazetteer []string
	threshold float64
	titles    TitleSource
}

// NewExtractor creates a new entity extractor
func NewExtractor(cfg config.NLPConfig, titles TitleSource) *Extractor {
	return &Extractor{
		gazetteer: cfg.Gazetteer,
		threshold: cfg.FuzzyThreshold,
		titles:    titles,
	}
}

// Extract returns the entities found in text. recent holds the last few
// user turns, oldest first, and is only consulted for the property name.
func (e *Extractor) Extract(text string, recent []string) domain.Entities {
	var ent domain.Entities

	ent.Location = e.matchLocation(text)
	ent.PropertyName = e.matchTitle(text)
	if ent.PropertyName == "" {
		for i := len(recent) - 1; i >= 0; i-- {
			if title := e.matchTitle(recent[i]); title != "" {
				ent.PropertyName = title
				ent.PropertyFromContext = true
				break
			}
		}
	}

	if price, ok := extractPrice(text); ok {
		ent.PriceRange = &price
	}
	if m := bedroomsPattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			ent.Bedrooms = &n
		}
	}

	ent.Date, _ = dateRules.first(text)
	ent.Time, _ = timeRules.first(text)

	ent.Name = extractName(text)
	ent.Phone = extractPhone(text)
	if m := emailPattern.FindStringSubmatch(text); m != nil {
		ent.Email = strings.ToLower(m[1])
	}

	return ent
}

func (e *Extractor) matchLocation(text string) string {
	lower := strings.ToLower(text)
	for _, place := range e.gazetteer {
		if place != "" && strings.Contains(lower, strings.ToLower(place)) {
			return place
		}
	}
	return ""
}

// matchTitle returns the first title whose share of words present in text
// reaches the threshold
func (e *Extractor) matchTitle(text string) string {
	if e.titles == nil {
		return ""
	}
	present := make(map[string]bool)
	for _, w := range Words(text) {
		present[w] = true
	}
	if len(present) == 0 {
		return ""
	}

	for _, title := range e.titles.Titles() {
		words := Words(title)
		if len(words) == 0 {
			continue
		}
		hits := 0
		for _, w := range words {
			if present[w] {
				hits++
			}
		}
		if float64(hits)/float64(len(words)) >= e.threshold {
			return title
		}
	}
	return ""
}

func extractPrice(text string) (int64, bool) {
	m := pricePattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	multiplier := 1_000.0
	switch strings.ToLower(m[2]) {
	case "million", "m":
		multiplier = 1_000_000
	}
	return int64(math.Round(value * multiplier)), true
}

func extractName(text string) string {
	m := namePattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	var parts []string
	for _, w := range strings.Fields(m[1]) {
		if nameStopWords[strings.ToLower(w)] || len(parts) == 3 {
			break
		}
		parts = append(parts, titleWord(w))
	}
	return strings.Join(parts, " ")
}

// extractPhone keeps digit groups until the number looks complete, so a
// trailing "2 pm" is not swallowed into it
func extractPhone(text string) string {
	m := phonePattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}

	var kept []string
	digits := 0
	for _, tok := range strings.Fields(m[1]) {
		d := countDigits(tok)
		if d == 0 || (digits >= 9 && len(tok) < 3) {
			break
		}
		kept = append(kept, tok)
		digits += d
	}
	if digits < 9 || digits > 15 {
		return ""
	}
	return strings.TrimRight(strings.Join(kept, " "), " -(")
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}
