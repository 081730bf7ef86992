package nlp

import (
	"regexp"
	"strings"
)

// rule is one row of an ordered, first-match-wins rule table
type rule struct {
	name      string
	pattern   *regexp.Regexp
	normalize func(m []string) string
}

// ruleTable evaluates rules top to bottom and returns the first normalized match
type ruleTable []rule

func (t ruleTable) first(text string) (string, string) {
	for _, r := range t {
		if m := r.pattern.FindStringSubmatch(text); m != nil {
			return r.normalize(m), r.name
		}
	}
	return "", ""
}

var spaces = regexp.MustCompile(`\s+`)

func lowerGroup(m []string) string {
	return spaces.ReplaceAllString(strings.ToLower(strings.TrimSpace(m[1])), " ")
}

// dateRules: weekday, relative term, numeric D/M/Y, "D Month"
var dateRules = ruleTable{
	{
		name:    "weekday",
		pattern: regexp.MustCompile(`(?i)\b(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`),
		normalize: func(m []string) string {
			return titleWord(m[1])
		},
	},
	{
		name:      "relative",
		pattern:   regexp.MustCompile(`(?i)\b(tomorrow|next\s+weekend|next\s+week|this\s+weekend|this\s+week)\b`),
		normalize: lowerGroup,
	},
	{
		name:    "numeric",
		pattern: regexp.MustCompile(`\b(\d{1,2}[/\-]\d{1,2}[/\-]\d{2,4})\b`),
		normalize: func(m []string) string {
			return m[1]
		},
	},
	{
		name:    "day_month",
		pattern: regexp.MustCompile(`(?i)\b(\d{1,2})\s+(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\b`),
		normalize: func(m []string) string {
			return m[1] + " " + titleWord(m[2])
		},
	},
}

// timeRules: "H:MM am/pm", "H am/pm", day-part word
var timeRules = ruleTable{
	{
		name:      "clock",
		pattern:   regexp.MustCompile(`(?i)\b(\d{1,2}:\d{2}\s*(?:am|pm))\b`),
		normalize: lowerGroup,
	},
	{
		name:      "hour",
		pattern:   regexp.MustCompile(`(?i)\b(\d{1,2}\s*(?:am|pm))\b`),
		normalize: lowerGroup,
	},
	{
		name:      "day_part",
		pattern:   regexp.MustCompile(`(?i)\b(morning|afternoon|evening|noon)\b`),
		normalize: lowerGroup,
	},
}

var (
	pricePattern    = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*(million|thousand|m|k)\b`)
	bedroomsPattern = regexp.MustCompile(`(?i)\b(\d+)[\s-]*bed(?:room)?s?\b`)

	// Contact rules need an explicit lead-in; incidental names and digits are ignored
	namePattern  = regexp.MustCompile(`(?i)\b(?:my name is|my name's|name is|i am called)\s+([a-z][a-z'\-]*(?:\s+[a-z][a-z'\-]*){0,3})`)
	phonePattern = regexp.MustCompile(`(?i)\b(?:phone(?:\s+number)?|number|mobile|call me at|reach me at)\s*(?:is\s*|:\s*)?(\+?\d[\d\s\-()]{7,})`)
	emailPattern = regexp.MustCompile(`(?i)\b(?:e-?mail|mail)\s*(?:address\s*)?(?:is\s*|:\s*)?([a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,})`)
)

// nameStopWords end a captured name
var nameStopWords = map[string]bool{
	"and": true, "my": true, "phone": true, "email": true, "number": true, "mobile": true,
	"at": true, "on": true, "from": true, "i": true, "is": true, "with": true, "for": true,
	"to": true, "the": true, "this": true, "next": true, "tomorrow": true, "but": true,
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true, "friday": true,
	"saturday": true, "sunday": true, "morning": true, "afternoon": true, "evening": true,
}
