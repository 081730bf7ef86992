package nlp

import (
	"strings"
	"unicode"
)

// Words splits text into lowercase word tokens
func Words(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'')
	})
}

// Vocabulary matches whole words and multi-word phrases, case-insensitively
type Vocabulary struct {
	phrases []string
}

// NewVocabulary normalizes phrases once so matching is a padded substring check
func NewVocabulary(phrases []string) Vocabulary {
	normalized := make([]string, 0, len(phrases))
	for _, p := range phrases {
		if w := Words(p); len(w) > 0 {
			normalized = append(normalized, " "+strings.Join(w, " ")+" ")
		}
	}
	return Vocabulary{phrases: normalized}
}

// Match reports whether any phrase occurs in text on word boundaries
func (v Vocabulary) Match(text string) bool {
	return v.matchPadded(pad(text))
}

// Contains reports whether any phrase occurs anywhere in text, so
// inflections such as "confirmed" or "okay then" still match
func (v Vocabulary) Contains(text string) bool {
	joined := strings.Join(Words(text), " ")
	for _, p := range v.phrases {
		if strings.Contains(joined, strings.TrimSpace(p)) {
			return true
		}
	}
	return false
}

func (v Vocabulary) matchPadded(padded string) bool {
	for _, p := range v.phrases {
		if strings.Contains(padded, p) {
			return true
		}
	}
	return false
}

func pad(text string) string {
	return " " + strings.Join(Words(text), " ") + " "
}

// titleWord upper-cases the first letter of a word and keeps the rest
func titleWord(w string) string {
	if w == "" {
		return w
	}
	r := []rune(w)
	r[0] = unicode.ToUpper(r[0])
	for i := 1; i < len(r); i++ {
		r[i] = unicode.ToLower(r[i])
	}
	return string(r)
}
