package search

import (
	"strings"
	"unicode"

	"github.com/citystory/placesearch/internal/domain/place"
	"github.com/citystory/placesearch/internal/domain/search/query"
)

// phraseBoost multiplies per-term weight for exact phrase hits, so an
// adjacent phrase always outranks the same words scattered through a field.
const phraseBoost = 2.0

// tokenize lowercases and splits on anything that is not a letter or digit.
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// searchedFields returns the weighted text fields restricted to the requested
// subset; an empty subset means all fields.
func searchedFields(p *place.Place, fields []string) []place.TextField {
	all := p.TextFields()
	if len(fields) == 0 {
		return all
	}
	out := all[:0:0]
	for _, tf := range all {
		for _, name := range fields {
			if tf.Name == name {
				out = append(out, tf)
				break
			}
		}
	}
	return out
}

// scoreExact computes the weighted multi-field relevance score of a place.
// The second return is true when an excluded term occurs in any searched
// field, which removes the place from the candidate set entirely.
func scoreExact(q *query.Parsed, p *place.Place, fields []string) (float64, bool) {
	var total float64

	for _, tf := range searchedFields(p, fields) {
		tokens := tokenize(tf.Content)
		if len(tokens) == 0 {
			continue
		}

		for _, ex := range q.Excluded() {
			if countToken(tokens, ex) > 0 {
				return 0, true
			}
		}

		matches := 0
		for _, term := range q.Terms() {
			matches += countToken(tokens, term)
		}

		var phraseScore float64
		joined := " " + strings.Join(tokens, " ") + " "
		for _, ph := range q.Phrases() {
			phTokens := tokenize(ph)
			if len(phTokens) == 0 {
				continue
			}
			if strings.Contains(joined, " "+strings.Join(phTokens, " ")+" ") {
				phraseScore += phraseBoost * float64(len(phTokens))
			} else {
				// No adjacent hit: fall back to bag-of-words so the place
				// stays rankable, just strictly below a true phrase match.
				for _, term := range phTokens {
					matches += countToken(tokens, term)
				}
			}
		}

		// Normalize by field length so long descriptions don't win on
		// brute term count alone.
		total += (float64(matches) + phraseScore) * tf.Weight / float64(len(tokens))
	}

	return total, false
}

func countToken(tokens []string, term string) int {
	n := 0
	for _, t := range tokens {
		if t == term {
			n++
		}
	}
	return n
}
