package search

import (
	"regexp"
	"strings"

	"github.com/citystory/placesearch/internal/domain/place"
	"github.com/citystory/placesearch/internal/domain/search/query"
)

// Highlight marker pair wrapped around matched substrings.
const (
	markStart = "<em>"
	markEnd   = "</em>"
)

// highlightFields wraps query matches per searched field. A field that fails
// to highlight is omitted; highlighting never aborts a request.
func highlightFields(q *query.Parsed, p *place.Place, fields []string) map[string]string {
	patterns := make([]string, 0, len(q.Phrases())+len(q.Terms()))
	// Phrases first so a phrase hit isn't broken up by its own terms.
	for _, ph := range q.Phrases() {
		phTokens := tokenize(ph)
		if len(phTokens) > 0 {
			patterns = append(patterns, `\b`+strings.Join(quoteAll(phTokens), `\W+`)+`\b`)
		}
	}
	for _, term := range q.Terms() {
		patterns = append(patterns, `\b`+regexp.QuoteMeta(term)+`\b`)
	}
	if len(patterns) == 0 {
		return nil
	}

	re, err := regexp.Compile(`(?i)(` + strings.Join(patterns, "|") + `)`)
	if err != nil {
		return nil
	}

	var out map[string]string
	for _, tf := range searchedFields(p, fields) {
		if tf.Content == "" {
			continue
		}
		marked := re.ReplaceAllString(tf.Content, markStart+"$1"+markEnd)
		if marked == tf.Content {
			continue
		}
		if out == nil {
			out = make(map[string]string, 4)
		}
		out[tf.Name] = marked
	}
	return out
}

func quoteAll(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = regexp.QuoteMeta(t)
	}
	return out
}
