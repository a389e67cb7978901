package search

import (
	"strings"

	"github.com/citystory/placesearch/internal/domain/place"
)

// trigrams builds the padded trigram set of a string, pg_trgm style:
// two leading and one trailing space so word boundaries contribute.
func trigrams(s string) map[string]struct{} {
	s = "  " + strings.ToLower(s) + " "
	set := make(map[string]struct{}, len(s))
	for i := 0; i+3 <= len(s); i++ {
		set[s[i:i+3]] = struct{}{}
	}
	return set
}

// similarity returns the trigram Jaccard overlap of two strings, in [0,1].
func similarity(a, b string) float64 {
	ta, tb := trigrams(a), trigrams(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	inter := 0
	for g := range ta {
		if _, ok := tb[g]; ok {
			inter++
		}
	}
	union := len(ta) + len(tb) - inter
	return float64(inter) / float64(union)
}

// bestSimilarity compares the normalized query against every searched field,
// token by token and whole-field, and returns the maximum similarity.
func bestSimilarity(queryNorm string, p *place.Place, fields []string) float64 {
	var best float64
	for _, tf := range searchedFields(p, fields) {
		if tf.Content == "" {
			continue
		}
		if s := similarity(queryNorm, tf.Content); s > best {
			best = s
		}
		for _, tok := range tokenize(tf.Content) {
			if s := similarity(queryNorm, tok); s > best {
				best = s
			}
		}
	}
	return best
}
