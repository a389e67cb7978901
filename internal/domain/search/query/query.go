package query

import "strings"

// Parsed is a structured text query: required terms, excluded terms, and
// exact phrases. A parsed empty query matches everything the filters admit.
type Parsed struct {
	terms    []string
	excluded []string
	phrases  []string
	raw      string
}

// Parse turns a raw query string into a structured query.
// Quoted substrings become exact phrases, a leading '-' marks a token as
// excluded. Parsing is best-effort: an unterminated quote is treated as a
// plain token boundary, never an error.
func Parse(raw string) Parsed {
	p := Parsed{raw: strings.TrimSpace(raw)}
	if p.raw == "" {
		return p
	}

	rest := extractPhrases(&p, p.raw)

	for _, tok := range strings.Fields(rest) {
		excluded := false
		if strings.HasPrefix(tok, "-") {
			excluded = true
			tok = tok[1:]
		}
		tok = normalizeToken(tok)
		if tok == "" {
			continue
		}
		if excluded {
			p.excluded = append(p.excluded, tok)
		} else {
			p.terms = append(p.terms, tok)
		}
	}

	return p
}

// extractPhrases pulls out "..." groups and returns the remaining stream.
// A dangling opening quote leaves its tail as plain tokens.
func extractPhrases(p *Parsed, s string) string {
	var rest strings.Builder
	for {
		open := strings.IndexByte(s, '"')
		if open < 0 {
			rest.WriteString(s)
			break
		}
		closing := strings.IndexByte(s[open+1:], '"')
		if closing < 0 {
			rest.WriteString(s[:open])
			rest.WriteByte(' ')
			rest.WriteString(s[open+1:])
			break
		}
		phrase := strings.TrimSpace(strings.ToLower(s[open+1 : open+1+closing]))
		if phrase != "" {
			p.phrases = append(p.phrases, phrase)
		}
		rest.WriteString(s[:open])
		rest.WriteByte(' ')
		s = s[open+closing+2:]
	}
	return rest.String()
}

// normalizeToken lowercases a token and strips wrapping punctuation.
func normalizeToken(tok string) string {
	return strings.ToLower(strings.Trim(tok, `.,;:!?()[]{}"'`))
}

// Terms returns the required terms.
func (p *Parsed) Terms() []string { return p.terms }

// Excluded returns the excluded terms.
func (p *Parsed) Excluded() []string { return p.excluded }

// Phrases returns the exact phrases.
func (p *Parsed) Phrases() []string { return p.phrases }

// Raw returns the trimmed input string.
func (p *Parsed) Raw() string { return p.raw }

// IsEmpty reports whether the query carries no positive match criteria.
// Downstream stages treat an empty query as "match all entities admitted by
// filters", not "match nothing".
func (p *Parsed) IsEmpty() bool {
	return len(p.terms) == 0 && len(p.phrases) == 0
}

// Normalized returns a canonical form of the query for cache signatures:
// lowercased with collapsed whitespace.
func (p *Parsed) Normalized() string {
	return strings.Join(strings.Fields(strings.ToLower(p.raw)), " ")
}
