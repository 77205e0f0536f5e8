package search

import "strings"

// Stop words to filter out when building search expressions
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true,
}

// tokenizeAndFilter splits text into words, lowercases, trims punctuation, and removes stop words
func tokenizeAndFilter(text string) []string {
	words := strings.Fields(text)
	filtered := make([]string, 0, len(words))

	for _, word := range words {
		// Lowercase and trim punctuation
		cleaned := strings.ToLower(strings.Trim(word, ".,!?;:'\"-()[]{}"))

		// Skip stop words and empty strings
		if cleaned != "" && !stopWords[cleaned] {
			filtered = append(filtered, cleaned)
		}
	}

	return filtered
}

// buildExpression turns a query analysis into a lexical search expression.
// The enhanced query forms the base clause; keywords and quoted expanded
// terms are added as alternative OR clauses so any of them can match.
func buildExpression(enhancedQuery string, keywords, expandedTerms []string) string {
	var clauses []string

	base := strings.Join(tokenizeAndFilter(enhancedQuery), " ")
	if base != "" {
		clauses = append(clauses, base)
	}

	kw := strings.Join(tokenizeAndFilter(strings.Join(keywords, " ")), " ")
	if kw != "" && kw != base {
		clauses = append(clauses, kw)
	}

	for _, term := range expandedTerms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		// Multi-word expansions match as phrases
		if strings.ContainsRune(term, ' ') {
			clauses = append(clauses, `"`+term+`"`)
		} else {
			clauses = append(clauses, strings.ToLower(term))
		}
	}

	return strings.Join(clauses, " OR ")
}

// clause is one alternative of a search expression: terms that must all
// match, plus phrases that must match verbatim.
type clause struct {
	terms   []string
	phrases []string
}

// parseExpression splits an expression into OR-separated clauses.
// Within a clause, quoted spans become phrases and bare words become
// conjunctive terms.
func parseExpression(expr string) []clause {
	var clauses []clause
	for _, raw := range strings.Split(expr, " OR ") {
		c := parseClause(raw)
		if len(c.terms) > 0 || len(c.phrases) > 0 {
			clauses = append(clauses, c)
		}
	}
	return clauses
}

func parseClause(raw string) clause {
	var c clause
	rest := raw
	for {
		open := strings.IndexByte(rest, '"')
		if open < 0 {
			break
		}
		close := strings.IndexByte(rest[open+1:], '"')
		if close < 0 {
			break
		}
		phrase := strings.TrimSpace(rest[open+1 : open+1+close])
		if phrase != "" {
			c.phrases = append(c.phrases, phrase)
		}
		rest = rest[:open] + " " + rest[open+close+2:]
	}
	c.terms = tokenizeAndFilter(rest)
	return c
}
