package record

// Record is one parsed input file: tokenized sentences plus the MeSH tree
// numbers annotating them. It is not modified after parsing.
type Record struct {
	Sentences [][]string // Each sentence holds at least one token.
	Terms     []string   // Tree numbers in file order, duplicates kept.
}

// Tokens returns every token of every sentence, in order.
func (r Record) Tokens() []string {
	n := 0
	for _, s := range r.Sentences {
		n += len(s)
	}
	tokens := make([]string, 0, n)
	for _, s := range r.Sentences {
		tokens = append(tokens, s...)
	}
	return tokens
}

// TokenCount returns the total number of tokens across sentences.
func (r Record) TokenCount() int {
	n := 0
	for _, s := range r.Sentences {
		n += len(s)
	}
	return n
}

// PairCount is the number of (term, token) lines this record emits.
func (r Record) PairCount() int {
	return len(r.Terms) * r.TokenCount()
}
