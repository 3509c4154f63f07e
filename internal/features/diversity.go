package features

import "fakenews-features/internal/tokenize"

// LexicalDiversity is distinct/total over the lowercased alphabetic tokens
// of text, or 0 when there are none.
func LexicalDiversity(text string) float64 {
	return diversity(tokenize.Normalize(tokenize.Tokenize(text)))
}

func diversity(normalized []string) float64 {
	if len(normalized) == 0 {
		return 0
	}
	seen := make(map[string]struct{}, len(normalized))
	for _, w := range normalized {
		seen[w] = struct{}{}
	}
	return float64(len(seen)) / float64(len(normalized))
}
