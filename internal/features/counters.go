package features

import "fakenews-features/internal/lexicon"

type markerCounts struct {
	opposition        int
	firstPerson       int
	secondThirdPerson int
}

// countMarkers walks lowercased tokens once. Pronoun classes are exclusive
// (first person wins); opposition is counted independently of them.
func countMarkers(lex lexicon.Lexicons, lowered []string) markerCounts {
	var c markerCounts
	for _, tok := range lowered {
		switch {
		case lex.FirstPerson.Has(tok):
			c.firstPerson++
		case lex.SecondThirdPerson.Has(tok):
			c.secondThirdPerson++
		}
		if lex.Opposition.Has(tok) {
			c.opposition++
		}
	}
	return c
}
