package sentiment

import "github.com/jonreiter/govader"

// Vader scores text with the reference VADER lexicon and rule set.
type Vader struct {
	sia *govader.SentimentIntensityAnalyzer
}

func NewVader() *Vader {
	return &Vader{sia: govader.NewSentimentIntensityAnalyzer()}
}

func (v *Vader) Score(text string) Polarity {
	s := v.sia.PolarityScores(text)
	return Polarity{
		Neg:      s.Negative,
		Neu:      s.Neutral,
		Pos:      s.Positive,
		Compound: s.Compound,
	}
}
