// Package sentiment scores the polarity of English text. The default
// scorer is VADER with its full published lexicon; Analyzer applies the
// same rules (booster words, negation, capitalisation emphasis, the
// contrastive "but" rule, punctuation amplification) to a lexicon loaded
// from disk.
package sentiment

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode"
)

// ErrLexicon is returned when a valence lexicon cannot be loaded.
var ErrLexicon = errors.New("sentiment lexicon unavailable")

// Polarity is the breakdown returned by a Scorer. Neg, Neu and Pos are
// proportions in [0,1]; Compound is the normalised sum in [-1,1].
type Polarity struct {
	Neg      float64 `json:"neg"`
	Neu      float64 `json:"neu"`
	Pos      float64 `json:"pos"`
	Compound float64 `json:"compound"`
}

type Scorer interface {
	Score(text string) Polarity
}

// Negativity returns the negative component of s's score for text, clamped to [0,1].
func Negativity(s Scorer, text string) float64 {
	neg := s.Score(text).Neg
	if math.IsNaN(neg) || neg < 0 {
		return 0
	}
	return math.Min(neg, 1)
}

const (
	boosterIncr   = 0.293
	boosterDecr   = -0.293
	capsIncr      = 0.733
	negationScale = -0.74
	normAlpha     = 15
)

var boosters = map[string]float64{
	"absolutely": boosterIncr, "amazingly": boosterIncr, "completely": boosterIncr,
	"considerably": boosterIncr, "deeply": boosterIncr, "enormously": boosterIncr,
	"entirely": boosterIncr, "especially": boosterIncr, "extremely": boosterIncr,
	"greatly": boosterIncr, "highly": boosterIncr, "hugely": boosterIncr,
	"incredibly": boosterIncr, "intensely": boosterIncr, "majorly": boosterIncr,
	"more": boosterIncr, "most": boosterIncr, "particularly": boosterIncr,
	"purely": boosterIncr, "quite": boosterIncr, "really": boosterIncr,
	"remarkably": boosterIncr, "so": boosterIncr, "substantially": boosterIncr,
	"thoroughly": boosterIncr, "totally": boosterIncr, "tremendously": boosterIncr,
	"truly": boosterIncr, "unbelievably": boosterIncr, "utterly": boosterIncr,
	"very": boosterIncr,
	"almost": boosterDecr, "barely": boosterDecr, "hardly": boosterDecr,
	"kinda": boosterDecr, "less": boosterDecr, "little": boosterDecr,
	"marginally": boosterDecr, "occasionally": boosterDecr, "partly": boosterDecr,
	"scarcely": boosterDecr, "slightly": boosterDecr, "somewhat": boosterDecr,
	"sorta": boosterDecr,
}

var negations = map[string]struct{}{
	"aint": {}, "arent": {}, "cannot": {}, "cant": {}, "couldnt": {}, "darent": {},
	"didnt": {}, "doesnt": {}, "dont": {}, "hadnt": {}, "hasnt": {}, "havent": {},
	"isnt": {}, "mightnt": {}, "mustnt": {}, "neither": {}, "never": {}, "none": {},
	"nope": {}, "nor": {}, "not": {}, "nothing": {}, "nowhere": {}, "shouldnt": {},
	"wasnt": {}, "werent": {}, "without": {}, "wont": {}, "wouldnt": {}, "rarely": {},
	"seldom": {}, "despite": {},
}

// Analyzer scores text against a caller-supplied valence lexicon. It is
// safe for concurrent use once constructed.
type Analyzer struct {
	lexicon map[string]float64
}

// NewAnalyzer builds an Analyzer over lex, which must not be modified afterwards.
func NewAnalyzer(lex map[string]float64) (*Analyzer, error) {
	if len(lex) == 0 {
		return nil, fmt.Errorf("%w: no entries", ErrLexicon)
	}
	return &Analyzer{lexicon: lex}, nil
}

// LoadAnalyzer builds an Analyzer from a lexicon file on disk.
func LoadAnalyzer(path string) (*Analyzer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLexicon, err)
	}
	defer f.Close()
	lex, err := ReadLexicon(f)
	if err != nil {
		return nil, err
	}
	return NewAnalyzer(lex)
}

// ReadLexicon parses "token<TAB>valence[<TAB>...]" lines. Blank lines and
// '#' comments are skipped; any other malformed line is an error.
func ReadLexicon(r io.Reader) (map[string]float64, error) {
	lex := make(map[string]float64)
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		raw := strings.TrimSpace(sc.Text())
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		fields := strings.Split(raw, "\t")
		if len(fields) < 2 {
			return nil, fmt.Errorf("%w: line %d: expected token and valence", ErrLexicon, line)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrLexicon, line, err)
		}
		lex[strings.ToLower(strings.TrimSpace(fields[0]))] = v
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLexicon, err)
	}
	if len(lex) == 0 {
		return nil, fmt.Errorf("%w: no entries", ErrLexicon)
	}
	return lex, nil
}

func (a *Analyzer) Len() int { return len(a.lexicon) }

func (a *Analyzer) Score(text string) Polarity {
	words := splitWords(text)
	if len(words) == 0 {
		return Polarity{}
	}
	lower := make([]string, len(words))
	for i, w := range words {
		lower[i] = strings.ToLower(w)
	}
	capDiff := capsDiffer(words)

	sentiments := make([]float64, 0, len(words))
	for i, w := range lower {
		if _, ok := boosters[w]; ok {
			sentiments = append(sentiments, 0)
			continue
		}
		if w == "kind" && i+1 < len(lower) && lower[i+1] == "of" {
			sentiments = append(sentiments, 0)
			continue
		}
		sentiments = append(sentiments, a.valence(words, lower, i, capDiff))
	}
	butRule(lower, sentiments)
	return scoreValence(sentiments, text)
}

func (a *Analyzer) valence(words, lower []string, i int, capDiff bool) float64 {
	v, ok := a.lexicon[lower[i]]
	if !ok {
		return 0
	}
	if capDiff && isUpper(words[i]) {
		v += math.Copysign(capsIncr, v)
	}
	for back := 0; back < 3; back++ {
		j := i - back - 1
		if j < 0 {
			break
		}
		if _, inLex := a.lexicon[lower[j]]; inLex {
			continue
		}
		s := boost(words[j], lower[j], v, capDiff)
		switch back {
		case 1:
			s *= 0.95
		case 2:
			s *= 0.9
		}
		v += s
		if negated(lower[j]) {
			v *= negationScale
		}
	}
	return v
}

func boost(word, lower string, valence float64, capDiff bool) float64 {
	scalar, ok := boosters[lower]
	if !ok {
		return 0
	}
	if valence < 0 {
		scalar = -scalar
	}
	if capDiff && isUpper(word) {
		scalar += math.Copysign(capsIncr, valence)
	}
	return scalar
}

func negated(w string) bool {
	if strings.Contains(w, "n't") {
		return true
	}
	_, ok := negations[strings.ReplaceAll(w, "'", "")]
	return ok
}

// butRule halves the words before the first "but" and raises the words after it by half.
func butRule(lower []string, sentiments []float64) {
	for bi, w := range lower {
		if w != "but" {
			continue
		}
		for si := range sentiments {
			switch {
			case si < bi:
				sentiments[si] *= 0.5
			case si > bi:
				sentiments[si] *= 1.5
			}
		}
		return
	}
}

func scoreValence(sentiments []float64, text string) Polarity {
	var sum float64
	for _, s := range sentiments {
		sum += s
	}
	punct := punctuationEmphasis(text)
	switch {
	case sum > 0:
		sum += punct
	case sum < 0:
		sum -= punct
	}
	compound := sum / math.Sqrt(sum*sum+normAlpha)
	compound = math.Max(-1, math.Min(1, compound))

	var pos, neg, neu float64
	for _, s := range sentiments {
		switch {
		case s > 0:
			pos += s + 1
		case s < 0:
			neg += s - 1
		default:
			neu++
		}
	}
	switch {
	case pos > math.Abs(neg):
		pos += punct
	case pos < math.Abs(neg):
		neg -= punct
	}
	total := pos + math.Abs(neg) + neu
	if total == 0 {
		return Polarity{}
	}
	return Polarity{
		Neg:      round(math.Abs(neg/total), 3),
		Neu:      round(math.Abs(neu/total), 3),
		Pos:      round(math.Abs(pos/total), 3),
		Compound: round(compound, 4),
	}
}

func punctuationEmphasis(text string) float64 {
	ep := float64(min(strings.Count(text, "!"), 4)) * 0.292
	qm := strings.Count(text, "?")
	var qa float64
	switch {
	case qm > 3:
		qa = 0.96
	case qm > 1:
		qa = float64(qm) * 0.18
	}
	return ep + qa
}

// splitWords splits on whitespace and strips surrounding punctuation from
// words that stay longer than two runes; single-rune tokens are dropped.
func splitWords(text string) []string {
	fields := strings.Fields(text)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		stripped := strings.TrimFunc(f, unicode.IsPunct)
		if len([]rune(stripped)) > 2 {
			f = stripped
		}
		if len([]rune(f)) <= 1 {
			continue
		}
		out = append(out, f)
	}
	return out
}

func capsDiffer(words []string) bool {
	upper := 0
	for _, w := range words {
		if isUpper(w) {
			upper++
		}
	}
	return upper > 0 && upper < len(words)
}

func isUpper(w string) bool {
	hasLetter := false
	for _, r := range w {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
