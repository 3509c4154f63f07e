// Package lexicon holds the closed word sets used by feature extraction:
// the stopword list that shapes clean text and the marker lexicons
// (opposition conjunctions, pronouns) that are counted.
package lexicon

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrInvalid is returned when a lexicon cannot be loaded or fails validation.
var ErrInvalid = errors.New("invalid lexicon")

// Set is a read-only string set. The zero value is an empty set.
type Set struct {
	m map[string]struct{}
}

func NewSet(words ...string) Set {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			m[w] = struct{}{}
		}
	}
	return Set{m: m}
}

func (s Set) Has(w string) bool {
	_, ok := s.m[w]
	return ok
}

func (s Set) Len() int { return len(s.m) }

// Words returns the members in no particular order.
func (s Set) Words() []string {
	out := make([]string, 0, len(s.m))
	for w := range s.m {
		out = append(out, w)
	}
	return out
}

type Lexicons struct {
	Stopwords         Set
	Opposition        Set
	FirstPerson       Set
	SecondThirdPerson Set
}

// Default returns the English stopword list and marker lexicons.
func Default() Lexicons {
	return Lexicons{
		Stopwords:         NewSet(englishStopwords...),
		Opposition:        NewSet(oppositionWords...),
		FirstPerson:       NewSet(firstPersonPronouns...),
		SecondThirdPerson: NewSet(secondThirdPersonPronouns...),
	}
}

// Validate checks that the stopword list is populated and that the two
// pronoun lexicons share no word.
func (l Lexicons) Validate() error {
	if l.Stopwords.Len() == 0 {
		return fmt.Errorf("%w: empty stopword set", ErrInvalid)
	}
	if l.FirstPerson.Len() == 0 || l.SecondThirdPerson.Len() == 0 || l.Opposition.Len() == 0 {
		return fmt.Errorf("%w: empty marker lexicon", ErrInvalid)
	}
	for w := range l.FirstPerson.m {
		if l.SecondThirdPerson.Has(w) {
			return fmt.Errorf("%w: %q is in both pronoun lexicons", ErrInvalid, w)
		}
	}
	return nil
}

// ContentTokens drops stopwords from already-normalized tokens, keeping order.
func (l Lexicons) ContentTokens(normalized []string) []string {
	out := make([]string, 0, len(normalized))
	for _, t := range normalized {
		if l.Stopwords.Has(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// CleanText is the space-joined content tokens.
func (l Lexicons) CleanText(normalized []string) string {
	return strings.Join(l.ContentTokens(normalized), " ")
}

// LoadStopwords reads one word per line; blank lines and lines starting
// with '#' are ignored.
func LoadStopwords(path string) (Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return Set{}, fmt.Errorf("%w: open stopwords: %v", ErrInvalid, err)
	}
	defer f.Close()
	return ReadWordList(f)
}

func ReadWordList(r io.Reader) (Set, error) {
	var words []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := sc.Err(); err != nil {
		return Set{}, fmt.Errorf("%w: read word list: %v", ErrInvalid, err)
	}
	if len(words) == 0 {
		return Set{}, fmt.Errorf("%w: word list is empty", ErrInvalid)
	}
	return NewSet(words...), nil
}
