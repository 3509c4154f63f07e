// Package tokenize splits article text into word and punctuation tokens.
//
// Segmentation is Treebank-like: runs of letters and digits form words,
// hyphens and apostrophes inside a word, periods between letters
// ("breitbart.com", "U.S") and decimal separators inside a number keep the
// run together. Initialisms and common titles keep their final period
// ("U.S.", "Mr."). English clitics (n't, 's, 're, 've, 'll, 'd, 'm) become
// their own tokens, and every other non-space rune is a token of its own.
// Runs of '.' collapse into a single ellipsis token.
package tokenize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Tokenize returns the case-preserving token sequence of text.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	runes := []rune(norm.NFC.String(text))
	out := make([]string, 0, len(runes)/4)

	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case isWordRune(r):
			j := i + 1
			for j < len(runes) {
				if isWordRune(runes[j]) {
					j++
					continue
				}
				if j+1 < len(runes) && joins(runes[j-1], runes[j], runes[j+1]) {
					j += 2
					continue
				}
				break
			}
			if j < len(runes) && runes[j] == '.' && (j+1 == len(runes) || runes[j+1] != '.') &&
				abbreviation(runes[i:j]) {
				j++
			}
			out = append(out, splitClitic(string(runes[i:j]))...)
			i = j
		case r == '.':
			j := i + 1
			for j < len(runes) && runes[j] == '.' {
				j++
			}
			out = append(out, string(runes[i:j]))
			i = j
		default:
			out = append(out, string(r))
			i++
		}
	}
	return out
}

// Normalize lowercases tokens and keeps only the purely alphabetic ones.
func Normalize(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if !isAlpha(t) {
			continue
		}
		out = append(out, strings.ToLower(t))
	}
	return out
}

// Lower returns a lowercased copy of tokens.
func Lower(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = strings.ToLower(t)
	}
	return out
}

// WhitespaceCount counts whitespace-delimited words.
func WhitespaceCount(s string) int {
	return len(strings.Fields(s))
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

func isApostrophe(r rune) bool { return r == '\'' || r == '’' }

// joins reports whether sep, sitting between prev and next, belongs to
// the surrounding word.
func joins(prev, sep, next rune) bool {
	switch {
	case sep == '-':
		return isWordRune(next)
	case isApostrophe(sep):
		return unicode.IsLetter(prev) && unicode.IsLetter(next)
	case sep == '.':
		return unicode.IsLetter(prev) && unicode.IsLetter(next) ||
			unicode.IsDigit(prev) && unicode.IsDigit(next)
	case sep == ',':
		return unicode.IsDigit(prev) && unicode.IsDigit(next)
	}
	return false
}

var titles = map[string]struct{}{
	"mr": {}, "mrs": {}, "ms": {}, "dr": {}, "jr": {}, "sr": {}, "st": {},
	"prof": {}, "gen": {}, "gov": {}, "sen": {}, "rep": {}, "rev": {},
	"lt": {}, "col": {}, "sgt": {}, "capt": {}, "vs": {}, "etc": {},
}

// abbreviation reports whether word takes a trailing period: a dotted
// initialism of single letters such as "U.S" or "D.C", or a title.
func abbreviation(word []rune) bool {
	parts := strings.Split(string(word), ".")
	if len(parts) > 1 {
		for _, p := range parts {
			if utf8.RuneCountInString(p) != 1 || !unicode.IsLetter([]rune(p)[0]) {
				return false
			}
		}
		return true
	}
	_, ok := titles[strings.ToLower(parts[0])]
	return ok
}

var clitics = map[string]struct{}{
	"s": {}, "re": {}, "ve": {}, "ll": {}, "d": {}, "m": {},
}

func splitClitic(word string) []string {
	idx := strings.LastIndexFunc(word, isApostrophe)
	if idx <= 0 {
		return []string{word}
	}
	_, size := utf8.DecodeRuneInString(word[idx:])
	suffix := strings.ToLower(word[idx+size:])
	if _, ok := clitics[suffix]; ok {
		return []string{word[:idx], word[idx:]}
	}
	if suffix == "t" && idx > 1 && (word[idx-1] == 'n' || word[idx-1] == 'N') {
		return []string{word[:idx-1], word[idx-1:]}
	}
	return []string{word}
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
