// Package features derives the fixed set of linguistic and statistical
// measurements for a news article.
package features

import (
	"fmt"
	"strings"

	"fakenews-features/internal/lexicon"
	"fakenews-features/internal/models"
	"fakenews-features/internal/sentiment"
	"fakenews-features/internal/tokenize"
)

type Config struct {
	Lexicons lexicon.Lexicons
	Scorer   sentiment.Scorer
}

// Extractor holds only read-only configuration and may be shared by any
// number of goroutines.
type Extractor struct {
	lex    lexicon.Lexicons
	scorer sentiment.Scorer
}

func New(cfg Config) (*Extractor, error) {
	if cfg.Scorer == nil {
		return nil, fmt.Errorf("%w: no sentiment scorer", ErrInitialization)
	}
	if err := cfg.Lexicons.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInitialization, err)
	}
	return &Extractor{lex: cfg.Lexicons, scorer: cfg.Scorer}, nil
}

// NewDefault builds an Extractor from the built-in lexicons and VADER.
func NewDefault() (*Extractor, error) {
	return New(Config{Lexicons: lexicon.Default(), Scorer: sentiment.NewVader()})
}

// NewFromFiles is NewDefault with optional on-disk replacements for the
// stopword list and the sentiment lexicon; empty paths keep the built-ins.
// A sentiment file switches scoring to an Analyzer over that lexicon.
func NewFromFiles(stopwordsFile, sentimentFile string) (*Extractor, error) {
	lex := lexicon.Default()
	if stopwordsFile != "" {
		stop, err := lexicon.LoadStopwords(stopwordsFile)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInitialization, err)
		}
		lex.Stopwords = stop
	}

	var scorer sentiment.Scorer = sentiment.NewVader()
	if sentimentFile != "" {
		an, err := sentiment.LoadAnalyzer(sentimentFile)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInitialization, err)
		}
		scorer = an
	}
	return New(Config{Lexicons: lex, Scorer: scorer})
}

// Extract never fails; absent title or text behave as empty strings.
func (e *Extractor) Extract(a models.Article) models.FeatureRecord {
	text := a.Text
	tokens := tokenize.Tokenize(text)
	normalized := tokenize.Normalize(tokens)
	markers := countMarkers(e.lex, tokenize.Lower(tokens))

	rec := models.FeatureRecord{
		WordCount:              len(tokens),
		QuestionMarks:          strings.Count(text, "?"),
		OppositionCount:        markers.opposition,
		FirstPersonCount:       markers.firstPerson,
		SecondThirdPersonCount: markers.secondThirdPerson,
		LexicalDiversity:       diversity(normalized),
		TitleLength:            tokenize.WhitespaceCount(a.Title),
		TextLength:             tokenize.WhitespaceCount(text),
		CleanText:              e.lex.CleanText(normalized),
	}
	if text != "" {
		rec.Negativity = sentiment.Negativity(e.scorer, text)
	}
	return rec
}

func (e *Extractor) ExtractLabeled(i int, a models.Article) models.LabeledRecord {
	return models.LabeledRecord{
		Index:     i,
		Label:     a.Label,
		Subject:   a.Subject,
		Published: a.Published,
		Features:  e.Extract(a),
	}
}
