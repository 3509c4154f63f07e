package features

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fakenews-features/internal/lexicon"
	"fakenews-features/internal/models"
	"fakenews-features/internal/sentiment"
)

type stubScorer struct {
	neg   float64
	calls int
	mu    sync.Mutex
}

func (s *stubScorer) Score(string) sentiment.Polarity {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return sentiment.Polarity{Neg: s.neg, Neu: 1 - s.neg}
}

func newExtractor(t *testing.T, neg float64) *Extractor {
	t.Helper()
	e, err := New(Config{Lexicons: lexicon.Default(), Scorer: &stubScorer{neg: neg}})
	require.NoError(t, err)
	return e
}

func TestNewRequiresScorer(t *testing.T) {
	_, err := New(Config{Lexicons: lexicon.Default()})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInitialization)
}

func TestNewRejectsInvalidLexicons(t *testing.T) {
	lex := lexicon.Default()
	lex.FirstPerson = lexicon.NewSet("i", "you")
	_, err := New(Config{Lexicons: lex, Scorer: &stubScorer{}})
	assert.ErrorIs(t, err, ErrInitialization)
	assert.ErrorIs(t, err, lexicon.ErrInvalid)
}

func TestNewDefault(t *testing.T) {
	e, err := NewDefault()
	require.NoError(t, err)
	rec := e.Extract(models.Article{Text: "This is a terrible, awful disaster."})
	assert.Greater(t, rec.Negativity, 0.0)
	assert.LessOrEqual(t, rec.Negativity, 1.0)
}

func TestExtractEmpty(t *testing.T) {
	s := &stubScorer{neg: 0.9}
	e, err := New(Config{Lexicons: lexicon.Default(), Scorer: s})
	require.NoError(t, err)

	rec := e.Extract(models.Article{})
	assert.Equal(t, models.FeatureRecord{}, rec)
	assert.Zero(t, s.calls, "empty text is not scored")
}

func TestExtractScenario(t *testing.T) {
	e := newExtractor(t, 0.125)
	rec := e.Extract(models.Article{
		Title: "Breaking News",
		Text:  "The sky is falling! But scientists disagree however.",
		Label: models.LabelFake,
	})
	assert.Equal(t, 2, rec.TitleLength)
	assert.Equal(t, 8, rec.TextLength)
	assert.Equal(t, 10, rec.WordCount)
	assert.Equal(t, 2, rec.OppositionCount)
	assert.Equal(t, 0, rec.QuestionMarks)
	assert.Equal(t, 0, rec.FirstPersonCount)
	assert.Equal(t, 0, rec.SecondThirdPersonCount)
	assert.Equal(t, 1.0, rec.LexicalDiversity)
	assert.Equal(t, 0.125, rec.Negativity)
	assert.Equal(t, "sky falling scientists disagree however", rec.CleanText)
}

func TestExtractMarkers(t *testing.T) {
	e := newExtractor(t, 0)
	tests := []struct {
		text                 string
		first, other, oppose int
		questions            int
	}{
		{"I told her that", 1, 1, 0, 0},
		{"However, I disagree", 1, 0, 1, 0},
		{"Really? Are you sure??", 0, 1, 0, 3},
		{"We said THEY were wrong, but you know it.", 1, 2, 1, 0},
		{"Yet despite this, mine and theirs remain", 1, 1, 2, 0},
		{"I'm sure he didn't", 1, 1, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			rec := e.Extract(models.Article{Text: tt.text})
			assert.Equal(t, tt.first, rec.FirstPersonCount, "first person")
			assert.Equal(t, tt.other, rec.SecondThirdPersonCount, "second/third person")
			assert.Equal(t, tt.oppose, rec.OppositionCount, "opposition")
			assert.Equal(t, tt.questions, rec.QuestionMarks, "question marks")
		})
	}
}

func TestLexicalDiversity(t *testing.T) {
	assert.Equal(t, 1.0, LexicalDiversity("apple banana cherry"))
	assert.InDelta(t, 1.0/3.0, LexicalDiversity("no no no"), 1e-12)
	assert.InDelta(t, 0.25, LexicalDiversity("No no NO nO"), 1e-12)
	assert.Equal(t, 0.0, LexicalDiversity(""))
	assert.Equal(t, 0.0, LexicalDiversity("123 456 ?!"))
	assert.InDelta(t, 2.0/3.0, LexicalDiversity("Go, go, gophers! 42"), 1e-12)
}

func TestExtractDeterministic(t *testing.T) {
	e, err := NewDefault()
	require.NoError(t, err)
	a := models.Article{Title: "Shocking claims", Text: "They lied to you! We never trusted them, but nobody listened?"}
	first := e.Extract(a)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, e.Extract(a))
	}
}

func TestExtractBounds(t *testing.T) {
	e, err := NewDefault()
	require.NoError(t, err)
	texts := []string{
		"",
		"???",
		"WAR! WAR! WAR!",
		"Hillary's emails... they're everywhere, aren't they?",
		"1 2 3 4 5",
		"love peace joy",
	}
	for _, text := range texts {
		rec := e.Extract(models.Article{Text: text})
		assert.GreaterOrEqual(t, rec.LexicalDiversity, 0.0)
		assert.LessOrEqual(t, rec.LexicalDiversity, 1.0)
		assert.GreaterOrEqual(t, rec.Negativity, 0.0)
		assert.LessOrEqual(t, rec.Negativity, 1.0)
		assert.GreaterOrEqual(t, rec.WordCount, 0)
	}
}

func TestExtractLabeled(t *testing.T) {
	e := newExtractor(t, 0)
	a := models.Article{Title: "t", Text: "x y", Label: models.LabelTrue, Subject: "politicsNews"}
	lr := e.ExtractLabeled(7, a)
	assert.Equal(t, 7, lr.Index)
	assert.Equal(t, models.LabelTrue, lr.Label)
	assert.Equal(t, "politicsNews", lr.Subject)
	assert.Equal(t, 2, lr.Features.TextLength)
}

func TestNewFromFiles(t *testing.T) {
	dir := t.TempDir()
	stop := filepath.Join(dir, "stop.txt")
	require.NoError(t, os.WriteFile(stop, []byte("sky\n"), 0o644))

	e, err := NewFromFiles(stop, "")
	require.NoError(t, err)
	rec := e.Extract(models.Article{Text: "The sky is falling"})
	assert.Equal(t, "the is falling", rec.CleanText)

	_, err = NewFromFiles(filepath.Join(dir, "missing.txt"), "")
	assert.ErrorIs(t, err, ErrInitialization)

	_, err = NewFromFiles("", filepath.Join(dir, "missing.tsv"))
	assert.ErrorIs(t, err, ErrInitialization)
	assert.ErrorIs(t, err, sentiment.ErrLexicon)
}
