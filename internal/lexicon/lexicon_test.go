package lexicon

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	l := Default()
	require.NoError(t, l.Validate())
	assert.Equal(t, 179, l.Stopwords.Len())
	assert.Equal(t, 9, l.Opposition.Len())
	assert.True(t, l.Stopwords.Has("but"), "contrastive words are also stopwords")
	assert.True(t, l.Opposition.Has("but"))
	assert.True(t, l.FirstPerson.Has("i"))
	assert.True(t, l.SecondThirdPerson.Has("her"))
	assert.False(t, l.FirstPerson.Has("her"))
}

func TestValidateOverlap(t *testing.T) {
	l := Default()
	l.SecondThirdPerson = NewSet("you", "we")
	err := l.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))
}

func TestValidateEmptyStopwords(t *testing.T) {
	l := Default()
	l.Stopwords = Set{}
	assert.ErrorIs(t, l.Validate(), ErrInvalid)
}

func TestCleanText(t *testing.T) {
	l := Default()
	got := l.CleanText([]string{"the", "sky", "is", "falling", "but", "scientists", "disagree", "however"})
	assert.Equal(t, "sky falling scientists disagree however", got)
	assert.Equal(t, "", l.CleanText(nil))
}

func TestReadWordList(t *testing.T) {
	s, err := ReadWordList(strings.NewReader("# custom list\nThe\n\n  and \n"))
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Has("the"))
	assert.True(t, s.Has("and"))

	_, err = ReadWordList(strings.NewReader("# nothing\n"))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestLoadStopwords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stop.txt")
	require.NoError(t, os.WriteFile(path, []byte("a\nan\nthe\n"), 0o644))
	s, err := LoadStopwords(path)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Len())

	_, err = LoadStopwords(filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, ErrInvalid)
}
