package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fakenews-features/internal/models"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	return out.String()
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExtractCommand(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "articles.csv", "title,text\nBreaking News,The sky is falling! But scientists disagree however.\nQuiet,We stayed home\n")

	out := run(t, "extract", "--input", in, "--label", "FAKE", "--log-level", "error")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)

	var first models.LabeledRecord
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, 0, first.Index)
	assert.Equal(t, models.LabelFake, first.Label)
	assert.Equal(t, 10, first.Features.WordCount)
	assert.Equal(t, 2, first.Features.OppositionCount)
}

func TestAnalyzeCommand(t *testing.T) {
	dir := t.TempDir()
	fake := writeFile(t, dir, "Fake.csv", "title,text,subject,date\n"+
		"A,They lied to you again and again,News,\"March 3, 2017\"\n"+
		"B,You will not believe what they did,News,\"March 9, 2017\"\n"+
		"B,You will not believe what they did,News,\"March 9, 2017\"\n")
	truth := writeFile(t, dir, "True.csv", "title,text,subject,date\n"+
		"C,The committee approved the budget on Tuesday,politicsNews,\"April 4, 2017\"\n"+
		"D,Officials said exports rose sharply in March,worldnews,\"April 5, 2017\"\n")
	table := filepath.Join(dir, "table.csv")

	out := run(t, "analyze", "--fake", fake, "--true", truth, "--json", "--table", table, "--log-level", "error")

	var report struct {
		Total  int                  `json:"total"`
		Counts map[models.Label]int `json:"counts"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 4, report.Total)
	assert.Equal(t, 2, report.Counts[models.LabelFake])

	b, err := os.ReadFile(table)
	require.NoError(t, err)
	assert.Equal(t, 5, strings.Count(string(b), "\n"), "header plus four rows")
}

func TestVersionCommand(t *testing.T) {
	out := run(t, "version")
	assert.Contains(t, out, "features dev")
}
