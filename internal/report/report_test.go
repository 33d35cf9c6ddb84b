package report

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spellcorpus/internal/corpus"
)

func TestWriteSentences(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSentences(&buf, []corpus.Sentence{{Text: "ذهب الولد", Terminator: "."}, {Text: "عاد"}}))
	assert.Equal(t, "ذهب الولد.\n###########################\nعاد\n###########################\n", buf.String())
}

func TestWriteErrors(t *testing.T) {
	var buf bytes.Buffer
	ledger := corpus.Ledger{
		{Sentence: 3, Position: 0}: {Correct: "cat", Incorrect: "bat"},
		{Sentence: 1, Position: 2}: {Correct: "dog", Incorrect: "dig"},
	}
	require.NoError(t, WriteErrors(&buf, ledger))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "CORRECT             INCORRECT           SENTENCE            POSITION            ", lines[0])
	assert.Equal(t, strings.Repeat("_", 80), lines[1])
	assert.Equal(t, "dog                 dig                 1                   2", lines[2])
	assert.Equal(t, "cat                 bat                 3                   0", lines[3])
}

func TestWriteVocabulary(t *testing.T) {
	var buf bytes.Buffer
	v := corpus.Vocabulary{
		"b": {2: {0, 3}, 0: {1}},
		"a": {1: {4}},
	}
	require.NoError(t, WriteVocabulary(&buf, v))

	pad := strings.Repeat(" ", 20)
	want := "WORD                SENTENCE NO.        POSITIONS\n" +
		strings.Repeat("_", 80) + "\n" +
		"a:" + pad + "1                   [4]\n" +
		"########################\n" +
		"b:" + pad + "0                   [1]\n" +
		pad + "2                   [0, 3]\n" +
		"########################\n"
	assert.Equal(t, want, buf.String())
}

func TestLabeler(t *testing.T) {
	c := corpus.New([]corpus.Sentence{
		{Text: "ذهب الولد", Terminator: "."},
		{Text: "كتب الدرس", Terminator: "!"},
	}, nil)
	require.NoError(t, c.Substitute("الدرس", "الدرج", 1, 1))

	var buf bytes.Buffer
	require.NoError(t, Labeler{Error: "E", Correct: "C"}.Write(&buf, c))
	assert.Equal(t, "ذهب\tC\nالولد\tC\n.\tC\n\nكتب\tC\nالدرج\tE\n!\tC\n\n", buf.String())

	buf.Reset()
	withLength := Labeler{Error: "E", Correct: "C", Features: func(s, p int, tok string) []string {
		if p < 0 {
			return []string{"null"}
		}
		return []string{strings.Repeat("x", len([]rune(tok)))}
	}}
	require.NoError(t, withLength.Write(&buf, c))
	assert.True(t, strings.HasPrefix(buf.String(), "ذهب\txxx\tC\n"))
	assert.Contains(t, buf.String(), "الدرج\txxxxx\tE\n!\tnull\tC\n")
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, WriteFile(path, func(w io.Writer) error {
		return WriteSentences(w, []corpus.Sentence{{Text: "نعم", Terminator: "."}})
	}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "نعم.\n###########################\n", string(data))

	assert.Error(t, WriteFile(filepath.Join(t.TempDir(), "missing", "out.txt"), func(io.Writer) error { return nil }))
}
