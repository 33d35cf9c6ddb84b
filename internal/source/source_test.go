package source

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spellcorpus/internal/corpus"
)

func TestCleanLine(t *testing.T) {
	cases := []struct{ in, want string }{
		{"ذهب الولد (2010) الى المدرسة", "ذهب الولد الى المدرسة"},
		{"قال: \"نعم\" و ذهب", "قال نعم ذهب"},
		{"abc كتب ١٢٣ درس/الدرس", "كتب درس الدرس"},
		{"   ", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CleanLine(tc.in), tc.in)
	}
}

func TestClean(t *testing.T) {
	assert.Equal(t, " ذهب الولد. كتب الدرس", Clean("ذهب الولد.\nكتب الدرس"))
}

func TestCleanDropsLoneTerminator(t *testing.T) {
	// "(2020)." leaves a bare "." that is dropped with the other single characters,
	// so the two lines read as one sentence.
	in := "كتب القصة (2020).\nكتب رسالة.\n"
	assert.Equal(t, " كتب القصة كتب رسالة.", Clean(in))

	path := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(path, []byte(in), 0o644))
	got, err := NewLoader(nil, nil).LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []corpus.Sentence{{Text: "كتب القصة كتب رسالة", Terminator: "."}}, got)
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()

	text := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(text, []byte("ذهب الولد."), 0o644))
	got, err := ReadFile(text)
	require.NoError(t, err)
	assert.Equal(t, "ذهب الولد.", got)

	empty := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	got, err = ReadFile(empty)
	require.NoError(t, err)
	assert.Empty(t, got)

	binary := filepath.Join(dir, "b.bin")
	require.NoError(t, os.WriteFile(binary, []byte{0xff, 0xfe, 0x00, 0x81}, 0o644))
	_, err = ReadFile(binary)
	assert.ErrorIs(t, err, ErrUnreadable)
}

func TestReadFileNormalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nfd.txt")
	require.NoError(t, os.WriteFile(path, []byte("e\u0301"), 0o644))
	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\u00e9", got)
}

func TestLoadPathSkipsUnreadable(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "1.txt"), []byte("ذهب الولد الى المدرسة. كتب الدرس"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2.bin"), []byte{0xff, 0xfe}, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "3.txt"), []byte("قرأ المعلم!"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))

	var logs bytes.Buffer
	l := NewLoader(nil, log.New(&logs, "", 0))
	got, err := l.LoadPath(dir)
	require.NoError(t, err)
	assert.Equal(t, []corpus.Sentence{
		{Text: "ذهب الولد الى المدرسة", Terminator: "."},
		{Text: "كتب الدرس", Terminator: ""},
		{Text: "قرأ المعلم", Terminator: "!"},
	}, got)
	assert.Contains(t, logs.String(), "2.bin: not a readable text file")

	_, err = l.LoadPath(filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFilterByTriggers(t *testing.T) {
	sentences := []corpus.Sentence{
		{Text: "ذهب الولد", Terminator: "."},
		{Text: "كتب الدرس", Terminator: "."},
		{Text: "المكتبة كبيرة", Terminator: "."},
	}
	got := FilterByTriggers(sentences, []string{"كتب", "سافر"})
	assert.Equal(t, []corpus.Sentence{{Text: "كتب الدرس", Terminator: "."}}, got)
	assert.Empty(t, FilterByTriggers(sentences, nil))
}
