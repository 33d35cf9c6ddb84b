package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spellcorpus/internal/pipeline"
	"spellcorpus/internal/store"
)

func TestRunClosesStoreOnFailure(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	require.NoError(t, os.Mkdir(src, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "news.txt"), []byte("ذهب الولد الى المدرسة.\n"), 0o644))
	triggers := filepath.Join(dir, "triggers.txt")
	require.NoError(t, os.WriteFile(triggers, []byte("سافر\n"), 0o644))

	storePath := filepath.Join(dir, "store")
	cfgPath := filepath.Join(dir, "config.cfg")
	cfg := fmt.Sprintf("SOURCE=%s\nDESTINATION=%s\nTRIGGER_WORDS_FILE=%s\nVOCABULARY_STORE=%s\nLEARNER_ENABLED=false\n",
		src, filepath.Join(dir, "out"), triggers, storePath)
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	err := run(cfgPath)
	require.ErrorIs(t, err, pipeline.ErrNoSentences)

	// the directory lock is released only if the store was closed
	vs, err := store.Open(storePath)
	require.NoError(t, err)
	assert.NoError(t, vs.Close())
}

func TestRunRejectsMissingConfig(t *testing.T) {
	err := run(filepath.Join(t.TempDir(), "absent.cfg"))
	assert.ErrorContains(t, err, "config error")
}
