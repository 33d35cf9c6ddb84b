package pipeline

import (
	"bufio"
	"bytes"
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spellcorpus/internal/config"
	"spellcorpus/internal/learner"
	"spellcorpus/internal/store"
	"spellcorpus/internal/tagger"
	"spellcorpus/internal/wordlist"
)

const text = `كتب الولد كتاب الدرس.
المعلم كتب كتاب القصة.
الطالب كتب الواجب (2020) و يكتب القصة.
كتب احمد كتاب رسالة.
ذهب الولد الى المدرسة.
`

func setup(t *testing.T) config.Config {
	t.Helper()
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "news.txt"), []byte(text), 0o644))

	cfg := config.Defaults()
	cfg.Source = src
	cfg.Destination = filepath.Join(t.TempDir(), "out")
	cfg.ErrorLabel, cfg.CorrectLabel = "E", "C"
	cfg.TestFraction = 0.25
	cfg.VocabularyFile = "vocabulary.txt"
	cfg.Learn = false
	return cfg
}

func quiet() *log.Logger { return log.New(&bytes.Buffer{}, "", 0) }

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines
}

func countSuffix(lines []string, suffix string) int {
	n := 0
	for _, l := range lines {
		if strings.HasSuffix(l, suffix) {
			n++
		}
	}
	return n
}

func TestRunPlain(t *testing.T) {
	cfg := setup(t)
	sum, err := Run(context.Background(), cfg, Deps{Triggers: wordlist.Static{"كتب"}, Logger: quiet()})
	require.NoError(t, err)

	assert.Equal(t, 5, sum.Loaded)
	assert.Equal(t, 4, sum.Kept)
	assert.Equal(t, 3, sum.TrainingSize)
	assert.Equal(t, 1, sum.TestSize)
	assert.Equal(t, 1, sum.Triggers)
	assert.Equal(t, 3, sum.TrainingInjected)
	assert.Equal(t, 1, sum.TestInjected)
	assert.Nil(t, sum.Evaluation)

	out := cfg.Destination
	assert.Equal(t, []string{"كتب"}, readLines(t, filepath.Join(out, "words_list.txt")))

	train := readLines(t, filepath.Join(out, cfg.CRFTrainFile))
	assert.Equal(t, 3, countSuffix(train, "\tE"))
	test := readLines(t, filepath.Join(out, cfg.CRFTestFile))
	assert.Equal(t, 1, countSuffix(test, "\tE"))

	errs := readLines(t, filepath.Join(out, cfg.TrainingErrorsFile))
	require.Len(t, errs, 5)
	for _, row := range errs[2:] {
		assert.True(t, strings.HasPrefix(row, "كتب "), row)
	}

	sentences := readLines(t, filepath.Join(out, cfg.TrainingSentencesFile))
	assert.Len(t, sentences, 6)
	assert.NotContains(t, strings.Join(sentences, "\n"), "2020")

	assert.FileExists(t, filepath.Join(out, "vocabulary.txt"))
	assert.Contains(t, sum.Written, filepath.Join(out, cfg.TestErrorsFile))
}

func TestRunIsReproducible(t *testing.T) {
	read := func() string {
		cfg := setup(t)
		_, err := Run(context.Background(), cfg, Deps{Triggers: wordlist.Static{"كتب"}, Logger: quiet()})
		require.NoError(t, err)
		return strings.Join(readLines(t, filepath.Join(cfg.Destination, cfg.CRFTrainFile)), "\n")
	}
	assert.Equal(t, read(), read())
}

func TestRunEveryN(t *testing.T) {
	cfg := setup(t)
	cfg.Policy = config.PolicyEveryN
	cfg.TrainingErrorsEvery = 100
	cfg.TestingErrorsEvery = 100

	sum, err := Run(context.Background(), cfg, Deps{Triggers: wordlist.Static{"كتب"}, Logger: quiet()})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.TrainingInjected)
	assert.Equal(t, 1, sum.TestInjected)
	assert.Zero(t, sum.Misses)
}

type perfectLearner struct {
	spec learner.Spec
}

func (p *perfectLearner) Train(_ context.Context, spec learner.Spec) (learner.Model, error) {
	p.spec = spec
	return learner.Model{Path: spec.Model}, nil
}

// Label repeats the reference label as the assigned one.
func (p *perfectLearner) Label(_ context.Context, _ learner.Model, in learner.Input) ([]byte, error) {
	data, err := os.ReadFile(in.Path)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	for line := range strings.Lines(string(data)) {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			out.WriteString("\n")
			continue
		}
		label := fields[len(fields)-1]
		if in.Probabilities {
			label += "/0.600000"
		}
		out.WriteString(strings.TrimRight(line, "\n") + "\t" + label + "\n")
	}
	return out.Bytes(), nil
}

func TestRunWithLearner(t *testing.T) {
	cfg := setup(t)
	cfg.Learn = true
	cfg.CRFTemplateFile = "template"
	cfg.CRFTestWithProbabilities = true
	cfg.CRFUncertaintyThreshold = 0.7

	l := &perfectLearner{}
	sum, err := Run(context.Background(), cfg, Deps{Triggers: wordlist.Static{"كتب"}, Learner: l, Logger: quiet()})
	require.NoError(t, err)

	assert.Equal(t, "template", l.spec.Template)
	assert.Equal(t, filepath.Join(cfg.Destination, cfg.CRFTrainFile), l.spec.Training)
	require.NotNil(t, sum.Evaluation)
	assert.Equal(t, learner.Evaluation{Correct: 1, Incorrect: 0, Total: 1}, *sum.Evaluation)

	results, err := os.ReadFile(filepath.Join(cfg.Destination, cfg.ResultsFile))
	require.NoError(t, err)
	assert.Contains(t, string(results), "Correct Detections: 1")
	assert.FileExists(t, filepath.Join(cfg.Destination, cfg.CRFUncertainLabelsFile))
	assert.FileExists(t, filepath.Join(cfg.Destination, cfg.CRFResultFile))
}

type stubTagger []tagger.Token

func (s stubTagger) Tag(context.Context, []string) ([]tagger.Token, error) { return s, nil }

func TestRunDerivesTriggers(t *testing.T) {
	cfg := setup(t)
	cfg.TestFraction = 0

	sum, err := Run(context.Background(), cfg, Deps{
		Triggers: wordlist.Static{},
		Tagger:   stubTagger{{Word: "المدرسة", Tag: "VBD"}, {Word: "الولد", Tag: "NN"}},
		Logger:   quiet(),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Triggers)
	assert.Equal(t, 1, sum.Kept)
	assert.Equal(t, []string{"المدرسة"}, readLines(t, filepath.Join(cfg.Destination, "words_list.txt")))
}

func TestRunWithoutTriggers(t *testing.T) {
	_, err := Run(context.Background(), setup(t), Deps{Logger: quiet()})
	assert.ErrorIs(t, err, ErrNoTriggers)

	_, err = Run(context.Background(), setup(t), Deps{Triggers: wordlist.Static{"سافر"}, Logger: quiet()})
	assert.ErrorIs(t, err, ErrNoSentences)
}

func TestRunXML(t *testing.T) {
	cfg := setup(t)
	cfg.Mode = config.ModeXML
	xml := "<DOC>\n<TEXT>\n" + text + "</TEXT>\n</DOC>\n"
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Source, "news.txt"), []byte(xml), 0o644))

	sum, err := Run(context.Background(), cfg, Deps{Triggers: wordlist.Static{"كتب"}, Logger: quiet()})
	require.NoError(t, err)
	assert.Equal(t, 5, sum.Loaded)
	assert.FileExists(t, filepath.Join(cfg.Destination, "news.txt"))
}

func TestRunWithStoredLexicon(t *testing.T) {
	vs, err := store.Open("")
	require.NoError(t, err)
	defer vs.Close()

	cfg := setup(t)
	_, err = Run(context.Background(), cfg, Deps{Triggers: wordlist.Static{"كتب"}, Store: vs, Logger: quiet()})
	require.NoError(t, err)
	saved, err := vs.Load(cfg.VocabularySnapshot)
	require.NoError(t, err)
	assert.True(t, saved.Contains("كتاب"))

	cfg = setup(t)
	cfg.LexiconSnapshot = "training"
	cfg.VocabularySnapshot = "second"
	sum, err := Run(context.Background(), cfg, Deps{Triggers: wordlist.Static{"كتب"}, Store: vs, Logger: quiet()})
	require.NoError(t, err)
	assert.Equal(t, 3, sum.TrainingInjected)

	cfg = setup(t)
	cfg.LexiconSnapshot = "missing"
	_, err = Run(context.Background(), cfg, Deps{Triggers: wordlist.Static{"كتب"}, Store: vs, Logger: quiet()})
	assert.ErrorIs(t, err, store.ErrNotFound)
}
