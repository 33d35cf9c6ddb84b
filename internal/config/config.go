// Package config reads the KEY=VALUE run configuration. Process environment
// variables override values from the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var ErrInvalid = errors.New("invalid configuration")

type Mode string

const (
	ModePlain Mode = "PLAIN"
	ModeXML   Mode = "XML"
)

type Policy string

const (
	PolicyPerSentence Policy = "per-sentence"
	PolicyEveryN      Policy = "every-n"
)

type Config struct {
	Mode        Mode
	Source      string
	Destination string

	TrainingSentencesFile string
	TestSentencesFile     string
	VocabularyFile        string
	TrainingErrorsFile    string
	TestErrorsFile        string
	WordsListFile         string
	ResultsFile           string

	ErrorLabel   string
	CorrectLabel string

	Policy              Policy
	EditDistance        int
	TrainingErrorsEvery int
	TestingErrorsEvery  int
	TestFraction        float64
	ExtractSeed         int64
	InjectSeed          int64

	SentenceTerminators string
	SpecialSymbols      string
	DocEndPattern       string

	TriggerWordsFile string
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	RedisKey         string

	VocabularyStore    string
	VocabularySnapshot string
	// LexiconSnapshot names a stored vocabulary to draw replacements from
	// instead of the training vocabulary.
	LexiconSnapshot string

	TaggerCommand string

	Learn                    bool
	CRFTemplateFile          string
	CRFTrainFile             string
	CRFTestFile              string
	CRFModelFile             string
	CRFResultFile            string
	CRFAlgorithm             string
	CRFC                     float64
	CRFF                     int
	CRFTestWithProbabilities bool
	CRFUncertaintyThreshold  float64
	CRFUncertainLabelsFile   string
	LearnerTimeout           time.Duration
}

func Defaults() Config {
	return Config{
		Mode:                   ModePlain,
		TrainingSentencesFile:  "training_sentences.txt",
		TestSentencesFile:      "test_sentences.txt",
		TrainingErrorsFile:     "training_errors.txt",
		TestErrorsFile:         "test_errors.txt",
		WordsListFile:          "words_list.txt",
		ResultsFile:            "final_result.txt",
		ErrorLabel:             "1",
		CorrectLabel:           "0",
		Policy:                 PolicyPerSentence,
		EditDistance:           1,
		TrainingErrorsEvery:    300,
		TestingErrorsEvery:     300,
		TestFraction:           0.1,
		ExtractSeed:            10,
		InjectSeed:             10,
		SentenceTerminators:    `[.!?؟]+`,
		SpecialSymbols:         "[-:_~/><\"\\[\\]{}()+*|'=&^%$#@`]",
		DocEndPattern:          `</DOC>`,
		RedisDB:                0,
		RedisKey:               "trigger_words",
		VocabularySnapshot:     "training",
		Learn:                  true,
		CRFTrainFile:           "crf_train.txt",
		CRFTestFile:            "crf_test.txt",
		CRFModelFile:           "crf_model",
		CRFResultFile:          "crf_result.txt",
		CRFAlgorithm:           "CRF-L2",
		CRFC:                   1,
		CRFF:                   1,
		CRFUncertainLabelsFile: "uncertain_labels.txt",
		LearnerTimeout:         time.Hour,
	}
}

var keys = []string{
	"CORPUS_MODE", "SOURCE", "DESTINATION",
	"CORPUS_TRAINING_SENTENCES_FILE", "CORPUS_TEST_SENTENCES_FILE", "CORPUS_VOCABULARY_FILE",
	"CORPUS_TRAINING_ERRORS_FILE", "CORPUS_TEST_ERRORS_FILE", "WORDS_LIST_FILE", "RESULTS_FILE",
	"SPELLING_ERROR_LABEL", "CORRECT_SPELLING_LABEL",
	"INJECTION_POLICY", "EDIT_DISTANCE", "TRAINING_ERRORS_IN_EVERY", "TESTING_ERRORS_IN_EVERY",
	"PERCENTAGE_OF_TEST_SET", "TEST_SET_SEED", "INJECTION_SEED",
	"SENTENCE_TERMINATORS", "SPECIAL_SYMBOLS", "DOC_END_PATTERN",
	"TRIGGER_WORDS_FILE", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "REDIS_KEY",
	"VOCABULARY_STORE", "VOCABULARY_SNAPSHOT", "LEXICON_SNAPSHOT", "TAGGER_COMMAND",
	"LEARNER_ENABLED", "CRF_TEMPLATE_FILE", "CRF_TRAIN_FILE", "CRF_TEST_FILE", "CRF_MODEL_FILE",
	"CRF_RESULT_FILE", "CRF_TRAIN_FILE_PARAM_A", "CRF_TRAIN_FILE_PARAM_C", "CRF_TRAIN_FILE_PARAM_F",
	"CRF_TEST_WITH_PROBABILITIES", "CRF_UNCERTAINTY_THRESHOLD", "CRF_UNCERTAIN_LABELS_FILE", "LEARNER_TIMEOUT",
}

// values holds raw settings and records the ones that had to fall back to
// a default.
type values struct {
	raw      map[string]string
	warnings []string
}

func (v *values) getenv(key, def string) string {
	if s := strings.TrimSpace(v.raw[key]); s != "" {
		return s
	}
	return def
}

func (v *values) getEnvInt(key string, def int) int {
	s := v.getenv(key, "")
	if s == "" {
		return def
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	v.warnings = append(v.warnings, fmt.Sprintf("%s=%q is not an integer, using %d", key, s, def))
	return def
}

func (v *values) getEnvInt64(key string, def int64) int64 {
	s := v.getenv(key, "")
	if s == "" {
		return def
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	v.warnings = append(v.warnings, fmt.Sprintf("%s=%q is not an integer, using %d", key, s, def))
	return def
}

func (v *values) getEnvFloat(key string, def float64) float64 {
	s := v.getenv(key, "")
	if s == "" {
		return def
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	v.warnings = append(v.warnings, fmt.Sprintf("%s=%q is not a number, using %g", key, s, def))
	return def
}

func (v *values) getEnvBool(key string, def bool) bool {
	s := v.getenv(key, "")
	if s == "" {
		return def
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	v.warnings = append(v.warnings, fmt.Sprintf("%s=%q is not a boolean, using %t", key, s, def))
	return def
}

func (v *values) getEnvDuration(key string, def time.Duration) time.Duration {
	s := v.getenv(key, "")
	if s == "" {
		return def
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	v.warnings = append(v.warnings, fmt.Sprintf("%s=%q is not a duration, using %s", key, s, def))
	return def
}

// Load reads path (skipped when empty), applies environment overrides and
// validates the result. Settings that fell back to a default are returned
// as warnings.
func Load(path string) (Config, []string, error) {
	raw := map[string]string{}
	if path != "" {
		var err error
		if raw, err = godotenv.Read(path); err != nil {
			return Config{}, nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	for _, k := range keys {
		if s, ok := os.LookupEnv(k); ok {
			raw[k] = s
		}
	}
	return FromMap(raw)
}

// FromMap builds a Config from raw KEY=VALUE settings.
func FromMap(raw map[string]string) (Config, []string, error) {
	v := &values{raw: raw}
	d := Defaults()

	c := Config{
		Mode:        Mode(strings.ToUpper(v.getenv("CORPUS_MODE", string(d.Mode)))),
		Source:      v.getenv("SOURCE", ""),
		Destination: v.getenv("DESTINATION", ""),

		TrainingSentencesFile: v.getenv("CORPUS_TRAINING_SENTENCES_FILE", d.TrainingSentencesFile),
		TestSentencesFile:     v.getenv("CORPUS_TEST_SENTENCES_FILE", d.TestSentencesFile),
		VocabularyFile:        v.getenv("CORPUS_VOCABULARY_FILE", d.VocabularyFile),
		TrainingErrorsFile:    v.getenv("CORPUS_TRAINING_ERRORS_FILE", d.TrainingErrorsFile),
		TestErrorsFile:        v.getenv("CORPUS_TEST_ERRORS_FILE", d.TestErrorsFile),
		WordsListFile:         v.getenv("WORDS_LIST_FILE", d.WordsListFile),
		ResultsFile:           v.getenv("RESULTS_FILE", d.ResultsFile),

		ErrorLabel:   v.getenv("SPELLING_ERROR_LABEL", d.ErrorLabel),
		CorrectLabel: v.getenv("CORRECT_SPELLING_LABEL", d.CorrectLabel),

		Policy:              Policy(strings.ToLower(v.getenv("INJECTION_POLICY", string(d.Policy)))),
		EditDistance:        v.getEnvInt("EDIT_DISTANCE", d.EditDistance),
		TrainingErrorsEvery: v.getEnvInt("TRAINING_ERRORS_IN_EVERY", d.TrainingErrorsEvery),
		TestingErrorsEvery:  v.getEnvInt("TESTING_ERRORS_IN_EVERY", d.TestingErrorsEvery),
		ExtractSeed:         v.getEnvInt64("TEST_SET_SEED", d.ExtractSeed),
		InjectSeed:          v.getEnvInt64("INJECTION_SEED", d.InjectSeed),

		SentenceTerminators: v.getenv("SENTENCE_TERMINATORS", d.SentenceTerminators),
		SpecialSymbols:      v.getenv("SPECIAL_SYMBOLS", d.SpecialSymbols),
		DocEndPattern:       v.getenv("DOC_END_PATTERN", d.DocEndPattern),

		TriggerWordsFile: v.getenv("TRIGGER_WORDS_FILE", ""),
		RedisAddr:        v.getenv("REDIS_ADDR", ""),
		RedisPassword:    v.getenv("REDIS_PASSWORD", ""),
		RedisDB:          v.getEnvInt("REDIS_DB", d.RedisDB),
		RedisKey:         v.getenv("REDIS_KEY", d.RedisKey),

		VocabularyStore:    v.getenv("VOCABULARY_STORE", ""),
		VocabularySnapshot: v.getenv("VOCABULARY_SNAPSHOT", d.VocabularySnapshot),
		LexiconSnapshot:    v.getenv("LEXICON_SNAPSHOT", ""),

		TaggerCommand: v.getenv("TAGGER_COMMAND", ""),

		Learn:                    v.getEnvBool("LEARNER_ENABLED", d.Learn),
		CRFTemplateFile:          v.getenv("CRF_TEMPLATE_FILE", ""),
		CRFTrainFile:             v.getenv("CRF_TRAIN_FILE", d.CRFTrainFile),
		CRFTestFile:              v.getenv("CRF_TEST_FILE", d.CRFTestFile),
		CRFModelFile:             v.getenv("CRF_MODEL_FILE", d.CRFModelFile),
		CRFResultFile:            v.getenv("CRF_RESULT_FILE", d.CRFResultFile),
		CRFAlgorithm:             v.getenv("CRF_TRAIN_FILE_PARAM_A", d.CRFAlgorithm),
		CRFC:                     v.getEnvFloat("CRF_TRAIN_FILE_PARAM_C", d.CRFC),
		CRFF:                     v.getEnvInt("CRF_TRAIN_FILE_PARAM_F", d.CRFF),
		CRFTestWithProbabilities: v.getEnvBool("CRF_TEST_WITH_PROBABILITIES", d.CRFTestWithProbabilities),
		CRFUncertainLabelsFile:   v.getenv("CRF_UNCERTAIN_LABELS_FILE", d.CRFUncertainLabelsFile),
		LearnerTimeout:           v.getEnvDuration("LEARNER_TIMEOUT", d.LearnerTimeout),
	}

	c.TestFraction = d.TestFraction
	if s := v.getenv("PERCENTAGE_OF_TEST_SET", ""); s != "" {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Config{}, v.warnings, fmt.Errorf("%w: PERCENTAGE_OF_TEST_SET=%q", ErrInvalid, s)
		}
		c.TestFraction = f
	}

	if s := v.getenv("CRF_UNCERTAINTY_THRESHOLD", ""); s != "" {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || f < 0.5 || f > 1 {
			v.warnings = append(v.warnings, fmt.Sprintf("CRF_UNCERTAINTY_THRESHOLD=%q is not within [0.5, 1], no uncertain labels report", s))
		} else {
			c.CRFUncertaintyThreshold = f
		}
	}

	if c.CRFC <= 0 {
		v.warnings = append(v.warnings, fmt.Sprintf("CRF_TRAIN_FILE_PARAM_C=%g is not positive, using 1", c.CRFC))
		c.CRFC = 1
	}
	if c.CRFF < 1 {
		v.warnings = append(v.warnings, fmt.Sprintf("CRF_TRAIN_FILE_PARAM_F=%d is not positive, using 1", c.CRFF))
		c.CRFF = 1
	}

	if err := c.Validate(); err != nil {
		return Config{}, v.warnings, err
	}
	return c, v.warnings, nil
}

// Validate reports settings a run cannot proceed with.
func (c Config) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}
	if c.Mode != ModePlain && c.Mode != ModeXML {
		invalid("unknown corpus mode %q, expected XML or PLAIN", c.Mode)
	}
	if c.Source == "" {
		invalid("SOURCE is required")
	}
	if c.Destination == "" {
		invalid("DESTINATION is required")
	}
	if c.TestFraction < 0 || c.TestFraction >= 1 {
		invalid("PERCENTAGE_OF_TEST_SET=%g is not within [0, 1)", c.TestFraction)
	}
	if c.Policy != PolicyPerSentence && c.Policy != PolicyEveryN {
		invalid("unknown injection policy %q", c.Policy)
	}
	if c.EditDistance != 1 && c.EditDistance != 2 {
		invalid("EDIT_DISTANCE=%d must be 1 or 2", c.EditDistance)
	}
	if c.Policy == PolicyEveryN && (c.TrainingErrorsEvery <= 0 || c.TestingErrorsEvery <= 0) {
		invalid("TRAINING_ERRORS_IN_EVERY and TESTING_ERRORS_IN_EVERY must be positive")
	}
	if c.ErrorLabel == c.CorrectLabel {
		invalid("error and correct labels must differ")
	}
	if c.LexiconSnapshot != "" && c.VocabularyStore == "" {
		invalid("LEXICON_SNAPSHOT needs VOCABULARY_STORE")
	}
	if c.Learn && c.CRFTemplateFile == "" {
		invalid("CRF_TEMPLATE_FILE is required when the learner is enabled")
	}
	return errors.Join(errs...)
}

// Output resolves an output file name against the destination directory.
// Absolute names and empty names are returned unchanged.
func (c Config) Output(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Destination, name)
}
