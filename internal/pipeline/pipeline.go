// Package pipeline runs a whole corpus generation: load, split into
// training and test sets, inject errors, write reports and, optionally,
// train and score the external learner.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"

	"spellcorpus/internal/candidates"
	"spellcorpus/internal/config"
	"spellcorpus/internal/corpus"
	"spellcorpus/internal/injector"
	"spellcorpus/internal/learner"
	"spellcorpus/internal/markup"
	"spellcorpus/internal/report"
	"spellcorpus/internal/source"
	"spellcorpus/internal/store"
	"spellcorpus/internal/tagger"
	"spellcorpus/internal/wordlist"
	"spellcorpus/pkg/options"
)

var (
	ErrNoTriggers  = errors.New("no trigger words")
	ErrNoSentences = errors.New("no sentence contains a trigger word")
)

// Deps are the collaborators of a run. Every field may be nil.
type Deps struct {
	Triggers wordlist.Source
	Tagger   tagger.Tagger
	Learner  learner.Learner
	Store    *store.VocabularyStore
	Logger   *log.Logger
}

type Summary struct {
	Loaded           int
	Kept             int
	TrainingSize     int
	TestSize         int
	Triggers         int
	TrainingInjected int
	TestInjected     int
	Misses           int
	// Evaluation is nil when the learner did not run.
	Evaluation *learner.Evaluation
	Written    []string
}

type run struct {
	cfg     config.Config
	deps    Deps
	logger  *log.Logger
	summary Summary
}

func Run(ctx context.Context, cfg config.Config, deps Deps) (Summary, error) {
	if deps.Logger == nil {
		deps.Logger = log.Default()
	}
	r := &run{cfg: cfg, deps: deps, logger: deps.Logger}
	err := r.execute(ctx)
	return r.summary, err
}

func (r *run) execute(ctx context.Context) error {
	cfg := r.cfg
	seg, err := corpus.NewSegmenter(cfg.SentenceTerminators)
	if err != nil {
		return err
	}
	tok, err := corpus.NewTokenizer(cfg.SpecialSymbols)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.Destination, 0o755); err != nil {
		return fmt.Errorf("destination: %w", err)
	}

	sentences, err := r.load(seg)
	if err != nil {
		return err
	}
	r.summary.Loaded = len(sentences)
	r.logger.Printf("pipeline: loaded %d sentences", len(sentences))

	triggers, err := r.triggers(ctx, sentences)
	if err != nil {
		return err
	}
	r.summary.Triggers = len(triggers)
	if cfg.WordsListFile != "" {
		path := cfg.Output(cfg.WordsListFile)
		if err := wordlist.WriteFile(path, triggers); err != nil {
			return err
		}
		r.summary.Written = append(r.summary.Written, path)
	}

	kept := source.FilterByTriggers(sentences, triggers)
	r.summary.Kept = len(kept)
	if len(kept) == 0 {
		return ErrNoSentences
	}

	training := corpus.New(kept, tok)
	test, err := corpus.ExtractRandom(training, cfg.TestFraction, rand.New(rand.NewSource(cfg.ExtractSeed)))
	if err != nil {
		return err
	}
	r.summary.TrainingSize, r.summary.TestSize = training.Len(), test.Len()
	r.logger.Printf("pipeline: %d training and %d test sentences", training.Len(), test.Len())

	training.Build()
	lexicon, err := r.lexicon(training)
	if err != nil {
		return err
	}
	if cfg.VocabularyFile != "" {
		if err := r.write(cfg.VocabularyFile, func(w io.Writer) error {
			return report.WriteVocabulary(w, training.Vocabulary())
		}); err != nil {
			return err
		}
	}

	inj := injector.New(triggers,
		options.WithEditDistance(cfg.EditDistance),
		options.WithSeed(cfg.InjectSeed),
		options.WithLogger(r.logger))
	trainRes, err := r.inject(inj, training, lexicon, cfg.TrainingErrorsEvery)
	if err != nil {
		return err
	}
	testRes, err := r.inject(inj, test, lexicon, cfg.TestingErrorsEvery)
	if err != nil {
		return err
	}
	r.summary.TrainingInjected = len(trainRes.Substitutions)
	r.summary.TestInjected = len(testRes.Substitutions)
	r.summary.Misses = len(trainRes.Misses) + len(testRes.Misses)

	if err := r.writeCorpus(training, cfg.TrainingSentencesFile, cfg.TrainingErrorsFile, cfg.CRFTrainFile); err != nil {
		return err
	}
	if err := r.writeCorpus(test, cfg.TestSentencesFile, cfg.TestErrorsFile, cfg.CRFTestFile); err != nil {
		return err
	}

	if !cfg.Learn {
		return nil
	}
	if r.deps.Learner == nil {
		r.logger.Printf("pipeline: no learner available, skipping training")
		return nil
	}
	return r.learn(ctx)
}

func (r *run) load(seg *corpus.Segmenter) ([]corpus.Sentence, error) {
	loader := source.NewLoader(seg, r.logger)
	if r.cfg.Mode != config.ModeXML {
		return loader.LoadPath(r.cfg.Source)
	}
	stripper, err := markup.NewStripper(r.cfg.DocEndPattern, r.logger)
	if err != nil {
		return nil, err
	}
	files, err := stripper.StripPath(r.cfg.Source, r.cfg.Destination)
	if err != nil {
		return nil, err
	}
	r.summary.Written = append(r.summary.Written, files...)
	return loader.LoadFiles(files), nil
}

func (r *run) triggers(ctx context.Context, sentences []corpus.Sentence) ([]string, error) {
	var words []string
	if r.deps.Triggers != nil {
		var err error
		if words, err = r.deps.Triggers.Words(ctx); err != nil {
			return nil, fmt.Errorf("trigger words: %w", err)
		}
	}
	if len(words) == 0 && r.deps.Tagger != nil {
		r.logger.Printf("pipeline: no trigger words configured, deriving them from verbs")
		rng := rand.New(rand.NewSource(r.cfg.ExtractSeed))
		var err error
		words, err = tagger.Triggers(ctx, r.deps.Tagger, sentences, tagger.DefaultSentenceLimit, tagger.DefaultSampleSize, rng)
		if err != nil {
			return nil, err
		}
	}
	if len(words) == 0 {
		return nil, ErrNoTriggers
	}
	return words, nil
}

// lexicon snapshots the training vocabulary before any injection and, when
// configured, swaps in a stored vocabulary.
func (r *run) lexicon(training *corpus.Corpus) (candidates.Lexicon, error) {
	if r.deps.Store != nil {
		if err := r.deps.Store.Save(r.cfg.VocabularySnapshot, training.Vocabulary()); err != nil {
			return nil, fmt.Errorf("save vocabulary: %w", err)
		}
	}
	if r.cfg.LexiconSnapshot == "" {
		return candidates.Freeze(training.Vocabulary()), nil
	}
	if r.deps.Store == nil {
		return nil, fmt.Errorf("%w: no vocabulary store for lexicon %q", config.ErrInvalid, r.cfg.LexiconSnapshot)
	}
	v, err := r.deps.Store.Load(r.cfg.LexiconSnapshot)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *run) inject(inj *injector.Injector, c *corpus.Corpus, lex candidates.Lexicon, n int) (injector.Result, error) {
	if c.Len() == 0 {
		return injector.Result{}, nil
	}
	if r.cfg.Policy == config.PolicyEveryN {
		return inj.EveryN(c, lex, n)
	}
	return inj.PerSentence(c, lex)
}

func (r *run) writeCorpus(c *corpus.Corpus, sentencesFile, errorsFile, labeledFile string) error {
	sentences := c.Sentences()
	if err := r.write(sentencesFile, func(w io.Writer) error {
		return report.WriteSentences(w, sentences)
	}); err != nil {
		return err
	}
	ledger := c.Ledger()
	if err := r.write(errorsFile, func(w io.Writer) error {
		return report.WriteErrors(w, ledger)
	}); err != nil {
		return err
	}
	labeler := report.Labeler{Error: r.cfg.ErrorLabel, Correct: r.cfg.CorrectLabel}
	return r.write(labeledFile, func(w io.Writer) error {
		return labeler.Write(w, c)
	})
}

func (r *run) learn(ctx context.Context) error {
	cfg := r.cfg
	if cfg.LearnerTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.LearnerTimeout)
		defer cancel()
	}

	model, err := r.deps.Learner.Train(ctx, learner.Spec{
		Template:  cfg.CRFTemplateFile,
		Training:  cfg.Output(cfg.CRFTrainFile),
		Model:     cfg.Output(cfg.CRFModelFile),
		Algorithm: cfg.CRFAlgorithm,
		C:         cfg.CRFC,
		F:         cfg.CRFF,
	})
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}
	out, err := r.deps.Learner.Label(ctx, model, learner.Input{
		Path:          cfg.Output(cfg.CRFTestFile),
		Probabilities: cfg.CRFTestWithProbabilities,
	})
	if err != nil {
		return fmt.Errorf("label: %w", err)
	}
	if err := r.write(cfg.CRFResultFile, func(w io.Writer) error {
		_, err := w.Write(out)
		return err
	}); err != nil {
		return err
	}

	labels, err := learner.ParseLabels(bytes.NewReader(out))
	if err != nil {
		return fmt.Errorf("labeller output: %w", err)
	}
	eval := learner.Evaluate(labels, cfg.ErrorLabel)
	r.summary.Evaluation = &eval

	if cfg.CRFTestWithProbabilities && cfg.CRFUncertaintyThreshold > 0 {
		if err := r.write(cfg.CRFUncertainLabelsFile, func(w io.Writer) error {
			return learner.WriteUncertain(w, labels, cfg.CRFUncertaintyThreshold)
		}); err != nil {
			return err
		}
	}
	results := cfg.Output(cfg.ResultsFile)
	if err := learner.AppendResults(results, eval, 1); err != nil {
		return err
	}
	r.summary.Written = append(r.summary.Written, results)
	return nil
}

// write creates an output file under the destination. Empty names are
// skipped.
func (r *run) write(name string, fn func(io.Writer) error) error {
	if name == "" {
		return nil
	}
	path := r.cfg.Output(name)
	if err := report.WriteFile(path, fn); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	r.summary.Written = append(r.summary.Written, path)
	return nil
}
