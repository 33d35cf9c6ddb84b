// Package injector replaces trigger words in a corpus with near neighbours
// from a lexicon and records every replacement in the corpus ledger.
package injector

import (
	"errors"
	"fmt"
	"log"
	"math/rand"

	"github.com/hbollon/go-edlib"

	"spellcorpus/internal/candidates"
	"spellcorpus/internal/corpus"
	"spellcorpus/pkg/options"
)

var ErrBlockSize = errors.New("block size must be positive")

// Substitution is one injected error.
type Substitution struct {
	Sentence  int
	Position  int
	Correct   string
	Incorrect string
	// Distance is the OSA distance between Correct and Incorrect.
	Distance int
}

// Block is an inclusive range of sentence indices.
type Block struct {
	First, Last int
}

type Result struct {
	Substitutions []Substitution
	// Misses lists the blocks that yielded no substitution.
	Misses []Block
}

type Injector struct {
	triggers map[string]struct{}
	opts     options.InjectorOptions
	rng      *rand.Rand
	logger   *log.Logger
}

func New(triggers []string, opts ...options.Options) *Injector {
	o := options.Build(opts...)
	t := make(map[string]struct{}, len(triggers))
	for _, w := range triggers {
		t[w] = struct{}{}
	}
	return &Injector{triggers: t, opts: o, rng: o.Source(), logger: o.Log()}
}

func (in *Injector) IsTrigger(word string) bool {
	_, ok := in.triggers[word]
	return ok
}

// prepare validates the pass parameters and freezes lex. The corpus is not
// touched when it fails.
func (in *Injector) prepare(lex candidates.Lexicon) (*candidates.Generator, error) {
	if d := in.opts.EditDistance; d != 1 && d != 2 {
		return nil, fmt.Errorf("%w: got %d", candidates.ErrDistance, d)
	}
	if lex == nil || lex.Len() == 0 {
		return nil, candidates.ErrEmptyVocabulary
	}
	frozen := candidates.Freeze(lex)
	return candidates.NewGenerator(frozen, candidates.AlphabetOf(frozen), in.opts.CacheSize)
}

// PerSentence substitutes at most one word per sentence: the leftmost
// trigger word, when it has candidates.
func (in *Injector) PerSentence(c *corpus.Corpus, lex candidates.Lexicon) (Result, error) {
	gen, err := in.prepare(lex)
	if err != nil {
		return Result{}, err
	}
	c.ClearLedger()

	var res Result
	for s := range c.Len() {
		tokens, _ := c.Tokens(s)
		for p, w := range tokens {
			if in.IsTrigger(w) {
				in.inject(c, gen, s, p, w, &res)
				break
			}
		}
	}
	return res, nil
}

// EveryN groups consecutive sentences into blocks of at least n words (the
// last block may be shorter) and substitutes one trigger word per block,
// skipping trigger words without candidates.
func (in *Injector) EveryN(c *corpus.Corpus, lex candidates.Lexicon, n int) (Result, error) {
	if n <= 0 {
		return Result{}, fmt.Errorf("%w: got %d", ErrBlockSize, n)
	}
	gen, err := in.prepare(lex)
	if err != nil {
		return Result{}, err
	}
	c.ClearLedger()

	var res Result
	for first := 0; first < c.Len(); {
		last, count := first, 0
		for ; last < c.Len(); last++ {
			tokens, _ := c.Tokens(last)
			if count += len(tokens); count >= n {
				break
			}
		}
		last = min(last, c.Len()-1)

		if !in.injectBlock(c, gen, Block{first, last}, &res) {
			in.logger.Printf("injector: no substitution in sentences %d-%d", first, last)
			res.Misses = append(res.Misses, Block{first, last})
		}
		first = last + 1
	}
	return res, nil
}

func (in *Injector) injectBlock(c *corpus.Corpus, gen *candidates.Generator, b Block, res *Result) bool {
	discarded := make(map[string]struct{})
	for s := b.First; s <= b.Last; s++ {
		tokens, _ := c.Tokens(s)
		for p, w := range tokens {
			if !in.IsTrigger(w) {
				continue
			}
			if _, ok := discarded[w]; ok {
				continue
			}
			if in.inject(c, gen, s, p, w, res) {
				return true
			}
			discarded[w] = struct{}{}
		}
	}
	return false
}

func (in *Injector) inject(c *corpus.Corpus, gen *candidates.Generator, s, p int, word string, res *Result) bool {
	cands, err := gen.Within(word, in.opts.EditDistance)
	if err != nil || len(cands) == 0 {
		return false
	}
	pick := cands[in.rng.Intn(len(cands))]
	if err := c.Substitute(word, pick, s, p); err != nil {
		in.logger.Printf("injector: substitute %q at %d:%d: %v", word, s, p, err)
		return false
	}
	res.Substitutions = append(res.Substitutions, Substitution{
		Sentence:  s,
		Position:  p,
		Correct:   word,
		Incorrect: pick,
		Distance:  edlib.OSADamerauLevenshteinDistance(word, pick),
	})
	return true
}
