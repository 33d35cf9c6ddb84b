package corpus

import (
	"fmt"
	"slices"
)

// Corpus keeps the sentences, their vocabulary index and the error ledger
// consistent with each other. It is not safe for concurrent use.
type Corpus struct {
	sentences []Sentence
	tok       *Tokenizer

	vocab    Vocabulary
	built    bool
	words    int
	distinct int

	ledger Ledger
}

// New returns a corpus owning a copy of sentences. A nil tokenizer selects
// DefaultTokenizer.
func New(sentences []Sentence, tok *Tokenizer) *Corpus {
	if tok == nil {
		tok = DefaultTokenizer()
	}
	return &Corpus{
		sentences: slices.Clone(sentences),
		tok:       tok,
		vocab:     make(Vocabulary),
		ledger:    make(Ledger),
	}
}

func (c *Corpus) Tokenizer() *Tokenizer { return c.tok }

func (c *Corpus) Len() int { return len(c.sentences) }

// Sentences returns a copy of the sentences in corpus order.
func (c *Corpus) Sentences() []Sentence { return slices.Clone(c.sentences) }

func (c *Corpus) Sentence(s int) (Sentence, error) {
	if err := c.checkSentence("read", s); err != nil {
		return Sentence{}, err
	}
	return c.sentences[s], nil
}

// Tokens returns the words of sentence s.
func (c *Corpus) Tokens(s int) ([]string, error) {
	if err := c.checkSentence("read", s); err != nil {
		return nil, err
	}
	return c.tok.Words(c.sentences[s].Text), nil
}

// Build wipes the vocabulary and rebuilds it from the sentences. It returns
// false when the corpus is empty and nothing was built.
func (c *Corpus) Build() bool {
	c.ClearVocabulary()
	if len(c.sentences) == 0 {
		return false
	}
	for s, sent := range c.sentences {
		for p, w := range c.tok.Words(sent.Text) {
			occ, ok := c.vocab[w]
			if !ok {
				occ = make(Occurrences)
				c.vocab[w] = occ
			}
			occ[s] = append(occ[s], p)
			c.words++
		}
	}
	c.distinct = len(c.vocab)
	c.built = true
	return true
}

func (c *Corpus) ClearVocabulary() {
	c.vocab = make(Vocabulary)
	c.built = false
	c.words = 0
	c.distinct = 0
}

// Built reports whether the vocabulary is being maintained.
func (c *Corpus) Built() bool { return c.built }

// Vocabulary returns the live index. Callers must not modify it.
func (c *Corpus) Vocabulary() Vocabulary { return c.vocab }

// WordCount is the number of word occurrences in the indexed corpus.
func (c *Corpus) WordCount() int { return c.words }

// DistinctWordCount is the number of distinct indexed words.
func (c *Corpus) DistinctWordCount() int { return c.distinct }

// Ledger returns a copy of the error ledger.
func (c *Corpus) Ledger() Ledger { return c.ledger.Clone() }

func (c *Corpus) ClearLedger() { c.ledger = make(Ledger) }

func (c *Corpus) checkSentence(op string, s int) error {
	if s < 0 {
		return fmt.Errorf("cannot %s: %w: %d < 0", op, ErrSentenceIndex, s)
	}
	if s >= len(c.sentences) {
		return fmt.Errorf("cannot %s: %w: %d out of range [0, %d)", op, ErrSentenceIndex, s, len(c.sentences))
	}
	return nil
}

func (c *Corpus) index(word string, s, p int) {
	occ, ok := c.vocab[word]
	if !ok {
		occ = make(Occurrences)
		c.vocab[word] = occ
		c.distinct++
	}
	occ[s] = insertPosition(occ[s], p)
}

func (c *Corpus) unindex(word string, s, p int) {
	occ, ok := c.vocab[word]
	if !ok {
		return
	}
	if ps := removePosition(occ[s], p); len(ps) > 0 {
		occ[s] = ps
	} else {
		delete(occ, s)
	}
	if len(occ) == 0 {
		delete(c.vocab, word)
		c.distinct--
	}
}
