package corpus

import (
	"fmt"
	"slices"
	"strings"
)

// locate validates (word, s, p) against the current text of sentence s and
// returns its tokens.
func (c *Corpus) locate(op, word string, s, p int) ([]string, error) {
	if err := c.checkSentence(op, s); err != nil {
		return nil, err
	}
	if p < 0 {
		return nil, fmt.Errorf("cannot %s: %w: %d < 0", op, ErrPosition, p)
	}
	tokens := c.tok.Words(c.sentences[s].Text)
	if p >= len(tokens) {
		return nil, fmt.Errorf("cannot %s: %w: %d out of range [0, %d)", op, ErrPosition, p, len(tokens))
	}
	if tokens[p] != word {
		return nil, fmt.Errorf("cannot %s %q: %w in sentence %d, found %q in: %s",
			op, word, ErrWordMismatch, s, tokens[p], strings.Join(tokens, " "))
	}
	return tokens, nil
}

// DeleteWord removes word from sentence s at position p. Nothing changes when
// the arguments do not address word exactly.
func (c *Corpus) DeleteWord(word string, s, p int) error {
	tokens, err := c.locate("delete word", word, s, p)
	if err != nil {
		return err
	}
	c.deleteAt(tokens, word, s, p)
	return nil
}

func (c *Corpus) deleteAt(tokens []string, word string, s, p int) {
	rest := slices.Delete(slices.Clone(tokens), p, p+1)
	c.sentences[s].Text = strings.Join(rest, " ")

	delete(c.ledger, Key{Sentence: s, Position: p})
	c.ledger = shiftLedgerPositions(c.ledger, s, p, Down)

	if !c.built {
		return
	}
	c.unindex(word, s, p)
	c.vocab.shiftWords(rest[p:], s, p, Down)
	c.words--
}

// AddWord inserts word into sentence s at position p. p may equal the number
// of words in the sentence, which appends.
func (c *Corpus) AddWord(word string, s, p int) error {
	if err := c.checkSentence("add word", s); err != nil {
		return err
	}
	if p < 0 {
		return fmt.Errorf("cannot add word: %w: %d < 0", ErrPosition, p)
	}
	tokens := c.tok.Words(c.sentences[s].Text)
	if p > len(tokens) {
		return fmt.Errorf("cannot add word: %w: %d out of range [0, %d]", ErrPosition, p, len(tokens))
	}
	if !c.tok.IsWord(word) {
		return fmt.Errorf("cannot add %q: %w", word, ErrInvalidWord)
	}
	c.addAt(tokens, word, s, p)
	return nil
}

func (c *Corpus) addAt(tokens []string, word string, s, p int) {
	after := slices.Clone(tokens[p:])
	c.sentences[s].Text = strings.Join(slices.Insert(slices.Clone(tokens), p, word), " ")

	c.ledger = shiftLedgerPositions(c.ledger, s, p-1, Up)

	if !c.built {
		return
	}
	c.vocab.shiftWords(after, s, p-1, Up)
	c.index(word, s, p)
	c.words++
}

// Substitute replaces word at (s, p) with replacement and records the
// substitution in the ledger. Either all of it applies or nothing does.
func (c *Corpus) Substitute(word, replacement string, s, p int) error {
	tokens, err := c.locate("substitute word", word, s, p)
	if err != nil {
		return err
	}
	if !c.tok.IsWord(replacement) {
		return fmt.Errorf("cannot substitute %q: %w", replacement, ErrInvalidWord)
	}

	key := Key{Sentence: s, Position: p}
	correct := word
	if prev, ok := c.ledger[key]; ok && prev.Incorrect == word {
		correct = prev.Correct
	}

	c.deleteAt(tokens, word, s, p)
	tokens = slices.Delete(tokens, p, p+1)
	c.addAt(tokens, replacement, s, p)

	c.ledger[key] = Substitution{Correct: correct, Incorrect: replacement}
	return nil
}

// PopSentence removes and returns sentence s. Vocabulary and ledger entries of
// the sentence are dropped and later sentences are renumbered.
func (c *Corpus) PopSentence(s int) (Sentence, error) {
	if err := c.checkSentence("pop sentence", s); err != nil {
		return Sentence{}, err
	}
	sent := c.sentences[s]
	c.sentences = slices.Delete(c.sentences, s, s+1)

	if c.built {
		tokens := c.tok.Words(sent.Text)
		for _, w := range tokens {
			occ, ok := c.vocab[w]
			if !ok {
				continue
			}
			delete(occ, s)
			if len(occ) == 0 {
				delete(c.vocab, w)
				c.distinct--
			}
		}
		c.words -= len(tokens)
		for w, occ := range c.vocab {
			c.vocab[w] = shiftSentences(occ, s, Down)
		}
	}

	for k := range c.ledger {
		if k.Sentence == s {
			delete(c.ledger, k)
		}
	}
	c.ledger = shiftLedgerSentences(c.ledger, s, Down)
	return sent, nil
}
