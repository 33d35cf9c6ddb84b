// Package report writes a corpus, its error ledger and its vocabulary in
// the formats read by people and by the learner.
package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"spellcorpus/internal/corpus"
)

const (
	sentenceSeparator   = "###########################"
	vocabularySeparator = "########################"
)

var rule = strings.Repeat("_", 80)

// WriteFile creates path and hands a buffered writer to write.
func WriteFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	bw := bufio.NewWriter(f)
	if err := write(bw); err != nil {
		return err
	}
	return bw.Flush()
}

// WriteSentences writes each sentence with its terminator, followed by a
// separator line.
func WriteSentences(w io.Writer, sentences []corpus.Sentence) error {
	for _, s := range sentences {
		if _, err := fmt.Fprintf(w, "%s\n%s\n", s, sentenceSeparator); err != nil {
			return err
		}
	}
	return nil
}

// WriteErrors writes one fixed width row per ledger entry, ordered by
// sentence then position.
func WriteErrors(w io.Writer, ledger corpus.Ledger) error {
	if _, err := fmt.Fprintf(w, "%-20s%-20s%-20s%-20s\n%s\n", "CORRECT", "INCORRECT", "SENTENCE", "POSITION", rule); err != nil {
		return err
	}
	for _, e := range ledger.Entries() {
		if _, err := fmt.Fprintf(w, "%-20s%-20s%-20d%d\n", e.Correct, e.Incorrect, e.Sentence, e.Position); err != nil {
			return err
		}
	}
	return nil
}

// WriteVocabulary writes one block per word, in word order, listing the
// sentences it occurs in and its positions there.
func WriteVocabulary(w io.Writer, v corpus.Vocabulary) error {
	if _, err := fmt.Fprintf(w, "%-20s%-20s%s\n%s\n", "WORD", "SENTENCE NO.", "POSITIONS", rule); err != nil {
		return err
	}
	for _, word := range v.Words() {
		if _, err := fmt.Fprintf(w, "%s:", word); err != nil {
			return err
		}
		for _, s := range v.Sentences(word) {
			if _, err := fmt.Fprintf(w, "%-20s%-20d%s\n", "", s, positions(v[word][s])); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, vocabularySeparator); err != nil {
			return err
		}
	}
	return nil
}

func positions(ps []int) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = strconv.Itoa(p)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Labeler writes the token-per-line training format: every token of a
// sentence on its own line ending in a label, a line for the terminator,
// then a blank line.
type Labeler struct {
	Error   string
	Correct string
	// Features, when set, adds tab separated columns between a token and its
	// label. It is called with position -1 for the terminator line.
	Features func(sentence, position int, token string) []string
}

func (l Labeler) Write(w io.Writer, c *corpus.Corpus) error {
	ledger := c.Ledger()
	for s, sentence := range c.Sentences() {
		tokens, err := c.Tokens(s)
		if err != nil {
			return err
		}
		for p, tok := range tokens {
			label := l.Correct
			if _, ok := ledger[corpus.Key{Sentence: s, Position: p}]; ok {
				label = l.Error
			}
			if err := l.line(w, s, p, tok, label); err != nil {
				return err
			}
		}
		if err := l.line(w, s, -1, sentence.Terminator, l.Correct); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

func (l Labeler) line(w io.Writer, s, p int, tok, label string) error {
	fields := []string{tok}
	if l.Features != nil {
		fields = append(fields, l.Features(s, p, tok)...)
	}
	fields = append(fields, label)
	_, err := io.WriteString(w, strings.Join(fields, "\t")+"\n")
	return err
}
