// Package tagger derives a trigger word list from part-of-speech tags when
// none is configured.
package tagger

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"os/exec"
	"strings"
	"unicode"
	"unicode/utf8"

	"spellcorpus/internal/corpus"
)

const (
	DefaultSentenceLimit = 1000
	DefaultSampleSize    = 100
	verbTag              = "VB"
	minVerbRunes         = 5
)

// Token is a word with its part-of-speech tag.
type Token struct {
	Word string
	Tag  string
}

type Tagger interface {
	Tag(ctx context.Context, sentences []string) ([]Token, error)
}

// Command feeds sentences, one per line, to an external tagger on stdin and
// reads "word/TAG" tokens from its stdout.
type Command struct {
	Path string
	Args []string
}

// NewCommand splits a command line on whitespace.
func NewCommand(commandLine string) (*Command, error) {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return nil, fmt.Errorf("tagger: empty command")
	}
	return &Command{Path: fields[0], Args: fields[1:]}, nil
}

func (c *Command) Tag(ctx context.Context, sentences []string) ([]Token, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Stdin = strings.NewReader(strings.Join(sentences, "\n") + "\n")
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("tagger: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return ParseTagged(string(out)), nil
}

// ParseTagged splits whitespace separated "word/TAG" tokens. Tokens without
// a tag are ignored.
func ParseTagged(out string) []Token {
	var tokens []Token
	for _, f := range strings.Fields(out) {
		i := strings.LastIndexByte(f, '/')
		if i <= 0 || i == len(f)-1 {
			continue
		}
		tokens = append(tokens, Token{Word: f[:i], Tag: f[i+1:]})
	}
	return tokens
}

// SelectVerbs keeps, in order, the verbs longer than four letters made only
// of letters that are not part of a verb already kept.
func SelectVerbs(tokens []Token) []string {
	var verbs []string
	for _, t := range tokens {
		if !strings.Contains(t.Tag, verbTag) || utf8.RuneCountInString(t.Word) < minVerbRunes || !letters(t.Word) {
			continue
		}
		if contained(t.Word, verbs) {
			continue
		}
		verbs = append(verbs, t.Word)
	}
	return verbs
}

func letters(w string) bool {
	for _, r := range w {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func contained(w string, in []string) bool {
	for _, v := range in {
		if strings.Contains(v, w) {
			return true
		}
	}
	return false
}

// Sample draws n words from words with replacement and returns the distinct
// picks in draw order.
func Sample(words []string, n int, rng *rand.Rand) []string {
	if len(words) == 0 {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for range n {
		w := words[rng.Intn(len(words))]
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

// Triggers tags the first limit sentences and samples n of their verbs.
func Triggers(ctx context.Context, t Tagger, sentences []corpus.Sentence, limit, n int, rng *rand.Rand) ([]string, error) {
	texts := make([]string, 0, min(limit, len(sentences)))
	for _, s := range sentences[:min(limit, len(sentences))] {
		texts = append(texts, s.Text)
	}
	tokens, err := t.Tag(ctx, texts)
	if err != nil {
		return nil, err
	}
	return Sample(SelectVerbs(tokens), n, rng), nil
}
