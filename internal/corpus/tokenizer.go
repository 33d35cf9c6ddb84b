package corpus

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultSpecialSymbols are characters that always stand as words of their own.
const DefaultSpecialSymbols = "[-:_~/><\"\\[\\]{}()+*|'=&^%$#@`]"

// Tokenizer divides a sentence into its words. Whitespace separates words and
// every match of the special symbol class becomes a separate word.
type Tokenizer struct {
	special *regexp.Regexp
}

func NewTokenizer(pattern string) (*Tokenizer, error) {
	if pattern == "" {
		pattern = DefaultSpecialSymbols
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("special symbols pattern: %w", err)
	}
	return &Tokenizer{special: re}, nil
}

func DefaultTokenizer() *Tokenizer {
	t, _ := NewTokenizer(DefaultSpecialSymbols)
	return t
}

func (t *Tokenizer) Words(sentence string) []string {
	var out []string
	for _, field := range strings.Fields(sentence) {
		last := 0
		for _, m := range t.special.FindAllStringIndex(field, -1) {
			if m[0] == m[1] {
				continue
			}
			if m[0] > last {
				out = append(out, field[last:m[0]])
			}
			out = append(out, field[m[0]:m[1]])
			last = m[1]
		}
		if last < len(field) {
			out = append(out, field[last:])
		}
	}
	return out
}

// IsWord reports whether w tokenizes to exactly itself.
func (t *Tokenizer) IsWord(w string) bool {
	toks := t.Words(w)
	return len(toks) == 1 && toks[0] == w
}
