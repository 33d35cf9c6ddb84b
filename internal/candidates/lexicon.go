package candidates

import (
	"maps"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
)

// Lexicon is any word -> data mapping used as a source of replacement words.
// corpus.Vocabulary satisfies it.
type Lexicon interface {
	Contains(word string) bool
	Len() int
	Words() []string
}

// WordSet is a plain set of words.
type WordSet map[string]struct{}

func NewWordSet(words ...string) WordSet {
	s := make(WordSet, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

// Freeze copies the words of lex so later changes to lex are not observed.
func Freeze(lex Lexicon) WordSet { return NewWordSet(lex.Words()...) }

func (s WordSet) Contains(word string) bool {
	_, ok := s[word]
	return ok
}

func (s WordSet) Len() int { return len(s) }

func (s WordSet) Words() []string { return slices.Sorted(maps.Keys(s)) }

// Alphabet is the sorted set of characters words are built from.
type Alphabet []rune

// AlphabetOf returns the characters used by the words of lex.
func AlphabetOf(lex Lexicon) Alphabet { return BuildAlphabet(lex.Words()) }

func BuildAlphabet(words []string) Alphabet {
	set := mapset.NewThreadUnsafeSet[rune]()
	for _, w := range words {
		for _, r := range w {
			set.Add(r)
		}
	}
	out := Alphabet(set.ToSlice())
	slices.Sort(out)
	return out
}
