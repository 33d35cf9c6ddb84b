package corpus

import (
	"maps"
	"slices"
)

// Occurrences maps a sentence index to the ascending positions a word holds in it.
type Occurrences map[int][]int

// Vocabulary maps each distinct word to its occurrences in the corpus.
type Vocabulary map[string]Occurrences

func (v Vocabulary) Contains(word string) bool {
	_, ok := v[word]
	return ok
}

func (v Vocabulary) Len() int { return len(v) }

// Words returns the distinct words in lexical order.
func (v Vocabulary) Words() []string {
	return slices.Sorted(maps.Keys(v))
}

// Sentences returns the sentence indices a word appears in, ascending.
func (v Vocabulary) Sentences(word string) []int {
	return slices.Sorted(maps.Keys(v[word]))
}

func (v Vocabulary) Clone() Vocabulary {
	out := make(Vocabulary, len(v))
	for w, occ := range v {
		c := make(Occurrences, len(occ))
		for s, ps := range occ {
			c[s] = slices.Clone(ps)
		}
		out[w] = c
	}
	return out
}
