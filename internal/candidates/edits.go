package candidates

import (
	"errors"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
	lru "github.com/hashicorp/golang-lru"
)

var (
	ErrEmptyAlphabet   = errors.New("cannot return words with edit distance: the given alphabet is empty")
	ErrEmptyVocabulary = errors.New("cannot return words with edit distance: the given vocabulary is empty")
	ErrDistance        = errors.New("edit distance must be 1 or 2")
)

const DefaultCacheSize = 8192

func check(lex Lexicon, alphabet Alphabet) error {
	if len(alphabet) == 0 {
		return ErrEmptyAlphabet
	}
	if lex == nil || lex.Len() == 0 {
		return ErrEmptyVocabulary
	}
	return nil
}

// Edits1 returns the words of lex one deletion, adjacent transposition,
// substitution or insertion away from word. Transpositions and substitutions
// that give back word itself are left out.
func Edits1(word string, lex Lexicon, alphabet Alphabet) (mapset.Set[string], error) {
	if err := check(lex, alphabet); err != nil {
		return nil, err
	}
	return edits1(word, lex, alphabet), nil
}

// Edits2 returns the words of lex reachable from word through one Edits1 step
// from some Edits1 result.
func Edits2(word string, lex Lexicon, alphabet Alphabet) (mapset.Set[string], error) {
	if err := check(lex, alphabet); err != nil {
		return nil, err
	}
	return edits2(word, func(w string) mapset.Set[string] { return edits1(w, lex, alphabet) }), nil
}

func edits1(word string, lex Lexicon, alphabet Alphabet) mapset.Set[string] {
	out := mapset.NewThreadUnsafeSet[string]()
	r := []rune(word)
	keep := func(cand string) {
		if lex.Contains(cand) {
			out.Add(cand)
		}
	}
	for i := 0; i <= len(r); i++ {
		left := string(r[:i])
		if i < len(r) {
			tail := string(r[i+1:])
			keep(left + tail)
			for _, c := range alphabet {
				if c != r[i] {
					keep(left + string(c) + tail)
				}
			}
		}
		if i+1 < len(r) && r[i] != r[i+1] {
			keep(left + string(r[i+1]) + string(r[i]) + string(r[i+2:]))
		}
		right := string(r[i:])
		for _, c := range alphabet {
			keep(left + string(c) + right)
		}
	}
	return out
}

func edits2(word string, one func(string) mapset.Set[string]) mapset.Set[string] {
	out := mapset.NewThreadUnsafeSet[string]()
	one(word).Each(func(e1 string) bool {
		one(e1).Each(func(e2 string) bool {
			out.Add(e2)
			return false
		})
		return false
	})
	return out
}

// Generator produces candidates against one lexicon and alphabet, memoizing
// single-edit results. The lexicon must not change while the generator is used.
type Generator struct {
	lex      Lexicon
	alphabet Alphabet
	memo     *lru.Cache
}

func NewGenerator(lex Lexicon, alphabet Alphabet, cacheSize int) (*Generator, error) {
	if err := check(lex, alphabet); err != nil {
		return nil, err
	}
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	memo, err := lru.New(cacheSize)
	if err != nil {
		return nil, err
	}
	return &Generator{lex: lex, alphabet: alphabet, memo: memo}, nil
}

func (g *Generator) Alphabet() Alphabet { return g.alphabet }

// Edits1 is the memoized form of the package level Edits1. The returned set
// is shared and must not be modified.
func (g *Generator) Edits1(word string) mapset.Set[string] {
	if v, ok := g.memo.Get(word); ok {
		return v.(mapset.Set[string])
	}
	s := edits1(word, g.lex, g.alphabet)
	g.memo.Add(word, s)
	return s
}

func (g *Generator) Edits2(word string) mapset.Set[string] {
	return edits2(word, g.Edits1)
}

// Within returns, sorted, the words of the lexicon d edits away from word,
// word itself excluded.
func (g *Generator) Within(word string, d int) ([]string, error) {
	var set mapset.Set[string]
	switch d {
	case 1:
		set = g.Edits1(word)
	case 2:
		set = g.Edits2(word)
	default:
		return nil, ErrDistance
	}
	out := make([]string, 0, set.Cardinality())
	set.Each(func(w string) bool {
		if w != word {
			out = append(out, w)
		}
		return false
	})
	slices.Sort(out)
	return out, nil
}
