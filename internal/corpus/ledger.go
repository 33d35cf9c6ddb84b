package corpus

import (
	"cmp"
	"maps"
	"slices"
)

// Key addresses a word by sentence index and position.
type Key struct {
	Sentence int
	Position int
}

// Substitution records the word that was replaced and the word injected in its place.
type Substitution struct {
	Correct   string
	Incorrect string
}

// Ledger is the ground truth of injected errors.
type Ledger map[Key]Substitution

type Entry struct {
	Key
	Substitution
}

// Entries returns the ledger ordered by sentence, then position.
func (l Ledger) Entries() []Entry {
	out := make([]Entry, 0, len(l))
	for k, s := range l {
		out = append(out, Entry{Key: k, Substitution: s})
	}
	slices.SortFunc(out, func(a, b Entry) int {
		if c := cmp.Compare(a.Sentence, b.Sentence); c != 0 {
			return c
		}
		return cmp.Compare(a.Position, b.Position)
	})
	return out
}

func (l Ledger) Clone() Ledger { return maps.Clone(l) }
