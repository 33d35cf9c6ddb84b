package corpus

import "slices"

// Direction is the step applied to indexes past a renumbering threshold.
type Direction int

const (
	Down Direction = -1
	Up   Direction = 1
)

// renumber moves i one step in dir when i is greater than threshold.
// Every index shift in this package goes through it: deleting position p uses
// (p, Down), inserting at p uses (p-1, Up) and popping sentence k uses (k, Down).
func renumber(i, threshold int, dir Direction) int {
	if i > threshold {
		return i + int(dir)
	}
	return i
}

func shiftPositions(positions []int, threshold int, dir Direction) []int {
	out := make([]int, len(positions))
	for i, p := range positions {
		out[i] = renumber(p, threshold, dir)
	}
	return out
}

func shiftSentences(occ Occurrences, threshold int, dir Direction) Occurrences {
	out := make(Occurrences, len(occ))
	for s, ps := range occ {
		out[renumber(s, threshold, dir)] = ps
	}
	return out
}

func shiftLedgerSentences(l Ledger, threshold int, dir Direction) Ledger {
	out := make(Ledger, len(l))
	for k, sub := range l {
		out[Key{Sentence: renumber(k.Sentence, threshold, dir), Position: k.Position}] = sub
	}
	return out
}

func shiftLedgerPositions(l Ledger, sentence, threshold int, dir Direction) Ledger {
	out := make(Ledger, len(l))
	for k, sub := range l {
		if k.Sentence == sentence {
			k.Position = renumber(k.Position, threshold, dir)
		}
		out[k] = sub
	}
	return out
}

// shiftWords renumbers, inside sentence s, the positions of each distinct word in words.
func (v Vocabulary) shiftWords(words []string, s, threshold int, dir Direction) {
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		occ, ok := v[w]
		if !ok {
			continue
		}
		if ps, ok := occ[s]; ok {
			occ[s] = shiftPositions(ps, threshold, dir)
		}
	}
}

func insertPosition(ps []int, p int) []int {
	i, found := slices.BinarySearch(ps, p)
	if found {
		return ps
	}
	return slices.Insert(ps, i, p)
}

func removePosition(ps []int, p int) []int {
	i, found := slices.BinarySearch(ps, p)
	if !found {
		return ps
	}
	return slices.Delete(ps, i, i+1)
}
