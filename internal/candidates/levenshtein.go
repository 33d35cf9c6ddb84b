package candidates

// Levenshtein is the unit cost edit distance between s and t over runes,
// computed with a single DP row.
func Levenshtein(s, t string) int {
	if s == t {
		return 0
	}
	rs, rt := []rune(s), []rune(t)
	if len(rs) == 0 {
		return len(rt)
	}
	if len(rt) == 0 {
		return len(rs)
	}
	row := make([]int, len(rt)+1)
	for j := range row {
		row[j] = j
	}
	for i := 1; i <= len(rs); i++ {
		diag := row[0]
		row[0] = i
		for j := 1; j <= len(rt); j++ {
			above := row[j]
			cost := 1
			if rs[i-1] == rt[j-1] {
				cost = 0
			}
			row[j] = min(row[j-1]+1, above+1, diag+cost)
			diag = above
		}
	}
	return row[len(rt)]
}
