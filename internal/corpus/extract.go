package corpus

import (
	"fmt"
	"math"
	"math/rand"
)

// ExtractRandom pops ceil(Len*fraction) randomly chosen sentences out of c and
// returns them as a new corpus sharing c's tokenizer. The popped sentences keep
// the order in which they were drawn.
func ExtractRandom(c *Corpus, fraction float64, rng *rand.Rand) (*Corpus, error) {
	if math.IsNaN(fraction) || fraction < 0 || fraction > 1 {
		return nil, fmt.Errorf("%w: got %v", ErrFraction, fraction)
	}
	n := int(math.Ceil(float64(c.Len()) * fraction))
	out := make([]Sentence, 0, n)
	for i := 0; i < n; i++ {
		sent, err := c.PopSentence(rng.Intn(c.Len()))
		if err != nil {
			return nil, err
		}
		out = append(out, sent)
	}
	return New(out, c.tok), nil
}
