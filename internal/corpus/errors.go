package corpus

import "errors"

var (
	ErrSentenceIndex = errors.New("unacceptable sentence index")
	ErrPosition      = errors.New("unacceptable word position")
	ErrWordMismatch  = errors.New("word not found at position")
	ErrInvalidWord   = errors.New("word is not a single token")
	ErrFraction      = errors.New("fraction must be within [0, 1]")
)
