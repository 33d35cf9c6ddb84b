package corpus

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultTerminators matches Latin and Arabic sentence terminators.
const DefaultTerminators = `[.!?؟]+`

// Sentence is a corpus sentence together with the terminator that closed it.
// The terminator is empty for trailing text that was never terminated.
type Sentence struct {
	Text       string
	Terminator string
}

func (s Sentence) String() string { return s.Text + s.Terminator }

// Segmenter chops normalized text into sentences.
type Segmenter struct {
	split *regexp.Regexp
	whole *regexp.Regexp
}

func NewSegmenter(pattern string) (*Segmenter, error) {
	if pattern == "" {
		pattern = DefaultTerminators
	}
	split, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("terminator pattern: %w", err)
	}
	whole, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return nil, fmt.Errorf("terminator pattern: %w", err)
	}
	return &Segmenter{split: split, whole: whole}, nil
}

func DefaultSegmenter() *Segmenter {
	s, _ := NewSegmenter(DefaultTerminators)
	return s
}

// IsTerminator reports whether str as a whole is a sentence terminator.
func (s *Segmenter) IsTerminator(str string) bool { return s.whole.MatchString(str) }

// Split returns the sentences of text in order. The boolean is false when the
// text is empty or only whitespace, meaning there was nothing to segment.
func (s *Segmenter) Split(text string) ([]Sentence, bool) {
	if strings.TrimSpace(text) == "" {
		return nil, false
	}

	// fragments alternate between text and terminator matches
	var fragments []string
	last := 0
	for _, m := range s.split.FindAllStringIndex(text, -1) {
		if m[0] == m[1] {
			continue
		}
		fragments = append(fragments, text[last:m[0]], text[m[0]:m[1]])
		last = m[1]
	}
	fragments = append(fragments, text[last:])

	var out []Sentence
	var sentence strings.Builder
	for _, f := range fragments {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if s.IsTerminator(f) {
			out = append(out, Sentence{Text: sentence.String(), Terminator: f})
			sentence.Reset()
			continue
		}
		sentence.WriteString(f)
	}
	if sentence.Len() > 0 {
		out = append(out, Sentence{Text: sentence.String()})
	}
	return out, true
}
