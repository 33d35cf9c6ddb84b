// Package markup turns files of markup documents into plain corpus text.
package markup

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"spellcorpus/internal/source"
)

const DefaultEndPattern = `</DOC>`

// ErrWrite marks a failure to write stripped output.
var ErrWrite = errors.New("markup: write failed")

// Stripper splits input into documents, each ending on a line matching the
// end pattern, and keeps only their character data.
type Stripper struct {
	end    *regexp.Regexp
	logger *log.Logger
}

func NewStripper(endPattern string, logger *log.Logger) (*Stripper, error) {
	if endPattern == "" {
		endPattern = DefaultEndPattern
	}
	end, err := regexp.Compile(endPattern)
	if err != nil {
		return nil, fmt.Errorf("markup: document end pattern: %w", err)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Stripper{end: end, logger: logger}, nil
}

// Strip returns the text of every complete document in input. Trailing
// lines after the last document end are dropped.
func (s *Stripper) Strip(input string) string {
	var out, block strings.Builder
	for line := range strings.Lines(input) {
		block.WriteString(line)
		if s.end.MatchString(line) {
			out.WriteString(Text(block.String()))
			block.Reset()
		}
	}
	if strings.TrimSpace(block.String()) != "" {
		s.logger.Printf("markup: dropping %d bytes after the last document end", block.Len())
	}
	return out.String()
}

// Text concatenates the character data of a markup fragment.
func Text(fragment string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(tokenizer.Text())
		}
	}
}

// StripFile writes the stripped content of src to dst.
func (s *Stripper) StripFile(src, dst string) error {
	text, err := source.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dst, []byte(s.Strip(text)), 0o644); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// StripPath strips src, a file or a directory of files, into dstDir. Each
// input gives one ".txt" output named after it. Unreadable inputs are
// logged and skipped; a failed write stops the run.
func (s *Stripper) StripPath(src, dstDir string) ([]string, error) {
	files, err := source.Files(src)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return nil, fmt.Errorf("markup: %w", err)
	}
	var written []string
	for _, f := range files {
		base := filepath.Base(f)
		dst := filepath.Join(dstDir, strings.TrimSuffix(base, filepath.Ext(base))+".txt")
		s.logger.Printf("markup: processing %s", f)
		if err := s.StripFile(f, dst); err != nil {
			switch {
			case errors.Is(err, ErrWrite):
				return written, err
			case errors.Is(err, source.ErrUnreadable):
				s.logger.Printf("markup: cannot read %s: not a readable text file", f)
			default:
				s.logger.Printf("markup: skipping %s: %v", f, err)
			}
			continue
		}
		written = append(written, dst)
	}
	return written, nil
}
