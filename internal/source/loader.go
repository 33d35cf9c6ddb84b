// Package source loads corpus sentences from text files.
package source

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"spellcorpus/internal/corpus"
)

type Loader struct {
	Segmenter *corpus.Segmenter
	Logger    *log.Logger
}

func NewLoader(seg *corpus.Segmenter, logger *log.Logger) *Loader {
	if seg == nil {
		seg = corpus.DefaultSegmenter()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{Segmenter: seg, Logger: logger}
}

// LoadFile reads, cleans and segments one file.
func (l *Loader) LoadFile(path string) ([]corpus.Sentence, error) {
	text, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	sentences, _ := l.Segmenter.Split(Clean(text))
	return sentences, nil
}

// LoadPath loads a file, or every regular file of a directory in name
// order. Files that cannot be read are logged and skipped.
func (l *Loader) LoadPath(path string) ([]corpus.Sentence, error) {
	files, err := Files(path)
	if err != nil {
		return nil, err
	}
	return l.LoadFiles(files), nil
}

// LoadFiles loads files in order, logging and skipping the unreadable ones.
func (l *Loader) LoadFiles(files []string) []corpus.Sentence {
	var out []corpus.Sentence
	for _, f := range files {
		l.Logger.Printf("source: loading %s", f)
		sentences, err := l.LoadFile(f)
		if err != nil {
			if errors.Is(err, ErrUnreadable) {
				l.Logger.Printf("source: cannot read %s: not a readable text file", f)
			} else {
				l.Logger.Printf("source: skipping %s: %v", f, err)
			}
			continue
		}
		out = append(out, sentences...)
	}
	return out
}

// Files lists path itself when it is a file, or the regular files directly
// inside it when it is a directory.
func Files(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			files = append(files, filepath.Join(path, e.Name()))
		}
	}
	return files, nil
}

// FilterByTriggers keeps the sentences containing at least one trigger word.
func FilterByTriggers(sentences []corpus.Sentence, triggers []string) []corpus.Sentence {
	set := make(map[string]struct{}, len(triggers))
	for _, w := range triggers {
		set[w] = struct{}{}
	}
	var out []corpus.Sentence
	for _, s := range sentences {
		for _, w := range strings.Fields(s.Text) {
			if _, ok := set[w]; ok {
				out = append(out, s)
				break
			}
		}
	}
	return out
}
