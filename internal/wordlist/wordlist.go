// Package wordlist reads and writes the trigger word list: the words the
// injector is allowed to misspell.
package wordlist

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Source yields a trigger word list.
type Source interface {
	Words(ctx context.Context) ([]string, error)
}

// Static is a fixed, in-memory list.
type Static []string

func (s Static) Words(context.Context) ([]string, error) { return s, nil }

// File is a list stored on disk, either as YAML with a top level "terms"
// sequence or as plain text with one word per line.
type File string

func (f File) Words(context.Context) ([]string, error) { return LoadFile(string(f)) }

func LoadFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read word list: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	}
	return ParsePlain(data), nil
}

func ParseYAML(data []byte) ([]string, error) {
	var doc struct {
		Terms []string `yaml:"terms"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse word list: %w", err)
	}
	return dedupe(doc.Terms), nil
}

// ParsePlain reads one word per line. Blank lines and lines starting with
// '#' are ignored.
func ParsePlain(data []byte) []string {
	var words []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	return dedupe(words)
}

// WriteFile stores words one per line.
func WriteFile(path string, words []string) error {
	var buf bytes.Buffer
	for _, w := range words {
		buf.WriteString(w)
		buf.WriteByte('\n')
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write word list: %w", err)
	}
	return nil
}

func dedupe(words []string) []string {
	seen := make(map[string]struct{}, len(words))
	out := words[:0]
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}
