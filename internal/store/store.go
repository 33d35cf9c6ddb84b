// Package store persists vocabulary snapshots in badger so a lexicon built
// from one corpus can serve as the replacement source for another.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v3"

	"spellcorpus/internal/corpus"
)

var (
	ErrNotFound = errors.New("vocabulary snapshot not found")
	ErrName     = errors.New("snapshot name must be non-empty and free of ':'")
)

const vocabularyKeyFormat = "vocab:%s:%s"

type VocabularyStore struct {
	DB *badger.DB
}

// Open opens the store at path. An empty path keeps everything in memory.
func Open(path string) (*VocabularyStore, error) {
	opts := badger.DefaultOptions(path).WithLoggingLevel(badger.WARNING)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open vocabulary store: %w", err)
	}
	return &VocabularyStore{DB: db}, nil
}

func (vs *VocabularyStore) Close() error { return vs.DB.Close() }

func prefix(name string) []byte { return fmt.Appendf(nil, "vocab:%s:", name) }

func checkName(name string) error {
	if name == "" || strings.Contains(name, ":") {
		return fmt.Errorf("%w: %q", ErrName, name)
	}
	return nil
}

// Save replaces the snapshot called name with v.
func (vs *VocabularyStore) Save(name string, v corpus.Vocabulary) error {
	if err := checkName(name); err != nil {
		return err
	}
	old, err := vs.words(name)
	if err != nil {
		return err
	}

	wb := vs.DB.NewWriteBatch()
	defer wb.Cancel()

	for _, word := range old {
		if v.Contains(word) {
			continue
		}
		if err := wb.Delete(fmt.Appendf(nil, vocabularyKeyFormat, name, word)); err != nil {
			return err
		}
	}
	for word, occ := range v {
		val, err := json.Marshal(occ)
		if err != nil {
			return err
		}
		if err := wb.Set(fmt.Appendf(nil, vocabularyKeyFormat, name, word), val); err != nil {
			return err
		}
	}
	return wb.Flush()
}

func (vs *VocabularyStore) words(name string) ([]string, error) {
	var out []string
	p := prefix(name)
	err := vs.DB.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = p
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			out = append(out, string(it.Item().Key()[len(p):]))
		}
		return nil
	})
	return out, err
}

// Load returns the snapshot called name, or ErrNotFound.
func (vs *VocabularyStore) Load(name string) (corpus.Vocabulary, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	out := make(corpus.Vocabulary)
	p := prefix(name)
	err := vs.DB.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = p
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			word := string(item.Key()[len(p):])
			val, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			occ := corpus.Occurrences{}
			if err := json.Unmarshal(val, &occ); err != nil {
				return fmt.Errorf("decode %q: %w", word, err)
			}
			out[word] = occ
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return out, nil
}
