package source

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/edsrzf/mmap-go"
	"golang.org/x/text/unicode/norm"
)

// ErrUnreadable marks a file whose content is not UTF-8 text.
var ErrUnreadable = errors.New("not a readable text file")

// ReadFile memory-maps path and returns its content NFC normalized.
func ReadFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() == 0 {
		return "", nil
	}

	m, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		return "", fmt.Errorf("mmap %s: %w", path, err)
	}
	defer m.Unmap()

	if !utf8.Valid(m) {
		return "", fmt.Errorf("%w: %s", ErrUnreadable, path)
	}
	return norm.NFC.String(string(m)), nil
}
