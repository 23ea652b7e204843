/*
Package dictionary reads word lists from disk and turns them into tries.

A word list is plain text holding whitespace separated words, one or more per
line. Blank lines and repeated whitespace are ignored.
*/
package dictionary

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"os"
	"slices"
	"strings"

	"github.com/bastiangx/dictautocomp/pkg/trie"
	"github.com/charmbracelet/log"
)

// ErrMissingFile is returned when a word list does not exist
var ErrMissingFile = errors.New("word list not found")

// maxTokenSize bounds a single word; anything longer is rejected by the scanner
const maxTokenSize = 1024 * 1024

// ReadWords splits r on Unicode whitespace
func ReadWords(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxTokenSize)
	scanner.Split(bufio.ScanWords)

	var words []string
	for scanner.Scan() {
		words = append(words, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read words: %w", err)
	}
	return words, nil
}

// LoadWords reads the word list at path
func LoadWords(path string) ([]string, error) {
	if err := ValidateFileFormat(path, FormatText); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrMissingFile)
		}
		return nil, fmt.Errorf("failed to open word list %s: %w", path, err)
	}
	defer file.Close()

	words, err := ReadWords(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Debugf("Loaded %d words from %s", len(words), path)
	return words, nil
}

// NewIndex builds a trie holding words, case-insensitive if ignoreCase is set
func NewIndex(words []string, ignoreCase bool) trie.WordIndex {
	if ignoreCase {
		return trie.NewCaseFolded(words...)
	}
	return trie.New(words...)
}

// LoadIndex reads the word list at path into a new trie
func LoadIndex(path string, ignoreCase bool) (trie.WordIndex, error) {
	words, err := LoadWords(path)
	if err != nil {
		return nil, err
	}
	return NewIndex(words, ignoreCase), nil
}

// WriteWords writes words sorted, one per line
func WriteWords(w io.Writer, words iter.Seq[string]) error {
	sorted := slices.Sorted(words)
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strings.Join(sorted, "\n")); err != nil {
		return err
	}
	return bw.Flush()
}

// SaveWords writes words to path, replacing any existing file
func SaveWords(path string, words iter.Seq[string]) error {
	file, err := os.Create(path)
	if err != nil {
		log.Errorf("Failed to create word list: %v", err)
		return err
	}
	defer file.Close()

	if err := WriteWords(file, words); err != nil {
		return fmt.Errorf("failed to write word list %s: %w", path, err)
	}
	return file.Close()
}
