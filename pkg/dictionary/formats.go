package dictionary

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"
)

// FileFormat represents different dictionary file formats
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatText               // Whitespace separated word list
)

// sniffSize is how much of a file is inspected when validating text
const sniffSize = 1024

// FormatInfo contains metadata about a dictionary file format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatText: {
		Format:      FormatText,
		Description: "Plain Text Word List",
		Extensions:  []string{".txt", ".dic", ".lst", ".words"},
	},
}

func (f FileFormat) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Description
	}
	return "Unknown"
}

// ValidateFileFormat checks if a file matches the expected format.
// Word lists may carry any extension, so only the content is checked.
func ValidateFileFormat(filename string, expectedFormat FileFormat) error {
	fileInfo, err := os.Stat(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: %w", filename, ErrMissingFile)
		}
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}
	if fileInfo.IsDir() {
		return fmt.Errorf("%s is a directory, not a word list", filename)
	}

	switch expectedFormat {
	case FormatText:
		return validateTextFormat(filename)
	}
	return fmt.Errorf("unknown format: %v", expectedFormat)
}

// validateTextFormat checks that the head of a file looks like UTF-8 text
func validateTextFormat(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	buffer := make([]byte, sniffSize)
	n, err := io.ReadFull(file, buffer)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("failed to read from text file %s: %w", filename, err)
	}
	if !looksLikeText(buffer[:n]) {
		return fmt.Errorf("file %s does not look like a text word list", filename)
	}

	log.Debugf("Text file %s validated", filename)
	return nil
}

// looksLikeText rejects NUL bytes and invalid UTF-8. A rune cut off at the
// end of the sniffed window is tolerated.
func looksLikeText(head []byte) bool {
	if bytes.IndexByte(head, 0) >= 0 {
		return false
	}
	for len(head) > 0 {
		r, size := utf8.DecodeRune(head)
		if r == utf8.RuneError && size <= 1 {
			return len(head) < utf8.UTFMax && !utf8.FullRune(head)
		}
		head = head[size:]
	}
	return true
}

// DetectFileFormat attempts to detect the format of a file
func DetectFileFormat(filename string) (FileFormat, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, known := range supportedFormats[FormatText].Extensions {
		if ext == known {
			return FormatText, nil
		}
	}

	if err := ValidateFileFormat(filename, FormatText); err == nil {
		return FormatText, nil
	}
	return FormatUnknown, fmt.Errorf("unable to detect format for file %s", filename)
}

// GetFormatInfo returns information about a specific format
func GetFormatInfo(format FileFormat) (FormatInfo, bool) {
	info, exists := supportedFormats[format]
	return info, exists
}
