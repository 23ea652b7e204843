/*
Package completion picks a word list for the file being edited and turns the
fragment under the cursor into completion strings.

A Completer owns one trie built from a word list together with the rule that
decides which files it serves. A Registry keeps completers in registration
order and activates the first one whose rule matches a file name:

	reg := completion.NewRegistry()
	reg.Register(c)
	reg.Activate("notes.md")
	res, ok := reg.Complete("dog", 10)
*/
package completion

import (
	"errors"
	"fmt"
	"iter"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/bastiangx/dictautocomp/pkg/dictionary"
	"github.com/bastiangx/dictautocomp/pkg/trie"
	"github.com/charmbracelet/log"
)

// Options describe a completer.
// Pattern, when set, is a regular expression searched in the file name and
// replaces Extensions.
type Options struct {
	File       string
	Extensions []string
	Pattern    string
	IgnoreCase bool
	MinLength  int
}

// Completer completes fragments from one word list.
// It is not safe for concurrent use; Registry serializes access.
type Completer struct {
	file       string
	extensions []string
	pattern    *regexp.Regexp
	ignoreCase bool
	minLength  int
	index      trie.WordIndex
}

// New loads the word list named by opts.File
func New(opts Options) (*Completer, error) {
	words, err := dictionary.LoadWords(opts.File)
	if err != nil {
		return nil, err
	}
	return NewFromWords(opts, words)
}

// NewFromWords builds a completer from words already in memory
func NewFromWords(opts Options, words []string) (*Completer, error) {
	c := &Completer{
		file:       opts.File,
		extensions: normalizeExtensions(opts.Extensions),
		ignoreCase: opts.IgnoreCase,
		minLength:  opts.MinLength,
	}
	if opts.Pattern != "" {
		re, err := regexp.Compile(opts.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid file pattern %q: %w", opts.Pattern, err)
		}
		c.pattern = re
		c.extensions = nil
	}
	if c.pattern == nil && len(c.extensions) == 0 {
		log.Warnf("Completer for %s has no extensions or pattern and will never activate", opts.File)
	}

	c.index = dictionary.NewIndex(words, c.ignoreCase)
	return c, nil
}

// normalizeExtensions drops leading dots and empty entries
func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.TrimPrefix(strings.TrimSpace(e), ".")
		if e != "" {
			out = append(out, e)
		}
	}
	return out
}

// File returns the word list path
func (c *Completer) File() string { return c.file }

// IgnoreCase reports whether matching is case-insensitive
func (c *Completer) IgnoreCase() bool { return c.ignoreCase }

// MinLength returns the shortest fragment, in characters, that gets completions
func (c *Completer) MinLength() int { return c.minLength }

// Extensions returns the file extensions served.
// It is empty when the completer uses a pattern.
func (c *Completer) Extensions() []string {
	return append([]string(nil), c.extensions...)
}

// Rule returns the file name pattern as a regular expression
func (c *Completer) Rule() string {
	if c.pattern != nil {
		return c.pattern.String()
	}
	if len(c.extensions) == 0 {
		return ""
	}
	quoted := make([]string, len(c.extensions))
	for i, e := range c.extensions {
		quoted[i] = regexp.QuoteMeta(e)
	}
	return `\.(?:` + strings.Join(quoted, "|") + `)$`
}

// Options returns the settings the completer was built with
func (c *Completer) Options() Options {
	opts := Options{
		File:       c.file,
		Extensions: c.Extensions(),
		IgnoreCase: c.ignoreCase,
		MinLength:  c.minLength,
	}
	if c.pattern != nil {
		opts.Pattern = c.pattern.String()
	}
	return opts
}

// Matches reports whether the completer serves filename
func (c *Completer) Matches(filename string) bool {
	if c.pattern != nil {
		return c.pattern.MatchString(filename)
	}
	for _, e := range c.extensions {
		if strings.HasSuffix(filename, "."+e) {
			return true
		}
	}
	return false
}

// Complete returns the stored words extending fragment, at most limit of them
// when limit > 0. Fragments shorter than MinLength get nothing.
func (c *Completer) Complete(fragment string, limit int) []string {
	fragment = strings.TrimSpace(fragment)
	if utf8.RuneCountInString(fragment) < c.minLength {
		return nil
	}

	var out []string
	for w := range c.index.SuperWords(fragment) {
		out = append(out, w)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

// Add stores words in the completer's trie
func (c *Completer) Add(words ...string) {
	c.index.AddAll(words)
}

// Remove deletes words and returns the ones that were not stored.
// Case-insensitive completers never report missing words.
func (c *Completer) Remove(words ...string) []string {
	var missing []string
	for _, w := range words {
		if err := c.index.Remove(w); errors.Is(err, trie.ErrNotFound) {
			log.Debugf("Remove from %s: %v", c.file, err)
			missing = append(missing, w)
		}
	}
	return missing
}

// Words returns every stored word in traversal order
func (c *Completer) Words() iter.Seq[string] {
	return c.index.SuperWords("")
}

// Contains reports whether word is stored
func (c *Completer) Contains(word string) bool {
	return c.index.Contains(word)
}

// Len returns the number of stored entries
func (c *Completer) Len() int {
	return c.index.Len()
}

// Dump returns the debug view of the trie
func (c *Completer) Dump() string {
	return fmt.Sprint(c.index)
}

func (c *Completer) String() string {
	return fmt.Sprintf("Completer(rule=%s, ignorecase=%t, min_length=%d, file=%s)",
		c.Rule(), c.ignoreCase, c.minLength, c.file)
}
