package trie

import (
	"encoding/json"
	"fmt"
	"iter"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Fold returns the case-insensitive lookup key of s: the culture invariant
// full uppercase mapping followed by canonical decomposition (NFD).
// Precomposed and decomposed spellings of the same text fold identically.
func Fold(s string) string {
	// a Caser keeps state between calls, so each call gets its own
	return norm.NFD.String(cases.Upper(language.Und).String(s))
}

// CaseFoldedTrie matches words under Fold while remembering every original
// spelling inserted for each fold-key.
type CaseFoldedTrie struct {
	keys *Trie
	// variants holds original spellings per fold-key in insertion order.
	// A key is stored in keys iff its slice here exists and is non-empty.
	variants map[string][]string
	count    int
}

// NewCaseFolded creates a CaseFoldedTrie holding words
func NewCaseFolded(words ...string) *CaseFoldedTrie {
	t := &CaseFoldedTrie{
		keys:     New(),
		variants: make(map[string][]string),
	}
	t.AddAll(words)
	return t
}

// Add stores word under its fold-key. The same spelling added twice is
// recorded twice.
func (t *CaseFoldedTrie) Add(word string) {
	key := Fold(word)
	t.keys.Add(key)
	t.variants[key] = append(t.variants[key], word)
	t.count++
}

// AddAll stores every word in order
func (t *CaseFoldedTrie) AddAll(words []string) {
	for _, w := range words {
		t.Add(w)
	}
}

// Remove deletes every spelling sharing word's fold-key.
// Removing a word that is not stored does nothing and returns nil.
func (t *CaseFoldedTrie) Remove(word string) error {
	key := Fold(word)
	if !t.keys.Contains(key) {
		return nil
	}
	if err := t.keys.Remove(key); err != nil {
		return err
	}
	t.count -= len(t.variants[key])
	delete(t.variants, key)
	return nil
}

// Contains reports whether any spelling folding like word is stored
func (t *CaseFoldedTrie) Contains(word string) bool {
	return t.keys.Contains(Fold(word))
}

// Variants returns the original spellings stored under word's fold-key
func (t *CaseFoldedTrie) Variants(word string) []string {
	v := t.variants[Fold(word)]
	if len(v) == 0 {
		return nil
	}
	out := make([]string, len(v))
	copy(out, v)
	return out
}

// Len returns the number of recorded spellings, duplicates included
func (t *CaseFoldedTrie) Len() int {
	return t.count
}

// SuperWords yields the original spellings of every stored word whose
// fold-key starts with Fold(prefix). Keys are visited in Trie order and each
// key yields all of its spellings in insertion order.
func (t *CaseFoldedTrie) SuperWords(prefix string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for key := range t.keys.SuperWords(Fold(prefix)) {
			for _, w := range t.variants[key] {
				if !yield(w) {
					return
				}
			}
		}
	}
}

type foldedDump struct {
	Trie     map[string]any      `json:"trie"`
	Variants map[string][]string `json:"ignorecase_to_ogcase"`
}

func (t *CaseFoldedTrie) dump() foldedDump {
	return foldedDump{Trie: t.keys.tree(), Variants: t.variants}
}

// MarshalJSON encodes the internal structure for debugging.
func (t *CaseFoldedTrie) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.dump())
}

func (t *CaseFoldedTrie) String() string {
	data, err := json.MarshalIndent(t.dump(), "", "  ")
	if err != nil {
		return fmt.Sprintf("CaseFoldedTrie(<%v>)", err)
	}
	return "CaseFoldedTrie(" + string(data) + ")"
}
