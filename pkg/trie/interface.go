/*
Package trie is the core of dictautocomp, providing the prefix trees that map
an input fragment to every stored word extending it.

Two implementations share the WordIndex interface:

	t := trie.New("dog", "dogged", "abacus")
	for w := range t.SuperWords("dog") {
		fmt.Println(w) // dog, dogged
	}

	ct := trie.NewCaseFolded("dog", "DOG")
	ct.Contains("Dog")    // true
	ct.SuperWords("Dog")  // yields dog, DOG

Trie is case sensitive and reports ErrNotFound when removing a word that is
not stored. CaseFoldedTrie matches under Fold and keeps every original
spelling; removing any spelling drops all spellings sharing its fold-key, and
removing an absent word is a no-op.

Neither type is safe for concurrent use. Callers sharing an instance across
goroutines must serialize access, including iteration over SuperWords.
*/
package trie

import "iter"

// WordIndex defines the operations shared by Trie and CaseFoldedTrie
type WordIndex interface {
	// Add stores a word
	Add(word string)

	// AddAll stores every word in order
	AddAll(words []string)

	// Remove deletes a word
	Remove(word string) error

	// Contains reports whether a word is stored
	Contains(word string) bool

	// SuperWords yields every stored word that has prefix as a prefix
	SuperWords(prefix string) iter.Seq[string]

	// Len returns the number of stored entries
	Len() int
}

var (
	_ WordIndex = (*Trie)(nil)
	_ WordIndex = (*CaseFoldedTrie)(nil)
)
