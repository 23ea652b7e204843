package trie

import (
	"encoding/json"
	"errors"
	"fmt"
	"iter"
)

// ErrNotFound is returned by Trie.Remove when the word is not stored
var ErrNotFound = errors.New("word not found")

// Trie is a case sensitive prefix tree of runes
type Trie struct {
	root  *node
	count int
}

// New creates a Trie holding words
func New(words ...string) *Trie {
	t := &Trie{root: newNode()}
	t.AddAll(words)
	return t
}

// Add stores word. Adding a stored word does nothing.
func (t *Trie) Add(word string) {
	n := t.root
	for _, r := range word {
		child, ok := n.children[r]
		if !ok {
			child = newNode()
			n.children[r] = child
		}
		n = child
	}
	if !n.end {
		n.end = true
		t.count++
	}
}

// AddAll stores every word in order
func (t *Trie) AddAll(words []string) {
	for _, w := range words {
		t.Add(w)
	}
}

// Remove deletes word and prunes every node left empty by it.
// It returns an error wrapping ErrNotFound if word is not stored,
// including when word is only a prefix of stored words.
func (t *Trie) Remove(word string) error {
	path := make([]step, 0, len(word))
	n := t.root
	for _, r := range word {
		child, ok := n.children[r]
		if !ok {
			return fmt.Errorf("%q is not in this trie: %w", word, ErrNotFound)
		}
		path = append(path, step{parent: n, edge: r})
		n = child
	}
	if !n.end {
		return fmt.Errorf("%q is not in this trie: %w", word, ErrNotFound)
	}

	n.end = false
	t.count--

	// walk back up, stopping at the first ancestor that still holds something
	for i := len(path) - 1; i >= 0 && n.empty(); i-- {
		delete(path[i].parent.children, path[i].edge)
		n = path[i].parent
	}
	return nil
}

// Contains reports whether word is stored
func (t *Trie) Contains(word string) bool {
	n := t.find(word)
	return n != nil && n.end
}

// Len returns the number of stored words
func (t *Trie) Len() int {
	return t.count
}

// find returns the node reached by following word, or nil
func (t *Trie) find(word string) *node {
	n := t.root
	for _, r := range word {
		child, ok := n.children[r]
		if !ok {
			return nil
		}
		n = child
	}
	return n
}

type frame struct {
	n    *node
	word string
}

// SuperWords returns a sequence of every stored word starting with prefix,
// prefix included when it is stored itself. Words come out depth first with
// edges taken in ascending rune order, so a word is yielded before its
// extensions.
//
// Each range over the sequence starts a fresh traversal. The trie must not
// be modified while a traversal is in progress.
func (t *Trie) SuperWords(prefix string) iter.Seq[string] {
	return func(yield func(string) bool) {
		start := t.find(prefix)
		if start == nil {
			return
		}

		stack := []frame{{n: start, word: prefix}}
		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if f.n.end && !yield(f.word) {
				return
			}

			edges := f.n.sortedEdges()
			for i := len(edges) - 1; i >= 0; i-- {
				r := edges[i]
				stack = append(stack, frame{n: f.n.children[r], word: f.word + string(r)})
			}
		}
	}
}

// tree converts the trie into nested maps keyed by single characters, with
// the empty key marking the end of a word.
func (t *Trie) tree() map[string]any {
	type pending struct {
		n   *node
		out map[string]any
	}

	root := make(map[string]any)
	stack := []pending{{n: t.root, out: root}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.n.end {
			p.out[""] = map[string]any{}
		}
		for r, child := range p.n.children {
			out := make(map[string]any)
			p.out[string(r)] = out
			stack = append(stack, pending{n: child, out: out})
		}
	}
	return root
}

// MarshalJSON encodes the internal structure for debugging.
func (t *Trie) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.tree())
}

func (t *Trie) String() string {
	data, err := json.MarshalIndent(t.tree(), "", "  ")
	if err != nil {
		return fmt.Sprintf("Trie(<%v>)", err)
	}
	return "Trie(" + string(data) + ")"
}
