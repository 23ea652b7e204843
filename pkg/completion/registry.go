package completion

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/bastiangx/dictautocomp/internal/utils"
	"github.com/bastiangx/dictautocomp/pkg/config"
	"github.com/bastiangx/dictautocomp/pkg/dictionary"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// ErrNoCompleter is returned when an operation names no known completer
// and none is active
var ErrNoCompleter = errors.New("no matching completer")

// Completion is the outcome of completing a fragment with the active completer
type Completion struct {
	File       string
	Words      []string
	IgnoreCase bool
}

// Info summarizes a registered completer
type Info struct {
	File       string
	Rule       string
	IgnoreCase bool
	MinLength  int
	Words      int
	Active     bool
}

// Registry holds completers keyed by word list path in registration order.
// All methods are safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	order  []string
	byFile map[string]*Completer
	active *Completer

	// suffixes maps reversed ".ext" keys to the registration positions of
	// the completers serving that extension, so every extension rule that
	// matches a file name is found with one walk over the reversed name.
	suffixes *patricia.Trie
	patterns []int
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		byFile:   make(map[string]*Completer),
		suffixes: patricia.NewTrie(),
	}
}

// LoadRegistry builds completers for every configured dictionary.
// Entries whose word list cannot be loaded are skipped and reported.
func LoadRegistry(dicts []config.DictionaryConfig, configPath string) (*Registry, []error) {
	r := NewRegistry()
	var errs []error
	for _, d := range dicts {
		opts := Options{
			File:       config.ResolveFile(d, configPath),
			Extensions: d.Extensions,
			Pattern:    d.Pattern,
			IgnoreCase: d.IgnoreCase,
			MinLength:  d.MinLength,
		}
		c, err := New(opts)
		if err != nil {
			log.Warnf("Skipping dictionary %s: %v", opts.File, err)
			errs = append(errs, err)
			continue
		}
		r.Register(c)
		log.Debugf("Registered %s with %d words", c.File(), c.Len())
	}
	return r, errs
}

// Register adds c. A completer with the same file is replaced in place.
func (r *Registry) Register(c *Completer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.byFile[c.File()]; ok {
		if r.active == old {
			r.active = c
		}
	} else {
		r.order = append(r.order, c.File())
	}
	r.byFile[c.File()] = c
	r.rebuild()
}

// Unregister removes the completer for file and reports whether it existed
func (r *Registry) Unregister(file string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byFile[file]
	if !ok {
		return false
	}
	delete(r.byFile, file)
	r.order = slices.DeleteFunc(r.order, func(f string) bool { return f == file })
	if r.active == c {
		r.active = nil
	}
	r.rebuild()
	return true
}

// rebuild recomputes the match indexes from r.order. Caller holds the lock.
func (r *Registry) rebuild() {
	r.suffixes = patricia.NewTrie()
	r.patterns = r.patterns[:0]

	for pos, file := range r.order {
		c := r.byFile[file]
		if c.pattern != nil {
			r.patterns = append(r.patterns, pos)
			continue
		}
		for _, ext := range c.extensions {
			key := patricia.Prefix(utils.ReverseRunes("." + ext))
			var positions []int
			if item := r.suffixes.Get(key); item != nil {
				positions = item.([]int)
			}
			r.suffixes.Set(key, append(positions, pos))
		}
	}
}

// match returns the earliest registered completer serving filename.
// Caller holds the lock.
func (r *Registry) match(filename string) *Completer {
	best := -1
	consider := func(pos int) {
		if best < 0 || pos < best {
			best = pos
		}
	}

	err := r.suffixes.VisitPrefixes(patricia.Prefix(utils.ReverseRunes(filename)), func(_ patricia.Prefix, item patricia.Item) error {
		// positions are ascending, only the first can win
		consider(item.([]int)[0])
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting suffix index: %v", err)
	}

	for _, pos := range r.patterns {
		if best >= 0 && pos > best {
			break
		}
		if r.byFile[r.order[pos]].Matches(filename) {
			consider(pos)
			break
		}
	}

	if best < 0 {
		return nil
	}
	return r.byFile[r.order[best]]
}

// Activate makes the first completer serving filename active and returns it.
// With no match the registry has no active completer and nil is returned.
func (r *Registry) Activate(filename string) *Completer {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.active = r.match(filename)
	if r.active != nil {
		log.Debugf("Activated %s for %s", r.active.File(), filename)
	} else {
		log.Debugf("No completer for %s", filename)
	}
	return r.active
}

// Active returns the active completer, or nil
func (r *Registry) Active() *Completer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active
}

// Get returns the completer for file
func (r *Registry) Get(file string) (*Completer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byFile[file]
	return c, ok
}

// Completers returns every completer in registration order
func (r *Registry) Completers() []*Completer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Completer, len(r.order))
	for i, f := range r.order {
		out[i] = r.byFile[f]
	}
	return out
}

// Info describes every completer in registration order
func (r *Registry) Info() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]Info, len(r.order))
	for i, f := range r.order {
		c := r.byFile[f]
		infos[i] = Info{
			File:       c.File(),
			Rule:       c.Rule(),
			IgnoreCase: c.IgnoreCase(),
			MinLength:  c.MinLength(),
			Words:      c.Len(),
			Active:     c == r.active,
		}
	}
	return infos
}

// Complete completes fragment with the active completer.
// ok is false when no completer is active.
func (r *Registry) Complete(fragment string, limit int) (res Completion, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.active == nil {
		return Completion{}, false
	}
	return Completion{
		File:       r.active.File(),
		Words:      r.active.Complete(fragment, limit),
		IgnoreCase: r.active.IgnoreCase(),
	}, true
}

// target resolves file, or the active completer when file is empty.
// Caller holds the lock.
func (r *Registry) target(file string) (*Completer, error) {
	if file == "" {
		if r.active == nil {
			return nil, ErrNoCompleter
		}
		return r.active, nil
	}
	c, ok := r.byFile[file]
	if !ok {
		return nil, fmt.Errorf("%s: %w", file, ErrNoCompleter)
	}
	return c, nil
}

// AddWords stores words in the completer for file, or the active one
func (r *Registry) AddWords(file string, words []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, err := r.target(file)
	if err != nil {
		return err
	}
	c.Add(words...)
	return nil
}

// RemoveWords deletes words from the completer for file, or the active one,
// and returns the words that were not stored
func (r *Registry) RemoveWords(file string, words []string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, err := r.target(file)
	if err != nil {
		return nil, err
	}
	return c.Remove(words...), nil
}

// ContainsWords reports membership of each word
func (r *Registry) ContainsWords(file string, words []string) ([]bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, err := r.target(file)
	if err != nil {
		return nil, err
	}
	found := make([]bool, len(words))
	for i, w := range words {
		found[i] = c.Contains(w)
	}
	return found, nil
}

// Save writes the words of the completer for file, or the active one, to path
func (r *Registry) Save(file, path string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, err := r.target(file)
	if err != nil {
		return err
	}
	return dictionary.SaveWords(path, c.Words())
}

// Dump returns the debug view of the trie for file, or the active one
func (r *Registry) Dump(file string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, err := r.target(file)
	if err != nil {
		return "", err
	}
	return c.Dump(), nil
}
