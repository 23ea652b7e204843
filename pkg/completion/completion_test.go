package completion

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bastiangx/dictautocomp/pkg/config"
	"github.com/bastiangx/dictautocomp/pkg/dictionary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCompleter(t *testing.T, opts Options, words ...string) *Completer {
	t.Helper()
	c, err := NewFromWords(opts, words)
	require.NoError(t, err)
	return c
}

func TestCompleter_Complete(t *testing.T) {
	c := mustCompleter(t, Options{File: "w", Extensions: []string{"txt"}, MinLength: 2},
		"dog", "dogged", "doge", "abacus")

	tests := []struct {
		name     string
		fragment string
		limit    int
		want     []string
	}{
		{"below min length", "d", 0, nil},
		{"matches in trie order", "dog", 0, []string{"dog", "doge", "dogged"}},
		{"surrounding space trimmed", "  dog\t", 0, []string{"dog", "doge", "dogged"}},
		{"limit stops early", "dog", 2, []string{"dog", "doge"}},
		{"no match", "cat", 0, nil},
		{"case sensitive", "Dog", 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Complete(tt.fragment, tt.limit))
		})
	}
}

func TestCompleter_MinLengthCountsCharacters(t *testing.T) {
	c := mustCompleter(t, Options{File: "w", MinLength: 2}, "über")
	assert.Equal(t, []string{"über"}, c.Complete("üb", 0))
	assert.Nil(t, c.Complete("ü", 0))
}

func TestCompleter_IgnoreCase(t *testing.T) {
	c := mustCompleter(t, Options{File: "w", IgnoreCase: true}, "dog", "DOG", "GODOG")

	assert.ElementsMatch(t, []string{"dog", "DOG"}, c.Complete("Dog", 0))
	assert.Empty(t, c.Remove("cat"), "case-insensitive removal never misses")
	assert.Empty(t, c.Remove("dog"))
	assert.False(t, c.Contains("DOG"))
}

func TestCompleter_Remove(t *testing.T) {
	c := mustCompleter(t, Options{File: "w"}, "aba", "ab")

	missing := c.Remove("ab", "zzz", "a")
	assert.Equal(t, []string{"zzz", "a"}, missing)
	assert.True(t, c.Contains("aba"))
	assert.False(t, c.Contains("ab"))
}

func TestCompleter_Rule(t *testing.T) {
	c := mustCompleter(t, Options{File: "w", Extensions: []string{".txt", "md", " ", "c++"}})
	assert.Equal(t, `\.(?:txt|md|c\+\+)$`, c.Rule())
	assert.Equal(t, []string{"txt", "md", "c++"}, c.Extensions())

	p := mustCompleter(t, Options{File: "w", Extensions: []string{"txt"}, Pattern: `\.(?:py|foobar)$`})
	assert.Equal(t, `\.(?:py|foobar)$`, p.Rule())
	assert.Empty(t, p.Extensions(), "pattern replaces extensions")
	assert.Equal(t, `\.(?:py|foobar)$`, p.Options().Pattern)
}

func TestCompleter_Matches(t *testing.T) {
	ext := mustCompleter(t, Options{File: "w", Extensions: []string{"txt", ".md"}})
	assert.True(t, ext.Matches("/home/me/notes.txt"))
	assert.True(t, ext.Matches("README.md"))
	assert.False(t, ext.Matches("notes.txt.bak"))
	assert.False(t, ext.Matches("txt"))
	assert.False(t, ext.Matches("notes.TXT"))

	pat := mustCompleter(t, Options{File: "w", Pattern: `\.(?:py|foobar)$`})
	assert.True(t, pat.Matches("script.py"))
	assert.False(t, pat.Matches("script.pyc"))
}

func TestNewFromWords_BadPattern(t *testing.T) {
	_, err := NewFromWords(Options{File: "w", Pattern: "(unclosed"}, nil)
	assert.Error(t, err)
}

func TestNew_MissingFile(t *testing.T) {
	_, err := New(Options{File: filepath.Join(t.TempDir(), "gone.txt")})
	assert.ErrorIs(t, err, dictionary.ErrMissingFile)
}

func TestCompleter_Dump(t *testing.T) {
	c := mustCompleter(t, Options{File: "w"}, "ab")
	assert.Contains(t, c.Dump(), "Trie(")

	ci := mustCompleter(t, Options{File: "w", IgnoreCase: true}, "ab")
	assert.Contains(t, ci.Dump(), "ignorecase_to_ogcase")
}

func TestRegistry_ActivateFirstMatchWins(t *testing.T) {
	r := NewRegistry()
	words := mustCompleter(t, Options{File: "words", Extensions: []string{"txt", "md"}, IgnoreCase: true}, "dog")
	enums := mustCompleter(t, Options{File: "enums", Pattern: `\.(?:py|foobar)$`}, "editor.getText")
	notes := mustCompleter(t, Options{File: "notes", Extensions: []string{"md"}}, "note")
	r.Register(words)
	r.Register(enums)
	r.Register(notes)

	assert.Same(t, words, r.Activate("README.md"), "earlier registration wins")
	assert.Same(t, enums, r.Activate("script.py"))
	assert.Same(t, words, r.Activate("a.txt"))
	assert.Nil(t, r.Activate("main.go"))
	assert.Nil(t, r.Active())

	r.Unregister("words")
	assert.Same(t, notes, r.Activate("README.md"))
}

func TestRegistry_PatternBeforeExtension(t *testing.T) {
	r := NewRegistry()
	anyFile := mustCompleter(t, Options{File: "any", Pattern: `.`})
	md := mustCompleter(t, Options{File: "md", Extensions: []string{"md"}})
	r.Register(anyFile)
	r.Register(md)

	assert.Same(t, anyFile, r.Activate("x.md"))
}

func TestRegistry_NestedExtensions(t *testing.T) {
	r := NewRegistry()
	gz := mustCompleter(t, Options{File: "gz", Extensions: []string{"gz"}})
	tgz := mustCompleter(t, Options{File: "tgz", Extensions: []string{"tar.gz"}})
	r.Register(tgz)
	r.Register(gz)

	assert.Same(t, tgz, r.Activate("backup.tar.gz"))
	assert.Same(t, gz, r.Activate("backup.gz"))
}

func TestRegistry_RegisterReplacesInPlace(t *testing.T) {
	r := NewRegistry()
	r.Register(mustCompleter(t, Options{File: "a", Extensions: []string{"txt"}}, "one"))
	r.Register(mustCompleter(t, Options{File: "b", Extensions: []string{"txt"}}, "two"))
	r.Activate("x.txt")

	replacement := mustCompleter(t, Options{File: "a", Extensions: []string{"txt"}}, "three")
	r.Register(replacement)

	files := make([]string, 0, 2)
	for _, c := range r.Completers() {
		files = append(files, c.File())
	}
	assert.Equal(t, []string{"a", "b"}, files)
	assert.Same(t, replacement, r.Active(), "active completer follows replacement")
}

func TestRegistry_Complete(t *testing.T) {
	r := NewRegistry()
	_, ok := r.Complete("dog", 0)
	assert.False(t, ok)

	r.Register(mustCompleter(t, Options{File: "w", Extensions: []string{"txt"}, IgnoreCase: true, MinLength: 1}, "dog", "DOG"))
	r.Activate("a.txt")

	res, ok := r.Complete("Do", 0)
	require.True(t, ok)
	assert.Equal(t, "w", res.File)
	assert.True(t, res.IgnoreCase)
	assert.ElementsMatch(t, []string{"dog", "DOG"}, res.Words)
}

func TestRegistry_WordOps(t *testing.T) {
	r := NewRegistry()
	r.Register(mustCompleter(t, Options{File: "w", Extensions: []string{"txt"}}, "dog"))

	assert.ErrorIs(t, r.AddWords("", []string{"cat"}), ErrNoCompleter)
	assert.ErrorIs(t, r.AddWords("other", []string{"cat"}), ErrNoCompleter)

	require.NoError(t, r.AddWords("w", []string{"cat"}))
	r.Activate("x.txt")

	found, err := r.ContainsWords("", []string{"cat", "dog", "cow"})
	require.NoError(t, err)
	assert.Equal(t, []bool{true, true, false}, found)

	missing, err := r.RemoveWords("", []string{"cat", "cow"})
	require.NoError(t, err)
	assert.Equal(t, []string{"cow"}, missing)

	dump, err := r.Dump("w")
	require.NoError(t, err)
	assert.Contains(t, dump, `"d"`)
	assert.NotContains(t, dump, `"c"`)

	infos := r.Info()
	require.Len(t, infos, 1)
	assert.Equal(t, Info{File: "w", Rule: `\.(?:txt)$`, Words: 1, Active: true}, infos[0])
}

func TestLoadRegistry(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "words.txt"), []byte("dog dogged\nabacus"), 0644))
	configPath := filepath.Join(dir, config.FileName)

	r, errs := LoadRegistry([]config.DictionaryConfig{
		{File: "words.txt", Extensions: []string{"md"}, MinLength: 2},
		{File: "missing.txt", Extensions: []string{"txt"}},
	}, configPath)

	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], dictionary.ErrMissingFile)

	c, ok := r.Get(filepath.Join(dir, "words.txt"))
	require.True(t, ok)
	assert.Equal(t, 3, c.Len())

	r.Activate("x.md")
	res, ok := r.Complete("dog", 0)
	require.True(t, ok)
	assert.Equal(t, []string{"dog", "dogged"}, res.Words)
}

func TestRegistry_Save(t *testing.T) {
	r := NewRegistry()
	r.Register(mustCompleter(t, Options{File: "w.txt", Extensions: []string{"txt"}}, "pear", "apple", "fig"))

	out := filepath.Join(t.TempDir(), "saved.txt")
	assert.ErrorIs(t, r.Save("", out), ErrNoCompleter)

	r.Activate("list.txt")
	require.NoError(t, r.Save("", out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "apple\nfig\npear", string(data))

	words, err := dictionary.LoadWords(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"apple", "fig", "pear"}, words)
}
