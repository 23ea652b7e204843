package trie

import (
	"errors"
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrie_AddContains(t *testing.T) {
	tr := New()
	tr.Add("ab")

	assert.True(t, tr.Contains("ab"))
	assert.False(t, tr.Contains("a"), "proper prefix is not a word")
	assert.False(t, tr.Contains("abc"))
	assert.False(t, tr.Contains("b"))
	assert.Equal(t, 1, tr.Len())
}

func TestTrie_AddIsIdempotent(t *testing.T) {
	tr := New("dog", "dog", "dog")

	assert.Equal(t, 1, tr.Len())
	assert.Equal(t, []string{"dog"}, slices.Collect(tr.SuperWords("")))

	require.NoError(t, tr.Remove("dog"))
	assert.False(t, tr.Contains("dog"))
}

func TestTrie_Remove(t *testing.T) {
	tests := []struct {
		name    string
		words   []string
		remove  string
		present []string
		absent  []string
	}{
		{
			name:   "single word",
			words:  []string{"ab"},
			remove: "ab",
			absent: []string{"ab", "a"},
		},
		{
			name:    "prefix of a stored word",
			words:   []string{"aba", "ab"},
			remove:  "ab",
			present: []string{"aba"},
			absent:  []string{"ab"},
		},
		{
			name:    "extension of a stored word",
			words:   []string{"aba", "ab"},
			remove:  "aba",
			present: []string{"ab"},
			absent:  []string{"aba"},
		},
		{
			name:    "unrelated word",
			words:   []string{"a", "b"},
			remove:  "b",
			present: []string{"a"},
			absent:  []string{"b"},
		},
		{
			name:    "empty string",
			words:   []string{"", "ab"},
			remove:  "",
			present: []string{"ab"},
			absent:  []string{""},
		},
		{
			name:    "shared branch",
			words:   []string{"abcd", "abxy"},
			remove:  "abcd",
			present: []string{"abxy"},
			absent:  []string{"abcd", "abc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New(tt.words...)
			require.NoError(t, tr.Remove(tt.remove))

			for _, w := range tt.present {
				assert.True(t, tr.Contains(w), "expected %q to survive", w)
			}
			for _, w := range tt.absent {
				assert.False(t, tr.Contains(w), "expected %q to be gone", w)
			}
		})
	}
}

func TestTrie_RemoveNotFound(t *testing.T) {
	t.Run("empty trie", func(t *testing.T) {
		tr := New()
		err := tr.Remove("ab")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotFound))
		assert.Contains(t, err.Error(), "not in this trie")
	})

	t.Run("path exists but is not a word", func(t *testing.T) {
		tr := New("aba")
		err := tr.Remove("ab")
		require.ErrorIs(t, err, ErrNotFound)

		assert.True(t, tr.Contains("aba"), "failed removal must not mutate")
		assert.Equal(t, 1, tr.Len())
	})

	t.Run("already removed", func(t *testing.T) {
		tr := New("ab")
		require.NoError(t, tr.Remove("ab"))
		assert.ErrorIs(t, tr.Remove("ab"), ErrNotFound)
	})

	t.Run("empty string never added", func(t *testing.T) {
		tr := New("a")
		assert.ErrorIs(t, tr.Remove(""), ErrNotFound)
	})
}

func TestTrie_RemovePrunesEmptyNodes(t *testing.T) {
	tr := New("abc", "abd", "x")

	require.NoError(t, tr.Remove("abc"))
	ab := tr.find("ab")
	require.NotNil(t, ab)
	assert.Len(t, ab.children, 1)

	require.NoError(t, tr.Remove("abd"))
	assert.Nil(t, tr.find("a"), "whole branch should be pruned")

	require.NoError(t, tr.Remove("x"))
	assert.Empty(t, tr.root.children)
	assert.Equal(t, 0, tr.Len())
	assert.Equal(t, "{}", mustJSON(t, tr))
}

func TestTrie_EmptyString(t *testing.T) {
	tr := New()
	tr.Add("")
	assert.True(t, tr.Contains(""))
	assert.Equal(t, []string{""}, slices.Collect(tr.SuperWords("")))
}

func TestTrie_SuperWords(t *testing.T) {
	tests := []struct {
		name   string
		words  []string
		prefix string
		want   []string
	}{
		{"none", []string{"a"}, "b", nil},
		{"word in trie one result", []string{"ab"}, "ab", []string{"ab"}},
		{"word not in trie one result", []string{"ab"}, "a", []string{"ab"}},
		{"word in trie multi results", []string{"dog", "dogged", "abacus"}, "dog", []string{"dog", "dogged"}},
		{"word not in trie multi results", []string{"dog", "abeyance", "abacus"}, "ab", []string{"abacus", "abeyance"}},
		{"all words", []string{"a", "ab"}, "", []string{"a", "ab"}},
		{"prefix longer than words", []string{"ab"}, "abc", nil},
		{"unicode", []string{"über", "übel", "uber"}, "üb", []string{"übel", "über"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New(tt.words...)
			got := slices.Collect(tr.SuperWords(tt.prefix))
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestTrie_SuperWordsOrder(t *testing.T) {
	tr := New("b", "abc", "a", "ab", "")

	want := []string{"", "a", "ab", "abc", "b"}
	assert.Equal(t, want, slices.Collect(tr.SuperWords("")))
	assert.Equal(t, want, slices.Collect(tr.SuperWords("")), "order must be stable")
}

func TestTrie_SuperWordsPartialConsume(t *testing.T) {
	tr := New("a", "ab", "abc", "abd")
	seq := tr.SuperWords("a")

	var first []string
	for w := range seq {
		first = append(first, w)
		if len(first) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"a", "ab"}, first)

	// ranging again starts a new traversal
	assert.Equal(t, []string{"a", "ab", "abc", "abd"}, slices.Collect(seq))
	assert.Equal(t, 4, tr.Len(), "traversal must not mutate")
}

func TestTrie_SuperWordsIsLazy(t *testing.T) {
	tr := New("ab")
	seq := tr.SuperWords("a")

	// lookup happens when ranging, not when the sequence is created
	tr.Add("ac")
	assert.Equal(t, []string{"ab", "ac"}, slices.Collect(seq))
}

func TestTrie_JSON(t *testing.T) {
	assert.Equal(t, `{"a":{"b":{"":{}}}}`, mustJSON(t, New("ab")))
	assert.Equal(t, `{"":{},"a":{"":{},"b":{"":{}}}}`, mustJSON(t, New("", "a", "ab")))
	assert.Equal(t, "Trie({})", New().String())
}

// TestTrie_MatchesModel checks random add/remove sequences against a set.
func TestTrie_MatchesModel(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	alphabet := []rune("abcé")
	randomWord := func() string {
		n := rng.Intn(5)
		w := make([]rune, n)
		for i := range w {
			w[i] = alphabet[rng.Intn(len(alphabet))]
		}
		return string(w)
	}

	tr := New()
	model := make(map[string]bool)
	for i := 0; i < 2000; i++ {
		w := randomWord()
		if rng.Intn(3) == 0 {
			err := tr.Remove(w)
			if model[w] {
				require.NoError(t, err, "remove %q", w)
				delete(model, w)
			} else {
				require.ErrorIs(t, err, ErrNotFound, "remove %q", w)
			}
			continue
		}
		tr.Add(w)
		model[w] = true
	}

	var want []string
	for w := range model {
		want = append(want, w)
	}
	assert.ElementsMatch(t, want, slices.Collect(tr.SuperWords("")))
	assert.Equal(t, len(model), tr.Len())
	for i := 0; i < 200; i++ {
		w := randomWord()
		assert.Equal(t, model[w], tr.Contains(w), "contains %q", w)
	}
}

func BenchmarkTrie_SuperWords(b *testing.B) {
	tr := New()
	letters := "abcdefghij"
	for i := 0; i < 10000; i++ {
		w := make([]byte, 0, 6)
		for n := i; n > 0; n /= len(letters) {
			w = append(w, letters[n%len(letters)])
		}
		tr.Add(string(w))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for range tr.SuperWords("a") {
		}
	}
}

func mustJSON(t *testing.T, v interface{ MarshalJSON() ([]byte, error) }) string {
	t.Helper()
	data, err := v.MarshalJSON()
	require.NoError(t, err)
	return string(data)
}
