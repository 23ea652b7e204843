package trie

import "sort"

// node is a single trie vertex. Each node owns its children.
type node struct {
	children map[rune]*node
	// end marks that the path from the root spells a stored word
	end bool
}

func newNode() *node {
	return &node{children: make(map[rune]*node)}
}

// empty reports whether the node carries nothing and can be pruned
func (n *node) empty() bool {
	return !n.end && len(n.children) == 0
}

// sortedEdges returns the outgoing runes in ascending order
func (n *node) sortedEdges() []rune {
	edges := make([]rune, 0, len(n.children))
	for r := range n.children {
		edges = append(edges, r)
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i] < edges[j] })
	return edges
}

// step records one edge taken while descending, used to prune on the way back
type step struct {
	parent *node
	edge   rune
}
