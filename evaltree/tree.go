// SPDX-License-Identifier: MIT

package evaltree

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/lvgst/gatestring"
	"github.com/katalvlaran/lvgst/gsterr"
)

var (
	// ErrUnknownLabel indicates a requested string containing a label outside the alphabet.
	ErrUnknownLabel = fmt.Errorf("evaltree: unknown gate label: %w", gsterr.ErrDimension)

	// ErrBadAlphabet indicates an empty or repeated label in the alphabet.
	ErrBadAlphabet = fmt.Errorf("evaltree: invalid label alphabet: %w", gsterr.ErrDimension)

	// ErrBadSplit indicates a non-positive number of sub-trees.
	ErrBadSplit = fmt.Errorf("evaltree: split count must be positive: %w", gsterr.ErrDimension)
)

// NodeKind distinguishes the three node shapes.
type NodeKind int

const (
	// Empty is the zero-length string; its product is the identity.
	Empty NodeKind = iota
	// Leaf is a single gate label.
	Leaf
	// Internal is the concatenation Left then Right.
	Internal
)

// Node is one arena entry. Label is set for leaves; Left and Right for
// internal nodes, where Left is applied first.
type Node struct {
	Kind        NodeKind
	Label       string
	Left, Right int
	Len         int // length of the gate string the node represents
}

// Tree is an immutable evaluation tree.
type Tree struct {
	labels  []string
	nodes   []Node
	final   []int // requested string k → node index
	strs    []gatestring.GateString
	parents []int // requested string k → index in the parent tree's request list
}

// builder carries the registration state of Build.
type builder struct {
	alphabet map[string]int
	index    map[string]int // GateString.Key → node
	nodes    []Node
}

// Build constructs a tree over the given label alphabet for the requested strings.
//
// Errors:
//   - ErrBadAlphabet on an empty or duplicate label.
//   - ErrUnknownLabel when a string uses a label outside the alphabet.
//
// Complexity: O(Σ|s|²) for the prefix search, O(#nodes) memory.
func Build(labels []string, strs []gatestring.GateString) (*Tree, error) {
	b := &builder{
		alphabet: make(map[string]int, len(labels)),
		index:    make(map[string]int, 1+len(labels)+len(strs)),
		nodes:    make([]Node, 0, 1+len(labels)+len(strs)),
	}
	b.nodes = append(b.nodes, Node{Kind: Empty, Left: -1, Right: -1})
	b.index[gatestring.Empty.Key()] = 0
	for i, l := range labels {
		if _, dup := b.alphabet[l]; dup || l == "" {
			return nil, gsterr.Errorf(fmt.Sprintf("Build(label %q)", l), ErrBadAlphabet)
		}
		b.alphabet[l] = i
		b.index[gatestring.New(l).Key()] = len(b.nodes)
		b.nodes = append(b.nodes, Node{Kind: Leaf, Label: l, Left: -1, Right: -1, Len: 1})
	}

	for k, s := range strs {
		for i := 0; i < s.Len(); i++ {
			if _, ok := b.alphabet[s.At(i)]; !ok {
				return nil, gsterr.Errorf(fmt.Sprintf("Build(string %d %q)", k, s.At(i)), ErrUnknownLabel)
			}
		}
	}

	order := make([]int, len(strs))
	for k := range order {
		order[k] = k
	}
	sort.SliceStable(order, func(a, b int) bool { return strs[order[a]].Len() < strs[order[b]].Len() })

	final := make([]int, len(strs))
	for _, k := range order {
		final[k] = b.register(strs[k])
	}

	return &Tree{
		labels: append([]string(nil), labels...),
		nodes:  b.nodes,
		final:  final,
		strs:   append([]gatestring.GateString(nil), strs...),
	}, nil
}

// register returns the node of s, adding it (and any missing suffix) first.
func (b *builder) register(s gatestring.GateString) int {
	if idx, ok := b.index[s.Key()]; ok {
		return idx
	}
	n := s.Len()
	left := 0
	cut := 0
	for l := n - 1; l >= 1; l-- {
		if idx, ok := b.index[s.Slice(0, l).Key()]; ok {
			left, cut = idx, l

			break
		}
	}
	right := b.register(s.Slice(cut, n))

	idx := len(b.nodes)
	b.nodes = append(b.nodes, Node{Kind: Internal, Left: left, Right: right, Len: n})
	b.index[s.Key()] = idx

	return idx
}

// NumFinalStrings returns the number of requested strings.
func (t *Tree) NumFinalStrings() int { return len(t.final) }

// NumNodes returns the arena size.
func (t *Tree) NumNodes() int { return len(t.nodes) }

// Node returns arena entry i.
func (t *Tree) Node(i int) Node { return t.nodes[i] }

// FinalIndex returns the node holding requested string k.
func (t *Tree) FinalIndex(k int) int { return t.final[k] }

// String returns requested string k.
func (t *Tree) String(k int) gatestring.GateString { return t.strs[k] }

// Labels returns a copy of the label alphabet.
func (t *Tree) Labels() []string { return append([]string(nil), t.labels...) }

// ParentIndices maps each requested string of a sub-tree produced by Split to
// its index in the parent's request list. It is nil for a tree from Build.
func (t *Tree) ParentIndices() []int {
	if t.parents == nil {
		return nil
	}

	return append([]int(nil), t.parents...)
}

// Split partitions the requested strings into at most n contiguous groups of
// near-equal size, each rebuilt as an independent tree. Internal products
// shared across groups are duplicated.
func (t *Tree) Split(n int) ([]*Tree, error) {
	if n < 1 {
		return nil, gsterr.Errorf(fmt.Sprintf("Split(%d)", n), ErrBadSplit)
	}
	k := len(t.strs)
	if n > k {
		n = k
	}
	out := make([]*Tree, 0, n)
	start := 0
	for g := 0; g < n; g++ {
		end := start + (k-start)/(n-g)
		sub, err := Build(t.labels, t.strs[start:end])
		if err != nil {
			return nil, err
		}
		sub.parents = make([]int, end-start)
		for i := range sub.parents {
			sub.parents[i] = start + i
		}
		out = append(out, sub)
		start = end
	}

	return out, nil
}
