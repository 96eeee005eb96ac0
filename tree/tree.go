// Package tree builds Huffman merge trees over byte symbols.
//
// Nodes live in a flat arena addressed by Index. Slot 0 is a sentinel that
// stands for "no node", so a zero Parent marks the root. Leaves occupy
// indices 1..K in the order the symbols were given, and merge nodes follow
// in creation order, so the root of a K-symbol tree is always 2K-1.
package tree

import (
	"errors"
	"fmt"
)

// Index addresses a node in a Tree. None (0) means no node.
type Index int32

// None is the sentinel index used for absent parent and child links.
const None Index = 0

var (
	// ErrNoSymbols indicates Build was called with an empty symbol list.
	ErrNoSymbols = errors.New("no symbols")
	// ErrInvalidWeight indicates a symbol with a weight below 1.
	ErrInvalidWeight = errors.New("invalid symbol weight")
)

// Symbol is a byte value and the number of times it occurs.
type Symbol struct {
	Value  byte
	Weight int64
}

// Node is a leaf (index <= K) or a merge point (index > K).
type Node struct {
	Value  byte  // only meaningful for leaves
	Weight int64 // sum of the descendant leaf weights
	Parent Index
	Left   Index
	Right  Index
}

// Tree is a fully linked merge tree.
type Tree struct {
	nodes  []Node // nodes[0] is the sentinel
	leaves int
}

// Build constructs the merge tree for symbols.
//
// Each round scans the unmerged nodes in index order and picks the smallest
// weight x and the second smallest y using strict comparisons, so the lower
// index wins ties. The new node takes x as its left child and y as its right.
// This ordering fixes every code bit and therefore the exact bytes written by
// the encoder; changing it breaks compatibility with existing containers.
func Build(symbols []Symbol) (*Tree, error) {
	k := len(symbols)
	if k == 0 {
		return nil, ErrNoSymbols
	}

	t := &Tree{
		nodes:  make([]Node, 2*k),
		leaves: k,
	}
	for i, s := range symbols {
		if s.Weight <= 0 {
			return nil, fmt.Errorf("%w: byte 0x%02x has weight %d", ErrInvalidWeight, s.Value, s.Weight)
		}
		t.nodes[i+1] = Node{Value: s.Value, Weight: s.Weight}
	}

	if k == 1 {
		t.nodes[1].Left = 1
		t.nodes[1].Right = 1
		return t, nil
	}

	for num := Index(k + 1); num < Index(2*k); num++ {
		x, y := t.twoSmallest(num)
		t.nodes[num] = Node{
			Weight: t.nodes[x].Weight + t.nodes[y].Weight,
			Left:   x,
			Right:  y,
		}
		t.nodes[x].Parent = num
		t.nodes[y].Parent = num
	}
	t.nodes[2*k-1].Parent = None

	return t, nil
}

// twoSmallest returns the two unmerged nodes below limit with the smallest
// weights. A new minimum demotes the previous one to second place.
func (t *Tree) twoSmallest(limit Index) (x, y Index) {
	for i := Index(1); i < limit; i++ {
		n := &t.nodes[i]
		if n.Parent != None {
			continue
		}
		switch {
		case x == None || n.Weight < t.nodes[x].Weight:
			y = x
			x = i
		case y == None || n.Weight < t.nodes[y].Weight:
			y = i
		}
	}
	return x, y
}

// Len returns the number of nodes, excluding the sentinel: 2K-1.
func (t *Tree) Len() int {
	return len(t.nodes) - 1
}

// Leaves returns K, the number of symbols.
func (t *Tree) Leaves() int {
	return t.leaves
}

// Root returns the index of the root node.
func (t *Tree) Root() Index {
	return Index(2*t.leaves - 1)
}

// Node returns the node at i. It panics if i is out of range.
func (t *Tree) Node(i Index) Node {
	return t.nodes[i]
}

// IsLeaf reports whether i addresses a symbol.
func (t *Tree) IsLeaf(i Index) bool {
	return i >= 1 && int(i) <= t.leaves
}

// Child follows the left link for bit 0 and the right link otherwise.
func (t *Tree) Child(i Index, bit uint8) Index {
	if bit == 0 {
		return t.nodes[i].Left
	}
	return t.nodes[i].Right
}

// Weight returns the weight of the root, the total symbol count.
func (t *Tree) Weight() int64 {
	return t.nodes[t.Root()].Weight
}
