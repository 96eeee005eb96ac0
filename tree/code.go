package tree

import "strings"

// Code is a symbol's path from the root, one 0 (left) or 1 (right) per step.
type Code []uint8

// String renders the code as a string of '0' and '1'.
func (c Code) String() string {
	var sb strings.Builder
	sb.Grow(len(c))
	for _, b := range c {
		sb.WriteByte('0' + b)
	}
	return sb.String()
}

// HasPrefix reports whether p is a prefix of c.
func (c Code) HasPrefix(p Code) bool {
	if len(p) > len(c) {
		return false
	}
	for i := range p {
		if c[i] != p[i] {
			return false
		}
	}
	return true
}

// Table maps byte values to codes. Bytes that are not symbols have nil codes.
type Table [256]Code

// Codes derives the code of every leaf by walking parent links to the root.
// A single-symbol tree gets the one-bit code 1, matching its self-linked leaf.
func (t *Tree) Codes() *Table {
	var table Table
	if t.leaves == 1 {
		table[t.nodes[1].Value] = Code{1}
		return &table
	}

	for leaf := Index(1); int(leaf) <= t.leaves; leaf++ {
		var code Code
		child := leaf
		for parent := t.nodes[leaf].Parent; parent != None; parent = t.nodes[parent].Parent {
			if t.nodes[parent].Left == child {
				code = append(code, 0)
			} else {
				code = append(code, 1)
			}
			child = parent
		}
		for i, j := 0, len(code)-1; i < j; i, j = i+1, j-1 {
			code[i], code[j] = code[j], code[i]
		}
		table[t.nodes[leaf].Value] = code
	}
	return &table
}

// EncodedBits returns the number of bits needed to encode symbols with the table.
func (tb *Table) EncodedBits(symbols []Symbol) int64 {
	var bits int64
	for _, s := range symbols {
		bits += s.Weight * int64(len(tb[s.Value]))
	}
	return bits
}

// Len returns the number of bytes that have a code.
func (tb *Table) Len() int {
	n := 0
	for _, c := range tb {
		if c != nil {
			n++
		}
	}
	return n
}
