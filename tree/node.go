// Copyright (C) 2024 compressweave authors.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package tree implements the implicit, never-materialized balanced
// interval tree over block indices that the compressed evaluator walks.
//
// A node is just the pair (Left, Right); children are computed from the
// midpoint on demand, so no tree is ever allocated in memory.
package tree

import "fmt"

// Node is an interval [Left, Right] of 1-based block identifiers.
// It is a value type: nodes are never heap-allocated or shared by pointer.
type Node struct {
	Left, Right int
}

// Root returns the root node spanning the full block range [1, numBlocks].
func Root(numBlocks int) Node {
	return Node{Left: 1, Right: numBlocks}
}

// IsLeaf reports whether n is a unit interval.
func (n Node) IsLeaf() bool {
	return n.Left == n.Right
}

// Length returns the number of blocks covered by n.
func (n Node) Length() int {
	return n.Right - n.Left + 1
}

// Midpoint returns ⌊(Left+Right)/2⌋, the split point used by Children.
func (n Node) Midpoint() int {
	return (n.Left + n.Right) / 2
}

// Children splits n at its midpoint. The caller must not call Children on
// a leaf; geometric shrinkage guarantees both children have length
// ≤ ⌈n.Length()/2⌉.
func (n Node) Children() (left, right Node) {
	m := n.Midpoint()
	return Node{n.Left, m}, Node{m + 1, n.Right}
}

// BlockID returns the leaf's block identifier. Only valid when IsLeaf.
func (n Node) BlockID() int {
	return n.Left
}

func (n Node) String() string {
	if n.IsLeaf() {
		return fmt.Sprintf("[%d]", n.Left)
	}
	return fmt.Sprintf("[%d,%d]", n.Left, n.Right)
}
