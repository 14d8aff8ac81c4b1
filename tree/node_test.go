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

package tree

import (
	"math"
	"testing"
)

func TestMidpointSplit(t *testing.T) {
	n := Root(100)
	left, right := n.Children()
	if left.Left != 1 || left.Right != 50 {
		t.Fatalf("left = %v, want [1,50]", left)
	}
	if right.Left != 51 || right.Right != 100 {
		t.Fatalf("right = %v, want [51,100]", right)
	}
}

func TestGeometricShrinkage(t *testing.T) {
	node := Root(128)
	lengths := []int{node.Length()}
	for !node.IsLeaf() {
		left, _ := node.Children()
		node = left
		lengths = append(lengths, node.Length())
	}
	for i := 0; i+1 < len(lengths); i++ {
		parent, child := lengths[i], lengths[i+1]
		maxChild := (parent + 1) / 2
		if child > maxChild {
			t.Fatalf("child length %d exceeds ceil(parent %d/2) = %d", child, parent, maxChild)
		}
	}
}

func TestHeightLogarithmic(t *testing.T) {
	for _, total := range []int{10, 100, 1000, 10000} {
		node := Root(total)
		depth := 0
		for !node.IsLeaf() {
			left, _ := node.Children()
			node = left
			depth++
		}
		bound := int(math.Ceil(math.Log2(float64(total)))) + 1
		if depth > bound {
			t.Fatalf("T=%d: depth %d exceeds bound %d", total, depth, bound)
		}
	}
}

func TestChildrenPartitionExactly(t *testing.T) {
	for _, total := range []int{1, 2, 3, 7, 128, 1000} {
		var walk func(n Node)
		walk = func(n Node) {
			if n.IsLeaf() {
				return
			}
			left, right := n.Children()
			if left.Right+1 != right.Left {
				t.Fatalf("T=%d: children of %v do not partition exactly: %v, %v", total, n, left, right)
			}
			if left.Left != n.Left || right.Right != n.Right {
				t.Fatalf("T=%d: children of %v do not cover full range", total, n)
			}
			walk(left)
			walk(right)
		}
		walk(Root(total))
	}
}

func TestSingleBlockIsLeafRoot(t *testing.T) {
	n := Root(1)
	if !n.IsLeaf() {
		t.Fatalf("Root(1) should be a leaf")
	}
	if n.BlockID() != 1 {
		t.Fatalf("BlockID() = %d, want 1", n.BlockID())
	}
}
