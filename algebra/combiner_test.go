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

package algebra

import "testing"

func TestGridHas27Points(t *testing.T) {
	g := Grid()
	if len(g) != 27 {
		t.Fatalf("len(Grid()) = %d, want 27", len(g))
	}
	seen := map[GridPoint]bool{}
	for _, p := range g {
		seen[p] = true
	}
	if len(seen) != 27 {
		t.Fatalf("grid points are not distinct: %d unique of 27", len(seen))
	}
}

func TestMergeAssociative(t *testing.T) {
	c := NewCombiner()
	a := EncodeProjection(1, 2, 3)
	b := EncodeProjection(2, 4, 7)
	d := EncodeProjection(4, 9, 1)

	left := c.Merge(c.Merge(a, b), d)
	right := c.Merge(a, c.Merge(b, d))
	if left != right {
		t.Fatalf("merge is not associative: (a.b).d = %v, a.(b.d) = %v", left, right)
	}
}

func TestMergeCommutativeUnderXOR(t *testing.T) {
	c := NewCombiner()
	a := EncodeProjection(5, 6, 2)
	b := EncodeProjection(9, 1, 8)
	if c.Merge(a, b) != c.Merge(b, a) {
		t.Fatalf("pointwise XOR merge should be commutative")
	}
}

func TestEncodeProjectionDeterministic(t *testing.T) {
	a := EncodeProjection(3, 9, 200)
	b := EncodeProjection(3, 9, 200)
	if a != b {
		t.Fatalf("EncodeProjection is not deterministic for identical inputs")
	}
}
