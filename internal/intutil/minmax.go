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

// Package intutil provides small integer helpers shared by the ledger and
// genomics/dna packages.
package intutil

import "golang.org/x/exp/constraints"

// Min returns the smaller of x and y.
func Min[T constraints.Integer](x, y T) T {
	if x <= y {
		return x
	}
	return y
}

// Max returns the larger of x and y.
func Max[T constraints.Integer](x, y T) T {
	if x >= y {
		return x
	}
	return y
}

// Clamp returns x restricted to [lo, hi].
func Clamp[T constraints.Integer](x, lo, hi T) T {
	return Max(lo, Min(x, hi))
}

// CeilDiv returns ⌈a/b⌉ for positive a, b.
func CeilDiv[T constraints.Integer](a, b T) T {
	return (a + b - 1) / b
}

// CeilLog2 returns ⌈log2(n)⌉ for n >= 1.
func CeilLog2[T constraints.Integer](n T) int {
	if n <= 1 {
		return 0
	}
	bits := 0
	v := uint64(n) - 1
	for v > 0 {
		bits++
		v >>= 1
	}
	return bits
}
