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

// Package algebra implements the compressed evaluator's algebraic
// combiner: a polynomial extension of a block summary's finite-state
// projection into GF(2^8), evaluated on a fixed 27-point grid. It encodes
// only entry/exit state and a small head digest, never tape contents, so
// its footprint is O(1) regardless of block size.
//
// The field arithmetic here mirrors the GF(2^8) byte-field AES itself
// operates over (see internal/aes in this lineage); this package just
// needs the field's add/multiply, not AES's hardware round structure.
package algebra

// reducingPoly is the AES/Rijndael GF(2^8) modulus x^8+x^4+x^3+x+1.
const reducingPoly = 0x11B

var expTable [510]byte
var logTable [256]byte

func init() {
	x := byte(1)
	for i := 0; i < 255; i++ {
		expTable[i] = x
		logTable[x] = byte(i)
		x ^= xtime(x) // generator 3 = 0x03, primitive in GF(2^8)/0x11B
	}
	for i := 255; i < 510; i++ {
		expTable[i] = expTable[i-255]
	}
}

func xtime(x byte) byte {
	hi := x & 0x80
	x <<= 1
	if hi != 0 {
		x ^= byte(reducingPoly & 0xFF)
	}
	return x
}

// Add is GF(2^8) addition, which is bytewise XOR.
func Add(a, b byte) byte { return a ^ b }

// Mul is GF(2^8) multiplication via log/antilog tables.
func Mul(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	return expTable[int(logTable[a])+int(logTable[b])]
}
