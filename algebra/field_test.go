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

func TestAddIsXOR(t *testing.T) {
	for a := 0; a < 256; a++ {
		for _, b := range []int{0, 1, 17, 255} {
			got := Add(byte(a), byte(b))
			want := byte(a) ^ byte(b)
			if got != want {
				t.Fatalf("Add(%d,%d) = %d, want %d", a, b, got, want)
			}
		}
	}
}

func TestAddIdentityAndInverse(t *testing.T) {
	for a := 0; a < 256; a++ {
		if Add(byte(a), 0) != byte(a) {
			t.Fatalf("0 is not an additive identity for %d", a)
		}
		if Add(byte(a), byte(a)) != 0 {
			t.Fatalf("%d is not its own additive inverse", a)
		}
	}
}

func TestMulIdentityAndZero(t *testing.T) {
	for a := 0; a < 256; a++ {
		if Mul(byte(a), 0) != 0 {
			t.Fatalf("Mul(%d,0) != 0", a)
		}
		if Mul(byte(a), 1) != byte(a) {
			t.Fatalf("Mul(%d,1) = %d, want %d", a, Mul(byte(a), 1), a)
		}
	}
}

func TestMulCommutative(t *testing.T) {
	for a := 0; a < 256; a += 7 {
		for b := 0; b < 256; b += 11 {
			if Mul(byte(a), byte(b)) != Mul(byte(b), byte(a)) {
				t.Fatalf("Mul(%d,%d) != Mul(%d,%d)", a, b, b, a)
			}
		}
	}
}
