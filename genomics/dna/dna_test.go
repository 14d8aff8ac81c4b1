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

package dna_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/compressweave/compressweave/genomics/dna"
)

func TestPackUnpackRoundTripsAmbiguity(t *testing.T) {
	seq := []byte("ACGTACGTNNACGT")
	packed, err := dna.Pack(seq)
	require.NoError(t, err)
	require.Equal(t, len(seq), packed.Len())
	require.True(t, bytes.Equal(seq, packed.Unpack()))
}

func TestPackRejectsUnsupportedBase(t *testing.T) {
	_, err := dna.Pack([]byte("ACBT"))
	require.Error(t, err)
	var unsupported *dna.UnsupportedBaseError
	require.ErrorAs(t, err, &unsupported)
	require.Equal(t, 2, unsupported.Position)
}

func TestRankAllMatchesNaiveCounts(t *testing.T) {
	seq := []byte("AAACCCGGGTTTNNNAAGT")
	packed, err := dna.Pack(seq)
	require.NoError(t, err)
	idx := dna.BuildIndexWithStride(packed, 4)

	for pos := 0; pos <= len(seq); pos++ {
		counts := idx.RankAll(pos)
		var naive [dna.AlphabetSize]uint32
		for _, b := range seq[:pos] {
			code, ok := dna.FromASCII(b)
			require.True(t, ok)
			naive[code]++
		}
		require.Equal(t, naive, counts)
	}
}

func TestRankAtEndEqualsTotals(t *testing.T) {
	seq := []byte("ATCGNNATCG")
	packed, err := dna.Pack(seq)
	require.NoError(t, err)
	idx := dna.BuildIndex(packed)
	require.Equal(t, idx.Totals(), idx.RankAll(len(seq)))
}
