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

package variant_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/compressweave/compressweave/genomics/align"
	"github.com/compressweave/compressweave/genomics/pileup"
	"github.com/compressweave/compressweave/genomics/variant"
)

func TestBayesianCallIdentifiesAlt(t *testing.T) {
	node := pileup.NewNode(100)
	for i := 0; i < 8; i++ {
		node.Observe(0, 30) // A
	}
	for i := 0; i < 2; i++ {
		node.Observe(1, 25) // C
	}

	call, ok := variant.BayesianCall(node, 'A', 1e-6)
	require.True(t, ok)
	require.Equal(t, byte('C'), call.AltBase)
	require.Greater(t, call.Quality, float32(0))
}

func TestBayesianCallReportsNoneWhenUnanimous(t *testing.T) {
	node := pileup.NewNode(100)
	for i := 0; i < 5; i++ {
		node.Observe(0, 30)
	}
	_, ok := variant.BayesianCall(node, 'A', 1e-6)
	require.False(t, ok)
}

func TestCallerProducesVariants(t *testing.T) {
	reference := []byte("ACGTACGT")
	reads := []*align.AlignedRead{
		{
			Chrom:     "chr1",
			Pos:       0,
			MapQ:      60,
			Cigar:     []align.CigarOp{{Kind: align.CigarMatch, Len: 4}},
			Sequence:  []byte("ACGT"),
			Qualities: []byte{30, 30, 30, 30},
		},
		{
			Chrom:     "chr1",
			Pos:       2,
			MapQ:      55,
			Cigar:     []align.CigarOp{{Kind: align.CigarMatch, Len: 4}},
			Sequence:  []byte("GTAA"),
			Qualities: []byte{25, 25, 25, 25},
		},
	}

	caller, err := variant.NewCaller("chr1", reference, 0, 4, 5.0, 1e-6)
	require.NoError(t, err)

	variants, err := caller.Call(reads)
	require.NoError(t, err)
	require.NotEmpty(t, variants)
	for _, v := range variants {
		require.Equal(t, "chr1", v.Chrom)
		require.GreaterOrEqual(t, v.Quality, float32(5.0))
	}
}

func TestNewCallerRejectsEmptyReference(t *testing.T) {
	_, err := variant.NewCaller("chr1", nil, 0, 4, 5.0, 1e-6)
	require.Error(t, err)
}
