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

package fmindex_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/compressweave/compressweave/genomics/dna"
	"github.com/compressweave/compressweave/genomics/fmindex"
)

func TestBuildRanksMatchNaiveCounts(t *testing.T) {
	reference := []byte("ACGTCGTA")
	idx, err := fmindex.Build(reference, 4)
	require.NoError(t, err)
	require.Equal(t, len(reference)+1, idx.Len())

	require.EqualValues(t, 2, idx.Total(fmindex.FMSymbol{Base: dna.A}))
	require.EqualValues(t, 2, idx.Total(fmindex.FMSymbol{Base: dna.C}))
	require.EqualValues(t, 2, idx.Total(fmindex.FMSymbol{Base: dna.G}))
	require.EqualValues(t, 2, idx.Total(fmindex.FMSymbol{Base: dna.T}))
	require.EqualValues(t, 1, idx.Total(fmindex.FMSymbol{Sentinel: true}))

	for pos := 0; pos <= idx.Len(); pos++ {
		got := idx.Rank(fmindex.FMSymbol{Base: dna.A}, pos)
		require.Equal(t, naiveRank(reference, 'A', pos), got)
	}
}

// naiveRank rebuilds the BWT directly (without blocking) and counts base
// occurrences up to position, the reference this package's blocked rank
// must agree with.
func naiveRank(reference []byte, base byte, position int) uint32 {
	text := string(reference) + "$"
	suffixes := make([]string, len(text))
	for i := range suffixes {
		suffixes[i] = text[i:]
	}
	// insertion sort is fine at this scale and keeps the helper obviously
	// correct rather than fast.
	for i := 1; i < len(suffixes); i++ {
		for j := i; j > 0 && suffixes[j] < suffixes[j-1]; j-- {
			suffixes[j], suffixes[j-1] = suffixes[j-1], suffixes[j]
		}
	}
	var bwt strings.Builder
	for _, s := range suffixes {
		start := len(text) - len(s)
		prev := start - 1
		if prev < 0 {
			prev = len(text) - 1
		}
		bwt.WriteByte(text[prev])
	}
	bounded := position
	if bounded > bwt.Len() {
		bounded = bwt.Len()
	}
	var count uint32
	for _, ch := range bwt.String()[:bounded] {
		if byte(ch) == base {
			count++
		}
	}
	return count
}

func TestSearchBlockedMatchesSingleBlock(t *testing.T) {
	reference := []byte("ACGTACGTACGT")
	read := []byte("ACGT")

	idx, err := fmindex.Build(reference, 3)
	require.NoError(t, err)

	blocked, err := fmindex.Search(idx, read, 1)
	require.NoError(t, err)

	naive, err := fmindex.Search(idx, read, len(read))
	require.NoError(t, err)

	require.Equal(t, naive.Interval, blocked.Interval)
	require.Equal(t, naive.Mismatches, blocked.Mismatches)
	require.Greater(t, blocked.Interval.Count(), uint32(0))
}

func TestBuildRejectsUnsupportedReferenceCharacter(t *testing.T) {
	_, err := fmindex.Build([]byte("ACGTX"), 2)
	require.Error(t, err)
	var unsupported *fmindex.UnsupportedCharacterError
	require.ErrorAs(t, err, &unsupported)
	require.Equal(t, 4, unsupported.Position)
}

func TestBuildRejectsEmptyReference(t *testing.T) {
	_, err := fmindex.Build(nil, 4)
	require.ErrorIs(t, err, fmindex.EmptyReferenceError)
}
