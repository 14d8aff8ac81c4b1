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

// Package fmindex builds a blocked FM-index over a reference sequence
// (BWT plus a per-block rank/select structure contributed by
// genomics/dna) and exposes a block-respecting backward-search
// BlockProcessor that rides on package engine.
package fmindex

import (
	"fmt"
	"sort"

	"github.com/compressweave/compressweave/genomics/dna"
)

const sentinelByte = '$'

// FMSymbol is a query symbol for rank/LF-mapping: either the unique
// sentinel or one of the canonical bases.
type FMSymbol struct {
	Sentinel bool
	Base     dna.BaseCode
}

// order is the lexicographic rank used by the C table: '$' < A < C < G < T
// (N has no C-table entry, mirroring the reference design — reads never
// query for N during backward search).
func (s FMSymbol) order() int {
	if s.Sentinel {
		return 0
	}
	return int(s.Base) + 1
}

// EmptyReferenceError reports an attempt to build an index over no bases.
var EmptyReferenceError = fmt.Errorf("reference sequence must be non-empty")

// InvalidBlockSizeError reports a non-positive block size.
var InvalidBlockSizeError = fmt.Errorf("block size must be greater than zero")

// UnsupportedCharacterError reports a reference byte that isn't a
// recognized base.
type UnsupportedCharacterError struct {
	Char     byte
	Position int
}

func (e *UnsupportedCharacterError) Error() string {
	return fmt.Sprintf("unsupported character %q at position %d", e.Char, e.Position)
}

// Boundary is a checkpoint recorded at the start of each BWT block: the
// cumulative per-symbol counts and sentinel count observed before it.
type Boundary struct {
	Start            int
	CumulativeCounts [dna.AlphabetSize]uint32
	SentinelCount    uint32
}

// bwtBlock is one chunk of the BWT string with its own packed
// representation and rank index, the way genomics/dna builds rank
// structures over ordinary sequence data.
type bwtBlock struct {
	start, end     int
	packed         *dna.Packed
	index          *dna.Index
	sentinelOffset int // -1 if the block holds no sentinel
}

func (b *bwtBlock) length() int { return b.end - b.start }

func (b *bwtBlock) rank(sym FMSymbol, position int) uint32 {
	bounded := position
	if bounded > b.length() {
		bounded = b.length()
	}
	if sym.Sentinel {
		if b.sentinelOffset >= 0 && b.sentinelOffset < bounded {
			return 1
		}
		return 0
	}
	count := b.index.Rank(sym.Base, bounded)
	if sym.Base == dna.N && b.sentinelOffset >= 0 && b.sentinelOffset < bounded && count > 0 {
		count--
	}
	return count
}

// Index is a blocked FM-index: the BWT of a reference (plus sentinel),
// partitioned into fixed-size blocks, each with its own dna.Index rank
// structure, and a C table for LF-mapping.
type Index struct {
	blocks      []*bwtBlock
	boundaries  []Boundary
	blockSize   int
	bwtLen      int
	sentinelPos int
	cTable      [5]uint32 // order: $, A, C, G, T
}

// Build constructs a blocked FM-index over reference using blockSize-sized
// BWT chunks. Suffix-array construction is a naive O(n^2 log n) sort,
// adequate for the demonstration and moderate-size scales this package
// targets (spec.md explicitly scopes FASTA/BAM-scale I/O out).
func Build(reference []byte, blockSize int) (*Index, error) {
	if len(reference) == 0 {
		return nil, EmptyReferenceError
	}
	if blockSize <= 0 {
		return nil, InvalidBlockSizeError
	}

	clean, err := sanitize(reference)
	if err != nil {
		return nil, err
	}

	text := append(append([]byte{}, clean...), sentinelByte)
	sa := buildSuffixArray(text)
	bwt, sentinelPos := bwtFromSuffixArray(text, sa)
	bwtLen := len(bwt)

	idx := &Index{blockSize: blockSize, bwtLen: bwtLen, sentinelPos: sentinelPos}

	var cumulative [dna.AlphabetSize]uint32
	var sentinelCumulative uint32

	for start := 0; start < bwtLen; start += blockSize {
		end := start + blockSize
		if end > bwtLen {
			end = bwtLen
		}
		chunk := bwt[start:end]

		idx.boundaries = append(idx.boundaries, Boundary{
			Start:            start,
			CumulativeCounts: cumulative,
			SentinelCount:    sentinelCumulative,
		})

		sanitized := make([]byte, len(chunk))
		sentinelOffset := -1
		for i, ch := range chunk {
			if ch == sentinelByte {
				sentinelOffset = i
				sentinelCumulative++
				sanitized[i] = 'N'
				continue
			}
			sanitized[i] = ch
		}

		packed, err := dna.Pack(sanitized)
		if err != nil {
			return nil, err
		}
		blockIndex := dna.BuildIndex(packed)
		counts := blockIndex.Totals()
		if sentinelOffset >= 0 && counts[dna.N] > 0 {
			counts[dna.N]--
		}

		idx.blocks = append(idx.blocks, &bwtBlock{
			start:          start,
			end:            end,
			packed:         packed,
			index:          blockIndex,
			sentinelOffset: sentinelOffset,
		})

		for i := range cumulative {
			cumulative[i] += counts[i]
		}
	}

	idx.boundaries = append(idx.boundaries, Boundary{
		Start:            bwtLen,
		CumulativeCounts: cumulative,
		SentinelCount:    sentinelCumulative,
	})

	idx.cTable = buildCTable(cumulative)
	return idx, nil
}

// Len is the length of the BWT string (reference length plus one
// sentinel).
func (idx *Index) Len() int { return idx.bwtLen }

// NumBlocks is the number of BWT blocks the index was partitioned into.
func (idx *Index) NumBlocks() int { return len(idx.blocks) }

// CTable returns the cumulative-count offset used in LF-mapping for sym.
func (idx *Index) CTable(sym FMSymbol) uint32 { return idx.cTable[sym.order()] }

// Rank returns the number of occurrences of sym in BWT[:position).
func (idx *Index) Rank(sym FMSymbol, position int) uint32 {
	bounded := position
	if bounded > idx.bwtLen {
		bounded = idx.bwtLen
	}
	if bounded < 0 {
		bounded = 0
	}
	blockIdx := bounded / idx.blockSize
	if blockIdx >= len(idx.blocks) {
		blockIdx = len(idx.blocks) - 1
	}
	boundary := idx.boundaries[blockIdx]

	var count uint32
	if sym.Sentinel {
		count = boundary.SentinelCount
	} else {
		count = boundary.CumulativeCounts[sym.Base]
	}
	if blockIdx < len(idx.blocks) {
		block := idx.blocks[blockIdx]
		count += block.rank(sym, bounded-block.start)
	}
	return count
}

// Total returns the number of occurrences of sym across the whole BWT.
func (idx *Index) Total(sym FMSymbol) uint32 {
	if sym.Sentinel {
		return 1
	}
	return idx.boundaries[len(idx.blocks)].CumulativeCounts[sym.Base]
}

func sanitize(reference []byte) ([]byte, error) {
	clean := make([]byte, len(reference))
	for i, ch := range reference {
		code, ok := dna.FromASCII(ch)
		if !ok {
			return nil, &UnsupportedCharacterError{Char: ch, Position: i}
		}
		clean[i] = upperBase(code)
	}
	return clean, nil
}

func upperBase(code dna.BaseCode) byte {
	switch code {
	case dna.A:
		return 'A'
	case dna.C:
		return 'C'
	case dna.G:
		return 'G'
	case dna.T:
		return 'T'
	default:
		return 'N'
	}
}

func buildSuffixArray(text []byte) []int {
	sa := make([]int, len(text))
	for i := range sa {
		sa[i] = i
	}
	sort.Slice(sa, func(i, j int) bool {
		return lessSuffix(text, sa[i], sa[j])
	})
	return sa
}

func lessSuffix(text []byte, a, b int) bool {
	for a < len(text) && b < len(text) {
		if text[a] != text[b] {
			return text[a] < text[b]
		}
		a++
		b++
	}
	return a == len(text) && b != len(text)
}

func bwtFromSuffixArray(text []byte, sa []int) ([]byte, int) {
	bwt := make([]byte, len(text))
	sentinelPos := 0
	for i, saIdx := range sa {
		prev := saIdx - 1
		if saIdx == 0 {
			prev = len(text) - 1
			sentinelPos = i
		}
		bwt[i] = text[prev]
	}
	return bwt, sentinelPos
}

func buildCTable(totals [dna.AlphabetSize]uint32) [5]uint32 {
	const sentinel = 1
	a, c, g, t := totals[dna.A], totals[dna.C], totals[dna.G], totals[dna.T]
	return [5]uint32{
		0,
		sentinel,
		sentinel + a,
		sentinel + a + c,
		sentinel + a + c + g,
	}
}
