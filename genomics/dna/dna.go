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

// Package dna packs DNA sequences into 2 bits per base, preserving the
// ambiguity code N in a side bitmap, and gives checkpointed rank over the
// packed representation.
package dna

import (
	"fmt"

	"github.com/compressweave/compressweave/internal/intutil"
)

// BaseCode indexes the five symbols rank/select tracks: A, C, G, T, N.
type BaseCode int

const (
	A BaseCode = iota
	C
	G
	T
	N
	AlphabetSize
)

// FromASCII parses an ASCII base into a BaseCode, accepting lowercase and
// treating U as a synonym for T.
func FromASCII(b byte) (BaseCode, bool) {
	switch b {
	case 'A', 'a':
		return A, true
	case 'C', 'c':
		return C, true
	case 'G', 'g':
		return G, true
	case 'T', 't', 'U', 'u':
		return T, true
	case 'N', 'n':
		return N, true
	default:
		return 0, false
	}
}

const basesPerWord = 32 // 64 bits / 2 bits per base

// Packed is a 2-bit-per-base encoding of a DNA sequence. The ambiguous base
// N is stored as a placeholder 2-bit code and flagged in a parallel bitmap
// so that decoding never silently drops it; Pack rejects every other byte
// that FromASCII does not accept.
type Packed struct {
	words     []uint64
	length    int
	ambiguous intutil.BitSet
}

// UnsupportedBaseError reports a byte that Pack could not interpret as a
// nucleotide.
type UnsupportedBaseError struct {
	Base     byte
	Position int
}

func (e *UnsupportedBaseError) Error() string {
	return fmt.Sprintf("unsupported base %q at position %d", e.Base, e.Position)
}

// Pack compresses an ASCII base sequence into its 2-bit representation.
func Pack(seq []byte) (*Packed, error) {
	p := &Packed{
		words:     make([]uint64, wordsForLen(len(seq))),
		length:    len(seq),
		ambiguous: intutil.NewBitSet(len(seq)),
	}
	for i, b := range seq {
		code, ok := FromASCII(b)
		if !ok {
			return nil, &UnsupportedBaseError{Base: b, Position: i}
		}
		var bits uint64
		ambiguous := code == N
		switch code {
		case A:
			bits = 0b00
		case C:
			bits = 0b01
		case G:
			bits = 0b10
		case T:
			bits = 0b11
		default: // N and any future ambiguity code packs as A, flagged below.
			bits = 0b00
		}
		wordIdx, shift := wordPosition(i)
		p.words[wordIdx] |= bits << shift
		if ambiguous {
			p.ambiguous.Set(i)
		}
	}
	return p, nil
}

// Len is the number of bases in the sequence.
func (p *Packed) Len() int { return p.length }

// BaseAt returns the uppercase ASCII base at idx.
func (p *Packed) BaseAt(idx int) byte {
	if p.ambiguous.Test(idx) {
		return 'N'
	}
	wordIdx, shift := wordPosition(idx)
	code := (p.words[wordIdx] >> shift) & 0b11
	return decodeBase(code)
}

// Unpack decodes the full sequence back into ASCII bytes.
func (p *Packed) Unpack() []byte {
	out := make([]byte, p.length)
	for i := range out {
		out[i] = p.BaseAt(i)
	}
	return out
}

func decodeBase(code uint64) byte {
	switch code & 0b11 {
	case 0b00:
		return 'A'
	case 0b01:
		return 'C'
	case 0b10:
		return 'G'
	default:
		return 'T'
	}
}

func wordsForLen(n int) int {
	if n == 0 {
		return 0
	}
	return (n + basesPerWord - 1) / basesPerWord
}

func wordPosition(idx int) (word int, shift uint) {
	return idx / basesPerWord, uint(idx%basesPerWord) * 2
}

const checkpointStride = 256

// checkpoint is a prefix-sum snapshot of per-symbol counts at a fixed
// position, the way RankSelectIndex amortizes counting in the reference
// implementation's rank_select module.
type checkpoint struct {
	position int
	counts   [AlphabetSize]uint32
}

// Index is a blocked rank structure over a Packed sequence: O(1) checkpoint
// lookup plus a linear scan of at most checkpointStride bases.
type Index struct {
	seq         *Packed
	stride      int
	checkpoints []checkpoint
	totals      [AlphabetSize]uint32
}

// BuildIndex constructs a rank index over seq using the default stride.
func BuildIndex(seq *Packed) *Index {
	return BuildIndexWithStride(seq, checkpointStride)
}

// BuildIndexWithStride constructs a rank index using an explicit checkpoint
// stride (bases between snapshots).
func BuildIndexWithStride(seq *Packed, stride int) *Index {
	if stride <= 0 {
		stride = checkpointStride
	}
	idx := &Index{seq: seq, stride: stride}
	var counts [AlphabetSize]uint32
	idx.checkpoints = append(idx.checkpoints, checkpoint{position: 0, counts: counts})
	for i := 0; i < seq.Len(); i++ {
		if i%stride == 0 && i != 0 {
			idx.checkpoints = append(idx.checkpoints, checkpoint{position: i, counts: counts})
		}
		code, ok := FromASCII(seq.BaseAt(i))
		if !ok {
			code = N
		}
		counts[code]++
	}
	idx.checkpoints = append(idx.checkpoints, checkpoint{position: seq.Len(), counts: counts})
	idx.totals = counts
	return idx
}

// Totals returns the cumulative count of each symbol over the whole
// sequence.
func (idx *Index) Totals() [AlphabetSize]uint32 { return idx.totals }

// Rank returns the count of base in seq[:position).
func (idx *Index) Rank(base BaseCode, position int) uint32 {
	return idx.RankAll(position)[base]
}

// RankAll returns rank counts for every symbol at once, amortizing the
// checkpoint lookup across all five queries.
func (idx *Index) RankAll(position int) [AlphabetSize]uint32 {
	bounded := position
	if bounded > idx.seq.Len() {
		bounded = idx.seq.Len()
	}
	if bounded < 0 {
		bounded = 0
	}
	checkpointIdx := bounded / idx.stride
	counts := idx.checkpoints[checkpointIdx].counts
	for i := checkpointIdx * idx.stride; i < bounded; i++ {
		code, ok := FromASCII(idx.seq.BaseAt(i))
		if !ok {
			code = N
		}
		counts[code]++
	}
	return counts
}
