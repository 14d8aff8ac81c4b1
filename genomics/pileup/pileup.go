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

// Package pileup builds per-position base-count/quality-sum pileups from
// aligned reads through the compressed evaluator: each block accumulates
// its own positional window, and adjacent blocks merge by a positional
// two-way sort-merge that sums overlapping cells.
package pileup

import (
	"github.com/compressweave/compressweave/engine"
	"github.com/compressweave/compressweave/genomics/align"
)

// NumBases is the number of tracked bases: A, C, G, T. Ambiguity codes
// (N and friends) are not pileup'd — they carry no allele signal.
const NumBases = 4

func baseIndex(base byte) (int, bool) {
	switch base {
	case 'A', 'a':
		return 0, true
	case 'C', 'c':
		return 1, true
	case 'G', 'g':
		return 2, true
	case 'T', 't', 'U', 'u':
		return 3, true
	default:
		return 0, false
	}
}

// Node aggregates pileup statistics at a single genomic coordinate.
type Node struct {
	Position    uint32
	BaseCounts  [NumBases]uint32
	QualitySums [NumBases]float32
	Depth       uint32
}

// NewNode returns an empty node at position.
func NewNode(position uint32) *Node { return &Node{Position: position} }

// Observe records one read's base at baseIdx with the given Phred quality,
// normalized to [0,1] the way the reference scorer expects.
func (n *Node) Observe(baseIdx int, quality byte) {
	n.BaseCounts[baseIdx]++
	n.QualitySums[baseIdx] += float32(quality) / 93.0
	n.Depth++
}

// Merge returns a new node combining n and other, which must share a
// Position.
func (n *Node) Merge(other *Node) *Node {
	merged := NewNode(n.Position)
	for i := 0; i < NumBases; i++ {
		merged.BaseCounts[i] = n.BaseCounts[i] + other.BaseCounts[i]
		merged.QualitySums[i] = n.QualitySums[i] + other.QualitySums[i]
	}
	merged.Depth = n.Depth + other.Depth
	return merged
}

// Region is a half-open genomic coordinate range [Start, End).
type Region struct {
	Start, End uint32
}

// Summary is a block's (or merged subtree's) pileup result: the region it
// covers and the ordered, non-empty nodes within it.
type Summary struct {
	BlockID int
	Region  Region
	Nodes   []*Node
}

// Empty returns a summary with no observed nodes, covering region.
func Empty(blockID int, region Region) *Summary {
	return &Summary{BlockID: blockID, Region: region}
}

// Merge performs the positional two-way sort-merge: positions present on
// only one side pass through, positions present on both sides combine via
// Node.Merge. Associative because disjoint windows concatenate and
// overlapping windows sum, independent of fold shape.
func (s *Summary) Merge(other *Summary) *Summary {
	merged := make([]*Node, 0, len(s.Nodes)+len(other.Nodes))
	i, j := 0, 0
	for i < len(s.Nodes) && j < len(other.Nodes) {
		left, right := s.Nodes[i], other.Nodes[j]
		switch {
		case left.Position < right.Position:
			merged = append(merged, left)
			i++
		case left.Position > right.Position:
			merged = append(merged, right)
			j++
		default:
			merged = append(merged, left.Merge(right))
			i++
			j++
		}
	}
	merged = append(merged, s.Nodes[i:]...)
	merged = append(merged, other.Nodes[j:]...)

	start, end := s.Region.Start, s.Region.End
	if other.Region.Start < start {
		start = other.Region.Start
	}
	if other.Region.End > end {
		end = other.Region.End
	}

	return &Summary{BlockID: other.BlockID, Region: Region{Start: start, End: end}, Nodes: merged}
}

// Workload is a batch of aligned reads evaluated against a genomic
// region, partitioned into BasesPerBlock-sized windows.
type Workload struct {
	Reads         []*align.AlignedRead
	Region        Region
	BasesPerBlock int
}

// NewWorkload constructs a Workload over region, with blockID 1 covering
// region.Start.
func NewWorkload(reads []*align.AlignedRead, region Region, basesPerBlock int) *Workload {
	return &Workload{Reads: reads, Region: region, BasesPerBlock: basesPerBlock}
}

func (w *Workload) blockRegion(blockID int) Region {
	blockIdx := uint32(blockID - 1)
	start := w.Region.Start + blockIdx*uint32(w.BasesPerBlock)
	end := start + uint32(w.BasesPerBlock)
	if end > w.Region.End {
		end = w.Region.End
	}
	if start > w.Region.End {
		start = w.Region.End
	}
	return Region{Start: start, End: end}
}

// Processor implements engine.BlockProcessor[*Workload, *Summary, *Summary]
// for positional pileup construction.
type Processor struct{}

// NewProcessor returns a pileup processor. It is stateless: unlike the
// block-simulator and FM-index processors, no block depends on another's
// result, so nothing needs to roll forward between calls.
func NewProcessor() *Processor { return &Processor{} }

func (p *Processor) ProcessBlock(ctx *engine.BlockContext, w *Workload, _ []byte) (*Summary, error) {
	region := w.blockRegion(ctx.BlockID)
	if region.Start >= region.End {
		return Empty(ctx.BlockID, region), nil
	}

	windowLen := int(region.End - region.Start)
	nodes := make([]*Node, windowLen)
	for i := range nodes {
		nodes[i] = NewNode(region.Start + uint32(i))
	}

	for _, read := range w.Reads {
		read.Walk(func(entry align.PositionEntry) {
			if entry.Operation != align.CigarMatch || entry.ReadOff < 0 {
				return
			}
			if entry.RefPos < region.Start || entry.RefPos >= region.End {
				return
			}
			base, ok := read.BaseAt(entry.ReadOff)
			if !ok {
				return
			}
			idx, ok := baseIndex(base)
			if !ok {
				return
			}
			quality, ok := read.QualityAt(entry.ReadOff)
			if !ok {
				quality = 30
			}
			nodes[entry.RefPos-region.Start].Observe(idx, quality)
		})
	}

	nonEmpty := nodes[:0]
	for _, n := range nodes {
		if n.Depth > 0 {
			nonEmpty = append(nonEmpty, n)
		}
	}

	return &Summary{BlockID: ctx.BlockID, Region: region, Nodes: nonEmpty}, nil
}

func (p *Processor) Merge(left, right *Summary) (*Summary, error) {
	return left.Merge(right), nil
}

func (p *Processor) Finalize(root *Summary, _ *Workload) (*Summary, error) {
	return root, nil
}
