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

package fmindex

import (
	"github.com/compressweave/compressweave/engine"
	"github.com/compressweave/compressweave/genomics/dna"
)

// Interval is an SA range [Low, High) of suffixes consistent with the
// suffix of the read processed so far.
type Interval struct {
	Low, High uint32
}

// Count is the number of suffixes (occurrences) the interval covers.
func (iv Interval) Count() uint32 {
	if iv.High <= iv.Low {
		return 0
	}
	return iv.High - iv.Low
}

// Workload is the read being searched against a built Index.
type Workload struct {
	Index *Index
	Read  []byte
}

// Summary is a block's backward-search result: the interval it started
// from, the interval it narrowed to, and how many characters in its
// segment had no supported base (counted as mismatches rather than
// aborting the search).
type Summary struct {
	BlockID       int
	EntryInterval Interval
	ExitInterval  Interval
	Mismatches    int
}

// Result is what Finalize produces: the root interval and total mismatch
// count.
type Result struct {
	Interval   Interval
	Mismatches int
}

// Processor implements engine.BlockProcessor[*Workload, *Summary, *Result]
// for FM-index backward search. Blocks are assigned over the read in
// *reverse* genomic order: block 1 covers the read's trailing bases,
// the last block its leading bases. That inversion is what lets the
// engine's ascending, strictly-ordered leaf visitation (spec.md §4.5)
// double as backward search's required right-to-left character order —
// block k narrows the interval block k-1 produced, exactly the rolling-
// boundary pattern package block uses for Turing-machine simulation.
type Processor struct {
	prev *Interval
}

// NewProcessor returns a fresh backward-search processor. A Processor is
// stateful (it holds the rolling entry interval) and must not be reused
// across concurrent evaluations.
func NewProcessor() *Processor { return &Processor{} }

func (p *Processor) ProcessBlock(ctx *engine.BlockContext, w *Workload, _ []byte) (*Summary, error) {
	readLen := len(w.Read)
	sliceStart := readLen - int(ctx.End)
	sliceEnd := readLen - int(ctx.Start)
	if sliceStart < 0 {
		sliceStart = 0
	}
	if sliceEnd > readLen {
		sliceEnd = readLen
	}

	var entry Interval
	if ctx.BlockID == 1 {
		entry = Interval{Low: 0, High: uint32(w.Index.Len())}
	} else if p.prev != nil {
		entry = *p.prev
	}

	interval := entry
	mismatches := 0
	for i := sliceEnd - 1; i >= sliceStart; i-- {
		code, ok := dna.FromASCII(w.Read[i])
		if !ok || code == dna.N {
			mismatches++
			continue
		}
		sym := FMSymbol{Base: code}
		newLow := w.Index.CTable(sym) + w.Index.Rank(sym, int(interval.Low))
		newHigh := w.Index.CTable(sym) + w.Index.Rank(sym, int(interval.High))
		if newLow >= newHigh {
			mismatches++
			interval = Interval{Low: newLow, High: newLow}
			continue
		}
		interval = Interval{Low: newLow, High: newHigh}
	}

	p.prev = &interval
	return &Summary{BlockID: ctx.BlockID, EntryInterval: entry, ExitInterval: interval, Mismatches: mismatches}, nil
}

// Merge is purely structural: the rolling field in ProcessBlock already
// did the sequential narrowing, so merging two adjacent summaries sums
// their mismatch counts and keeps the right-hand (later, in read-scan
// order) interval, per spec.md §6.
func (p *Processor) Merge(left, right *Summary) (*Summary, error) {
	return &Summary{
		EntryInterval: left.EntryInterval,
		ExitInterval:  right.ExitInterval,
		Mismatches:    left.Mismatches + right.Mismatches,
	}, nil
}

func (p *Processor) Finalize(root *Summary, _ *Workload) (*Result, error) {
	return &Result{Interval: root.ExitInterval, Mismatches: root.Mismatches}, nil
}

// Search runs backward search for read against idx through the compressed
// evaluator, partitioning the read into blockSize-character blocks.
func Search(idx *Index, read []byte, blockSize int) (*Result, error) {
	cfg := &engine.Config{
		BlockSize:      blockSize,
		TotalUnits:     int64(len(read)),
		WorkspaceBytes: blockSize,
	}
	proc := NewProcessor()
	workload := &Workload{Index: idx, Read: read}
	res, err := engine.Evaluate[*Workload, *Summary, *Result](cfg, workload, proc)
	if err != nil {
		return nil, err
	}
	return res.Output, nil
}
