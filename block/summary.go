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

// Package block implements the Turing-machine block simulator that rides
// on top of the compressed evaluator: block summaries, the b-step forward
// execution that produces them, the exact bounded-window interface check
// between adjacent blocks, and the associative merge that folds them into
// a single root summary.
package block

import (
	"github.com/compressweave/compressweave/algebra"
	"github.com/compressweave/compressweave/machine"
)

// MicroOp is one recorded work-tape mutation during a block's simulation:
// which work tape, the position written (relative to that tape's entry
// head), the symbol written, and the head's move direction. The input
// tape never appears here, since it is read-only (spec.md §3 invariant).
type MicroOp struct {
	TapeIndex int
	Offset    int64
	Symbol    machine.Symbol
	Move      machine.Move
}

// Window is the inclusive range of tape positions visited during a block.
type Window struct {
	Min, Max int64
}

func (w Window) union(o Window) Window {
	out := w
	if o.Min < out.Min {
		out.Min = o.Min
	}
	if o.Max > out.Max {
		out.Max = o.Max
	}
	return out
}

// Summary is σ_k, the compact O(b)-cell record of block k's execution:
// entry/exit state, per-tape entry/exit head positions (input tape first,
// then work tapes), the movement log, and per-tape window bounds.
type Summary struct {
	// BlockID is the leaf block id that produced this summary, or 0 for a
	// summary produced by merging two subtrees.
	BlockID int

	EntryState int
	ExitState  int

	// EntryHeads and ExitHeads hold the input tape's head first, followed
	// by each work tape's head, in tape order.
	EntryHeads []int64
	ExitHeads  []int64

	MovementLog []MicroOp

	// Windows holds one entry per tape (input first, then work tapes),
	// mirroring EntryHeads/ExitHeads.
	Windows []Window

	Encoding algebra.Encoding
}
