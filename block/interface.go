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

package block

import (
	"fmt"

	"github.com/compressweave/compressweave/engine"
	"github.com/compressweave/compressweave/machine"
)

// CheckInterface verifies the interface between two adjacent subtree
// summaries: left.ExitState must equal right.EntryState, their head
// vectors must match, and — only when both sides are true adjacent leaf
// summaries — every position in the overlap of the two blocks' windows
// must replay to the same symbol from both sides. The input tape is
// exempt from the replay comparison — it has no writes to replay (spec.md
// §3), and its contents are the same shared, externally-supplied tape for
// every block, so overlap there is trivially consistent by construction.
//
// A Summary produced by an earlier Merge (BlockID == 0) retains only its
// left child's MovementLog (see Merge), not a combined log for its whole
// subtree. Replaying that log against a window spanning many blocks would
// compare unrelated leaves' logs and could spuriously fail for a machine
// that revisits a tape cell across distant blocks, even though the run is
// valid — state and head equality already guarantee the two subtrees'
// tapes agree at the boundary. So, following
// original_source/src/blocking/interface.rs's resolution of this exact
// ambiguity (right's initial contents are defined to equal left's final
// contents, making the content comparison vacuous once blocks are no
// longer immediate neighbors), the byte-for-byte replay only runs between
// two real leaves; higher merges rely on state/head equality alone.
//
// Comparison is byte-for-byte; there is no hashing anywhere in this path.
func CheckInterface(left, right *Summary) error {
	if left.ExitState != right.EntryState {
		return engine.NewError(engine.KindInterfaceCheckFailed, right.BlockID,
			fmt.Errorf("exit state %d of block %d != entry state %d of block %d: %w",
				left.ExitState, left.BlockID, right.EntryState, right.BlockID, engine.ErrInterfaceCheckFailed))
	}
	if len(left.ExitHeads) != len(right.EntryHeads) {
		return engine.NewError(engine.KindInterfaceCheckFailed, right.BlockID,
			fmt.Errorf("tape count mismatch: %d != %d: %w", len(left.ExitHeads), len(right.EntryHeads), engine.ErrInterfaceCheckFailed))
	}
	for i := range left.ExitHeads {
		if left.ExitHeads[i] != right.EntryHeads[i] {
			return engine.NewError(engine.KindInterfaceCheckFailed, right.BlockID,
				fmt.Errorf("tape %d head %d != %d: %w", i, left.ExitHeads[i], right.EntryHeads[i], engine.ErrInterfaceCheckFailed))
		}
	}

	if left.BlockID == 0 || right.BlockID == 0 {
		// Not true adjacent leaves; the retained movement logs don't cover
		// the full subtrees they summarize, so content replay is vacuous.
		return nil
	}

	numWorkTapes := len(left.ExitHeads) - 1
	for workIdx := 0; workIdx < numWorkTapes; workIdx++ {
		tapeIdx := workIdx + 1
		lw, rw := left.Windows[tapeIdx], right.Windows[tapeIdx]
		lo := maxI64(lw.Min, rw.Min)
		hi := minI64(lw.Max, rw.Max)
		for pos := lo; pos <= hi; pos++ {
			lv := replayWorkTape(left, workIdx, pos)
			rv := replayWorkTape(right, workIdx, pos)
			if lv != rv {
				return engine.NewError(engine.KindInterfaceCheckFailed, right.BlockID,
					fmt.Errorf("tape %d position %d: %v != %v: %w", tapeIdx, pos, lv, rv, engine.ErrInterfaceCheckFailed))
			}
		}
	}
	return nil
}

// replayWorkTape returns the symbol workIdx's (0-based, not counting the
// input tape) tape holds at absolute position pos after s's movement log
// has been replayed, starting from Blank.
func replayWorkTape(s *Summary, workIdx int, pos int64) machine.Symbol {
	entryHead := s.EntryHeads[workIdx+1]
	val := machine.Blank
	for _, op := range s.MovementLog {
		if op.TapeIndex != workIdx {
			continue
		}
		if entryHead+op.Offset == pos {
			val = op.Symbol
		}
	}
	return val
}

func maxI64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func minI64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
