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

import "github.com/compressweave/compressweave/algebra"

// Merge combines two adjacent block summaries into their parent's summary.
// It runs, in order:
//
//  1. The exact interface check (CheckInterface) — byte-for-byte, no
//     hashing. A mismatch aborts with a KindInterfaceCheckFailed error.
//  2. The algebraic merge: the combiner folds left's and right's constant-
//     size field encodings. Unlike the reference design this merge
//     replaces, the result isn't computed and discarded — it is carried
//     on the parent summary and surfaces on the evaluation's root summary,
//     where property tests assert it is invariant under different
//     left-right fold shapes over the same block sequence (resolving
//     spec.md §9's "is the algebraic merge dead work?" question in favor
//     of keeping it, made to matter).
//  3. The structural merge: the parent's entry is left's entry, its exit
//     is right's exit, per-tape windows are the union of both sides, and
//     the movement log is left's alone, so a merged summary's log holds
//     only its leftmost leaf's writes. CheckInterface never replays a
//     merged log; Finalize does (Reconstruct on the root summary), so the
//     final configuration's state and heads are exact but its work tapes
//     hold only the leftmost leaf's writes.
func Merge(left, right *Summary, combiner algebra.Combiner) (*Summary, error) {
	if err := CheckInterface(left, right); err != nil {
		return nil, err
	}

	windows := make([]Window, len(left.Windows))
	for i := range windows {
		windows[i] = left.Windows[i].union(right.Windows[i])
	}

	return &Summary{
		BlockID:     0,
		EntryState:  left.EntryState,
		ExitState:   right.ExitState,
		EntryHeads:  left.EntryHeads,
		ExitHeads:   right.ExitHeads,
		Windows:     windows,
		MovementLog: left.MovementLog,
		Encoding:    combiner.Merge(left.Encoding, right.Encoding),
	}, nil
}
