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

// Package space tracks the evaluator's cell usage so callers can verify the
// O(b + T + log T) space bound the compressed evaluator promises. It accounts for
// three components independently: the leaf buffer, the pointerless DFS
// stack, and the streaming ledger, and reports a high-water mark across
// their combined footprint.
package space

import "fmt"

// Profile is a detailed, opt-in breakdown of space usage across the
// tracker's lifetime.
type Profile struct {
	MaxSpace int

	// Timeline holds (step, spaceUsed) snapshots. Populated only by callers
	// that explicitly record a step; the tracker itself does not append to
	// it automatically.
	Timeline []TimelinePoint

	LeafBufferMax int
	StackDepthMax int
	LedgerSize    int
}

// TimelinePoint is one (step, spaceUsed) sample.
type TimelinePoint struct {
	Step      int
	SpaceUsed int
}

// SatisfiesBound reports whether the profile's high-water mark stayed
// within bound cells.
func (p *Profile) SatisfiesBound(bound int) bool {
	return p.MaxSpace <= bound
}

// Report renders a short human-readable summary of the profile.
func (p *Profile) Report() string {
	return fmt.Sprintf(
		"Max space: %d cells\nComponents:\n  Leaf: %d\n  Stack: %d\n  Ledger: %d",
		p.MaxSpace, p.LeafBufferMax, p.StackDepthMax, p.LedgerSize,
	)
}

// Tracker accounts for space used during an evaluation or simulation,
// recording a monotone high-water mark across allocations and frees.
type Tracker struct {
	current int
	max     int

	// frameSizes mirrors the DFS call stack so Pop can free exactly what
	// the matching Push allocated, without the caller having to remember.
	frameSizes []int

	profileEnabled bool
	profile        *Profile
	stackDepth     int
}

// NewTracker returns a tracker. When profileEnabled is true, a detailed
// breakdown is accumulated and can be retrieved with TakeProfile.
func NewTracker(profileEnabled bool) *Tracker {
	t := &Tracker{profileEnabled: profileEnabled}
	if profileEnabled {
		t.profile = &Profile{}
	}
	return t
}

// AllocateLeafBuffer records size cells consumed by a leaf's working buffer.
func (t *Tracker) AllocateLeafBuffer(size int) {
	t.current += size
	t.updateMax()
	if t.profile != nil {
		if size > t.profile.LeafBufferMax {
			t.profile.LeafBufferMax = size
		}
	}
}

// FreeLeafBuffer releases size cells previously charged to the leaf buffer.
func (t *Tracker) FreeLeafBuffer(size int) {
	t.current = saturatingSub(t.current, size)
}

// PushStackFrame records entering one more DFS recursion level, consuming
// tokenSize cells (typically the 2-bit path token, rounded to a cell).
func (t *Tracker) PushStackFrame(tokenSize int) {
	t.current += tokenSize
	t.frameSizes = append(t.frameSizes, tokenSize)
	t.stackDepth++
	t.updateMax()
	if t.profile != nil {
		if t.stackDepth > t.profile.StackDepthMax {
			t.profile.StackDepthMax = t.stackDepth
		}
	}
}

// PopStackFrame releases the most recently pushed stack frame.
func (t *Tracker) PopStackFrame() {
	n := len(t.frameSizes)
	if n == 0 {
		return
	}
	size := t.frameSizes[n-1]
	t.frameSizes = t.frameSizes[:n-1]
	t.current = saturatingSub(t.current, size)
	if t.stackDepth > 0 {
		t.stackDepth--
	}
}

// AllocateLedger records size cells consumed by the streaming ledger. Unlike
// the leaf buffer and stack, this allocation is never freed: the ledger
// lives for the evaluation's full duration.
func (t *Tracker) AllocateLedger(size int) {
	t.current += size
	t.updateMax()
	if t.profile != nil {
		t.profile.LedgerSize = size
	}
}

func (t *Tracker) updateMax() {
	if t.current > t.max {
		t.max = t.current
	}
	if t.profile != nil {
		t.profile.MaxSpace = t.max
	}
}

// MaxSpaceUsed returns the high-water mark observed so far, in cells.
func (t *Tracker) MaxSpaceUsed() int {
	return t.max
}

// TakeProfile returns the accumulated profile, if profiling was enabled,
// and clears it from the tracker.
func (t *Tracker) TakeProfile() *Profile {
	p := t.profile
	t.profile = nil
	return p
}

func saturatingSub(a, b int) int {
	if b > a {
		return 0
	}
	return a - b
}
