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

package machine

// Configuration is a full machine snapshot: control state, the read-only
// input tape, and τ work tapes.
type Configuration struct {
	State     int
	Input     *Tape
	WorkTapes []*Tape
}

// Heads returns the input head followed by each work tape's head, in
// tape order. This is the vector block.Summary stores as EntryHeads and
// ExitHeads.
func (c *Configuration) Heads() []int64 {
	heads := make([]int64, 1+len(c.WorkTapes))
	heads[0] = c.Input.Head()
	for i, t := range c.WorkTapes {
		heads[i+1] = t.Head()
	}
	return heads
}

// ReadVector is the symbol read from the input tape plus every work tape,
// in tape order, at one step.
type ReadVector []Symbol

// ReadCurrent captures cfg's read vector without mutating anything.
func ReadCurrent(cfg *Configuration) ReadVector {
	reads := make(ReadVector, 1+len(cfg.WorkTapes))
	reads[0] = cfg.Input.Read()
	for i, t := range cfg.WorkTapes {
		reads[i+1] = t.Read()
	}
	return reads
}

// Apply writes tr's work-tape symbols and moves every head (input tape
// first, then work tapes in order), then updates the control state. It
// does not look up tr; callers use Table.Lookup or Step for that.
func Apply(cfg *Configuration, tr Transition) {
	for i, w := range tr.Writes {
		cfg.WorkTapes[i].Write(w)
	}
	cfg.Input.Move(tr.Moves[0])
	for i, t := range cfg.WorkTapes {
		t.Move(tr.Moves[i+1])
	}
	cfg.State = tr.NextState
}

// Step reads every head, looks up the matching transition, and applies it.
// It reports ok=false if no transition matches the current (state,
// readVector) pair; callers surface that as an invalid-machine error.
func Step(cfg *Configuration, table *Table) (Transition, bool) {
	reads := ReadCurrent(cfg)
	tr, ok := table.Lookup(cfg.State, reads)
	if !ok {
		return Transition{}, false
	}
	Apply(cfg, tr)
	return tr, true
}
