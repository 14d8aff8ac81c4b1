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

import (
	"fmt"
	"strconv"
)

// Transition is the result of looking up (state, readVector): the next
// control state, one write symbol per work tape, and one move per tape
// (input tape first, then work tapes in declaration order).
type Transition struct {
	NextState int
	Writes    []Symbol
	Moves     []Move
}

// Table is a deterministic transition function, total-by-lookup: δ is
// defined wherever a transition was registered, and undefined (a lookup
// miss) everywhere else.
type Table struct {
	numWorkTapes int
	transitions  map[string]Transition
}

// Lookup returns the transition registered for (state, reads), if any.
func (t *Table) Lookup(state int, reads ReadVector) (Transition, bool) {
	tr, ok := t.transitions[key(state, reads)]
	return tr, ok
}

// NumWorkTapes reports τ, the number of work tapes this table was built
// for.
func (t *Table) NumWorkTapes() int { return t.numWorkTapes }

func key(state int, reads ReadVector) string {
	buf := make([]byte, 0, 12+len(reads)*2)
	buf = strconv.AppendInt(buf, int64(state), 10)
	buf = append(buf, ':')
	for _, r := range reads {
		buf = strconv.AppendInt(buf, int64(r), 10)
		buf = append(buf, ',')
	}
	return string(buf)
}

// Builder constructs a Table, validating that every registered transition
// supplies exactly one write symbol per work tape and one move per tape.
//
// This resolves spec.md's open "no-op tape" question (§9): there is no
// implicit "keep the current symbol" fallback anywhere in this module. A
// transition that doesn't specify a write for a work tape is a build-time
// error, so movement-log replay during the interface check is never
// ambiguous about what a "no-op" tape should record.
type Builder struct {
	numWorkTapes int
	transitions  map[string]Transition
	err          error
}

// NewBuilder starts building a Table for a machine with numWorkTapes work
// tapes (not counting the read-only input tape).
func NewBuilder(numWorkTapes int) *Builder {
	return &Builder{
		numWorkTapes: numWorkTapes,
		transitions:  make(map[string]Transition),
	}
}

// AddTransition registers δ(state, reads) = tr. reads must have one entry
// per tape (input first); tr.Writes must have exactly numWorkTapes
// entries; tr.Moves must have one entry per tape. Errors are deferred to
// Build so calls can be chained.
func (b *Builder) AddTransition(state int, reads ReadVector, tr Transition) *Builder {
	if b.err != nil {
		return b
	}
	if len(reads) != b.numWorkTapes+1 {
		b.err = fmt.Errorf("machine: transition for state %d reads %d tapes, want %d", state, len(reads), b.numWorkTapes+1)
		return b
	}
	if len(tr.Writes) != b.numWorkTapes {
		b.err = fmt.Errorf("machine: transition for state %d writes %d symbols, want exactly one per work tape (%d)", state, len(tr.Writes), b.numWorkTapes)
		return b
	}
	if len(tr.Moves) != b.numWorkTapes+1 {
		b.err = fmt.Errorf("machine: transition for state %d has %d moves, want one per tape (%d)", state, len(tr.Moves), b.numWorkTapes+1)
		return b
	}
	b.transitions[key(state, reads)] = tr
	return b
}

// Build finalizes the table, or returns the first validation error
// encountered by AddTransition.
func (b *Builder) Build() (*Table, error) {
	if b.err != nil {
		return nil, b.err
	}
	return &Table{numWorkTapes: b.numWorkTapes, transitions: b.transitions}, nil
}
