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

	"github.com/compressweave/compressweave/algebra"
	"github.com/compressweave/compressweave/engine"
	"github.com/compressweave/compressweave/machine"
)

// IsHalting reports whether state is one of the machine's halting states.
type IsHalting func(state int) bool

// SimulateBlock runs up to blockSize steps of table starting from entry,
// recording σ_k. It stops early if entry is already in a halting state
// before the first step, or becomes one between steps. entry is mutated
// in place to become the block's exit configuration.
func SimulateBlock(blockID int, entry *machine.Configuration, table *machine.Table, blockSize int, halting IsHalting) (*Summary, error) {
	s := &Summary{
		BlockID:    blockID,
		EntryState: entry.State,
		EntryHeads: entry.Heads(),
	}
	s.Windows = initialWindows(s.EntryHeads)

	for step := 0; step < blockSize; step++ {
		if halting(entry.State) {
			break
		}
		reads := machine.ReadCurrent(entry)
		tr, ok := table.Lookup(entry.State, reads)
		if !ok {
			return nil, engine.NewError(engine.KindInvalidMachine, blockID,
				fmt.Errorf("no transition for state %d with reads %v: %w", entry.State, reads, engine.ErrInvalidMachine))
		}
		for i, tape := range entry.WorkTapes {
			s.MovementLog = append(s.MovementLog, MicroOp{
				TapeIndex: i,
				Offset:    tape.Head() - s.EntryHeads[i+1],
				Symbol:    tr.Writes[i],
				Move:      tr.Moves[i+1],
			})
		}
		machine.Apply(entry, tr)
		updateWindows(s.Windows, entry.Heads())
	}

	s.ExitState = entry.State
	s.ExitHeads = entry.Heads()
	headDigest := digestHeads(s.ExitHeads)
	s.Encoding = algebra.EncodeProjection(s.EntryState, s.ExitState, headDigest)
	return s, nil
}

func initialWindows(heads []int64) []Window {
	w := make([]Window, len(heads))
	for i, h := range heads {
		w[i] = Window{Min: h, Max: h}
	}
	return w
}

func updateWindows(w []Window, heads []int64) {
	for i, h := range heads {
		if h < w[i].Min {
			w[i].Min = h
		}
		if h > w[i].Max {
			w[i].Max = h
		}
	}
}

// digestHeads folds a head vector down to one byte for the algebraic
// encoding; it is not interpreted anywhere except as an opaque projection
// input, so any stable, order-sensitive fold is acceptable.
func digestHeads(heads []int64) byte {
	var d byte
	for i, h := range heads {
		d = algebra.Add(d, byte(uint64(h)>>uint(8*(i%8))))
	}
	return d
}

// Reconstruct rebuilds the entry configuration for the block following the
// one that produced prev: the new configuration's state and input head
// equal prev.ExitState/prev.ExitHeads[0], and each work tape's head is
// installed at its exit position from prev, then prev's movement log is
// replayed onto otherwise-blank work tapes to recover their non-blank
// cells. input supplies the (shared, read-only) input tape contents.
func Reconstruct(prev *Summary, inputTape *machine.Tape, numWorkTapes int) *machine.Configuration {
	cfg := &machine.Configuration{
		State: prev.ExitState,
		Input: inputTape,
	}
	cfg.Input.SetHead(prev.ExitHeads[0])

	cfg.WorkTapes = make([]*machine.Tape, numWorkTapes)
	for i := range cfg.WorkTapes {
		cfg.WorkTapes[i] = machine.NewTape()
	}
	for _, op := range prev.MovementLog {
		tape := cfg.WorkTapes[op.TapeIndex]
		tape.SetHead(prev.EntryHeads[op.TapeIndex+1] + op.Offset)
		tape.Write(op.Symbol)
	}
	for i, tape := range cfg.WorkTapes {
		tape.SetHead(prev.ExitHeads[i+1])
	}
	return cfg
}
