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
	"log"

	"github.com/google/uuid"

	"github.com/compressweave/compressweave/algebra"
	"github.com/compressweave/compressweave/engine"
	"github.com/compressweave/compressweave/machine"
	"github.com/compressweave/compressweave/space"
)

// RunInput is the shared, read-only input every leaf's ProcessBlock call
// sees: the input tape's contents, the machine's transition table, and
// its halting predicate.
type RunInput struct {
	InputSymbols []machine.Symbol
	NumWorkTapes int
	Table        *machine.Table
	InitialState int
	Halting      IsHalting
}

// SimulationResult is returned by Run: the outcome of simulating a machine
// through the compressed evaluator.
type SimulationResult struct {
	Accepted     bool
	FinalConfig  *machine.Configuration
	SpaceUsed    int
	TimeSteps    int
	SpaceProfile *space.Profile
	RunID        uuid.UUID
}

// SatisfiesBound reports whether the run's tracked space usage stayed
// within bound cells.
func (r *SimulationResult) SatisfiesBound(bound int) bool {
	return r.SpaceUsed <= bound
}

// simProcessor implements engine.BlockProcessor[*RunInput, *Summary,
// *machine.Configuration] for Turing-machine block simulation, keeping the
// rolling boundary summary prescribed by spec.md's lifecycle rules: only a
// single prior summary is ever retained.
type simProcessor struct {
	blockSize int
	combiner  algebra.Combiner
	prev      *Summary
}

func (p *simProcessor) ProcessBlock(ctx *engine.BlockContext, in *RunInput, workspace []byte) (*Summary, error) {
	var cfg *machine.Configuration
	if ctx.BlockID == 1 {
		cfg = initialConfiguration(in)
	} else {
		cfg = Reconstruct(p.prev, inputTapeFrom(in.InputSymbols), in.NumWorkTapes)
	}
	s, err := SimulateBlock(ctx.BlockID, cfg, in.Table, p.blockSize, in.Halting)
	if err != nil {
		return nil, err
	}
	p.prev = s
	return s, nil
}

func (p *simProcessor) Merge(left, right *Summary) (*Summary, error) {
	return Merge(left, right, p.combiner)
}

func (p *simProcessor) Finalize(root *Summary, in *RunInput) (*machine.Configuration, error) {
	return Reconstruct(root, inputTapeFrom(in.InputSymbols), in.NumWorkTapes), nil
}

func initialConfiguration(in *RunInput) *machine.Configuration {
	cfg := &machine.Configuration{
		State: in.InitialState,
		Input: inputTapeFrom(in.InputSymbols),
	}
	cfg.WorkTapes = make([]*machine.Tape, in.NumWorkTapes)
	for i := range cfg.WorkTapes {
		cfg.WorkTapes[i] = machine.NewTape()
	}
	return cfg
}

func inputTapeFrom(symbols []machine.Symbol) *machine.Tape {
	t := machine.NewTape()
	for i, s := range symbols {
		t.SetHead(int64(i))
		t.Write(s)
	}
	t.SetHead(0)
	return t
}

// Run simulates table against input through the compressed evaluator,
// running each of cfg.NumBlocks blocks for up to cfg.BlockSize steps, so up
// to cfg.NumBlocks*cfg.BlockSize steps in all (cfg.TimeBound rounded up to
// a whole number of blocks), stopping blocks early on a halting state. accepting classifies which
// halting states count as acceptance.
func Run(cfg *SimulationConfig, input []machine.Symbol, numWorkTapes int, table *machine.Table, initialState int, halting IsHalting, accepting func(state int) bool) (*SimulationResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	econf := &engine.Config{
		BlockSize:      cfg.BlockSize,
		NumBlocks:      cfg.NumBlocks,
		TotalUnits:     int64(cfg.TimeBound),
		WorkspaceBytes: cfg.BlockSize,
		ProfileSpace:   cfg.ProfileSpace,
		Verbose:        cfg.Verbose,
		Logger:         log.Default(),
	}
	proc := &simProcessor{blockSize: cfg.BlockSize, combiner: algebra.NewCombiner()}
	runIn := &RunInput{
		InputSymbols: input,
		NumWorkTapes: numWorkTapes,
		Table:        table,
		InitialState: initialState,
		Halting:      halting,
	}

	res, err := engine.Evaluate[*RunInput, *Summary, *machine.Configuration](econf, runIn, proc)
	if err != nil {
		return nil, err
	}

	return &SimulationResult{
		Accepted:     accepting(res.Output.State),
		FinalConfig:  res.Output,
		SpaceUsed:    res.SpaceUsed,
		TimeSteps:    cfg.TimeBound,
		SpaceProfile: res.SpaceProfile,
		RunID:        uuid.New(),
	}, nil
}
