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
	"math"

	"github.com/compressweave/compressweave/algebra"
	"github.com/compressweave/compressweave/engine"
)

// SimulationConfig configures a Turing-machine simulation run through Run.
type SimulationConfig struct {
	BlockSize           int
	TimeBound           int
	NumBlocks           int
	FieldCharacteristic int
	ProfileSpace        bool
	Verbose             bool
}

// OptimalForTime returns a SimulationConfig with BlockSize = ⌈√t⌉, the
// choice that minimizes space to O(√t) for a t-step-bounded simulation.
func OptimalForTime(t int) (*SimulationConfig, error) {
	if t <= 0 {
		return nil, engine.NewError(engine.KindInvalidConfiguration, 0,
			fmt.Errorf("time bound must be positive, got %d: %w", t, engine.ErrInvalidConfiguration))
	}
	b := int(math.Ceil(math.Sqrt(float64(t))))
	if b < 1 {
		b = 1
	}
	numBlocks := (t + b - 1) / b
	return &SimulationConfig{
		BlockSize:           b,
		TimeBound:           t,
		NumBlocks:           numBlocks,
		FieldCharacteristic: algebra.FieldBits,
	}, nil
}

// Validate checks the configuration invariants and fills in NumBlocks and
// FieldCharacteristic when they are zero.
func (c *SimulationConfig) Validate() error {
	if c.BlockSize <= 0 {
		return engine.NewError(engine.KindInvalidConfiguration, 0,
			fmt.Errorf("block size must be positive, got %d: %w", c.BlockSize, engine.ErrInvalidConfiguration))
	}
	if c.TimeBound <= 0 {
		return engine.NewError(engine.KindInvalidConfiguration, 0,
			fmt.Errorf("time bound must be positive, got %d: %w", c.TimeBound, engine.ErrInvalidConfiguration))
	}
	expected := (c.TimeBound + c.BlockSize - 1) / c.BlockSize
	if c.NumBlocks == 0 {
		c.NumBlocks = expected
	} else if c.NumBlocks != expected {
		return engine.NewError(engine.KindInvalidConfiguration, 0,
			fmt.Errorf("num_blocks %d != ceil(time_bound/block_size) %d: %w", c.NumBlocks, expected, engine.ErrInvalidConfiguration))
	}
	if c.FieldCharacteristic == 0 {
		c.FieldCharacteristic = algebra.FieldBits
	}
	return nil
}
