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

package engine

import (
	"fmt"
	"log"
	"math"
)

// Config configures one Evaluate call.
type Config struct {
	// BlockSize is b, the number of logical units per leaf block.
	BlockSize int
	// NumBlocks is T. If zero, it is computed as ⌈TotalUnits/BlockSize⌉;
	// if nonzero, it must equal that value.
	NumBlocks int
	// TotalUnits is n, the length of the logical input stream.
	TotalUnits int64
	// WorkspaceBytes is the size of the reusable leaf workspace buffer
	// lent to every ProcessBlock call.
	WorkspaceBytes int
	// SpaceBound is the configured space ceiling in cells; zero means no
	// ceiling is enforced.
	SpaceBound int
	// ProfileSpace enables the tracker's detailed breakdown.
	ProfileSpace bool
	// Verbose gates diagnostic logging to Logger.
	Verbose bool
	// Logger receives diagnostics when Verbose is set. A nil Logger with
	// Verbose set simply produces no output.
	Logger *log.Logger
}

// OptimalForUnits returns a Config with BlockSize = ⌈√n⌉, the choice that
// minimizes the engine's O(b + T + log T) space bound to O(√n).
func OptimalForUnits(n int64) (*Config, error) {
	if n <= 0 {
		return nil, NewError(KindInvalidConfiguration, 0,
			fmt.Errorf("total units must be positive, got %d: %w", n, ErrInvalidConfiguration))
	}
	b := int(math.Ceil(math.Sqrt(float64(n))))
	if b < 1 {
		b = 1
	}
	numBlocks := int((n + int64(b) - 1) / int64(b))
	return &Config{
		BlockSize:      b,
		NumBlocks:      numBlocks,
		TotalUnits:     n,
		WorkspaceBytes: b,
	}, nil
}

// Validate checks the configuration invariants and fills in NumBlocks when
// it is zero. It returns a KindInvalidConfiguration error for a zero block
// size, zero total units, or an explicit NumBlocks inconsistent with
// ⌈TotalUnits/BlockSize⌉.
func (c *Config) Validate() error {
	if c.BlockSize <= 0 {
		return NewError(KindInvalidConfiguration, 0,
			fmt.Errorf("block size must be positive, got %d: %w", c.BlockSize, ErrInvalidConfiguration))
	}
	if c.TotalUnits <= 0 {
		return NewError(KindInvalidConfiguration, 0,
			fmt.Errorf("total units must be positive, got %d: %w", c.TotalUnits, ErrInvalidConfiguration))
	}
	expected := int((c.TotalUnits + int64(c.BlockSize) - 1) / int64(c.BlockSize))
	if c.NumBlocks == 0 {
		c.NumBlocks = expected
	} else if c.NumBlocks != expected {
		return NewError(KindInvalidConfiguration, 0,
			fmt.Errorf("num_blocks %d != ceil(total_units/block_size) %d: %w", c.NumBlocks, expected, ErrInvalidConfiguration))
	}
	return nil
}
