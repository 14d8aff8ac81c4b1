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

// Package config loads evaluator and simulation presets from YAML, the way
// a table's definition.yaml is loaded in the db package this module is
// descended from.
package config

import (
	"fmt"

	"sigs.k8s.io/yaml"

	"github.com/compressweave/compressweave/block"
	"github.com/compressweave/compressweave/engine"
)

// EvaluatorPreset is the YAML-serializable form of engine.Config.
type EvaluatorPreset struct {
	BlockSize      int   `json:"block_size"`
	NumBlocks      int   `json:"num_blocks,omitempty"`
	TotalUnits     int64 `json:"total_units"`
	WorkspaceBytes int   `json:"workspace_bytes,omitempty"`
	SpaceBound     int   `json:"space_bound,omitempty"`
	ProfileSpace   bool  `json:"profile_space,omitempty"`
	Verbose        bool  `json:"verbose,omitempty"`
}

// ToConfig converts the preset into an engine.Config. Callers still need to
// set Logger themselves; YAML has no sensible encoding for a *log.Logger.
func (p EvaluatorPreset) ToConfig() *engine.Config {
	return &engine.Config{
		BlockSize:      p.BlockSize,
		NumBlocks:      p.NumBlocks,
		TotalUnits:     p.TotalUnits,
		WorkspaceBytes: p.WorkspaceBytes,
		SpaceBound:     p.SpaceBound,
		ProfileSpace:   p.ProfileSpace,
		Verbose:        p.Verbose,
	}
}

// SimulationPreset is the YAML-serializable form of block.SimulationConfig.
// It lives here, rather than in package block, to keep the loader the only
// thing in the module that imports sigs.k8s.io/yaml.
type SimulationPreset struct {
	BlockSize           int  `json:"block_size"`
	TimeBound           int  `json:"time_bound"`
	NumBlocks           int  `json:"num_blocks,omitempty"`
	FieldCharacteristic int  `json:"field_characteristic,omitempty"`
	ProfileSpace        bool `json:"profile_space,omitempty"`
	Verbose             bool `json:"verbose,omitempty"`
}

// ToConfig converts the preset into a block.SimulationConfig.
func (p SimulationPreset) ToConfig() *block.SimulationConfig {
	return &block.SimulationConfig{
		BlockSize:           p.BlockSize,
		TimeBound:           p.TimeBound,
		NumBlocks:           p.NumBlocks,
		FieldCharacteristic: p.FieldCharacteristic,
		ProfileSpace:        p.ProfileSpace,
		Verbose:             p.Verbose,
	}
}

// LoadEvaluatorYAML parses an EvaluatorPreset from raw YAML bytes.
func LoadEvaluatorYAML(data []byte) (*EvaluatorPreset, error) {
	var p EvaluatorPreset
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing evaluator preset: %w", err)
	}
	return &p, nil
}

// LoadSimulationYAML parses a SimulationPreset from raw YAML bytes.
func LoadSimulationYAML(data []byte) (*SimulationPreset, error) {
	var p SimulationPreset
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing simulation preset: %w", err)
	}
	return &p, nil
}
