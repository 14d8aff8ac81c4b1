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

// Package variant wraps a genomics/pileup evaluation with a thresholded
// Bayesian scorer, turning per-position base counts and quality sums into
// typed variant calls. Serialization (VCF) is out of scope per spec.md's
// Non-goals — Variant is a plain in-memory record.
package variant

import (
	"fmt"

	"github.com/compressweave/compressweave/engine"
	"github.com/compressweave/compressweave/genomics/align"
	"github.com/compressweave/compressweave/genomics/pileup"
)

func baseIndex(base byte) (int, bool) {
	switch base {
	case 'A', 'a':
		return 0, true
	case 'C', 'c':
		return 1, true
	case 'G', 'g':
		return 2, true
	case 'T', 't', 'U', 'u':
		return 3, true
	default:
		return 0, false
	}
}

var altBaseByIndex = [pileup.NumBases]byte{'A', 'C', 'G', 'T'}

// Call is the result of scoring a single pileup node against a reference
// base.
type Call struct {
	AltBase        byte
	Quality        float32
	AlleleFraction float32
}

// BayesianCall applies a lightweight beta-binomial-style posterior over a
// pileup node's base counts, proposing the most-observed non-reference
// base as the alternate allele. It reports false when depth is zero, the
// reference base isn't one of the four tracked bases, or every read
// agrees with the reference.
func BayesianCall(node *pileup.Node, referenceBase byte, prior float32) (Call, bool) {
	if node.Depth == 0 {
		return Call{}, false
	}
	refIdx, ok := baseIndex(referenceBase)
	if !ok {
		return Call{}, false
	}

	bestIdx := -1
	var bestCount uint32
	for i, count := range node.BaseCounts {
		if i == refIdx {
			continue
		}
		if count > bestCount {
			bestCount = count
			bestIdx = i
		}
	}
	if bestIdx < 0 || bestCount == 0 {
		return Call{}, false
	}

	depth := float32(node.Depth)
	altFraction := float32(bestCount) / depth

	avgQuality := node.QualitySums[bestIdx] / float32(bestCount)
	if avgQuality < 0 {
		avgQuality = 0
	}
	if avgQuality > 1 {
		avgQuality = 1
	}

	// Posterior odds of variant vs reference under a simple prior; the
	// quality score below is a heuristic blend, not the posterior itself.
	likelihoodVariant := prior * maxF32(altFraction, 1e-6)
	likelihoodReference := (1 - prior) * maxF32(1-altFraction, 1e-6)
	_ = likelihoodVariant / (likelihoodVariant + likelihoodReference)

	quality := altFraction * maxF32(avgQuality, 0.1) * 100
	if quality > 60 {
		quality = 60
	}

	return Call{
		AltBase:        altBaseByIndex[bestIdx],
		Quality:        quality,
		AlleleFraction: altFraction,
	}, true
}

func maxF32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// Variant is a variant identified from streaming pileup analysis.
type Variant struct {
	Chrom          string
	Position       uint32
	Reference      byte
	Alternate      byte
	Depth          uint32
	Quality        float32
	AlleleFraction float32
}

// Caller is a streaming variant caller built on top of a pileup
// evaluation: it reuses pileup.Processor's associative merge through the
// compressed evaluator and applies BayesianCall to the finalized root
// summary's nodes.
type Caller struct {
	chrom            string
	reference        []byte
	regionStart      uint32
	basesPerBlock    int
	qualityThreshold float32
	prior            float32
}

// NewCaller builds a caller over reference, anchored at regionStart on
// chrom, evaluating basesPerBlock bases per block.
func NewCaller(chrom string, reference []byte, regionStart uint32, basesPerBlock int, qualityThreshold, prior float32) (*Caller, error) {
	if basesPerBlock <= 0 {
		return nil, fmt.Errorf("bases per block must be positive, got %d", basesPerBlock)
	}
	if len(reference) == 0 {
		return nil, fmt.Errorf("reference must be non-empty")
	}
	return &Caller{
		chrom:            chrom,
		reference:        reference,
		regionStart:      regionStart,
		basesPerBlock:    basesPerBlock,
		qualityThreshold: qualityThreshold,
		prior:            prior,
	}, nil
}

// Call runs a pileup evaluation over reads and scores every resulting
// node against the caller's reference, returning variants whose quality
// meets the configured threshold.
func (c *Caller) Call(reads []*align.AlignedRead) ([]*Variant, error) {
	region := pileup.Region{Start: c.regionStart, End: c.regionStart + uint32(len(c.reference))}
	workload := pileup.NewWorkload(reads, region, c.basesPerBlock)

	cfg := &engine.Config{
		BlockSize:      c.basesPerBlock,
		TotalUnits:     int64(len(c.reference)),
		WorkspaceBytes: c.basesPerBlock,
	}
	proc := pileup.NewProcessor()
	res, err := engine.Evaluate[*pileup.Workload, *pileup.Summary, *pileup.Summary](cfg, workload, proc)
	if err != nil {
		return nil, err
	}

	return c.extractVariants(res.Output), nil
}

func (c *Caller) extractVariants(summary *pileup.Summary) []*Variant {
	var variants []*Variant
	for _, node := range summary.Nodes {
		if node.Position < c.regionStart {
			continue
		}
		offset := int(node.Position - c.regionStart)
		if offset >= len(c.reference) {
			continue
		}
		referenceBase := c.reference[offset]

		call, ok := BayesianCall(node, referenceBase, c.prior)
		if !ok || call.Quality < c.qualityThreshold {
			continue
		}

		variants = append(variants, &Variant{
			Chrom:          c.chrom,
			Position:       node.Position,
			Reference:      referenceBase,
			Alternate:      call.AltBase,
			Depth:          node.Depth,
			Quality:        call.Quality,
			AlleleFraction: call.AlleleFraction,
		})
	}
	return variants
}
