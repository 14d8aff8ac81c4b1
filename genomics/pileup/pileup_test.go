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

package pileup_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/compressweave/compressweave/engine"
	"github.com/compressweave/compressweave/genomics/align"
	"github.com/compressweave/compressweave/genomics/pileup"
)

func sampleReads() []*align.AlignedRead {
	return []*align.AlignedRead{
		{
			Chrom:     "chr1",
			Pos:       100,
			Cigar:     []align.CigarOp{{Kind: align.CigarMatch, Len: 4}},
			Sequence:  []byte("ACGT"),
			Qualities: []byte{30, 30, 30, 30},
		},
		{
			Chrom:     "chr1",
			Pos:       101,
			Cigar:     []align.CigarOp{{Kind: align.CigarMatch, Len: 4}},
			Sequence:  []byte("CGTA"),
			Qualities: []byte{25, 25, 25, 25},
		},
	}
}

func TestProcessBlockAggregatesCounts(t *testing.T) {
	workload := pileup.NewWorkload(sampleReads(), pileup.Region{Start: 100, End: 110}, 5)
	proc := pileup.NewProcessor()
	ctx := &engine.BlockContext{BlockID: 1, Start: 0, End: 5}

	summary, err := proc.ProcessBlock(ctx, workload, nil)
	require.NoError(t, err)
	require.NotEmpty(t, summary.Nodes)
	require.Equal(t, uint32(100), summary.Nodes[0].Position)
	require.EqualValues(t, 1, summary.Nodes[0].Depth)
}

func TestMergeMatchesSinglePassOverAnyBracketing(t *testing.T) {
	workload := pileup.NewWorkload(sampleReads(), pileup.Region{Start: 100, End: 110}, 10)
	proc := pileup.NewProcessor()

	whole, err := proc.ProcessBlock(&engine.BlockContext{BlockID: 1, Start: 0, End: 10}, workload, nil)
	require.NoError(t, err)

	halvesWorkload := pileup.NewWorkload(sampleReads(), pileup.Region{Start: 100, End: 110}, 5)
	left, err := proc.ProcessBlock(&engine.BlockContext{BlockID: 1, Start: 0, End: 5}, halvesWorkload, nil)
	require.NoError(t, err)
	right, err := proc.ProcessBlock(&engine.BlockContext{BlockID: 2, Start: 5, End: 10}, halvesWorkload, nil)
	require.NoError(t, err)

	merged, err := proc.Merge(left, right)
	require.NoError(t, err)

	require.Equal(t, len(whole.Nodes), len(merged.Nodes))
	for i := range whole.Nodes {
		require.Equal(t, whole.Nodes[i].Position, merged.Nodes[i].Position)
		require.Equal(t, whole.Nodes[i].Depth, merged.Nodes[i].Depth)
		require.Equal(t, whole.Nodes[i].BaseCounts, merged.Nodes[i].BaseCounts)
	}
}

func TestEvaluateThroughEngineCoversWholeRegion(t *testing.T) {
	reads := sampleReads()
	workload := pileup.NewWorkload(reads, pileup.Region{Start: 100, End: 110}, 3)
	cfg := &engine.Config{BlockSize: 3, TotalUnits: 10, WorkspaceBytes: 3}

	res, err := engine.Evaluate[*pileup.Workload, *pileup.Summary, *pileup.Summary](cfg, workload, pileup.NewProcessor())
	require.NoError(t, err)
	require.Equal(t, pileup.Region{Start: 100, End: 110}, res.Output.Region)
	require.NotEmpty(t, res.Output.Nodes)
}
