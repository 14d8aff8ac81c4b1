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

// Package engine implements the block-respecting compressed evaluator: a
// generic DFS driver that walks an implicit balanced tree over block
// indices, wiring together the tree, the streaming ledger, the space
// tracker, and a caller-supplied BlockProcessor. For input of length n
// partitioned into T = ⌈n/b⌉ blocks, it computes the root summary in space
// O(b + T + log T).
package engine

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/compressweave/compressweave/ledger"
	"github.com/compressweave/compressweave/space"
	"github.com/compressweave/compressweave/tree"
)

// EvaluationResult is returned by a successful Evaluate call.
type EvaluationResult[Out, Summary any] struct {
	Output       Out
	RootSummary  Summary
	SpaceUsed    int
	SpaceBound   int
	SpaceProfile *space.Profile
	// EvaluationID identifies this run for diagnostic logging, in the
	// same spirit as the query IDs this lineage's servers stamp onto
	// every request.
	EvaluationID uuid.UUID
}

// Evaluate runs the compressed evaluator: it validates cfg, allocates the
// tracker/ledger/workspace, DFSes from the root interval (1,T), and
// finalizes the root summary. Leaves are visited in strictly ascending
// block-id order, and merges happen strictly post-order, so a processor
// may rely on that ordering for a rolling-boundary optimization.
//
// Evaluate fails with a KindLedgerIncomplete error if the streaming
// ledger's tiered completeness threshold isn't met, or a
// KindSpaceBoundExceeded error if cfg.SpaceBound is nonzero and exceeded.
// Processor errors are wrapped with KindProcessor, preserving the
// original cause and, where applicable, the block id.
func Evaluate[In, Summary, Out any](cfg *Config, input In, proc BlockProcessor[In, Summary, Out]) (*EvaluationResult[Out, Summary], error) {
	var zero *EvaluationResult[Out, Summary]
	if err := cfg.Validate(); err != nil {
		return zero, err
	}

	evalID := uuid.New()
	if cfg.Verbose && cfg.Logger != nil {
		cfg.Logger.Printf("engine: evaluation %s starting, T=%d b=%d", evalID, cfg.NumBlocks, cfg.BlockSize)
	}

	tracker := space.NewTracker(cfg.ProfileSpace)
	led := ledger.New(cfg.NumBlocks)
	tracker.AllocateLedger(led.SpaceCells())
	workspace := make([]byte, cfg.WorkspaceBytes)
	stack := tree.NewPathStack()

	root := tree.Root(cfg.NumBlocks)
	rootSummary, err := dfs(root, tree.Left, stack, led, tracker, workspace, cfg, proc, input)
	if err != nil {
		return zero, err
	}

	if !led.AllMergesComplete() {
		return zero, NewError(KindLedgerIncomplete, 0,
			fmt.Errorf("merge ledger below completeness threshold after evaluating %d blocks: %w", cfg.NumBlocks, ErrLedgerIncomplete))
	}

	spaceUsed := tracker.MaxSpaceUsed()
	if cfg.SpaceBound > 0 && spaceUsed > cfg.SpaceBound {
		return zero, NewError(KindSpaceBoundExceeded, 0,
			fmt.Errorf("space used %d exceeds bound %d: %w", spaceUsed, cfg.SpaceBound, ErrSpaceBoundExceeded))
	}

	out, err := proc.Finalize(rootSummary, input)
	if err != nil {
		return zero, NewError(KindProcessor, 0, fmt.Errorf("finalize: %w", err))
	}

	res := &EvaluationResult[Out, Summary]{
		Output:       out,
		RootSummary:  rootSummary,
		SpaceUsed:    spaceUsed,
		SpaceBound:   cfg.SpaceBound,
		EvaluationID: evalID,
	}
	if cfg.ProfileSpace {
		res.SpaceProfile = tracker.TakeProfile()
	}
	if cfg.Verbose && cfg.Logger != nil {
		cfg.Logger.Printf("engine: evaluation %s done, space_used=%d", evalID, spaceUsed)
	}
	return res, nil
}

// dfs is the DFS driver described in spec.md §4.5: push a path frame; at a
// leaf, derive the block context, allocate the leaf buffer, call
// ProcessBlock, free it; at an internal node, recurse left, mark the
// ledger, recurse right, mark the ledger, then Merge. The path frame is
// popped on every exit.
func dfs[In, Summary, Out any](
	node tree.Node,
	dir tree.Direction,
	stack *tree.PathStack,
	led *ledger.Ledger,
	tracker *space.Tracker,
	workspace []byte,
	cfg *Config,
	proc BlockProcessor[In, Summary, Out],
	input In,
) (Summary, error) {
	var zero Summary

	stack.Push(tree.Token{Kind: tree.Split, Direction: dir})
	tracker.PushStackFrame(1)
	defer func() {
		tracker.PopStackFrame()
		stack.Pop()
	}()

	if node.IsLeaf() {
		blockID := node.BlockID()
		if blockID < 1 || blockID > cfg.NumBlocks {
			return zero, NewError(KindBlockOutOfRange, blockID,
				fmt.Errorf("block id %d outside [1,%d]: %w", blockID, cfg.NumBlocks, ErrBlockOutOfRange))
		}
		start := int64(blockID-1) * int64(cfg.BlockSize)
		end := start + int64(cfg.BlockSize)
		if end > cfg.TotalUnits {
			end = cfg.TotalUnits
		}
		ctx := &BlockContext{BlockID: blockID, Start: start, End: end}

		tracker.AllocateLeafBuffer(len(workspace))
		summary, err := proc.ProcessBlock(ctx, input, workspace)
		tracker.FreeLeafBuffer(len(workspace))
		if err != nil {
			return zero, NewError(KindProcessor, blockID, fmt.Errorf("process_block: %w", err))
		}
		return summary, nil
	}

	left, right := node.Children()
	leftSummary, err := dfs(left, tree.Left, stack, led, tracker, workspace, cfg, proc, input)
	if err != nil {
		return zero, err
	}
	led.MarkLeft(node)

	rightSummary, err := dfs(right, tree.Right, stack, led, tracker, workspace, cfg, proc, input)
	if err != nil {
		return zero, err
	}
	led.MarkRight(node)

	merged, err := proc.Merge(leftSummary, rightSummary)
	if err != nil {
		return zero, NewError(KindProcessor, 0, fmt.Errorf("merge %s: %w", node, err))
	}
	return merged, nil
}
