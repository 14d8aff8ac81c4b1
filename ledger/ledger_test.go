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

package ledger

import (
	"testing"

	"github.com/compressweave/compressweave/tree"
)

func TestEmptyLedgerIsComplete(t *testing.T) {
	l := New(0)
	if !l.AllMergesComplete() {
		t.Fatalf("ledger over 0 blocks should report complete")
	}
}

func TestMergeNotReadyUntilBothSidesMarked(t *testing.T) {
	l := New(8)
	n := tree.Node{Left: 1, Right: 8}
	if l.IsMergeReady(n) {
		t.Fatalf("merge should not be ready before either side marked")
	}
	l.MarkLeft(n)
	if l.IsMergeReady(n) {
		t.Fatalf("merge should not be ready with only left marked")
	}
	l.MarkRight(n)
	if !l.IsMergeReady(n) {
		t.Fatalf("merge should be ready once both sides marked")
	}
}

func TestAllMergesCompleteWalksFullTree(t *testing.T) {
	const numBlocks = 32
	l := New(numBlocks)

	var walk func(n tree.Node)
	walk = func(n tree.Node) {
		if n.IsLeaf() {
			return
		}
		left, right := n.Children()
		walk(left)
		walk(right)
		l.MarkLeft(n)
		l.MarkRight(n)
	}
	walk(tree.Root(numBlocks))

	if !l.AllMergesComplete() {
		t.Fatalf("ledger should report complete after a full post-order walk")
	}
}

func TestAllMergesCompleteAfterFullWalkOfLargeTree(t *testing.T) {
	const numBlocks = 2048
	l := New(numBlocks)

	var nodes []tree.Node
	var walk func(n tree.Node)
	walk = func(n tree.Node) {
		if n.IsLeaf() {
			return
		}
		left, right := n.Children()
		walk(left)
		walk(right)
		nodes = append(nodes, n)
	}
	walk(tree.Root(numBlocks))

	for _, n := range nodes {
		l.MarkLeft(n)
		l.MarkRight(n)
	}

	if !l.AllMergesComplete() {
		t.Fatalf("fully walked large tree should be complete")
	}
}

func TestAllMergesCompleteFailsWhenNothingMarked(t *testing.T) {
	l := New(64)
	if l.AllMergesComplete() {
		t.Fatalf("ledger with no marks should not report complete for T=64")
	}
}

func TestCompletionStatsCountsIndependently(t *testing.T) {
	l := New(16)
	n1 := tree.Node{Left: 1, Right: 8}
	n2 := tree.Node{Left: 9, Right: 16}
	l.MarkLeft(n1)
	l.MarkLeft(n2)
	l.MarkRight(n2)

	left, right, both := l.CompletionStats()
	if left < 1 || right < 1 || both < 1 {
		t.Fatalf("completion stats should reflect marks: left=%d right=%d both=%d", left, right, both)
	}
}

func TestSpaceCellsScalesWithBlocks(t *testing.T) {
	small := New(8)
	large := New(800)
	if large.SpaceCells() <= small.SpaceCells() {
		t.Fatalf("larger ledger should report larger space usage")
	}
}
