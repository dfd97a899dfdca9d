package memo

import (
	"github.com/cascadeql/memo/pkg/abt"
	"github.com/cascadeql/memo/pkg/cascades/base"
	"github.com/cascadeql/memo/pkg/cascades/queue"

	"github.com/cascadeql/memo/internal/intest"
)

// PhysNodeInfo is a materialized physical plan for a group under one
// required property set.
type PhysNodeInfo struct {
	Node           abt.Node
	Cost           base.Cost
	LocalCost      base.Cost
	AdjustedCE     float64
	Rule           base.PhysicalRewriteType
}

// PhysOptimizationResult is one entry in a group's winner's circle.
type PhysOptimizationResult struct {
	index     int
	physProps base.PhysProps

	costLimit base.Cost
	// nodeInfo is set once optimization for this entry has succeeded.
	nodeInfo *PhysNodeInfo
	rejected []PhysNodeInfo

	// lastImplementedNodePos is the index of the last logical node in the
	// owning group already considered for implementation.
	lastImplementedNodePos int

	queue queue.PhysRewriteQueue
}

// Index returns the entry's dense index within the group's winner's
// circle.
func (r *PhysOptimizationResult) Index() int { return r.index }

// PhysProps returns the required physical properties this entry was
// requested under.
func (r *PhysOptimizationResult) PhysProps() base.PhysProps { return r.physProps }

// CostLimit returns the current pruning upper bound.
func (r *PhysOptimizationResult) CostLimit() base.Cost { return r.costLimit }

// NodeInfo returns the winning plan, or nil if not yet optimized.
func (r *PhysOptimizationResult) NodeInfo() *PhysNodeInfo { return r.nodeInfo }

// Rejected returns the candidates that lost to the winner (or were pruned
// before a winner was found).
func (r *PhysOptimizationResult) Rejected() []PhysNodeInfo { return r.rejected }

// LastImplementedNodePos returns the index of the last logical node in
// this entry's group already considered for implementation.
func (r *PhysOptimizationResult) LastImplementedNodePos() int { return r.lastImplementedNodePos }

// SetLastImplementedNodePos advances the bookmark; callers (an external
// physical-rewrite driver) use this to avoid re-considering the same
// logical node twice.
func (r *PhysOptimizationResult) SetLastImplementedNodePos(pos int) {
	intest.Assert(pos >= r.lastImplementedNodePos, "cascades: lastImplementedNodePos must not go backwards")
	r.lastImplementedNodePos = pos
}

// Queue returns the entry's pending physical rewrite queue.
func (r *PhysOptimizationResult) Queue() *queue.PhysRewriteQueue { return &r.queue }

// IsOptimized reports whether a winner has been recorded.
func (r *PhysOptimizationResult) IsOptimized() bool { return r.nodeInfo != nil }

// RaiseCostLimit relaxes the pruning bound. Allowed only while unoptimized;
// lowering the limit, or raising it once a winner is already recorded, is
// a fatal programmer error. Re-optimizing after a win requires an
// explicit ResetForReoptimization first.
func (r *PhysOptimizationResult) RaiseCostLimit(newLimit base.Cost) {
	intest.Assert(!r.IsOptimized(), "cascades: raiseCostLimit after a winner was already recorded; call ResetForReoptimization first")
	intest.Assert(newLimit >= r.costLimit, "cascades: raiseCostLimit must not lower the cost limit (%v -> %v)", r.costLimit, newLimit)
	r.costLimit = newLimit
}

// RecordWinner sets the winning plan, asserting its cost does not exceed
// the current limit: once a winner is set, its cost must be <= the cost
// limit.
func (r *PhysOptimizationResult) RecordWinner(info PhysNodeInfo) {
	intest.Assert(info.Cost.LessOrEqual(r.costLimit), "cascades: winner cost %v exceeds cost limit %v", info.Cost, r.costLimit)
	r.nodeInfo = &info
}

// RecordRejected appends a losing or pruned candidate.
func (r *PhysOptimizationResult) RecordRejected(info PhysNodeInfo) {
	r.rejected = append(r.rejected, info)
}

// ResetForReoptimization clears a recorded winner so RaiseCostLimit can be
// used again; raising the limit after a win is otherwise forbidden unless
// the caller explicitly resets first.
func (r *PhysOptimizationResult) ResetForReoptimization(newLimit base.Cost) {
	r.nodeInfo = nil
	r.rejected = nil
	r.lastImplementedNodePos = 0
	r.costLimit = newLimit
}

// PhysNodes is the per-group winner's circle, keyed by required physical
// properties.
type PhysNodes struct {
	entries []*PhysOptimizationResult
	// buckets indexes entries by PhysProps.Hash64 for fast lookup; see
	// orderPreservingSet's doc comment for why this isn't a plain map.
	buckets map[uint64][]int
}

// find reports the index of an existing entry for props, if any.
func (p *PhysNodes) find(props base.PhysProps) (int, bool) {
	if p.buckets == nil {
		return 0, false
	}
	for _, idx := range p.buckets[props.Hash64()] {
		if p.entries[idx].physProps.Equals(props) {
			return idx, true
		}
	}
	return 0, false
}

// AddOptimizationResult returns the existing entry for props if present,
// otherwise allocates a fresh one with the given initial cost limit.
func (p *PhysNodes) AddOptimizationResult(props base.PhysProps, costLimit base.Cost) *PhysOptimizationResult {
	if idx, ok := p.find(props); ok {
		return p.entries[idx]
	}
	if p.buckets == nil {
		p.buckets = make(map[uint64][]int)
	}
	idx := len(p.entries)
	entry := &PhysOptimizationResult{
		index:     idx,
		physProps: props,
		costLimit: costLimit,
	}
	p.entries = append(p.entries, entry)
	h := props.Hash64()
	p.buckets[h] = append(p.buckets[h], idx)
	return entry
}

// At returns the entry at the given dense index.
func (p *PhysNodes) At(index int) *PhysOptimizationResult { return p.entries[index] }

// Len reports the number of winner's-circle entries.
func (p *PhysNodes) Len() int { return len(p.entries) }

// Find reports the dense index of the entry for props, if any.
func (p *PhysNodes) Find(props base.PhysProps) (int, bool) { return p.find(props) }
