// Package memo implements a Cascades-style Memo: a deduplicated,
// group-structured store of logical plan alternatives and physical plan
// winners, with the indices needed to drive exploration and
// implementation. See DESIGN.md for the grounding of each piece.
package memo

import (
	"github.com/cascadeql/memo/pkg/abt"
)

// GroupID is a dense, stable, non-negative integer assigned at group
// creation. Never reused; indexes into the Memo's group vector.
type GroupID = abt.GroupID

// NodeID identifies a logical node within a group: the pair (GroupId,
// index). Stable for the Memo's lifetime except across a
// clearLogicalNodes call on its own group. A plain alias for abt.NodeID
// so that queue.LogicalRewriteTask.Source (also an abt.NodeID) can hold a
// NodeID produced by the Memo without an explicit conversion.
type NodeID = abt.NodeID

// NodeIDSet is an insertion-order-independent collection of NodeIDs, used
// for the Integrator's insertedNodeIds out-parameter.
type NodeIDSet map[NodeID]struct{}

// NewNodeIDSet returns an empty set.
func NewNodeIDSet() NodeIDSet { return make(NodeIDSet) }

// Add inserts id into the set.
func (s NodeIDSet) Add(id NodeID) { s[id] = struct{}{} }

// Has reports whether id is in the set.
func (s NodeIDSet) Has(id NodeID) bool {
	_, ok := s[id]
	return ok
}
