package memo

import (
	"github.com/cascadeql/memo/pkg/abt"
	"github.com/cascadeql/memo/pkg/cascades/base"
	"github.com/cascadeql/memo/pkg/cascades/queue"

	"github.com/cascadeql/memo/internal/intest"
)

// Group is an equivalence class of logically equivalent plan expressions
// over the same set of output projections.
type Group struct {
	id          GroupID
	projections []string
	binder      abt.Node

	logicalNodes orderPreservingSet
	// rules is index-aligned with logicalNodes: rules[i] is the rule that
	// produced logicalNodes.at(i).
	rules []base.LogicalRewriteType

	// logicalProps is nil until estimateCE has run once for this group.
	logicalProps *base.LogicalProps

	logicalRewriteQueue queue.LogicalRewriteQueue

	// physicalNodes is the "winner's circle": best physical plans keyed
	// by required physical properties.
	physicalNodes PhysNodes
}

func newGroup(id GroupID, projections []string) *Group {
	cp := append([]string(nil), projections...)
	return &Group{
		id:           id,
		projections:  cp,
		binder:       abt.NewBinder(cp),
		logicalNodes: newOrderPreservingSet(),
	}
}

// ID returns the group's GroupID.
func (g *Group) ID() GroupID { return g.id }

// Projections returns the group's immutable output projection set.
func (g *Group) Projections() []string { return g.projections }

// Binder returns the immutable binder expression allocated at construction
// to represent the group's projections.
func (g *Group) Binder() abt.Node { return g.binder }

// LogicalNodeCount reports how many logical nodes the group currently
// holds.
func (g *Group) LogicalNodeCount() int { return g.logicalNodes.size() }

// LogicalNode returns the logical node at index (a non-owning view).
func (g *Group) LogicalNode(index int) abt.Node { return g.logicalNodes.at(index) }

// Rule returns the rewrite tag that produced the logical node at index.
func (g *Group) Rule(index int) base.LogicalRewriteType { return g.rules[index] }

// LogicalProps returns the group's derived logical properties, or nil if
// estimateCE has not yet run for this group.
func (g *Group) LogicalProps() *base.LogicalProps { return g.logicalProps }

// RewriteQueue returns the group's pending logical rewrite queue.
func (g *Group) RewriteQueue() *queue.LogicalRewriteQueue { return &g.logicalRewriteQueue }

// PhysicalNodes returns the group's winner's circle.
func (g *Group) PhysicalNodes() *PhysNodes { return &g.physicalNodes }

// insertLogicalNode appends node to the group's interning set under rule,
// returning the node's index and whether it was newly inserted. When
// force is true the structural-match check is bypassed and the node is
// always appended as a new entry. It never checks reverse-index or
// cross-group invariants; the Memo façade owns that.
func (g *Group) insertLogicalNode(node abt.Node, rule base.LogicalRewriteType, force bool) (int, bool) {
	var idx int
	var inserted bool
	if force {
		idx, inserted = g.logicalNodes.forceInsert(node), true
	} else {
		idx, inserted = g.logicalNodes.emplaceBack(node)
	}
	if inserted {
		intest.Assert(len(g.rules) == idx, "cascades: rules/logicalNodes index drift in group %d", g.id)
		g.rules = append(g.rules, rule)
	}
	return idx, inserted
}

// clearLogicalNodes drops every logical node and rule tag in the group.
// Physical entries are untouched.
func (g *Group) clearLogicalNodes() {
	g.logicalNodes.clear()
	g.rules = nil
	g.logicalRewriteQueue = queue.LogicalRewriteQueue{}
}
