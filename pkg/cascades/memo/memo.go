package memo

import (
	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"go.uber.org/zap"

	"github.com/cascadeql/memo/pkg/abt"
	"github.com/cascadeql/memo/pkg/cascades/base"

	"github.com/cascadeql/memo/internal/intest"
)

// Context bundles the non-owning references the Memo needs to consult
// external collaborators. It is a plain alias for base.Context so callers
// only need to import one package's Context type.
type Context = base.Context

// Stats tracks counters describing the Memo's activity.
type Stats struct {
	// NumIntegrations counts calls to Integrate.
	NumIntegrations int
	// PhysPlanExplorationCount counts recursive physical optimization
	// calls made by an external physical-rewrite driver. The Memo itself
	// never increments this; IncrementPhysPlanExplorationCount exists so
	// that driver can, without needing C++-style friend access.
	PhysPlanExplorationCount int
	// PhysMemoCheckCount counts winner's-circle lookups made by an
	// external physical-rewrite driver, incremented the same way.
	PhysMemoCheckCount int
}

// Memo is the central in-memory store of groups, logical nodes, and
// physical winners. It is not safe for concurrent use: exactly one
// optimizer task drives a given Memo.
type Memo struct {
	groups []*Group

	inputGroups  inputGroupsIndex
	nodeToGroups map[NodeID][]GroupID

	stats Stats
}

// New returns an empty Memo.
func New() *Memo {
	return &Memo{
		inputGroups:  newInputGroupsIndex(),
		nodeToGroups: make(map[NodeID][]GroupID),
	}
}

// GetGroup returns the group with the given id. Panics (fatal) if id is
// out of range: referencing a non-existent group is always a programmer
// error.
func (m *Memo) GetGroup(id GroupID) *Group {
	intest.Assert(int(id) >= 0 && int(id) < len(m.groups), "cascades: GroupID %d out of range [0,%d)", id, len(m.groups))
	return m.groups[id]
}

// GetGroupCount returns the number of groups in the Memo.
func (m *Memo) GetGroupCount() int { return len(m.groups) }

// GetStats returns the Memo's activity counters.
func (m *Memo) GetStats() Stats { return m.stats }

// IncrementPhysPlanExplorationCount is called by an external
// physical-rewrite driver each time it recursively explores a group's
// physical alternatives; see Stats.PhysPlanExplorationCount.
func (m *Memo) IncrementPhysPlanExplorationCount() { m.stats.PhysPlanExplorationCount++ }

// IncrementPhysMemoCheckCount is called by an external physical-rewrite
// driver each time it checks the winner's circle; see
// Stats.PhysMemoCheckCount.
func (m *Memo) IncrementPhysMemoCheckCount() { m.stats.PhysMemoCheckCount++ }

// GetLogicalNodeCount sums logical node counts across all groups.
func (m *Memo) GetLogicalNodeCount() int {
	total := 0
	for _, g := range m.groups {
		total += g.LogicalNodeCount()
	}
	return total
}

// GetPhysicalNodeCount sums the number of winning physical plans recorded
// across all groups (entries in the winner's circle without a recorded
// winner do not count).
func (m *Memo) GetPhysicalNodeCount() int {
	total := 0
	for _, g := range m.groups {
		for i := 0; i < g.physicalNodes.Len(); i++ {
			if g.physicalNodes.At(i).IsOptimized() {
				total++
			}
		}
	}
	return total
}

// FindNodeInGroup reports the index of an existing structurally-equal
// logical node within group id, if any.
func (m *Memo) FindNodeInGroup(id GroupID, node abt.Node) (int, bool) {
	return m.GetGroup(id).logicalNodes.find(node)
}

// GetNode returns a non-owning view of the logical node identified by id.
func (m *Memo) GetNode(id NodeID) abt.Node {
	return m.GetGroup(id.Group).LogicalNode(id.Index)
}

// addGroup allocates a new group for projections and appends it to the
// dense group vector, assigning it the next GroupID.
func (m *Memo) addGroup(projections []string) GroupID {
	id := GroupID(len(m.groups))
	m.groups = append(m.groups, newGroup(id, projections))
	return id
}

// EstimateCE derives a group's logical properties and cardinality
// estimate, consulting ctx's LogicalPropsInterface and CEInterface with
// the group's first logical node as representative. Idempotent: once a
// group has logical properties, subsequent calls are no-ops.
func (m *Memo) EstimateCE(ctx *Context, id GroupID) error {
	ctx.Validate()
	g := m.GetGroup(id)
	if g.logicalProps != nil {
		return nil
	}
	intest.Assert(g.LogicalNodeCount() > 0, "cascades: estimateCE on group %d with no logical nodes", id)

	rep := g.LogicalNode(0)
	childProps := m.childLogicalProps(rep)

	props, err := ctx.LogicalPropsDerivation.DeriveLogicalProps(ctx, rep, childProps)
	if err != nil {
		if g.LogicalNodeCount() == 1 {
			// The group was brand new and this was its only node: the
			// partial insert can be rolled back cleanly.
			g.clearLogicalNodes()
			m.removeFromReverseIndex(id, 0)
			return errors.Trace(err)
		}
		log.Error("cascades: logical property derivation failed on non-empty group",
			zap.Int32("group", int32(id)), zap.Error(err))
		panic(errors.Trace(err))
	}
	intest.Assert(projectionsEqual(props.Projections, g.projections),
		"cascades: derived projections for group %d do not match the group's projections", id)

	ce, err := ctx.CEDerivation.EstimateCE(ctx, rep, props)
	if err != nil {
		return errors.Trace(err)
	}
	props.Cardinality = ce
	g.logicalProps = props
	return nil
}

func (m *Memo) childLogicalProps(node abt.Node) []*base.LogicalProps {
	var out []*base.LogicalProps
	for _, c := range node.Children() {
		gid, ok := abt.AsGroupRef(c)
		if !ok {
			continue
		}
		out = append(out, m.GetGroup(gid).logicalProps)
	}
	return out
}

func projectionsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]int, len(a))
	for _, x := range a {
		seen[x]++
	}
	for _, x := range b {
		seen[x]--
	}
	for _, n := range seen {
		if n != 0 {
			return false
		}
	}
	return true
}

// removeFromReverseIndex undoes the bookkeeping addNode performed for the
// node at (group, index), used by EstimateCE's empty-group rollback and by
// ClearLogicalNodes.
func (m *Memo) removeFromReverseIndex(group GroupID, index int) {
	id := NodeID{Group: group, Index: index}
	if children, ok := m.nodeToGroups[id]; ok {
		m.inputGroups.remove(children, id)
		delete(m.nodeToGroups, id)
	}
}

// AddNode inserts node (whose children have already been rewritten to
// GroupRef values) into targetGroupID if hasTargetGroup is set, or into a
// newly-created group seeded with projections otherwise. The Integrator
// is the only intended caller.
//
// childGroups is the ordered vector of child GroupIDs, used to update the
// reverse index. If the node is newly inserted, its NodeID is added to
// insertedNodeIds so a scheduler can enqueue logical rewrites for it.
func (m *Memo) AddNode(
	ctx *Context,
	childGroups []GroupID,
	projections []string,
	targetGroupID GroupID,
	hasTargetGroup bool,
	insertedNodeIds NodeIDSet,
	node abt.Node,
	rule base.LogicalRewriteType,
	force bool,
) NodeID {
	var g *Group
	if hasTargetGroup {
		g = m.GetGroup(targetGroupID)
		intest.Assert(projectionsEqual(projections, g.projections),
			"cascades: projections mismatch inserting into group %d", targetGroupID)
	} else {
		id := m.addGroup(projections)
		g = m.GetGroup(id)
	}

	idx, inserted := g.insertLogicalNode(node, rule, force)
	id := NodeID{Group: g.id, Index: idx}

	if inserted {
		m.inputGroups.add(childGroups, id)
		m.nodeToGroups[id] = append([]GroupID(nil), childGroups...)
		if insertedNodeIds != nil {
			insertedNodeIds.Add(id)
		}
		if idx == 0 {
			if err := m.EstimateCE(ctx, g.id); err != nil {
				log.Warn("cascades: deferred logical property derivation failure",
					zap.Int32("group", int32(g.id)), zap.Error(err))
				if insertedNodeIds != nil && g.LogicalNodeCount() == 0 {
					// EstimateCE rolled the node back out of the group; the
					// id it was given is no longer valid.
					delete(insertedNodeIds, id)
				}
			}
		}
	}
	return id
}

// ClearLogicalNodes drops group id's logical members and their
// reverse-index entries; physical entries are unaffected.
func (m *Memo) ClearLogicalNodes(id GroupID) {
	g := m.GetGroup(id)
	for idx := 0; idx < g.LogicalNodeCount(); idx++ {
		m.removeFromReverseIndex(id, idx)
	}
	g.clearLogicalNodes()
}

// Clear resets the entire Memo to empty.
func (m *Memo) Clear() {
	m.groups = nil
	m.inputGroups = newInputGroupsIndex()
	m.nodeToGroups = make(map[NodeID][]GroupID)
	m.stats = Stats{}
}

// InputGroupsLookup returns the set of NodeIDs whose immediate children
// are exactly children, and whether any entry exists at all.
func (m *Memo) InputGroupsLookup(children []GroupID) (NodeIDSet, bool) {
	return m.inputGroups.lookup(children)
}

// InputGroupsOf returns the ordered child-group tuple recorded for id, if
// any.
func (m *Memo) InputGroupsOf(id NodeID) ([]GroupID, bool) {
	children, ok := m.nodeToGroups[id]
	return children, ok
}
