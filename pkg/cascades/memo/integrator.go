package memo

import (
	"github.com/pingcap/errors"

	"github.com/cascadeql/memo/pkg/abt"
	"github.com/cascadeql/memo/pkg/cascades/base"
)

// targetGroupEntry pairs an original (pre-rewrite) node with the group an
// exploration rule wants its rewritten result placed into.
type targetGroupEntry struct {
	node  abt.Node
	group GroupID
}

// NodeTargetGroupMap lets a rewrite rule pin the result of integrating a
// specific node reference into a pre-chosen group. It is a
// structural-equality association list rather than a Go map
// because abt.Node values are not comparable (see orderPreservingSet's
// doc comment) and the map is expected to hold only the handful of
// entries a single rewrite application produces.
type NodeTargetGroupMap struct {
	entries []targetGroupEntry
}

// NewNodeTargetGroupMap returns an empty map.
func NewNodeTargetGroupMap() *NodeTargetGroupMap { return &NodeTargetGroupMap{} }

// Set records that node, if integrated, should land in group.
func (m *NodeTargetGroupMap) Set(node abt.Node, group GroupID) {
	m.entries = append(m.entries, targetGroupEntry{node: node, group: group})
}

func (m *NodeTargetGroupMap) lookup(node abt.Node) (GroupID, bool) {
	if m == nil {
		return 0, false
	}
	for _, e := range m.entries {
		if e.node.Equals(node) {
			return e.group, true
		}
	}
	return 0, false
}

// Integrate inserts node into the Memo, recursively replacing each child
// subtree with a reference to the group that ends up owning it, and
// returns the GroupId that owns the tree's root.
//
// insertedNodeIds collects the NodeIds of every logical node newly
// created by this call, across all recursion levels, so a scheduler can
// enqueue logical rewrites against exactly the new work. targetGroupMap
// may be nil, meaning no rewrite has pinned any node to a pre-chosen
// group.
//
// addExistingNodeWithNewChild, when true, suppresses step 2's reuse for
// the outermost node only (never for recursively-integrated children):
// it always inserts a new logical node, even a structurally-equal one,
// into whichever group step 3 would otherwise have chosen. This supports
// rewrites that must not alias their result with an existing equal node.
func (m *Memo) Integrate(
	ctx *Context,
	node abt.Node,
	targetGroupMap *NodeTargetGroupMap,
	insertedNodeIds NodeIDSet,
	rule base.LogicalRewriteType,
	addExistingNodeWithNewChild bool,
) GroupID {
	ctx.Validate()
	m.stats.NumIntegrations++
	return m.integrateNode(ctx, node, targetGroupMap, insertedNodeIds, rule, addExistingNodeWithNewChild)
}

func (m *Memo) integrateNode(
	ctx *Context,
	node abt.Node,
	targetGroupMap *NodeTargetGroupMap,
	insertedNodeIds NodeIDSet,
	rule base.LogicalRewriteType,
	forceNew bool,
) GroupID {
	// Step 1: post-order, recursively integrate each child subtree,
	// replacing it with a reference to the group it now belongs to. A
	// child that is already a GroupRef is treated as already integrated
	// (it is how a shallow, substitution-produced node points at existing
	// groups) and is never recursed into, regardless of forceNew.
	origChildren := node.Children()
	childGroups := make([]GroupID, len(origChildren))
	rewrittenChildren := make([]abt.Node, len(origChildren))
	for i, child := range origChildren {
		if gid, ok := abt.AsGroupRef(child); ok {
			childGroups[i] = gid
			rewrittenChildren[i] = child
			continue
		}
		childGID := m.integrateNode(ctx, child, targetGroupMap, insertedNodeIds, rule, false)
		childGroups[i] = childGID
		rewrittenChildren[i] = abt.NewGroupRef(childGID)
	}
	rewritten := node
	if len(origChildren) > 0 {
		rewritten = node.WithChildren(rewrittenChildren)
	}

	// Step 2: look for a structural match among nodes that consume
	// exactly childGroups.
	matchGroup, matchFound := m.findStructuralMatch(childGroups, rewritten)
	if matchFound && !forceNew {
		return matchGroup
	}

	// Step 3: determine the target group.
	targetGroupID, hasTarget := targetGroupMap.lookup(node)
	if !hasTarget && matchFound {
		targetGroupID, hasTarget = matchGroup, true
	}

	var projections []string
	if hasTarget {
		m.checkNoCycle(childGroups, targetGroupID)
		projections = m.GetGroup(targetGroupID).projections
	} else {
		props, err := ctx.LogicalPropsDerivation.DeriveLogicalProps(ctx, rewritten, m.childLogicalProps(rewritten))
		if err != nil {
			// No group has been created yet for this node: nothing to
			// roll back, the failure is simply surfaced as fatal.
			panic(errors.Trace(err))
		}
		projections = props.Projections
	}

	// Step 4: insert. force is only meaningful when a match exists: it is
	// what makes the insert land as a brand-new logical node instead of
	// being silently deduplicated against that match.
	force := matchFound && forceNew
	id := m.AddNode(ctx, childGroups, projections, targetGroupID, hasTarget, insertedNodeIds, rewritten, rule, force)
	return id.Group
}

func (m *Memo) findStructuralMatch(childGroups []GroupID, rewritten abt.Node) (GroupID, bool) {
	candidates, ok := m.InputGroupsLookup(childGroups)
	if !ok {
		return 0, false
	}
	// Iteration over a Go map has no defined order, but the first
	// structural match in insertion order must win. Candidates are
	// collected and sorted by NodeID (group, index) to approximate that:
	// within one group, index order is insertion order, and ties across
	// groups are broken by group id, which is itself assigned in creation
	// order.
	var ids []NodeID
	for id := range candidates {
		ids = append(ids, id)
	}
	sortNodeIDs(ids)
	for _, id := range ids {
		if m.GetNode(id).Equals(rewritten) {
			return id.Group, true
		}
	}
	return 0, false
}

func sortNodeIDs(ids []NodeID) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && less(ids[j], ids[j-1]); j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
}

func less(a, b NodeID) bool {
	if a.Group != b.Group {
		return a.Group < b.Group
	}
	return a.Index < b.Index
}

// checkNoCycle panics if placing a node with the given children into
// target would make the Memo's group graph cyclic: the Memo is a DAG of
// groups, and a cycle is always a fatal programmer error.
func (m *Memo) checkNoCycle(childGroups []GroupID, target GroupID) {
	for _, c := range childGroups {
		if c == target || m.reachableFrom(c)[target] {
			panic(errors.Errorf("cascades: integrating into group %d would create a cycle through child group %d", target, c))
		}
	}
}

// reachableFrom returns the set of groups reachable from start by
// following every logical node's recorded child-group tuple, including
// start itself.
func (m *Memo) reachableFrom(start GroupID) map[GroupID]bool {
	seen := map[GroupID]bool{start: true}
	queue := []GroupID{start}
	for len(queue) > 0 {
		g := queue[0]
		queue = queue[1:]
		grp := m.GetGroup(g)
		for idx := 0; idx < grp.LogicalNodeCount(); idx++ {
			children, _ := m.InputGroupsOf(NodeID{Group: g, Index: idx})
			for _, c := range children {
				if !seen[c] {
					seen[c] = true
					queue = append(queue, c)
				}
			}
		}
	}
	return seen
}
