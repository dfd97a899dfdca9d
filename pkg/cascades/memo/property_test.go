package memo

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cascadeql/memo/pkg/abt"
	"github.com/cascadeql/memo/pkg/cascades/base"
)

// genTree draws a random ABT built from Scan/Filter/Join, bounded by
// maxDepth so rapid's shrinker terminates quickly on failure.
func genTree(t *rapid.T, maxDepth int) abt.Node {
	table := rapid.SampledFrom([]string{"a", "b", "c"}).Draw(t, "table")
	if maxDepth <= 0 || !rapid.Bool().Draw(t, "branch") {
		return abt.NewScan(table)
	}
	if rapid.Bool().Draw(t, "kind") {
		pred := rapid.SampledFrom([]string{"p1", "p2"}).Draw(t, "predicate")
		return abt.NewFilter(pred, genTree(t, maxDepth-1))
	}
	return abt.NewJoin(genTree(t, maxDepth-1), genTree(t, maxDepth-1))
}

func TestPropertyDeduplication(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tree := genTree(t, 3)
		m := New()
		ctx := newTestContext()

		ids1 := NewNodeIDSet()
		g1 := m.Integrate(ctx, tree, nil, ids1, base.LogicalRoot, false)
		groupCount := m.GetGroupCount()
		nodeCount := m.GetLogicalNodeCount()

		ids2 := NewNodeIDSet()
		g2 := m.Integrate(ctx, tree, nil, ids2, base.LogicalRoot, false)

		require.Equal(t, g1, g2)
		require.Empty(t, ids2)
		require.Equal(t, groupCount, m.GetGroupCount())
		require.Equal(t, nodeCount, m.GetLogicalNodeCount())
	})
}

func TestPropertyDeterminism(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tree := genTree(t, 3)
		m1, m2 := New(), New()
		ctx1, ctx2 := newTestContext(), newTestContext()

		m1.Integrate(ctx1, tree, nil, NewNodeIDSet(), base.LogicalRoot, false)
		m2.Integrate(ctx2, tree, nil, NewNodeIDSet(), base.LogicalRoot, false)

		require.Equal(t, m1.GetGroupCount(), m2.GetGroupCount())
		for gid := 0; gid < m1.GetGroupCount(); gid++ {
			g1, g2 := m1.GetGroup(GroupID(gid)), m2.GetGroup(GroupID(gid))
			require.Equal(t, g1.LogicalNodeCount(), g2.LogicalNodeCount())
			for i := 0; i < g1.LogicalNodeCount(); i++ {
				require.Equal(t, g1.Rule(i), g2.Rule(i))
				require.True(t, g1.LogicalNode(i).Equals(g2.LogicalNode(i)))
			}
		}
	})
}

func TestPropertyIndexStability(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m := New()
		ctx := newTestContext()
		n := rapid.IntRange(1, 6).Draw(t, "numTrees")

		type snapshot struct {
			id   NodeID
			node abt.Node
		}
		var snapshots []snapshot

		for i := 0; i < n; i++ {
			tree := genTree(t, 2)
			ids := NewNodeIDSet()
			m.Integrate(ctx, tree, nil, ids, base.LogicalRoot, false)
			for id := range ids {
				snapshots = append(snapshots, snapshot{id: id, node: m.GetNode(id)})
			}
		}

		for _, s := range snapshots {
			require.True(t, s.node.Equals(m.GetNode(s.id)))
		}
	})
}

func TestPropertyReverseIndexConsistency(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m := New()
		ctx := newTestContext()
		tree := genTree(t, 3)

		ids := NewNodeIDSet()
		m.Integrate(ctx, tree, nil, ids, base.LogicalRoot, false)

		for id := range ids {
			children, ok := m.InputGroupsOf(id)
			require.True(t, ok)
			candidates, ok := m.InputGroupsLookup(children)
			require.True(t, ok)
			require.True(t, candidates.Has(id))
		}

		lastGroup := GroupID(m.GetGroupCount() - 1)
		var idsInLastGroup []NodeID
		for id := range ids {
			if id.Group == lastGroup {
				idsInLastGroup = append(idsInLastGroup, id)
			}
		}

		m.ClearLogicalNodes(lastGroup)
		for _, id := range idsInLastGroup {
			_, ok := m.InputGroupsOf(id)
			require.False(t, ok)
		}
	})
}

func TestPropertyProjectionStability(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m := New()
		ctx := newTestContext()
		tree := genTree(t, 3)

		m.Integrate(ctx, tree, nil, NewNodeIDSet(), base.LogicalRoot, false)

		for gid := 0; gid < m.GetGroupCount(); gid++ {
			g := m.GetGroup(GroupID(gid))
			require.NoError(t, m.EstimateCE(ctx, g.ID()))
			require.True(t, projectionsEqual(g.Projections(), g.LogicalProps().Projections))
		}
	})
}

func TestPropertyWinnerMonotonicity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m := New()
		ctx := newTestContext()
		m.Integrate(ctx, abt.NewScan("a"), nil, NewNodeIDSet(), base.LogicalRoot, false)

		props := base.PhysProps{RequiredOrdering: []string{"a"}}
		entry := m.GetGroup(0).PhysicalNodes().AddOptimizationResult(props, base.Cost(100))

		steps := rapid.IntRange(1, 5).Draw(t, "steps")
		limit := base.Cost(100)
		for i := 0; i < steps; i++ {
			delta := base.Cost(rapid.IntRange(0, 50).Draw(t, "delta"))
			limit += delta
			entry.RaiseCostLimit(limit)
			require.Equal(t, limit, entry.CostLimit())
		}

		entry.RecordWinner(PhysNodeInfo{Cost: limit})
		require.True(t, entry.NodeInfo().Cost.LessOrEqual(entry.CostLimit()))
	})
}
