package base

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cascadeql/memo/pkg/abt"
)

func TestContextValidate(t *testing.T) {
	require.Panics(t, func() { (*Context)(nil).Validate() })

	ctx := &Context{}
	require.Panics(t, func() { ctx.Validate() })

	ctx.Metadata = "md"
	require.Panics(t, func() { ctx.Validate() })

	ctx.DebugInfo = "dbg"
	require.Panics(t, func() { ctx.Validate() })

	ctx.LogicalPropsDerivation = stubLogicalPropsForTest{}
	require.Panics(t, func() { ctx.Validate() })

	ctx.CEDerivation = stubCEForTest{}
	require.NotPanics(t, func() { ctx.Validate() })
}

type stubLogicalPropsForTest struct{}

func (stubLogicalPropsForTest) DeriveLogicalProps(*Context, abt.Node, []*LogicalProps) (*LogicalProps, error) {
	return nil, nil
}

type stubCEForTest struct{}

func (stubCEForTest) EstimateCE(*Context, abt.Node, *LogicalProps) (float64, error) {
	return 0, nil
}

func TestRewriteTypeString(t *testing.T) {
	require.Equal(t, "Root", LogicalRoot.String())
	require.Equal(t, "FilterPushDown", LogicalFilterPushDown.String())
	require.Equal(t, "UnknownLogicalRewrite", numLogicalRewriteTypes.String())

	require.Equal(t, "Root", PhysicalRoot.String())
	require.Equal(t, "HashJoinImpl", PhysicalHashJoinImpl.String())
	require.Equal(t, "UnknownPhysicalRewrite", numPhysicalRewriteTypes.String())
}

func TestLogicalRuleMaskDisable(t *testing.T) {
	mask := NewLogicalRuleMask()
	require.True(t, mask.Enabled(LogicalJoinCommute))

	mask.Disable(LogicalJoinCommute)
	require.False(t, mask.Enabled(LogicalJoinCommute))
	require.True(t, mask.Enabled(LogicalFilterPushDown))
}

func TestPhysicalRuleMaskDisable(t *testing.T) {
	mask := NewPhysicalRuleMask()
	require.True(t, mask.Enabled(PhysicalHashJoinImpl))

	mask.Disable(PhysicalHashJoinImpl)
	require.False(t, mask.Enabled(PhysicalHashJoinImpl))
	require.True(t, mask.Enabled(PhysicalMergeJoinImpl))
}

func TestCostComparisons(t *testing.T) {
	require.True(t, Cost(1).Less(Cost(2)))
	require.False(t, Cost(2).Less(Cost(2)))
	require.True(t, Cost(2).LessOrEqual(Cost(2)))
	require.True(t, InfiniteCost.LessOrEqual(InfiniteCost))
}

func TestPhysPropsEqualsAndHash(t *testing.T) {
	p1 := PhysProps{RequiredOrdering: []string{"a", "b"}, Distribution: "hash"}
	p2 := PhysProps{RequiredOrdering: []string{"a", "b"}, Distribution: "hash"}
	p3 := PhysProps{RequiredOrdering: []string{"b", "a"}, Distribution: "hash"}

	require.True(t, p1.Equals(p2))
	require.Equal(t, p1.Hash64(), p2.Hash64())
	require.False(t, p1.Equals(p3))
}
