package base

import "github.com/bits-and-blooms/bitset"

// LogicalRewriteType tags the rule that produced a logical node. It is a
// closed enumeration: Root is the distinguished value for user-supplied
// input, every other value names a concrete logical rewrite rule
// implemented outside this module.
type LogicalRewriteType uint

const (
	// LogicalRoot marks a node that came directly from the caller, not
	// from a rewrite rule.
	LogicalRoot LogicalRewriteType = iota
	LogicalFilterPushDown
	LogicalJoinCommute
	LogicalJoinAssociate
	LogicalProjectionPruning

	numLogicalRewriteTypes
)

func (t LogicalRewriteType) String() string {
	switch t {
	case LogicalRoot:
		return "Root"
	case LogicalFilterPushDown:
		return "FilterPushDown"
	case LogicalJoinCommute:
		return "JoinCommute"
	case LogicalJoinAssociate:
		return "JoinAssociate"
	case LogicalProjectionPruning:
		return "ProjectionPruning"
	default:
		return "UnknownLogicalRewrite"
	}
}

// PhysicalRewriteType tags the rule that produced a PhysNodeInfo. Like
// LogicalRewriteType it is a closed enumeration with its own Root sentinel
// for the implementation of a logical node with no further physical
// transformation applied.
type PhysicalRewriteType uint

const (
	// PhysicalRoot marks a physical node that directly implements a
	// logical node with no additional physical rewrite.
	PhysicalRoot PhysicalRewriteType = iota
	PhysicalHashJoinImpl
	PhysicalMergeJoinImpl
	PhysicalIndexScanImpl
	PhysicalEnforceSort

	numPhysicalRewriteTypes
)

func (t PhysicalRewriteType) String() string {
	switch t {
	case PhysicalRoot:
		return "Root"
	case PhysicalHashJoinImpl:
		return "HashJoinImpl"
	case PhysicalMergeJoinImpl:
		return "MergeJoinImpl"
	case PhysicalIndexScanImpl:
		return "IndexScanImpl"
	case PhysicalEnforceSort:
		return "EnforceSort"
	default:
		return "UnknownPhysicalRewrite"
	}
}

// LogicalRuleMask is a bitset over LogicalRewriteType, used by a scheduler
// to enable/disable whole families of logical rewrites without touching
// the Memo itself.
type LogicalRuleMask struct{ bits *bitset.BitSet }

// NewLogicalRuleMask returns a mask with every known rule enabled.
func NewLogicalRuleMask() LogicalRuleMask {
	b := bitset.New(uint(numLogicalRewriteTypes))
	for i := uint(0); i < uint(numLogicalRewriteTypes); i++ {
		b.Set(i)
	}
	return LogicalRuleMask{bits: b}
}

// Enabled reports whether t is set in the mask.
func (m LogicalRuleMask) Enabled(t LogicalRewriteType) bool {
	return m.bits.Test(uint(t))
}

// Disable clears t in the mask.
func (m LogicalRuleMask) Disable(t LogicalRewriteType) {
	m.bits.Clear(uint(t))
}

// PhysicalRuleMask is the PhysicalRewriteType analogue of LogicalRuleMask.
type PhysicalRuleMask struct{ bits *bitset.BitSet }

// NewPhysicalRuleMask returns a mask with every known rule enabled.
func NewPhysicalRuleMask() PhysicalRuleMask {
	b := bitset.New(uint(numPhysicalRewriteTypes))
	for i := uint(0); i < uint(numPhysicalRewriteTypes); i++ {
		b.Set(i)
	}
	return PhysicalRuleMask{bits: b}
}

// Enabled reports whether t is set in the mask.
func (m PhysicalRuleMask) Enabled(t PhysicalRewriteType) bool {
	return m.bits.Test(uint(t))
}

// Disable clears t in the mask.
func (m PhysicalRuleMask) Disable(t PhysicalRewriteType) {
	m.bits.Clear(uint(t))
}
