// Package base holds the types the memo package is handed by its caller:
// the opaque Metadata/DebugInfo bundle, the two external derivation
// interfaces, and the two closed rewrite-tag enumerations. None of these
// are implemented here; they are the contract collaborators must satisfy.
package base

import "github.com/cascadeql/memo/pkg/abt"

// Metadata is an opaque, caller-owned bundle of catalog/session state
// passed through every Memo call unmodified.
type Metadata interface{}

// DebugInfo is an opaque, caller-owned bundle of tracing/diagnostic state
// passed through every Memo call unmodified.
type DebugInfo interface{}

// LogicalProps holds the externally-derived logical properties of a
// group: its projections, plus whatever physical constraints the property
// interface chooses to carry through. The memo treats everything beyond
// Projections as opaque caller data.
type LogicalProps struct {
	Projections []string
	// Cardinality is filled in by CEInterface via Memo.EstimateCE; zero
	// until estimation has run at least once.
	Cardinality float64
	// Extra carries whatever additional caller-defined attributes
	// LogicalPropsInterface wants to stash alongside Projections.
	Extra any
}

// LogicalPropsInterface derives a node's logical properties from the node
// itself and its child groups' already-derived logical properties. It must
// be pure: same inputs, same output, every time.
type LogicalPropsInterface interface {
	DeriveLogicalProps(ctx *Context, node abt.Node, childProps []*LogicalProps) (*LogicalProps, error)
}

// CEInterface derives a non-negative cardinality estimate for a group from
// its representative node and its own logical properties. It must be pure.
type CEInterface interface {
	EstimateCE(ctx *Context, node abt.Node, props *LogicalProps) (float64, error)
}

// Context is a non-owning bundle of pointers threaded through every Memo
// operation that needs to consult external collaborators. All four fields
// must be non-nil and must outlive the call.
type Context struct {
	Metadata               Metadata
	DebugInfo              DebugInfo
	LogicalPropsDerivation LogicalPropsInterface
	CEDerivation           CEInterface
}

// Validate panics if ctx or any of its fields is nil: a precondition
// violation is a fatal programmer error.
func (ctx *Context) Validate() {
	if ctx == nil {
		panic("cascades: nil Context")
	}
	if ctx.Metadata == nil {
		panic("cascades: nil Context.Metadata")
	}
	if ctx.DebugInfo == nil {
		panic("cascades: nil Context.DebugInfo")
	}
	if ctx.LogicalPropsDerivation == nil {
		panic("cascades: nil Context.LogicalPropsDerivation")
	}
	if ctx.CEDerivation == nil {
		panic("cascades: nil Context.CEDerivation")
	}
}
