package memo

import (
	"github.com/cascadeql/memo/pkg/abt"
	"github.com/cascadeql/memo/pkg/cascades/base"
)

// mockLogicalProps derives a Scan's projections from its table name, a
// Join's by concatenating its children's projections, and passes a single
// child's projections through for every other kind. It fails only where
// failOn says so.
type mockLogicalProps struct {
	// failOn, if non-nil, reports whether derivation should fail for node.
	failOn func(node abt.Node) bool
}

func (m mockLogicalProps) DeriveLogicalProps(_ *Context, node abt.Node, childProps []*base.LogicalProps) (*base.LogicalProps, error) {
	if m.failOn != nil && m.failOn(node) {
		return nil, errTestDerivationFailed
	}
	switch node.Op() {
	case abt.OpScan:
		return &base.LogicalProps{Projections: []string{node.Private().(string)}}, nil
	case abt.OpJoin:
		var out []string
		for _, cp := range childProps {
			if cp != nil {
				out = append(out, cp.Projections...)
			}
		}
		return &base.LogicalProps{Projections: out}, nil
	default:
		// Filter/Project/Binder pass through their single child's
		// projections unchanged for test purposes.
		if len(childProps) == 1 && childProps[0] != nil {
			return &base.LogicalProps{Projections: childProps[0].Projections}, nil
		}
		return &base.LogicalProps{Projections: nil}, nil
	}
}

type mockCE struct{}

func (mockCE) EstimateCE(_ *Context, _ abt.Node, props *base.LogicalProps) (float64, error) {
	return float64(len(props.Projections)) + 1, nil
}

var errTestDerivationFailed = testDerivationError{}

type testDerivationError struct{}

func (testDerivationError) Error() string { return "mock: logical property derivation failed" }

func newTestContext() *Context {
	return &Context{
		Metadata:               "md",
		DebugInfo:              "dbg",
		LogicalPropsDerivation: mockLogicalProps{},
		CEDerivation:           mockCE{},
	}
}
