// Package abt defines the contract the memo package consumes for plan
// fragments: an immutable, structurally hashable and structurally
// equatable algebraic tree whose immediate children can be enumerated and
// substituted. Concrete rewrite rules that operate on these trees live
// outside this module; this package exists only so the memo has a real,
// testable ABT to integrate.
package abt

import (
	"fmt"

	farm "github.com/dgryski/go-farm"
)

// GroupID is a dense, stable, non-negative integer identifying a memo
// group. It is defined here, rather than in the memo package, because ABT
// nodes reference child groups by GroupID directly (memo.h: "internal
// nodes may carry GroupId references").
type GroupID int32

// NodeID identifies a logical node within a group: the pair (GroupID,
// index). Defined here, alongside GroupID, so both the memo package and
// the queue package can refer to the exact same type rather than two
// structurally-identical but incompatible ones.
type NodeID struct {
	Group GroupID
	Index int
}

func (id NodeID) String() string {
	return fmt.Sprintf("%d.%d", id.Group, id.Index)
}

// Op identifies the shape of a Node for pattern matching and hashing.
type Op uint8

const (
	// OpInvalid is the zero value; never a valid node.
	OpInvalid Op = iota
	OpScan
	OpFilter
	OpJoin
	OpProject
	// OpGroupRef is synthetic: it wraps a GroupID. The Integrator produces
	// it when it rewrites a child subtree into a group reference; a
	// rewrite may also hand the Integrator a node whose children are
	// already group references, which it treats as integrated.
	OpGroupRef
	// OpBinder is synthetic: the immutable expression a Group allocates at
	// construction time to represent its output projections.
	OpBinder
)

func (o Op) String() string {
	switch o {
	case OpScan:
		return "Scan"
	case OpFilter:
		return "Filter"
	case OpJoin:
		return "Join"
	case OpProject:
		return "Project"
	case OpGroupRef:
		return "GroupRef"
	case OpBinder:
		return "Binder"
	default:
		return "Invalid"
	}
}

// Node is the opaque ABT contract. Implementations are immutable value
// types: WithChildren never mutates the receiver, it returns a new Node.
//
// Reference is a plain alias for Node. In the origin C++ design
// ABT::reference_type is a non-owning view distinct from the owning ABT
// value, a distinction that exists to avoid needless copies of a
// manually-managed tree. Go's garbage collector makes that distinction
// unnecessary: an interface value is already a lightweight, non-owning
// handle to the underlying node, so the memo can return Node values
// directly wherever the spec calls for a "reference view".
type Node interface {
	Op() Op
	// Private returns the leaf payload (e.g. a table name), or nil for
	// nodes that carry no scalar private value.
	Private() any
	Children() []Node
	// WithChildren returns a copy of the node with its children replaced.
	// len(children) must equal len(n.Children()).
	WithChildren(children []Node) Node
	// Hash64 is a structural hash: equal nodes (via Equals) always hash
	// equal. It must not depend on the node's address.
	Hash64() uint64
	// Equals is structural equality, never address equality.
	Equals(other Node) bool
}

// Reference is a non-owning view of a Node; see the Node doc comment.
type Reference = Node

// combineHash folds child into acc in an order-sensitive way: swapping two
// children's positions changes the result. This matters for the reverse
// index, whose child-group tuples are ordered vectors, not multisets.
func combineHash(acc, child uint64) uint64 {
	var buf [8]byte
	putUint64(buf[:], child)
	return farm.Hash64WithSeed(buf[:], acc)
}

func putUint64(buf []byte, v uint64) {
	for i := 0; i < 8; i++ {
		buf[i] = byte(v >> (8 * i))
	}
}

// HashChildren is a helper for Node implementations: it seeds a hash with
// the operator tag and the private value's string form, then folds in each
// child's Hash64 in order.
func HashChildren(op Op, private any, children []Node) uint64 {
	seed := farm.Hash64WithSeed([]byte(op.String()), 0)
	if private != nil {
		seed = farm.Hash64WithSeed([]byte(fmt.Sprintf("%v", private)), seed)
	}
	for _, c := range children {
		seed = combineHash(seed, c.Hash64())
	}
	return seed
}

// HashGroupIDs hashes an ordered tuple of GroupIDs with the same
// order-sensitive combiner used for node hashing, so the reverse index and
// the node interning set agree on what "structurally the same children"
// means.
func HashGroupIDs(ids []GroupID) uint64 {
	seed := farm.Hash64WithSeed([]byte("groupids"), 0)
	for _, id := range ids {
		seed = combineHash(seed, uint64(uint32(id)))
	}
	return seed
}
