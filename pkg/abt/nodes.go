package abt

import "fmt"

// baseNode implements the boilerplate Equals/Hash64 shared by every
// concrete node shape here: same Op, same Private value, pairwise-equal
// children.
type baseNode struct {
	op       Op
	private  any
	children []Node
}

func (n baseNode) Op() Op           { return n.op }
func (n baseNode) Private() any     { return n.private }
func (n baseNode) Children() []Node { return n.children }
func (n baseNode) Hash64() uint64   { return HashChildren(n.op, n.private, n.children) }

func (n baseNode) equals(other Node) bool {
	if other == nil || other.Op() != n.op {
		return false
	}
	if n.private != other.Private() {
		return false
	}
	oc := other.Children()
	if len(oc) != len(n.children) {
		return false
	}
	for i, c := range n.children {
		if !c.Equals(oc[i]) {
			return false
		}
	}
	return true
}

// Scan is a leaf node reading a named table.
type Scan struct{ baseNode }

// NewScan builds a Scan node over the given table name.
func NewScan(table string) Scan {
	return Scan{baseNode{op: OpScan, private: table}}
}

func (n Scan) WithChildren(children []Node) Node {
	intestLenZero(children)
	return n
}
func (n Scan) Equals(other Node) bool { return n.equals(other) }

// Filter applies a predicate (opaque string, for test purposes) over a
// single child.
type Filter struct{ baseNode }

// NewFilter builds a Filter node with the given predicate over child.
func NewFilter(predicate string, child Node) Filter {
	return Filter{baseNode{op: OpFilter, private: predicate, children: []Node{child}}}
}

func (n Filter) WithChildren(children []Node) Node {
	intestLen(children, 1)
	return Filter{baseNode{op: OpFilter, private: n.private, children: children}}
}
func (n Filter) Equals(other Node) bool { return n.equals(other) }

// Join combines two children with no private payload.
type Join struct{ baseNode }

// NewJoin builds a Join node over left and right.
func NewJoin(left, right Node) Join {
	return Join{baseNode{op: OpJoin, children: []Node{left, right}}}
}

func (n Join) WithChildren(children []Node) Node {
	intestLen(children, 2)
	return Join{baseNode{op: OpJoin, children: children}}
}
func (n Join) Equals(other Node) bool { return n.equals(other) }

// Project narrows a child's output to a fixed column list.
type Project struct{ baseNode }

// NewProject builds a Project node over child with the given columns.
// columns is joined into a single private string so Project participates in
// the same generic equality/hash machinery as the other node kinds.
func NewProject(columns []string, child Node) Project {
	return Project{baseNode{op: OpProject, private: columnsKey(columns), children: []Node{child}}}
}

func columnsKey(columns []string) string {
	key := ""
	for i, c := range columns {
		if i > 0 {
			key += ","
		}
		key += c
	}
	return key
}

func (n Project) WithChildren(children []Node) Node {
	intestLen(children, 1)
	return Project{baseNode{op: OpProject, private: n.private, children: children}}
}
func (n Project) Equals(other Node) bool { return n.equals(other) }

// GroupRef is synthetic: it wraps a GroupID produced by the Integrator
// when it replaces a child subtree with a reference to the group that now
// owns it. A node passed to the Integrator may already carry GroupRef
// children pointing at existing groups; those are not integrated again.
type GroupRef struct {
	id GroupID
}

// NewGroupRef wraps id as a leaf Node.
func NewGroupRef(id GroupID) GroupRef {
	return GroupRef{id: id}
}

// AsGroupRef reports whether n is a GroupRef, returning its GroupID.
func AsGroupRef(n Node) (GroupID, bool) {
	if g, ok := n.(GroupRef); ok {
		return g.id, true
	}
	return 0, false
}

func (n GroupRef) Op() Op           { return OpGroupRef }
func (n GroupRef) Private() any     { return n.id }
func (n GroupRef) Children() []Node { return nil }
func (n GroupRef) WithChildren(children []Node) Node {
	intestLenZero(children)
	return n
}
func (n GroupRef) Hash64() uint64 { return HashChildren(OpGroupRef, n.id, nil) }
func (n GroupRef) Equals(other Node) bool {
	g, ok := other.(GroupRef)
	return ok && g.id == n.id
}

// Binder is the immutable expression a Group allocates at construction to
// represent the set of projections it produces (memo.h: Group::_binder).
type Binder struct{ baseNode }

// NewBinder builds the binder expression for a group's projection set.
func NewBinder(projections []string) Binder {
	return Binder{baseNode{op: OpBinder, private: columnsKey(sortedCopy(projections))}}
}

func sortedCopy(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

func (n Binder) WithChildren(children []Node) Node {
	intestLenZero(children)
	return n
}
func (n Binder) Equals(other Node) bool { return n.equals(other) }

func intestLen(children []Node, want int) {
	if len(children) != want {
		panic(fmt.Sprintf("abt: expected %d children, got %d", want, len(children)))
	}
}

func intestLenZero(children []Node) {
	if len(children) != 0 {
		panic(fmt.Sprintf("abt: leaf node given %d children", len(children)))
	}
}
