package memo

import "github.com/cascadeql/memo/pkg/abt"

// groupVectorEntry holds one distinct ordered child-group tuple together
// with the set of NodeIDs that consume exactly that tuple.
type groupVectorEntry struct {
	children []GroupID
	nodes    NodeIDSet
}

func sameChildren(a, b []GroupID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// inputGroupsIndex is InputGroupsToNodeIdMap: vector<GroupId> -> set<NodeId>.
// It is hash-bucketed for the same reason orderPreservingSet is: a
// []GroupID slice is not a valid Go map key, so the hash from
// abt.HashGroupIDs is used to bucket entries and sameChildren resolves
// collisions.
type inputGroupsIndex struct {
	buckets map[uint64][]*groupVectorEntry
}

func newInputGroupsIndex() inputGroupsIndex {
	return inputGroupsIndex{buckets: make(map[uint64][]*groupVectorEntry)}
}

func (idx *inputGroupsIndex) entry(children []GroupID, create bool) *groupVectorEntry {
	h := abt.HashGroupIDs(children)
	for _, e := range idx.buckets[h] {
		if sameChildren(e.children, children) {
			return e
		}
	}
	if !create {
		return nil
	}
	e := &groupVectorEntry{children: append([]GroupID(nil), children...), nodes: NewNodeIDSet()}
	idx.buckets[h] = append(idx.buckets[h], e)
	return e
}

// add records that id consumes exactly children.
func (idx *inputGroupsIndex) add(children []GroupID, id NodeID) {
	idx.entry(children, true).nodes.Add(id)
}

// lookup returns the set of NodeIDs that consume exactly children, and
// whether any such entry exists. remove drops an entry once its last
// NodeID is gone, so found=false means no node consumes exactly children.
func (idx *inputGroupsIndex) lookup(children []GroupID) (NodeIDSet, bool) {
	e := idx.entry(children, false)
	if e == nil {
		return nil, false
	}
	return e.nodes, true
}

// remove drops id from the entry for children, used by clearLogicalNodes,
// and drops the entry itself once it holds no NodeIDs.
func (idx *inputGroupsIndex) remove(children []GroupID, id NodeID) {
	e := idx.entry(children, false)
	if e == nil {
		return
	}
	delete(e.nodes, id)
	if len(e.nodes) > 0 {
		return
	}
	h := abt.HashGroupIDs(children)
	bucket := idx.buckets[h]
	for i, b := range bucket {
		if b == e {
			bucket = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}
	if len(bucket) == 0 {
		delete(idx.buckets, h)
	} else {
		idx.buckets[h] = bucket
	}
}
