package memo

import "github.com/cascadeql/memo/pkg/abt"

// orderPreservingSet maps an ABT node to a dense index; the backing slice
// preserves insertion order so iteration replays deterministically.
//
// A hash-bucketed index (rather than a plain map keyed on the node
// itself) is used because abt.Node implementations are not comparable:
// their Children slices make them ineligible as Go map keys. Bucketing on
// Hash64 and resolving collisions with Equals gives the same asymptotic
// behavior as a real hash map.
type orderPreservingSet struct {
	buckets map[uint64][]int
	nodes   []abt.Node
}

func newOrderPreservingSet() orderPreservingSet {
	return orderPreservingSet{buckets: make(map[uint64][]int)}
}

// find reports the index of an existing structurally-equal node, if any.
func (s *orderPreservingSet) find(node abt.Node) (int, bool) {
	for _, idx := range s.buckets[node.Hash64()] {
		if s.nodes[idx].Equals(node) {
			return idx, true
		}
	}
	return 0, false
}

// emplaceBack inserts node unless a structurally-equal node already
// exists, in which case the existing index is returned and the argument
// is discarded. Returns (index, inserted).
func (s *orderPreservingSet) emplaceBack(node abt.Node) (int, bool) {
	if idx, ok := s.find(node); ok {
		return idx, false
	}
	idx := len(s.nodes)
	s.nodes = append(s.nodes, node)
	h := node.Hash64()
	s.buckets[h] = append(s.buckets[h], idx)
	return idx, true
}

// forceInsert always appends node as a new entry, bypassing the
// structural-match check emplaceBack performs. It exists only to support
// the Integrator's addExistingNodeWithNewChild force-insert mode, where
// two indices may end up holding structurally-equal nodes by design.
func (s *orderPreservingSet) forceInsert(node abt.Node) int {
	idx := len(s.nodes)
	s.nodes = append(s.nodes, node)
	h := node.Hash64()
	s.buckets[h] = append(s.buckets[h], idx)
	return idx
}

// at returns a non-owning view of the node at index.
func (s *orderPreservingSet) at(index int) abt.Node {
	return s.nodes[index]
}

// size reports the number of stored nodes.
func (s *orderPreservingSet) size() int { return len(s.nodes) }

// clear resets the set to empty; indices are no longer valid after this.
func (s *orderPreservingSet) clear() {
	s.buckets = make(map[uint64][]int)
	s.nodes = nil
}
