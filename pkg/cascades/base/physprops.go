package base

import (
	"strings"

	farm "github.com/dgryski/go-farm"
)

// PhysProps is the required physical property set a group is being
// optimized against: the winner's circle key. Property derivation itself
// lives outside this module; PhysProps is the narrow, hashable/equatable
// struct the memo needs to key its table.
type PhysProps struct {
	RequiredOrdering []string
	Distribution     string
}

// Hash64 is a structural hash over the ordered RequiredOrdering and the
// Distribution tag.
func (p PhysProps) Hash64() uint64 {
	seed := farm.Hash64WithSeed([]byte(p.Distribution), 0)
	for _, col := range p.RequiredOrdering {
		seed = farm.Hash64WithSeed([]byte(col), seed)
	}
	return seed
}

// Equals is structural equality.
func (p PhysProps) Equals(other PhysProps) bool {
	if p.Distribution != other.Distribution {
		return false
	}
	if len(p.RequiredOrdering) != len(other.RequiredOrdering) {
		return false
	}
	for i, col := range p.RequiredOrdering {
		if other.RequiredOrdering[i] != col {
			return false
		}
	}
	return true
}

func (p PhysProps) String() string {
	return strings.Join(p.RequiredOrdering, ",") + "/" + p.Distribution
}
