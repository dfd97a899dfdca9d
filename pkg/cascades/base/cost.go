package base

// Cost is a total-order, non-negative cost value used throughout physical
// optimization: subtree cost, local operator cost, and cost limits. The
// cost model that produces these values lives outside this module; Cost
// is just the value type the winner's circle compares and prunes with.
type Cost float64

// InfiniteCost is the conventional starting cost limit for a group that
// has no pruning bound yet.
const InfiniteCost Cost = 1<<63 - 1

// Less reports whether c is strictly cheaper than other.
func (c Cost) Less(other Cost) bool { return c < other }

// LessOrEqual reports whether c is at most other.
func (c Cost) LessOrEqual(other Cost) bool { return c <= other }
