// Package queue holds the plain FIFO containers a Group and a
// PhysOptimizationResult each own for their pending rewrites. The memo
// package never pushes to or pops from these queues; enqueueing, draining
// and re-enqueueing is entirely the scheduler's business.
package queue

import (
	"github.com/cascadeql/memo/pkg/abt"
	"github.com/cascadeql/memo/pkg/cascades/base"
)

// LogicalRewriteTask names a logical rewrite rule to apply against a
// specific logical node, identified by NodeId rather than by ABT view so
// that the descriptor survives a clearLogicalNodes on an unrelated group.
type LogicalRewriteTask struct {
	Rule   base.LogicalRewriteType
	Source NodeID
}

// NodeID is a plain alias for abt.NodeID (memo.NodeID is the same alias),
// so a NodeID produced by the Memo façade can be stored as a task's
// Source with no conversion.
type NodeID = abt.NodeID

// GroupID is a plain alias for abt.GroupID, for the same reason as
// NodeID above.
type GroupID = abt.GroupID

// PhysicalRewriteTask names a physical rewrite rule to apply against a
// specific logical node within the group being optimized under one
// required-properties entry.
type PhysicalRewriteTask struct {
	Rule   base.PhysicalRewriteType
	Source NodeID
}

// LogicalRewriteQueue is a FIFO of pending logical rewrites for one group.
type LogicalRewriteQueue struct {
	tasks []LogicalRewriteTask
}

// Push appends t to the back of the queue.
func (q *LogicalRewriteQueue) Push(t LogicalRewriteTask) {
	q.tasks = append(q.tasks, t)
}

// Pop removes and returns the task at the front of the queue. The second
// return value is false if the queue was empty.
func (q *LogicalRewriteQueue) Pop() (LogicalRewriteTask, bool) {
	if len(q.tasks) == 0 {
		return LogicalRewriteTask{}, false
	}
	t := q.tasks[0]
	q.tasks = q.tasks[1:]
	return t, true
}

// Len reports the number of pending tasks.
func (q *LogicalRewriteQueue) Len() int { return len(q.tasks) }

// PhysRewriteQueue is a FIFO of pending physical rewrites for one
// PhysOptimizationResult.
type PhysRewriteQueue struct {
	tasks []PhysicalRewriteTask
}

// Push appends t to the back of the queue.
func (q *PhysRewriteQueue) Push(t PhysicalRewriteTask) {
	q.tasks = append(q.tasks, t)
}

// Pop removes and returns the task at the front of the queue. The second
// return value is false if the queue was empty.
func (q *PhysRewriteQueue) Pop() (PhysicalRewriteTask, bool) {
	if len(q.tasks) == 0 {
		return PhysicalRewriteTask{}, false
	}
	t := q.tasks[0]
	q.tasks = q.tasks[1:]
	return t, true
}

// Len reports the number of pending tasks.
func (q *PhysRewriteQueue) Len() int { return len(q.tasks) }
