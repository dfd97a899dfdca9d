// Package task provides the Stack/Scheduler scaffolding an external
// optimizer driver uses to drain the rewrite queues a Group and a
// PhysOptimizationResult accumulate. The Memo itself never schedules
// anything; this package is the minimal LIFO driver used to apply pending
// rewrites above it.
package task

import (
	"sync"

	"github.com/cascadeql/memo/pkg/cascades/base"
)

// stackPool recycles Stack allocations across optimization runs.
var stackPool = sync.Pool{
	New: func() any {
		return newStack()
	},
}

// Stack is a LIFO container of pending base.Task values. A stack, not a
// FIFO queue, is used so that a task pushing child work runs that work to
// completion before its own remaining steps resume.
type Stack struct {
	tasks []base.Task
}

func newStack() *Stack {
	return &Stack{tasks: make([]base.Task, 0, 4)}
}

// GetStack returns a Stack from the shared pool.
func GetStack() *Stack {
	return stackPool.Get().(*Stack)
}

// Destroy clears the stack and returns it to the pool.
func (s *Stack) Destroy() {
	clear(s.tasks)
	s.tasks = s.tasks[:0]
	stackPool.Put(s)
}

// Len reports the number of pending tasks.
func (s *Stack) Len() int { return len(s.tasks) }

// Empty reports whether the stack has no pending tasks.
func (s *Stack) Empty() bool { return len(s.tasks) == 0 }

// Push adds t to the top of the stack.
func (s *Stack) Push(t base.Task) { s.tasks = append(s.tasks, t) }

// Pop removes and returns the task on top of the stack, or nil if empty.
func (s *Stack) Pop() base.Task {
	if s.Empty() {
		return nil
	}
	idx := len(s.tasks) - 1
	t := s.tasks[idx]
	s.tasks[idx] = nil
	s.tasks = s.tasks[:idx]
	return t
}

var _ base.Stack = (*Stack)(nil)
