package task

import "github.com/cascadeql/memo/pkg/cascades/base"

var _ base.Scheduler = (*SimpleTaskScheduler)(nil)

// SimpleTaskScheduler drives a single Stack to completion, one task at a
// time, stopping at the first error: a failing rewrite or derivation is
// surfaced to the caller, never swallowed.
type SimpleTaskScheduler struct {
	stack *Stack
}

// NewSimpleTaskScheduler returns a scheduler backed by a pooled Stack.
func NewSimpleTaskScheduler() *SimpleTaskScheduler {
	return &SimpleTaskScheduler{stack: GetStack()}
}

// PushTask adds one more task to the scheduler's stack.
func (s *SimpleTaskScheduler) PushTask(t base.Task) {
	s.stack.Push(t)
}

// ExecuteTasks pops and executes tasks until the stack drains or a task
// returns an error.
func (s *SimpleTaskScheduler) ExecuteTasks() error {
	for !s.stack.Empty() {
		t := s.stack.Pop()
		if err := t.Execute(); err != nil {
			return err
		}
	}
	return nil
}

// Destroy releases the scheduler's stack back to the shared pool.
func (s *SimpleTaskScheduler) Destroy() {
	stack := s.stack
	s.stack = nil
	stack.Destroy()
}
