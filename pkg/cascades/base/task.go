package base

// Task is one unit of scheduled optimizer work: draining a group's logical
// or physical rewrite queue, applying a single rule, and so on. Execute may
// push further tasks onto the Stack it closed over; the Scheduler drives
// the stack until it is empty.
type Task interface {
	// Execute runs the task, returning any fatal error. A task that wants
	// follow-up work pushes new tasks onto its own stack before returning.
	Execute() error
	// Desc renders a short human-readable description, used for logging
	// and test assertions.
	Desc() string
}

// Stack holds pending Tasks in LIFO order. Cascades-style optimizers use a
// stack rather than a FIFO queue so that a child group is always fully
// explored before the task that depends on it resumes (see task.Stack's
// doc comment).
type Stack interface {
	Push(task Task)
	Pop() Task
	Empty() bool
	Len() int
}

// Scheduler drives a Stack of Tasks to completion.
type Scheduler interface {
	// ExecuteTasks pops and executes tasks until the stack is empty or a
	// task returns an error, whichever comes first.
	ExecuteTasks() error
	// Destroy releases any pooled resources held by the scheduler.
	Destroy()
	// PushTask adds one more task, e.g. a request to explore a newly
	// inserted logical node.
	PushTask(task Task)
}
