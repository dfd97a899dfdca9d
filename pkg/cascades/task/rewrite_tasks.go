package task

import (
	"fmt"

	"github.com/cascadeql/memo/pkg/cascades/base"
	"github.com/cascadeql/memo/pkg/cascades/memo"
	"github.com/cascadeql/memo/pkg/cascades/queue"
)

// LogicalRuleApplier applies a single logical rewrite rule named by t
// against the Memo, typically ending in a call to Memo.Integrate. Pattern
// matching and the rule catalog itself live in an external rule package;
// this package only owns draining the queue that names which rule to try
// next.
type LogicalRuleApplier func(ctx *memo.Context, m *memo.Memo, t queue.LogicalRewriteTask) error

// PhysicalRuleApplier is LogicalRuleApplier's physical-rewrite counterpart.
type PhysicalRuleApplier func(ctx *memo.Context, m *memo.Memo, t queue.PhysicalRewriteTask) error

var _ base.Task = (*DrainLogicalQueueTask)(nil)
var _ base.Task = (*DrainPhysicalQueueTask)(nil)

// DrainLogicalQueueTask pops and applies every pending logical rewrite
// queued against one group, stopping at the first error. The logical
// rewrite queue is per-group FIFO state; draining it is scheduler
// business, not the Memo's.
type DrainLogicalQueueTask struct {
	Ctx   *memo.Context
	Memo  *memo.Memo
	Group memo.GroupID
	Apply LogicalRuleApplier
}

// Execute drains the group's logical rewrite queue.
func (t *DrainLogicalQueueTask) Execute() error {
	q := t.Memo.GetGroup(t.Group).RewriteQueue()
	for {
		rw, ok := q.Pop()
		if !ok {
			return nil
		}
		if err := t.Apply(t.Ctx, t.Memo, rw); err != nil {
			return err
		}
	}
}

// Desc renders a short description for logging and tests.
func (t *DrainLogicalQueueTask) Desc() string {
	return fmt.Sprintf("DrainLogicalQueueTask{group:%d}", t.Group)
}

// DrainPhysicalQueueTask pops and applies every pending physical rewrite
// queued against one (group, required properties) winner's-circle entry.
type DrainPhysicalQueueTask struct {
	Ctx       *memo.Context
	Memo      *memo.Memo
	Group     memo.GroupID
	PhysProps base.PhysProps
	Apply     PhysicalRuleApplier
}

// Execute drains the entry's physical rewrite queue. It is a no-op if no
// winner's-circle entry exists yet for PhysProps.
func (t *DrainPhysicalQueueTask) Execute() error {
	nodes := t.Memo.GetGroup(t.Group).PhysicalNodes()
	idx, ok := nodes.Find(t.PhysProps)
	if !ok {
		return nil
	}
	q := nodes.At(idx).Queue()
	for {
		rw, ok := q.Pop()
		if !ok {
			return nil
		}
		if err := t.Apply(t.Ctx, t.Memo, rw); err != nil {
			return err
		}
	}
}

// Desc renders a short description for logging and tests.
func (t *DrainPhysicalQueueTask) Desc() string {
	return fmt.Sprintf("DrainPhysicalQueueTask{group:%d, props:%s}", t.Group, t.PhysProps.String())
}
