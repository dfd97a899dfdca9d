package task

import (
	"fmt"

	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cascadeql/memo/pkg/cascades/base"
)

// mockTask fails execution when its id equals the configured failID.
type mockTask struct {
	id     int
	failID int
	trace  *[]int
}

func (t *mockTask) Execute() error {
	*t.trace = append(*t.trace, t.id)
	if t.id == t.failID {
		return fmt.Errorf("mock error at task id = %d", t.id)
	}
	return nil
}

func (t *mockTask) Desc() string { return fmt.Sprintf("mockTask{%d}", t.id) }

func TestSimpleTaskSchedulerStopsAtFirstError(t *testing.T) {
	var trace []int
	s := NewSimpleTaskScheduler()
	defer s.Destroy()

	s.PushTask(&mockTask{id: 3, failID: 2, trace: &trace})
	s.PushTask(&mockTask{id: 2, failID: 2, trace: &trace})
	s.PushTask(&mockTask{id: 1, failID: 2, trace: &trace})

	var sched base.Scheduler = s
	err := sched.ExecuteTasks()
	require.Error(t, err)
	require.Equal(t, "mock error at task id = 2", err.Error())
	// LIFO: id 1 was pushed last, so it runs first; id 2 fails before id 3
	// is ever popped.
	require.Equal(t, []int{1, 2}, trace)
}

func TestSimpleTaskSchedulerDrainsOnSuccess(t *testing.T) {
	var trace []int
	s := NewSimpleTaskScheduler()
	defer s.Destroy()

	s.PushTask(&mockTask{id: 3, failID: -1, trace: &trace})
	s.PushTask(&mockTask{id: 2, failID: -1, trace: &trace})
	s.PushTask(&mockTask{id: 1, failID: -1, trace: &trace})

	require.NoError(t, s.ExecuteTasks())
	require.Equal(t, []int{1, 2, 3}, trace)
}

func TestStackPushPopOrder(t *testing.T) {
	s := GetStack()
	defer s.Destroy()

	require.True(t, s.Empty())
	var trace []int
	s.Push(&mockTask{id: 1, failID: -1, trace: &trace})
	s.Push(&mockTask{id: 2, failID: -1, trace: &trace})
	require.Equal(t, 2, s.Len())

	top := s.Pop()
	require.Equal(t, "mockTask{2}", top.Desc())
	require.Equal(t, 1, s.Len())

	bottom := s.Pop()
	require.Equal(t, "mockTask{1}", bottom.Desc())
	require.True(t, s.Empty())
	require.Nil(t, s.Pop())
}
