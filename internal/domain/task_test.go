package domain

import "testing"

func TestTaskState_IsTerminal(t *testing.T) {
	terminal := []TaskState{TaskStateSucceeded, TaskStateFailed, TaskStateCancelled}
	for _, s := range terminal {
		if !s.IsTerminal() {
			t.Errorf("%s should be terminal", s)
		}
	}

	live := []TaskState{TaskStatePending, TaskStateSubmitted, TaskStateRunning}
	for _, s := range live {
		if s.IsTerminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}

func TestTask_Transitions(t *testing.T) {
	task := &Task{ID: "g_align101", State: TaskStatePending}

	task.MarkSubmitted("4217")
	if task.State != TaskStateSubmitted {
		t.Errorf("State = %s, want SUBMITTED", task.State)
	}
	if task.Handle != "4217" {
		t.Errorf("Handle = %q, want %q", task.Handle, "4217")
	}

	task.MarkFailed("queue closed")
	if task.State != TaskStateFailed {
		t.Errorf("State = %s, want FAILED", task.State)
	}
	if task.Error != "queue closed" {
		t.Errorf("Error = %q, want %q", task.Error, "queue closed")
	}
}

func TestTask_DependsOnID(t *testing.T) {
	task := &Task{DependsOn: []TaskID{"a", "b"}}

	if !task.DependsOnID("a") {
		t.Error("expected dependency on a")
	}
	if task.DependsOnID("c") {
		t.Error("unexpected dependency on c")
	}
}

func TestPipelineRun_ShortReadFor(t *testing.T) {
	tests := []struct {
		short bool
		end   int
		ask   int
		want  bool
	}{
		{false, 0, 1, false},
		{true, 0, 1, true},
		{true, 0, 2, true},
		{true, 1, 1, true},
		{true, 1, 2, false},
		{true, 2, 2, true},
	}

	for _, tt := range tests {
		run := &PipelineRun{ShortRead: tt.short, ShortReadEnd: tt.end}
		if got := run.ShortReadFor(tt.ask); got != tt.want {
			t.Errorf("ShortReadFor(%d) with short=%v end=%d: got %v, want %v",
				tt.ask, tt.short, tt.end, got, tt.want)
		}
	}
}

func TestTaskRole_Order(t *testing.T) {
	if RoleAlign1.Order() >= RoleGlobalMerge.Order() {
		t.Error("align should come before merge")
	}
	if RoleGlobalMerge.Order() >= RoleReconcile.Order() {
		t.Error("merge should come before reconcile")
	}
	if TaskRole("BOGUS").Order() <= RoleReconcile.Order() {
		t.Error("unknown role should sort last")
	}
}
