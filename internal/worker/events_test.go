package worker

import (
	"context"
	"testing"

	"github.com/shaiso/hicflow/internal/domain"
	"github.com/shaiso/hicflow/internal/mq"
	"github.com/shaiso/hicflow/internal/state"
)

func taskEvent(t *testing.T, taskID string, st domain.TaskState, exitCode int) *mq.Message {
	t.Helper()
	msg, err := mq.NewMessage(mq.MessageTypeTaskEvent, mq.TaskEventPayload{
		Group:    "g",
		TaskID:   taskID,
		State:    string(st),
		ExitCode: exitCode,
	})
	if err != nil {
		t.Fatal(err)
	}
	return msg
}

func TestEventMirror_Handle(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()
	_ = store.Record(ctx, state.TaskRecord{
		Group: "g", TaskID: "g_align101", Role: domain.RoleAlign1,
		State: domain.TaskStateSubmitted, Handle: "4217",
	})

	mirror := &EventMirror{Store: store, Logger: testLogger()}
	msg := taskEvent(t, "g_align101", domain.TaskStateFailed, 137)

	if err := mirror.Handle(ctx, msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec, err := store.Get(ctx, "g", "g_align101")
	if err != nil {
		t.Fatal(err)
	}
	if rec.State != domain.TaskStateFailed {
		t.Errorf("State = %s, want FAILED", rec.State)
	}
	if rec.ExitCode != 137 {
		t.Errorf("ExitCode = %d, want 137", rec.ExitCode)
	}
	// Роль и handle существующей записи сохраняются.
	if rec.Role != domain.RoleAlign1 {
		t.Errorf("Role = %s, want ALIGN1", rec.Role)
	}
	if rec.Handle != "4217" {
		t.Errorf("Handle = %q, want 4217", rec.Handle)
	}
}

func TestEventMirror_StaleEventIgnored(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()
	_ = store.Record(ctx, state.TaskRecord{
		Group: "g", TaskID: "g_merge01", Role: domain.RoleGlobalMerge,
		State: domain.TaskStateSucceeded,
	})

	mirror := &EventMirror{Store: store, Logger: testLogger()}
	msg := taskEvent(t, "g_merge01", domain.TaskStateRunning, 0)

	if err := mirror.Handle(ctx, msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec, _ := store.Get(ctx, "g", "g_merge01")
	if rec.State != domain.TaskStateSucceeded {
		t.Errorf("terminal state must not regress, got %s", rec.State)
	}
}

func TestEventMirror_UnknownState(t *testing.T) {
	mirror := &EventMirror{Store: newMemStore(), Logger: testLogger()}
	msg := taskEvent(t, "g_x", domain.TaskState("EXPLODED"), 0)

	if err := mirror.Handle(context.Background(), msg); err == nil {
		t.Error("expected error for unknown state")
	}
}

func TestEventMirror_IgnoresOtherTypes(t *testing.T) {
	store := newMemStore()
	mirror := &EventMirror{Store: store, Logger: testLogger()}

	msg, err := mq.NewMessage(mq.MessageTypeSubmission, mq.SubmissionPayload{Name: "t"})
	if err != nil {
		t.Fatal(err)
	}
	if err := mirror.Handle(context.Background(), msg); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if len(store.recs) != 0 {
		t.Error("no record expected for non-event message")
	}
}
