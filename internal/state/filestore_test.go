package state

import (
	"context"
	"errors"
	"testing"

	"github.com/shaiso/hicflow/internal/domain"
)

func TestFileStore_RecordAndGet(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()

	rec := TaskRecord{
		Group:  "hic_test",
		TaskID: "hic_test_align101",
		Role:   domain.RoleAlign1,
		State:  domain.TaskStateSubmitted,
		Handle: "4217",
	}
	if err := store.Record(ctx, rec); err != nil {
		t.Fatalf("Record: %v", err)
	}

	got, err := store.Get(ctx, "hic_test", rec.TaskID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.State != domain.TaskStateSubmitted {
		t.Errorf("State = %s, want SUBMITTED", got.State)
	}
	if got.Handle != "4217" {
		t.Errorf("Handle = %q, want 4217", got.Handle)
	}
	if got.UpdatedAt.IsZero() {
		t.Error("UpdatedAt should be set on write")
	}
}

func TestFileStore_Overwrite(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	rec := TaskRecord{Group: "g", TaskID: "g_merge01", Role: domain.RoleGlobalMerge, State: domain.TaskStateRunning}
	if err := store.Record(ctx, rec); err != nil {
		t.Fatal(err)
	}

	rec.State = domain.TaskStateSucceeded
	if err := store.Record(ctx, rec); err != nil {
		t.Fatal(err)
	}

	got, err := store.Get(ctx, "g", "g_merge01")
	if err != nil {
		t.Fatal(err)
	}
	if got.State != domain.TaskStateSucceeded {
		t.Errorf("State = %s, want SUCCEEDED", got.State)
	}
}

func TestFileStore_GetNotFound(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	_, err = store.Get(context.Background(), "g", "g_missing01")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFileStore_List(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	// Намеренно не по порядку: List обязан сортировать по id.
	for _, id := range []domain.TaskID{"g_c", "g_a", "g_b"} {
		if err := store.Record(ctx, TaskRecord{Group: "g", TaskID: id, State: domain.TaskStateSucceeded}); err != nil {
			t.Fatal(err)
		}
	}
	// Запись чужой группы не должна попасть в выборку.
	if err := store.Record(ctx, TaskRecord{Group: "other", TaskID: "other_x", State: domain.TaskStateFailed}); err != nil {
		t.Fatal(err)
	}

	recs, err := store.List(ctx, "g")
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 3 {
		t.Fatalf("got %d records, want 3", len(recs))
	}
	for i, want := range []domain.TaskID{"g_a", "g_b", "g_c"} {
		if recs[i].TaskID != want {
			t.Errorf("recs[%d].TaskID = %s, want %s", i, recs[i].TaskID, want)
		}
	}
}
