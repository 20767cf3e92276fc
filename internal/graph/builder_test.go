package graph

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/shaiso/hicflow/internal/domain"
	"github.com/shaiso/hicflow/internal/sched"
	"github.com/shaiso/hicflow/internal/state"
)

// fakeClient принимает все отправки, запоминая заявки.
// rejectNames — имена, отправка которых отклоняется.
type fakeClient struct {
	mu          sync.Mutex
	requests    []sched.Request
	rejectNames map[string]bool
}

func (c *fakeClient) Submit(_ context.Context, req sched.Request) (sched.Handle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rejectNames[req.Name] {
		return "", errors.New("queue closed")
	}
	c.requests = append(c.requests, req)
	return sched.Handle("h_" + req.Name), nil
}

func (c *fakeClient) Cancel(_ context.Context, _ sched.Handle) error { return nil }

// memStore — ledger в памяти для тестов.
type memStore struct {
	mu   sync.Mutex
	recs map[domain.TaskID]state.TaskRecord
}

func newMemStore() *memStore {
	return &memStore{recs: make(map[domain.TaskID]state.TaskRecord)}
}

func (s *memStore) Record(_ context.Context, rec state.TaskRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs[rec.TaskID] = rec
	return nil
}

func (s *memStore) Get(_ context.Context, _ string, id domain.TaskID) (*state.TaskRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.recs[id]
	if !ok {
		return nil, state.ErrNotFound
	}
	return &rec, nil
}

func (s *memStore) List(_ context.Context, _ string) ([]state.TaskRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs := make([]state.TaskRecord, 0, len(s.recs))
	for _, rec := range s.recs {
		recs = append(recs, rec)
	}
	return recs, nil
}

func newTestBuilder(client sched.Client, store state.Store) *Builder {
	return NewBuilder(Config{
		Group:    "hic_test",
		TopDir:   "/data/run",
		SelfPath: "/opt/bin/hicflow",
		Client:   client,
		Store:    store,
	})
}

func TestBuilder_AddTask(t *testing.T) {
	client := &fakeClient{}
	store := newMemStore()
	b := newTestBuilder(client, store)
	ctx := context.Background()

	task, err := b.AddTask(ctx, domain.RoleAlign1, "hic_align --in a", domain.Resources{Queue: "short", MemoryMB: 4096}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if task.ID != "hic_test_align101" {
		t.Errorf("ID = %s, want hic_test_align101", task.ID)
	}
	if task.State != domain.TaskStateSubmitted {
		t.Errorf("State = %s, want SUBMITTED", task.State)
	}
	if task.Handle != "h_hic_test_align101" {
		t.Errorf("Handle = %q", task.Handle)
	}

	rec, err := store.Get(ctx, "hic_test", task.ID)
	if err != nil {
		t.Fatalf("ledger record missing: %v", err)
	}
	if rec.State != domain.TaskStateSubmitted {
		t.Errorf("ledger State = %s, want SUBMITTED", rec.State)
	}
}

func TestBuilder_IDsAreDeterministic(t *testing.T) {
	build := func() []domain.TaskID {
		b := newTestBuilder(&fakeClient{}, newMemStore())
		ctx := context.Background()
		a, _ := b.AddTask(ctx, domain.RoleAlign1, "c1", domain.Resources{Queue: "q"}, nil)
		_, _ = b.AddTask(ctx, domain.RoleAlign1, "c2", domain.Resources{Queue: "q"}, nil)
		m, _ := b.AddTask(ctx, domain.RoleGlobalMerge, "c3", domain.Resources{Queue: "q"}, []domain.TaskID{a.ID})
		return []domain.TaskID{a.ID, m.ID}
	}

	first := build()
	second := build()
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("build %d: id %s != %s", i, first[i], second[i])
		}
	}
}

func TestBuilder_UnknownDependency(t *testing.T) {
	b := newTestBuilder(&fakeClient{}, newMemStore())

	_, err := b.AddTask(context.Background(), domain.RoleGlobalMerge, "c",
		domain.Resources{Queue: "q"}, []domain.TaskID{"hic_test_ghost01"})

	if !errors.Is(err, ErrUnknownDependency) {
		t.Fatalf("expected ErrUnknownDependency, got %v", err)
	}
	var graphErr *GraphError
	if !errors.As(err, &graphErr) {
		t.Fatal("expected GraphError")
	}
}

func TestBuilder_SubmissionRejectionIsNotAnError(t *testing.T) {
	client := &fakeClient{rejectNames: map[string]bool{"hic_test_align101": true}}
	store := newMemStore()
	b := newTestBuilder(client, store)
	ctx := context.Background()

	task, err := b.AddTask(ctx, domain.RoleAlign1, "c", domain.Resources{Queue: "q"}, nil)
	if err != nil {
		t.Fatalf("rejection must not fail AddTask: %v", err)
	}
	if task.State != domain.TaskStateFailed {
		t.Errorf("State = %s, want FAILED", task.State)
	}

	rec, err := store.Get(ctx, "hic_test", task.ID)
	if err != nil {
		t.Fatalf("ledger record missing: %v", err)
	}
	if rec.State != domain.TaskStateFailed {
		t.Errorf("ledger State = %s, want FAILED", rec.State)
	}
}

func TestBuilder_SubmittedCommandIsWrapped(t *testing.T) {
	client := &fakeClient{}
	b := newTestBuilder(client, newMemStore())

	if _, err := b.AddTask(context.Background(), domain.RoleAlign1, "hic_align --in a",
		domain.Resources{Queue: "q"}, nil); err != nil {
		t.Fatal(err)
	}

	cmd := client.requests[0].Command
	for _, want := range []string{
		"record --top-dir /data/run --group hic_test",
		"--state RUNNING",
		"--state SUCCEEDED",
		"--state FAILED --exit-code $rc",
		"hic_align --in a",
	} {
		if !strings.Contains(cmd, want) {
			t.Errorf("wrapped command missing %q:\n%s", want, cmd)
		}
	}
}

func TestBuilder_Leaves(t *testing.T) {
	b := newTestBuilder(&fakeClient{}, newMemStore())
	ctx := context.Background()

	a, _ := b.AddTask(ctx, domain.RoleAlign1, "c", domain.Resources{Queue: "q"}, nil)
	b2, _ := b.AddTask(ctx, domain.RoleAlign2, "c", domain.Resources{Queue: "q"}, nil)
	m, _ := b.AddTask(ctx, domain.RolePairMerge, "c", domain.Resources{Queue: "q"}, []domain.TaskID{a.ID, b2.ID})

	leaves := b.Leaves()
	if len(leaves) != 1 || leaves[0] != m.ID {
		t.Errorf("Leaves() = %v, want [%s]", leaves, m.ID)
	}
}

func TestBuilder_Verify(t *testing.T) {
	b := newTestBuilder(&fakeClient{}, newMemStore())
	ctx := context.Background()

	a, _ := b.AddTask(ctx, domain.RoleAlign1, "c", domain.Resources{Queue: "q"}, nil)
	_, _ = b.AddTask(ctx, domain.RolePairMerge, "c", domain.Resources{Queue: "q"}, []domain.TaskID{a.ID})

	if err := b.Verify(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
