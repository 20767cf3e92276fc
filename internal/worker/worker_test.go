package worker

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shaiso/hicflow/internal/config"
	"github.com/shaiso/hicflow/internal/domain"
	"github.com/shaiso/hicflow/internal/sched"
	"github.com/shaiso/hicflow/internal/state"
)

// memStore — ledger в памяти.
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

// clusterClient имитирует кластер: после того как отправитель записал
// SUBMITTED, дочерняя задача «выполняется» и получает терминальную
// запись в ledger'е.
type clusterClient struct {
	store     *memStore
	failNames map[string]bool

	mu      sync.Mutex
	cancels []sched.Handle
}

func (c *clusterClient) Submit(_ context.Context, req sched.Request) (sched.Handle, error) {
	st := domain.TaskStateSucceeded
	if c.failNames[req.Name] {
		st = domain.TaskStateFailed
	}

	go func() {
		ctx := context.Background()
		id := domain.TaskID(req.Name)
		// Ждём, пока отправитель запишет SUBMITTED, чтобы не
		// перезаписать терминальное состояние в обратную сторону.
		for {
			if rec, err := c.store.Get(ctx, "hic_test", id); err == nil && rec.State == domain.TaskStateSubmitted {
				break
			}
			time.Sleep(time.Millisecond)
		}
		_ = c.store.Record(ctx, state.TaskRecord{
			Group:  "hic_test",
			TaskID: id,
			Role:   domain.RoleDedupChild,
			State:  st,
		})
	}()

	return sched.Handle(req.Name), nil
}

func (c *clusterClient) Cancel(_ context.Context, h sched.Handle) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancels = append(c.cancels, h)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// --- DedupExecutor Tests ---

// dedupFixture готовит top-dir с размеченными партициями и chrom sizes.
func dedupFixture(t *testing.T, chroms map[string]string) (string, string) {
	t.Helper()
	topDir := t.TempDir()
	layout := config.NewLayout(topDir)
	if err := os.MkdirAll(layout.AlignedDir(), 0o755); err != nil {
		t.Fatal(err)
	}

	sizes := ""
	for name, content := range chroms {
		sizes += name + "\t1000000\n"
		if err := os.WriteFile(layout.DedupPartPath(name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	sizesPath := filepath.Join(topDir, "chrom.sizes")
	if err := os.WriteFile(sizesPath, []byte(sizes), 0o644); err != nil {
		t.Fatal(err)
	}
	return topDir, sizesPath
}

func TestDedupExecutor_Execute(t *testing.T) {
	topDir, sizesPath := dedupFixture(t, map[string]string{"chr1": "a\n", "chr2": "b\n"})
	store := newMemStore()
	client := &clusterClient{store: store}

	exec := &DedupExecutor{
		Store:          store,
		Client:         client,
		Logger:         testLogger(),
		Group:          "hic_test",
		TopDir:         topDir,
		SelfPath:       "/opt/bin/hicflow",
		ChromSizesPath: sizesPath,
		Queue:          "long",
		MemoryMB:       8192,
		PollInterval:   time.Millisecond,
	}

	if err := exec.Execute(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	layout := config.NewLayout(topDir)
	data, err := os.ReadFile(layout.DedupPath())
	if err != nil {
		t.Fatalf("concatenated output missing: %v", err)
	}
	if string(data) != "a\nb\n" {
		t.Errorf("output = %q, want %q", data, "a\nb\n")
	}

	// Партиции удалены после склейки.
	if _, err := os.Stat(layout.DedupPartPath("chr1")); !os.IsNotExist(err) {
		t.Error("partition file should be removed")
	}

	// Дети записаны в ledger под ролью DEDUP_CHILD.
	rec, err := store.Get(context.Background(), "hic_test", "hic_test_dedupchild_chr1")
	if err != nil {
		t.Fatalf("child record missing: %v", err)
	}
	if rec.State != domain.TaskStateSucceeded {
		t.Errorf("child state = %s, want SUCCEEDED", rec.State)
	}
}

func TestDedupExecutor_ChildFailure(t *testing.T) {
	topDir, sizesPath := dedupFixture(t, map[string]string{"chr1": "a\n", "chr2": "b\n"})
	store := newMemStore()
	client := &clusterClient{
		store:     store,
		failNames: map[string]bool{"hic_test_dedupchild_chr2": true},
	}

	exec := &DedupExecutor{
		Store:          store,
		Client:         client,
		Logger:         testLogger(),
		Group:          "hic_test",
		TopDir:         topDir,
		SelfPath:       "/opt/bin/hicflow",
		ChromSizesPath: sizesPath,
		Queue:          "long",
		PollInterval:   time.Millisecond,
	}

	err := exec.Execute(context.Background())
	if !errors.Is(err, ErrChildFailed) {
		t.Fatalf("expected ErrChildFailed, got %v", err)
	}

	// Итоговый файл не создаётся при провале партиции.
	if _, err := os.Stat(config.NewLayout(topDir).DedupPath()); !os.IsNotExist(err) {
		t.Error("output should not be created on partition failure")
	}
}

// --- ReconcileExecutor Tests ---

func TestReconcileExecutor_Success(t *testing.T) {
	topDir := t.TempDir()
	layout := config.NewLayout(topDir)
	if err := os.MkdirAll(layout.SplitsDir(), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(layout.SplitsDir(), "a_frag.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	store := newMemStore()
	ctx := context.Background()
	for _, id := range []domain.TaskID{"g_align101", "g_merge01"} {
		_ = store.Record(ctx, state.TaskRecord{Group: "g", TaskID: id, Role: domain.RoleAlign1, State: domain.TaskStateSucceeded})
	}
	// Собственная запись реконсайлера (RUNNING) не должна влиять.
	_ = store.Record(ctx, state.TaskRecord{Group: "g", TaskID: "g_reconcile01", Role: domain.RoleReconcile, State: domain.TaskStateRunning})

	client := &clusterClient{store: store}
	exec := &ReconcileExecutor{
		Store:  store,
		Client: client,
		Logger: testLogger(),
		Group:  "g",
		TopDir: topDir,
	}

	if err := exec.Execute(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Scratch удалён при успехе.
	if _, err := os.Stat(layout.SplitsDir()); !os.IsNotExist(err) {
		t.Error("scratch dir should be removed on success")
	}
}

func TestReconcileExecutor_Failure(t *testing.T) {
	topDir := t.TempDir()
	layout := config.NewLayout(topDir)
	if err := os.MkdirAll(layout.SplitsDir(), 0o755); err != nil {
		t.Fatal(err)
	}

	store := newMemStore()
	ctx := context.Background()
	_ = store.Record(ctx, state.TaskRecord{
		Group: "g", TaskID: "g_align101", Role: domain.RoleAlign1, State: domain.TaskStateSucceeded,
	})
	_ = store.Record(ctx, state.TaskRecord{
		Group: "g", TaskID: "g_fragsort01", Role: domain.RoleFragmentSort, State: domain.TaskStateFailed, ExitCode: 2,
	})
	// Задача, застрявшая в SUBMITTED: должна быть снята.
	_ = store.Record(ctx, state.TaskRecord{
		Group: "g", TaskID: "g_stats01", Role: domain.RoleStats, State: domain.TaskStateSubmitted, Handle: "4217",
	})

	client := &clusterClient{store: store}
	exec := &ReconcileExecutor{
		Store:  store,
		Client: client,
		Logger: testLogger(),
		Group:  "g",
		TopDir: topDir,
	}

	err := exec.Execute(ctx)
	var agg *AggregateError
	if !errors.As(err, &agg) {
		t.Fatalf("expected AggregateError, got %v", err)
	}

	// Первая упавшая роль — в порядке стадий графа.
	if agg.FirstRole != domain.RoleFragmentSort {
		t.Errorf("FirstRole = %s, want FRAGMENT_SORT", agg.FirstRole)
	}
	if agg.FirstTask != "g_fragsort01" {
		t.Errorf("FirstTask = %s", agg.FirstTask)
	}
	if agg.Failed != 2 {
		t.Errorf("Failed = %d, want 2", agg.Failed)
	}
	if agg.Cancelled != 1 {
		t.Errorf("Cancelled = %d, want 1", agg.Cancelled)
	}

	// Отставшая задача снята и записана CANCELLED.
	if len(client.cancels) != 1 || client.cancels[0] != "4217" {
		t.Errorf("cancels = %v, want [4217]", client.cancels)
	}
	rec, err := store.Get(ctx, "g", "g_stats01")
	if err != nil {
		t.Fatal(err)
	}
	if rec.State != domain.TaskStateCancelled {
		t.Errorf("straggler state = %s, want CANCELLED", rec.State)
	}

	// Scratch сохранён для разбора.
	if _, err := os.Stat(layout.SplitsDir()); err != nil {
		t.Error("scratch dir should be kept on failure")
	}
}
