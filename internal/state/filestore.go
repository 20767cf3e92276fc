package state

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/shaiso/hicflow/internal/domain"
)

// FileStore — ledger на файловой системе: одна JSON-запись на задачу
// в директории <top>/.status. Атомарность одной записи обеспечивается
// записью во временный файл и rename.
//
// FileStore разделяется процессами на узлах кластера через общую
// файловую систему; межпроцессных блокировок нет — каждую запись
// пишет ровно один владелец (обёртка команды задачи).
type FileStore struct {
	dir string
}

// NewFileStore создаёт FileStore в директории dir (создавая её).
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create status dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Record записывает состояние задачи.
func (s *FileStore) Record(_ context.Context, rec TaskRecord) error {
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	path := s.recordPath(rec.TaskID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename record: %w", err)
	}
	return nil
}

// Get возвращает запись задачи или ErrNotFound.
func (s *FileStore) Get(_ context.Context, _ string, id domain.TaskID) (*TaskRecord, error) {
	data, err := os.ReadFile(s.recordPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read record: %w", err)
	}

	var rec TaskRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal record %s: %w", id, err)
	}
	return &rec, nil
}

// List возвращает все записи группы, отсортированные по id.
func (s *FileStore) List(_ context.Context, group string) ([]TaskRecord, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read status dir: %w", err)
	}

	var recs []TaskRecord
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read record %s: %w", e.Name(), err)
		}
		var rec TaskRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("unmarshal record %s: %w", e.Name(), err)
		}
		if group != "" && rec.Group != group {
			continue
		}
		recs = append(recs, rec)
	}

	sort.Slice(recs, func(i, j int) bool { return recs[i].TaskID < recs[j].TaskID })
	return recs, nil
}

// recordPath — путь JSON-файла записи задачи.
func (s *FileStore) recordPath(id domain.TaskID) string {
	return filepath.Join(s.dir, string(id)+".json")
}
