package state

import (
	"context"
	"errors"
	"time"

	"github.com/shaiso/hicflow/internal/domain"
)

// ErrNotFound — запись о задаче отсутствует в ledger'е.
var ErrNotFound = errors.New("task record not found")

// TaskRecord — запись ledger'а об одной задаче.
type TaskRecord struct {
	// Group — имя группы запуска.
	Group string `json:"group"`

	// TaskID — идентификатор задачи.
	TaskID domain.TaskID `json:"task_id"`

	// Role — роль задачи в графе.
	Role domain.TaskRole `json:"role"`

	// State — последнее известное состояние.
	State domain.TaskState `json:"state"`

	// ExitCode — код выхода команды (для терминальных состояний).
	ExitCode int `json:"exit_code,omitempty"`

	// Handle — идентификатор задачи на планировщике (для Cancel).
	Handle string `json:"handle,omitempty"`

	// Error — текст ошибки.
	Error string `json:"error,omitempty"`

	// UpdatedAt — время последнего обновления записи.
	UpdatedAt time.Time `json:"updated_at"`
}

// Store — ledger состояний задач одного или нескольких запусков.
type Store interface {
	// Record записывает (или перезаписывает) состояние задачи.
	Record(ctx context.Context, rec TaskRecord) error

	// Get возвращает запись задачи или ErrNotFound.
	Get(ctx context.Context, group string, id domain.TaskID) (*TaskRecord, error)

	// List возвращает все записи группы.
	List(ctx context.Context, group string) ([]TaskRecord, error)
}
