package worker

import (
	"errors"
	"fmt"

	"github.com/shaiso/hicflow/internal/domain"
)

// ErrChildFailed — провалилась дочерняя задача дедупликации.
var ErrChildFailed = errors.New("dedup child task failed")

// AggregateError — итоговый вердикт реконсайлера при провале запуска.
type AggregateError struct {
	// FirstRole — роль первой (в порядке стадий графа) упавшей задачи.
	FirstRole domain.TaskRole

	// FirstTask — идентификатор этой задачи.
	FirstTask domain.TaskID

	// Failed — количество неуспешных задач.
	Failed int

	// Cancelled — количество снятых реконсайлером задач.
	Cancelled int
}

// Error реализует интерфейс error.
func (e *AggregateError) Error() string {
	return fmt.Sprintf("run failed: first failure at %s (task %s), %d task(s) failed, %d cancelled",
		e.FirstRole, e.FirstTask, e.Failed, e.Cancelled)
}
