package graph

import "errors"

// Ошибки построения графа.
var (
	// ErrUnknownDependency — зависимость ссылается на несозданную задачу.
	ErrUnknownDependency = errors.New("dependency references unknown task")

	// ErrCyclicDependency — обнаружен цикл (защитная проверка: по
	// построению Builder циклы невозможны).
	ErrCyclicDependency = errors.New("cyclic dependency detected")
)

// GraphError — ошибка построения графа с контекстом.
type GraphError struct {
	TaskID  string // идентификатор задачи, где произошла ошибка
	Message string // описание ошибки
	Err     error  // базовая ошибка
}

// Error реализует интерфейс error.
func (e *GraphError) Error() string {
	if e.TaskID != "" {
		return "task " + e.TaskID + ": " + e.Message
	}
	return e.Message
}

// Unwrap возвращает базовую ошибку.
func (e *GraphError) Unwrap() error {
	return e.Err
}

// NewGraphError создаёт GraphError.
func NewGraphError(taskID, message string, err error) *GraphError {
	return &GraphError{TaskID: taskID, Message: message, Err: err}
}
