package domain

// TaskState — состояние задачи в batch-планировщике.
//
// Жизненный цикл:
//
//	PENDING → SUBMITTED → RUNNING → SUCCEEDED
//	                              ↘ FAILED
//	          (или) → CANCELLED (из любого нетерминального состояния)
//
// Важно: dependency gate планировщика срабатывает на ЛЮБОМ терминальном
// состоянии зависимости, а не только на SUCCEEDED. Успех предков
// проверяет FailureReconciler и guard'ы в командах сходящихся узлов.
type TaskState string

const (
	// TaskStatePending — задача создана, но ещё не отправлена.
	TaskStatePending TaskState = "PENDING"

	// TaskStateSubmitted — задача принята планировщиком, ждёт запуска.
	TaskStateSubmitted TaskState = "SUBMITTED"

	// TaskStateRunning — задача выполняется на узле кластера.
	TaskStateRunning TaskState = "RUNNING"

	// TaskStateSucceeded — задача завершилась с кодом 0.
	TaskStateSucceeded TaskState = "SUCCEEDED"

	// TaskStateFailed — задача завершилась с ненулевым кодом
	// (или её отправка была отклонена планировщиком).
	TaskStateFailed TaskState = "FAILED"

	// TaskStateCancelled — задача снята (best-effort) реконсайлером.
	TaskStateCancelled TaskState = "CANCELLED"
)

// IsTerminal возвращает true, если состояние финальное.
func (s TaskState) IsTerminal() bool {
	switch s {
	case TaskStateSucceeded, TaskStateFailed, TaskStateCancelled:
		return true
	default:
		return false
	}
}
