package domain

import "time"

// TaskID — уникальный в пределах запуска идентификатор задачи.
// Имя группы запуска служит префиксом-неймспейсом, что позволяет
// нескольким запускам сосуществовать на одном планировщике.
type TaskID string

// Resources — ресурсный класс задачи.
type Resources struct {
	// Queue — очередь планировщика: короткая интерактивная для
	// fan-out/report узлов, долгая — для merge/dedup.
	Queue string `json:"queue"`

	// MemoryMB — запрошенная память в мегабайтах.
	MemoryMB int `json:"memory_mb"`
}

// Task — единица работы, отправляемая во внешний batch-планировщик.
//
// Task создаётся строителем графа (graph.Builder) и немедленно
// отправляется через SchedulerClient. Граф ацикличен по построению:
// DependsOn может ссылаться только на уже созданные задачи.
type Task struct {
	// ID — уникальный идентификатор задачи (с префиксом группы).
	ID TaskID `json:"id"`

	// Role — роль задачи в графе.
	Role TaskRole `json:"role"`

	// Command — командная строка внешней программы.
	// Контракт: код выхода 0 — успех, ненулевой — провал.
	Command string `json:"command"`

	// Resources — очередь и память.
	Resources Resources `json:"resources"`

	// DependsOn — идентификаторы задач-зависимостей.
	// Семантика планировщика: «не начинать, пока каждая зависимость
	// не достигла какого-либо терминального состояния».
	DependsOn []TaskID `json:"depends_on,omitempty"`

	// State — текущее состояние задачи.
	State TaskState `json:"state"`

	// Handle — идентификатор задачи на стороне планировщика.
	Handle string `json:"handle,omitempty"`

	// Error — текст ошибки при провале отправки или выполнения.
	Error string `json:"error,omitempty"`

	// CreatedAt — время создания задачи строителем графа.
	CreatedAt time.Time `json:"created_at"`
}

// DependsOnID проверяет, есть ли id среди зависимостей задачи.
func (t *Task) DependsOnID(id TaskID) bool {
	for _, dep := range t.DependsOn {
		if dep == id {
			return true
		}
	}
	return false
}

// MarkSubmitted переводит задачу в SUBMITTED с handle планировщика.
func (t *Task) MarkSubmitted(handle string) {
	t.State = TaskStateSubmitted
	t.Handle = handle
}

// MarkFailed переводит задачу в FAILED с текстом ошибки.
// Используется в том числе при отклонении самой отправки:
// SchedulerError трактуется как немедленный TaskFailure узла.
func (t *Task) MarkFailed(errMsg string) {
	t.State = TaskStateFailed
	t.Error = errMsg
}
