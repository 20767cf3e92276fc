package sched

import "context"

// Handle — идентификатор задачи на стороне планировщика.
type Handle string

// Request — заявка на постановку задачи.
type Request struct {
	// Name — имя задачи на планировщике (равно domain.TaskID).
	Name string

	// Command — командная строка.
	Command string

	// Queue — очередь планировщика.
	Queue string

	// MemoryMB — запрошенная память.
	MemoryMB int

	// DependsOn — имена задач, завершения которых нужно дождаться.
	// Семантика: любое терминальное состояние, не обязательно успех.
	DependsOn []string
}

// Client — клиент внешнего batch-планировщика.
type Client interface {
	// Submit ставит задачу и возвращает handle.
	Submit(ctx context.Context, req Request) (Handle, error)

	// Cancel best-effort снимает задачу.
	Cancel(ctx context.Context, h Handle) error
}
