package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shaiso/hicflow/internal/domain"
	"github.com/shaiso/hicflow/internal/mq"
	"github.com/shaiso/hicflow/internal/state"
)

// EventMirror зеркалирует события планировщика из очереди в ledger.
//
// Основной канал записи состояний — обёртка команд (каждая задача
// сама пишет RUNNING/SUCCEEDED/FAILED), но мост к планировщику может
// дополнительно публиковать события task.event: снятия оператором,
// вытеснения, падения узлов. Зеркало переносит их в ledger, чтобы
// реконсайлер и DedupSpawner видели и такие исходы.
type EventMirror struct {
	// Store — ledger состояний задач.
	Store state.Store

	// Logger — логгер.
	Logger *slog.Logger
}

// NewEventConsumer собирает Consumer очереди событий с обработчиком
// зеркала. Запуск — Consumer.Start в отдельной горутине.
func NewEventConsumer(conn *mq.Connection, logger *slog.Logger, store state.Store) *mq.Consumer {
	mirror := &EventMirror{Store: store, Logger: logger}
	return mq.NewConsumer(conn, logger, mq.ConsumerConfig{
		Queue:   mq.QueueEvents,
		Handler: mirror.Handle,
	})
}

// Handle переносит одно событие task.event в ledger.
//
// Переход «назад» (событие о RUNNING поверх уже терминальной записи)
// игнорируется: обёртка команды узнаёт исход раньше моста.
func (m *EventMirror) Handle(ctx context.Context, msg *mq.Message) error {
	if msg.Type != mq.MessageTypeTaskEvent {
		m.Logger.Debug("ignoring message of unexpected type", "type", msg.Type)
		return nil
	}

	ev, err := mq.ParsePayload[mq.TaskEventPayload](msg)
	if err != nil {
		return err
	}

	st := domain.TaskState(ev.State)
	if !validEventState(st) {
		return fmt.Errorf("unknown task state %q in event for %s", ev.State, ev.TaskID)
	}

	rec := state.TaskRecord{
		Group:    ev.Group,
		TaskID:   domain.TaskID(ev.TaskID),
		State:    st,
		ExitCode: ev.ExitCode,
		Error:    ev.Error,
	}

	prev, err := m.Store.Get(ctx, ev.Group, rec.TaskID)
	switch {
	case err == nil:
		if prev.State.IsTerminal() && !st.IsTerminal() {
			m.Logger.Debug("stale event, keeping terminal state",
				"task", rec.TaskID, "recorded", prev.State, "event", st)
			return nil
		}
		rec.Role = prev.Role
		rec.Handle = prev.Handle
	case errors.Is(err, state.ErrNotFound):
		// Событие о неизвестной задаче: записываем как есть.
	default:
		return fmt.Errorf("lookup task %s: %w", rec.TaskID, err)
	}

	if err := m.Store.Record(ctx, rec); err != nil {
		return fmt.Errorf("mirror event for %s: %w", rec.TaskID, err)
	}

	m.Logger.Debug("mirrored task event", "task", rec.TaskID, "state", st)
	return nil
}

// validEventState проверяет, что состояние из события известно.
func validEventState(s domain.TaskState) bool {
	switch s {
	case domain.TaskStatePending, domain.TaskStateSubmitted, domain.TaskStateRunning,
		domain.TaskStateSucceeded, domain.TaskStateFailed, domain.TaskStateCancelled:
		return true
	default:
		return false
	}
}
