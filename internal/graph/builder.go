package graph

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shaiso/hicflow/internal/domain"
	"github.com/shaiso/hicflow/internal/sched"
	"github.com/shaiso/hicflow/internal/state"
	"github.com/shaiso/hicflow/internal/telemetry"
)

// Builder создаёт задачи и отправляет их в планировщик.
//
// Кроме делегирования отправки, Builder не делает I/O: это чистая
// бухгалтерия узлов и рёбер. Идентификаторы генерируются с префиксом
// группы и по-ролевыми счётчиками, поэтому два построения графа из
// одинаковой конфигурации дают изоморфные графы.
type Builder struct {
	group    string
	topDir   string
	selfPath string

	client  sched.Client
	store   state.Store
	metrics *telemetry.Metrics
	logger  *slog.Logger

	tasks    map[domain.TaskID]*domain.Task
	order    []domain.TaskID
	counters map[domain.TaskRole]int
}

// Config — конфигурация Builder.
type Config struct {
	// Group — имя группы запуска (префикс идентификаторов).
	Group string

	// TopDir — корневая директория запуска (для обёртки команд).
	TopDir string

	// SelfPath — путь к бинарю hicflow на узлах кластера.
	SelfPath string

	// Client — клиент планировщика.
	Client sched.Client

	// Store — ledger состояний задач.
	Store state.Store

	// Metrics — счётчики отправки (опционально).
	Metrics *telemetry.Metrics

	// Logger — логгер.
	Logger *slog.Logger
}

// NewBuilder создаёт Builder.
func NewBuilder(cfg Config) *Builder {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	selfPath := cfg.SelfPath
	if selfPath == "" {
		selfPath = "hicflow"
	}
	return &Builder{
		group:    cfg.Group,
		topDir:   cfg.TopDir,
		selfPath: selfPath,
		client:   cfg.Client,
		store:    cfg.Store,
		metrics:  cfg.Metrics,
		logger:   logger,
		tasks:    make(map[domain.TaskID]*domain.Task),
		counters: make(map[domain.TaskRole]int),
	}
}

// AddTask создаёт задачу, регистрирует её в ledger'е и отправляет
// в планировщик.
//
// Возвращает GraphError, если какая-то из зависимостей неизвестна.
// Отклонение отправки НЕ ошибка AddTask: задача помечается FAILED
// (немедленный TaskFailure), граф продолжает строиться, а провал
// увидит реконсайлер.
func (b *Builder) AddTask(ctx context.Context, role domain.TaskRole, command string, res domain.Resources, deps []domain.TaskID) (*domain.Task, error) {
	for _, dep := range deps {
		if _, ok := b.tasks[dep]; !ok {
			return nil, NewGraphError(string(dep),
				fmt.Sprintf("%s depends on unknown task %s", role, dep), ErrUnknownDependency)
		}
	}

	task := &domain.Task{
		ID:        b.nextID(role),
		Role:      role,
		Command:   command,
		Resources: res,
		DependsOn: append([]domain.TaskID(nil), deps...),
		State:     domain.TaskStatePending,
		CreatedAt: time.Now(),
	}
	b.tasks[task.ID] = task
	b.order = append(b.order, task.ID)

	b.submit(ctx, task)
	return task, nil
}

// submit отправляет задачу и фиксирует исход в ledger'е.
func (b *Builder) submit(ctx context.Context, task *domain.Task) {
	depNames := make([]string, len(task.DependsOn))
	for i, dep := range task.DependsOn {
		depNames[i] = string(dep)
	}

	handle, err := b.client.Submit(ctx, sched.Request{
		Name:      string(task.ID),
		Command:   WrapCommand(b.selfPath, b.topDir, b.group, task.ID, task.Role, task.Command),
		Queue:     task.Resources.Queue,
		MemoryMB:  task.Resources.MemoryMB,
		DependsOn: depNames,
	})
	if err != nil {
		task.MarkFailed(err.Error())
		b.logger.Error("submission rejected", "task", task.ID, "error", err)
		if b.metrics != nil {
			b.metrics.SubmitFailures.WithLabelValues(string(task.Role)).Inc()
		}
		b.record(ctx, task)
		return
	}

	task.MarkSubmitted(string(handle))
	b.logger.Debug("task submitted",
		"task", task.ID,
		"role", task.Role,
		"queue", task.Resources.Queue,
		"deps", len(task.DependsOn),
	)
	if b.metrics != nil {
		b.metrics.TasksSubmitted.WithLabelValues(string(task.Role)).Inc()
	}
	b.record(ctx, task)
}

// record пишет текущее состояние задачи в ledger.
// Ошибка ledger'а не прерывает построение графа: авторитетный вердикт
// выносит реконсайлер, который заметит и отсутствие записи.
func (b *Builder) record(ctx context.Context, task *domain.Task) {
	err := b.store.Record(ctx, state.TaskRecord{
		Group:  b.group,
		TaskID: task.ID,
		Role:   task.Role,
		State:  task.State,
		Handle: task.Handle,
		Error:  task.Error,
	})
	if err != nil {
		b.logger.Warn("failed to record task state", "task", task.ID, "error", err)
	}
}

// nextID генерирует идентификатор задачи: <group>_<role><NN>.
func (b *Builder) nextID(role domain.TaskRole) domain.TaskID {
	b.counters[role]++
	return domain.TaskID(fmt.Sprintf("%s_%s%02d", b.group, role.Slug(), b.counters[role]))
}

// Get возвращает задачу по идентификатору.
func (b *Builder) Get(id domain.TaskID) *domain.Task {
	return b.tasks[id]
}

// Tasks возвращает задачи в порядке создания.
func (b *Builder) Tasks() []*domain.Task {
	tasks := make([]*domain.Task, len(b.order))
	for i, id := range b.order {
		tasks[i] = b.tasks[id]
	}
	return tasks
}

// Size возвращает количество задач.
func (b *Builder) Size() int {
	return len(b.tasks)
}

// Leaves возвращает задачи, от которых никто не зависит,
// в порядке создания.
func (b *Builder) Leaves() []domain.TaskID {
	hasDependent := make(map[domain.TaskID]bool)
	for _, task := range b.tasks {
		for _, dep := range task.DependsOn {
			hasDependent[dep] = true
		}
	}

	var leaves []domain.TaskID
	for _, id := range b.order {
		if !hasDependent[id] {
			leaves = append(leaves, id)
		}
	}
	return leaves
}

// Verify выполняет топологическую сортировку (алгоритм Кана) как
// структурную самопроверку графа. По построению циклы невозможны;
// ошибка здесь означает дефект строителя стадий.
func (b *Builder) Verify() error {
	inDegree := make(map[domain.TaskID]int, len(b.tasks))
	dependents := make(map[domain.TaskID][]domain.TaskID, len(b.tasks))
	for id, task := range b.tasks {
		inDegree[id] = len(task.DependsOn)
		for _, dep := range task.DependsOn {
			dependents[dep] = append(dependents[dep], id)
		}
	}

	var queue []domain.TaskID
	for _, id := range b.order {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	visited := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		visited++

		for _, dep := range dependents[id] {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}

	if visited != len(b.tasks) {
		return ErrCyclicDependency
	}
	return nil
}
