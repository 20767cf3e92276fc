package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/shaiso/hicflow/internal/config"
	"github.com/shaiso/hicflow/internal/domain"
	"github.com/shaiso/hicflow/internal/genome"
	"github.com/shaiso/hicflow/internal/graph"
	"github.com/shaiso/hicflow/internal/pipeline"
	"github.com/shaiso/hicflow/internal/sched"
	"github.com/shaiso/hicflow/internal/state"
)

// defaultPollInterval — период опроса ledger'а при ожидании детей.
const defaultPollInterval = 15 * time.Second

// DedupExecutor — тело узла DedupSpawner.
//
// Выполняется на узле кластера как обычная задача, но сам отправляет
// дочерние задачи (по одной на хромосому) и блокируется до их
// терминальных состояний. Ожидание — опрос ledger'а: дочерние команды
// обёрнуты той же записью состояний, что и задачи верхнего графа.
type DedupExecutor struct {
	// Store — ledger состояний задач.
	Store state.Store

	// Client — клиент планировщика для дочерних задач.
	Client sched.Client

	// Logger — логгер.
	Logger *slog.Logger

	// Group — имя группы запуска.
	Group string

	// TopDir — корневая директория запуска.
	TopDir string

	// SelfPath — путь к бинарю hicflow на узлах кластера.
	SelfPath string

	// ChromSizesPath — файл размеров хромосом для партиционирования.
	ChromSizesPath string

	// Queue — очередь дочерних задач.
	Queue string

	// MemoryMB — память дочерних задач.
	MemoryMB int

	// PollInterval — период опроса ledger'а (0 — по умолчанию).
	PollInterval time.Duration
}

// Execute партиционирует дедупликацию, отправляет детей и ждёт их.
//
// Успех — все дети SUCCEEDED и партиции склеены в итоговый файл;
// любой другой исход — ошибка, которая станет ненулевым кодом выхода
// узла DedupSpawner.
func (e *DedupExecutor) Execute(ctx context.Context) error {
	layout := config.NewLayout(e.TopDir)

	chroms, err := genome.LoadChromSizes(e.ChromSizesPath)
	if err != nil {
		return fmt.Errorf("partition dedup work: %w", err)
	}

	children := make(map[domain.TaskID]string, len(chroms))
	var failed []domain.TaskID

	for _, chrom := range chroms {
		id := domain.TaskID(fmt.Sprintf("%s_%s_%s", e.Group, domain.RoleDedupChild.Slug(), chrom.Name))
		payload := pipeline.DedupChildCommand(layout, chrom.Name)
		command := graph.WrapCommand(e.SelfPath, e.TopDir, e.Group, id, domain.RoleDedupChild, payload)

		handle, err := e.Client.Submit(ctx, sched.Request{
			Name:     string(id),
			Command:  command,
			Queue:    e.Queue,
			MemoryMB: e.MemoryMB,
		})
		if err != nil {
			// Отклонённая отправка — немедленный провал ребёнка.
			e.Logger.Error("child submission rejected", "task", id, "error", err)
			e.recordChild(ctx, id, domain.TaskStateFailed, err.Error(), "")
			failed = append(failed, id)
			continue
		}

		e.recordChild(ctx, id, domain.TaskStateSubmitted, "", string(handle))
		children[id] = chrom.Name
	}

	e.Logger.Info("dedup children submitted", "children", len(children), "rejected", len(failed))

	failedAwait, err := e.await(ctx, children)
	if err != nil {
		return err
	}
	failed = append(failed, failedAwait...)

	if len(failed) > 0 {
		return fmt.Errorf("%w: %d of %d partitions (first: %s)",
			ErrChildFailed, len(failed), len(chroms), failed[0])
	}

	return e.concatenate(ctx, layout, chroms)
}

// recordChild пишет состояние дочерней задачи в ledger.
func (e *DedupExecutor) recordChild(ctx context.Context, id domain.TaskID, st domain.TaskState, errMsg, handle string) {
	err := e.Store.Record(ctx, state.TaskRecord{
		Group:  e.Group,
		TaskID: id,
		Role:   domain.RoleDedupChild,
		State:  st,
		Error:  errMsg,
		Handle: handle,
	})
	if err != nil {
		e.Logger.Warn("failed to record child state", "task", id, "error", err)
	}
}

// await опрашивает ledger до терминальных состояний всех детей.
// Возвращает идентификаторы неуспешных детей.
func (e *DedupExecutor) await(ctx context.Context, children map[domain.TaskID]string) ([]domain.TaskID, error) {
	interval := e.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}

	pending := make(map[domain.TaskID]bool, len(children))
	for id := range children {
		pending[id] = true
	}

	var failed []domain.TaskID
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for len(pending) > 0 {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("await dedup children: %w", ctx.Err())
		case <-ticker.C:
		}

		for id := range pending {
			rec, err := e.Store.Get(ctx, e.Group, id)
			if err != nil {
				if errors.Is(err, state.ErrNotFound) {
					continue
				}
				return nil, fmt.Errorf("await dedup children: %w", err)
			}
			if !rec.State.IsTerminal() {
				continue
			}

			delete(pending, id)
			if rec.State != domain.TaskStateSucceeded {
				e.Logger.Warn("dedup child failed",
					"task", id, "state", rec.State, "exit_code", rec.ExitCode)
				failed = append(failed, id)
			}
		}
	}

	return failed, nil
}

// concatenate склеивает выходы партиций в итоговый файл пар.
func (e *DedupExecutor) concatenate(ctx context.Context, layout config.Layout, chroms []genome.Chromosome) error {
	parts := make([]string, len(chroms))
	for i, chrom := range chroms {
		parts[i] = layout.DedupPartPath(chrom.Name)
	}

	script := fmt.Sprintf("cat %s > %s && rm -f %s",
		strings.Join(parts, " "), layout.DedupPath(), strings.Join(parts, " "))

	cmd := exec.CommandContext(ctx, "/bin/sh", "-c", script)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("concatenate dedup partitions: %w: %s", err, strings.TrimSpace(string(out)))
	}

	e.Logger.Info("dedup complete", "partitions", len(chroms), "out", layout.DedupPath())
	return nil
}
