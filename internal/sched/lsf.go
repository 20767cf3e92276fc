package sched

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

// LSFClient отправляет задачи через CLI планировщика LSF-типа.
//
// bsub печатает «Job <12345> is submitted to queue <short>»; номер
// job'а становится handle для bkill.
type LSFClient struct {
	bsubPath  string
	bkillPath string
	logger    *slog.Logger
}

// NewLSFClient создаёт LSFClient с путями bsub/bkill.
// Пустые пути заменяются на имена команд из PATH.
func NewLSFClient(bsubPath, bkillPath string, logger *slog.Logger) *LSFClient {
	if bsubPath == "" {
		bsubPath = "bsub"
	}
	if bkillPath == "" {
		bkillPath = "bkill"
	}
	return &LSFClient{bsubPath: bsubPath, bkillPath: bkillPath, logger: logger}
}

// jobIDPattern — формат подтверждения bsub.
var jobIDPattern = regexp.MustCompile(`Job <(\d+)>`)

// Submit ставит задачу через bsub.
func (c *LSFClient) Submit(ctx context.Context, req Request) (Handle, error) {
	args := buildBsubArgs(req)

	cmd := exec.CommandContext(ctx, c.bsubPath, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("bsub %s: %w: %s", req.Name, err, strings.TrimSpace(string(out)))
	}

	handle, err := parseJobID(string(out))
	if err != nil {
		return "", fmt.Errorf("bsub %s: %w", req.Name, err)
	}

	c.logger.Debug("submitted task", "name", req.Name, "handle", handle, "queue", req.Queue)
	return handle, nil
}

// Cancel снимает задачу через bkill. Ошибки bkill не фатальны для
// вызывающего кода: снятие best-effort.
func (c *LSFClient) Cancel(ctx context.Context, h Handle) error {
	cmd := exec.CommandContext(ctx, c.bkillPath, string(h))
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("bkill %s: %w: %s", h, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// buildBsubArgs собирает аргументы bsub для заявки.
func buildBsubArgs(req Request) []string {
	args := []string{"-q", req.Queue, "-J", req.Name}
	if req.MemoryMB > 0 {
		args = append(args, "-M", strconv.Itoa(req.MemoryMB))
	}
	if cond := dependencyExpr(req.DependsOn); cond != "" {
		args = append(args, "-w", cond)
	}
	args = append(args, req.Command)
	return args
}

// dependencyExpr строит выражение зависимости bsub.
// ended(...) срабатывает на любом терминальном состоянии, что и
// требуется контрактом Submit.
func dependencyExpr(deps []string) string {
	if len(deps) == 0 {
		return ""
	}
	terms := make([]string, len(deps))
	for i, dep := range deps {
		terms[i] = fmt.Sprintf("ended(%q)", dep)
	}
	return strings.Join(terms, " && ")
}

// parseJobID извлекает номер job'а из вывода bsub.
func parseJobID(out string) (Handle, error) {
	m := jobIDPattern.FindStringSubmatch(out)
	if m == nil {
		return "", fmt.Errorf("unexpected bsub output: %s", strings.TrimSpace(out))
	}
	return Handle(m[1]), nil
}
