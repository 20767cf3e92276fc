package telemetry

import (
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Metrics — счётчики отправки задач одного запуска.
//
// Оркестратор — короткоживущий batch-процесс: scrape-endpoint держать
// негде, поэтому метрики пушатся в Pushgateway (METRICS_PUSH_URL),
// если он настроен.
type Metrics struct {
	registry *prometheus.Registry

	// TasksSubmitted — отправленные задачи по ролям.
	TasksSubmitted *prometheus.CounterVec

	// SubmitFailures — отклонённые планировщиком отправки по ролям.
	SubmitFailures *prometheus.CounterVec

	// TasksCancelled — задачи, снятые реконсайлером.
	TasksCancelled prometheus.Counter
}

// NewMetrics создаёт и регистрирует счётчики в собственном registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		TasksSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hicflow",
			Name:      "tasks_submitted_total",
			Help:      "Tasks submitted to the batch scheduler.",
		}, []string{"role"}),
		SubmitFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hicflow",
			Name:      "submit_failures_total",
			Help:      "Task submissions rejected by the batch scheduler.",
		}, []string{"role"}),
		TasksCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hicflow",
			Name:      "tasks_cancelled_total",
			Help:      "Tasks cancelled by the reconciler.",
		}),
	}

	registry.MustRegister(m.TasksSubmitted, m.SubmitFailures, m.TasksCancelled)
	return m
}

// Push отправляет счётчики в Pushgateway, если задан METRICS_PUSH_URL.
// Недоступность шлюза не фатальна: метрики — вспомогательный сигнал.
func (m *Metrics) Push(group string, logger *slog.Logger) {
	url := os.Getenv("METRICS_PUSH_URL")
	if url == "" {
		return
	}

	err := push.New(url, "hicflow").
		Gatherer(m.registry).
		Grouping("group", group).
		Push()
	if err != nil {
		logger.Warn("failed to push metrics", "url", url, "error", err)
		return
	}
	logger.Debug("pushed metrics", "url", url, "group", group)
}
