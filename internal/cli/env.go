package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/shaiso/hicflow/internal/mq"
	"github.com/shaiso/hicflow/internal/sched"
)

// newSchedClient выбирает клиент планировщика из окружения.
//
// RABBITMQ_URL задан — заявки публикуются в очередь моста; иначе
// шелл-аут bsub/bkill. В обоих случаях Submit обёрнут повтором.
// Возвращаемое соединение nil для LSF-пути; ненулевое соединение
// закрывает вызывающий код.
func newSchedClient(ctx context.Context, group string, logger *slog.Logger) (sched.Client, *mq.Connection, error) {
	url := os.Getenv("RABBITMQ_URL")
	if url == "" {
		return sched.NewRetryClient(sched.NewLSFClient("", "", logger), 0), nil, nil
	}

	conn, err := mq.NewConnection(url, logger)
	if err != nil {
		return nil, nil, err
	}
	if err := mq.SetupTopology(ctx, conn); err != nil {
		conn.Close()
		return nil, nil, err
	}

	pub := mq.NewPublisher(conn, logger)
	return sched.NewRetryClient(sched.NewAMQPClient(pub, group), 0), conn, nil
}

// selfPath возвращает путь к текущему бинарю для команд задач.
// Бинарь обязан лежать по одному пути на всех узлах кластера
// (общая файловая система).
func selfPath() string {
	path, err := os.Executable()
	if err != nil {
		return "hicflow"
	}
	return path
}
