package state

import (
	"context"
	"os"
)

// Open выбирает бэкенд ledger'а: Postgres при заданном DB_URL,
// иначе файловый ledger в statusDir. Один и тот же выбор делают
// все команды бинаря (run, record, dedup, reconcile), поэтому
// процессы на разных узлах кластера видят общий ledger.
func Open(ctx context.Context, statusDir string) (Store, error) {
	if dsn := os.Getenv("DB_URL"); dsn != "" {
		pool, err := NewPool(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return NewPgStore(ctx, pool)
	}
	return NewFileStore(statusDir)
}
