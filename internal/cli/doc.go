// Package cli реализует команды бинаря hicflow.
//
// # Обзор
//
// Один бинарь играет три роли:
//   - команда run — оркестратор: строит DAG запуска и отправляет все
//     задачи планировщику за один проход, после чего завершается;
//   - команды dedup и reconcile — тела порождающего и терминального
//     узлов: их вызывает сам граф на узлах кластера;
//   - команда record — запись состояния задачи в ledger; её вызывает
//     обёртка каждой команды (graph.WrapCommand).
//
// Служебные команды (dedup, reconcile, record) скрыты из помощи:
// их аргументы — контракт графа, а не интерфейс оператора.
//
// # Выбор планировщика и ledger'а
//
// Все команды делают одинаковый выбор бэкендов из окружения, поэтому
// процессы на разных узлах кластера видят общие планировщик и ledger:
//   - RABBITMQ_URL — заявки через мост на RabbitMQ, иначе bsub/bkill;
//   - DB_URL — ledger в Postgres, иначе файлы в <top-dir>/.status.
package cli
