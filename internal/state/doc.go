// Package state реализует ledger состояний задач.
//
// Dependency gate планировщика срабатывает на завершении, а не на
// успехе, поэтому факт успеха каждой задачи должен быть записан
// явно. Каждая задача при отправке регистрируется как SUBMITTED, а
// обёртка её команды записывает RUNNING и терминальное состояние с
// кодом выхода. Реконсайлер и dedup-spawner читают ledger, чтобы
// авторитетно судить об успехе предков.
//
// Бэкенды:
//   - filestore.go — JSON-запись на задачу в <top>/.status (по умолчанию)
//   - pgstore.go   — таблица в Postgres (DB_URL), для общих инсталляций,
//     где ledger нескольких запусков должен быть виден централизованно
package state
