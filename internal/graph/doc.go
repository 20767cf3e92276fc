// Package graph строит DAG задач и отправляет его в планировщик.
//
// Builder — единственная точка создания задач: AddTask проверяет,
// что все зависимости уже созданы (граф ацикличен по построению),
// генерирует уникальный в пределах группы идентификатор, оборачивает
// команду записью состояний в ledger и делегирует отправку
// SchedulerClient. Накапливаемый набор «hold jobs» между строителями
// стадий передаётся как типизированные идентификаторы задач, а не
// как внешнее изменяемое состояние.
package graph
