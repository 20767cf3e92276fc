// Package worker выполняет узлы, которые бинарь hicflow исполняет
// сам на узлах кластера.
//
// Два исполнителя:
//   - DedupExecutor — тело узла DedupSpawner: партиционирует
//     дедупликацию по хромосомам, отправляет дочерние задачи через
//     SchedulerClient и блокируется до их терминальных состояний —
//     вложенный под-граф, снаружи видимый как один узел;
//   - ReconcileExecutor — тело терминального узла: сверяет ledger
//     всех предков (gate планировщика не доказывает успех), снимает
//     отставшие задачи, чистит scratch при успехе и выносит итоговый
//     вердикт запуска.
//
// Дополнительно EventMirror зеркалирует события task.event из очереди
// RabbitMQ в ledger — для исходов, которые обёртка команды увидеть не
// может (снятие оператором, падение узла).
package worker
