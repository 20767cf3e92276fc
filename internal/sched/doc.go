// Package sched абстрагирует внешний batch-планировщик.
//
// Контракт Submit: «не начинать задачу, пока каждая из DependsOn не
// достигла какого-либо терминального состояния» — завершения, а не
// успеха. Cancel — best-effort снятие ожидающей/выполняющейся задачи.
// Отклонение самой отправки трактуется вызывающим кодом как
// немедленный TaskFailure узла.
//
// Реализации:
//   - lsf.go   — шелл-аут к CLI планировщика LSF-типа (bsub/bkill)
//   - amqp.go  — публикация заявок в очередь моста к планировщику
//   - retry.go — декоратор с экспоненциальным повтором отправки
package sched
