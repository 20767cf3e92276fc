// Package mq предоставляет AMQP-транспорт для взаимодействия с
// внешним batch-планировщиком через RabbitMQ.
//
// Структура:
//   - connection.go — соединение с RabbitMQ (reconnect, graceful shutdown)
//   - topology.go   — объявление exchange, очередей, bindings
//   - publisher.go  — публикация заявок на отправку/снятие задач
//   - consumer.go   — потребление событий о состояниях задач
//
// Типы сообщений:
//   - submission.requested — заявка на постановку задачи
//   - submission.cancelled — заявка на снятие задачи
//   - task.event           — событие изменения состояния задачи
//
// Мост к планировщику (внешний компонент) потребляет заявки и
// публикует события; оркестратор использует события как ускоритель
// поверх опроса ledger'а.
package mq
