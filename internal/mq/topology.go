package mq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange — тип для имени обменника.
type Exchange string

// Queue — тип для имени очереди.
type Queue string

// RoutingKey — тип для ключа маршрутизации.
type RoutingKey string

// Имена обменников.
const (
	ExchangeSched Exchange = "hicflow.sched"
)

// Имена очередей.
const (
	// QueueSubmissions — заявки на постановку задач; потребляет мост
	// к планировщику.
	QueueSubmissions Queue = "sched.submissions"

	// QueueCancels — заявки на снятие задач.
	QueueCancels Queue = "sched.cancels"

	// QueueEvents — события изменения состояний задач; потребляет
	// оркестратор (dedup-spawner во время ожидания детей).
	QueueEvents Queue = "sched.events"
)

// Ключи маршрутизации.
const (
	RoutingKeySubmit RoutingKey = "submit"
	RoutingKeyCancel RoutingKey = "cancel"
	RoutingKeyEvent  RoutingKey = "event"
)

// SetupTopology объявляет exchange, очереди и bindings.
// Идемпотентно: повторное объявление с теми же параметрами безопасно.
func SetupTopology(ctx context.Context, conn *Connection) error {
	return conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.ExchangeDeclare(
			string(ExchangeSched), // name
			"direct",              // type
			true,                  // durable
			false,                 // auto-deleted
			false,                 // internal
			false,                 // no-wait
			nil,                   // arguments
		)
		if err != nil {
			return fmt.Errorf("declare exchange %s: %w", ExchangeSched, err)
		}

		bindings := []struct {
			queue      Queue
			routingKey RoutingKey
		}{
			{QueueSubmissions, RoutingKeySubmit},
			{QueueCancels, RoutingKeyCancel},
			{QueueEvents, RoutingKeyEvent},
		}

		for _, b := range bindings {
			if _, err := ch.QueueDeclare(
				string(b.queue), // name
				true,            // durable
				false,           // delete when unused
				false,           // exclusive
				false,           // no-wait
				nil,             // arguments
			); err != nil {
				return fmt.Errorf("declare queue %s: %w", b.queue, err)
			}

			if err := ch.QueueBind(
				string(b.queue),      // queue name
				string(b.routingKey), // routing key
				string(ExchangeSched),
				false, // no-wait
				nil,   // arguments
			); err != nil {
				return fmt.Errorf("bind queue %s: %w", b.queue, err)
			}
		}

		return nil
	})
}
