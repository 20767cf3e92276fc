package sched

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// defaultMaxElapsed — предел суммарного времени повторов отправки.
const defaultMaxElapsed = 2 * time.Minute

// RetryClient повторяет Submit с экспоненциальной задержкой.
//
// Отправка — сетевой вызов (или шелл-аут) к внешнему планировщику и
// может падать транзиентно; после исчерпания повторов ошибка уходит
// вызывающему коду и превращается в TaskFailure узла. Cancel не
// повторяется: снятие best-effort.
type RetryClient struct {
	next       Client
	maxElapsed time.Duration
}

// NewRetryClient оборачивает Client повтором отправки.
func NewRetryClient(next Client, maxElapsed time.Duration) *RetryClient {
	if maxElapsed <= 0 {
		maxElapsed = defaultMaxElapsed
	}
	return &RetryClient{next: next, maxElapsed: maxElapsed}
}

// Submit повторяет отправку до успеха или исчерпания времени.
func (c *RetryClient) Submit(ctx context.Context, req Request) (Handle, error) {
	var handle Handle

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = c.maxElapsed

	err := backoff.Retry(func() error {
		h, err := c.next.Submit(ctx, req)
		if err != nil {
			return err
		}
		handle = h
		return nil
	}, backoff.WithContext(b, ctx))

	if err != nil {
		return "", err
	}
	return handle, nil
}

// Cancel передаётся без повторов.
func (c *RetryClient) Cancel(ctx context.Context, h Handle) error {
	return c.next.Cancel(ctx, h)
}
