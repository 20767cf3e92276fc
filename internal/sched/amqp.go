package sched

import (
	"context"
	"fmt"

	"github.com/shaiso/hicflow/internal/mq"
)

// AMQPClient публикует заявки в очередь моста к планировщику.
//
// Handle равен имени задачи: мост адресует задачи по именам, и Cancel
// публикует заявку на снятие с тем же именем.
type AMQPClient struct {
	pub   *mq.Publisher
	group string
}

// NewAMQPClient создаёт AMQPClient для группы запуска.
func NewAMQPClient(pub *mq.Publisher, group string) *AMQPClient {
	return &AMQPClient{pub: pub, group: group}
}

// Submit публикует заявку на постановку задачи.
func (c *AMQPClient) Submit(ctx context.Context, req Request) (Handle, error) {
	msg, err := mq.NewMessage(mq.MessageTypeSubmission, mq.SubmissionPayload{
		Group:     c.group,
		Name:      req.Name,
		Command:   req.Command,
		Queue:     req.Queue,
		MemoryMB:  req.MemoryMB,
		DependsOn: req.DependsOn,
	})
	if err != nil {
		return "", err
	}
	if err := c.pub.Publish(ctx, mq.RoutingKeySubmit, msg); err != nil {
		return "", fmt.Errorf("submit %s: %w", req.Name, err)
	}
	return Handle(req.Name), nil
}

// Cancel публикует заявку на снятие задачи.
func (c *AMQPClient) Cancel(ctx context.Context, h Handle) error {
	msg, err := mq.NewMessage(mq.MessageTypeCancel, mq.CancelPayload{
		Group:  c.group,
		Handle: string(h),
	})
	if err != nil {
		return err
	}
	if err := c.pub.Publish(ctx, mq.RoutingKeyCancel, msg); err != nil {
		return fmt.Errorf("cancel %s: %w", h, err)
	}
	return nil
}
