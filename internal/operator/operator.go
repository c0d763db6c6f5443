package operator

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-insights/internal/operator/actions"
	"github.com/carson-networks/finance-insights/internal/storage"
)

type transactor interface {
	Write(ctx context.Context) (*storage.Writer, error)
}

// Operator is the worker that processes items from the queue.
type Operator struct {
	storage transactor
	queue   chan ActionItem
	log     logrus.FieldLogger
}

func NewOperator(s transactor, queue chan ActionItem, log logrus.FieldLogger) *Operator {
	return &Operator{
		storage: s,
		queue:   queue,
		log:     log,
	}
}

// Run listens to the queue and processes items. Exits when the queue is closed.
func (o *Operator) Run() {
	for item := range o.queue {
		err := o.processItem(item)
		if item.response != nil {
			item.response <- ActionItemResponse{err: err}
			continue
		}
		if err != nil {
			o.log.WithError(err).WithField("action", fmt.Sprintf("%T", item.action)).
				Error("Operator.Run.enqueued action failed")
		}
	}
}

func (o *Operator) processItem(item ActionItem) error {
	writer, err := o.storage.Write(item.ctx)
	if err != nil {
		return err
	}

	err = item.action.Perform(item.ctx, writer)
	if err != nil {
		_ = writer.Rollback(item.ctx)
		return err
	}

	return writer.Commit(item.ctx)
}

// ActionItem is one queued action. A nil response channel marks a
// fire-and-forget item whose failure is only logged.
type ActionItem struct {
	ctx      context.Context
	action   actions.IAction
	response chan ActionItemResponse
}

type ActionItemResponse struct {
	err error
}
