package events

import (
	"encoding/json"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/booklend/lending-service/internal/model"
)

type eventHandler func(event model.LoanEvent)

// Consumer tails the loan-events topic; the handler gets every decoded
// event (operational counters, dashboards).
type Consumer struct {
	handle eventHandler
	log    *zap.Logger
}

func NewConsumer(handle eventHandler, log *zap.Logger) *Consumer {
	return &Consumer{
		handle: handle,
		log:    log.Named("consumer"),
	}
}

// Setup runs at the start of every consumer-group session, including
// each rebalance.
func (c *Consumer) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (c *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (c *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				c.log.Warn("message channel was closed")
				return nil
			}
			var event model.LoanEvent
			if err := json.Unmarshal(message.Value, &event); err != nil {
				c.log.Error("unmarshal event", zap.Error(err))
				session.MarkMessage(message, "")
				continue
			}
			c.handle(event)
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}
