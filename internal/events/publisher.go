package events

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"

	"github.com/booklend/lending-service/internal/model"
	"github.com/booklend/lending-service/pkg/kafka"
)

// Publisher writes committed lifecycle transitions to the loan-events
// topic. Fire-and-forget from the engine's point of view.
type Publisher struct {
	producer sarama.SyncProducer
}

func NewPublisher(producer sarama.SyncProducer) *Publisher {
	return &Publisher{producer: producer}
}

func (p *Publisher) Publish(_ context.Context, event model.LoanEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{
		Topic: kafka.LoanEventsTopic,
		Key:   sarama.StringEncoder(event.LoanUid),
		Value: sarama.ByteEncoder(data),
	}
	_, _, err = p.producer.SendMessage(msg)
	return err
}
