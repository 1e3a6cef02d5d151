package queue

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/CatGalleryCrawler/internal/domain"
	"github.com/segmentio/kafka-go"
)

type KafkaProducer struct {
	writer *kafka.Writer
}

func NewKafkaProducer(brokers []string, topic string) *KafkaProducer {
	w := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.Hash{}, // Hash balancer ensures messages with same key go to same partition
	}
	slog.Info("Kafka Producer initialized", "brokers", brokers, "topic", topic)
	return &KafkaProducer{writer: w}
}

func (p *KafkaProducer) Publish(ctx context.Context, cat *domain.CatImage) error {
	payload, err := json.Marshal(cat)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(cat.ID),
		Value: payload,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		slog.Error("Failed to write to kafka", "error", err)
		return err
	}

	slog.Debug("Published cat to Kafka", "id", cat.ID)
	return nil
}

func (p *KafkaProducer) PublishBatch(ctx context.Context, cats []domain.CatImage) error {
	if len(cats) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(cats))
	for i := range cats {
		payload, err := json.Marshal(cats[i])
		if err != nil {
			return err
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(cats[i].ID),
			Value: payload,
		})
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		slog.Error("Failed to write batch to kafka", "count", len(msgs), "error", err)
		return err
	}

	slog.Debug("Published cat batch to Kafka", "count", len(msgs))
	return nil
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}
