// Package kafka publishes audit events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"

	audit "profiles/pkg/platform/audit"
)

// Store produces each event as a JSON record keyed by account ID so one
// account's events stay ordered within a partition.
type Store struct {
	client *kgo.Client
	topic  string
}

func New(client *kgo.Client, topic string) *Store {
	return &Store{client: client, topic: topic}
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	var key string
	if !event.AccountID.IsNil() {
		key = event.AccountID.String()
	}
	return s.Produce(ctx, key, value)
}

// Produce writes one record and waits for the broker acknowledgement.
func (s *Store) Produce(ctx context.Context, key string, value []byte) error {
	record := &kgo.Record{Topic: s.topic, Value: value}
	if key != "" {
		record.Key = []byte(key)
	}
	if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit record: %w", err)
	}
	return nil
}
