//go:build integration

package postgres_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	id "profiles/pkg/domain"
	audit "profiles/pkg/platform/audit"
	"profiles/pkg/platform/audit/store/postgres"
	"profiles/pkg/testutil/containers"
)

type OutboxSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *postgres.Store
}

func TestOutboxSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(OutboxSuite))
}

func (s *OutboxSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = postgres.New(s.postgres.DB)
}

func (s *OutboxSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "audit_outbox"))
}

type recordingProducer struct {
	mu      sync.Mutex
	keys    []string
	failAt  int
	calls   int
	payload [][]byte
}

func (p *recordingProducer) Produce(_ context.Context, key string, value []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.failAt > 0 && p.calls == p.failAt {
		return errors.New("broker unavailable")
	}
	p.keys = append(p.keys, key)
	p.payload = append(p.payload, value)
	return nil
}

func (s *OutboxSuite) appendEvents(accountID id.AccountID, n int) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range n {
		event := audit.NewEvent(audit.EventProfileSet, accountID)
		event.Timestamp = base.Add(time.Duration(i) * time.Second)
		s.Require().NoError(s.store.Append(context.Background(), event))
	}
}

func (s *OutboxSuite) TestAppend() {
	accountID := id.AccountID(uuid.New())
	s.appendEvents(accountID, 2)

	rows, err := s.postgres.DB.QueryContext(context.Background(), `
		SELECT category, payload FROM audit_outbox
		WHERE account_id = $1 AND published_at IS NULL
		ORDER BY created_at
	`, uuid.UUID(accountID))
	s.Require().NoError(err)
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		var (
			category string
			payload  []byte
		)
		s.Require().NoError(rows.Scan(&category, &payload))
		s.Equal(string(audit.CategoryCompliance), category)
		var e audit.Event
		s.Require().NoError(json.Unmarshal(payload, &e))
		events = append(events, e)
	}
	s.Require().NoError(rows.Err())
	s.Require().Len(events, 2)
	s.Equal(accountID, events[0].AccountID)
}

func (s *OutboxSuite) TestRelayPublishesOnce() {
	ctx := context.Background()
	accountID := id.AccountID(uuid.New())
	s.appendEvents(accountID, 3)

	producer := &recordingProducer{}
	relay := postgres.NewRelay(s.postgres.DB, producer, postgres.WithBatchSize(10))

	n, err := relay.PublishBatch(ctx)
	s.Require().NoError(err)
	s.Equal(3, n)
	s.Equal([]string{accountID.String(), accountID.String(), accountID.String()}, producer.keys)

	n, err = relay.PublishBatch(ctx)
	s.Require().NoError(err)
	s.Zero(n, "published rows are not relayed again")
}

func (s *OutboxSuite) TestRelayRetriesAfterProducerFailure() {
	ctx := context.Background()
	s.appendEvents(id.AccountID(uuid.New()), 3)

	producer := &recordingProducer{failAt: 2}
	relay := postgres.NewRelay(s.postgres.DB, producer)

	n, err := relay.PublishBatch(ctx)
	s.Require().NoError(err)
	s.Equal(1, n)

	n, err = relay.PublishBatch(ctx)
	s.Require().NoError(err)
	s.Equal(2, n)
}
