package journal

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKafkaPublisherSendsKeyedMessage(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	actor := uuid.New()
	event := NewEvent(EventBidPlaced, "offer-1").WithActor(actor).With("amount", "90.00")

	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		key, err := msg.Key.Encode()
		if err != nil {
			return err
		}
		if string(key) != "offer-1" {
			return errors.New("unexpected partition key " + string(key))
		}
		if msg.Topic != "journal" {
			return errors.New("unexpected topic " + msg.Topic)
		}
		return nil
	})

	publisher := NewKafkaPublisherWithProducer(producer, "journal")
	require.NoError(t, publisher.Publish(t.Context(), event))
	require.NoError(t, publisher.Close())
}

func TestKafkaPublisherWrapsSendError(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	publisher := NewKafkaPublisherWithProducer(producer, "journal")
	err := publisher.Publish(t.Context(), NewEvent(EventOfferCreated, "offer-2"))
	require.Error(t, err)
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, publisher.Close())
}

func TestDomainEventJSON(t *testing.T) {
	event := NewEvent(EventRefundApproved, "client-1").With("amount", "115.00")
	body, err := event.ToJSON()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "refund.approved", decoded["type"])
	assert.Equal(t, "client-1", decoded["aggregate_id"])
	assert.NotContains(t, decoded, "actor_id")
}

func TestMemoryPublisherAndEmit(t *testing.T) {
	mem := &MemoryPublisher{}
	Emit(t.Context(), mem, NewEvent(EventBidCancelled, "b"))
	Emit(t.Context(), nil, NewEvent(EventBidCancelled, "ignored"))
	assert.Equal(t, []EventType{EventBidCancelled}, mem.Types())
}

func TestSaramaConfig(t *testing.T) {
	cfg := DefaultKafkaConfig().SaramaConfig()
	assert.True(t, cfg.Producer.Idempotent)
	assert.Equal(t, 1, cfg.Net.MaxOpenRequests)
	assert.Equal(t, sarama.WaitForAll, cfg.Producer.RequiredAcks)
}
