package service

import (
	"context"
	"encoding/json"
	"log"

	"loan-assist-be/internal/dto"
	"loan-assist-be/internal/entity"
	"loan-assist-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// IConsumerService drains the in-process audit topic and records each
// concluded turn in the audit store.
type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishAuditMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal audit message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	entry := entity.AuditEntry{
		Id:            uuid.New(),
		LoanSessionId: payload.LoanSessionId,
		EventType:     payload.EventType,
		Detail:        payload.Detail,
	}
	if err := uow.AuditEntryRepository().Create(ctx, &entry); err != nil {
		log.Printf("[ERROR] Failed to persist audit entry for session %s: %v", payload.LoanSessionId, err)
		msg.Nack()
		return
	}

	msg.Ack()
}
