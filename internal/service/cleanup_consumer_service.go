package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"ai-docchat-be/internal/constant"
	"ai-docchat-be/internal/dto"
	"ai-docchat-be/internal/repository/specification"
	"ai-docchat-be/internal/repository/unitofwork"
)

type ICleanupConsumerService interface {
	Consume(ctx context.Context) error
}

// cleanupConsumerService retries supersession cleanups that failed inline.
// Deleting by (filename, old hash) is idempotent, so redelivery is harmless.
type cleanupConsumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
}

func NewCleanupConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
) ICleanupConsumerService {
	return &cleanupConsumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
	}
}

func (cs *cleanupConsumerService) Consume(ctx context.Context) error {
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

func (cs *cleanupConsumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.CleanupChunksMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal cleanup message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Retrying cleanup of %s (%s), superseded by %s",
		payload.Filename, shortHash(payload.OldHash), shortHash(payload.NewHash))

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	deleted, err := uow.ChunkRepository().DeleteByFilter(ctx, map[string]string{
		constant.MetaKeyFilename:    payload.Filename,
		constant.MetaKeyContentHash: payload.OldHash,
	})
	if err != nil {
		log.Printf("[ERROR] Cleanup of %s (%s) failed again: %v", payload.Filename, shortHash(payload.OldHash), err)
		msg.Nack() // Nack for retriable errors
		return
	}

	if err := uow.DocumentRepository().Delete(ctx, specification.ByContentHash{Hash: payload.OldHash}); err != nil {
		log.Printf("[ERROR] Failed to drop registry row for %s (%s): %v", payload.Filename, shortHash(payload.OldHash), err)
		msg.Nack()
		return
	}

	log.Printf("[SUCCESS] Cleanup removed %d stale chunks of %s (%s)", deleted, payload.Filename, shortHash(payload.OldHash))
	msg.Ack()
}

func shortHash(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}
