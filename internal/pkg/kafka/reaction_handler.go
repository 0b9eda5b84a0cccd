package kafka

import (
	"Propermint/internal/model"
	"Propermint/internal/service"
	"context"
	"errors"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ReactionHandler 评论/点赞事件的消费端，驱动重新计数
type ReactionHandler struct {
	aggregator service.ReactionAggregator
	dirty      service.DirtyMarker
	policy     retryPolicy
}

func NewReactionHandler(aggregator service.ReactionAggregator, dirty service.DirtyMarker, maxAttempts int) *ReactionHandler {
	h := &ReactionHandler{
		aggregator: aggregator,
		dirty:      dirty,
	}
	h.policy = retryPolicy{maxAttempts: maxAttempts, giveUp: h.giveUp}
	return h
}

func (s *ReactionHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("reaction consumer setup")
	return nil
}

func (s *ReactionHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("reaction consumer cleanup")
	return nil
}

func (s *ReactionHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-reaction consume claim")
	err := pullMessageBatch(session, claim, s.logic, s.policy)
	if err != nil {
		log.Error("topic-reaction process batch error", "err", err)
		return err
	}
	return nil
}

func (s *ReactionHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	event, err := model.DecodeEvent(msg.Value)
	if err != nil {
		return Permanent(err)
	}

	err = s.aggregator.Process(ctx, event)
	if errors.Is(err, service.ErrOrphanedEvent) {
		return nil
	}
	return err
}

// giveUp 交给对账任务补偿
func (s *ReactionHandler) giveUp(ctx context.Context, msg *sarama.ConsumerMessage, _ error) {
	event, err := model.DecodeEvent(msg.Value)
	if err != nil {
		return
	}
	if err = s.dirty.MarkDirty(ctx, event); err != nil {
		log.ErrorContext(ctx, "mark reaction scope dirty failed", "post_id", event.PostID, "err", err)
	}
}
