package kafka

import (
	"Propermint/internal/model"
	"Propermint/internal/service"
	"context"
	"errors"
	log "log/slog"

	"github.com/IBM/sarama"
)

// PostReadyHandler 衍生图就绪信号，帖子转为 live
type PostReadyHandler struct {
	lifecycle service.PostLifecycleService
	policy    retryPolicy
}

func NewPostReadyHandler(lifecycle service.PostLifecycleService, publisher SignalPublisher, maxAttempts int) *PostReadyHandler {
	return &PostReadyHandler{
		lifecycle: lifecycle,
		policy:    retryPolicy{maxAttempts: maxAttempts, giveUp: deadLetter(publisher)},
	}
}

func (s *PostReadyHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("post ready consumer setup")
	return nil
}

func (s *PostReadyHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("post ready consumer cleanup")
	return nil
}

func (s *PostReadyHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-post-ready consume claim")
	err := pullMessageBatch(session, claim, s.logic, s.policy)
	if err != nil {
		log.Error("topic-post-ready process batch error", "err", err)
		return err
	}
	return nil
}

func (s *PostReadyHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	signal, err := model.DecodeSignal(msg.Value)
	if err != nil {
		return Permanent(err)
	}

	err = s.lifecycle.MarkLive(ctx, signal.PostID)
	if errors.Is(err, service.ErrOrphanedEvent) || errors.Is(err, service.ErrInvalidTransition) {
		return nil
	}
	return err
}
