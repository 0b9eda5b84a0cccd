package kafka

import (
	"Propermint/internal/model"
	"Propermint/internal/pkg/processor"
	"Propermint/internal/repository"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// SignalPublisher 衍生完成后通知生命周期消费者，失败消息进入死信
type SignalPublisher interface {
	EnqueueReady(ctx context.Context, signal *model.PostSignal) error
	DeadLetter(ctx context.Context, msg *sarama.ConsumerMessage) error
}

// PostImageHandler 生成帖子图片的各尺寸衍生图
type PostImageHandler struct {
	postRepo  repository.PostRepo
	processor processor.ImageProcessor
	publisher SignalPublisher
	policy    retryPolicy
}

func NewPostImageHandler(postRepo repository.PostRepo, imageProcessor processor.ImageProcessor, publisher SignalPublisher, maxAttempts int) *PostImageHandler {
	return &PostImageHandler{
		postRepo:  postRepo,
		processor: imageProcessor,
		publisher: publisher,
		policy:    retryPolicy{maxAttempts: maxAttempts, giveUp: deadLetter(publisher)},
	}
}

func (s *PostImageHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("post image consumer setup")
	return nil
}

func (s *PostImageHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("post image consumer cleanup")
	return nil
}

func (s *PostImageHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-post-image consume claim")
	err := pullMessageBatch(session, claim, s.logic, s.policy)
	if err != nil {
		log.Error("topic-post-image process batch error", "err", err)
		return err
	}
	return nil
}

func (s *PostImageHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	signal, err := model.DecodeSignal(msg.Value)
	if err != nil {
		return Permanent(err)
	}

	post, err := s.postRepo.GetPost(ctx, signal.PostID)
	if err != nil {
		return err
	}
	if post == nil {
		log.WarnContext(ctx, "post not found, skip derivatives", "post_id", signal.PostID)
		return nil
	}
	if post.Status == model.PostStatusSuppressed {
		return nil
	}

	// 没有图片的帖子直接就绪
	if post.ImagePath != "" {
		if err = s.processor.Process(ctx, post); err != nil {
			return err
		}
	}
	return s.publisher.EnqueueReady(ctx, signal)
}

func deadLetter(publisher SignalPublisher) GiveUpFunc {
	return func(ctx context.Context, msg *sarama.ConsumerMessage, _ error) {
		if err := publisher.DeadLetter(ctx, msg); err != nil {
			log.ErrorContext(ctx, "publish dead letter failed", "topic", msg.Topic, "offset", msg.Offset, "err", err)
		}
	}
}
