package service

import (
	"Propermint/internal/model"
	"Propermint/internal/pkg/consts"
	"Propermint/internal/pkg/redis"
	"context"
	log "log/slog"
)

// EventQueue 工作队列的投递端
type EventQueue interface {
	Enqueue(ctx context.Context, event *model.MutationEvent) error
}

// DirtyMarker 记录投递失败的计数范围，由对账任务补偿
type DirtyMarker interface {
	MarkDirty(ctx context.Context, event *model.MutationEvent) error
}

// ReactionProducer 在存储写入成功之后投递变更事件
type ReactionProducer interface {
	Emit(ctx context.Context, event *model.MutationEvent) error
}

type reactionProducerImpl struct {
	queue EventQueue
	dirty DirtyMarker
}

func NewReactionProducer(queue EventQueue, dirty DirtyMarker) ReactionProducer {
	return &reactionProducerImpl{queue: queue, dirty: dirty}
}

// Emit 投递失败不回滚已提交的写入，只把范围记入脏集合
func (p *reactionProducerImpl) Emit(ctx context.Context, event *model.MutationEvent) error {
	err := p.queue.Enqueue(ctx, event)
	if err == nil {
		return nil
	}

	log.ErrorContext(ctx, "enqueue reaction event failed",
		"channel_id", event.ChannelID, "post_id", event.PostID,
		"comment_id", event.CommentID, "type", event.ReactionType, "err", err)
	if p.dirty != nil {
		if dErr := p.dirty.MarkDirty(ctx, event); dErr != nil {
			log.ErrorContext(ctx, "mark reaction scope dirty failed", "post_id", event.PostID, "err", dErr)
		}
	}
	return err
}

type redisDirtyMarker struct{}

// NewRedisDirtyMarker 脏集合存放编码后的事件，同一范围只保留一份
func NewRedisDirtyMarker() DirtyMarker {
	return &redisDirtyMarker{}
}

func (redisDirtyMarker) MarkDirty(ctx context.Context, event *model.MutationEvent) error {
	payload, err := model.EncodeEvent(event)
	if err != nil {
		return err
	}
	return redis.SAdd(ctx, consts.ReactionDirtyKey, string(payload))
}
