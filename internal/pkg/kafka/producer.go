package kafka

import (
	"Propermint/internal/api/config"
	"Propermint/internal/model"
	"Propermint/internal/service"
	"context"
	"fmt"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// Producer 工作队列的投递端，按 postId 分区
type Producer struct {
	producer sarama.SyncProducer
	topics   config.TopicsConfig
}

func NewProducer(cfg *config.Config) (*Producer, error) {
	p, err := sarama.NewSyncProducer(cfg.Kafka.Brokers, newSaramaConfig(cfg.Kafka))
	if err != nil {
		return nil, err
	}
	return newProducer(p, cfg.Topics), nil
}

func newProducer(p sarama.SyncProducer, topics config.TopicsConfig) *Producer {
	return &Producer{producer: p, topics: topics}
}

// Enqueue 投递评论/点赞变更事件
func (p *Producer) Enqueue(ctx context.Context, event *model.MutationEvent) error {
	payload, err := model.EncodeEvent(event)
	if err != nil {
		return err
	}
	return p.Publish(ctx, p.topics.Reaction, event.PostID, payload)
}

// EnqueueImage 请求为帖子生成衍生图
func (p *Producer) EnqueueImage(ctx context.Context, signal *model.PostSignal) error {
	return p.publishSignal(ctx, p.topics.PostImage, signal)
}

// EnqueueReady 衍生图已就绪
func (p *Producer) EnqueueReady(ctx context.Context, signal *model.PostSignal) error {
	return p.publishSignal(ctx, p.topics.PostReady, signal)
}

// DeadLetter 原样转发重试耗尽的消息
func (p *Producer) DeadLetter(ctx context.Context, msg *sarama.ConsumerMessage) error {
	return p.Publish(ctx, p.topics.DeadLetter, string(msg.Key), msg.Value)
}

func (p *Producer) publishSignal(ctx context.Context, topic string, signal *model.PostSignal) error {
	payload, err := json.Marshal(signal)
	if err != nil {
		return err
	}
	return p.Publish(ctx, topic, signal.PostID, payload)
}

// Publish 同步发送，失败统一返回 ErrQueueUnavailable
func (p *Producer) Publish(ctx context.Context, topic, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", service.ErrQueueUnavailable, err)
	}
	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(value),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", service.ErrQueueUnavailable, err)
	}
	log.DebugContext(ctx, "message published", "topic", topic, "key", key, "partition", partition, "offset", offset)
	return nil
}

func (p *Producer) Close() error {
	return p.producer.Close()
}
