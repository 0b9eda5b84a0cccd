package kafka

import (
	"Propermint/internal/api/config"
	"context"
	log "log/slog"
	"sync"

	"github.com/IBM/sarama"
)

type consumerBinding struct {
	name    string
	topic   string
	group   sarama.ConsumerGroup
	handler sarama.ConsumerGroupHandler
}

// ConsumerManager 管理所有 Kafka 消费者
type ConsumerManager struct {
	bindings []consumerBinding
}

// NewConsumerManager 构造函数
func NewConsumerManager(
	cfg *config.Config,
	reactionHandler *ReactionHandler,
	postImageHandler *PostImageHandler,
	postReadyHandler *PostReadyHandler,
) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	m := &ConsumerManager{}
	specs := []struct {
		name    string
		binding config.KafkaConsumerBinding
		handler sarama.ConsumerGroupHandler
	}{
		{"reaction", cfg.KafkaReactionConsumer, reactionHandler},
		{"post image", cfg.KafkaPostImageConsumer, postImageHandler},
		{"post ready", cfg.KafkaPostReadyConsumer, postReadyHandler},
	}
	for _, spec := range specs {
		group, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, spec.binding.GroupID, saramaCfg)
		if err != nil {
			m.close()
			return nil, err
		}
		m.bindings = append(m.bindings, consumerBinding{
			name:    spec.name,
			topic:   spec.binding.Topic,
			group:   group,
			handler: spec.handler,
		})
	}
	return m, nil
}

// Start 启动所有消费者，ctx 结束后关闭
func (m *ConsumerManager) Start(ctx context.Context) error {
	var wg sync.WaitGroup
	for _, b := range m.bindings {
		wg.Add(1)
		go func(b consumerBinding) {
			defer wg.Done()
			log.Info("consumer started", "name", b.name, "topic", b.topic)
			for {
				if err := b.group.Consume(ctx, []string{b.topic}, b.handler); err != nil {
					log.Error("Error from consumer", "name", b.name, "err", err)
				}
				if ctx.Err() != nil {
					return
				}
			}
		}(b)
	}

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")
	m.close()
	wg.Wait()
	return nil
}

func (m *ConsumerManager) close() {
	for _, b := range m.bindings {
		if err := b.group.Close(); err != nil {
			log.Error("Failed to close consumer", "name", b.name, "err", err)
		}
	}
}
