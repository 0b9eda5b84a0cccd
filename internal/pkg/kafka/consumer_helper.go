package kafka

import (
	"Propermint/internal/pkg/logger"
	"context"
	log "log/slog"
	"sync"
	"time"

	"github.com/IBM/sarama"
)

const (
	batchSize    = 32
	batchTimeout = 1 * time.Second
	maxBackoff   = 5 * time.Second
)

var baseBackoff = 100 * time.Millisecond

type LogicFunc func(ctx context.Context, msg *sarama.ConsumerMessage) error

// GiveUpFunc 重试次数耗尽后的兜底处理
type GiveUpFunc func(ctx context.Context, msg *sarama.ConsumerMessage, err error)

// retryPolicy maxAttempts <= 0 表示一直重试
type retryPolicy struct {
	maxAttempts int
	giveUp      GiveUpFunc
}

// pullMessageBatch 拉取一批消息并执行业务逻辑，批次未全部落定时直接返回，等待重新投递
func pullMessageBatch(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim, logic LogicFunc, policy retryPolicy) error {
	batch := make([]*sarama.ConsumerMessage, 0, batchSize)
	ticker := time.NewTicker(batchTimeout)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				if len(batch) > 0 {
					processBatch(session, batch, logic, policy)
				}
				return nil
			}
			batch = append(batch, msg)
			if len(batch) >= batchSize {
				if !processBatch(session, batch, logic, policy) {
					return nil
				}
				// 清空缓冲区 & 重值定时器
				batch = make([]*sarama.ConsumerMessage, 0, batchSize)
				ticker.Reset(batchTimeout)
			}
		case <-ticker.C:
			if len(batch) > 0 {
				if !processBatch(session, batch, logic, policy) {
					return nil
				}
				batch = make([]*sarama.ConsumerMessage, 0, batchSize)
			}
		case <-session.Context().Done():
			return nil
		}
	}
}

// processBatch 并发处理一批消息。每条消息都成功、被判定为不可处理或已兜底时，
// 才提交最后一条的位点并返回 true；会话结束导致的中断不提交
func processBatch(session sarama.ConsumerGroupSession, messages []*sarama.ConsumerMessage, logic LogicFunc, policy retryPolicy) bool {
	var wg sync.WaitGroup
	settled := make([]bool, len(messages))

	for i, msg := range messages {
		wg.Add(1)

		go func(i int, m *sarama.ConsumerMessage) {
			defer wg.Done()
			settled[i] = processMessage(session.Context(), m, logic, policy)
		}(i, msg)
	}

	wg.Wait()

	for i, ok := range settled {
		if !ok {
			log.WarnContext(session.Context(), "batch interrupted, offsets left for redelivery",
				"topic", messages[i].Topic, "offset", messages[i].Offset)
			return false
		}
	}

	if len(messages) > 0 {
		lastMsg := messages[len(messages)-1]
		session.MarkMessage(lastMsg, "")
	}
	return true
}

// processMessage 返回 false 表示重试被会话结束打断，消息既未处理也未兜底
func processMessage(sessionCtx context.Context, m *sarama.ConsumerMessage, logic LogicFunc, policy retryPolicy) bool {
	ctx := logger.NewTraceContext(sessionCtx, "kafka-"+m.Topic)
	retryInterval := baseBackoff

	for attempt := 1; ; attempt++ {
		err := logic(ctx, m)
		if err == nil {
			return true
		}
		if IsPermanent(err) {
			log.WarnContext(ctx, "drop unprocessable message", "topic", m.Topic, "offset", m.Offset, "err", err)
			return true
		}
		if policy.maxAttempts > 0 && attempt >= policy.maxAttempts {
			log.ErrorContext(ctx, "message retries exhausted", "topic", m.Topic, "offset", m.Offset, "attempts", attempt, "err", err)
			if policy.giveUp != nil {
				policy.giveUp(ctx, m, err)
			}
			return true
		}

		log.ErrorContext(ctx, "process message error", "topic", m.Topic, "attempt", attempt, "err", err)
		select {
		case <-sessionCtx.Done():
			return false
		case <-time.After(retryInterval):
		}

		retryInterval *= 2
		if retryInterval > maxBackoff {
			retryInterval = maxBackoff
		}
	}
}
