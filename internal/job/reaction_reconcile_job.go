package job

import (
	"Propermint/internal/model"
	"Propermint/internal/pkg/consts"
	"Propermint/internal/pkg/logger"
	"Propermint/internal/pkg/redis"
	"Propermint/internal/service"
	"context"
	"errors"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

const reconcileLockTTL = 5 * time.Minute

// dirtyStore 待对账范围的存取
type dirtyStore interface {
	Lock(ctx context.Context, owner string) (bool, error)
	Unlock(ctx context.Context, owner string)
	Claim(ctx context.Context) ([]string, error)
	Requeue(ctx context.Context, members []string) error
	Done(ctx context.Context) error
}

// ReactionReconcileJob 为投递失败或重试耗尽的事件重新计数
type ReactionReconcileJob struct {
	aggregator service.ReactionAggregator
	store      dirtyStore
}

func NewReactionReconcileJob(aggregator service.ReactionAggregator) *ReactionReconcileJob {
	return &ReactionReconcileJob{
		aggregator: aggregator,
		store:      redisDirtyStore{},
	}
}

func (s *ReactionReconcileJob) Run() {
	ctx := logger.NewTraceContext(context.Background(), "job-reconcile")

	owner := uuid.NewString()
	ok, err := s.store.Lock(ctx, owner)
	if err != nil || !ok {
		return
	}
	defer s.store.Unlock(ctx, owner)

	members, err := s.store.Claim(ctx)
	if err != nil {
		log.ErrorContext(ctx, "claim reaction dirty set error", "err", err)
		return
	}
	if len(members) == 0 {
		return
	}

	var failed []string
	for _, m := range members {
		event, err := model.DecodeEvent([]byte(m))
		if err != nil {
			log.WarnContext(ctx, "drop malformed dirty entry", "entry", m)
			continue
		}
		err = s.aggregator.Process(ctx, event)
		if err != nil && !errors.Is(err, service.ErrOrphanedEvent) {
			log.ErrorContext(ctx, "reconcile reaction scope error", "post_id", event.PostID, "err", err)
			failed = append(failed, m)
		}
	}

	if len(failed) > 0 {
		if err = s.store.Requeue(ctx, failed); err != nil {
			log.ErrorContext(ctx, "requeue dirty scopes error", "count", len(failed), "err", err)
			return
		}
	}
	if err = s.store.Done(ctx); err != nil {
		log.ErrorContext(ctx, "delete reaction processing set error", "err", err)
	}

	log.InfoContext(ctx, "reconcile reactions success",
		"scope_count", len(members),
		"failed_count", len(failed))
}

type redisDirtyStore struct{}

func (redisDirtyStore) Lock(ctx context.Context, owner string) (bool, error) {
	return redis.TryLock(ctx, consts.ReactionReconcileLock, owner, reconcileLockTTL, 1)
}

func (redisDirtyStore) Unlock(ctx context.Context, owner string) {
	redis.UnLock(ctx, consts.ReactionReconcileLock, owner)
}

// Claim 上次未完成的处理集合优先
func (redisDirtyStore) Claim(ctx context.Context) ([]string, error) {
	if _, err := redis.RenameNX(ctx, consts.ReactionDirtyKey, consts.ReactionDirtyProcessingKey); err != nil {
		return nil, err
	}
	return redis.GetSet(ctx, consts.ReactionDirtyProcessingKey)
}

func (redisDirtyStore) Requeue(ctx context.Context, members []string) error {
	args := make([]interface{}, len(members))
	for i, m := range members {
		args[i] = m
	}
	return redis.SAdd(ctx, consts.ReactionDirtyKey, args...)
}

func (redisDirtyStore) Done(ctx context.Context) error {
	return redis.DeleteKey(ctx, consts.ReactionDirtyProcessingKey)
}
