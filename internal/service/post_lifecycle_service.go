package service

import (
	"Propermint/internal/model"
	"Propermint/internal/repository"
	"context"
	log "log/slog"
)

// PostLifecycleService 帖子状态机：processing -> live，任意非终态 -> suppressed
type PostLifecycleService interface {
	MarkLive(ctx context.Context, postID string) error
	Suppress(ctx context.Context, postID string) error
}

type postLifecycleServiceImpl struct {
	postRepo repository.PostRepo
}

func NewPostLifecycleService(postRepo repository.PostRepo) PostLifecycleService {
	return &postLifecycleServiceImpl{postRepo: postRepo}
}

// MarkLive 图片衍生完成后调用，重复信号不报错
func (s *postLifecycleServiceImpl) MarkLive(ctx context.Context, postID string) error {
	return s.transition(ctx, postID, model.PostStatusLive)
}

func (s *postLifecycleServiceImpl) Suppress(ctx context.Context, postID string) error {
	return s.transition(ctx, postID, model.PostStatusSuppressed)
}

// transition 读出整行、改状态、整行写回；读写之间其它字段的并发修改会被覆盖
func (s *postLifecycleServiceImpl) transition(ctx context.Context, postID string, next model.PostStatus) error {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		log.WarnContext(ctx, "post not found, drop status change", "post_id", postID, "status", next)
		return ErrOrphanedEvent
	}
	if post.Status == next {
		return nil
	}
	if !post.Status.CanTransitionTo(next) {
		log.WarnContext(ctx, "invalid post status transition", "post_id", postID, "from", post.Status, "to", next)
		return ErrInvalidTransition
	}

	post.Status = next
	if err = s.postRepo.PutPost(ctx, post); err != nil {
		return err
	}
	log.InfoContext(ctx, "post status changed", "post_id", postID, "status", next)
	return nil
}
