package service

import (
	"Propermint/internal/model"
	"Propermint/internal/repository"
	"context"
	"errors"
	log "log/slog"
)

// ReactionAggregator 消费变更事件，按当前存储状态重新计数后覆盖写回
type ReactionAggregator interface {
	Process(ctx context.Context, event *model.MutationEvent) error
}

type reactionAggregatorImpl struct {
	postRepo     repository.PostRepo
	reactionRepo repository.ReactionRepo
}

func NewReactionAggregator(postRepo repository.PostRepo, reactionRepo repository.ReactionRepo) ReactionAggregator {
	return &reactionAggregatorImpl{
		postRepo:     postRepo,
		reactionRepo: reactionRepo,
	}
}

// Process 重复或乱序的事件得到相同结果；父实体已删除时返回 ErrOrphanedEvent
func (s *reactionAggregatorImpl) Process(ctx context.Context, event *model.MutationEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}

	filter := repository.ReactionFilter{
		ChannelID: event.ChannelID,
		PostID:    event.PostID,
		Type:      event.ReactionType,
		CommentID: event.CommentID,
	}
	switch {
	case event.ReactionType == model.ReactionComment:
		filter.CommentID = ""
		return s.recountPost(ctx, filter, repository.PostTotalComments)
	case event.CommentID == "":
		return s.recountPost(ctx, filter, repository.PostTotalLikes)
	default:
		return s.recountComment(ctx, filter)
	}
}

// count 跟随分页 token 直到结束，中途停止会少计
func (s *reactionAggregatorImpl) count(ctx context.Context, filter repository.ReactionFilter) (int, error) {
	total := 0
	token := ""
	for {
		n, next, err := s.reactionRepo.CountReactions(ctx, filter, token)
		if err != nil {
			return 0, err
		}
		total += n
		if next == "" {
			return total, nil
		}
		token = next
	}
}

func (s *reactionAggregatorImpl) recountPost(ctx context.Context, filter repository.ReactionFilter, counter repository.PostCounter) error {
	total, err := s.count(ctx, filter)
	if err != nil {
		return err
	}

	post, err := s.postRepo.GetPost(ctx, filter.PostID)
	if err != nil {
		return err
	}
	if post == nil {
		log.WarnContext(ctx, "post not found, drop reaction event", "post_id", filter.PostID, "counter", counter)
		return ErrOrphanedEvent
	}

	if err = s.postRepo.SetPostCount(ctx, post, counter, total); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.WarnContext(ctx, "post deleted before write back", "post_id", post.PostID, "counter", counter)
			return ErrOrphanedEvent
		}
		return err
	}
	log.DebugContext(ctx, "post count refreshed", "post_id", post.PostID, "counter", counter, "value", total)
	return nil
}

func (s *reactionAggregatorImpl) recountComment(ctx context.Context, filter repository.ReactionFilter) error {
	total, err := s.count(ctx, filter)
	if err != nil {
		return err
	}

	comment, err := s.reactionRepo.GetComment(ctx, filter.CommentID)
	if err != nil {
		return err
	}
	if comment == nil {
		log.WarnContext(ctx, "comment not found, drop reaction event", "comment_id", filter.CommentID)
		return ErrOrphanedEvent
	}

	if err = s.reactionRepo.SetCommentLikes(ctx, comment, total); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.WarnContext(ctx, "comment deleted before write back", "comment_id", comment.CommentID)
			return ErrOrphanedEvent
		}
		return err
	}
	log.DebugContext(ctx, "comment likes refreshed", "comment_id", comment.CommentID, "value", total)
	return nil
}
