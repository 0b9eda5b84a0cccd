package service

import (
	"Propermint/internal/api/dto"
	"Propermint/internal/model"
	"Propermint/internal/pkg/keys"
	"Propermint/internal/repository"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type ReactionService interface {
	CreateComment(ctx context.Context, username, postID string, req *dto.CommentCreateDTO) (*dto.CommentDTO, error)
	DeleteComment(ctx context.Context, username, commentID string) error
	ListComments(ctx context.Context, postID string, query *dto.PageQuery) (*dto.CommentPageDTO, error)

	LikePost(ctx context.Context, username, postID string) (*dto.LikeDTO, error)
	UnlikePost(ctx context.Context, username, postID string) error
	LikeComment(ctx context.Context, username, commentID string) (*dto.LikeDTO, error)
	UnlikeComment(ctx context.Context, username, commentID string) error
}

type reactionServiceImpl struct {
	postRepo     repository.PostRepo
	reactionRepo repository.ReactionRepo
	producer     ReactionProducer
}

func NewReactionService(postRepo repository.PostRepo, reactionRepo repository.ReactionRepo, producer ReactionProducer) ReactionService {
	return &reactionServiceImpl{
		postRepo:     postRepo,
		reactionRepo: reactionRepo,
		producer:     producer,
	}
}

func (s *reactionServiceImpl) CreateComment(ctx context.Context, username, postID string, req *dto.CommentCreateDTO) (*dto.CommentDTO, error) {
	if username == "" {
		return nil, ErrUnauthorized
	}
	post, err := s.getPostCheck(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment := &model.Comment{
		CommentID:     uuid.NewString(),
		PostID:        post.PostID,
		PostTimestamp: post.Timestamp,
		ChannelID:     post.ChannelID,
		Author:        username,
		Comment:       req.Comment,
		Timestamp:     time.Now().UnixMilli(),
	}
	if err = s.reactionRepo.PutComment(ctx, comment); err != nil {
		log.ErrorContext(ctx, "create comment failed", "post_id", postID, "err", err)
		return nil, err
	}
	s.emit(ctx, post.ChannelID, post.PostID, "", model.ReactionComment)

	var commentDTO dto.CommentDTO
	if err = copier.Copy(&commentDTO, comment); err != nil {
		return nil, err
	}
	return &commentDTO, nil
}

// DeleteComment 仅作者可删，删除后同样触发重新计数
func (s *reactionServiceImpl) DeleteComment(ctx context.Context, username, commentID string) error {
	if username == "" {
		return ErrUnauthorized
	}
	comment, err := s.getCommentCheck(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.Author != username {
		return ErrNotOwner
	}
	if err = s.reactionRepo.DeleteComment(ctx, comment); err != nil {
		log.ErrorContext(ctx, "delete comment failed", "comment_id", commentID, "err", err)
		return err
	}
	s.emit(ctx, comment.ChannelID, comment.PostID, "", model.ReactionComment)
	return nil
}

func (s *reactionServiceImpl) ListComments(ctx context.Context, postID string, query *dto.PageQuery) (*dto.CommentPageDTO, error) {
	post, err := s.getPostCheck(ctx, postID)
	if err != nil {
		return nil, err
	}
	page, err := s.reactionRepo.ListComments(ctx, post.ChannelID, post.PostID, query.Limit, query.Token)
	if err != nil {
		return nil, pageError(ctx, "list comments failed", err)
	}

	comments := make([]*dto.CommentDTO, 0, len(page.Items))
	for _, c := range page.Items {
		var commentDTO dto.CommentDTO
		if err = copier.Copy(&commentDTO, c); err != nil {
			return nil, err
		}
		comments = append(comments, &commentDTO)
	}
	return &dto.CommentPageDTO{Comments: comments, NextToken: page.NextToken}, nil
}

// LikePost likeId 由频道、帖子、用户决定，重复点赞覆盖同一行
func (s *reactionServiceImpl) LikePost(ctx context.Context, username, postID string) (*dto.LikeDTO, error) {
	if username == "" {
		return nil, ErrUnauthorized
	}
	post, err := s.getPostCheck(ctx, postID)
	if err != nil {
		return nil, err
	}

	like := &model.Like{
		LikeID:        keys.LikeID(post.ChannelID, post.PostID, username),
		ChannelID:     post.ChannelID,
		PostID:        post.PostID,
		Author:        username,
		Timestamp:     time.Now().UnixMilli(),
		PostTimestamp: post.Timestamp,
	}
	return s.putLike(ctx, like)
}

func (s *reactionServiceImpl) UnlikePost(ctx context.Context, username, postID string) error {
	if username == "" {
		return ErrUnauthorized
	}
	post, err := s.getPostCheck(ctx, postID)
	if err != nil {
		return err
	}
	return s.deleteLike(ctx, keys.LikeID(post.ChannelID, post.PostID, username))
}

func (s *reactionServiceImpl) LikeComment(ctx context.Context, username, commentID string) (*dto.LikeDTO, error) {
	if username == "" {
		return nil, ErrUnauthorized
	}
	comment, err := s.getCommentCheck(ctx, commentID)
	if err != nil {
		return nil, err
	}

	like := &model.Like{
		LikeID:        keys.CommentLikeID(comment.ChannelID, comment.PostID, comment.CommentID, username),
		ChannelID:     comment.ChannelID,
		PostID:        comment.PostID,
		CommentID:     comment.CommentID,
		Author:        username,
		Timestamp:     time.Now().UnixMilli(),
		PostTimestamp: comment.PostTimestamp,
	}
	return s.putLike(ctx, like)
}

func (s *reactionServiceImpl) UnlikeComment(ctx context.Context, username, commentID string) error {
	if username == "" {
		return ErrUnauthorized
	}
	comment, err := s.getCommentCheck(ctx, commentID)
	if err != nil {
		return err
	}
	return s.deleteLike(ctx, keys.CommentLikeID(comment.ChannelID, comment.PostID, comment.CommentID, username))
}

func (s *reactionServiceImpl) putLike(ctx context.Context, like *model.Like) (*dto.LikeDTO, error) {
	if err := s.reactionRepo.PutLike(ctx, like); err != nil {
		log.ErrorContext(ctx, "put like failed", "like_id", like.LikeID, "err", err)
		return nil, err
	}
	s.emit(ctx, like.ChannelID, like.PostID, like.CommentID, model.ReactionLike)

	var likeDTO dto.LikeDTO
	if err := copier.Copy(&likeDTO, like); err != nil {
		return nil, err
	}
	return &likeDTO, nil
}

func (s *reactionServiceImpl) deleteLike(ctx context.Context, likeID string) error {
	like, err := s.reactionRepo.GetLike(ctx, likeID)
	if err != nil {
		log.ErrorContext(ctx, "get like failed", "like_id", likeID, "err", err)
		return err
	}
	if like == nil {
		return ErrLikeNotFound
	}
	if err = s.reactionRepo.DeleteLike(ctx, like); err != nil {
		log.ErrorContext(ctx, "delete like failed", "like_id", likeID, "err", err)
		return err
	}
	s.emit(ctx, like.ChannelID, like.PostID, like.CommentID, model.ReactionLike)
	return nil
}

// emit 写入已提交，投递结果只记日志
func (s *reactionServiceImpl) emit(ctx context.Context, channelID, postID, commentID string, reactionType model.ReactionType) {
	_ = s.producer.Emit(ctx, &model.MutationEvent{
		ChannelID:    channelID,
		PostID:       postID,
		CommentID:    commentID,
		ReactionType: reactionType,
	})
}

// getPostCheck 被屏蔽的帖子不再接受互动
func (s *reactionServiceImpl) getPostCheck(ctx context.Context, postID string) (*model.Post, error) {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		log.ErrorContext(ctx, "get post failed", "post_id", postID, "err", err)
		return nil, err
	}
	if post == nil || post.Status == model.PostStatusSuppressed {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (s *reactionServiceImpl) getCommentCheck(ctx context.Context, commentID string) (*model.Comment, error) {
	comment, err := s.reactionRepo.GetComment(ctx, commentID)
	if err != nil {
		log.ErrorContext(ctx, "get comment failed", "comment_id", commentID, "err", err)
		return nil, err
	}
	if comment == nil {
		return nil, ErrCommentNotFound
	}
	return comment, nil
}
