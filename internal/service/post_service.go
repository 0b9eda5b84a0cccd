package service

import (
	"Propermint/internal/api/dto"
	"Propermint/internal/model"
	"Propermint/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

// ImageQueue 新图片进入衍生处理流水线
type ImageQueue interface {
	EnqueueImage(ctx context.Context, signal *model.PostSignal) error
}

type PostService interface {
	CreatePost(ctx context.Context, username string, req *dto.PostCreateDTO) (*dto.PostDTO, error)
	UpdatePost(ctx context.Context, username, postID string, req *dto.PostUpdateDTO) (*dto.PostDTO, error)
	DeletePost(ctx context.Context, username, postID string) error
	GetPostById(ctx context.Context, postID string) (*dto.PostDTO, error)
	ListPostsByChannel(ctx context.Context, viewer, channelID string, query *dto.PageQuery) (*dto.PostPageDTO, error)
	ListPostsByUser(ctx context.Context, channelID, author string, query *dto.PageQuery) (*dto.PostPageDTO, error)
	SuppressPost(ctx context.Context, postID string) error
}

type postServiceImpl struct {
	postRepo   repository.PostRepo
	lifecycle  PostLifecycleService
	imageQueue ImageQueue
}

func NewPostService(postRepo repository.PostRepo, lifecycle PostLifecycleService, imageQueue ImageQueue) PostService {
	return &postServiceImpl{
		postRepo:   postRepo,
		lifecycle:  lifecycle,
		imageQueue: imageQueue,
	}
}

// CreatePost 新帖处于 processing，图片衍生完成后才对其他人可见
func (s *postServiceImpl) CreatePost(ctx context.Context, username string, req *dto.PostCreateDTO) (*dto.PostDTO, error) {
	if username == "" {
		return nil, ErrUnauthorized
	}

	post := &model.Post{
		PostID:    req.PostID,
		ChannelID: req.ChannelID,
		Title:     req.Title,
		Content:   req.Content,
		Author:    username,
		Timestamp: time.Now().UnixMilli(),
		Status:    model.PostStatusProcessing,
		ImagePath: req.ImagePath,
	}
	if post.PostID == "" {
		post.PostID = uuid.NewString()
	} else {
		// postId 全局唯一，排序键含时间戳，重复创建会在 posts 索引上留下两行
		existing, err := s.postRepo.GetPost(ctx, post.PostID)
		if err != nil {
			log.ErrorContext(ctx, "check post id failed", "post_id", post.PostID, "err", err)
			return nil, err
		}
		if existing != nil {
			return nil, ErrPostExists
		}
	}
	if err := s.postRepo.PutPost(ctx, post); err != nil {
		log.ErrorContext(ctx, "create post failed", "channel_id", post.ChannelID, "err", err)
		return nil, err
	}

	s.requestDerivatives(ctx, post)
	return toPostDTO(post)
}

// UpdatePost 仅作者可改，不触发计数，更换图片会重新生成衍生图
func (s *postServiceImpl) UpdatePost(ctx context.Context, username, postID string, req *dto.PostUpdateDTO) (*dto.PostDTO, error) {
	if username == "" {
		return nil, ErrUnauthorized
	}
	post, err := s.getOwnedPost(ctx, username, postID)
	if err != nil {
		return nil, err
	}

	imageChanged := post.ImagePath != req.ImagePath
	post.Title = req.Title
	post.Content = req.Content
	post.ImagePath = req.ImagePath
	if err = s.postRepo.UpdatePostContent(ctx, post); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		log.ErrorContext(ctx, "update post failed", "post_id", postID, "err", err)
		return nil, err
	}

	if imageChanged {
		s.requestDerivatives(ctx, post)
	}
	return toPostDTO(post)
}

// DeletePost 只删帖子本身，评论与点赞保留，之后的计数事件按孤儿处理
func (s *postServiceImpl) DeletePost(ctx context.Context, username, postID string) error {
	if username == "" {
		return ErrUnauthorized
	}
	post, err := s.getOwnedPost(ctx, username, postID)
	if err != nil {
		return err
	}
	if err = s.postRepo.DeletePost(ctx, post); err != nil {
		log.ErrorContext(ctx, "delete post failed", "post_id", postID, "err", err)
		return err
	}
	return nil
}

func (s *postServiceImpl) GetPostById(ctx context.Context, postID string) (*dto.PostDTO, error) {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		log.ErrorContext(ctx, "get post failed", "post_id", postID, "err", err)
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return toPostDTO(post)
}

func (s *postServiceImpl) ListPostsByChannel(ctx context.Context, viewer, channelID string, query *dto.PageQuery) (*dto.PostPageDTO, error) {
	page, err := s.postRepo.ListPostsByChannel(ctx, channelID, viewer, query.Limit, query.Token)
	if err != nil {
		return nil, pageError(ctx, "list channel posts failed", err)
	}
	return toPostPageDTO(page)
}

// ListPostsByUser 作者本人的列表，包含处理中的帖子
func (s *postServiceImpl) ListPostsByUser(ctx context.Context, channelID, author string, query *dto.PageQuery) (*dto.PostPageDTO, error) {
	page, err := s.postRepo.ListPostsByUser(ctx, channelID, author, query.Limit, query.Token)
	if err != nil {
		return nil, pageError(ctx, "list user posts failed", err)
	}
	return toPostPageDTO(page)
}

func (s *postServiceImpl) SuppressPost(ctx context.Context, postID string) error {
	err := s.lifecycle.Suppress(ctx, postID)
	if errors.Is(err, ErrOrphanedEvent) {
		return ErrPostNotFound
	}
	return err
}

func (s *postServiceImpl) getOwnedPost(ctx context.Context, username, postID string) (*model.Post, error) {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		log.ErrorContext(ctx, "get post failed", "post_id", postID, "err", err)
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	if post.Author != username {
		return nil, ErrNotOwner
	}
	return post, nil
}

// requestDerivatives 投递失败不影响已写入的帖子，帖子保持 processing
func (s *postServiceImpl) requestDerivatives(ctx context.Context, post *model.Post) {
	if s.imageQueue == nil {
		return
	}
	if err := s.imageQueue.EnqueueImage(ctx, &model.PostSignal{PostID: post.PostID}); err != nil {
		log.ErrorContext(ctx, "enqueue post image failed", "post_id", post.PostID, "err", err)
	}
}

func pageError(ctx context.Context, msg string, err error) error {
	if errors.Is(err, repository.ErrInvalidToken) {
		return ErrInvalidToken
	}
	log.ErrorContext(ctx, msg, "err", err)
	return err
}

func toPostDTO(post *model.Post) (*dto.PostDTO, error) {
	var postDTO dto.PostDTO
	if err := copier.Copy(&postDTO, post); err != nil {
		return nil, err
	}
	postDTO.Status = string(post.Status)
	return &postDTO, nil
}

func toPostPageDTO(page *repository.Page[*model.Post]) (*dto.PostPageDTO, error) {
	posts := make([]*dto.PostDTO, 0, len(page.Items))
	for _, p := range page.Items {
		postDTO, err := toPostDTO(p)
		if err != nil {
			return nil, err
		}
		posts = append(posts, postDTO)
	}
	return &dto.PostPageDTO{Posts: posts, NextToken: page.NextToken}, nil
}
