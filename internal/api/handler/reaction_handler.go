package handler

import (
	"Propermint/internal/api/dto"
	"Propermint/internal/pkg/consts"
	"Propermint/internal/pkg/response"
	"Propermint/internal/pkg/util"
	"Propermint/internal/service"

	"github.com/gin-gonic/gin"
)

type ReactionHandler struct {
	reactionSvc service.ReactionService
}

func NewReactionHandler(reactionSvc service.ReactionService) *ReactionHandler {
	return &ReactionHandler{
		reactionSvc: reactionSvc,
	}
}

func (s *ReactionHandler) CreateComment(c *gin.Context) {
	username := c.GetString(consts.PrincipalCtxKey)

	var req dto.CommentCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}

	comment, err := s.reactionSvc.CreateComment(c.Request.Context(), username, c.Param("post_id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, comment)
}

func (s *ReactionHandler) DeleteComment(c *gin.Context) {
	username := c.GetString(consts.PrincipalCtxKey)

	if err := s.reactionSvc.DeleteComment(c.Request.Context(), username, c.Param("comment_id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ReactionHandler) ListComments(c *gin.Context) {
	query, ok := bindPageQuery(c)
	if !ok {
		return
	}

	page, err := s.reactionSvc.ListComments(c.Request.Context(), c.Param("post_id"), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

// LikePost 点赞/取消点赞帖子
func (s *ReactionHandler) LikePost(c *gin.Context) {
	username := c.GetString(consts.PrincipalCtxKey)
	postID := c.Param("post_id")

	var req dto.ReactionActionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if *req.Action == 1 {
		like, err := s.reactionSvc.LikePost(c.Request.Context(), username, postID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, like)
		return
	}

	if err := s.reactionSvc.UnlikePost(c.Request.Context(), username, postID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// LikeComment 点赞/取消点赞评论
func (s *ReactionHandler) LikeComment(c *gin.Context) {
	username := c.GetString(consts.PrincipalCtxKey)
	commentID := c.Param("comment_id")

	var req dto.ReactionActionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if *req.Action == 1 {
		like, err := s.reactionSvc.LikeComment(c.Request.Context(), username, commentID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, like)
		return
	}

	if err := s.reactionSvc.UnlikeComment(c.Request.Context(), username, commentID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
