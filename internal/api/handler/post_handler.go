package handler

import (
	"Propermint/internal/api/dto"
	"Propermint/internal/pkg/consts"
	"Propermint/internal/pkg/response"
	"Propermint/internal/pkg/util"
	"Propermint/internal/service"

	"github.com/gin-gonic/gin"
)

// selfAlias 列表接口中代表当前用户的作者名
const selfAlias = "me"

type PostHandler struct {
	postSvc service.PostService
}

func NewPostHandler(postSvc service.PostService) *PostHandler {
	return &PostHandler{
		postSvc: postSvc,
	}
}

func (s *PostHandler) CreatePost(c *gin.Context) {
	username := c.GetString(consts.PrincipalCtxKey)

	var req dto.PostCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}

	post, err := s.postSvc.CreatePost(c.Request.Context(), username, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, post)
}

func (s *PostHandler) UpdatePost(c *gin.Context) {
	username := c.GetString(consts.PrincipalCtxKey)
	postID := c.Param("post_id")

	var req dto.PostUpdateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}

	post, err := s.postSvc.UpdatePost(c.Request.Context(), username, postID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, post)
}

func (s *PostHandler) DeletePost(c *gin.Context) {
	username := c.GetString(consts.PrincipalCtxKey)

	if err := s.postSvc.DeletePost(c.Request.Context(), username, c.Param("post_id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *PostHandler) GetPost(c *gin.Context) {
	post, err := s.postSvc.GetPostById(c.Request.Context(), c.Param("post_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, post)
}

// ListChannelPosts 未登录时只能看到已发布的帖子
func (s *PostHandler) ListChannelPosts(c *gin.Context) {
	viewer := c.GetString(consts.PrincipalCtxKey)

	query, ok := bindPageQuery(c)
	if !ok {
		return
	}

	page, err := s.postSvc.ListPostsByChannel(c.Request.Context(), viewer, c.Param("channel_id"), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

func (s *PostHandler) ListUserPosts(c *gin.Context) {
	author := c.Param("author")
	if author == selfAlias {
		author = c.GetString(consts.PrincipalCtxKey)
		if author == "" {
			response.Error(c, service.ErrUnauthorized)
			return
		}
	}

	query, ok := bindPageQuery(c)
	if !ok {
		return
	}

	page, err := s.postSvc.ListPostsByUser(c.Request.Context(), c.Param("channel_id"), author, query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

// SuppressPost 审核下架，路由层已校验角色
func (s *PostHandler) SuppressPost(c *gin.Context) {
	if err := s.postSvc.SuppressPost(c.Request.Context(), c.Param("post_id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func bindPageQuery(c *gin.Context) (*dto.PageQuery, bool) {
	var query dto.PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return nil, false
	}
	if err := util.ValidateDTO(&query); err != nil {
		response.Error(c, err)
		return nil, false
	}
	return &query, true
}
