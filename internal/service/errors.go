package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	Conflict            = 409
	InternalServerError = 500
)

var (
	ErrParamInvalid      = errors.New("参数错误")
	ErrUnauthorized      = errors.New("未登录")
	ErrNotOwner          = errors.New("只能操作自己的内容")
	ErrPostNotFound      = errors.New("帖子不存在")
	ErrPostExists        = errors.New("帖子 ID 已被占用")
	ErrCommentNotFound   = errors.New("评论不存在")
	ErrLikeNotFound      = errors.New("尚未点赞")
	ErrInvalidTransition = errors.New("帖子状态不允许该操作")
	ErrInvalidToken      = errors.New("分页参数无效")
	UnauthorizedError    = errors.New("权限不足")
	UnExpectedError      = errors.New("系统异常，请稍后重试")
)

// 异步侧错误，不直接返回给调用方
var (
	ErrQueueUnavailable = errors.New("queue unavailable")
	ErrOrphanedEvent    = errors.New("orphaned event")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:      BadRequest,
	ErrUnauthorized:      Unauthorized,
	ErrNotOwner:          Forbidden,
	ErrPostNotFound:      NotFound,
	ErrPostExists:        Conflict,
	ErrCommentNotFound:   NotFound,
	ErrLikeNotFound:      NotFound,
	ErrInvalidTransition: BadRequest,
	ErrInvalidToken:      BadRequest,
	UnauthorizedError:    Forbidden,
	UnExpectedError:      InternalServerError,
}
