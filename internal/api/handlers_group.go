package api

import (
	"Propermint/internal/api/handler"
	"Propermint/internal/api/middleware"
)

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	PostHandler     *handler.PostHandler
	ReactionHandler *handler.ReactionHandler
	SessionHandler  *handler.SessionHandler
	TokenBlacklist  middleware.TokenBlacklist
}
