package handler

import (
	"Propermint/internal/api/middleware"
	"Propermint/internal/pkg/response"
	"Propermint/internal/pkg/security"
	"Propermint/internal/service"
	log "log/slog"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	blacklist middleware.TokenBlacklist
}

func NewSessionHandler(blacklist middleware.TokenBlacklist) *SessionHandler {
	return &SessionHandler{
		blacklist: blacklist,
	}
}

// Logout 拉黑当前 Token 直到其自然过期
func (s *SessionHandler) Logout(c *gin.Context) {
	claims, signature, ok := middleware.CurrentClaims(c)
	if !ok {
		response.Error(c, service.ErrUnauthorized)
		return
	}

	if err := s.blacklist.Revoke(c.Request.Context(), signature, security.RemainingTTL(claims)); err != nil {
		log.ErrorContext(c.Request.Context(), "revoke token failed", "username", claims.Username, "err", err)
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
