package middleware

import (
	"Propermint/internal/pkg/consts"
	"Propermint/internal/pkg/response"
	"Propermint/internal/pkg/security"
	"context"
	log "log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// TokenBlacklist 已注销 Token 的查询与登记
type TokenBlacklist interface {
	IsRevoked(ctx context.Context, signature string) (bool, error)
	Revoke(ctx context.Context, signature string, ttl time.Duration) error
}

// AuthMiddleware 负责验证 JWT 并将用户身份信息注入 Context
func AuthMiddleware(blacklist TokenBlacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			response.Fail(c, response.Unauthorized, "Token 缺失或格式错误")
			c.Abort()
			return
		}

		signature, err := security.ExtractSignature(tokenString)
		if err != nil {
			response.Fail(c, response.Unauthorized, "Token 缺失或格式错误")
			c.Abort()
			return
		}

		revoked, err := blacklist.IsRevoked(c.Request.Context(), signature)
		if err != nil {
			log.ErrorContext(c.Request.Context(), "check token blacklist failed", "err", err)
			response.Fail(c, response.InternalServerError, "未知错误")
			c.Abort()
			return
		}
		if revoked {
			response.Fail(c, response.Unauthorized, "Token 无效或已过期")
			c.Abort()
			return
		}

		claims, err := security.ValidateToken(tokenString)
		if err != nil {
			response.Fail(c, response.Unauthorized, "Token 无效或已过期")
			c.Abort()
			return
		}

		setPrincipal(c, claims)
		c.Set(claimsCtxKey, claims)
		c.Set(signatureCtxKey, signature)

		c.Next()
	}
}

const (
	claimsCtxKey    = "claims"
	signatureCtxKey = "token_signature"
)

// CurrentClaims 当前请求已验证的 Token 信息与签名，仅在 AuthMiddleware 之后可用
func CurrentClaims(c *gin.Context) (*security.UserClaims, string, bool) {
	claims, ok := c.Get(claimsCtxKey)
	if !ok {
		return nil, "", false
	}
	userClaims, ok := claims.(*security.UserClaims)
	if !ok {
		return nil, "", false
	}
	return userClaims, c.GetString(signatureCtxKey), true
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	return token, token != ""
}

func setPrincipal(c *gin.Context, claims *security.UserClaims) {
	c.Set(consts.PrincipalCtxKey, claims.Username)
	c.Set(consts.RolesCtxKey, claims.Roles)

	newCtx := context.WithValue(c.Request.Context(), consts.PrincipalCtxKey, claims.Username)
	c.Request = c.Request.WithContext(newCtx)
}
