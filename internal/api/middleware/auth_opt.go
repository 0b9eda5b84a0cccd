package middleware

import (
	"Propermint/internal/pkg/consts"
	"Propermint/internal/pkg/security"

	"github.com/gin-gonic/gin"
)

// AuthOptionalMiddleware 可选鉴权：解析成功注入用户名，失败或缺失则为空
func AuthOptionalMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.Set(consts.PrincipalCtxKey, "")
			c.Next()
			return
		}

		claims, err := security.ValidateToken(token)
		if err != nil {
			c.Set(consts.PrincipalCtxKey, "")
		} else {
			setPrincipal(c, claims)
		}

		c.Next()
	}
}
