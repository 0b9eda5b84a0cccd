package security

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	defaultSecret     = "Propermint"
	defaultIssuer     = "Propermint"
	JWTExpirationTime = time.Hour * 24
)

// UserClaims 网关签发的 Token 中携带的身份信息
type UserClaims struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}
