package security

import (
	"Propermint/internal/api/config"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const keySeparators = "#:"

func secret() []byte {
	if config.Cfg.Security.JWTSecret != "" {
		return []byte(config.Cfg.Security.JWTSecret)
	}
	return []byte(defaultSecret)
}

func issuer() string {
	if config.Cfg.Security.JWTIssuer != "" {
		return config.Cfg.Security.JWTIssuer
	}
	return defaultIssuer
}

// GenerateToken 生成一个新的 JWT Token，主要用于联调与测试
func GenerateToken(username string, roles []string) (string, error) {
	now := time.Now()

	claims := &UserClaims{
		Username: username,
		Roles:    roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(now.Add(JWTExpirationTime)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(secret())
	if err != nil {
		return "", fmt.Errorf("签名 Token 失败: %w", err)
	}

	return tokenString, nil
}

// ValidateToken 验证 Token 字符串并解析出 Claims
func ValidateToken(tokenString string) (*UserClaims, error) {
	claims := &UserClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("非预期的签名方法: %v", token.Header["alg"])
		}
		return secret(), nil
	}, jwt.WithIssuer(issuer()))

	if err != nil {
		return nil, fmt.Errorf("token 解析失败: %w", err)
	}

	if !token.Valid {
		return nil, errors.New("token 无效或已过期")
	}
	if claims.Username == "" {
		return nil, errors.New("token 缺少用户名")
	}
	// 用户名会拼进主键和 likeId，不能含分隔符
	if strings.ContainsAny(claims.Username, keySeparators) {
		return nil, errors.New("token 用户名含非法字符")
	}

	return claims, nil
}

// ExtractSignature 从 Token 字符串中提取签名
func ExtractSignature(tokenString string) (string, error) {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 || parts[2] == "" {
		return "", errors.New("token 格式不正确")
	}
	return parts[2], nil
}

// RemainingTTL Token 距离过期的剩余时间，已过期返回 0
func RemainingTTL(claims *UserClaims) time.Duration {
	if claims.ExpiresAt == nil {
		return JWTExpirationTime
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl < 0 {
		return 0
	}
	return ttl
}
