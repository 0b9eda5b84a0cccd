package repository

import (
	"encoding/base64"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// tokenAttr LastEvaluatedKey 中只会出现字符串或数字键
type tokenAttr struct {
	S *string `json:"s,omitempty"`
	N *string `json:"n,omitempty"`
}

// EncodeToken 将 LastEvaluatedKey 编码为对调用方不透明的字符串
func EncodeToken(key map[string]types.AttributeValue) (string, error) {
	if len(key) == 0 {
		return "", nil
	}
	raw := make(map[string]tokenAttr, len(key))
	for name, v := range key {
		switch av := v.(type) {
		case *types.AttributeValueMemberS:
			s := av.Value
			raw[name] = tokenAttr{S: &s}
		case *types.AttributeValueMemberN:
			n := av.Value
			raw[name] = tokenAttr{N: &n}
		default:
			return "", errors.Errorf("unsupported key attribute type for %s", name)
		}
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// DecodeToken 空 token 表示从头开始
func DecodeToken(token string) (map[string]types.AttributeValue, error) {
	if token == "" {
		return nil, nil
	}
	b, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	var raw map[string]tokenAttr
	if err = json.Unmarshal(b, &raw); err != nil || len(raw) == 0 {
		return nil, ErrInvalidToken
	}

	key := make(map[string]types.AttributeValue, len(raw))
	for name, v := range raw {
		switch {
		case v.S != nil:
			key[name] = &types.AttributeValueMemberS{Value: *v.S}
		case v.N != nil:
			key[name] = &types.AttributeValueMemberN{Value: *v.N}
		default:
			return nil, ErrInvalidToken
		}
	}
	return key, nil
}
