package model

import (
	"errors"

	"github.com/goccy/go-json"
)

type ReactionType string

const (
	ReactionComment ReactionType = "comment"
	ReactionLike    ReactionType = "like"
)

// MutationEvent 评论/点赞变更后投递到队列的事件，字段名是消费端契约
type MutationEvent struct {
	ChannelID    string       `json:"channelId"`
	PostID       string       `json:"postId"`
	CommentID    string       `json:"commentId,omitempty"`
	ReactionType ReactionType `json:"reactionType"`
}

// PostSignal 图片处理相关信号，只携带 postId
type PostSignal struct {
	PostID string `json:"postId"`
}

var ErrMalformedEvent = errors.New("malformed mutation event")

// Validate 消费端只接受字段齐全的事件
func (e *MutationEvent) Validate() error {
	if e.ChannelID == "" || e.PostID == "" {
		return ErrMalformedEvent
	}
	if e.ReactionType != ReactionComment && e.ReactionType != ReactionLike {
		return ErrMalformedEvent
	}
	return nil
}

// ScopeKey 同一计数目标的事件得到同一个值，用于脏集合去重
func (e *MutationEvent) ScopeKey() string {
	return string(e.ReactionType) + ":" + e.ChannelID + ":" + e.PostID + ":" + e.CommentID
}

func EncodeEvent(e *MutationEvent) ([]byte, error) {
	return json.Marshal(e)
}

func DecodeEvent(data []byte) (*MutationEvent, error) {
	var e MutationEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, ErrMalformedEvent
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}

func DecodeSignal(data []byte) (*PostSignal, error) {
	var s PostSignal
	if err := json.Unmarshal(data, &s); err != nil || s.PostID == "" {
		return nil, ErrMalformedEvent
	}
	return &s, nil
}
