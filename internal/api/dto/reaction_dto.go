package dto

// CommentCreateDTO 创建评论请求
type CommentCreateDTO struct {
	Comment string `json:"comment" binding:"required" validate:"min=1,max=1000"`
}

// CommentDTO 评论返回详情
type CommentDTO struct {
	CommentID     string `json:"comment_id"`
	PostID        string `json:"post_id"`
	PostTimestamp int64  `json:"post_timestamp"`
	ChannelID     string `json:"channel_id"`
	Author        string `json:"author"`
	Comment       string `json:"comment"`
	Timestamp     int64  `json:"timestamp"`
	TotalLikes    int    `json:"total_likes"`
}

type CommentPageDTO struct {
	Comments  []*CommentDTO `json:"comments"`
	NextToken string        `json:"next_token"`
}

type LikeDTO struct {
	LikeID    string `json:"like_id"`
	ChannelID string `json:"channel_id"`
	PostID    string `json:"post_id"`
	CommentID string `json:"comment_id,omitempty"`
	Author    string `json:"author"`
	Timestamp int64  `json:"timestamp"`
}

// ReactionActionReq 点赞通用请求
type ReactionActionReq struct {
	Action *int `json:"action" binding:"required,oneof=0 1"` // 1:点赞, 0:取消
}
