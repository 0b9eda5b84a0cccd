package dto

// PostCreateDTO 发帖请求，post_id 为空时由服务端生成
type PostCreateDTO struct {
	PostID    string `json:"post_id" validate:"omitempty,max=64,excludesall=#:"`
	ChannelID string `json:"channel_id" binding:"required" validate:"min=1,max=64,excludesall=#:"`
	Title     string `json:"title" binding:"required" validate:"min=1,max=255"`
	Content   string `json:"content" binding:"required" validate:"min=1,max=5000"`
	ImagePath string `json:"image_path" validate:"max=255"`
}

// PostUpdateDTO 只允许修改标题、正文和图片
type PostUpdateDTO struct {
	Title     string `json:"title" binding:"required" validate:"min=1,max=255"`
	Content   string `json:"content" binding:"required" validate:"min=1,max=5000"`
	ImagePath string `json:"image_path" validate:"max=255"`
}

type PostDTO struct {
	PostID        string `json:"post_id"`
	ChannelID     string `json:"channel_id"`
	Title         string `json:"title"`
	Content       string `json:"content"`
	Author        string `json:"author"`
	Timestamp     int64  `json:"timestamp"`
	Status        string `json:"status"`
	ImagePath     string `json:"image_path"`
	TotalComments int    `json:"total_comments"`
	TotalLikes    int    `json:"total_likes"`
}

// PostPageDTO 一页帖子，next_token 为空表示没有更多
type PostPageDTO struct {
	Posts     []*PostDTO `json:"posts"`
	NextToken string     `json:"next_token"`
}

// PageQuery 列表分页参数
type PageQuery struct {
	Limit int32  `form:"limit" validate:"min=0,max=100"`
	Token string `form:"token"`
}
