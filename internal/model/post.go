package model

type PostStatus string

const (
	PostStatusProcessing PostStatus = "processing"
	PostStatusLive       PostStatus = "live"
	PostStatusSuppressed PostStatus = "suppressed"
)

// CanTransitionTo processing -> live 只发生一次，suppressed 为终态，任何状态都不能回到 processing
func (s PostStatus) CanTransitionTo(next PostStatus) bool {
	switch s {
	case PostStatusProcessing:
		return next == PostStatusLive || next == PostStatusSuppressed
	case PostStatusLive:
		return next == PostStatusSuppressed
	default:
		return false
	}
}

type Post struct {
	PostID        string     `dynamodbav:"postId" json:"postId"`
	ChannelID     string     `dynamodbav:"channelId" json:"channelId"`
	Title         string     `dynamodbav:"title" json:"title"`
	Content       string     `dynamodbav:"content" json:"content"`
	Author        string     `dynamodbav:"author" json:"author"`
	Timestamp     int64      `dynamodbav:"timestamp" json:"timestamp"`
	Status        PostStatus `dynamodbav:"status" json:"status"`
	ImagePath     string     `dynamodbav:"imagePath" json:"imagePath"`
	TotalComments int        `dynamodbav:"totalComments" json:"totalComments"`
	TotalLikes    int        `dynamodbav:"totalLikes" json:"totalLikes"`
}

func (Post) Kind() Kind {
	return KindPost
}
