package model

type Comment struct {
	CommentID     string `dynamodbav:"commentId" json:"commentId"`
	PostID        string `dynamodbav:"postId" json:"postId"`
	PostTimestamp int64  `dynamodbav:"postTimestamp" json:"postTimestamp"`
	ChannelID     string `dynamodbav:"channelId" json:"channelId"`
	Author        string `dynamodbav:"author" json:"author"`
	Comment       string `dynamodbav:"comment" json:"comment"`
	Timestamp     int64  `dynamodbav:"timestamp" json:"timestamp"`
	TotalLikes    int    `dynamodbav:"totalLikes" json:"totalLikes"`
}

func (Comment) Kind() Kind {
	return KindComment
}
