package model

type Like struct {
	LikeID        string `dynamodbav:"likeId" json:"likeId"`
	ChannelID     string `dynamodbav:"channelId" json:"channelId"`
	PostID        string `dynamodbav:"postId" json:"postId"`
	CommentID     string `dynamodbav:"commentId,omitempty" json:"commentId,omitempty"`
	Author        string `dynamodbav:"author" json:"author"`
	Timestamp     int64  `dynamodbav:"timestamp" json:"timestamp"`
	PostTimestamp int64  `dynamodbav:"postTimestamp" json:"postTimestamp"`
}

func (Like) Kind() Kind {
	return KindLike
}
