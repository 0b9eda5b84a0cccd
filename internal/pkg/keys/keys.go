// Package keys 单表设计下各实体的主键、排序键与索引键编码
package keys

import "strconv"

const (
	channelPrefix  = "CHANNEL#"
	reactionPrefix = "REACTION#"
	postPrefix     = "POST#"
	commentPrefix  = "COMMENT#"
	likePrefix     = "LIKE#"
	likeIDPrefix   = "LIKE:"
	sep            = "#"
)

// ChannelKey 帖子所在分区
func ChannelKey(channelID string) string {
	return channelPrefix + channelID
}

// ReactionKey 某用户在某频道下的评论/点赞分区
func ReactionKey(channelID, author string) string {
	return reactionPrefix + channelID + sep + author
}

// ChannelUserKey postsByUser 索引分区键
func ChannelUserKey(channelID, author string) string {
	return channelID + sep + author
}

// ChannelPostKey reactionsByPost 索引分区键，同一帖子下的评论与点赞共享
func ChannelPostKey(channelID, postID string) string {
	return channelID + sep + postID
}

// PostSortKey 帖子排序键，同时作为评论/点赞排序键的前缀
func PostSortKey(postID string, timestamp int64) string {
	return postPrefix + strconv.FormatInt(timestamp, 10) + sep + postID
}

// CommentSortKey 评论排序键
func CommentSortKey(postID string, postTimestamp int64, commentID string) string {
	return PostSortKey(postID, postTimestamp) + sep + commentPrefix + commentID
}

// LikeSortKey 点赞排序键，likeID 决定唯一性
func LikeSortKey(postID string, postTimestamp int64, likeID string) string {
	return PostSortKey(postID, postTimestamp) + sep + likeID
}

// CommentReactionKey reactionsByPost 索引排序键 (评论)
func CommentReactionKey(timestamp int64) string {
	return commentPrefix + strconv.FormatInt(timestamp, 10)
}

// LikeReactionKey reactionsByPost 索引排序键 (点赞)
func LikeReactionKey(timestamp int64) string {
	return likePrefix + strconv.FormatInt(timestamp, 10)
}

// LikeID 帖子点赞 ID，同一用户对同一帖子永远得到同一个值
func LikeID(channelID, postID, author string) string {
	return likeIDPrefix + channelID + ":" + postID + ":" + author
}

// CommentLikeID 评论点赞 ID
func CommentLikeID(channelID, postID, commentID, author string) string {
	return likeIDPrefix + channelID + ":" + postID + ":" + commentID + ":" + author
}
