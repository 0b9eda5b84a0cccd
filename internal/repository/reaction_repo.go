package repository

import (
	"Propermint/internal/model"
	"Propermint/internal/pkg/dynamo"
	"Propermint/internal/pkg/keys"
	"context"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ReactionFilter 一个帖子范围内的计数条件
// Type=like 且 CommentID 为空时只统计帖子本身的点赞
type ReactionFilter struct {
	ChannelID string
	PostID    string
	Type      model.ReactionType
	CommentID string
}

type ReactionRepo interface {
	GetComment(ctx context.Context, commentID string) (*model.Comment, error)
	PutComment(ctx context.Context, comment *model.Comment) error
	SetCommentLikes(ctx context.Context, comment *model.Comment, value int) error
	DeleteComment(ctx context.Context, comment *model.Comment) error
	ListComments(ctx context.Context, channelID, postID string, limit int32, token string) (*Page[*model.Comment], error)

	GetLike(ctx context.Context, likeID string) (*model.Like, error)
	PutLike(ctx context.Context, like *model.Like) error
	DeleteLike(ctx context.Context, like *model.Like) error

	// CountReactions 统计一页匹配行数，调用方需循环直到返回的 token 为空
	CountReactions(ctx context.Context, filter ReactionFilter, token string) (int, string, error)
}

type ReactionRepoImpl struct {
	table
}

func NewReactionRepo(api dynamo.API, opts Options) ReactionRepo {
	return &ReactionRepoImpl{table: newTable(api, opts)}
}

func (s *ReactionRepoImpl) GetComment(ctx context.Context, commentID string) (*model.Comment, error) {
	return queryOne[model.Comment](ctx, s.table, "get comment", dynamo.IndexComments, dynamo.AttrCommentKey, commentID)
}

func (s *ReactionRepoImpl) PutComment(ctx context.Context, comment *model.Comment) error {
	item, err := itemFor(comment)
	if err != nil {
		return err
	}
	return s.put(ctx, "put comment", item)
}

func (s *ReactionRepoImpl) SetCommentLikes(ctx context.Context, comment *model.Comment, value int) error {
	key, err := primaryKey(comment)
	if err != nil {
		return err
	}
	return s.setIfExists(ctx, "set comment likes", key, map[string]types.AttributeValue{
		"totalLikes": &types.AttributeValueMemberN{Value: strconv.Itoa(value)},
	})
}

func (s *ReactionRepoImpl) DeleteComment(ctx context.Context, comment *model.Comment) error {
	key, err := primaryKey(comment)
	if err != nil {
		return err
	}
	return s.delete(ctx, "delete comment", key)
}

// ListComments 帖子下的评论，按评论时间正序
func (s *ReactionRepoImpl) ListComments(ctx context.Context, channelID, postID string, limit int32, token string) (*Page[*model.Comment], error) {
	out, next, err := s.queryPage(ctx, "list comments", &dynamodb.QueryInput{
		IndexName:              aws.String(dynamo.IndexReactionsByPost),
		KeyConditionExpression: aws.String("#cp = :cp AND begins_with(#rt, :comment)"),
		ExpressionAttributeNames: map[string]string{
			"#cp": dynamo.AttrChannelPost,
			"#rt": dynamo.AttrReactionTimestamp,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":cp":      str(keys.ChannelPostKey(channelID, postID)),
			":comment": str("COMMENT#"),
		},
		Limit: s.limit(limit),
	}, token)
	if err != nil {
		return nil, err
	}
	return unmarshalPage[model.Comment]("list comments", out, next)
}

func (s *ReactionRepoImpl) GetLike(ctx context.Context, likeID string) (*model.Like, error) {
	return queryOne[model.Like](ctx, s.table, "get like", dynamo.IndexLikes, dynamo.AttrLikeID, likeID)
}

// PutLike 以 likeId 为排序键的一部分，重复点赞覆盖同一行
func (s *ReactionRepoImpl) PutLike(ctx context.Context, like *model.Like) error {
	item, err := itemFor(like)
	if err != nil {
		return err
	}
	return s.put(ctx, "put like", item)
}

func (s *ReactionRepoImpl) DeleteLike(ctx context.Context, like *model.Like) error {
	key, err := primaryKey(like)
	if err != nil {
		return err
	}
	return s.delete(ctx, "delete like", key)
}

func (s *ReactionRepoImpl) CountReactions(ctx context.Context, filter ReactionFilter, token string) (int, string, error) {
	names := map[string]string{
		"#cp": dynamo.AttrChannelPost,
		"#rt": dynamo.AttrReactionType,
	}
	values := map[string]types.AttributeValue{
		":cp": str(keys.ChannelPostKey(filter.ChannelID, filter.PostID)),
		":rt": str(string(filter.Type)),
	}
	expr := "#rt = :rt"
	if filter.Type == model.ReactionLike {
		names["#cid"] = dynamo.AttrCommentID
		if filter.CommentID != "" {
			expr += " AND #cid = :cid"
			values[":cid"] = str(filter.CommentID)
		} else {
			expr += " AND attribute_not_exists(#cid)"
		}
	}

	out, next, err := s.queryPage(ctx, "count reactions", &dynamodb.QueryInput{
		IndexName:                 aws.String(dynamo.IndexReactionsByPost),
		KeyConditionExpression:    aws.String("#cp = :cp"),
		FilterExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		Select:                    types.SelectCount,
		Limit:                     s.limit(0),
	}, token)
	if err != nil {
		return 0, "", err
	}
	return int(out.Count), next, nil
}
