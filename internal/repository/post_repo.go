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

// PostCounter 帖子上的派生计数字段
type PostCounter string

const (
	PostTotalLikes    PostCounter = "totalLikes"
	PostTotalComments PostCounter = "totalComments"
)

type PostRepo interface {
	GetPost(ctx context.Context, postID string) (*model.Post, error)
	PutPost(ctx context.Context, post *model.Post) error
	UpdatePostContent(ctx context.Context, post *model.Post) error
	SetPostCount(ctx context.Context, post *model.Post, counter PostCounter, value int) error
	DeletePost(ctx context.Context, post *model.Post) error
	ListPostsByChannel(ctx context.Context, channelID, viewer string, limit int32, token string) (*Page[*model.Post], error)
	ListPostsByUser(ctx context.Context, channelID, author string, limit int32, token string) (*Page[*model.Post], error)
}

type PostRepoImpl struct {
	table
}

func NewPostRepo(api dynamo.API, opts Options) PostRepo {
	return &PostRepoImpl{table: newTable(api, opts)}
}

// GetPost 通过 posts 索引按 postId 点查，不存在时返回 nil
func (s *PostRepoImpl) GetPost(ctx context.Context, postID string) (*model.Post, error) {
	return queryOne[model.Post](ctx, s.table, "get post", dynamo.IndexPosts, dynamo.AttrPostKey, postID)
}

func (s *PostRepoImpl) PutPost(ctx context.Context, post *model.Post) error {
	item, err := itemFor(post)
	if err != nil {
		return err
	}
	return s.put(ctx, "put post", item)
}

// UpdatePostContent 只改写用户可编辑的字段，不触碰计数与状态
func (s *PostRepoImpl) UpdatePostContent(ctx context.Context, post *model.Post) error {
	key, err := primaryKey(post)
	if err != nil {
		return err
	}
	return s.setIfExists(ctx, "update post", key, map[string]types.AttributeValue{
		"title":     str(post.Title),
		"content":   str(post.Content),
		"imagePath": str(post.ImagePath),
	})
}

// SetPostCount 覆盖写入重新计数的结果，帖子已被删除时返回 ErrNotFound
func (s *PostRepoImpl) SetPostCount(ctx context.Context, post *model.Post, counter PostCounter, value int) error {
	key, err := primaryKey(post)
	if err != nil {
		return err
	}
	return s.setIfExists(ctx, "set post count", key, map[string]types.AttributeValue{
		string(counter): &types.AttributeValueMemberN{Value: strconv.Itoa(value)},
	})
}

func (s *PostRepoImpl) DeletePost(ctx context.Context, post *model.Post) error {
	key, err := primaryKey(post)
	if err != nil {
		return err
	}
	return s.delete(ctx, "delete post", key)
}

// ListPostsByChannel 频道内帖子，新的在前；已发布的对所有人可见，处理中的只对作者可见
func (s *PostRepoImpl) ListPostsByChannel(ctx context.Context, channelID, viewer string, limit int32, token string) (*Page[*model.Post], error) {
	out, next, err := s.queryPage(ctx, "list channel posts", &dynamodb.QueryInput{
		KeyConditionExpression: aws.String("#pk = :pk AND begins_with(#sk, :post)"),
		FilterExpression:       aws.String("#status = :live OR (#status = :processing AND #author = :viewer)"),
		ExpressionAttributeNames: map[string]string{
			"#pk":     dynamo.AttrPK,
			"#sk":     dynamo.AttrSK,
			"#status": "status",
			"#author": "author",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":         str(keys.ChannelKey(channelID)),
			":post":       str("POST#"),
			":live":       str(string(model.PostStatusLive)),
			":processing": str(string(model.PostStatusProcessing)),
			":viewer":     str(viewer),
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            s.limit(limit),
	}, token)
	if err != nil {
		return nil, err
	}
	return unmarshalPage[model.Post]("list channel posts", out, next)
}

// ListPostsByUser 某用户在频道内的帖子，按时间倒序
func (s *PostRepoImpl) ListPostsByUser(ctx context.Context, channelID, author string, limit int32, token string) (*Page[*model.Post], error) {
	out, next, err := s.queryPage(ctx, "list user posts", &dynamodb.QueryInput{
		IndexName:              aws.String(dynamo.IndexPostsByUser),
		KeyConditionExpression: aws.String("#cu = :cu"),
		ExpressionAttributeNames: map[string]string{
			"#cu": dynamo.AttrChannelUser,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":cu": str(keys.ChannelUserKey(channelID, author)),
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            s.limit(limit),
	}, token)
	if err != nil {
		return nil, err
	}
	return unmarshalPage[model.Post]("list user posts", out, next)
}
