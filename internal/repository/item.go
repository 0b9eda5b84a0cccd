package repository

import (
	"Propermint/internal/model"
	"Propermint/internal/pkg/dynamo"
	"Propermint/internal/pkg/keys"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/pkg/errors"
)

func str(v string) types.AttributeValue {
	return &types.AttributeValueMemberS{Value: v}
}

// primaryKey 按实体类型计算 pk/sk
func primaryKey(e model.Entity) (map[string]types.AttributeValue, error) {
	var pk, sk string
	switch v := e.(type) {
	case *model.Post:
		pk, sk = keys.ChannelKey(v.ChannelID), keys.PostSortKey(v.PostID, v.Timestamp)
	case *model.Comment:
		pk, sk = keys.ReactionKey(v.ChannelID, v.Author), keys.CommentSortKey(v.PostID, v.PostTimestamp, v.CommentID)
	case *model.Like:
		pk, sk = keys.ReactionKey(v.ChannelID, v.Author), keys.LikeSortKey(v.PostID, v.PostTimestamp, v.LikeID)
	default:
		return nil, errors.Errorf("unsupported entity %T", e)
	}
	return map[string]types.AttributeValue{
		dynamo.AttrPK: str(pk),
		dynamo.AttrSK: str(sk),
	}, nil
}

// itemFor 实体字段加上主键、类型标识和所属索引的键
func itemFor(e model.Entity) (map[string]types.AttributeValue, error) {
	key, err := primaryKey(e)
	if err != nil {
		return nil, err
	}
	item, err := attributevalue.MarshalMap(e)
	if err != nil {
		return nil, errors.Wrapf(err, "marshal %s", e.Kind())
	}
	for k, v := range key {
		item[k] = v
	}
	item[dynamo.AttrKind] = str(string(e.Kind()))

	switch v := e.(type) {
	case *model.Post:
		item[dynamo.AttrPostKey] = str(v.PostID)
		item[dynamo.AttrChannelUser] = str(keys.ChannelUserKey(v.ChannelID, v.Author))
	case *model.Comment:
		item[dynamo.AttrCommentKey] = str(v.CommentID)
		item[dynamo.AttrChannelPost] = str(keys.ChannelPostKey(v.ChannelID, v.PostID))
		item[dynamo.AttrReactionTimestamp] = str(keys.CommentReactionKey(v.Timestamp))
		item[dynamo.AttrReactionType] = str(string(model.ReactionComment))
	case *model.Like:
		item[dynamo.AttrChannelPost] = str(keys.ChannelPostKey(v.ChannelID, v.PostID))
		item[dynamo.AttrReactionTimestamp] = str(keys.LikeReactionKey(v.Timestamp))
		item[dynamo.AttrReactionType] = str(string(model.ReactionLike))
	}
	return item, nil
}
