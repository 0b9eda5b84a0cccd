package dynamo

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// 表与索引的属性名
const (
	AttrPK                = "pk"
	AttrSK                = "sk"
	AttrKind              = "kind"
	AttrPostKey           = "postKey"
	AttrChannelUser       = "channelUser"
	AttrTimestamp         = "timestamp"
	AttrChannelPost       = "channelPost"
	AttrReactionTimestamp = "reactionTimestamp"
	AttrReactionType      = "reactionType"
	AttrCommentKey        = "commentKey"
	AttrCommentID         = "commentId"
	AttrLikeID            = "likeId"
)

// 稀疏二级索引，索引键只写在对应类型的行上
const (
	IndexPosts           = "posts"
	IndexPostsByUser     = "postsByUser"
	IndexReactionsByPost = "reactionsByPost"
	IndexComments        = "comments"
	IndexLikes           = "likes"
)

// EnsureTable 表不存在时创建表及全部二级索引，并等待其可用
func EnsureTable(ctx context.Context, client *dynamodb.Client, table string) error {
	_, err := client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(table)})
	if err == nil {
		return nil
	}
	var notFound *types.ResourceNotFoundException
	if !errors.As(err, &notFound) {
		return fmt.Errorf("describe table %s: %w", table, err)
	}

	log.Info("DynamoDB table not found, creating", "table", table)
	if _, err = client.CreateTable(ctx, tableDefinition(table)); err != nil {
		return fmt.Errorf("create table %s: %w", table, err)
	}

	waiter := dynamodb.NewTableExistsWaiter(client)
	if err = waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(table)}, 2*time.Minute); err != nil {
		return fmt.Errorf("wait for table %s: %w", table, err)
	}
	return nil
}

func tableDefinition(table string) *dynamodb.CreateTableInput {
	str := func(name string) types.AttributeDefinition {
		return types.AttributeDefinition{AttributeName: aws.String(name), AttributeType: types.ScalarAttributeTypeS}
	}
	hash := func(name string) types.KeySchemaElement {
		return types.KeySchemaElement{AttributeName: aws.String(name), KeyType: types.KeyTypeHash}
	}
	rng := func(name string) types.KeySchemaElement {
		return types.KeySchemaElement{AttributeName: aws.String(name), KeyType: types.KeyTypeRange}
	}
	gsi := func(name string, schema ...types.KeySchemaElement) types.GlobalSecondaryIndex {
		return types.GlobalSecondaryIndex{
			IndexName:  aws.String(name),
			KeySchema:  schema,
			Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
		}
	}

	return &dynamodb.CreateTableInput{
		TableName:   aws.String(table),
		BillingMode: types.BillingModePayPerRequest,
		AttributeDefinitions: []types.AttributeDefinition{
			str(AttrPK), str(AttrSK), str(AttrPostKey), str(AttrChannelUser),
			{AttributeName: aws.String(AttrTimestamp), AttributeType: types.ScalarAttributeTypeN},
			str(AttrChannelPost), str(AttrReactionTimestamp), str(AttrCommentKey), str(AttrLikeID),
		},
		KeySchema: []types.KeySchemaElement{hash(AttrPK), rng(AttrSK)},
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
			gsi(IndexPosts, hash(AttrPostKey)),
			gsi(IndexPostsByUser, hash(AttrChannelUser), rng(AttrTimestamp)),
			gsi(IndexReactionsByPost, hash(AttrChannelPost), rng(AttrReactionTimestamp)),
			gsi(IndexComments, hash(AttrCommentKey)),
			gsi(IndexLikes, hash(AttrLikeID)),
		},
	}
}
