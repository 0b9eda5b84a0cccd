package repository

import (
	"Propermint/internal/pkg/dynamo"
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/pkg/errors"
)

var (
	// ErrStoreUnavailable 存储调用失败或超时，仓储层不重试
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrNotFound 条件写入时目标行已不存在
	ErrNotFound = errors.New("entity not found")
	// ErrInvalidToken 分页 token 无法解析
	ErrInvalidToken = errors.New("invalid continuation token")
)

// StoreError 携带失败的操作名，errors.Is(err, ErrStoreUnavailable) 为真
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return "store unavailable: " + e.Op + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Is(target error) bool {
	return target == ErrStoreUnavailable
}

func unavailable(op string, err error) error {
	return errors.WithStack(&StoreError{Op: op, Err: err})
}

// Page 一页结果，NextToken 为空表示已到末尾
type Page[T any] struct {
	Items     []T
	NextToken string
}

// Options 仓储公共参数
type Options struct {
	Table    string
	PageSize int32
	Timeout  time.Duration
}

type table struct {
	api      dynamo.API
	name     string
	pageSize int32
	timeout  time.Duration
}

func newTable(api dynamo.API, opts Options) table {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	return table{api: api, name: opts.Table, pageSize: opts.PageSize, timeout: opts.Timeout}
}

func (t table) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, t.timeout)
}

func (t table) put(ctx context.Context, op string, item map[string]types.AttributeValue) error {
	ctx, cancel := t.withTimeout(ctx)
	defer cancel()

	_, err := t.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(t.name),
		Item:      item,
	})
	if err != nil {
		return unavailable(op, err)
	}
	return nil
}

func (t table) delete(ctx context.Context, op string, key map[string]types.AttributeValue) error {
	ctx, cancel := t.withTimeout(ctx)
	defer cancel()

	_, err := t.api.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(t.name),
		Key:       key,
	})
	if err != nil {
		return unavailable(op, err)
	}
	return nil
}

// setIfExists 只更新给定字段，目标行不存在时返回 ErrNotFound
func (t table) setIfExists(ctx context.Context, op string, key map[string]types.AttributeValue, fields map[string]types.AttributeValue) error {
	ctx, cancel := t.withTimeout(ctx)
	defer cancel()

	fieldNames := make([]string, 0, len(fields))
	for name := range fields {
		fieldNames = append(fieldNames, name)
	}
	sort.Strings(fieldNames)

	names := map[string]string{"#pk": dynamo.AttrPK}
	values := make(map[string]types.AttributeValue, len(fields))
	expr := "SET "
	for i, name := range fieldNames {
		placeholder := "#f" + strconv.Itoa(i)
		valueKey := ":v" + strconv.Itoa(i)
		names[placeholder] = name
		values[valueKey] = fields[name]
		if i > 0 {
			expr += ", "
		}
		expr += placeholder + " = " + valueKey
	}

	_, err := t.api.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(t.name),
		Key:                       key,
		UpdateExpression:          aws.String(expr),
		ConditionExpression:       aws.String("attribute_exists(#pk)"),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return ErrNotFound
		}
		return unavailable(op, err)
	}
	return nil
}

// queryPage 执行一次查询并返回原始结果与下一页 token
func (t table) queryPage(ctx context.Context, op string, in *dynamodb.QueryInput, token string) (*dynamodb.QueryOutput, string, error) {
	startKey, err := DecodeToken(token)
	if err != nil {
		return nil, "", err
	}
	in.TableName = aws.String(t.name)
	in.ExclusiveStartKey = startKey

	ctx, cancel := t.withTimeout(ctx)
	defer cancel()

	out, err := t.api.Query(ctx, in)
	if err != nil {
		return nil, "", unavailable(op, err)
	}
	next, err := EncodeToken(out.LastEvaluatedKey)
	if err != nil {
		return nil, "", unavailable(op, err)
	}
	return out, next, nil
}

// queryOne 在稀疏索引上按键点查，未命中返回 nil
func queryOne[T any](ctx context.Context, t table, op, index, attr, value string) (*T, error) {
	out, _, err := t.queryPage(ctx, op, &dynamodb.QueryInput{
		IndexName:              aws.String(index),
		KeyConditionExpression: aws.String("#k = :k"),
		ExpressionAttributeNames: map[string]string{
			"#k": attr,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":k": &types.AttributeValueMemberS{Value: value},
		},
		Limit: aws.Int32(1),
	}, "")
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, nil
	}

	var v T
	if err = attributevalue.UnmarshalMap(out.Items[0], &v); err != nil {
		return nil, errors.Wrapf(err, "%s: unmarshal item", op)
	}
	return &v, nil
}

func unmarshalPage[T any](op string, out *dynamodb.QueryOutput, next string) (*Page[*T], error) {
	items := make([]*T, 0, len(out.Items))
	for _, raw := range out.Items {
		var v T
		if err := attributevalue.UnmarshalMap(raw, &v); err != nil {
			return nil, errors.Wrapf(err, "%s: unmarshal item", op)
		}
		items = append(items, &v)
	}
	return &Page[*T]{Items: items, NextToken: next}, nil
}

func (t table) limit(requested int32) *int32 {
	if requested > 0 {
		return aws.Int32(requested)
	}
	if t.pageSize > 0 {
		return aws.Int32(t.pageSize)
	}
	return nil
}
