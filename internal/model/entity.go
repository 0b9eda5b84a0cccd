package model

// Kind 单表中的实体类型标识，写入 kind 属性
type Kind string

const (
	KindPost    Kind = "post"
	KindComment Kind = "comment"
	KindLike    Kind = "like"
)

// Entity 共享同一张表的实体
type Entity interface {
	Kind() Kind
}
