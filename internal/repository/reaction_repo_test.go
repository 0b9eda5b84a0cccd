package repository

import (
	"Propermint/internal/model"
	"Propermint/internal/pkg/keys"
	"context"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func TestPutLikeItems(t *testing.T) {
	api := &fakeAPI{}
	repo := NewReactionRepo(api, Options{Table: "channels"})
	ctx := context.Background()

	postLike := &model.Like{
		LikeID: keys.LikeID("c1", "p1", "bob"), ChannelID: "c1", PostID: "p1",
		Author: "bob", Timestamp: 200, PostTimestamp: 100,
	}
	commentLike := &model.Like{
		LikeID: keys.CommentLikeID("c1", "p1", "cm1", "bob"), ChannelID: "c1", PostID: "p1", CommentID: "cm1",
		Author: "bob", Timestamp: 201, PostTimestamp: 100,
	}
	for _, l := range []*model.Like{postLike, commentLike} {
		if err := repo.PutLike(ctx, l); err != nil {
			t.Fatalf("PutLike: %v", err)
		}
	}

	first := api.puts[0].Item
	if got := attrS(t, first, "pk"); got != "REACTION#c1#bob" {
		t.Fatalf("pk = %q", got)
	}
	if got := attrS(t, first, "sk"); got != "POST#100#p1#LIKE:c1:p1:bob" {
		t.Fatalf("sk = %q", got)
	}
	if got := attrS(t, first, "channelPost"); got != "c1#p1" {
		t.Fatalf("channelPost = %q", got)
	}
	if got := attrS(t, first, "reactionType"); got != "like" {
		t.Fatalf("reactionType = %q", got)
	}
	if got := attrS(t, first, "reactionTimestamp"); got != "LIKE#200" {
		t.Fatalf("reactionTimestamp = %q", got)
	}
	if _, ok := first["commentId"]; ok {
		t.Fatalf("post like must not carry commentId")
	}

	second := api.puts[1].Item
	if got := attrS(t, second, "commentId"); got != "cm1" {
		t.Fatalf("commentId = %q, want cm1", got)
	}
	if attrS(t, first, "sk") == attrS(t, second, "sk") {
		t.Fatalf("post like and comment like share a sort key")
	}
}

func TestPutCommentItem(t *testing.T) {
	api := &fakeAPI{}
	repo := NewReactionRepo(api, Options{Table: "channels"})

	err := repo.PutComment(context.Background(), &model.Comment{
		CommentID: "cm1", PostID: "p1", PostTimestamp: 100, ChannelID: "c1",
		Author: "bob", Comment: "nice", Timestamp: 300,
	})
	if err != nil {
		t.Fatalf("PutComment: %v", err)
	}
	item := api.puts[0].Item
	want := map[string]string{
		"pk":                "REACTION#c1#bob",
		"sk":                "POST#100#p1#COMMENT#cm1",
		"kind":              "comment",
		"commentKey":        "cm1",
		"reactionType":      "comment",
		"reactionTimestamp": "COMMENT#300",
	}
	for name, v := range want {
		if got := attrS(t, item, name); got != v {
			t.Fatalf("%s = %q, want %q", name, got, v)
		}
	}
	if _, ok := item["postKey"]; ok {
		t.Fatalf("comment row must not be visible in the posts index")
	}
}

func TestCountReactionsFilters(t *testing.T) {
	tests := []struct {
		name     string
		filter   ReactionFilter
		contains string
		hasCID   bool
	}{
		{"post comments", ReactionFilter{ChannelID: "c1", PostID: "p1", Type: model.ReactionComment}, "#rt = :rt", false},
		{"post likes", ReactionFilter{ChannelID: "c1", PostID: "p1", Type: model.ReactionLike}, "attribute_not_exists(#cid)", false},
		{"comment likes", ReactionFilter{ChannelID: "c1", PostID: "p1", Type: model.ReactionLike, CommentID: "cm1"}, "#cid = :cid", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{queryOutputs: []*dynamodb.QueryOutput{{Count: 4}}}
			repo := NewReactionRepo(api, Options{Table: "channels", PageSize: 50})

			n, next, err := repo.CountReactions(context.Background(), tt.filter, "")
			if err != nil {
				t.Fatalf("CountReactions: %v", err)
			}
			if n != 4 || next != "" {
				t.Fatalf("got (%d, %q), want (4, \"\")", n, next)
			}

			in := api.queries[0]
			if in.Select != types.SelectCount {
				t.Fatalf("select = %v, want COUNT", in.Select)
			}
			if got := aws.ToString(in.IndexName); got != "reactionsByPost" {
				t.Fatalf("index = %q", got)
			}
			if got := aws.ToString(in.FilterExpression); !strings.Contains(got, tt.contains) {
				t.Fatalf("filter = %q, want to contain %q", got, tt.contains)
			}
			if _, ok := in.ExpressionAttributeValues[":cid"]; ok != tt.hasCID {
				t.Fatalf(":cid present = %v, want %v", ok, tt.hasCID)
			}
			if got := aws.ToInt32(in.Limit); got != 50 {
				t.Fatalf("limit = %d, want 50", got)
			}
		})
	}
}
