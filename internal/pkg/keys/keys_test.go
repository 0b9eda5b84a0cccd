package keys

import (
	"strings"
	"testing"
)

func TestKeyFormats(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"channel", ChannelKey("c1"), "CHANNEL#c1"},
		{"reaction", ReactionKey("c1", "alice"), "REACTION#c1#alice"},
		{"channel user", ChannelUserKey("c1", "alice"), "c1#alice"},
		{"channel post", ChannelPostKey("c1", "p1"), "c1#p1"},
		{"post sort", PostSortKey("p1", 1700000000), "POST#1700000000#p1"},
		{"comment sort", CommentSortKey("p1", 1700000000, "cm1"), "POST#1700000000#p1#COMMENT#cm1"},
		{"like sort", LikeSortKey("p1", 1700000000, "LIKE:c1:p1:alice"), "POST#1700000000#p1#LIKE:c1:p1:alice"},
		{"comment reaction", CommentReactionKey(42), "COMMENT#42"},
		{"like reaction", LikeReactionKey(42), "LIKE#42"},
		{"post like id", LikeID("c1", "p1", "alice"), "LIKE:c1:p1:alice"},
		{"comment like id", CommentLikeID("c1", "p1", "cm1", "alice"), "LIKE:c1:p1:cm1:alice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Fatalf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestLikeIDDeterministic(t *testing.T) {
	a := LikeID("c1", "p1", "alice")
	b := LikeID("c1", "p1", "alice")
	if a != b {
		t.Fatalf("LikeID not deterministic: %q != %q", a, b)
	}
	if other := LikeID("c1", "p1", "bob"); other == a {
		t.Fatalf("LikeID for different authors collided: %q", other)
	}
	if onComment := CommentLikeID("c1", "p1", "cm1", "alice"); onComment == a {
		t.Fatalf("comment like id collided with post like id: %q", onComment)
	}
}

func TestSortKeysDoNotCollideAcrossKinds(t *testing.T) {
	post := PostSortKey("p1", 10)
	comment := CommentSortKey("p1", 10, "x")
	like := LikeSortKey("p1", 10, LikeID("c1", "p1", "x"))

	seen := map[string]string{post: "post"}
	for kind, k := range map[string]string{"comment": comment, "like": like} {
		if prev, ok := seen[k]; ok {
			t.Fatalf("%s key %q collides with %s", kind, k, prev)
		}
		seen[k] = kind
		if !strings.HasPrefix(k, post) {
			t.Fatalf("%s key %q is not under post scope %q", kind, k, post)
		}
	}
	if ChannelKey("c1") == ReactionKey("c1", "") {
		t.Fatalf("channel and reaction partitions collided")
	}
}
