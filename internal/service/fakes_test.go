package service

import (
	"Propermint/internal/model"
	"Propermint/internal/repository"
	"context"
	"sort"
	"strconv"
	"sync"
)

// memPostRepo 内存版帖子仓储，行为与 DynamoDB 实现保持一致
type memPostRepo struct {
	mu     sync.Mutex
	posts  map[string]model.Post
	puts   int
	counts int
	err    error
}

func newMemPostRepo() *memPostRepo {
	return &memPostRepo{posts: map[string]model.Post{}}
}

func (r *memPostRepo) GetPost(_ context.Context, postID string) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	p, ok := r.posts[postID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *memPostRepo) PutPost(_ context.Context, post *model.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.puts++
	r.posts[post.PostID] = *post
	return nil
}

func (r *memPostRepo) UpdatePostContent(_ context.Context, post *model.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[post.PostID]
	if !ok {
		return repository.ErrNotFound
	}
	p.Title, p.Content, p.ImagePath = post.Title, post.Content, post.ImagePath
	r.posts[post.PostID] = p
	return nil
}

func (r *memPostRepo) SetPostCount(_ context.Context, post *model.Post, counter repository.PostCounter, value int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[post.PostID]
	if !ok {
		return repository.ErrNotFound
	}
	r.counts++
	switch counter {
	case repository.PostTotalLikes:
		p.TotalLikes = value
	case repository.PostTotalComments:
		p.TotalComments = value
	}
	r.posts[post.PostID] = p
	return nil
}

func (r *memPostRepo) DeletePost(_ context.Context, post *model.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.posts, post.PostID)
	return nil
}

func (r *memPostRepo) ListPostsByChannel(_ context.Context, channelID, viewer string, _ int32, token string) (*repository.Page[*model.Post], error) {
	return r.list(token, func(p model.Post) bool {
		return p.ChannelID == channelID &&
			(p.Status == model.PostStatusLive || (p.Status == model.PostStatusProcessing && p.Author == viewer))
	})
}

func (r *memPostRepo) ListPostsByUser(_ context.Context, channelID, author string, _ int32, token string) (*repository.Page[*model.Post], error) {
	return r.list(token, func(p model.Post) bool {
		return p.ChannelID == channelID && p.Author == author
	})
}

func (r *memPostRepo) list(token string, match func(model.Post) bool) (*repository.Page[*model.Post], error) {
	if token != "" {
		return nil, repository.ErrInvalidToken
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []*model.Post
	for _, p := range r.posts {
		if match(p) {
			p := p
			items = append(items, &p)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Timestamp > items[j].Timestamp })
	return &repository.Page[*model.Post]{Items: items}, nil
}

// memReactionRepo 计数按 pageSize 分页返回，模拟 DynamoDB 的 1MB 分页
type memReactionRepo struct {
	mu         sync.Mutex
	comments   map[string]model.Comment
	likes      map[string]model.Like
	pageSize   int
	countCalls int
	commentSet int
	err        error
}

func newMemReactionRepo() *memReactionRepo {
	return &memReactionRepo{
		comments: map[string]model.Comment{},
		likes:    map[string]model.Like{},
		pageSize: 50,
	}
}

func (r *memReactionRepo) GetComment(_ context.Context, commentID string) (*model.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[commentID]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *memReactionRepo) PutComment(_ context.Context, comment *model.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.comments[comment.CommentID] = *comment
	return nil
}

func (r *memReactionRepo) SetCommentLikes(_ context.Context, comment *model.Comment, value int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[comment.CommentID]
	if !ok {
		return repository.ErrNotFound
	}
	r.commentSet++
	c.TotalLikes = value
	r.comments[comment.CommentID] = c
	return nil
}

func (r *memReactionRepo) DeleteComment(_ context.Context, comment *model.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.comments, comment.CommentID)
	return nil
}

func (r *memReactionRepo) ListComments(_ context.Context, channelID, postID string, _ int32, _ string) (*repository.Page[*model.Comment], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []*model.Comment
	for _, c := range r.comments {
		if c.ChannelID == channelID && c.PostID == postID {
			c := c
			items = append(items, &c)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Timestamp < items[j].Timestamp })
	return &repository.Page[*model.Comment]{Items: items}, nil
}

func (r *memReactionRepo) GetLike(_ context.Context, likeID string) (*model.Like, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.likes[likeID]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r *memReactionRepo) PutLike(_ context.Context, like *model.Like) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.likes[like.LikeID] = *like
	return nil
}

func (r *memReactionRepo) DeleteLike(_ context.Context, like *model.Like) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.likes, like.LikeID)
	return nil
}

func (r *memReactionRepo) CountReactions(_ context.Context, filter repository.ReactionFilter, token string) (int, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.countCalls++
	if r.err != nil {
		return 0, "", r.err
	}

	var matched []string
	switch filter.Type {
	case model.ReactionComment:
		for id, c := range r.comments {
			if c.ChannelID == filter.ChannelID && c.PostID == filter.PostID {
				matched = append(matched, id)
			}
		}
	case model.ReactionLike:
		for id, l := range r.likes {
			if l.ChannelID == filter.ChannelID && l.PostID == filter.PostID && l.CommentID == filter.CommentID {
				matched = append(matched, id)
			}
		}
	}
	sort.Strings(matched)

	offset := 0
	if token != "" {
		n, err := strconv.Atoi(token)
		if err != nil {
			return 0, "", repository.ErrInvalidToken
		}
		offset = n
	}
	end := offset + r.pageSize
	if end >= len(matched) {
		return len(matched) - offset, "", nil
	}
	return r.pageSize, strconv.Itoa(end), nil
}

type memQueue struct {
	mu     sync.Mutex
	events []*model.MutationEvent
	images []*model.PostSignal
	err    error
}

func (q *memQueue) Enqueue(_ context.Context, event *model.MutationEvent) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	e := *event
	q.events = append(q.events, &e)
	return nil
}

func (q *memQueue) EnqueueImage(_ context.Context, signal *model.PostSignal) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.images = append(q.images, signal)
	return nil
}

// drain 取出并清空已投递事件
func (q *memQueue) drain() []*model.MutationEvent {
	q.mu.Lock()
	defer q.mu.Unlock()
	events := q.events
	q.events = nil
	return events
}

type memDirty struct {
	scopes map[string]*model.MutationEvent
}

func (d *memDirty) MarkDirty(_ context.Context, event *model.MutationEvent) error {
	if d.scopes == nil {
		d.scopes = map[string]*model.MutationEvent{}
	}
	d.scopes[event.ScopeKey()] = event
	return nil
}
