package api

import (
	"Propermint/internal/api/dto"
	"Propermint/internal/api/handler"
	"Propermint/internal/pkg/consts"
	"Propermint/internal/pkg/security"
	"Propermint/internal/service"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memBlacklist struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func (s *memBlacklist) IsRevoked(_ context.Context, signature string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.revoked[signature]
	return ok, nil
}

func (s *memBlacklist) Revoke(_ context.Context, signature string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[signature] = ttl
	return nil
}

type stubPostService struct {
	service.PostService
	calls      []string
	principal  string
	author     string
	query      *dto.PageQuery
	suppressed string
	err        error
}

func (s *stubPostService) CreatePost(_ context.Context, username string, req *dto.PostCreateDTO) (*dto.PostDTO, error) {
	s.calls = append(s.calls, "create")
	s.principal = username
	if s.err != nil {
		return nil, s.err
	}
	return &dto.PostDTO{PostID: "p1", ChannelID: req.ChannelID, Author: username, Status: "processing"}, nil
}

func (s *stubPostService) GetPostById(_ context.Context, postID string) (*dto.PostDTO, error) {
	s.calls = append(s.calls, "get")
	if s.err != nil {
		return nil, s.err
	}
	return &dto.PostDTO{PostID: postID}, nil
}

func (s *stubPostService) ListPostsByChannel(_ context.Context, viewer, _ string, query *dto.PageQuery) (*dto.PostPageDTO, error) {
	s.calls = append(s.calls, "list channel")
	s.principal = viewer
	s.query = query
	return &dto.PostPageDTO{NextToken: "next"}, nil
}

func (s *stubPostService) ListPostsByUser(_ context.Context, _, author string, query *dto.PageQuery) (*dto.PostPageDTO, error) {
	s.calls = append(s.calls, "list user")
	s.author = author
	s.query = query
	return &dto.PostPageDTO{}, nil
}

func (s *stubPostService) SuppressPost(_ context.Context, postID string) error {
	s.calls = append(s.calls, "suppress")
	s.suppressed = postID
	return s.err
}

type stubReactionService struct {
	service.ReactionService
	calls     []string
	principal string
}

func (s *stubReactionService) LikePost(_ context.Context, username, postID string) (*dto.LikeDTO, error) {
	s.calls = append(s.calls, "like")
	s.principal = username
	return &dto.LikeDTO{PostID: postID, Author: username}, nil
}

func (s *stubReactionService) UnlikePost(_ context.Context, username, _ string) error {
	s.calls = append(s.calls, "unlike")
	s.principal = username
	return nil
}

func (s *stubReactionService) UnlikeComment(_ context.Context, username, _ string) error {
	s.calls = append(s.calls, "unlike comment")
	s.principal = username
	return service.ErrLikeNotFound
}

type harness struct {
	router    *gin.Engine
	posts     *stubPostService
	reactions *stubReactionService
	blacklist *memBlacklist
}

func newHarness() *harness {
	h := &harness{
		posts:     &stubPostService{},
		reactions: &stubReactionService{},
		blacklist: &memBlacklist{revoked: map[string]time.Duration{}},
	}
	h.router = SetupRouter(&HandlersGroup{
		PostHandler:     handler.NewPostHandler(h.posts),
		ReactionHandler: handler.NewReactionHandler(h.reactions),
		SessionHandler:  handler.NewSessionHandler(h.blacklist),
		TokenBlacklist:  h.blacklist,
	})
	return h
}

func (h *harness) do(t *testing.T, method, path, token string, body any) dto.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)

	if w.Header().Get("X-Trace-ID") == "" {
		t.Fatalf("%s %s: missing X-Trace-ID header", method, path)
	}
	var resp dto.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("%s %s: decode response %q: %v", method, path, w.Body.String(), err)
	}
	return resp
}

func token(t *testing.T, username string, roles ...string) string {
	t.Helper()
	tok, err := security.GenerateToken(username, roles)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return tok
}

func TestWritesRequirePrincipal(t *testing.T) {
	h := newHarness()

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/posts"},
		{http.MethodPut, "/api/posts/p1"},
		{http.MethodDelete, "/api/posts/p1"},
		{http.MethodPost, "/api/posts/p1/comments"},
		{http.MethodPost, "/api/posts/p1/like"},
		{http.MethodDelete, "/api/comments/c1"},
		{http.MethodPost, "/api/comments/c1/like"},
		{http.MethodPost, "/api/session/logout"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			resp := h.do(t, tt.method, tt.path, "", map[string]any{"action": 1})
			if resp.Code != http.StatusUnauthorized {
				t.Fatalf("code = %d, want 401", resp.Code)
			}
		})
	}
	if len(h.posts.calls) != 0 || len(h.reactions.calls) != 0 {
		t.Fatalf("services reached without principal: %v %v", h.posts.calls, h.reactions.calls)
	}
}

func TestCreatePostUsesTokenPrincipal(t *testing.T) {
	h := newHarness()

	resp := h.do(t, http.MethodPost, "/api/posts", token(t, "alice"), map[string]any{
		"channel_id": "c1",
		"title":      "hello",
		"content":    "world",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("code = %d (%s), want 200", resp.Code, resp.Message)
	}
	if h.posts.principal != "alice" {
		t.Fatalf("principal = %q, want alice", h.posts.principal)
	}
}

func TestCreatePostRejectsInvalidBody(t *testing.T) {
	h := newHarness()

	resp := h.do(t, http.MethodPost, "/api/posts", token(t, "alice"), map[string]any{
		"channel_id": "c#1",
		"title":      "hello",
		"content":    "world",
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", resp.Code)
	}
	if len(h.posts.calls) != 0 {
		t.Fatalf("service called with invalid body: %v", h.posts.calls)
	}
}

func TestReadsAllowAnonymous(t *testing.T) {
	h := newHarness()

	resp := h.do(t, http.MethodGet, "/api/channels/c1/posts?limit=10&token=abc", "", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", resp.Code)
	}
	if h.posts.principal != "" {
		t.Fatalf("viewer = %q, want anonymous", h.posts.principal)
	}
	if h.posts.query.Limit != 10 || h.posts.query.Token != "abc" {
		t.Fatalf("query = %+v, want limit 10 token abc", h.posts.query)
	}

	h.do(t, http.MethodGet, "/api/channels/c1/posts", token(t, "bob"), nil)
	if h.posts.principal != "bob" {
		t.Fatalf("viewer = %q, want bob", h.posts.principal)
	}

	if resp = h.do(t, http.MethodGet, "/api/channels/c1/posts?limit=1000", "", nil); resp.Code != http.StatusBadRequest {
		t.Fatalf("oversized limit code = %d, want 400", resp.Code)
	}
}

func TestListUserPostsSelfAlias(t *testing.T) {
	h := newHarness()

	h.do(t, http.MethodGet, "/api/channels/c1/users/me/posts", token(t, "carol"), nil)
	if h.posts.author != "carol" {
		t.Fatalf("author = %q, want carol", h.posts.author)
	}

	resp := h.do(t, http.MethodGet, "/api/channels/c1/users/me/posts", "", nil)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous me code = %d, want 401", resp.Code)
	}

	h.do(t, http.MethodGet, "/api/channels/c1/users/dave/posts", "", nil)
	if h.posts.author != "dave" {
		t.Fatalf("author = %q, want dave", h.posts.author)
	}
}

func TestLikeAction(t *testing.T) {
	h := newHarness()
	tok := token(t, "alice")

	if resp := h.do(t, http.MethodPost, "/api/posts/p1/like", tok, map[string]any{"action": 1}); resp.Code != http.StatusOK {
		t.Fatalf("like code = %d, want 200", resp.Code)
	}
	if resp := h.do(t, http.MethodPost, "/api/posts/p1/like", tok, map[string]any{"action": 0}); resp.Code != http.StatusOK {
		t.Fatalf("unlike code = %d, want 200", resp.Code)
	}
	if resp := h.do(t, http.MethodPost, "/api/posts/p1/like", tok, map[string]any{"action": 2}); resp.Code != http.StatusBadRequest {
		t.Fatalf("bad action code = %d, want 400", resp.Code)
	}
	if resp := h.do(t, http.MethodPost, "/api/posts/p1/like", tok, map[string]any{}); resp.Code != http.StatusBadRequest {
		t.Fatalf("missing action code = %d, want 400", resp.Code)
	}
	if resp := h.do(t, http.MethodPost, "/api/comments/c1/like", tok, map[string]any{"action": 0}); resp.Code != http.StatusNotFound {
		t.Fatalf("unlike comment without like code = %d, want 404", resp.Code)
	}

	want := []string{"like", "unlike", "unlike comment"}
	if len(h.reactions.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", h.reactions.calls, want)
	}
	for i := range want {
		if h.reactions.calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", h.reactions.calls, want)
		}
	}
}

func TestSuppressRequiresRole(t *testing.T) {
	h := newHarness()

	if resp := h.do(t, http.MethodPut, "/api/posts/p1/suppress", token(t, "alice"), nil); resp.Code != http.StatusForbidden {
		t.Fatalf("plain user code = %d, want 403", resp.Code)
	}
	if h.posts.suppressed != "" {
		t.Fatalf("suppress reached without role")
	}

	if resp := h.do(t, http.MethodPut, "/api/posts/p1/suppress", token(t, "mod", consts.RoleAudit), nil); resp.Code != http.StatusOK {
		t.Fatalf("auditor code = %d, want 200", resp.Code)
	}
	if h.posts.suppressed != "p1" {
		t.Fatalf("suppressed = %q, want p1", h.posts.suppressed)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	h := newHarness()
	tok := token(t, "alice")

	if resp := h.do(t, http.MethodPost, "/api/session/logout", tok, nil); resp.Code != http.StatusOK {
		t.Fatalf("logout code = %d, want 200", resp.Code)
	}
	sig, _ := security.ExtractSignature(tok)
	ttl, ok := h.blacklist.revoked[sig]
	if !ok || ttl <= 0 || ttl > security.JWTExpirationTime {
		t.Fatalf("revoked = %v (ttl %v), want signature revoked until expiry", ok, ttl)
	}

	resp := h.do(t, http.MethodPost, "/api/posts", tok, map[string]any{"channel_id": "c1", "title": "t", "content": "c"})
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("revoked token code = %d, want 401", resp.Code)
	}
}

func TestServiceErrorsMapToCodes(t *testing.T) {
	h := newHarness()
	h.posts.err = service.ErrPostNotFound

	if resp := h.do(t, http.MethodGet, "/api/posts/missing", "", nil); resp.Code != http.StatusNotFound {
		t.Fatalf("code = %d, want 404", resp.Code)
	}
}
