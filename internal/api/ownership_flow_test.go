package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/postboard/blog-api/internal/core/domain"
	"github.com/postboard/blog-api/internal/core/ports"
	"github.com/postboard/blog-api/internal/core/service"
	"github.com/postboard/blog-api/internal/infrastructure/security"
)

// memPostRepo is a minimal in-memory PostRepository.
type memPostRepo struct {
	mu     sync.Mutex
	nextID int64
	posts  map[int64]domain.Post
}

func (r *memPostRepo) detail(p domain.Post) *domain.PostDetail {
	return &domain.PostDetail{Post: p, Owner: domain.User{ID: p.OwnerID}}
}

func (r *memPostRepo) Create(_ context.Context, ownerID int64, f ports.PostFields) (*domain.PostDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	p := domain.Post{ID: r.nextID, Title: f.Title, Content: f.Content, Published: f.Published, OwnerID: ownerID}
	r.posts[p.ID] = p
	return r.detail(p), nil
}

func (r *memPostRepo) FindByID(_ context.Context, id int64) (*domain.PostDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	return r.detail(p), nil
}

func (r *memPostRepo) List(_ context.Context, f ports.ListPostsFilter) ([]*domain.PostDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.PostDetail, 0, len(r.posts))
	for _, p := range r.posts {
		if f.OwnerID == 0 || p.OwnerID == f.OwnerID {
			out = append(out, r.detail(p))
		}
	}
	return out, nil
}

func (r *memPostRepo) UpdateOwned(_ context.Context, id, ownerID int64, f ports.PostFields) (*domain.PostDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok || p.OwnerID != ownerID {
		return nil, domain.ErrPostNotFound
	}
	p.Title, p.Content, p.Published = f.Title, f.Content, f.Published
	r.posts[id] = p
	return r.detail(p), nil
}

func (r *memPostRepo) DeleteOwned(_ context.Context, id, ownerID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok || p.OwnerID != ownerID {
		return domain.ErrPostNotFound
	}
	delete(r.posts, id)
	return nil
}

func TestRouter_OwnershipFlow(t *testing.T) {
	tokens, err := security.NewJWTService("0123456789abcdef0123456789abcdef", 0)
	if err != nil {
		t.Fatalf("jwt service: %v", err)
	}
	tokenA, _ := tokens.Issue(1)
	tokenB, _ := tokens.Issue(2)

	posts := &memPostRepo{posts: make(map[int64]domain.Post)}
	r := NewRouter(Deps{
		Log:      zerolog.Nop(),
		Tokens:   tokens,
		Posts:    service.NewPostService(posts, nil, zerolog.Nop()),
		Registry: prometheus.NewRegistry(),
	})

	do := func(method, path, token, body string) *httptest.ResponseRecorder {
		var req *http.Request
		if body != "" {
			req = httptest.NewRequest(method, path, strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
		} else {
			req = httptest.NewRequest(method, path, nil)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	rec := do(http.MethodPost, "/posts", tokenA, `{"title":"mine","content":"body"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		ID      int64 `json:"id"`
		OwnerID int64 `json:"owner_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if created.OwnerID != 1 {
		t.Fatalf("expected owner 1 from the token, got %d", created.OwnerID)
	}
	path := "/posts/" + strconv.FormatInt(created.ID, 10)

	if rec := do(http.MethodGet, path, "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("get without token: expected 401, got %d", rec.Code)
	}
	if rec := do(http.MethodDelete, path, tokenB, ""); rec.Code != http.StatusForbidden {
		t.Fatalf("delete by other user: expected 403, got %d", rec.Code)
	}
	if rec := do(http.MethodPut, path, tokenB, `{"title":"hijack","content":"x"}`); rec.Code != http.StatusForbidden {
		t.Fatalf("update by other user: expected 403, got %d", rec.Code)
	}
	if rec := do(http.MethodGet, path, tokenB, ""); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"title":"mine"`) {
		t.Fatalf("post must be unchanged after rejected writes: %d %s", rec.Code, rec.Body.String())
	}
	if rec := do(http.MethodDelete, path, tokenA, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete by owner: expected 204, got %d", rec.Code)
	}
	if rec := do(http.MethodGet, path, tokenA, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %d", rec.Code)
	}
}
