package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/postboard/blog-api/internal/api/middleware"
	"github.com/postboard/blog-api/internal/core/domain"
	"github.com/postboard/blog-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, email, password string) (*domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (*ports.AccessToken, error)
}

func (s *stubAuthService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	return s.registerFn(ctx, email, password)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.AccessToken, error) {
	return s.loginFn(ctx, email, password)
}

type stubUserService struct {
	getFn func(ctx context.Context, id int64) (*domain.User, error)
}

func (s *stubUserService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.getFn(ctx, id)
}

type stubPostService struct {
	listFn    func(ctx context.Context, userID int64, in ports.ListPostsInput) ([]*domain.PostDetail, error)
	listOwnFn func(ctx context.Context, userID int64) ([]*domain.PostDetail, error)
	getFn     func(ctx context.Context, userID, postID int64) (*domain.PostDetail, error)
	createFn  func(ctx context.Context, in ports.CreatePostInput) (*domain.PostDetail, error)
	updateFn  func(ctx context.Context, userID, postID int64, f ports.PostFields) (*domain.PostDetail, error)
	deleteFn  func(ctx context.Context, userID, postID int64) error
}

func (s *stubPostService) ListPosts(ctx context.Context, userID int64, in ports.ListPostsInput) ([]*domain.PostDetail, error) {
	return s.listFn(ctx, userID, in)
}

func (s *stubPostService) ListOwnPosts(ctx context.Context, userID int64) ([]*domain.PostDetail, error) {
	return s.listOwnFn(ctx, userID)
}

func (s *stubPostService) GetPost(ctx context.Context, userID, postID int64) (*domain.PostDetail, error) {
	return s.getFn(ctx, userID, postID)
}

func (s *stubPostService) CreatePost(ctx context.Context, in ports.CreatePostInput) (*domain.PostDetail, error) {
	return s.createFn(ctx, in)
}

func (s *stubPostService) UpdatePost(ctx context.Context, userID, postID int64, f ports.PostFields) (*domain.PostDetail, error) {
	return s.updateFn(ctx, userID, postID, f)
}

func (s *stubPostService) DeletePost(ctx context.Context, userID, postID int64) error {
	return s.deleteFn(ctx, userID, postID)
}

type stubVoteService struct {
	voteFn func(ctx context.Context, userID, postID int64, dir domain.VoteDirection) error
}

func (s *stubVoteService) Vote(ctx context.Context, userID, postID int64, dir domain.VoteDirection) error {
	return s.voteFn(ctx, userID, postID, dir)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

// newJSONContext builds a context for a JSON request. userID > 0 simulates a
// request that already passed the Auth middleware.
func newJSONContext(e *echo.Echo, method, target, body string, userID int64) (echo.Context, *httptest.ResponseRecorder) {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID > 0 {
		c.Set(middleware.UserIDKey, userID)
	}
	return c, rec
}

func samplePostDetail(id, ownerID int64) *domain.PostDetail {
	return &domain.PostDetail{
		Post:  domain.Post{ID: id, Title: "Hello", Content: "World", Published: true, OwnerID: ownerID},
		Owner: domain.User{ID: ownerID, Email: "owner@example.com", PasswordHash: "secret-digest"},
		Votes: 2,
	}
}
