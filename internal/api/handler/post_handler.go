package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/postboard/blog-api/internal/api/metrics"
	"github.com/postboard/blog-api/internal/core/domain"
	"github.com/postboard/blog-api/internal/core/ports"
)

const headerIdempotencyKey = "Idempotency-Key"

// PostHandler handles the /posts resource. Every route sits behind the Auth
// middleware.
type PostHandler struct {
	service ports.PostService
}

func NewPostHandler(service ports.PostService) *PostHandler {
	return &PostHandler{service: service}
}

// List handles GET /posts.
//
// @Summary      List posts
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query     int     false  "Page size (default 10, max 100)"
// @Param        skip    query     int     false  "Number of posts to skip"
// @Param        search  query     string  false  "Case-insensitive title substring"
// @Success      200     {array}   postResponse
// @Failure      400     {object}  errorResponse
// @Failure      401     {object}  errorResponse
// @Router       /posts [get]
func (h *PostHandler) List(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var in ports.ListPostsInput
	if err := echo.QueryParamsBinder(c).
		Int("limit", &in.Limit).
		Int("skip", &in.Skip).
		String("search", &in.Search).
		BindError(); err != nil {
		return err
	}

	posts, err := h.service.ListPosts(c.Request().Context(), userID, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponses(posts))
}

// ListOwn handles GET /posts/owner.
//
// @Summary      List the caller's posts
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   postResponse
// @Failure      401  {object}  errorResponse
// @Router       /posts/owner [get]
func (h *PostHandler) ListOwn(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	posts, err := h.service.ListOwnPosts(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponses(posts))
}

// Get handles GET /posts/:id.
//
// @Summary      Get a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Post id"
// @Success      200  {object}  postResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /posts/{id} [get]
func (h *PostHandler) Get(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	postID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	post, err := h.service.GetPost(c.Request().Context(), userID, postID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponse(post))
}

// Create handles POST /posts.
//
// @Summary      Create a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string       false  "Replays return the originally created post"
// @Param        body             body      postRequest  true   "Post content"
// @Success      201              {object}  postResponse
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Failure      422              {object}  errorResponse
// @Router       /posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req postRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.service.CreatePost(c.Request().Context(), ports.CreatePostInput{
		UserID:         userID,
		Fields:         req.fields(),
		IdempotencyKey: c.Request().Header.Get(headerIdempotencyKey),
	})
	if err != nil {
		countMutation("create", err)
		return err
	}

	countMutation("create", nil)
	return c.JSON(http.StatusCreated, toPostResponse(post))
}

// Update handles PUT /posts/:id.
//
// @Summary      Replace a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int          true  "Post id"
// @Param        body  body      postRequest  true  "Post content"
// @Success      200   {object}  postResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /posts/{id} [put]
func (h *PostHandler) Update(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	postID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req postRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.service.UpdatePost(c.Request().Context(), userID, postID, req.fields())
	countMutation("update", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponse(post))
}

// Delete handles DELETE /posts/:id.
//
// @Summary      Delete a post
// @Tags         posts
// @Security     BearerAuth
// @Param        id   path  int  true  "Post id"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /posts/{id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	postID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	err = h.service.DeletePost(c.Request().Context(), userID, postID)
	countMutation("delete", err)
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func countMutation(op string, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrForbidden):
		outcome = "forbidden"
	case errors.Is(err, domain.ErrPostNotFound):
		outcome = "not_found"
	case errors.Is(err, domain.ErrValidation):
		outcome = "invalid"
	case errors.Is(err, domain.ErrIdempotencyInProgress):
		outcome = "conflict"
	default:
		outcome = "error"
	}
	metrics.PostMutationsTotal.WithLabelValues(op, outcome).Inc()
}
