package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/postboard/blog-api/internal/api/metrics"
	"github.com/postboard/blog-api/internal/core/domain"
	"github.com/postboard/blog-api/internal/core/ports"
)

type VoteHandler struct {
	service ports.VoteService
}

func NewVoteHandler(service ports.VoteService) *VoteHandler {
	return &VoteHandler{service: service}
}

// Vote handles POST /vote. dir=1 adds the caller's vote, dir=0 removes it.
//
// @Summary      Vote on a post
// @Tags         votes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      voteRequest  true  "Vote"
// @Success      201   {object}  messageResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /vote [post]
func (h *VoteHandler) Vote(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req voteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	dir := domain.VoteDirection(*req.Dir)
	if err := h.service.Vote(c.Request().Context(), userID, req.PostID, dir); err != nil {
		return err
	}

	if dir == domain.VoteAdd {
		metrics.VotesTotal.WithLabelValues("add").Inc()
		return c.JSON(http.StatusCreated, messageResponse{Message: "successfully added vote"})
	}
	metrics.VotesTotal.WithLabelValues("remove").Inc()
	return c.JSON(http.StatusCreated, messageResponse{Message: "successfully deleted vote"})
}
