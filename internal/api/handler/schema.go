package handler

import (
	"time"

	"github.com/postboard/blog-api/internal/core/domain"
	"github.com/postboard/blog-api/internal/core/ports"
)

// --- Requests ---

type createUserRequest struct {
	Email    string `json:"email"    validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=72"`
}

// loginRequest accepts JSON or the OAuth2 password form, where the email
// travels in the username field.
type loginRequest struct {
	Email    string `json:"email"    form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// postRequest requires title and content to be present; empty strings are
// accepted.
type postRequest struct {
	Title   *string `json:"title"   validate:"required"`
	Content *string `json:"content" validate:"required"`
	// Published defaults to true when omitted.
	Published *bool `json:"published"`
}

func (r postRequest) fields() ports.PostFields {
	published := true
	if r.Published != nil {
		published = *r.Published
	}
	return ports.PostFields{Title: *r.Title, Content: *r.Content, Published: published}
}

type voteRequest struct {
	PostID int64 `json:"post_id" validate:"required,gt=0"`
	Dir    *int  `json:"dir"     validate:"required,oneof=0 1"`
}

// --- Responses ---

type userResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type postBase struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Published bool   `json:"published"`
}

type postResponse struct {
	postBase
	ID        int64        `json:"id"`
	CreatedAt time.Time    `json:"created_at"`
	OwnerID   int64        `json:"owner_id"`
	Owner     userResponse `json:"owner"`
	Votes     int64        `json:"votes"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// errorResponse documents the error envelope written by the central handler.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Mappers ---

func toUserResponse(u *domain.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt}
}

func toPostResponse(p *domain.PostDetail) postResponse {
	return postResponse{
		postBase: postBase{
			Title:     p.Title,
			Content:   p.Content,
			Published: p.Published,
		},
		ID:        p.ID,
		CreatedAt: p.CreatedAt,
		OwnerID:   p.OwnerID,
		Owner:     toUserResponse(&p.Owner),
		Votes:     p.Votes,
	}
}

func toPostResponses(posts []*domain.PostDetail) []postResponse {
	out := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostResponse(p))
	}
	return out
}
