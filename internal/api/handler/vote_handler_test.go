package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/postboard/blog-api/internal/core/domain"
)

func TestVoteHandler_Vote(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantDir domain.VoteDirection
		wantMsg string
	}{
		{"add", `{"post_id":5,"dir":1}`, domain.VoteAdd, "successfully added vote"},
		{"remove", `{"post_id":5,"dir":0}`, domain.VoteRemove, "successfully deleted vote"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEcho()
			svc := &stubVoteService{
				voteFn: func(ctx context.Context, userID, postID int64, dir domain.VoteDirection) error {
					if userID != 3 || postID != 5 || dir != tt.wantDir {
						t.Fatalf("unexpected args: %d %d %d", userID, postID, dir)
					}
					return nil
				},
			}
			h := NewVoteHandler(svc)

			c, rec := newJSONContext(e, http.MethodPost, "/vote", tt.body, 3)
			if err := h.Vote(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != http.StatusCreated {
				t.Fatalf("expected 201, got %d", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.wantMsg) {
				t.Fatalf("unexpected body: %s", rec.Body.String())
			}
		})
	}
}

func TestVoteHandler_Vote_Invalid(t *testing.T) {
	for _, body := range []string{
		`{"post_id":5}`,
		`{"post_id":5,"dir":2}`,
		`{"post_id":0,"dir":1}`,
	} {
		e := newTestEcho()
		svc := &stubVoteService{
			voteFn: func(ctx context.Context, userID, postID int64, dir domain.VoteDirection) error {
				t.Fatalf("should not be called for %s", body)
				return nil
			},
		}
		h := NewVoteHandler(svc)

		c, _ := newJSONContext(e, http.MethodPost, "/vote", body, 3)
		if err := h.Vote(c); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("%s: expected ErrValidation, got %v", body, err)
		}
	}
}

func TestVoteHandler_Vote_ServiceErrors(t *testing.T) {
	for _, want := range []error{domain.ErrVoteExists, domain.ErrVoteNotFound, domain.ErrPostNotFound} {
		e := newTestEcho()
		svc := &stubVoteService{
			voteFn: func(ctx context.Context, userID, postID int64, dir domain.VoteDirection) error {
				return want
			},
		}
		h := NewVoteHandler(svc)

		c, rec := newJSONContext(e, http.MethodPost, "/vote", `{"post_id":5,"dir":1}`, 3)
		if err := h.Vote(c); !errors.Is(err, want) {
			t.Fatalf("expected %v, got %v", want, err)
		}
		if rec.Body.Len() != 0 {
			t.Fatalf("nothing should be written on error")
		}
	}
}
