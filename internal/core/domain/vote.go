package domain

import "errors"

var (
	ErrVoteExists   = errors.New("vote already exists")
	ErrVoteNotFound = errors.New("vote does not exist")
)

// VoteDirection is 1 to cast an upvote and 0 to withdraw it.
type VoteDirection int

const (
	VoteRemove VoteDirection = 0
	VoteAdd    VoteDirection = 1
)

// Vote is keyed by (UserID, PostID); its existence is the upvote.
type Vote struct {
	UserID int64
	PostID int64
}
