package domain

import (
	"errors"
	"time"
)

// RequestStatus represents the lifecycle state of a follow request.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusAccepted RequestStatus = "accepted"
	StatusRejected RequestStatus = "rejected"
)

// validTransitions defines the allowed state machine transitions.
// Accepted and rejected are terminal: nothing transitions out of them,
// and nothing ever transitions back to pending.
var validTransitions = map[RequestStatus][]RequestStatus{
	StatusPending: {StatusAccepted, StatusRejected},
}

var ErrRequestNotFound = errors.New("follow request not found")
var ErrSelfFollow = errors.New("cannot send a follow request to yourself")
var ErrInvalidStatus = errors.New("invalid follow request status")
var ErrDuplicateRequest = errors.New("follow request already exists")
var ErrEdgeExists = errors.New("follow edge already exists")

// IsTerminal reports whether no further transition is permitted from s.
func (s RequestStatus) IsTerminal() bool {
	return len(validTransitions[s]) == 0
}

// CanTransitionTo reports whether a transition from s to next is valid.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ParseResponseStatus validates a caller-supplied response status. Only the
// two terminal statuses are acceptable answers to a request; "pending" (or
// anything else) is rejected.
func ParseResponseStatus(s string) (RequestStatus, error) {
	switch RequestStatus(s) {
	case StatusAccepted:
		return StatusAccepted, nil
	case StatusRejected:
		return StatusRejected, nil
	default:
		return "", ErrInvalidStatus
	}
}

// FollowRequest is the only path by which follow edges come into existence.
// Created by From targeting To; transitioned only by To.
type FollowRequest struct {
	ID        string        `json:"id" bson:"_id,omitempty"`
	From      string        `json:"from" bson:"from"`
	To        string        `json:"to" bson:"to"`
	Status    RequestStatus `json:"status" bson:"status"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" bson:"updated_at"`
}

// FollowEdge is a directed relationship record: Follower may read the
// protected ideas of Followed. A single edge document represents both
// directions of the pair — followers(U) are the edges with Followed=U,
// followed(U) are the edges with Follower=U — so the two sets can never
// diverge.
type FollowEdge struct {
	Follower  string    `json:"follower" bson:"follower"`
	Followed  string    `json:"followed" bson:"followed"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
