package ports

import (
	"context"

	"github.com/ideawall/ideawall/internal/core/domain"
)

// FollowRepository defines persistence for follow requests and follow edges.
//
// The store enforces two uniqueness invariants: at most one pending request
// per (from, to) pair, and at most one edge per (follower, followed) pair.
// InsertRequest returns domain.ErrDuplicateRequest when the pending
// constraint is violated by a concurrent insert.
type FollowRepository interface {
	InsertRequest(ctx context.Context, req *domain.FollowRequest) (*domain.FollowRequest, error)
	FindRequest(ctx context.Context, from, to string) (*domain.FollowRequest, error)
	// ListRequests returns requests addressed to `to`, newest first.
	// An empty status lists all of them.
	ListRequests(ctx context.Context, to string, status domain.RequestStatus) ([]domain.FollowRequest, error)

	// Accept atomically marks the pending request (from, to) accepted and
	// inserts the follow edge (from -> to) in the same transaction. It
	// returns domain.ErrRequestNotFound when no pending request matches,
	// which happens when a concurrent respond already settled it.
	Accept(ctx context.Context, from, to string) (*domain.FollowRequest, error)
	// Reject marks the pending request (from, to) rejected. Same
	// pending-filtered contract as Accept.
	Reject(ctx context.Context, from, to string) (*domain.FollowRequest, error)

	// Followers returns the usernames permitted to read owner's protected
	// ideas; Followed returns the usernames owner has been granted access to.
	Followers(ctx context.Context, owner string) ([]string, error)
	Followed(ctx context.Context, owner string) ([]string, error)
	// HasEdge reports whether follower may read followed's protected ideas.
	HasEdge(ctx context.Context, follower, followed string) (bool, error)
	// DeleteEdge removes the (follower, followed) edge. Removing an absent
	// edge is a no-op. FollowRequest records are never touched here.
	DeleteEdge(ctx context.Context, follower, followed string) error

	// DeleteAllForUser removes every request and edge referencing username,
	// in either direction. Used when an account is deleted.
	DeleteAllForUser(ctx context.Context, username string) error
}

// PairLocker serializes create-request races on a (from, to) pair across
// processes. Acquire reports false when another caller holds the lock.
type PairLocker interface {
	Acquire(ctx context.Context, from, to string) (bool, error)
	Release(ctx context.Context, from, to string) error
}
