package ports

import (
	"context"

	"github.com/ideawall/ideawall/internal/core/domain"
)

// FollowRequestResult is returned by CreateRequest.
type FollowRequestResult struct {
	Request *domain.FollowRequest
	// AlreadyExisted is true when a request for the pair already existed and
	// the call was an idempotent replay rather than an insert.
	AlreadyExisted bool
}

// FollowService is the follow-request workflow: the only path by which
// relationship edges are created, and the owner of edge removal.
type FollowService interface {
	// CreateRequest files a pending request from -> to. A request that
	// already exists for the pair (any status) is returned unchanged.
	CreateRequest(ctx context.Context, from, to string) (*FollowRequestResult, error)
	// Respond settles the request (from -> to) as the addressee `to`.
	// Requests already settled are returned unchanged. status must be
	// "accepted" or "rejected".
	Respond(ctx context.Context, to, from, status string) (*domain.FollowRequest, error)

	ListRequests(ctx context.Context, to, status string) ([]domain.FollowRequest, error)
	Followers(ctx context.Context, owner string) ([]string, error)
	Followed(ctx context.Context, owner string) ([]string, error)

	// RemoveFollower revokes follower's access to owner's protected ideas
	// and returns owner's updated follower set. The originating request
	// record keeps its accepted status.
	RemoveFollower(ctx context.Context, owner, follower string) ([]string, error)
	// RemoveFollowed makes owner stop following followed and returns owner's
	// updated followed set. Same non-reconciliation rule.
	RemoveFollowed(ctx context.Context, owner, followed string) ([]string, error)
}
