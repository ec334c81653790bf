package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ideawall/ideawall/internal/core/domain"
	"github.com/ideawall/ideawall/internal/core/ports"
)

// RelationEventEmitter hands relationship audit events to the async
// dispatcher. Mutations never block on the audit trail.
type RelationEventEmitter interface {
	Enqueue(event ports.RelationEventInput)
}

// FollowService implements the follow-request workflow.
type FollowService struct {
	users   ports.UserRepository
	follows ports.FollowRepository
	locks   ports.PairLocker
	emitter RelationEventEmitter
	logger  zerolog.Logger
}

func NewFollowService(
	users ports.UserRepository,
	follows ports.FollowRepository,
	locks ports.PairLocker,
	emitter RelationEventEmitter,
	logger zerolog.Logger,
) *FollowService {
	return &FollowService{users: users, follows: follows, locks: locks, emitter: emitter, logger: logger}
}

// CreateRequest files a pending follow request from -> to. When a request
// for the pair already exists, in any status, the existing record is
// returned unchanged; replaying a create is not an error.
func (s *FollowService) CreateRequest(ctx context.Context, from, to string) (*ports.FollowRequestResult, error) {
	if from == to {
		return nil, domain.ErrSelfFollow
	}
	if _, err := s.users.FindByUsername(ctx, to); err != nil {
		return nil, fmt.Errorf("create follow request: %w", err)
	}

	// Serialize concurrent creates for the same pair. The partial unique
	// index on pending requests is the store-level backstop when the lock
	// cannot be obtained.
	if s.locks != nil {
		acquired, err := s.locks.Acquire(ctx, from, to)
		if err != nil {
			s.logger.Warn().Err(err).Str("from", from).Str("to", to).Msg("pair lock unavailable, relying on store constraint")
		} else if acquired {
			defer func() {
				if err := s.locks.Release(ctx, from, to); err != nil {
					s.logger.Warn().Err(err).Str("from", from).Str("to", to).Msg("failed to release pair lock")
				}
			}()
		}
	}

	existing, err := s.follows.FindRequest(ctx, from, to)
	if err == nil {
		s.logger.Info().Str("from", from).Str("to", to).Str("status", string(existing.Status)).Msg("follow request replay")
		return &ports.FollowRequestResult{Request: existing, AlreadyExisted: true}, nil
	}
	if !errors.Is(err, domain.ErrRequestNotFound) {
		return nil, fmt.Errorf("create follow request: %w", err)
	}

	now := time.Now().UTC()
	created, err := s.follows.InsertRequest(ctx, &domain.FollowRequest{
		From:      from,
		To:        to,
		Status:    domain.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if errors.Is(err, domain.ErrDuplicateRequest) {
		// Lost a race with a concurrent create; surface the winner.
		winner, findErr := s.follows.FindRequest(ctx, from, to)
		if findErr != nil {
			return nil, fmt.Errorf("create follow request: %w", findErr)
		}
		return &ports.FollowRequestResult{Request: winner, AlreadyExisted: true}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("create follow request: %w", err)
	}

	s.logger.Info().Str("from", from).Str("to", to).Msg("follow request created")
	s.emit(from, to, domain.ActionRequestCreated)

	return &ports.FollowRequestResult{Request: created}, nil
}

// Respond settles the request (from -> to) as the addressee. Requests
// already accepted or rejected are returned unchanged; accepting inserts the
// follow edge in the same transaction as the status write.
func (s *FollowService) Respond(ctx context.Context, to, from, status string) (*domain.FollowRequest, error) {
	newStatus, err := domain.ParseResponseStatus(status)
	if err != nil {
		return nil, err
	}

	req, err := s.follows.FindRequest(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("respond follow request: %w", err)
	}
	if req.Status.IsTerminal() {
		s.logger.Debug().Str("from", from).Str("to", to).Str("status", string(req.Status)).Msg("respond on settled request absorbed")
		return req, nil
	}

	var updated *domain.FollowRequest
	switch newStatus {
	case domain.StatusAccepted:
		updated, err = s.follows.Accept(ctx, from, to)
	case domain.StatusRejected:
		updated, err = s.follows.Reject(ctx, from, to)
	}
	if errors.Is(err, domain.ErrRequestNotFound) {
		// A concurrent respond settled the request between our read and the
		// pending-filtered write. Absorb, returning whatever won.
		settled, findErr := s.follows.FindRequest(ctx, from, to)
		if findErr != nil {
			return nil, fmt.Errorf("respond follow request: %w", findErr)
		}
		return settled, nil
	}
	if err != nil {
		return nil, fmt.Errorf("respond follow request: %w", err)
	}

	s.logger.Info().Str("from", from).Str("to", to).Str("status", string(newStatus)).Msg("follow request settled")
	if newStatus == domain.StatusAccepted {
		s.emit(to, from, domain.ActionRequestAccepted)
	} else {
		s.emit(to, from, domain.ActionRequestRejected)
	}

	return updated, nil
}

func (s *FollowService) ListRequests(ctx context.Context, to, status string) ([]domain.FollowRequest, error) {
	var filter domain.RequestStatus
	if status != "" {
		switch domain.RequestStatus(status) {
		case domain.StatusPending, domain.StatusAccepted, domain.StatusRejected:
			filter = domain.RequestStatus(status)
		default:
			return nil, domain.ErrInvalidStatus
		}
	}
	return s.follows.ListRequests(ctx, to, filter)
}

func (s *FollowService) Followers(ctx context.Context, owner string) ([]string, error) {
	return s.follows.Followers(ctx, owner)
}

func (s *FollowService) Followed(ctx context.Context, owner string) ([]string, error) {
	return s.follows.Followed(ctx, owner)
}

// RemoveFollower revokes follower's access to owner's protected ideas. The
// originating follow request keeps its accepted status.
func (s *FollowService) RemoveFollower(ctx context.Context, owner, follower string) ([]string, error) {
	if err := s.follows.DeleteEdge(ctx, follower, owner); err != nil {
		return nil, fmt.Errorf("remove follower: %w", err)
	}
	s.emit(owner, follower, domain.ActionFollowerRemoved)
	return s.follows.Followers(ctx, owner)
}

// RemoveFollowed makes owner stop following followed.
func (s *FollowService) RemoveFollowed(ctx context.Context, owner, followed string) ([]string, error) {
	if err := s.follows.DeleteEdge(ctx, owner, followed); err != nil {
		return nil, fmt.Errorf("remove followed: %w", err)
	}
	s.emit(owner, followed, domain.ActionFollowedRemoved)
	return s.follows.Followed(ctx, owner)
}

func (s *FollowService) emit(actor, target string, action domain.RelationAction) {
	if s.emitter == nil {
		return
	}
	s.emitter.Enqueue(ports.RelationEventInput{
		Actor:     actor,
		Target:    target,
		Action:    action,
		Timestamp: time.Now().UTC(),
	})
}
