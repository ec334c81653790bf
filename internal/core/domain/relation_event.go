package domain

import "time"

// RelationAction identifies a relationship mutation recorded in the audit trail.
type RelationAction string

const (
	ActionRequestCreated  RelationAction = "request_created"
	ActionRequestAccepted RelationAction = "request_accepted"
	ActionRequestRejected RelationAction = "request_rejected"
	ActionFollowerRemoved RelationAction = "follower_removed"
	ActionFollowedRemoved RelationAction = "followed_removed"
)

// RelationEvent is an audit record of a relationship mutation. Events are
// written asynchronously and are not part of the mutation's transaction.
type RelationEvent struct {
	Actor     string         `json:"actor" bson:"actor"`
	Target    string         `json:"target" bson:"target"`
	Action    RelationAction `json:"action" bson:"action"`
	Timestamp time.Time      `json:"timestamp" bson:"timestamp"`
}
