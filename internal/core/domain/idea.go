package domain

import (
	"errors"
	"time"
)

// Visibility is the per-idea access tier controlling which viewers may read it.
type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityProtected Visibility = "protected"
	VisibilityPrivate   Visibility = "private"
)

// MaxIdeaLength is the character cap on idea text.
const MaxIdeaLength = 150

var ErrIdeaNotFound = errors.New("idea not found")
var ErrInvalidVisibility = errors.New("invalid visibility")
var ErrTextTooLong = errors.New("idea text exceeds maximum length")
var ErrEmptyText = errors.New("idea text must not be empty")

// ParseVisibility validates a caller-supplied visibility string. An empty
// value defaults to public.
func ParseVisibility(s string) (Visibility, error) {
	switch Visibility(s) {
	case VisibilityPublic, VisibilityProtected, VisibilityPrivate:
		return Visibility(s), nil
	case "":
		return VisibilityPublic, nil
	default:
		return "", ErrInvalidVisibility
	}
}

// ReadableBy decides whether viewer may read an idea with this visibility
// written by author. followsAuthor must hold iff a follow edge
// (viewer -> author) exists. Pure: no side effects, answer depends only on
// the arguments.
func (v Visibility) ReadableBy(viewer, author string, followsAuthor bool) bool {
	switch v {
	case VisibilityPublic:
		return true
	case VisibilityPrivate:
		return viewer == author
	case VisibilityProtected:
		return viewer == author || followsAuthor
	default:
		return false
	}
}

// Idea is a short text post owned exclusively by its author.
type Idea struct {
	ID         string     `json:"id" bson:"_id,omitempty"`
	Author     string     `json:"author" bson:"author"`
	Text       string     `json:"text" bson:"text"`
	Visibility Visibility `json:"visibility" bson:"visibility"`
	CreatedAt  time.Time  `json:"created_at" bson:"created_at"`
}
