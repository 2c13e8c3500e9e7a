package domain

import "fmt"

// TargetType names the kind of content a like or a comment is attached to.
type TargetType string

const (
	TargetTopic    TargetType = "topic"
	TargetActivity TargetType = "activity"
	TargetResource TargetType = "resource"
	TargetComment  TargetType = "comment"
)

// Likeable reports whether the type can receive likes.
func (t TargetType) Likeable() bool {
	switch t {
	case TargetTopic, TargetActivity, TargetResource, TargetComment:
		return true
	default:
		return false
	}
}

// Commentable reports whether the type can receive comments.
// Comments are answered through replies, not by commenting on them.
func (t TargetType) Commentable() bool {
	switch t {
	case TargetTopic, TargetActivity, TargetResource:
		return true
	default:
		return false
	}
}

// Target identifies a single piece of content.
type Target struct {
	ID   int64
	Type TargetType
}

func (t Target) String() string {
	return fmt.Sprintf("%s:%d", t.Type, t.ID)
}
