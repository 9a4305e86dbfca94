package models

import "fmt"

// TargetKind identifies which table an engagement action refers to.
type TargetKind string

const (
	TargetPost    TargetKind = "post"
	TargetComment TargetKind = "comment"
)

// Target names the post or comment a vote, reaction, or share applies to.
// Carrying the pair explicitly keeps "both IDs set" and "neither ID set"
// unrepresentable past the request-parsing boundary.
type Target struct {
	Kind TargetKind
	ID   uint
}

func (t Target) String() string {
	return fmt.Sprintf("%s/%d", t.Kind, t.ID)
}

// PostTarget returns a Target referring to a post.
func PostTarget(id uint) Target {
	return Target{Kind: TargetPost, ID: id}
}

// CommentTarget returns a Target referring to a comment.
func CommentTarget(id uint) Target {
	return Target{Kind: TargetComment, ID: id}
}

// ParseTarget builds a Target from the optional post_id/comment_id pair used
// on the wire. Exactly one of the two must be set.
func ParseTarget(postID, commentID *uint) (Target, error) {
	switch {
	case postID == nil && commentID == nil:
		return Target{}, NewValidationError("Must provide post_id or comment_id")
	case postID != nil && commentID != nil:
		return Target{}, NewValidationError("Cannot reference both a post and a comment at once")
	case postID != nil:
		return PostTarget(*postID), nil
	default:
		return CommentTarget(*commentID), nil
	}
}

// PostID returns the target id as a nullable post foreign key.
func (t Target) PostID() *uint {
	if t.Kind == TargetPost {
		id := t.ID
		return &id
	}
	return nil
}

// CommentID returns the target id as a nullable comment foreign key.
func (t Target) CommentID() *uint {
	if t.Kind == TargetComment {
		id := t.ID
		return &id
	}
	return nil
}
