package models

// Vote types.
const (
	VoteUp   = 1
	VoteDown = -1
)

// Vote statuses returned by cast-vote.
const (
	VoteStatusAdded    = "added"
	VoteStatusRemoved  = "removed"
	VoteStatusSwitched = "switched"
)

// Vote is a ledger row recording one user's vote on one target. The unique
// indexes enforce at most one vote per (user, post) and per (user, comment)
// at the storage level, not just in the toggle logic.
type Vote struct {
	ID        uint  `gorm:"primaryKey" json:"id"`
	UserID    uint  `gorm:"not null;uniqueIndex:uniq_user_post_vote;uniqueIndex:uniq_user_comment_vote" json:"user_id"`
	PostID    *uint `gorm:"uniqueIndex:uniq_user_post_vote" json:"post_id,omitempty"`
	CommentID *uint `gorm:"uniqueIndex:uniq_user_comment_vote" json:"comment_id,omitempty"`
	VoteType  int   `gorm:"not null" json:"vote_type"`
}

// VoteResult is the outcome of a cast-vote call: what happened plus the
// counters as of the same transaction.
type VoteResult struct {
	Status    string `json:"status"`
	Upvotes   int    `json:"upvotes"`
	Downvotes int    `json:"downvotes"`

	// Owner of the target, used by the caller to decide whether an upvote
	// notification is due. Not serialized.
	OwnerID *uint `json:"-"`
}
