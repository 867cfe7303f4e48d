package entity

import "time"

// DecisionStatus is the closed set of swipe outcomes a user can record
// about another user. The store rejects anything outside this set.
type DecisionStatus string

const (
	DecisionMatch   DecisionStatus = "match"
	DecisionDislike DecisionStatus = "dislike"
	DecisionUnsure  DecisionStatus = "unsure"
)

func (s DecisionStatus) Valid() bool {
	switch s {
	case DecisionMatch, DecisionDislike, DecisionUnsure:
		return true
	}
	return false
}

func (s DecisionStatus) String() string {
	return string(s)
}

// MatchDecision is one user's recorded decision about another user.
// At most one row exists per (UserID, MatchUserID) pair; a new decision
// for the same pair overwrites the stored status.
//
// MatchedAt is stamped on both reciprocal rows the first time mutuality
// is detected, so the inbox can report when a match happened.
type MatchDecision struct {
	UserID      uint           `gorm:"column:user_id;not null;primaryKey;index:idx_pair_status,priority:1"`
	MatchUserID uint           `gorm:"column:match_user_id;not null;primaryKey;index:idx_pair_status,priority:2"`
	MatchStatus DecisionStatus `gorm:"column:match_status;type:varchar(16);not null;index:idx_pair_status,priority:3"`
	MatchedAt   *time.Time     `gorm:"column:matched_at"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (MatchDecision) TableName() string {
	return "u_matches"
}

// MatchResult is the outcome of evaluating a freshly recorded decision.
type MatchResult struct {
	MatchFound bool   `json:"matchFound"`
	Message    string `json:"message"`
}

// InboxMatch is one entry of a user's inbox: who they matched with and when.
type InboxMatch struct {
	MatchID   uint      `json:"matchId"`
	Timestamp time.Time `json:"timestamp"`
}
