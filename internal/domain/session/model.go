package session

import "time"

// Session is one private contest between a user and a friend over a single
// real match. Sessions are created by the excluded CRUD layer; this core only
// reads them.
type Session struct {
	ID        string
	UserID    string
	FriendID  string
	MatchID   string
	MatchName string
	RuleSetID string
	CreatedAt time.Time
}
