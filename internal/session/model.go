package session

import "time"

// Session is the immutable record of one completed gym visit. Rows are
// inserted exactly once, when a member transitions out of the gym, and are
// never updated afterwards.
type Session struct {
	ID              int       `db:"id" json:"id"`
	MemberID        int       `db:"member_id" json:"member_id"`
	EntryTime       time.Time `db:"entry_time" json:"entry_time"`
	ExitTime        time.Time `db:"exit_time" json:"exit_time"`
	DurationMinutes float64   `db:"duration_minutes" json:"duration_minutes"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

type WithMember struct {
	Session
	MemberName string `db:"member_name" json:"member_name"`
}

type ListResponse struct {
	Count    int          `json:"count"`
	Sessions []WithMember `json:"sessions"`
}
