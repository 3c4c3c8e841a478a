package presence

import (
	"context"
	"time"

	"gymtrack/internal/session"
)

type Repository interface {
	// MarkEntry flips a member to in-gym and stamps the entry time in one
	// conditional update. Returns ErrAlreadyInGym when the member is already
	// inside, member.ErrMemberNotFound when the id does not exist.
	MarkEntry(ctx context.Context, memberID int, entryTime time.Time) error

	// CompleteVisit closes a member's visit inside a single transaction:
	// it records the session and flips the member out of the gym, or repairs
	// an in-gym member with no entry time by flipping the flag without
	// recording anything. The returned session is nil exactly when repaired
	// is true.
	CompleteVisit(ctx context.Context, memberID int, exitTime time.Time) (sess *session.Session, repaired bool, err error)

	// ListStaleIDs returns ids of in-gym members whose entry time predates
	// cutoff, including anomalous rows with no entry time at all.
	ListStaleIDs(ctx context.Context, cutoff time.Time) ([]int, error)

	CountInGym(ctx context.Context) (int, error)
}
