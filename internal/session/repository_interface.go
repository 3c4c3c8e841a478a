package session

import "context"

type Repository interface {
	// ListByMember returns a member's sessions most recent first. A limit of
	// 0 or less means no cap.
	ListByMember(ctx context.Context, memberID, limit int) ([]WithMember, error)
	ListAll(ctx context.Context, limit int) ([]WithMember, error)
}
