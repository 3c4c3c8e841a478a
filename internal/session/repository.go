package session

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(database *sqlx.DB) Repository {
	return &repository{db: database}
}

func (r *repository) ListByMember(ctx context.Context, memberID, limit int) ([]WithMember, error) {
	query := `
		SELECT
			s.id,
			s.member_id,
			s.entry_time,
			s.exit_time,
			s.duration_minutes,
			s.created_at,
			m.name AS member_name
		FROM gym_sessions s
		JOIN members m ON s.member_id = m.id
		WHERE s.member_id = $1
		ORDER BY s.entry_time DESC
	`
	args := []interface{}{memberID}

	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	sessions := []WithMember{}
	err := r.db.SelectContext(ctx, &sessions, query, args...)
	if err != nil {
		return nil, err
	}

	return sessions, nil
}

func (r *repository) ListAll(ctx context.Context, limit int) ([]WithMember, error) {
	query := `
		SELECT
			s.id,
			s.member_id,
			s.entry_time,
			s.exit_time,
			s.duration_minutes,
			s.created_at,
			m.name AS member_name
		FROM gym_sessions s
		JOIN members m ON s.member_id = m.id
		ORDER BY s.entry_time DESC
	`
	args := []interface{}{}

	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	sessions := []WithMember{}
	err := r.db.SelectContext(ctx, &sessions, query, args...)
	if err != nil {
		return nil, err
	}

	return sessions, nil
}
