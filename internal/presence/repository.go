package presence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"gymtrack/internal/db"
	"gymtrack/internal/member"
	"gymtrack/internal/session"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(database *sqlx.DB) Repository {
	return &repository{db: database}
}

func (r *repository) MarkEntry(ctx context.Context, memberID int, entryTime time.Time) error {
	// Conditional update so two racing check-ins cannot both succeed: the
	// loser matches zero rows.
	query := `
		UPDATE members
		SET is_in_gym = TRUE, entry_time = $2
		WHERE id = $1 AND is_in_gym = FALSE
	`

	result, err := r.db.ExecContext(ctx, query, memberID, entryTime)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		exists, err := db.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM members WHERE id = $1)`, memberID)
		if err != nil {
			return err
		}
		if !exists {
			return member.ErrMemberNotFound
		}
		return ErrAlreadyInGym
	}

	return nil
}

func (r *repository) CompleteVisit(ctx context.Context, memberID int, exitTime time.Time) (*session.Session, bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback()

	var row struct {
		IsInGym   bool       `db:"is_in_gym"`
		EntryTime *time.Time `db:"entry_time"`
	}
	err = tx.QueryRowxContext(ctx,
		`SELECT is_in_gym, entry_time FROM members WHERE id = $1 FOR UPDATE`,
		memberID,
	).StructScan(&row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, member.ErrMemberNotFound
	}
	if err != nil {
		return nil, false, err
	}

	if !row.IsInGym {
		return nil, false, ErrNotInGym
	}

	if row.EntryTime == nil {
		// In-gym with no entry time: a leftover from manual edits or an old
		// schema. Flip the flag back without recording a session.
		if _, err := tx.ExecContext(ctx,
			`UPDATE members SET is_in_gym = FALSE, entry_time = NULL WHERE id = $1`,
			memberID,
		); err != nil {
			return nil, false, err
		}
		if err := tx.Commit(); err != nil {
			return nil, false, err
		}
		return nil, true, nil
	}

	durationMinutes := exitTime.Sub(*row.EntryTime).Minutes()

	var sess session.Session
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO gym_sessions (member_id, entry_time, exit_time, duration_minutes)
		VALUES ($1, $2, $3, $4)
		RETURNING id, member_id, entry_time, exit_time, duration_minutes, created_at
	`, memberID, *row.EntryTime, exitTime, durationMinutes).StructScan(&sess)
	if err != nil {
		return nil, false, err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE members SET is_in_gym = FALSE, entry_time = NULL WHERE id = $1`,
		memberID,
	); err != nil {
		return nil, false, err
	}

	if err := tx.Commit(); err != nil {
		return nil, false, err
	}

	return &sess, false, nil
}

func (r *repository) ListStaleIDs(ctx context.Context, cutoff time.Time) ([]int, error) {
	query := `
		SELECT id
		FROM members
		WHERE is_in_gym = TRUE AND (entry_time IS NULL OR entry_time < $1)
		ORDER BY id
	`

	var ids []int
	err := r.db.SelectContext(ctx, &ids, query, cutoff)
	if err != nil {
		return nil, err
	}

	return ids, nil
}

func (r *repository) CountInGym(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM members WHERE is_in_gym = TRUE`)
	if err != nil {
		return 0, err
	}
	return count, nil
}
