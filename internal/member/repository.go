package member

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"gymtrack/internal/db"
)

const memberColumns = `id, phone_number, name, password_hash, role, subscription_start, subscription_end, is_in_gym, entry_time, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(database *sqlx.DB) Repository {
	return &repository{db: database}
}

func (r *repository) Create(ctx context.Context, phone, name, passwordHash, role string, subStart time.Time, subEnd *time.Time) (*Member, error) {
	query := `
		INSERT INTO members (phone_number, name, password_hash, role, subscription_start, subscription_end)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + memberColumns

	var m Member
	err := r.db.GetContext(ctx, &m, query, phone, name, passwordHash, role, subStart, subEnd)
	if err != nil {
		return nil, err
	}

	return &m, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (*Member, error) {
	query := `
		SELECT ` + memberColumns + `
		FROM members
		WHERE id = $1
	`

	var m Member
	err := r.db.GetContext(ctx, &m, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, err
	}

	return &m, nil
}

func (r *repository) FindByPhone(ctx context.Context, phone string) (*Member, error) {
	query := `
		SELECT ` + memberColumns + `
		FROM members
		WHERE phone_number = $1
	`

	var m Member
	err := r.db.GetContext(ctx, &m, query, phone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, err
	}

	return &m, nil
}

func (r *repository) PhoneExists(ctx context.Context, phone string) (bool, error) {
	return db.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM members WHERE phone_number = $1)`, phone)
}

func (r *repository) List(ctx context.Context) ([]Member, error) {
	query := `
		SELECT ` + memberColumns + `
		FROM members
		ORDER BY created_at DESC
	`

	var members []Member
	err := r.db.SelectContext(ctx, &members, query)
	if err != nil {
		return nil, err
	}

	return members, nil
}

func (r *repository) ListInGym(ctx context.Context) ([]Member, error) {
	query := `
		SELECT ` + memberColumns + `
		FROM members
		WHERE is_in_gym = TRUE
		ORDER BY entry_time ASC
	`

	var members []Member
	err := r.db.SelectContext(ctx, &members, query)
	if err != nil {
		return nil, err
	}

	return members, nil
}

func (r *repository) Update(ctx context.Context, id int, name string, subStart time.Time, subEnd *time.Time) (*Member, error) {
	query := `
		UPDATE members
		SET name = $2, subscription_start = $3, subscription_end = $4
		WHERE id = $1
		RETURNING ` + memberColumns

	var m Member
	err := r.db.GetContext(ctx, &m, query, id, name, subStart, subEnd)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, err
	}

	return &m, nil
}

func (r *repository) Delete(ctx context.Context, id int) error {
	// Sessions go with the member via ON DELETE CASCADE.
	result, err := r.db.ExecContext(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrMemberNotFound
	}

	return nil
}
