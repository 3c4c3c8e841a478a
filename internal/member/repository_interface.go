package member

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, phone, name, passwordHash, role string, subStart time.Time, subEnd *time.Time) (*Member, error)
	FindByID(ctx context.Context, id int) (*Member, error)
	FindByPhone(ctx context.Context, phone string) (*Member, error)
	PhoneExists(ctx context.Context, phone string) (bool, error)
	List(ctx context.Context) ([]Member, error)
	ListInGym(ctx context.Context) ([]Member, error)
	Update(ctx context.Context, id int, name string, subStart time.Time, subEnd *time.Time) (*Member, error)
	Delete(ctx context.Context, id int) error
}
