package member

import (
	"context"
	"errors"
	"time"

	"gymtrack/internal/auth"
	"gymtrack/internal/metrics"
)

var (
	ErrMemberNotFound     = errors.New("member not found")
	ErrPhoneExists        = errors.New("phone number already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidDate        = errors.New("invalid date, expected YYYY-MM-DD")
)

const dateLayout = "2006-01-02"

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*Member, string, string, error)
	Login(ctx context.Context, req LoginRequest) (*Member, string, string, error)
	RefreshToken(ctx context.Context, refreshToken string) (string, *Member, error)
	GetByID(ctx context.Context, id int) (*Member, error)
	List(ctx context.Context) ([]Member, error)
	ListInGym(ctx context.Context) ([]Member, error)
	Update(ctx context.Context, id int, req UpdateRequest) (*Member, error)
	Delete(ctx context.Context, id int) error
}

type service struct {
	repo      Repository
	jwtSecret string
	now       func() time.Time
}

func NewService(repo Repository, jwtSecret string) Service {
	return &service{
		repo:      repo,
		jwtSecret: jwtSecret,
		now:       time.Now,
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*Member, string, string, error) {
	exists, err := s.repo.PhoneExists(ctx, req.PhoneNumber)
	if err != nil {
		return nil, "", "", err
	}
	if exists {
		return nil, "", "", ErrPhoneExists
	}

	// Subscription starts at registration day unless given explicitly.
	subStart := toDate(s.now())
	if req.SubscriptionStart != "" {
		subStart, err = time.Parse(dateLayout, req.SubscriptionStart)
		if err != nil {
			return nil, "", "", ErrInvalidDate
		}
	}

	var subEnd *time.Time
	if req.SubscriptionEnd != "" {
		end, err := time.Parse(dateLayout, req.SubscriptionEnd)
		if err != nil {
			return nil, "", "", ErrInvalidDate
		}
		subEnd = &end
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, "", "", err
	}

	m, err := s.repo.Create(ctx, req.PhoneNumber, req.Name, passwordHash, auth.RoleMember, subStart, subEnd)
	if err != nil {
		return nil, "", "", err
	}

	accessToken, refreshToken, err := auth.GenerateTokens(m.ID, m.PhoneNumber, m.Role, s.jwtSecret)
	if err != nil {
		return nil, "", "", err
	}

	metrics.RecordRegistration()

	return m, accessToken, refreshToken, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*Member, string, string, error) {
	m, err := s.repo.FindByPhone(ctx, req.PhoneNumber)
	if err != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	if !auth.CheckPassword(m.PasswordHash, req.Password) {
		return nil, "", "", ErrInvalidCredentials
	}

	accessToken, refreshToken, err := auth.GenerateTokens(m.ID, m.PhoneNumber, m.Role, s.jwtSecret)
	if err != nil {
		return nil, "", "", err
	}

	return m, accessToken, refreshToken, nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, *Member, error) {
	newAccessToken, claims, err := auth.RefreshAccessToken(refreshToken, s.jwtSecret)
	if err != nil {
		return "", nil, err
	}

	m, err := s.repo.FindByID(ctx, claims.MemberID)
	if err != nil {
		return "", nil, ErrMemberNotFound
	}

	return newAccessToken, m, nil
}

func (s *service) GetByID(ctx context.Context, id int) (*Member, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]Member, error) {
	return s.repo.List(ctx)
}

func (s *service) ListInGym(ctx context.Context) ([]Member, error) {
	return s.repo.ListInGym(ctx)
}

func (s *service) Update(ctx context.Context, id int, req UpdateRequest) (*Member, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := m.Name
	if req.Name != nil {
		name = *req.Name
	}

	subStart := m.SubscriptionStart
	if req.SubscriptionStart != nil {
		subStart, err = time.Parse(dateLayout, *req.SubscriptionStart)
		if err != nil {
			return nil, ErrInvalidDate
		}
	}

	subEnd := m.SubscriptionEnd
	if req.SubscriptionEnd != nil {
		if *req.SubscriptionEnd == "" {
			subEnd = nil
		} else {
			end, err := time.Parse(dateLayout, *req.SubscriptionEnd)
			if err != nil {
				return nil, ErrInvalidDate
			}
			subEnd = &end
		}
	}

	return s.repo.Update(ctx, id, name, subStart, subEnd)
}

func (s *service) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}
