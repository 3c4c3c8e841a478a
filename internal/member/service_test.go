package member

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gymtrack/internal/auth"
)

const testSecret = "test-secret"

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, phone, name, passwordHash, role string, subStart time.Time, subEnd *time.Time) (*Member, error) {
	args := m.Called(ctx, phone, name, passwordHash, role, subStart, subEnd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Member), args.Error(1)
}

func (m *MockRepository) FindByID(ctx context.Context, id int) (*Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Member), args.Error(1)
}

func (m *MockRepository) FindByPhone(ctx context.Context, phone string) (*Member, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Member), args.Error(1)
}

func (m *MockRepository) PhoneExists(ctx context.Context, phone string) (bool, error) {
	args := m.Called(ctx, phone)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context) ([]Member, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Member), args.Error(1)
}

func (m *MockRepository) ListInGym(ctx context.Context) ([]Member, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Member), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, id int, name string, subStart time.Time, subEnd *time.Time) (*Member, error) {
	args := m.Called(ctx, id, name, subStart, subEnd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Member), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestMemberService(repo Repository, at time.Time) *service {
	return &service{
		repo:      repo,
		jwtSecret: testSecret,
		now:       func() time.Time { return at },
	}
}

func TestRegister_DefaultsSubscriptionStartToToday(t *testing.T) {
	repo := new(MockRepository)
	registeredAt := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)
	svc := newTestMemberService(repo, registeredAt)

	today := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	created := &Member{ID: 1, PhoneNumber: "0501234567", Name: "Sara", Role: auth.RoleMember, SubscriptionStart: today}

	repo.On("PhoneExists", mock.Anything, "0501234567").Return(false, nil)
	repo.On("Create", mock.Anything, "0501234567", "Sara", mock.AnythingOfType("string"), auth.RoleMember, today, (*time.Time)(nil)).Return(created, nil)

	m, accessToken, refreshToken, err := svc.Register(context.Background(), RegisterRequest{
		PhoneNumber: "0501234567",
		Name:        "Sara",
		Password:    "secret123",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, m.ID)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
	repo.AssertExpectations(t)
}

func TestRegister_ExplicitDates(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestMemberService(repo, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))

	start := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	created := &Member{ID: 2, PhoneNumber: "0509999999", Name: "Omar", Role: auth.RoleMember, SubscriptionStart: start, SubscriptionEnd: &end}

	repo.On("PhoneExists", mock.Anything, "0509999999").Return(false, nil)
	repo.On("Create", mock.Anything, "0509999999", "Omar", mock.AnythingOfType("string"), auth.RoleMember, start, &end).Return(created, nil)

	m, _, _, err := svc.Register(context.Background(), RegisterRequest{
		PhoneNumber:       "0509999999",
		Name:              "Omar",
		Password:          "secret123",
		SubscriptionStart: "2025-04-01",
		SubscriptionEnd:   "2025-05-01",
	})

	require.NoError(t, err)
	require.NotNil(t, m.SubscriptionEnd)
	repo.AssertExpectations(t)
}

func TestRegister_PhoneAlreadyTaken(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestMemberService(repo, time.Now())

	repo.On("PhoneExists", mock.Anything, "0501234567").Return(true, nil)

	_, _, _, err := svc.Register(context.Background(), RegisterRequest{
		PhoneNumber: "0501234567",
		Name:        "Sara",
		Password:    "secret123",
	})

	assert.ErrorIs(t, err, ErrPhoneExists)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRegister_InvalidDate(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestMemberService(repo, time.Now())

	repo.On("PhoneExists", mock.Anything, "0501234567").Return(false, nil)

	_, _, _, err := svc.Register(context.Background(), RegisterRequest{
		PhoneNumber:       "0501234567",
		Name:              "Sara",
		Password:          "secret123",
		SubscriptionStart: "01/04/2025",
	})

	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestLogin_Success(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestMemberService(repo, time.Now())

	hash, err := auth.HashPassword("secret123")
	require.NoError(t, err)

	stored := &Member{ID: 1, PhoneNumber: "0501234567", Name: "Sara", Role: auth.RoleMember, PasswordHash: hash}
	repo.On("FindByPhone", mock.Anything, "0501234567").Return(stored, nil)

	m, accessToken, refreshToken, err := svc.Login(context.Background(), LoginRequest{
		PhoneNumber: "0501234567",
		Password:    "secret123",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, m.ID)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestMemberService(repo, time.Now())

	hash, err := auth.HashPassword("secret123")
	require.NoError(t, err)

	stored := &Member{ID: 1, PhoneNumber: "0501234567", PasswordHash: hash}
	repo.On("FindByPhone", mock.Anything, "0501234567").Return(stored, nil)

	_, _, _, err = svc.Login(context.Background(), LoginRequest{
		PhoneNumber: "0501234567",
		Password:    "wrong",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownPhone(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestMemberService(repo, time.Now())

	repo.On("FindByPhone", mock.Anything, "0500000000").Return(nil, ErrMemberNotFound)

	_, _, _, err := svc.Login(context.Background(), LoginRequest{
		PhoneNumber: "0500000000",
		Password:    "whatever",
	})

	// Unknown phone and wrong password are indistinguishable to the caller.
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshToken_RoundTrip(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestMemberService(repo, time.Now())

	refreshToken, err := auth.GenerateRefreshToken(1, "0501234567", auth.RoleMember, testSecret)
	require.NoError(t, err)

	stored := &Member{ID: 1, PhoneNumber: "0501234567", Role: auth.RoleMember}
	repo.On("FindByID", mock.Anything, 1).Return(stored, nil)

	accessToken, m, err := svc.RefreshToken(context.Background(), refreshToken)

	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.Equal(t, 1, m.ID)
}

func TestRefreshToken_DeletedMember(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestMemberService(repo, time.Now())

	refreshToken, err := auth.GenerateRefreshToken(7, "0501234567", auth.RoleMember, testSecret)
	require.NoError(t, err)

	repo.On("FindByID", mock.Anything, 7).Return(nil, ErrMemberNotFound)

	_, _, err = svc.RefreshToken(context.Background(), refreshToken)

	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestUpdate_ClearsEndDate(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestMemberService(repo, time.Now())

	end := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	stored := &Member{
		ID:                1,
		Name:              "Sara",
		SubscriptionStart: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		SubscriptionEnd:   &end,
	}
	updated := &Member{ID: 1, Name: "Sara", SubscriptionStart: stored.SubscriptionStart}

	repo.On("FindByID", mock.Anything, 1).Return(stored, nil)
	repo.On("Update", mock.Anything, 1, "Sara", stored.SubscriptionStart, (*time.Time)(nil)).Return(updated, nil)

	empty := ""
	m, err := svc.Update(context.Background(), 1, UpdateRequest{SubscriptionEnd: &empty})

	require.NoError(t, err)
	assert.Nil(t, m.SubscriptionEnd)
	repo.AssertExpectations(t)
}

func TestUpdate_PartialLeavesOtherFields(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestMemberService(repo, time.Now())

	stored := &Member{
		ID:                1,
		Name:              "Sara",
		SubscriptionStart: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	updated := &Member{ID: 1, Name: "Sara Ali", SubscriptionStart: stored.SubscriptionStart}

	repo.On("FindByID", mock.Anything, 1).Return(stored, nil)
	repo.On("Update", mock.Anything, 1, "Sara Ali", stored.SubscriptionStart, (*time.Time)(nil)).Return(updated, nil)

	name := "Sara Ali"
	m, err := svc.Update(context.Background(), 1, UpdateRequest{Name: &name})

	require.NoError(t, err)
	assert.Equal(t, "Sara Ali", m.Name)
	repo.AssertExpectations(t)
}

func TestUpdate_NotFound(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestMemberService(repo, time.Now())

	repo.On("FindByID", mock.Anything, 99).Return(nil, ErrMemberNotFound)

	name := "Nobody"
	_, err := svc.Update(context.Background(), 99, UpdateRequest{Name: &name})

	assert.ErrorIs(t, err, ErrMemberNotFound)
}
