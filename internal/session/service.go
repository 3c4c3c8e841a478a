package session

import (
	"context"

	"gymtrack/internal/cache"
	"gymtrack/internal/logger"
	"gymtrack/internal/member"
)

// DefaultRecentLimit caps a member's recent-session listing.
const DefaultRecentLimit = 50

type Service interface {
	// ListForMember returns a member's most recent sessions, newest first,
	// capped at DefaultRecentLimit.
	ListForMember(ctx context.Context, memberID int) ([]WithMember, error)
	ListAll(ctx context.Context) ([]WithMember, error)
}

type service struct {
	repo       Repository
	memberRepo member.Repository
	cache      *cache.Cache
}

func NewService(repo Repository, memberRepo member.Repository, sessionCache *cache.Cache) Service {
	return &service{
		repo:       repo,
		memberRepo: memberRepo,
		cache:      sessionCache,
	}
}

func (s *service) ListForMember(ctx context.Context, memberID int) ([]WithMember, error) {
	if _, err := s.memberRepo.FindByID(ctx, memberID); err != nil {
		return nil, err
	}

	// Sessions are immutable, so the cached listing only goes stale when a
	// new one is recorded; the presence engine deletes the key then.
	key := cache.MemberSessionsKey(memberID)
	var cached []WithMember
	if hit, err := s.cache.GetJSON(ctx, key, &cached); err != nil {
		logger.Error("session cache read failed", "member_id", memberID, "error", err)
	} else if hit {
		return cached, nil
	}

	sessions, err := s.repo.ListByMember(ctx, memberID, DefaultRecentLimit)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetJSON(ctx, key, sessions); err != nil {
		logger.Error("session cache write failed", "member_id", memberID, "error", err)
	}

	return sessions, nil
}

func (s *service) ListAll(ctx context.Context) ([]WithMember, error) {
	key := cache.AllSessionsKey()
	var cached []WithMember
	if hit, err := s.cache.GetJSON(ctx, key, &cached); err != nil {
		logger.Error("session cache read failed", "error", err)
	} else if hit {
		return cached, nil
	}

	sessions, err := s.repo.ListAll(ctx, 0)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetJSON(ctx, key, sessions); err != nil {
		logger.Error("session cache write failed", "error", err)
	}

	return sessions, nil
}
