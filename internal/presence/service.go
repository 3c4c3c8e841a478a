package presence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gymtrack/internal/cache"
	"gymtrack/internal/logger"
	"gymtrack/internal/metrics"
	"gymtrack/internal/session"
)

var (
	ErrAlreadyInGym = errors.New("member is already in the gym")
	ErrNotInGym     = errors.New("member is not in the gym")
)

type Outcome string

const (
	OutcomeCheckedIn   Outcome = "checked_in"
	OutcomeCheckedOut  Outcome = "checked_out"
	OutcomeStatusReset Outcome = "status_reset"
)

// Result reports what a presence transition did. Message is for caller
// display only, never for control flow.
type Result struct {
	Outcome Outcome          `json:"outcome"`
	Message string           `json:"message"`
	Session *session.Session `json:"session,omitempty"`
}

type Service interface {
	CheckIn(ctx context.Context, memberID int) (*Result, error)
	CheckOut(ctx context.Context, memberID int) (*Result, error)

	// ReconcileStale force-closes visits of members who have been in-gym
	// longer than thresholdMinutes, recording a real session for each.
	// thresholdMinutes <= 0 means close every open visit, which is what the
	// scheduled midnight run uses. Returns the number of members reconciled.
	ReconcileStale(ctx context.Context, thresholdMinutes int) (int, error)
}

type service struct {
	repo  Repository
	cache *cache.Cache
	now   func() time.Time
}

func NewService(repo Repository, sessionCache *cache.Cache) Service {
	return &service{
		repo:  repo,
		cache: sessionCache,
		now:   time.Now,
	}
}

func (s *service) CheckIn(ctx context.Context, memberID int) (*Result, error) {
	err := s.repo.MarkEntry(ctx, memberID, s.now())
	if err != nil {
		if errors.Is(err, ErrAlreadyInGym) {
			metrics.RecordCheckIn("already_in_gym")
		}
		return nil, err
	}

	metrics.RecordCheckIn("success")
	metrics.MembersInGym.Inc()

	return &Result{
		Outcome: OutcomeCheckedIn,
		Message: "Checked in successfully",
	}, nil
}

func (s *service) CheckOut(ctx context.Context, memberID int) (*Result, error) {
	sess, repaired, err := s.repo.CompleteVisit(ctx, memberID, s.now())
	if err != nil {
		if errors.Is(err, ErrNotInGym) {
			metrics.RecordCheckOut("not_in_gym")
		}
		return nil, err
	}

	metrics.MembersInGym.Dec()

	if repaired {
		logger.Info("repaired inconsistent gym status", "member_id", memberID)
		metrics.RecordCheckOut("status_reset")
		return &Result{
			Outcome: OutcomeStatusReset,
			Message: "Gym status was inconsistent and has been reset; no session recorded",
		}, nil
	}

	s.invalidateSessionCache(ctx, memberID)
	metrics.RecordCheckOut("success")

	return &Result{
		Outcome: OutcomeCheckedOut,
		Message: fmt.Sprintf("Checked out successfully, visit lasted %.1f minutes", sess.DurationMinutes),
		Session: sess,
	}, nil
}

func (s *service) ReconcileStale(ctx context.Context, thresholdMinutes int) (int, error) {
	now := s.now()
	cutoff := now
	if thresholdMinutes > 0 {
		cutoff = now.Add(-time.Duration(thresholdMinutes) * time.Minute)
	}

	ids, err := s.repo.ListStaleIDs(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, id := range ids {
		// Each member's transition is independent; a failure on one must not
		// undo the others.
		sess, repaired, err := s.repo.CompleteVisit(ctx, id, now)
		switch {
		case errors.Is(err, ErrNotInGym):
			// Someone checked the member out between the scan and now.
			continue
		case err != nil:
			logger.Error("failed to reconcile stale session", "member_id", id, "error", err)
			continue
		}

		count++
		metrics.MembersInGym.Dec()
		if repaired {
			logger.Info("repaired inconsistent gym status during reconciliation", "member_id", id)
			continue
		}

		s.invalidateSessionCache(ctx, id)
		logger.Info("force-closed stale session",
			"member_id", id,
			"duration_minutes", sess.DurationMinutes,
		)
	}

	if count > 0 {
		metrics.RecordReconciled(count)
	}

	return count, nil
}

func (s *service) invalidateSessionCache(ctx context.Context, memberID int) {
	if err := s.cache.Delete(ctx, cache.MemberSessionsKey(memberID), cache.AllSessionsKey()); err != nil {
		logger.Error("failed to invalidate session cache", "member_id", memberID, "error", err)
	}
}
