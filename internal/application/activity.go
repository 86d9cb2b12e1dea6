package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rosterbot/internal/domain"
	"rosterbot/internal/domain/entities"
	"rosterbot/internal/domain/policy"
	"rosterbot/internal/platform/logger"
	"rosterbot/internal/ports/input"
	"rosterbot/internal/ports/output"
)

var _ input.ActivityUseCase = (*ActivityService)(nil)

type ActivityService struct {
	store output.ParticipationStore
	clock output.Clock
	opts  Options
	log   *logger.Logger
}

func NewActivityService(store output.ParticipationStore, clock output.Clock, opts Options, log *logger.Logger) *ActivityService {
	return &ActivityService{
		store: store,
		clock: clock,
		opts:  opts.withDefaults(),
		log:   log.With("service", "ActivityService"),
	}
}

// CreateActivity stores a new activity and enrolls its creator as captain
// on the main list.
func (s *ActivityService) CreateActivity(ctx context.Context, in input.CreateActivity) (*entities.Activity, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()

	if strings.TrimSpace(in.Title) == "" {
		return nil, domain.InvalidActivity("title is required")
	}
	if err := policy.ValidateQuotas(in.MaxParticipants, in.MaleQuota, in.FemaleQuota); err != nil {
		return nil, err
	}
	if _, err := s.store.GetUser(ctx, in.CreatedBy); err != nil {
		if errors.Is(err, output.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, &domain.InfraError{Op: "create activity", Err: err}
	}

	a := &entities.Activity{
		Title:               strings.TrimSpace(in.Title),
		Location:            strings.TrimSpace(in.Location),
		StartsAt:            in.StartsAt,
		MaxParticipants:     in.MaxParticipants,
		MaleQuota:           in.MaleQuota,
		FemaleQuota:         in.FemaleQuota,
		FemalePriority:      in.FemalePriority,
		RequireVerification: in.RequireVerification,
		CreatedBy:           in.CreatedBy,
	}
	if err := s.store.CreateActivity(ctx, a); err != nil {
		return nil, &domain.InfraError{Op: "create activity", Err: err}
	}

	now := s.clock.Now().In(s.opts.Location)
	var created *entities.Activity
	err := s.store.WithinActivity(ctx, a.ID, func(ctx context.Context, tx output.ParticipationTx) error {
		if err := tx.UpsertParticipant(ctx, a.CreatedBy, false, true, now); err != nil {
			return err
		}
		updated, err := tx.RecomputeAggregateCounts(ctx)
		if err != nil {
			return err
		}
		created = updated
		return nil
	})
	if err != nil {
		return nil, &domain.InfraError{Op: "enroll captain", Err: err}
	}
	s.log.Info("activity created", "activity_id", created.ID, "created_by", created.CreatedBy, "max", created.MaxParticipants)
	return created, nil
}

func (s *ActivityService) GetActivity(ctx context.Context, activityID int64) (*entities.Activity, error) {
	a, err := s.store.GetActivity(ctx, activityID)
	if err != nil {
		if errors.Is(err, output.ErrNotFound) {
			return nil, domain.ErrActivityNotFound
		}
		return nil, &domain.InfraError{Op: "get activity", Err: err}
	}
	return a, nil
}

func (s *ActivityService) ListParticipants(ctx context.Context, activityID int64) ([]entities.Participant, error) {
	if _, err := s.GetActivity(ctx, activityID); err != nil {
		return nil, err
	}
	participants, err := s.store.ListParticipants(ctx, activityID)
	if err != nil {
		return nil, &domain.InfraError{Op: "list participants", Err: err}
	}
	return participants, nil
}

func (s *ActivityService) GetUser(ctx context.Context, userID string) (*entities.User, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, output.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, &domain.InfraError{Op: "get user", Err: err}
	}
	return u, nil
}

// RegisterUser creates or updates the attributes enrollment decisions read.
func (s *ActivityService) RegisterUser(ctx context.Context, u entities.User) error {
	if strings.TrimSpace(u.ID) == "" {
		return fmt.Errorf("register user: empty id")
	}
	u.Gender = domain.ParseGender(string(u.Gender))
	if err := s.store.UpsertUser(ctx, &u); err != nil {
		return &domain.InfraError{Op: "register user", Err: err}
	}
	return nil
}
