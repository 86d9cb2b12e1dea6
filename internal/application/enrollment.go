package application

import (
	"context"
	"errors"
	"time"

	"rosterbot/internal/domain"
	"rosterbot/internal/domain/entities"
	"rosterbot/internal/domain/policy"
	"rosterbot/internal/platform/logger"
	"rosterbot/internal/ports/input"
	"rosterbot/internal/ports/output"
)

var _ input.EnrollmentUseCase = (*EnrollmentService)(nil)

// DefaultStoreTimeout bounds one Join or Leave including lock wait.
const DefaultStoreTimeout = 5 * time.Second

// Options configures the services in this package.
type Options struct {
	Location      *time.Location
	StoreTimeout  time.Duration
	DefaultLocale string
}

func (o Options) withDefaults() Options {
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.StoreTimeout <= 0 {
		o.StoreTimeout = DefaultStoreTimeout
	}
	return o
}

// EnrollmentService runs join and leave against one activity at a time.
// Events are published only after the store commits.
type EnrollmentService struct {
	store    output.ParticipationStore
	sink     output.EventSink
	messages *messages
	clock    output.Clock
	cooldown policy.Cooldown
	opts     Options
	log      *logger.Logger
}

func NewEnrollmentService(
	store output.ParticipationStore,
	sink output.EventSink,
	translator output.T,
	clock output.Clock,
	opts Options,
	log *logger.Logger,
) *EnrollmentService {
	opts = opts.withDefaults()
	return &EnrollmentService{
		store:    store,
		sink:     sink,
		messages: &messages{t: translator, defaultLocale: opts.DefaultLocale},
		clock:    clock,
		cooldown: policy.NewCooldown(opts.Location),
		opts:     opts,
		log:      log.With("service", "EnrollmentService"),
	}
}

func (s *EnrollmentService) Join(ctx context.Context, activityID int64, userID string) (input.Admission, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()

	now := s.clock.Now().In(s.opts.Location)
	var (
		admission input.Admission
		pending   []entities.Event
	)
	err := s.store.WithinActivity(ctx, activityID, func(ctx context.Context, tx output.ParticipationTx) error {
		activity, err := tx.GetActivitySnapshot(ctx)
		if err != nil {
			return err
		}
		user, err := tx.GetUserAttributes(ctx, userID)
		if err != nil {
			if errors.Is(err, output.ErrNotFound) {
				return domain.ErrUserNotFound
			}
			return err
		}

		active, err := tx.IsActiveParticipant(ctx, userID)
		if err != nil {
			return err
		}
		if active {
			return domain.ErrAlreadyJoined
		}

		lastLeave, err := tx.LastLeaveTimestamp(ctx, userID)
		if err != nil {
			return err
		}
		if ok, minutes := s.cooldown.Check(lastLeave, now); !ok {
			return domain.CooldownActive(minutes)
		}

		decision := policy.Decide(*activity, policy.Candidate{Gender: user.Gender, Verified: user.IsVerified})
		if err := decision.Err(); err != nil {
			return err
		}

		isCaptain := userID == activity.CreatedBy
		if err := tx.UpsertParticipant(ctx, userID, decision.Waiting(), isCaptain, now); err != nil {
			return err
		}
		updated, err := tx.RecomputeAggregateCounts(ctx)
		if err != nil {
			return err
		}

		admission = input.Admission{
			ActivityID: activityID,
			UserID:     userID,
			Outcome:    decision.Outcome,
			IsCaptain:  isCaptain,
		}
		if !decision.Waiting() {
			owner := s.recipientLocale(ctx, tx, updated.CreatedBy)
			pending = append(pending, s.messages.event(entities.EventMemberJoined, updated, updated.CreatedBy, owner, user.Nickname, now))
		}
		return nil
	})
	if err != nil {
		return input.Admission{}, s.classify("join", activityID, userID, err)
	}

	s.log.Debug("join admitted", "activity_id", activityID, "user_id", userID, "outcome", admission.Outcome)
	s.publish(ctx, pending)
	return admission, nil
}

func (s *EnrollmentService) Leave(ctx context.Context, activityID int64, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()

	now := s.clock.Now().In(s.opts.Location)
	var pending []entities.Event
	err := s.store.WithinActivity(ctx, activityID, func(ctx context.Context, tx output.ParticipationTx) error {
		if _, err := tx.GetActivitySnapshot(ctx); err != nil {
			return err
		}
		p, err := tx.FindParticipant(ctx, userID)
		if err != nil {
			if errors.Is(err, output.ErrNotFound) {
				return domain.ErrNotJoined
			}
			return err
		}
		if p.IsDeleted() {
			return domain.ErrAlreadyLeft
		}

		if err := tx.SoftDeleteParticipant(ctx, userID, now); err != nil {
			return err
		}
		updated, err := tx.RecomputeAggregateCounts(ctx)
		if err != nil {
			return err
		}

		// One seat freed, at most one promotion.
		next, err := tx.FindEarliestWaiting(ctx)
		if err != nil {
			return err
		}
		if next != nil {
			if err := tx.SetWaiting(ctx, next.UserID, false, now); err != nil {
				return err
			}
			locale := s.recipientLocale(ctx, tx, next.UserID)
			pending = append(pending, s.messages.event(entities.EventWaitingPromoted, updated, next.UserID, locale, "", now))
		}

		leaver := s.nickname(ctx, tx, userID)
		owner := s.recipientLocale(ctx, tx, updated.CreatedBy)
		pending = append(pending, s.messages.event(entities.EventMemberLeft, updated, updated.CreatedBy, owner, leaver, now))
		return nil
	})
	if err != nil {
		return s.classify("leave", activityID, userID, err)
	}

	s.log.Debug("leave recorded", "activity_id", activityID, "user_id", userID, "events", len(pending))
	s.publish(ctx, pending)
	return nil
}

// classify keeps business rejections as-is and wraps everything else as a
// retryable infrastructure error.
func (s *EnrollmentService) classify(op string, activityID int64, userID string, err error) error {
	if code := domain.Code(err); code != "" {
		s.log.Info(op+" rejected", "activity_id", activityID, "user_id", userID, "code", code)
		return err
	}
	if errors.Is(err, output.ErrNotFound) {
		s.log.Info(op+" rejected", "activity_id", activityID, "user_id", userID, "code", domain.CodeActivityNotFound)
		return domain.ErrActivityNotFound
	}
	s.log.Error(op+" failed", "activity_id", activityID, "user_id", userID, "error", err)
	return &domain.InfraError{Op: op, Err: err}
}

// publish hands events to the sink after commit. Failures are logged only.
func (s *EnrollmentService) publish(ctx context.Context, events []entities.Event) {
	if s.sink == nil || len(events) == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)
	for _, ev := range events {
		if err := s.sink.Publish(ctx, ev); err != nil {
			s.log.Warn("event publish failed", "kind", ev.Kind, "activity_id", ev.ActivityID, "target", ev.TargetUserID, "error", err)
		}
	}
}

func (s *EnrollmentService) recipientLocale(ctx context.Context, tx output.ParticipationTx, userID string) string {
	u, err := tx.GetUserAttributes(ctx, userID)
	if err != nil {
		return ""
	}
	return u.Locale
}

func (s *EnrollmentService) nickname(ctx context.Context, tx output.ParticipationTx, userID string) string {
	u, err := tx.GetUserAttributes(ctx, userID)
	if err != nil || u.Nickname == "" {
		return userID
	}
	return u.Nickname
}
