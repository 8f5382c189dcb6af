package services

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/ghuser/inventory/pkg/logger"
	"github.com/ghuser/inventory/services/inventory/domain"
	domainevents "github.com/ghuser/inventory/services/inventory/domain/events"
	"github.com/ghuser/inventory/services/inventory/domain/models"
	"github.com/ghuser/inventory/services/inventory/domain/repositories"
)

// UserService orchestrates users. Reads return users with their item
// references resolved against the live item catalog.
type UserService struct {
	store   repositories.Store
	events  *eventPublisher
	log     logger.Logger
	metrics *instruments
}

// Create inserts every candidate of the batch in order and returns one result
// per candidate.
func (s *UserService) Create(ctx context.Context, batch models.Batch) []models.Result {
	ctx, span := startSpan(ctx, "UserService.Create", attribute.Int("batch.size", len(batch)))
	defer span.End()

	users := batch.Users()
	var results []models.Result
	seq := s.events.seq.apply(func() int {
		results = s.store.CreateUsers(users)
		return countAccepted(results)
	})

	var accepted int64
	for i, res := range results {
		if !res.Success {
			s.log.WarnContext(ctx, "user rejected", "user_id", res.ID, "reason", res.Message)
			continue
		}
		accepted++
		s.events.publish(ctx, domainevents.TopicUserCreated, seq, res.ID, users[i])
		seq++
	}
	rejected := int64(len(results)) - accepted

	s.metrics.usersCreated.Add(ctx, accepted)
	s.metrics.usersRejected.Add(ctx, rejected)
	s.metrics.mutation(ctx, "user", "create", accepted)
	span.SetAttributes(attribute.Int64("users.accepted", accepted), attribute.Int64("users.rejected", rejected))
	s.log.InfoContext(ctx, "users created", "accepted", accepted, "rejected", rejected)
	return results
}

// List returns every user in insertion order, or domain.ErrNoUsers.
func (s *UserService) List(ctx context.Context) (_ []models.EnrichedUser, err error) {
	_, span := startSpan(ctx, "UserService.List")
	defer func() { endSpan(span, err) }()

	users, err := s.store.ListUsers()
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Get returns the user with id, or domain.ErrUserNotFound.
func (s *UserService) Get(ctx context.Context, id string) (_ models.EnrichedUser, err error) {
	_, span := startSpan(ctx, "UserService.Get", attribute.String("user.id", id))
	defer func() { endSpan(span, err) }()

	user, err := s.store.GetUser(id)
	if err != nil {
		return models.EnrichedUser{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// Update shallow-merges patch into the user and returns the merged user with
// plain item ids. A patch that sets "items" must reference only existing items.
func (s *UserService) Update(ctx context.Context, id string, patch models.Patch) (_ *models.User, err error) {
	ctx, span := startSpan(ctx, "UserService.Update", attribute.String("user.id", id))
	defer func() { endSpan(span, err) }()

	var user *models.User
	seq := s.events.seq.apply(func() int {
		user, err = s.store.UpdateUser(id, patch)
		if err != nil {
			return 0
		}
		return 1
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidItems) {
			s.log.WarnContext(ctx, "user update rejected", "user_id", id, "error", err)
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	s.metrics.mutation(ctx, "user", "update", 1)
	s.events.publish(ctx, domainevents.TopicUserUpdated, seq, id, user)
	s.log.InfoContext(ctx, "user updated", "user_id", id, "fields", len(patch))
	return user, nil
}

// Delete removes the user. Referenced items are not affected.
func (s *UserService) Delete(ctx context.Context, id string) (err error) {
	ctx, span := startSpan(ctx, "UserService.Delete", attribute.String("user.id", id))
	defer func() { endSpan(span, err) }()

	seq := s.events.seq.apply(func() int {
		if err = s.store.DeleteUser(id); err != nil {
			return 0
		}
		return 1
	})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	s.metrics.mutation(ctx, "user", "delete", 1)
	s.events.publish(ctx, domainevents.TopicUserDeleted, seq, id, nil)
	s.log.InfoContext(ctx, "user deleted", "user_id", id)
	return nil
}
