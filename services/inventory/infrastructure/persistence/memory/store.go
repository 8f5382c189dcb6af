// Package memory implements repositories.Store in process memory.
package memory

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/ghuser/inventory/services/inventory/domain"
	"github.com/ghuser/inventory/services/inventory/domain/models"
	"github.com/ghuser/inventory/services/inventory/domain/repositories"
	domainsvcs "github.com/ghuser/inventory/services/inventory/domain/services"
)

var _ repositories.Store = (*Store)(nil)

// Store holds items and users in insertion order. A single RWMutex guards
// both collections so reads that join users to items see one consistent state.
type Store struct {
	mu sync.RWMutex

	itemOrder []string
	items     map[string]*models.Item

	userOrder []string
	users     map[string]*models.User
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		items: make(map[string]*models.Item),
		users: make(map[string]*models.User),
	}
}

// CreateItems validates and inserts each candidate in order. An id accepted
// earlier in the same batch counts as existing for later candidates.
func (s *Store) CreateItems(items []*models.Item) []models.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	results := make([]models.Result, len(items))
	for i, item := range items {
		if item != nil {
			results[i].ID = item.ID
		}
		if err := domainsvcs.ValidateItem(item); err != nil {
			results[i].Message = "Missing required fields"
			continue
		}
		if _, ok := s.items[item.ID]; ok {
			results[i].Message = fmt.Sprintf("Item with ID %s already exists", item.ID)
			continue
		}
		s.items[item.ID] = item.Clone()
		s.itemOrder = append(s.itemOrder, item.ID)
		results[i].Success = true
		results[i].Message = fmt.Sprintf("Item %s added successfully", item.ID)
	}
	return results
}

// ListItems returns copies of all items in insertion order.
func (s *Store) ListItems() ([]*models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.itemOrder) == 0 {
		return nil, domain.ErrNoItems
	}
	out := make([]*models.Item, len(s.itemOrder))
	for i, id := range s.itemOrder {
		out[i] = s.items[id].Clone()
	}
	return out, nil
}

// GetItem returns a copy of the item with id, or ErrItemNotFound.
func (s *Store) GetItem(id string) (*models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	return item.Clone(), nil
}

// DeleteItem removes the item. Users referencing it are left untouched and
// render the reference as null from then on.
func (s *Store) DeleteItem(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return domain.ErrItemNotFound
	}
	delete(s.items, id)
	s.itemOrder = removeID(s.itemOrder, id)
	return nil
}

// UpdateItem shallow-merges patch into the stored item, keeping its position.
func (s *Store) UpdateItem(id string, patch models.Patch) (*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.items[id]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	merged, err := current.Apply(patch)
	if err != nil {
		return nil, err
	}
	if err := domainsvcs.ValidateItem(merged); err != nil {
		return nil, err
	}
	s.items[id] = merged
	return merged.Clone(), nil
}

// CreateUsers validates and inserts each candidate in order. Every item id a
// candidate lists must already exist, otherwise the candidate is rejected
// with the offending ids.
func (s *Store) CreateUsers(users []*models.User) []models.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	results := make([]models.Result, len(users))
	for i, user := range users {
		if user != nil {
			results[i].ID = user.ID
		}
		if err := domainsvcs.ValidateUser(user); err != nil {
			results[i].Message = "Missing required fields"
			continue
		}
		if _, ok := s.users[user.ID]; ok {
			results[i].Message = fmt.Sprintf("User with ID %s already exists", user.ID)
			continue
		}
		var invalid *domain.InvalidItemsError
		if err := domainsvcs.CheckItemReferences(user.Items, s.itemExists); errors.As(err, &invalid) {
			results[i].Message = invalid.Message()
			continue
		}
		stored := user.Clone()
		if stored.Items == nil {
			stored.Items = []string{}
		}
		s.users[user.ID] = stored
		s.userOrder = append(s.userOrder, user.ID)
		results[i].Success = true
		results[i].Message = fmt.Sprintf("User %s added successfully", user.ID)
	}
	return results
}

// ListUsers returns all users in insertion order with items resolved.
func (s *Store) ListUsers() ([]models.EnrichedUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.userOrder) == 0 {
		return nil, domain.ErrNoUsers
	}
	out := make([]models.EnrichedUser, len(s.userOrder))
	for i, id := range s.userOrder {
		out[i] = s.enrich(s.users[id])
	}
	return out, nil
}

// GetUser returns the user with items resolved, or ErrUserNotFound.
func (s *Store) GetUser(id string) (models.EnrichedUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return models.EnrichedUser{}, domain.ErrUserNotFound
	}
	return s.enrich(user), nil
}

// DeleteUser removes the user. Referenced items are not affected.
func (s *Store) DeleteUser(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(s.users, id)
	s.userOrder = removeID(s.userOrder, id)
	return nil
}

// UpdateUser shallow-merges patch into the stored user and returns it with
// item ids unresolved. When the patch sets "items" every id must resolve;
// otherwise nothing is written.
func (s *Store) UpdateUser(id string, patch models.Patch) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	merged, err := current.Apply(patch)
	if err != nil {
		return nil, err
	}
	if patch.Has("items") {
		if err := domainsvcs.CheckItemReferences(merged.Items, s.itemExists); err != nil {
			return nil, err
		}
	}
	if err := domainsvcs.ValidateUser(merged); err != nil {
		return nil, err
	}
	s.users[id] = merged
	return merged.Clone(), nil
}

// enrich resolves user's item ids against the current items. Callers hold mu.
func (s *Store) enrich(user *models.User) models.EnrichedUser {
	items := make([]*models.Item, len(user.Items))
	for i, itemID := range user.Items {
		items[i] = s.items[itemID].Clone()
	}
	return models.EnrichedUser{User: user.Clone(), Items: items}
}

func (s *Store) itemExists(id string) bool {
	_, ok := s.items[id]
	return ok
}

func removeID(order []string, id string) []string {
	if i := slices.Index(order, id); i >= 0 {
		return slices.Delete(order, i, i+1)
	}
	return order
}
