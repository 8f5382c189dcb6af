package repositories

import (
	"github.com/ghuser/inventory/services/inventory/domain/models"
)

// Store is the persistence interface for items and users. The domain layer
// owns this interface; infrastructure implements it.
//
// Every operation is atomic with respect to every other operation on both
// collections. Returned values are copies; mutating them never affects
// stored state.
type Store interface {
	// CreateItems validates and inserts each candidate in order. A nil
	// candidate is rejected as missing required fields. Results align with
	// the input.
	CreateItems(items []*models.Item) []models.Result

	// ListItems returns all items in insertion order, or ErrNoItems.
	ListItems() ([]*models.Item, error)
	GetItem(id string) (*models.Item, error)
	DeleteItem(id string) error

	// UpdateItem shallow-merges patch into the stored item and returns the result.
	UpdateItem(id string, patch models.Patch) (*models.Item, error)

	// CreateUsers validates and inserts each candidate in order. A candidate
	// listing an item id that does not exist is rejected with the offending ids.
	CreateUsers(users []*models.User) []models.Result

	// ListUsers returns all users in insertion order with item references
	// resolved, or ErrNoUsers.
	ListUsers() ([]models.EnrichedUser, error)
	GetUser(id string) (models.EnrichedUser, error)
	DeleteUser(id string) error

	// UpdateUser shallow-merges patch into the stored user and returns it
	// with item ids unresolved. When the patch sets "items", every id must
	// name an existing item or the update fails with *domain.InvalidItemsError
	// and nothing changes.
	UpdateUser(id string, patch models.Patch) (*models.User, error)
}
