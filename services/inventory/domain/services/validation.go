// Package services contains stateless domain services for the inventory
// bounded context. They enforce business rules on domain types and never
// touch storage directly.
package services

import (
	"fmt"
	"strings"

	pkgvalidator "github.com/ghuser/inventory/pkg/validator"
	"github.com/ghuser/inventory/services/inventory/domain"
	"github.com/ghuser/inventory/services/inventory/domain/models"
)

// ValidateItem checks that id, name, type and effect are non-empty strings.
// Failures wrap domain.ErrMissingRequiredFields and name the failing fields.
func ValidateItem(item *models.Item) error {
	if item == nil {
		return fmt.Errorf("%w: not an object", domain.ErrMissingRequiredFields)
	}
	return requireFields(item)
}

// ValidateUser checks that id, name and email are non-empty strings.
func ValidateUser(user *models.User) error {
	if user == nil {
		return fmt.Errorf("%w: not an object", domain.ErrMissingRequiredFields)
	}
	return requireFields(user)
}

func requireFields(v any) error {
	if err := pkgvalidator.Validate(v); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrMissingRequiredFields,
			strings.Join(pkgvalidator.FailedFields(err), ", "))
	}
	return nil
}

// CheckItemReferences returns *domain.InvalidItemsError listing, in request
// order, every id for which exists reports false. Returns nil when all resolve.
func CheckItemReferences(ids []string, exists func(id string) bool) error {
	var missing []string
	for _, id := range ids {
		if !exists(id) {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return &domain.InvalidItemsError{IDs: missing}
	}
	return nil
}
