// Package users declares and implements the credential store of the server.
package users

import (
	"context"

	"github.com/dmitrijs2005/carescan/internal/server/models"
)

// Repository is the credential store contract.
type Repository interface {
	// FindByAnyIdentifier returns the identity whose username, email or phone
	// number equals identifier. common.ErrNotFound when there is none.
	FindByAnyIdentifier(ctx context.Context, identifier string) (*models.User, error)

	// FindByID returns the identity with the given id or common.ErrNotFound.
	FindByID(ctx context.Context, id string) (*models.User, error)

	// IdentifiersTaken reports whether any of ids is already used as a
	// username, email or phone number by any identity.
	IdentifiersTaken(ctx context.Context, ids ...string) (bool, error)

	// Create inserts user, filling ID (when empty) and CreatedAt.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// UpdateProfile replaces the editable profile fields of the identity.
	UpdateProfile(ctx context.Context, id string, age *int, medicalHistory string) error
}
