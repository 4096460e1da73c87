// Package services contains the server-side business logic: authentication
// and profile management, personalization context assembly, and the
// consultation orchestrator.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/carescan/internal/common"
	"github.com/dmitrijs2005/carescan/internal/dbx"
	"github.com/dmitrijs2005/carescan/internal/logging"
	"github.com/dmitrijs2005/carescan/internal/server/auth"
	"github.com/dmitrijs2005/carescan/internal/server/models"
	"github.com/dmitrijs2005/carescan/internal/server/repositories/repomanager"
)

// RegisterInput is the data accepted at sign-up. Email and PhoneNumber are
// optional alternate login identifiers.
type RegisterInput struct {
	UserName       string
	Email          string
	PhoneNumber    string
	Password       string
	Age            *int
	MedicalHistory string
}

// ProfileInput holds the editable profile fields. A nil Age or an empty
// MedicalHistory clears the stored value.
type ProfileInput struct {
	Age            *int
	MedicalHistory string
}

// Authenticator resolves login identifiers to identities, verifies secrets,
// and owns the write paths that keep identifiers unique.
type Authenticator struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewAuthenticator(db *sql.DB, m repomanager.RepositoryManager, l logging.Logger) *Authenticator {
	return &Authenticator{db: db, repomanager: m, logger: l.With("module", "authenticator")}
}

// Authenticate returns the principal of the identity matching identifier
// (username, email or phone number) whose stored hash matches secret.
//
// ErrIdentityNotFound and ErrInvalidSecret are distinct here for logging;
// the transport layer must present both identically.
func (a *Authenticator) Authenticate(ctx context.Context, identifier, secret string) (models.Principal, error) {
	if identifier == "" || secret == "" {
		return models.Principal{}, common.ErrMissingCredentials
	}

	repo := a.repomanager.Users(a.db)
	user, err := repo.FindByAnyIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			auth.CompareSecret(nil, []byte(secret))
			return models.Principal{}, common.ErrIdentityNotFound
		}
		a.logger.Error(ctx, "identity lookup failed", "error", err)
		return models.Principal{}, fmt.Errorf("%w: %v", common.ErrInternal, err)
	}

	if len(user.PasswordHash) == 0 {
		auth.CompareSecret(nil, []byte(secret))
		return models.Principal{}, common.ErrIdentityNotFound
	}

	if !auth.CompareSecret(user.PasswordHash, []byte(secret)) {
		a.logger.Info(ctx, "secret mismatch", "user_id", user.ID)
		return models.Principal{}, common.ErrInvalidSecret
	}

	return user.Principal(), nil
}

// Register creates an identity. All supplied identifiers are checked against
// every identifier column of every identity inside one serializable
// transaction, so a value can never resolve to two identities.
func (a *Authenticator) Register(ctx context.Context, in RegisterInput) (models.Principal, error) {
	user := &models.User{
		UserName:       strings.TrimSpace(in.UserName),
		Email:          strings.TrimSpace(in.Email),
		PhoneNumber:    strings.TrimSpace(in.PhoneNumber),
		Age:            in.Age,
		MedicalHistory: strings.TrimSpace(in.MedicalHistory),
	}
	if user.UserName == "" || in.Password == "" {
		return models.Principal{}, fmt.Errorf("%w: username and password are required", common.ErrValidation)
	}
	if len(in.Password) > auth.MaxSecretBytes {
		return models.Principal{}, fmt.Errorf("%w: password must be at most %d bytes", common.ErrValidation, auth.MaxSecretBytes)
	}
	if !validAge(in.Age) {
		return models.Principal{}, fmt.Errorf("%w: age out of range", common.ErrValidation)
	}

	hash, err := auth.HashSecret([]byte(in.Password))
	if err != nil {
		return models.Principal{}, fmt.Errorf("%w: hashing secret: %v", common.ErrInternal, err)
	}
	user.PasswordHash = hash

	err = dbx.WithTx(ctx, a.db, dbx.Serializable, func(ctx context.Context, tx dbx.DBTX) error {
		repo := a.repomanager.Users(tx)

		taken, err := repo.IdentifiersTaken(ctx, user.Identifiers()...)
		if err != nil {
			return err
		}
		if taken {
			return common.ErrAlreadyExists
		}

		_, err = repo.Create(ctx, user)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) || dbx.IsUniqueViolation(err) || dbx.IsSerializationFailure(err) {
			return models.Principal{}, common.ErrAlreadyExists
		}
		a.logger.Error(ctx, "registration failed", "error", err)
		return models.Principal{}, fmt.Errorf("%w: %v", common.ErrInternal, err)
	}

	a.logger.Info(ctx, "identity registered", "user_id", user.ID)
	return user.Principal(), nil
}

// UpdateProfile replaces the age and medical-history note of the identity.
func (a *Authenticator) UpdateProfile(ctx context.Context, identityID string, in ProfileInput) error {
	if !validAge(in.Age) {
		return fmt.Errorf("%w: age out of range", common.ErrValidation)
	}

	repo := a.repomanager.Users(a.db)
	err := repo.UpdateProfile(ctx, identityID, in.Age, strings.TrimSpace(in.MedicalHistory))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound
		}
		a.logger.Error(ctx, "profile update failed", "user_id", identityID, "error", err)
		return fmt.Errorf("%w: %v", common.ErrInternal, err)
	}
	return nil
}

// validAge mirrors the users.age CHECK constraint.
func validAge(age *int) bool {
	return age == nil || (*age >= 0 && *age <= 150)
}
