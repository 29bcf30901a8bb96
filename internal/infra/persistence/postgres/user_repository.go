// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"bioauth/internal/domain/entity"
	domainerrors "bioauth/internal/domain/errors"
	"bioauth/internal/domain/repository"
	"bioauth/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// userRepository implements the domain.UserRepository interface using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
// It returns the repository as a domain.UserRepository interface, adhering to dependency inversion.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{
		db: db,
	}
}

// FindByID retrieves a single user by their unique ID.
func (repo *userRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	return repo.first(ctx, "failed to find user by id", "id = ?", id)
}

// FindByEmail retrieves a single user by their email address.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return repo.first(ctx, "failed to find user by email", "email = ?", email)
}

// FindByUsername retrieves a single user by username.
func (repo *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return repo.first(ctx, "failed to find user by username", "username = ?", username)
}

// FindByUsernameOrEmail matches identifier against username first, then email.
func (repo *userRepository) FindByUsernameOrEmail(ctx context.Context, identifier string) (*entity.User, error) {
	var userM model.UserModel
	err := repo.db.WithContext(ctx).
		Where("username = ? OR email = ?", identifier, identifier).
		// An identifier can hit one row by username and another by email; the username match wins.
		Order(gorm.Expr("CASE WHEN username = ? THEN 0 ELSE 1 END", identifier)).
		Order("id").
		Take(&userM).Error

	return repo.mapResult(&userM, err, "failed to find user by username or email")
}

// FindByBiometricData returns the lowest-id user whose stored bytes equal data.
func (repo *userRepository) FindByBiometricData(ctx context.Context, data []byte) (*entity.User, error) {
	if len(data) == 0 {
		return nil, repository.ErrUserNotFound
	}

	var userM model.UserModel
	err := repo.db.WithContext(ctx).
		Where("biometric_data = ?", data).
		Order("id").
		Take(&userM).Error

	return repo.mapResult(&userM, err, "failed to find user by biometric data")
}

// Create persists a new user entity to the database.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	// Map the pure domain entity to a GORM persistence model.
	userM := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		// Convert PostgreSQL errors to domain errors
		if isUniqueConstraintViolation(err) {
			switch violatedConstraint(err) {
			case model.UsersEmailKey:
				return errors.WithStack(repository.ErrDuplicateEmail)
			case model.UsersUsernameKey:
				return errors.WithStack(repository.ErrDuplicateUsername)
			case model.UsersExternalIDKey:
				return errors.WithStack(repository.ErrDuplicateExternalID)
			}
		}
		if isNotNullConstraintViolation(err) || isCheckConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing or invalid user information")
		}
		// For other database errors, return a generic database error
		return domainerrors.NewDatabaseExecuteError(err, "failed to create user")
	}

	// Update the user entity with the generated ID and timestamp
	user.ID = userM.ID
	user.CreatedAt = userM.CreatedAt

	return nil
}

// UpdateBiometricData overwrites the biometric column of a single user.
func (repo *userRepository) UpdateBiometricData(ctx context.Context, id int64, data []byte) error {
	result := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ?", id).
		Update("biometric_data", data)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update biometric data")
	}

	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// Delete hard-deletes a user record.
func (repo *userRepository) Delete(ctx context.Context, id int64) error {
	result := repo.db.WithContext(ctx).Delete(&model.UserModel{}, id)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete user")
	}

	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

func (repo *userRepository) first(ctx context.Context, msg string, query string, args ...any) (*entity.User, error) {
	var userM model.UserModel
	err := repo.db.WithContext(ctx).Where(query, args...).Take(&userM).Error

	return repo.mapResult(&userM, err, msg)
}

func (repo *userRepository) mapResult(userM *model.UserModel, err error, msg string) (*entity.User, error) {
	if err != nil {
		// If the error is 'record not found', return a domain-specific error.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, msg)
	}

	// Map the persistence model back to a pure domain entity before returning.
	return toUserDomain(userM), nil
}

// --- Mapper Functions ---
// These helpers convert between domain entities and persistence models.

// toUserDomain converts a GORM UserModel to a domain User entity.
func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	return &entity.User{
		ID:            data.ID,
		Username:      data.Username,
		Email:         data.Email,
		PasswordHash:  data.PasswordHash,
		Salt:          data.Salt,
		ExternalID:    data.ExternalID,
		CreatedAt:     data.CreatedAt,
		BiometricData: data.BiometricData,
	}
}

// fromUserDomain converts a domain User entity to a GORM UserModel for persistence.
func fromUserDomain(data *entity.User) *model.UserModel {
	if data == nil {
		return nil
	}

	return &model.UserModel{
		ID:            data.ID,
		Username:      data.Username,
		Email:         data.Email,
		PasswordHash:  data.PasswordHash,
		Salt:          data.Salt,
		ExternalID:    data.ExternalID,
		CreatedAt:     data.CreatedAt,
		BiometricData: data.BiometricData,
	}
}
