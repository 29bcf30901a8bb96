// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"encoding/base64"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"bioauth/config"
	deliverycontext "bioauth/internal/delivery/context"
	"bioauth/internal/domain/entity"
	domainerrors "bioauth/internal/domain/errors"
	"bioauth/internal/domain/repository"
	"bioauth/internal/domain/service"
	"bioauth/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	// maxPasswordBytes is the bcrypt input limit; longer input would be silently truncated.
	maxPasswordBytes = 72

	defaultPasswordMinLength = 8

	// dummyPassword feeds the comparison run for unknown login identifiers.
	dummyPassword = "bioauth-timing-equalizer"
)

// accountService implements the AccountUsecase interface.
type accountService struct {
	txManager              repository.TransactionManager
	hasher                 service.PasswordHasher
	tokenService           service.TokenService
	publisher              service.EventPublisher
	validate               *validator.Validate
	passwordMinLength      int
	requireDeleteOwnership bool
	logger                 *slog.Logger
	now                    func() time.Time

	dummyOnce sync.Once
	dummyHash string
	dummySalt string
}

// AccountServiceParams holds dependencies for AccountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Publisher    service.EventPublisher
	Config       *config.Config
	Logger       *slog.Logger
}

// NewAccountService is the constructor for accountService. It receives all dependencies as interfaces.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	minLength := defaultPasswordMinLength
	if params.Config != nil && params.Config.PasswordPolicy != nil && params.Config.PasswordPolicy.MinLength > 0 {
		minLength = params.Config.PasswordPolicy.MinLength
	}

	requireOwnership := false
	if params.Config != nil && params.Config.Auth != nil {
		requireOwnership = params.Config.Auth.RequireDeleteOwnership
	}

	return &accountService{
		txManager:              params.TxManager,
		hasher:                 params.Hasher,
		tokenService:           params.TokenService,
		publisher:              params.Publisher,
		validate:               validator.New(validator.WithRequiredStructEnabled()),
		passwordMinLength:      minLength,
		requireDeleteOwnership: requireOwnership,
		logger:                 params.Logger,
		now:                    time.Now,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register validates the input, creates the account and signs its first token pair.
func (srv *accountService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.AuthOutput, error) {
	if err := srv.validateRegistration(input); err != nil {
		srv.log(ctx).Debug("Registration rejected", slog.String("email", input.Email), slog.Any("error", err))

		return nil, err
	}

	// Hash outside the transaction; bcrypt is CPU-bound.
	passwordHash, salt, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, domainerrors.ErrPasswordHashFailed.WrapMessage(err.Error())
	}

	var output *usecase.AuthOutput
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()

		if err := ensureAbsent(userRepo.FindByEmail(ctx, input.Email)); err != nil {
			return srv.duplicateOr(err, domainerrors.ErrDuplicateEmail, "email already registered")
		}
		if err := ensureAbsent(userRepo.FindByUsername(ctx, input.Username)); err != nil {
			return srv.duplicateOr(err, domainerrors.ErrDuplicateUsername, "username already taken")
		}

		newUser := &entity.User{
			Username:     input.Username,
			Email:        input.Email,
			PasswordHash: passwordHash,
			Salt:         salt,
			ExternalID:   uuid.New(),
			CreatedAt:    srv.now().UTC(),
		}

		if err := userRepo.Create(ctx, newUser); err != nil {
			return mapCreateError(err)
		}

		// Signing inside the transaction means a signing failure leaves no account behind.
		accessToken, refreshToken, err := srv.tokenService.GenerateTokens(newUser.ID)
		if err != nil {
			return domainerrors.ErrTokenIssueFailed.WrapMessage(err.Error())
		}

		output = &usecase.AuthOutput{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			User:         newUser,
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Registration failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute registration transaction")
	}

	srv.log(ctx).Info("Account registered", slog.Int64("userID", output.User.ID))
	srv.publish(ctx, entity.AccountEventRegistered, output.User.ExternalID)

	return output, nil
}

func (srv *accountService) validateRegistration(input *usecase.RegisterInput) error {
	if strings.TrimSpace(input.Username) == "" {
		return domainerrors.ErrUsernameRequired
	}

	if utf8.RuneCountInString(input.Username) > entity.MaxUsernameLength {
		return domainerrors.ErrUsernameTooLong
	}

	if utf8.RuneCountInString(input.Email) > entity.MaxEmailLength {
		return domainerrors.ErrInvalidEmail.WrapMessage("email exceeds maximum length")
	}

	if err := srv.validate.Var(input.Email, "required,email"); err != nil {
		return domainerrors.ErrInvalidEmail.WrapMessage(err.Error())
	}

	if utf8.RuneCountInString(input.Password) < srv.passwordMinLength {
		return domainerrors.ErrPasswordTooShort
	}

	if len(input.Password) > maxPasswordBytes {
		return domainerrors.ErrPasswordTooLong
	}

	return nil
}

// ensureAbsent turns a lookup result into nil when nothing was found, errExists
// when a record was found, and the lookup error otherwise.
func ensureAbsent(_ *entity.User, err error) error {
	if err == nil {
		return errExists
	}
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil
	}

	return err
}

var errExists = errors.New("record exists")

func (srv *accountService) duplicateOr(err error, duplicate *domainerrors.BaseError, msg string) error {
	if errors.Is(err, errExists) {
		return duplicate.WrapMessage(msg)
	}

	return errors.Wrap(err, "failed to check account uniqueness")
}

// mapCreateError maps unique violations that slipped past the pre-checks (a
// concurrent registration won the race) to the matching duplicate error.
func mapCreateError(err error) error {
	switch {
	case errors.Is(err, repository.ErrDuplicateEmail):
		return domainerrors.ErrDuplicateEmail.WrapMessage("email already registered")
	case errors.Is(err, repository.ErrDuplicateUsername):
		return domainerrors.ErrDuplicateUsername.WrapMessage("username already taken")
	}

	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return errors.Wrap(err, "failed to create user")
	}

	return domainerrors.NewDatabaseExecuteError(err, "failed to create user")
}

// Login authenticates by username or email and password. Unknown identifiers and
// wrong passwords fail identically.
func (srv *accountService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.AuthOutput, error) {
	srv.log(ctx).Debug("Starting login")

	var user *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		var findErr error
		user, findErr = repoFactory.NewUserRepository().FindByUsernameOrEmail(ctx, input.UsernameOrEmail)

		return findErr
	})

	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		// Spend the same bcrypt work as a real comparison.
		srv.compareDummy(input.Password)
		srv.log(ctx).Warn("Login failed", slog.Any("error", domainerrors.ErrInvalidCredentials))

		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
	case err != nil:
		srv.log(ctx).Error("Failed to load account for login", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute login transaction")
	}

	// Check password outside transaction (bcrypt is CPU-bound).
	if !srv.hasher.Verify(input.Password, user.Salt, user.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.Int64("userID", user.ID), slog.Any("error", domainerrors.ErrInvalidCredentials))

		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
	}

	accessToken, refreshToken, err := srv.tokenService.GenerateTokens(user.ID)
	if err != nil {
		return nil, domainerrors.ErrTokenIssueFailed.WrapMessage(err.Error())
	}

	srv.log(ctx).Debug("User logged in successfully", slog.Int64("userID", user.ID))

	return &usecase.AuthOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

func (srv *accountService) compareDummy(password string) {
	srv.dummyOnce.Do(func() {
		hash, salt, err := srv.hasher.Hash(dummyPassword)
		if err != nil {
			srv.logger.Error("Failed to prepare dummy password hash", slog.Any("error", err))

			return
		}
		srv.dummyHash, srv.dummySalt = hash, salt
	})

	_ = srv.hasher.Verify(password, srv.dummySalt, srv.dummyHash)
}

// RefreshToken issues a new access token for the identity of a valid refresh token.
// The refresh token itself is not rotated.
func (srv *accountService) RefreshToken(ctx context.Context, refreshToken string) (*usecase.RefreshOutput, error) {
	claims, err := srv.authenticate(refreshToken, entity.TokenTypeRefresh)
	if err != nil {
		srv.log(ctx).Debug("Refresh token rejected", slog.Any("error", err))

		return nil, err
	}

	accessToken, err := srv.tokenService.IssueAccess(claims.UserID, srv.tokenService.GetRefreshedAccessTokenDuration())
	if err != nil {
		return nil, domainerrors.ErrTokenIssueFailed.WrapMessage(err.Error())
	}

	srv.log(ctx).Debug("Access token refreshed", slog.Int64("userID", claims.UserID))

	return &usecase.RefreshOutput{AccessToken: accessToken}, nil
}

// Logout has no server-side state to clear; clients discard their tokens.
func (srv *accountService) Logout(ctx context.Context) error {
	srv.log(ctx).Debug("Logout requested")

	return nil
}

// GetUserDetails loads the account behind an access token.
func (srv *accountService) GetUserDetails(ctx context.Context, accessToken string) (*usecase.UserDetails, error) {
	claims, err := srv.authenticate(accessToken, entity.TokenTypeAccess)
	if err != nil {
		return nil, err
	}

	var user *entity.User
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		var findErr error
		user, findErr = repoFactory.NewUserRepository().FindByID(ctx, claims.UserID)

		return findErr
	})
	if err != nil {
		return nil, srv.notFoundOr(ctx, err, "failed to load user details")
	}

	return &usecase.UserDetails{
		Username:   user.Username,
		Email:      user.Email,
		ExternalID: user.ExternalID,
		CreatedAt:  user.CreatedAt,
	}, nil
}

// DeleteAccount hard-deletes the account registered under the email. When
// ownership checks are enabled the caller must present the owner's access token.
func (srv *accountService) DeleteAccount(ctx context.Context, input *usecase.DeleteAccountInput) error {
	if strings.TrimSpace(input.Email) == "" {
		return domainerrors.ErrValidationFailed.WithDetails("email is required")
	}

	var callerID int64
	if srv.requireDeleteOwnership {
		claims, err := srv.authenticate(input.AccessToken, entity.TokenTypeAccess)
		if err != nil {
			return err
		}
		callerID = claims.UserID
	}

	var deleted *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()

		user, err := userRepo.FindByEmail(ctx, input.Email)
		if err != nil {
			if srv.requireDeleteOwnership && errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrForbidden.WrapMessage("account does not belong to caller")
			}

			return err
		}

		if srv.requireDeleteOwnership && user.ID != callerID {
			return domainerrors.ErrForbidden.WrapMessage("account does not belong to caller")
		}

		if err := userRepo.Delete(ctx, user.ID); err != nil {
			return err
		}
		deleted = user

		return nil
	})
	if err != nil {
		return srv.notFoundOr(ctx, err, "failed to delete account")
	}

	srv.log(ctx).Info("Account deleted", slog.Int64("userID", deleted.ID))
	srv.publish(ctx, entity.AccountEventDeleted, deleted.ExternalID)

	return nil
}

// StoreBiometricData replaces the face data of the access token's owner.
func (srv *accountService) StoreBiometricData(ctx context.Context, input *usecase.StoreBiometricInput) error {
	claims, err := srv.authenticate(input.AccessToken, entity.TokenTypeAccess)
	if err != nil {
		return err
	}

	faceData, err := decodeFaceData(input.EncodedFaceData)
	if err != nil {
		return err
	}

	var user *entity.User
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()

		var findErr error
		user, findErr = userRepo.FindByID(ctx, claims.UserID)
		if findErr != nil {
			return findErr
		}

		return userRepo.UpdateBiometricData(ctx, user.ID, faceData)
	})
	if err != nil {
		return srv.notFoundOr(ctx, err, "failed to store biometric data")
	}

	srv.log(ctx).Info("Biometric data stored", slog.Int64("userID", user.ID), slog.Int("bytes", len(faceData)))
	srv.publish(ctx, entity.AccountEventBiometricEnrolled, user.ExternalID)

	return nil
}

// AuthenticateWithBiometrics signs a token pair for the account whose stored face
// data is byte-for-byte identical to the decoded input.
func (srv *accountService) AuthenticateWithBiometrics(ctx context.Context, encodedFaceData string) (*usecase.AuthOutput, error) {
	faceData, err := decodeFaceData(encodedFaceData)
	if err != nil {
		return nil, err
	}

	var user *entity.User
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		var findErr error
		user, findErr = repoFactory.NewUserRepository().FindByBiometricData(ctx, faceData)

		return findErr
	})
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		srv.log(ctx).Warn("Biometric authentication failed")

		return nil, domainerrors.ErrBiometricMismatch.WrapMessage("no matching biometric data")
	case err != nil:
		srv.log(ctx).Error("Failed to match biometric data", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute biometric lookup")
	}

	accessToken, refreshToken, err := srv.tokenService.GenerateTokens(user.ID)
	if err != nil {
		return nil, domainerrors.ErrTokenIssueFailed.WrapMessage(err.Error())
	}

	srv.log(ctx).Debug("Biometric authentication succeeded", slog.Int64("userID", user.ID))

	return &usecase.AuthOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

// authenticate validates a raw token of the required type. A missing token is UNAUTHORIZED.
func (srv *accountService) authenticate(token string, required entity.TokenType) (*service.Claims, error) {
	if token == "" {
		return nil, domainerrors.ErrUnauthorized.WrapMessage("missing " + required.String() + " token")
	}

	return srv.tokenService.ValidateToken(token, required)
}

// notFoundOr converts a repository miss into USER_NOT_FOUND and wraps anything else.
func (srv *accountService) notFoundOr(ctx context.Context, err error, msg string) error {
	if errors.Is(err, repository.ErrUserNotFound) {
		return domainerrors.ErrUserNotFound.WrapMessage(msg)
	}

	var appErr domainerrors.AppError
	if !errors.As(err, &appErr) {
		srv.log(ctx).Error(msg, slog.Any("error", err))
	}

	return errors.Wrap(err, msg)
}

// decodeFaceData decodes standard, padded base64. Non-canonical padding bits are rejected.
func decodeFaceData(encoded string) ([]byte, error) {
	if encoded == "" {
		return nil, domainerrors.ErrInvalidBiometricInput
	}

	data, err := base64.StdEncoding.Strict().DecodeString(encoded)
	if err != nil {
		return nil, domainerrors.ErrBiometricDecode.WrapMessage(err.Error())
	}

	if len(data) == 0 {
		return nil, domainerrors.ErrInvalidBiometricInput
	}

	return data, nil
}

// publish emits an account event after a committed change. Delivery failures are
// logged and never fail the request.
func (srv *accountService) publish(ctx context.Context, eventType entity.AccountEventType, externalID uuid.UUID) {
	if srv.publisher == nil {
		return
	}

	event := entity.NewAccountEvent(eventType, externalID, deliverycontext.GetRequestIDFromContext(ctx), srv.now())
	if err := srv.publisher.PublishAccountEvent(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish account event",
			slog.String("type", string(eventType)),
			slog.Any("error", err),
		)
	}
}
