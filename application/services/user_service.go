package services

import (
	"context"
	"fmt"
	"path"
	"strings"

	"go.uber.org/zap"

	"exercisely-backend/application/ports"
	"exercisely-backend/domain/core/entities"
	pkgerrors "exercisely-backend/pkg/errors"
)

var allowedPhotoExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// UserService handles registration, authentication and profile management.
type UserService struct {
	users     ports.UserRepository
	identity  ports.IdentityProvider
	media     ports.MediaStorage
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewUserService creates a new user service.
func NewUserService(
	users ports.UserRepository,
	identity ports.IdentityProvider,
	media ports.MediaStorage,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		users:     users,
		identity:  identity,
		media:     media,
		publisher: publisher,
		logger:    logger,
	}
}

// Register signs the user up with the identity provider and creates the
// profile item. Email uniqueness is checked case-insensitively first so
// the caller gets a clean conflict instead of a provider error.
func (s *UserService) Register(ctx context.Context, email, password, name string) (*entities.User, error) {
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil && !pkgerrors.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, pkgerrors.NewConflictError("an account with this email already exists")
	}

	subject, err := s.identity.SignUp(ctx, email, password, name)
	if err != nil {
		return nil, err
	}

	user, err := entities.NewUser(subject, email, name)
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.String("userID", user.UserID))

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, ports.EventUserRegistered, map[string]string{
			"userId": user.UserID,
		}); err != nil {
			s.logger.Warn("failed to publish registration event", zap.Error(err))
		}
	}
	return user, nil
}

// Login authenticates credentials and returns the issued tokens together
// with the stored profile.
func (s *UserService) Login(ctx context.Context, email, password string) (*ports.AuthTokens, *entities.User, error) {
	tokens, err := s.identity.Authenticate(ctx, email, password)
	if err != nil {
		return nil, nil, err
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	return tokens, user, nil
}

// Refresh exchanges a refresh token for a new token bundle.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*ports.AuthTokens, error) {
	if refreshToken == "" {
		return nil, pkgerrors.NewValidationError("refresh token is required")
	}
	return s.identity.Refresh(ctx, refreshToken)
}

// ForgotPassword starts a password reset. The outcome never reveals
// whether the email has an account.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	return s.identity.ForgotPassword(ctx, email)
}

// ConfirmForgotPassword completes a password reset with the emailed code.
func (s *UserService) ConfirmForgotPassword(ctx context.Context, email, code, newPassword string) error {
	return s.identity.ConfirmForgotPassword(ctx, email, code, newPassword)
}

// ChangePassword rotates the caller's password. The access token, not a
// user id, identifies the caller to the provider.
func (s *UserService) ChangePassword(ctx context.Context, accessToken, oldPassword, newPassword string) error {
	if oldPassword == newPassword {
		return pkgerrors.NewValidationError("new password must differ from the current one")
	}
	return s.identity.ChangePassword(ctx, accessToken, oldPassword, newPassword)
}

// ChangeEmail starts an email change. The new address is checked against
// the store first so the caller gets a clean conflict instead of waiting
// for the verification step to fail.
func (s *UserService) ChangeEmail(ctx context.Context, accessToken, newEmail string) error {
	newEmail = strings.ToLower(strings.TrimSpace(newEmail))
	existing, err := s.users.GetByEmail(ctx, newEmail)
	if err != nil && !pkgerrors.IsNotFound(err) {
		return err
	}
	if existing != nil {
		return pkgerrors.NewConflictError("an account with this email already exists")
	}
	return s.identity.ChangeEmail(ctx, accessToken, newEmail)
}

// ConfirmChangeEmail verifies the emailed code and moves the stored
// profile to the address now on the credentials record.
func (s *UserService) ConfirmChangeEmail(ctx context.Context, userID, accessToken, code string) (*entities.User, error) {
	email, err := s.identity.ConfirmChangeEmail(ctx, accessToken, code)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Email = email
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user email changed", zap.String("userID", userID))
	return user, nil
}

// ResendConfirmationCode re-sends a pending sign-up code. The outcome
// never reveals whether the email has an account.
func (s *UserService) ResendConfirmationCode(ctx context.Context, email string) error {
	return s.identity.ResendSignUpCode(ctx, email)
}

// DeleteAccount removes the caller's credentials, stored photo and every
// item under their partition.
func (s *UserService) DeleteAccount(ctx context.Context, userID string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.identity.DeleteAccount(ctx, user.Email); err != nil {
		return err
	}
	if user.ProfilePhotoURL != "" {
		if idx := strings.Index(user.ProfilePhotoURL, "profile-photos/"); idx >= 0 {
			if err := s.media.Delete(ctx, user.ProfilePhotoURL[idx:]); err != nil {
				s.logger.Warn("failed to delete profile photo object", zap.Error(err))
			}
		}
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}

	s.logger.Info("account deleted", zap.String("userID", userID))

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, ports.EventUserDeleted, map[string]string{
			"userId": userID,
		}); err != nil {
			s.logger.Warn("failed to publish deletion event", zap.Error(err))
		}
	}
	return nil
}

// GetProfile returns the full profile, counters included.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*entities.User, error) {
	return s.users.GetByID(ctx, userID)
}

// GetAllUsers returns sanitized summaries of every profile.
func (s *UserService) GetAllUsers(ctx context.Context) ([]entities.UserSummary, error) {
	users, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]entities.UserSummary, 0, len(users))
	for _, user := range users {
		summaries = append(summaries, user.Summary())
	}
	return summaries, nil
}

// GetPublicProfile returns the projection other users may see.
func (s *UserService) GetPublicProfile(ctx context.Context, userID string) (*entities.UserSummary, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary := user.Summary()
	return &summary, nil
}

// UpdateProfile applies name changes to the caller's own profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID, name string) (*entities.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.NewValidationError("name is required")
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Name = name
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetPhotoUploadURL presigns an upload slot for the caller's profile
// photo and records the resulting public URL on the profile.
func (s *UserService) GetPhotoUploadURL(ctx context.Context, userID, fileName string) (string, error) {
	ext := strings.ToLower(path.Ext(fileName))
	contentType, ok := allowedPhotoExtensions[ext]
	if !ok {
		return "", pkgerrors.NewValidationError("unsupported image type")
	}

	key := fmt.Sprintf("profile-photos/%s%s", userID, ext)
	uploadURL, publicURL, err := s.media.PresignUpload(ctx, key, contentType)
	if err != nil {
		return "", err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	user.ProfilePhotoURL = publicURL
	if err := s.users.Update(ctx, user); err != nil {
		return "", err
	}

	s.logger.Debug("presigned profile photo upload",
		zap.String("userID", userID),
		zap.String("key", key),
	)
	return uploadURL, nil
}

// DeletePhoto removes the stored photo object and clears the profile URL.
func (s *UserService) DeletePhoto(ctx context.Context, userID string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.ProfilePhotoURL == "" {
		return nil
	}

	// The key is deterministic from the URL's path component.
	idx := strings.Index(user.ProfilePhotoURL, "profile-photos/")
	if idx >= 0 {
		if err := s.media.Delete(ctx, user.ProfilePhotoURL[idx:]); err != nil {
			s.logger.Warn("failed to delete profile photo object", zap.Error(err))
		}
	}

	user.ProfilePhotoURL = ""
	return s.users.Update(ctx, user)
}
