package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"exercisely-backend/application/ports"
	"exercisely-backend/domain/core/entities"
	pkgerrors "exercisely-backend/pkg/errors"
)

func newUserServiceForTest(users *MockUserRepository, identity *MockIdentityProvider, media *MockMediaStorage) *UserService {
	return NewUserService(users, identity, media, nil, zap.NewNop())
}

func TestUserService_Register_Success(t *testing.T) {
	ctx := context.Background()
	mockUsers := new(MockUserRepository)
	mockIdentity := new(MockIdentityProvider)

	mockUsers.On("GetByEmail", ctx, "alice@example.com").Return(nil, pkgerrors.NewNotFoundError("user"))
	mockIdentity.On("SignUp", ctx, "alice@example.com", "s3cret!", "Alice").Return("sub-123", nil)
	mockUsers.On("Create", ctx, mock.AnythingOfType("*entities.User")).Return(nil)

	svc := newUserServiceForTest(mockUsers, mockIdentity, new(MockMediaStorage))

	user, err := svc.Register(ctx, "alice@example.com", "s3cret!", "Alice")

	require.NoError(t, err)
	assert.Equal(t, "sub-123", user.UserID)
	assert.Equal(t, "alice@example.com", user.Email)
	mockUsers.AssertExpectations(t)
	mockIdentity.AssertExpectations(t)
}

func TestUserService_Register_EmailTaken(t *testing.T) {
	ctx := context.Background()
	mockUsers := new(MockUserRepository)
	mockIdentity := new(MockIdentityProvider)

	mockUsers.On("GetByEmail", ctx, "alice@example.com").
		Return(&entities.User{UserID: "u1", Email: "alice@example.com"}, nil)

	svc := newUserServiceForTest(mockUsers, mockIdentity, new(MockMediaStorage))

	_, err := svc.Register(ctx, "alice@example.com", "s3cret!", "Alice")

	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeConflict))
	mockIdentity.AssertNotCalled(t, "SignUp", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUserService_Login_ReturnsTokensAndProfile(t *testing.T) {
	ctx := context.Background()
	mockUsers := new(MockUserRepository)
	mockIdentity := new(MockIdentityProvider)

	tokens := &ports.AuthTokens{AccessToken: "access", RefreshToken: "refresh"}
	mockIdentity.On("Authenticate", ctx, "alice@example.com", "s3cret!").Return(tokens, nil)
	mockUsers.On("GetByEmail", ctx, "alice@example.com").
		Return(&entities.User{UserID: "u1", Email: "alice@example.com", Name: "Alice"}, nil)

	svc := newUserServiceForTest(mockUsers, mockIdentity, new(MockMediaStorage))

	got, user, err := svc.Login(ctx, "alice@example.com", "s3cret!")

	require.NoError(t, err)
	assert.Equal(t, "access", got.AccessToken)
	assert.Equal(t, "u1", user.UserID)
}

func TestUserService_Refresh_EmptyToken(t *testing.T) {
	ctx := context.Background()
	svc := newUserServiceForTest(new(MockUserRepository), new(MockIdentityProvider), new(MockMediaStorage))

	_, err := svc.Refresh(ctx, "")

	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeValidation))
}

func TestUserService_UpdateProfile_BlankName(t *testing.T) {
	ctx := context.Background()
	mockUsers := new(MockUserRepository)

	svc := newUserServiceForTest(mockUsers, new(MockIdentityProvider), new(MockMediaStorage))

	_, err := svc.UpdateProfile(ctx, "u1", "   ")

	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeValidation))
	mockUsers.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUserService_GetPhotoUploadURL_Success(t *testing.T) {
	ctx := context.Background()
	mockUsers := new(MockUserRepository)
	mockMedia := new(MockMediaStorage)

	mockMedia.On("PresignUpload", ctx, "profile-photos/u1.png", "image/png").
		Return("https://upload.example/signed", "https://cdn.example/profile-photos/u1.png", nil)
	mockUsers.On("GetByID", ctx, "u1").Return(&entities.User{UserID: "u1", Name: "Alice"}, nil)
	mockUsers.On("Update", ctx, mock.MatchedBy(func(u *entities.User) bool {
		return u.ProfilePhotoURL == "https://cdn.example/profile-photos/u1.png"
	})).Return(nil)

	svc := newUserServiceForTest(mockUsers, new(MockIdentityProvider), mockMedia)

	uploadURL, err := svc.GetPhotoUploadURL(ctx, "u1", "selfie.PNG")

	require.NoError(t, err)
	assert.Equal(t, "https://upload.example/signed", uploadURL)
	mockUsers.AssertExpectations(t)
}

func TestUserService_GetPhotoUploadURL_UnsupportedType(t *testing.T) {
	ctx := context.Background()
	mockMedia := new(MockMediaStorage)

	svc := newUserServiceForTest(new(MockUserRepository), new(MockIdentityProvider), mockMedia)

	_, err := svc.GetPhotoUploadURL(ctx, "u1", "malware.exe")

	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeValidation))
	mockMedia.AssertNotCalled(t, "PresignUpload", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserService_DeletePhoto_ExtractsKeyFromURL(t *testing.T) {
	ctx := context.Background()
	mockUsers := new(MockUserRepository)
	mockMedia := new(MockMediaStorage)

	user := &entities.User{UserID: "u1", ProfilePhotoURL: "https://cdn.example/profile-photos/u1.jpg"}
	mockUsers.On("GetByID", ctx, "u1").Return(user, nil)
	mockMedia.On("Delete", ctx, "profile-photos/u1.jpg").Return(nil)
	mockUsers.On("Update", ctx, mock.MatchedBy(func(u *entities.User) bool {
		return u.ProfilePhotoURL == ""
	})).Return(nil)

	svc := newUserServiceForTest(mockUsers, new(MockIdentityProvider), mockMedia)

	err := svc.DeletePhoto(ctx, "u1")

	assert.NoError(t, err)
	mockMedia.AssertExpectations(t)
}

func TestUserService_ChangePassword_SamePasswordRejected(t *testing.T) {
	ctx := context.Background()
	mockIdentity := new(MockIdentityProvider)

	svc := newUserServiceForTest(new(MockUserRepository), mockIdentity, new(MockMediaStorage))

	err := svc.ChangePassword(ctx, "token", "s3cret!", "s3cret!")

	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeValidation))
	mockIdentity.AssertNotCalled(t, "ChangePassword", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUserService_ChangeEmail_AddressTaken(t *testing.T) {
	ctx := context.Background()
	mockUsers := new(MockUserRepository)
	mockIdentity := new(MockIdentityProvider)

	mockUsers.On("GetByEmail", ctx, "taken@example.com").
		Return(&entities.User{UserID: "u2", Email: "taken@example.com"}, nil)

	svc := newUserServiceForTest(mockUsers, mockIdentity, new(MockMediaStorage))

	err := svc.ChangeEmail(ctx, "token", "Taken@Example.com")

	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeConflict))
	mockIdentity.AssertNotCalled(t, "ChangeEmail", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserService_ConfirmChangeEmail_RekeysStoredProfile(t *testing.T) {
	ctx := context.Background()
	mockUsers := new(MockUserRepository)
	mockIdentity := new(MockIdentityProvider)

	mockIdentity.On("ConfirmChangeEmail", ctx, "token", "123456").Return("new@example.com", nil)
	mockUsers.On("GetByID", ctx, "u1").
		Return(&entities.User{UserID: "u1", Email: "old@example.com", Name: "Alice"}, nil)
	mockUsers.On("Update", ctx, mock.MatchedBy(func(u *entities.User) bool {
		return u.Email == "new@example.com"
	})).Return(nil)

	svc := newUserServiceForTest(mockUsers, mockIdentity, new(MockMediaStorage))

	user, err := svc.ConfirmChangeEmail(ctx, "u1", "token", "123456")

	require.NoError(t, err)
	assert.Equal(t, "new@example.com", user.Email)
	mockUsers.AssertExpectations(t)
}

func TestUserService_GetAllUsers_ReturnsSanitizedSummaries(t *testing.T) {
	ctx := context.Background()
	mockUsers := new(MockUserRepository)

	mockUsers.On("ListAll", ctx).Return([]*entities.User{
		{UserID: "u1", Email: "alice@example.com", Name: "Alice"},
		{UserID: "u2", Email: "bob@example.com", Name: "Bob"},
	}, nil)

	svc := newUserServiceForTest(mockUsers, new(MockIdentityProvider), new(MockMediaStorage))

	summaries, err := svc.GetAllUsers(ctx)

	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "u1", summaries[0].UserID)
	assert.Equal(t, "Alice", summaries[0].Name)
}

func TestUserService_DeleteAccount_CascadesCredentialsPhotoAndItems(t *testing.T) {
	ctx := context.Background()
	mockUsers := new(MockUserRepository)
	mockIdentity := new(MockIdentityProvider)
	mockMedia := new(MockMediaStorage)

	user := &entities.User{
		UserID:          "u1",
		Email:           "alice@example.com",
		ProfilePhotoURL: "https://cdn.example/profile-photos/u1.jpg",
	}
	mockUsers.On("GetByID", ctx, "u1").Return(user, nil)
	mockIdentity.On("DeleteAccount", ctx, "alice@example.com").Return(nil)
	mockMedia.On("Delete", ctx, "profile-photos/u1.jpg").Return(nil)
	mockUsers.On("Delete", ctx, "u1").Return(nil)

	svc := newUserServiceForTest(mockUsers, mockIdentity, mockMedia)

	err := svc.DeleteAccount(ctx, "u1")

	assert.NoError(t, err)
	mockUsers.AssertExpectations(t)
	mockIdentity.AssertExpectations(t)
	mockMedia.AssertExpectations(t)
}

func TestUserService_DeleteAccount_StopsWhenCredentialsDeletionFails(t *testing.T) {
	ctx := context.Background()
	mockUsers := new(MockUserRepository)
	mockIdentity := new(MockIdentityProvider)

	user := &entities.User{UserID: "u1", Email: "alice@example.com"}
	mockUsers.On("GetByID", ctx, "u1").Return(user, nil)
	mockIdentity.On("DeleteAccount", ctx, "alice@example.com").
		Return(pkgerrors.NewExternalError("account deletion failed", nil))

	svc := newUserServiceForTest(mockUsers, mockIdentity, new(MockMediaStorage))

	err := svc.DeleteAccount(ctx, "u1")

	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeExternal))
	mockUsers.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestUserService_DeletePhoto_NoPhotoIsNoop(t *testing.T) {
	ctx := context.Background()
	mockUsers := new(MockUserRepository)
	mockMedia := new(MockMediaStorage)

	mockUsers.On("GetByID", ctx, "u1").Return(&entities.User{UserID: "u1"}, nil)

	svc := newUserServiceForTest(mockUsers, new(MockIdentityProvider), mockMedia)

	err := svc.DeletePhoto(ctx, "u1")

	assert.NoError(t, err)
	mockMedia.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	mockUsers.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
