package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"go.uber.org/zap"

	"exercisely-backend/application/ports"
	pkgerrors "exercisely-backend/pkg/errors"
)

// CognitoProvider implements the IdentityProvider port on a Cognito
// user pool. Profiles live in our table; Cognito only holds credentials.
type CognitoProvider struct {
	client   *cognitoidentityprovider.Client
	poolID   string
	clientID string
	logger   *zap.Logger
}

// NewCognitoProvider creates a new CognitoProvider.
func NewCognitoProvider(client *cognitoidentityprovider.Client, poolID, clientID string, logger *zap.Logger) ports.IdentityProvider {
	return &CognitoProvider{
		client:   client,
		poolID:   poolID,
		clientID: clientID,
		logger:   logger,
	}
}

// SignUp registers credentials and auto-confirms the account, returning
// the Cognito-assigned subject used as our user id.
func (p *CognitoProvider) SignUp(ctx context.Context, email, password, name string) (string, error) {
	result, err := p.client.SignUp(ctx, &cognitoidentityprovider.SignUpInput{
		ClientId: aws.String(p.clientID),
		Username: aws.String(email),
		Password: aws.String(password),
		UserAttributes: []types.AttributeType{
			{Name: aws.String("email"), Value: aws.String(email)},
			{Name: aws.String("name"), Value: aws.String(name)},
		},
	})
	if err != nil {
		var exists *types.UsernameExistsException
		if errors.As(err, &exists) {
			return "", pkgerrors.NewConflictError("an account with this email already exists")
		}
		var invalidPw *types.InvalidPasswordException
		if errors.As(err, &invalidPw) {
			return "", pkgerrors.NewValidationError("password does not meet requirements")
		}
		return "", pkgerrors.NewExternalError("sign up failed", err)
	}

	_, err = p.client.AdminConfirmSignUp(ctx, &cognitoidentityprovider.AdminConfirmSignUpInput{
		UserPoolId: aws.String(p.poolID),
		Username:   aws.String(email),
	})
	if err != nil {
		p.logger.Warn("failed to confirm sign up", zap.Error(err))
	}

	return aws.ToString(result.UserSub), nil
}

// Authenticate verifies credentials with the password flow.
func (p *CognitoProvider) Authenticate(ctx context.Context, email, password string) (*ports.AuthTokens, error) {
	result, err := p.client.InitiateAuth(ctx, &cognitoidentityprovider.InitiateAuthInput{
		ClientId: aws.String(p.clientID),
		AuthFlow: types.AuthFlowTypeUserPasswordAuth,
		AuthParameters: map[string]string{
			"USERNAME": email,
			"PASSWORD": password,
		},
	})
	if err != nil {
		var notAuth *types.NotAuthorizedException
		var notFound *types.UserNotFoundException
		if errors.As(err, &notAuth) || errors.As(err, &notFound) {
			return nil, pkgerrors.NewUnauthorizedError("invalid email or password")
		}
		return nil, pkgerrors.NewExternalError("authentication failed", err)
	}
	return tokensFromResult(result.AuthenticationResult)
}

// Refresh exchanges a refresh token for new access tokens.
func (p *CognitoProvider) Refresh(ctx context.Context, refreshToken string) (*ports.AuthTokens, error) {
	result, err := p.client.InitiateAuth(ctx, &cognitoidentityprovider.InitiateAuthInput{
		ClientId: aws.String(p.clientID),
		AuthFlow: types.AuthFlowTypeRefreshTokenAuth,
		AuthParameters: map[string]string{
			"REFRESH_TOKEN": refreshToken,
		},
	})
	if err != nil {
		var notAuth *types.NotAuthorizedException
		if errors.As(err, &notAuth) {
			return nil, pkgerrors.NewUnauthorizedError("refresh token is invalid or expired")
		}
		return nil, pkgerrors.NewExternalError("token refresh failed", err)
	}

	tokens, err := tokensFromResult(result.AuthenticationResult)
	if err != nil {
		return nil, err
	}
	// Cognito does not rotate the refresh token on this flow.
	tokens.RefreshToken = refreshToken
	return tokens, nil
}

// ForgotPassword asks Cognito to email a reset code. An unknown email is
// reported as success so the endpoint cannot be used to probe accounts.
func (p *CognitoProvider) ForgotPassword(ctx context.Context, email string) error {
	_, err := p.client.ForgotPassword(ctx, &cognitoidentityprovider.ForgotPasswordInput{
		ClientId: aws.String(p.clientID),
		Username: aws.String(email),
	})
	if err != nil {
		var notFound *types.UserNotFoundException
		if errors.As(err, &notFound) {
			p.logger.Debug("password reset requested for unknown email")
			return nil
		}
		return pkgerrors.NewExternalError("password reset failed", err)
	}
	return nil
}

// ConfirmForgotPassword completes a reset with the emailed code.
func (p *CognitoProvider) ConfirmForgotPassword(ctx context.Context, email, code, newPassword string) error {
	_, err := p.client.ConfirmForgotPassword(ctx, &cognitoidentityprovider.ConfirmForgotPasswordInput{
		ClientId:         aws.String(p.clientID),
		Username:         aws.String(email),
		ConfirmationCode: aws.String(code),
		Password:         aws.String(newPassword),
	})
	if err != nil {
		var mismatch *types.CodeMismatchException
		var expired *types.ExpiredCodeException
		if errors.As(err, &mismatch) || errors.As(err, &expired) {
			return pkgerrors.NewValidationError("confirmation code is invalid or expired")
		}
		var invalidPw *types.InvalidPasswordException
		if errors.As(err, &invalidPw) {
			return pkgerrors.NewValidationError("password does not meet requirements")
		}
		return pkgerrors.NewExternalError("password reset failed", err)
	}
	return nil
}

// ChangePassword rotates the caller's password using their access token.
func (p *CognitoProvider) ChangePassword(ctx context.Context, accessToken, oldPassword, newPassword string) error {
	_, err := p.client.ChangePassword(ctx, &cognitoidentityprovider.ChangePasswordInput{
		AccessToken:      aws.String(accessToken),
		PreviousPassword: aws.String(oldPassword),
		ProposedPassword: aws.String(newPassword),
	})
	if err != nil {
		var notAuth *types.NotAuthorizedException
		if errors.As(err, &notAuth) {
			return pkgerrors.NewUnauthorizedError("current password is incorrect")
		}
		var invalidPw *types.InvalidPasswordException
		if errors.As(err, &invalidPw) {
			return pkgerrors.NewValidationError("password does not meet requirements")
		}
		return pkgerrors.NewExternalError("password change failed", err)
	}
	return nil
}

// ChangeEmail sets the new address on the caller's credentials record.
// Cognito emails a verification code to the new address; the change is
// not usable for login until ConfirmChangeEmail verifies it.
func (p *CognitoProvider) ChangeEmail(ctx context.Context, accessToken, newEmail string) error {
	_, err := p.client.UpdateUserAttributes(ctx, &cognitoidentityprovider.UpdateUserAttributesInput{
		AccessToken: aws.String(accessToken),
		UserAttributes: []types.AttributeType{
			{Name: aws.String("email"), Value: aws.String(newEmail)},
		},
	})
	if err != nil {
		var alias *types.AliasExistsException
		if errors.As(err, &alias) {
			return pkgerrors.NewConflictError("an account with this email already exists")
		}
		var invalid *types.InvalidParameterException
		if errors.As(err, &invalid) {
			return pkgerrors.NewValidationError("email address is invalid")
		}
		return pkgerrors.NewExternalError("email change failed", err)
	}
	return nil
}

// ConfirmChangeEmail verifies the code sent to the new address and reads
// back the email now on record.
func (p *CognitoProvider) ConfirmChangeEmail(ctx context.Context, accessToken, code string) (string, error) {
	_, err := p.client.VerifyUserAttribute(ctx, &cognitoidentityprovider.VerifyUserAttributeInput{
		AccessToken:   aws.String(accessToken),
		AttributeName: aws.String("email"),
		Code:          aws.String(code),
	})
	if err != nil {
		var mismatch *types.CodeMismatchException
		var expired *types.ExpiredCodeException
		if errors.As(err, &mismatch) || errors.As(err, &expired) {
			return "", pkgerrors.NewValidationError("verification code is invalid or expired")
		}
		return "", pkgerrors.NewExternalError("email verification failed", err)
	}

	result, err := p.client.GetUser(ctx, &cognitoidentityprovider.GetUserInput{
		AccessToken: aws.String(accessToken),
	})
	if err != nil {
		return "", pkgerrors.NewExternalError("email verification failed", err)
	}
	for _, attr := range result.UserAttributes {
		if aws.ToString(attr.Name) == "email" {
			return aws.ToString(attr.Value), nil
		}
	}
	return "", fmt.Errorf("credentials record has no email attribute")
}

// ResendSignUpCode re-sends a pending confirmation code. Unknown or
// already-confirmed accounts are reported as success so the endpoint
// cannot be used to probe accounts.
func (p *CognitoProvider) ResendSignUpCode(ctx context.Context, email string) error {
	_, err := p.client.ResendConfirmationCode(ctx, &cognitoidentityprovider.ResendConfirmationCodeInput{
		ClientId: aws.String(p.clientID),
		Username: aws.String(email),
	})
	if err != nil {
		var notFound *types.UserNotFoundException
		var invalid *types.InvalidParameterException
		if errors.As(err, &notFound) || errors.As(err, &invalid) {
			p.logger.Debug("confirmation code requested for unknown or confirmed email")
			return nil
		}
		return pkgerrors.NewExternalError("code resend failed", err)
	}
	return nil
}

// DeleteAccount removes the credentials record from the pool. A record
// that is already gone counts as deleted.
func (p *CognitoProvider) DeleteAccount(ctx context.Context, email string) error {
	_, err := p.client.AdminDeleteUser(ctx, &cognitoidentityprovider.AdminDeleteUserInput{
		UserPoolId: aws.String(p.poolID),
		Username:   aws.String(email),
	})
	if err != nil {
		var notFound *types.UserNotFoundException
		if errors.As(err, &notFound) {
			return nil
		}
		return pkgerrors.NewExternalError("account deletion failed", err)
	}
	return nil
}

func tokensFromResult(result *types.AuthenticationResultType) (*ports.AuthTokens, error) {
	if result == nil {
		return nil, fmt.Errorf("authentication returned no tokens")
	}
	return &ports.AuthTokens{
		AccessToken:  aws.ToString(result.AccessToken),
		IDToken:      aws.ToString(result.IdToken),
		RefreshToken: aws.ToString(result.RefreshToken),
		ExpiresIn:    result.ExpiresIn,
	}, nil
}
