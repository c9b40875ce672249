package cognito

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	cognitoidp "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/aws/smithy-go"

	"user-api/internal/domain"
	"user-api/internal/identity"
	"user-api/pkg/errors"
	"user-api/pkg/logger"
)

// subAttributeName is the provider attribute carrying the subject id
const subAttributeName = "sub"

// api is the subset of the Cognito identity provider API the client uses
type api interface {
	AdminCreateUser(ctx context.Context, params *cognitoidp.AdminCreateUserInput, optFns ...func(*cognitoidp.Options)) (*cognitoidp.AdminCreateUserOutput, error)
	AdminSetUserPassword(ctx context.Context, params *cognitoidp.AdminSetUserPasswordInput, optFns ...func(*cognitoidp.Options)) (*cognitoidp.AdminSetUserPasswordOutput, error)
	AdminInitiateAuth(ctx context.Context, params *cognitoidp.AdminInitiateAuthInput, optFns ...func(*cognitoidp.Options)) (*cognitoidp.AdminInitiateAuthOutput, error)
	AdminGetUser(ctx context.Context, params *cognitoidp.AdminGetUserInput, optFns ...func(*cognitoidp.Options)) (*cognitoidp.AdminGetUserOutput, error)
	AdminDeleteUser(ctx context.Context, params *cognitoidp.AdminDeleteUserInput, optFns ...func(*cognitoidp.Options)) (*cognitoidp.AdminDeleteUserOutput, error)
	GetUser(ctx context.Context, params *cognitoidp.GetUserInput, optFns ...func(*cognitoidp.Options)) (*cognitoidp.GetUserOutput, error)
}

// Config holds the immutable Cognito settings
type Config struct {
	Region     string
	UserPoolID string
	ClientID   string
	Timeout    time.Duration
}

// Client implements identity.Provider against AWS Cognito
type Client struct {
	api        api
	userPoolID string
	clientID   string
	timeout    time.Duration
	log        *logger.Logger
}

// New creates a Cognito client using the default AWS credential chain
func New(ctx context.Context, cfg Config, log *logger.Logger) (*Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, err
	}
	return newClient(cognitoidp.NewFromConfig(awsCfg), cfg, log), nil
}

func newClient(api api, cfg Config, log *logger.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		api:        api,
		userPoolID: cfg.UserPoolID,
		clientID:   cfg.ClientID,
		timeout:    timeout,
		log:        log,
	}
}

func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}

// CreateUser registers the email with a temporary password and returns the
// provider-issued subject id. Cognito sends its default invitation email as
// a side effect.
func (c *Client) CreateUser(ctx context.Context, username, temporaryPassword string) (string, error) {
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	out, err := c.api.AdminCreateUser(ctx, &cognitoidp.AdminCreateUserInput{
		UserPoolId:        aws.String(c.userPoolID),
		Username:          aws.String(username),
		TemporaryPassword: aws.String(temporaryPassword),
		UserAttributes: []types.AttributeType{
			{Name: aws.String("email"), Value: aws.String(username)},
			{Name: aws.String("email_verified"), Value: aws.String("True")},
		},
	})
	if err != nil {
		var exists *types.UsernameExistsException
		if stderrors.As(err, &exists) {
			return "", errors.NewCognitoError(errors.CodeUserExists, providerErrorMessage(err))
		}
		return "", errors.NewCognitoError(errors.CodeInternalError, providerErrorMessage(err))
	}

	sub := attributeValue(out.User.Attributes, subAttributeName)
	if sub == "" {
		c.log.WithField("username", username).Error("cognito response missing sub attribute")
		return "", errors.NewCognitoError(errors.CodeInternalError, "create user response has no sub attribute")
	}
	return sub, nil
}

// SetUserPassword sets a permanent password for the identity
func (c *Client) SetUserPassword(ctx context.Context, username, password string) error {
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	_, err := c.api.AdminSetUserPassword(ctx, &cognitoidp.AdminSetUserPasswordInput{
		UserPoolId: aws.String(c.userPoolID),
		Username:   aws.String(username),
		Password:   aws.String(password),
		Permanent:  true,
	})
	if err != nil {
		var invalid *types.InvalidPasswordException
		if stderrors.As(err, &invalid) {
			return errors.NewCognitoError(errors.CodeInvalidPassword, providerErrorMessage(err))
		}
		return errors.NewCognitoError(errors.CodeInternalError, providerErrorMessage(err))
	}
	return nil
}

// AdminLoginUser performs the direct password authentication flow.
// Note: this API is for admin test login only, not the end-user login path.
func (c *Client) AdminLoginUser(ctx context.Context, username, password string) (*domain.TokenSet, error) {
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	out, err := c.api.AdminInitiateAuth(ctx, &cognitoidp.AdminInitiateAuthInput{
		UserPoolId: aws.String(c.userPoolID),
		ClientId:   aws.String(c.clientID),
		AuthFlow:   types.AuthFlowTypeAdminUserPasswordAuth,
		AuthParameters: map[string]string{
			"USERNAME": username,
			"PASSWORD": password,
		},
	})
	if err != nil {
		if isNotAuthorized(err) || isUserNotFound(err) {
			return nil, errors.NewAuthErrorWithMessage(errors.CodeInvalidCredentials, providerErrorMessage(err))
		}
		return nil, errors.NewCognitoError(errors.CodeInternalError, providerErrorMessage(err))
	}

	result := out.AuthenticationResult
	if result == nil || result.IdToken == nil || result.AccessToken == nil || result.RefreshToken == nil {
		return nil, errors.NewCognitoError(errors.CodeInternalError, "authentication result is incomplete")
	}

	return &domain.TokenSet{
		IDToken:      aws.ToString(result.IdToken),
		AccessToken:  aws.ToString(result.AccessToken),
		RefreshToken: aws.ToString(result.RefreshToken),
	}, nil
}

// GetUser returns the provider record for the username, or (nil, nil) when
// the user does not exist
func (c *Client) GetUser(ctx context.Context, username string) (*identity.Identity, error) {
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	out, err := c.api.AdminGetUser(ctx, &cognitoidp.AdminGetUserInput{
		UserPoolId: aws.String(c.userPoolID),
		Username:   aws.String(username),
	})
	if err != nil {
		if isUserNotFound(err) {
			return nil, nil
		}
		return nil, errors.NewCognitoError(errors.CodeInternalError, providerErrorMessage(err))
	}

	return &identity.Identity{
		Username: aws.ToString(out.Username),
		Sub:      attributeValue(out.UserAttributes, subAttributeName),
		Enabled:  out.Enabled,
		Status:   string(out.UserStatus),
	}, nil
}

// GetUserByAccessToken resolves the identity behind a bearer access token
func (c *Client) GetUserByAccessToken(ctx context.Context, accessToken string) (*identity.Identity, error) {
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	out, err := c.api.GetUser(ctx, &cognitoidp.GetUserInput{
		AccessToken: aws.String(accessToken),
	})
	if err != nil {
		if isNotAuthorized(err) || isUserNotFound(err) {
			return nil, errors.NewUnauthorizedError(errors.CodeInvalidCredentials)
		}
		return nil, errors.NewCognitoError(errors.CodeInternalError, providerErrorMessage(err))
	}

	return &identity.Identity{
		Username: aws.ToString(out.Username),
		Sub:      attributeValue(out.UserAttributes, subAttributeName),
		Enabled:  true,
	}, nil
}

// DeleteUser removes the provider-side identity. Unknown users are treated
// as already deleted.
func (c *Client) DeleteUser(ctx context.Context, username string) error {
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	_, err := c.api.AdminDeleteUser(ctx, &cognitoidp.AdminDeleteUserInput{
		UserPoolId: aws.String(c.userPoolID),
		Username:   aws.String(username),
	})
	if err != nil {
		if isUserNotFound(err) {
			return nil
		}
		return errors.NewCognitoError(errors.CodeInternalError, providerErrorMessage(err))
	}
	return nil
}

// providerErrorMessage surfaces the provider's error code and message as the
// developer message without leaking it to the user-facing one
func providerErrorMessage(err error) string {
	var apiErr smithy.APIError
	if stderrors.As(err, &apiErr) {
		return fmt.Sprintf("%s: %s", apiErr.ErrorCode(), apiErr.ErrorMessage())
	}
	return err.Error()
}

func isNotAuthorized(err error) bool {
	var notAuthorized *types.NotAuthorizedException
	return stderrors.As(err, &notAuthorized)
}

func isUserNotFound(err error) bool {
	var notFound *types.UserNotFoundException
	return stderrors.As(err, &notFound)
}

func attributeValue(attrs []types.AttributeType, name string) string {
	for _, attr := range attrs {
		if aws.ToString(attr.Name) == name {
			return aws.ToString(attr.Value)
		}
	}
	return ""
}
