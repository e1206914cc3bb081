package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-task-manager/internal/domain/entity"
	"github.com/oksasatya/go-ddd-task-manager/pkg/apperror"
	"github.com/oksasatya/go-ddd-task-manager/pkg/helpers"
	"github.com/oksasatya/go-ddd-task-manager/pkg/response"
)

const (
	CtxUserKey   = "user"
	CtxUserIDKey = "userID"
)

// ErrUnauthenticated is returned for every rejected credential.
var ErrUnauthenticated = apperror.Unauthenticated("Unauthorized")

type TokenVerifier interface {
	Verify(token string) (*helpers.Claims, error)
}

type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, userID string) (*entity.PublicUser, error)
}

// Authenticator turns an Authorization header into the identity it names.
type Authenticator struct {
	Tokens     TokenVerifier
	Identities IdentityResolver
}

func NewAuthenticator(tokens TokenVerifier, identities IdentityResolver) *Authenticator {
	return &Authenticator{Tokens: tokens, Identities: identities}
}

// BearerToken extracts the token from "Bearer <token>". The scheme is case-insensitive.
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}

// Authenticate verifies the bearer credential and resolves the user it names.
// A token for a user that no longer exists is rejected like a bad token.
func (a *Authenticator) Authenticate(ctx context.Context, header string) (*entity.PublicUser, error) {
	token, ok := BearerToken(header)
	if !ok {
		return nil, ErrUnauthenticated
	}
	claims, err := a.Tokens.Verify(token)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	user, err := a.Identities.ResolveIdentity(ctx, claims.Subject)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if user == nil {
		return nil, ErrUnauthenticated
	}
	return user, nil
}

// Auth rejects the request unless it carries a valid bearer token for an existing user.
// On success the public user is stored under CtxUserKey and its id under CtxUserIDKey.
func Auth(a *Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := a.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			response.Fail(c, err)
			return
		}
		c.Set(CtxUserKey, *user)
		c.Set(CtxUserIDKey, user.ID)
		c.Next()
	}
}

// CurrentUser returns the identity attached by Auth.
func CurrentUser(c *gin.Context) (entity.PublicUser, bool) {
	v, ok := c.Get(CtxUserKey)
	if !ok {
		return entity.PublicUser{}, false
	}
	u, ok := v.(entity.PublicUser)
	return u, ok
}
