package middleware

import (
	"strings"

	"campusmess/internal/apperrors"
	"campusmess/internal/microservices/http-api/dto"

	"github.com/gin-gonic/gin"
)

const (
	// UserIDKey is the gin context key holding the authenticated user id.
	UserIDKey = "userID"

	MsgTokenRequired = "Authentication token required"
	MsgTokenInvalid  = "Invalid/expired token"
)

// TokenVerifier resolves a bearer token to a user id.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// AuthMiddleware is a Gin middleware for JWT authentication of API requests.
// A missing header or a non Bearer scheme is 401, a token that fails verification is 403.
func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortWithError(c, apperrors.NewUnauthorizedError(MsgTokenRequired))
			return
		}

		userID, err := verifier.Verify(token)
		if err != nil {
			abortWithError(c, apperrors.NewForbiddenError(MsgTokenInvalid))
			return
		}

		// Set user info in context for handlers to use
		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// abortWithError writes the envelope for err with its mapped status.
func abortWithError(c *gin.Context, err *apperrors.AppError) {
	c.AbortWithStatusJSON(err.HTTPStatus(), dto.Fail(err.PublicMessage()))
}

// bearerToken extracts the token of a "Bearer <token>" header.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || scheme != "Bearer" {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// UserID returns the id set by AuthMiddleware, or "" on public routes.
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
