// Package middleware provides HTTP middleware for the API endpoints.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainerror "github.com/pocketledger/backend/internal/domain/error"
	"github.com/pocketledger/backend/internal/integration/entrypoint/dto"
)

// userIDContextKey is the gin context key holding the authenticated user ID.
const userIDContextKey = "userID"

// UserIDHeader carries the caller identity. Authentication itself is handled
// upstream (API gateway); this service only requires a resolvable user ID.
const UserIDHeader = "X-User-ID"

// UserContext resolves the caller identity for downstream handlers.
type UserContext struct{}

// NewUserContext creates a new UserContext middleware instance.
func NewUserContext() *UserContext {
	return &UserContext{}
}

// Resolve returns a Gin middleware that extracts and validates the user ID
// header, rejecting requests without a usable identity.
func (u *UserContext) Resolve() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(UserIDHeader)
		if raw == "" {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error: "Missing " + UserIDHeader + " header",
				Code:  domainerror.ErrCodeMissingUserID,
			})
			c.Abort()
			return
		}

		userID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error: "Invalid " + UserIDHeader + " header",
				Code:  domainerror.ErrCodeMissingUserID,
			})
			c.Abort()
			return
		}

		c.Set(userIDContextKey, userID)
		c.Next()
	}
}

// GetUserIDFromContext retrieves the user ID set by the Resolve middleware.
func GetUserIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(userIDContextKey)
	if !exists {
		return uuid.Nil, false
	}

	userID, ok := value.(uuid.UUID)
	return userID, ok
}
