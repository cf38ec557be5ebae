package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/krishimitra/farmer-portal-backend/internal/auditlog"
	"github.com/krishimitra/farmer-portal-backend/internal/auth"
)

// Context keys set by AuthMiddleware.
const (
	ContextUser     = "user"
	ContextUserID   = "user_id"
	ContextRole     = "role"
	ContextFarmerID = "farmer_id"
)

// FarmerResolver maps an authenticated user to the farmer profile they own.
type FarmerResolver interface {
	FarmerIDForUser(ctx context.Context, userID uint) (uint, error)
}

// AuthMiddleware validates the bearer token and loads the caller into the context
func AuthMiddleware(authSvc auth.Service, farmers FarmerResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Access token required"})
			return
		}

		claims, err := authSvc.ParseToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Invalid or expired token"})
			return
		}

		ctx := c.Request.Context()
		user, err := authSvc.GetUserByID(ctx, claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Invalid or expired token"})
			return
		}

		c.Set(ContextUser, *user)
		c.Set(ContextUserID, user.ID)
		c.Set(ContextRole, user.Role)

		if farmerID, err := farmers.FarmerIDForUser(ctx, user.ID); err == nil {
			c.Set(ContextFarmerID, farmerID)
		}

		c.Request = c.Request.WithContext(auditlog.WithUserID(ctx, user.ID))
		c.Next()
	}
}

// bearerToken reads the Authorization header. EventSource clients cannot set
// headers, so the stream endpoint may pass ?token= instead.
func bearerToken(c *gin.Context) string {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return strings.TrimSpace(parts[1])
	}
	if strings.HasSuffix(c.Request.URL.Path, "/stream") {
		return strings.TrimSpace(c.Query("token"))
	}
	return ""
}

// RequireFarmer stops requests from users that have no farmer profile.
func RequireFarmer() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentFarmerID(c); !ok {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Farmer profile not found"})
			return
		}
		c.Next()
	}
}

// CurrentFarmerID returns the farmer resolved for the caller.
func CurrentFarmerID(c *gin.Context) (uint, bool) {
	id := c.GetUint(ContextFarmerID)
	return id, id != 0
}
