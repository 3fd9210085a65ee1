package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	config "github.com/MJG-MindSpire/demodonation/config"
	models "github.com/MJG-MindSpire/demodonation/models"
	utils "github.com/MJG-MindSpire/demodonation/utils"
)

// Context keys set by the auth middlewares.
const (
	CtxUserID             = "user_id"
	CtxRole               = "role"
	CtxRegistrationStatus = "registration_status"
)

// AuthMiddleware validates the bearer token and stores the subject id
// and role on the gin context.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		claims, err := utils.ValidateJWT(cfg.JWTSecret, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		c.Set(CtxUserID, claims.Subject)
		c.Set(CtxRole, claims.Role)
		c.Next()
	}
}

// RequireRoles gates a route group to the listed roles.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(CtxRole)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
	}
}

// RequireVerifiedUser loads the account behind the token and rejects
// receiver/field users that have not cleared admin verification. It
// also refreshes the registration status into the context so handlers
// see the stored value, not a stale claim.
func RequireVerifiedUser(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := LoadCurrentUser(c, cfg)
		if !ok {
			return
		}

		if !user.Verified() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Account pending admin verification"})
			return
		}

		c.Set(CtxRegistrationStatus, user.RegistrationStatus)
		c.Next()
	}
}

// LoadCurrentUser fetches the authenticated user document. On failure
// it writes the error response and returns ok=false; callers must
// return immediately.
func LoadCurrentUser(c *gin.Context, cfg *config.Config) (*models.User, bool) {
	uid, err := primitive.ObjectIDFromHex(c.GetString(CtxUserID))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return nil, false
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	err = cfg.MongoClient.Database(cfg.DBName).
		Collection("users").
		FindOne(ctx, bson.M{"_id": uid}).
		Decode(&user)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return nil, false
	}

	return &user, true
}
