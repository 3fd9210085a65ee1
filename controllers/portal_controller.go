package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	config "github.com/MJG-MindSpire/demodonation/config"
	models "github.com/MJG-MindSpire/demodonation/models"
	utils "github.com/MJG-MindSpire/demodonation/utils"
)

func credentialResponse(c *models.PortalCredential) gin.H {
	return gin.H{
		"id":        c.ID.Hex(),
		"portalKey": c.PortalKey,
		"username":  c.Username,
		"isActive":  c.IsActive,
		"createdAt": c.CreatedAt,
		"updatedAt": c.UpdatedAt,
	}
}

// ---------------- PORTAL LOGIN ----------------
// Role-scoped username/password login, distinct from the email login.
// Only stored credentials are accepted; there is no bypass pair.
func PortalLogin(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			PortalKey string `json:"portalKey" binding:"required"`
			Username  string `json:"username" binding:"required"`
			Password  string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		portalKey := strings.ToLower(strings.TrimSpace(input.PortalKey))
		if !models.ValidRole(portalKey) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid portalKey"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var cred models.PortalCredential
		err := col(cfg, "portal_credentials").
			FindOne(ctx, bson.M{"portal_key": portalKey, "username": input.Username}).
			Decode(&cred)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
			return
		}

		if !cred.IsActive {
			c.JSON(http.StatusForbidden, gin.H{"message": "Account disabled"})
			return
		}

		if !utils.CheckPassword(cred.PasswordHash, input.Password) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
			return
		}

		token, err := utils.GenerateJWT(cfg.JWTSecret, cred.ID.Hex(), portalKey, cfg.JWTExpires)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not issue token"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token": token,
			"user":  gin.H{"role": portalKey, "username": cred.Username},
		})
	}
}

// ---------------- LIST CREDENTIALS ----------------
func ListPortalCredentials(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		cursor, err := col(cfg, "portal_credentials").
			Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"created_at": -1}))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not fetch credentials"})
			return
		}

		var creds []models.PortalCredential
		if err := cursor.All(ctx, &creds); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not decode credentials"})
			return
		}

		out := make([]gin.H, 0, len(creds))
		for i := range creds {
			out = append(out, credentialResponse(&creds[i]))
		}
		c.JSON(http.StatusOK, gin.H{"credentials": out})
	}
}

// ---------------- CREATE CREDENTIAL ----------------
func CreatePortalCredential(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			PortalKey string `json:"portalKey" binding:"required"`
			Username  string `json:"username" binding:"required"`
			Password  string `json:"password" binding:"required,min=6"`
			IsActive  *bool  `json:"isActive"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		portalKey := strings.ToLower(strings.TrimSpace(input.PortalKey))
		if !models.ValidRole(portalKey) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid portalKey"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		creds := col(cfg, "portal_credentials")
		count, err := creds.CountDocuments(ctx, bson.M{"portal_key": portalKey, "username": input.Username})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not check credential"})
			return
		}
		if count > 0 {
			c.JSON(http.StatusConflict, gin.H{"message": "Credential already exists"})
			return
		}

		hash, err := utils.HashPassword(input.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not hash password"})
			return
		}

		active := true
		if input.IsActive != nil {
			active = *input.IsActive
		}

		now := time.Now()
		cred := models.PortalCredential{
			ID:           primitive.NewObjectID(),
			PortalKey:    portalKey,
			Username:     input.Username,
			PasswordHash: hash,
			IsActive:     active,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		if _, err := creds.InsertOne(ctx, cred); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				c.JSON(http.StatusConflict, gin.H{"message": "Credential already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not create credential"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"credential": credentialResponse(&cred)})
	}
}

// ---------------- UPDATE CREDENTIAL ----------------
func UpdatePortalCredential(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := objectIDParam(c, "id")
		if !ok {
			return
		}

		var input struct {
			Username string `json:"username"`
			Password string `json:"password"`
			IsActive *bool  `json:"isActive"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		update := bson.M{"updated_at": time.Now()}
		if input.Username != "" {
			update["username"] = input.Username
		}
		if input.IsActive != nil {
			update["is_active"] = *input.IsActive
		}
		if input.Password != "" {
			if len(input.Password) < 6 {
				c.JSON(http.StatusBadRequest, gin.H{"message": "password must be at least 6 characters"})
				return
			}
			hash, err := utils.HashPassword(input.Password)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "could not hash password"})
				return
			}
			update["password_hash"] = hash
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		creds := col(cfg, "portal_credentials")
		res, err := creds.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not update credential"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
			return
		}

		var cred models.PortalCredential
		if err := creds.FindOne(ctx, bson.M{"_id": id}).Decode(&cred); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not load credential"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"credential": credentialResponse(&cred)})
	}
}

// ---------------- DELETE CREDENTIAL ----------------
func DeletePortalCredential(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := objectIDParam(c, "id")
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := col(cfg, "portal_credentials").DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not delete credential"})
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// EnsureSeedData creates the default settings document and the admin
// portal credential on first boot.
func EnsureSeedData(cfg *config.Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	settings := col(cfg, "app_settings")
	if err := settings.FindOne(ctx, bson.M{}).Err(); err == mongo.ErrNoDocuments {
		s := models.DefaultAppSettings()
		s.CreatedAt = time.Now()
		s.UpdatedAt = s.CreatedAt
		if _, err := settings.InsertOne(ctx, s); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	creds := col(cfg, "portal_credentials")
	err := creds.FindOne(ctx, bson.M{"portal_key": models.RoleAdmin, "username": "admin"}).Err()
	if err == mongo.ErrNoDocuments {
		hash, err := utils.HashPassword("admin")
		if err != nil {
			return err
		}
		now := time.Now()
		_, err = creds.InsertOne(ctx, models.PortalCredential{
			ID:           primitive.NewObjectID(),
			PortalKey:    models.RoleAdmin,
			Username:     "admin",
			PasswordHash: hash,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		return err
	}
	return err
}
