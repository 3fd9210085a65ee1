package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	config "github.com/MJG-MindSpire/demodonation/config"
	models "github.com/MJG-MindSpire/demodonation/models"
	utils "github.com/MJG-MindSpire/demodonation/utils"
)

// ---------------- GET ----------------
// GetSettings is public; the frontend reads the org profile before any
// login. Falls back to defaults when the collection is empty.
func GetSettings(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var settings models.AppSettings
		err := col(cfg, "app_settings").
			FindOne(ctx, bson.M{}, options.FindOne().SetSort(bson.M{"updated_at": -1})).
			Decode(&settings)
		if err == mongo.ErrNoDocuments {
			settings = models.DefaultAppSettings()
		} else if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not load settings"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"settings": settings})
	}
}

// ---------------- UPDATE ----------------
func UpdateSettings(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Name    string `json:"name"`
			Address string `json:"address"`
			Phone   string `json:"phone"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		update := bson.M{"updated_at": time.Now()}
		if v := strings.TrimSpace(input.Name); v != "" {
			update["name"] = v
		}
		if input.Address != "" {
			update["address"] = input.Address
		}
		if input.Phone != "" {
			update["phone"] = input.Phone
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		settings := col(cfg, "app_settings")
		opts := options.FindOneAndUpdate().
			SetUpsert(true).
			SetReturnDocument(options.After).
			SetSort(bson.M{"updated_at": -1})

		var updated models.AppSettings
		err := settings.FindOneAndUpdate(ctx, bson.M{}, bson.M{"$set": update}, opts).Decode(&updated)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not update settings"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"settings": updated})
	}
}

// ---------------- RESET ----------------
// ResetSettings drops the stored profile so the defaults apply again.
func ResetSettings(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if _, err := col(cfg, "app_settings").DeleteMany(ctx, bson.M{}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not reset settings"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"settings": models.DefaultAppSettings()})
	}
}

// ---------------- LOGO ----------------
// UploadLogo stores the org logo remotely when Cloudinary is
// configured, otherwise under the local uploads root.
func UploadLogo(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		fh, err := c.FormFile("logo")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "logo file is required"})
			return
		}

		var path string
		if cfg.CloudinaryConfigured() {
			file, err := fh.Open()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "could not read logo"})
				return
			}
			defer file.Close()
			path, err = utils.UploadToCloudinary(file, utils.CloudinaryLogoFolder)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "could not store logo"})
				return
			}
		} else {
			path, err = utils.SaveUploadedFile(cfg.UploadsDir, "", fh)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "could not store logo"})
				return
			}
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		settings := col(cfg, "app_settings")
		opts := options.FindOneAndUpdate().
			SetUpsert(true).
			SetReturnDocument(options.After).
			SetSort(bson.M{"updated_at": -1})

		var updated models.AppSettings
		err = settings.FindOneAndUpdate(ctx, bson.M{},
			bson.M{"$set": bson.M{"logo_path": path, "updated_at": time.Now()}}, opts).
			Decode(&updated)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not update settings"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"settings": updated})
	}
}
