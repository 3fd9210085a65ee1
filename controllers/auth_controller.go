package controllers

import (
	"context"
	"log"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	config "github.com/MJG-MindSpire/demodonation/config"
	middleware "github.com/MJG-MindSpire/demodonation/middleware"
	models "github.com/MJG-MindSpire/demodonation/models"
	utils "github.com/MJG-MindSpire/demodonation/utils"
)

func userResponse(u *models.User) gin.H {
	return gin.H{
		"id":                 u.ID.Hex(),
		"email":              u.Email,
		"role":               u.Role,
		"name":               u.Name,
		"fatherName":         u.FatherName,
		"phone":              u.Phone,
		"city":               u.City,
		"address":            u.Address,
		"cnic":               u.CNIC,
		"photoPath":          u.PhotoPath,
		"registrationStatus": u.RegistrationStatus,
		"isActive":           u.IsActive,
		"createdAt":          u.CreatedAt,
	}
}

// ---------------- REGISTER ----------------
// Donors register with email/password only. Receivers and field
// workers must supply identity details; receivers additionally need a
// profile photo and both start in registrationStatus=pending.
func Register(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Role       string `form:"role" json:"role" binding:"required"`
			Email      string `form:"email" json:"email" binding:"required,email"`
			Password   string `form:"password" json:"password" binding:"required,min=6"`
			Name       string `form:"name" json:"name"`
			FatherName string `form:"fatherName" json:"fatherName"`
			CNIC       string `form:"cnic" json:"cnic"`
			Address    string `form:"address" json:"address"`
			Phone      string `form:"phone" json:"phone"`
		}
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		role := strings.ToLower(strings.TrimSpace(input.Role))
		if role != models.RoleDonor && role != models.RoleReceiver && role != models.RoleField {
			c.JSON(http.StatusBadRequest, gin.H{"message": "role must be donor, receiver or field"})
			return
		}

		if role == models.RoleReceiver || role == models.RoleField {
			if input.Name == "" || input.FatherName == "" || input.CNIC == "" || input.Address == "" || input.Phone == "" {
				c.JSON(http.StatusBadRequest, gin.H{"message": "name, fatherName, cnic, address and phone are required"})
				return
			}
		}

		var photoPath string
		if role == models.RoleReceiver {
			fh, err := c.FormFile("photo")
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Profile picture is required"})
				return
			}
			photoPath, err = savePhoto(cfg, utils.UploadReceiverPhotos, fh)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "could not store photo"})
				return
			}
		}

		email := strings.ToLower(strings.TrimSpace(input.Email))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		users := col(cfg, "users")
		count, err := users.CountDocuments(ctx, bson.M{"email": email})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not check email"})
			return
		}
		if count > 0 {
			c.JSON(http.StatusConflict, gin.H{"message": "Email already in use"})
			return
		}

		hash, err := utils.HashPassword(input.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not hash password"})
			return
		}

		now := time.Now()
		user := models.User{
			ID:           primitive.NewObjectID(),
			Email:        email,
			PasswordHash: hash,
			Role:         role,
			Name:         input.Name,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if role == models.RoleReceiver || role == models.RoleField {
			user.FatherName = input.FatherName
			user.CNIC = input.CNIC
			user.Address = input.Address
			user.Phone = input.Phone
			user.RegistrationStatus = models.RegistrationPending
		}
		if role == models.RoleReceiver {
			user.PhotoPath = photoPath
		}

		if _, err := users.InsertOne(ctx, user); err != nil {
			// unique email index catches the race the pre-check misses
			if mongo.IsDuplicateKeyError(err) {
				c.JSON(http.StatusConflict, gin.H{"message": "Email already in use"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not create account"})
			return
		}

		token, err := utils.GenerateJWT(cfg.JWTSecret, user.ID.Hex(), user.Role, cfg.JWTExpires)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not issue token"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"token": token, "user": userResponse(&user)})
	}
}

// ---------------- LOGIN ----------------
func Login(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		err := col(cfg, "users").
			FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(input.Email))}).
			Decode(&user)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
			return
		}

		if !user.IsActive {
			c.JSON(http.StatusForbidden, gin.H{"message": "Account disabled"})
			return
		}

		if !utils.CheckPassword(user.PasswordHash, input.Password) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
			return
		}

		token, err := utils.GenerateJWT(cfg.JWTSecret, user.ID.Hex(), user.Role, cfg.JWTExpires)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not issue token"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"token": token, "user": userResponse(&user)})
	}
}

// ---------------- ME ----------------
func Me(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.LoadCurrentUser(c, cfg)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": userResponse(user)})
	}
}

// ---------------- UPDATE PROFILE ----------------
// Donor-only. Accepts multipart with an optional photo.
func UpdateProfile(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := currentUserID(c)
		if !ok {
			return
		}

		var input struct {
			Name    string `form:"name"`
			Phone   string `form:"phone"`
			City    string `form:"city"`
			Address string `form:"address"`
			CNIC    string `form:"cnic"`
		}
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		update := bson.M{"updated_at": time.Now()}
		if v := strings.TrimSpace(input.Name); v != "" {
			update["name"] = v
		}
		if v := strings.TrimSpace(input.Phone); v != "" {
			update["phone"] = v
		}
		if v := strings.TrimSpace(input.City); v != "" {
			update["city"] = v
		}
		if v := strings.TrimSpace(input.Address); v != "" {
			update["address"] = v
		}
		if v := strings.TrimSpace(input.CNIC); v != "" {
			update["cnic"] = v
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		users := col(cfg, "users")

		if fh, err := c.FormFile("photo"); err == nil {
			path, err := savePhoto(cfg, utils.UploadDonorPhotos, fh)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "could not store photo"})
				return
			}
			update["photo_path"] = path

			// drop the replaced remote photo, best effort
			var prev models.User
			if err := users.FindOne(ctx, bson.M{"_id": uid}).Decode(&prev); err == nil {
				if cfg.CloudinaryConfigured() && strings.HasPrefix(prev.PhotoPath, "http") {
					if err := utils.DeleteFromCloudinary(prev.PhotoPath); err != nil {
						log.Printf("cloudinary: could not delete old photo: %v", err)
					}
				}
			}
		}
		res, err := users.UpdateOne(ctx, bson.M{"_id": uid}, bson.M{"$set": update})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not update profile"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}

		var user models.User
		if err := users.FindOne(ctx, bson.M{"_id": uid}).Decode(&user); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not load profile"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"user": userResponse(&user)})
	}
}

// savePhoto stores a profile photo remotely when Cloudinary is
// configured, otherwise on local disk.
func savePhoto(cfg *config.Config, subdir string, fh *multipart.FileHeader) (string, error) {
	if cfg.CloudinaryConfigured() {
		file, err := fh.Open()
		if err != nil {
			return "", err
		}
		defer file.Close()
		return utils.UploadToCloudinary(file, utils.CloudinaryProfileFolder)
	}
	return utils.SaveUploadedFile(cfg.UploadsDir, subdir, fh)
}
