package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	config "github.com/MJG-MindSpire/demodonation/config"
	models "github.com/MJG-MindSpire/demodonation/models"
	utils "github.com/MJG-MindSpire/demodonation/utils"
)

// ---------------- ASSIGNED PROJECTS ----------------
func FieldAssignedProjects(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := currentUserID(c)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		cursor, err := col(cfg, "projects").Find(ctx, bson.M{
			"status":                    models.ProjectStatusApproved,
			"assigned_field_worker_ids": uid,
		}, options.Find().SetSort(bson.M{"created_at": -1}))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not fetch projects"})
			return
		}

		var projects []models.Project
		if err := cursor.All(ctx, &projects); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not decode projects"})
			return
		}
		if projects == nil {
			projects = []models.Project{}
		}

		c.JSON(http.StatusOK, gin.H{"projects": projects})
	}
}

func FieldGetProject(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := currentUserID(c)
		if !ok {
			return
		}
		id, ok := objectIDParam(c, "projectId")
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var project models.Project
		if err := col(cfg, "projects").FindOne(ctx, bson.M{"_id": id}).Decode(&project); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
			return
		}
		if !project.AssignedTo(uid) {
			c.JSON(http.StatusForbidden, gin.H{"message": "You are not assigned to this project"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"project": project})
	}
}

// ---------------- PROGRESS REPORTS ----------------
func FieldListProgress(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := currentUserID(c)
		if !ok {
			return
		}
		projectID, ok := objectIDParam(c, "projectId")
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		cursor, err := col(cfg, "progress_updates").
			Find(ctx, bson.M{"field_worker_id": uid, "project_id": projectID},
				options.Find().SetSort(bson.M{"created_at": -1}))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not fetch updates"})
			return
		}

		var updates []models.ProgressUpdate
		if err := cursor.All(ctx, &updates); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not decode updates"})
			return
		}
		if updates == nil {
			updates = []models.ProgressUpdate{}
		}

		c.JSON(http.StatusOK, gin.H{"updates": updates})
	}
}

// FieldCreateProgress files a multipart step report. Nothing touches
// the project until an admin approves the report.
func FieldCreateProgress(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := currentUserID(c)
		if !ok {
			return
		}

		projectID, ok := objectIDParam(c, "projectId")
		if !ok {
			return
		}

		var input struct {
			StepKey         string  `form:"stepKey" binding:"required"`
			WorkStatus      string  `form:"workStatus" binding:"required"`
			PercentComplete float64 `form:"percentComplete" binding:"gte=0,lte=100"`
			AmountUsed      float64 `form:"amountUsed" binding:"gte=0"`
			Notes           string  `form:"notes"`
		}
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		if !models.ValidWorkStatus(input.WorkStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "workStatus must be pending, ongoing or completed"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var project models.Project
		if err := col(cfg, "projects").FindOne(ctx, bson.M{"_id": projectID}).Decode(&project); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Project not found"})
			return
		}
		if !project.AssignedTo(uid) {
			c.JSON(http.StatusForbidden, gin.H{"message": "You are not assigned to this project"})
			return
		}

		step, ok := project.StepByKey(input.StepKey)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid step"})
			return
		}

		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid form data"})
			return
		}
		files := form.File["mediaFiles"]
		if len(files) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Progress media is required"})
			return
		}

		mediaPaths, err := utils.SaveUploadedFiles(cfg.UploadsDir, utils.UploadProgressMedia, files)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not store media files"})
			return
		}

		now := time.Now()
		update := models.ProgressUpdate{
			ID:              primitive.NewObjectID(),
			ProjectID:       projectID,
			FieldWorkerID:   uid,
			StepKey:         step.Key,
			StepTitle:       step.Title,
			WorkStatus:      input.WorkStatus,
			PercentComplete: input.PercentComplete,
			AmountUsed:      input.AmountUsed,
			Notes:           input.Notes,
			MediaPaths:      mediaPaths,
			ApprovalStatus:  models.ApprovalPending,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		if _, err := col(cfg, "progress_updates").InsertOne(ctx, update); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not create update"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"update": update})
	}
}
