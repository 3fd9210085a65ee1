package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	config "github.com/MJG-MindSpire/demodonation/config"
	models "github.com/MJG-MindSpire/demodonation/models"
	utils "github.com/MJG-MindSpire/demodonation/utils"
)

// publicProject strips the receiver's payment and identity details
// down to what an anonymous browser needs.
func publicProject(p *models.Project) gin.H {
	return gin.H{
		"id":              p.ID.Hex(),
		"title":           p.Title,
		"purpose":         p.Purpose,
		"requiredAmount":  p.RequiredAmount,
		"collectedAmount": p.CollectedAmount,
		"spentAmount":     p.SpentAmount,
		"progressPercent": p.ProgressPercent,
		"category":        p.Category,
		"urgencyLevel":    p.UrgencyLevel,
		"description":     p.Description,
		"city":            p.ReceiverDetails.City,
		"steps":           p.Steps,
		"publishedAt":     p.PublishedAt,
		"createdAt":       p.CreatedAt,
	}
}

// ---------------- BROWSE ----------------
// Only approved projects are visible without authentication. The list
// carries ETag/Last-Modified validators derived from the newest record.
func PublicListProjects(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := bson.M{"status": models.ProjectStatusApproved}
		if v := c.Query("category"); v != "" {
			filter["category"] = v
		}
		if v := c.Query("urgency"); v != "" {
			filter["urgency_level"] = v
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		cursor, err := col(cfg, "projects").
			Find(ctx, filter, options.Find().SetSort(bson.M{"published_at": -1}))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not fetch projects"})
			return
		}

		var projects []models.Project
		if err := cursor.All(ctx, &projects); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not decode projects"})
			return
		}

		if len(projects) > 0 {
			newest := projects[0]
			for _, p := range projects[1:] {
				if p.UpdatedAt.After(newest.UpdatedAt) {
					newest = p
				}
			}
			etag := utils.GenerateETag(newest.ID, newest.UpdatedAt)
			if c.GetHeader("If-None-Match") == etag {
				c.Status(http.StatusNotModified)
				return
			}
			c.Header("ETag", etag)
			c.Header("Last-Modified", newest.UpdatedAt.UTC().Format(http.TimeFormat))
		}

		out := make([]gin.H, 0, len(projects))
		for i := range projects {
			out = append(out, publicProject(&projects[i]))
		}
		c.JSON(http.StatusOK, gin.H{"projects": out})
	}
}

// ---------------- DETAIL ----------------
// PublicGetProject returns one approved project plus its approved
// progress reports.
func PublicGetProject(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := objectIDParam(c, "id")
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var project models.Project
		err := col(cfg, "projects").
			FindOne(ctx, bson.M{"_id": id, "status": models.ProjectStatusApproved}).
			Decode(&project)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Project not found"})
			return
		}

		etag := utils.GenerateETag(project.ID, project.UpdatedAt)
		if c.GetHeader("If-None-Match") == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("ETag", etag)

		cursor, err := col(cfg, "progress_updates").Find(ctx, bson.M{
			"project_id":      id,
			"approval_status": models.ApprovalApproved,
		}, options.Find().SetSort(bson.M{"created_at": -1}))
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

		c.JSON(http.StatusOK, gin.H{"project": publicProject(&project), "updates": updates})
	}
}
