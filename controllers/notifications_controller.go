package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	config "github.com/MJG-MindSpire/demodonation/config"
	models "github.com/MJG-MindSpire/demodonation/models"
)

// ---------------- LIST ----------------
// MyNotifications pages newest-first with limit and an optional
// before cursor (RFC3339 timestamp).
func MyNotifications(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := currentUserID(c)
		if !ok {
			return
		}

		limit := int64(20)
		if v := c.Query("limit"); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 && n <= 100 {
				limit = n
			}
		}

		filter := bson.M{"recipient_id": uid}
		if v := c.Query("before"); v != "" {
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				filter["created_at"] = bson.M{"$lt": t}
			}
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		cursor, err := col(cfg, "notifications").Find(ctx, filter,
			options.Find().SetSort(bson.M{"created_at": -1}).SetLimit(limit))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not fetch notifications"})
			return
		}

		var notifications []models.Notification
		if err := cursor.All(ctx, &notifications); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not decode notifications"})
			return
		}
		if notifications == nil {
			notifications = []models.Notification{}
		}

		c.JSON(http.StatusOK, gin.H{"notifications": notifications})
	}
}

// ---------------- UNREAD COUNT ----------------
func UnreadNotificationCount(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := currentUserID(c)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		count, err := col(cfg, "notifications").CountDocuments(ctx, bson.M{
			"recipient_id": uid,
			"read_at":      bson.M{"$exists": false},
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not count notifications"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"count": count})
	}
}

// ---------------- MARK READ ----------------
// MarkNotificationsRead stamps read_at on the listed ids, or on every
// unread notification when the list is empty. Re-marking is a no-op.
func MarkNotificationsRead(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := currentUserID(c)
		if !ok {
			return
		}

		var input struct {
			IDs []string `json:"ids"`
		}
		if err := c.ShouldBindJSON(&input); err != nil && err.Error() != "EOF" {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		filter := bson.M{"recipient_id": uid, "read_at": bson.M{"$exists": false}}
		if len(input.IDs) > 0 {
			ids := make([]primitive.ObjectID, 0, len(input.IDs))
			for _, raw := range input.IDs {
				id, err := primitive.ObjectIDFromHex(raw)
				if err != nil {
					c.JSON(http.StatusBadRequest, gin.H{"message": "invalid notification id: " + raw})
					return
				}
				ids = append(ids, id)
			}
			filter["_id"] = bson.M{"$in": ids}
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := col(cfg, "notifications").UpdateMany(ctx, filter,
			bson.M{"$set": bson.M{"read_at": time.Now()}})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not update notifications"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true, "updated": res.ModifiedCount})
	}
}
