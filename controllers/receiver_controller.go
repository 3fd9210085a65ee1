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
)

// ---------------- INCOMING DONATIONS ----------------
// ReceiverListDonations returns donations against the caller's own
// projects, optionally narrowed by receiver status.
func ReceiverListDonations(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := currentUserID(c)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		projects := col(cfg, "projects")
		cursor, err := projects.Find(ctx, bson.M{"receiver_id": uid},
			options.Find().SetProjection(bson.M{"_id": 1}))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not fetch projects"})
			return
		}

		var owned []struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cursor.All(ctx, &owned); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not decode projects"})
			return
		}

		ids := make([]primitive.ObjectID, 0, len(owned))
		for _, p := range owned {
			ids = append(ids, p.ID)
		}
		if len(ids) == 0 {
			c.JSON(http.StatusOK, gin.H{"donations": []models.Donation{}})
			return
		}

		filter := bson.M{"project_id": bson.M{"$in": ids}}
		if v := c.Query("status"); v != "" {
			filter["receiver_status"] = v
		}

		donCursor, err := col(cfg, "donations").
			Find(ctx, filter, options.Find().SetSort(bson.M{"created_at": -1}))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not fetch donations"})
			return
		}

		var donations []models.Donation
		if err := donCursor.All(ctx, &donations); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not decode donations"})
			return
		}
		if donations == nil {
			donations = []models.Donation{}
		}

		c.JSON(http.StatusOK, gin.H{"donations": donations})
	}
}

// ---------------- CONFIRM / REJECT ----------------
func ReceiverApproveDonation(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := currentUserID(c)
		if !ok {
			return
		}
		id, ok := objectIDParam(c, "id")
		if !ok {
			return
		}

		var input struct {
			Remark string `json:"remark"`
		}
		if err := c.ShouldBindJSON(&input); err != nil && err.Error() != "EOF" {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		donation, err := engine(cfg).ApproveDonation(c.Request.Context(), id, uid, input.Remark)
		if err != nil {
			respondWorkflowError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"donation": donation})
	}
}

func ReceiverRejectDonation(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := currentUserID(c)
		if !ok {
			return
		}
		id, ok := objectIDParam(c, "id")
		if !ok {
			return
		}

		var input struct {
			Remark string `json:"remark"`
		}
		if err := c.ShouldBindJSON(&input); err != nil && err.Error() != "EOF" {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		donation, err := engine(cfg).RejectDonation(c.Request.Context(), id, uid, input.Remark)
		if err != nil {
			respondWorkflowError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"donation": donation})
	}
}
