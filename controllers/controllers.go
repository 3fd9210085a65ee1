package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	config "github.com/MJG-MindSpire/demodonation/config"
	notify "github.com/MJG-MindSpire/demodonation/notify"
	workflow "github.com/MJG-MindSpire/demodonation/workflow"
)

func db(cfg *config.Config) *mongo.Database {
	return cfg.MongoClient.Database(cfg.DBName)
}

func col(cfg *config.Config, name string) *mongo.Collection {
	return db(cfg).Collection(name)
}

func engine(cfg *config.Config) *workflow.Engine {
	store := workflow.NewMongoStore(db(cfg))
	return workflow.NewEngine(store, store, store, notify.NewMongoNotifier(db(cfg)))
}

func notifier(cfg *config.Config) notify.Notifier {
	return notify.NewMongoNotifier(db(cfg))
}

// objectIDParam parses the named path parameter. On failure it writes
// a 400 and returns ok=false.
func objectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid " + name})
		return primitive.NilObjectID, false
	}
	return id, true
}

// currentUserID returns the authenticated subject id set by the auth
// middleware.
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return primitive.NilObjectID, false
	}
	return id, true
}

// respondWorkflowError maps engine errors onto the HTTP taxonomy.
func respondWorkflowError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, workflow.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
	case errors.Is(err, workflow.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
	case errors.Is(err, workflow.ErrProofRequired):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Payment proof is required before approval"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
	}
}
