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

type decisionInput struct {
	Remark string `json:"remark"`
}

// ---------------- PROJECTS ----------------

func AdminListProjects(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := bson.M{}
		if status := c.Query("status"); status != "" {
			filter["status"] = status
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		cursor, err := col(cfg, "projects").
			Find(ctx, filter, options.Find().SetSort(bson.M{"created_at": -1}))
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

func AdminGetProject(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := objectIDParam(c, "id")
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

		c.JSON(http.StatusOK, gin.H{"project": project})
	}
}

func ApproveProject(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := objectIDParam(c, "id")
		if !ok {
			return
		}

		var input decisionInput
		if err := c.ShouldBindJSON(&input); err != nil && err.Error() != "EOF" {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		project, err := engine(cfg).ApproveProject(c.Request.Context(), id, input.Remark, c.GetString("user_id"))
		if err != nil {
			respondWorkflowError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"project": project})
	}
}

func RejectProject(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := objectIDParam(c, "id")
		if !ok {
			return
		}

		var input decisionInput
		if err := c.ShouldBindJSON(&input); err != nil && err.Error() != "EOF" {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		project, err := engine(cfg).RejectProject(c.Request.Context(), id, input.Remark, c.GetString("user_id"))
		if err != nil {
			respondWorkflowError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"project": project})
	}
}

// AssignFieldWorkers replaces the whole assigned-worker list; callers
// wanting additive assignment send the union.
func AssignFieldWorkers(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := objectIDParam(c, "id")
		if !ok {
			return
		}

		var input struct {
			FieldWorkerIDs []string `json:"fieldWorkerIds" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		workerIDs := make([]primitive.ObjectID, 0, len(input.FieldWorkerIDs))
		for _, raw := range input.FieldWorkerIDs {
			oid, err := primitive.ObjectIDFromHex(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": "invalid field worker id: " + raw})
				return
			}
			workerIDs = append(workerIDs, oid)
		}

		project, err := engine(cfg).AssignFieldWorkers(c.Request.Context(), id, workerIDs)
		if err != nil {
			respondWorkflowError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"project": project})
	}
}

// ---------------- DONATIONS ----------------

func AdminListDonations(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := bson.M{}
		if v := c.Query("verificationStatus"); v != "" {
			filter["verification_status"] = v
		}
		if v := c.Query("receiverStatus"); v != "" {
			filter["receiver_status"] = v
		}
		if v := c.Query("projectId"); v != "" {
			if oid, err := primitive.ObjectIDFromHex(v); err == nil {
				filter["project_id"] = oid
			}
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		cursor, err := col(cfg, "donations").
			Find(ctx, filter, options.Find().SetSort(bson.M{"created_at": -1}))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not fetch donations"})
			return
		}

		var donations []models.Donation
		if err := cursor.All(ctx, &donations); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not decode donations"})
			return
		}
		if donations == nil {
			donations = []models.Donation{}
		}

		c.JSON(http.StatusOK, gin.H{"donations": donations})
	}
}

// Donations are confirmed by the receiving party only. The admin-side
// review endpoints exist but refuse by policy.
func AdminApproveDonation(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusForbidden, gin.H{"message": "Donations are confirmed by receivers. Admin approval is disabled."})
	}
}

func AdminFlagDonation(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusForbidden, gin.H{"message": "Donations are confirmed by receivers. Admin flagging is disabled."})
	}
}

// ---------------- PROGRESS UPDATES ----------------

func AdminListProgressUpdates(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := bson.M{}
		if v := c.Query("approvalStatus"); v != "" {
			filter["approval_status"] = v
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		cursor, err := col(cfg, "progress_updates").
			Find(ctx, filter, options.Find().SetSort(bson.M{"created_at": -1}))
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

func ApproveProgressUpdate(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := objectIDParam(c, "id")
		if !ok {
			return
		}

		var input decisionInput
		if err := c.ShouldBindJSON(&input); err != nil && err.Error() != "EOF" {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		update, err := engine(cfg).ApproveUpdate(c.Request.Context(), id, input.Remark, c.GetString("user_id"))
		if err != nil {
			respondWorkflowError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"update": update})
	}
}

func RejectProgressUpdate(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := objectIDParam(c, "id")
		if !ok {
			return
		}

		var input decisionInput
		if err := c.ShouldBindJSON(&input); err != nil && err.Error() != "EOF" {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		update, err := engine(cfg).RejectUpdate(c.Request.Context(), id, input.Remark, c.GetString("user_id"))
		if err != nil {
			respondWorkflowError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"update": update})
	}
}

// ---------------- STAFF ACCOUNTS ----------------

func listUsersByRole(cfg *config.Config, c *gin.Context, role string) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	cursor, err := col(cfg, "users").
		Find(ctx, bson.M{"role": role}, options.Find().SetSort(bson.M{"created_at": -1}))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not fetch users"})
		return
	}

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not decode users"})
		return
	}

	out := make([]gin.H, 0, len(users))
	for i := range users {
		out = append(out, userResponse(&users[i]))
	}
	c.JSON(http.StatusOK, gin.H{"users": out})
}

func AdminListFieldWorkers(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) { listUsersByRole(cfg, c, models.RoleField) }
}

func AdminListReceivers(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) { listUsersByRole(cfg, c, models.RoleReceiver) }
}

// createStaffAccount provisions a pre-verified receiver or field
// worker on behalf of an admin.
func createStaffAccount(cfg *config.Config, c *gin.Context, role string) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
		Name     string `json:"name"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
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
		ID:                 primitive.NewObjectID(),
		Email:              email,
		PasswordHash:       hash,
		Role:               role,
		Name:               input.Name,
		IsActive:           true,
		RegistrationStatus: models.RegistrationVerified,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if _, err := users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusConflict, gin.H{"message": "Email already in use"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not create account"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": gin.H{
		"id":    user.ID.Hex(),
		"email": user.Email,
		"role":  user.Role,
		"name":  user.Name,
	}})
}

func AdminCreateFieldWorker(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) { createStaffAccount(cfg, c, models.RoleField) }
}

func AdminCreateReceiver(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) { createStaffAccount(cfg, c, models.RoleReceiver) }
}

// verifyAccount marks a staff account verified and notifies it.
func verifyAccount(cfg *config.Config, c *gin.Context, role, notifyType, label string) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	users := col(cfg, "users")

	var user models.User
	if err := users.FindOne(ctx, bson.M{"_id": id, "role": role}).Decode(&user); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": label + " not found"})
		return
	}

	_, err := users.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"registration_status": models.RegistrationVerified,
		"updated_at":          time.Now(),
	}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not verify account"})
		return
	}
	user.RegistrationStatus = models.RegistrationVerified

	notifier(cfg).Notify(c.Request.Context(), models.Notification{
		RecipientID:   user.ID,
		RecipientRole: role,
		Type:          notifyType,
		Title:         "Account Verified",
		Message:       "Your " + label + " account has been verified by admin.",
		EntityType:    "user",
		EntityID:      user.ID.Hex(),
		ActorID:       c.GetString("user_id"),
	})

	c.JSON(http.StatusOK, gin.H{"user": userResponse(&user)})
}

func AdminVerifyReceiver(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		verifyAccount(cfg, c, models.RoleReceiver, models.NotifyReceiverVerified, "receiver")
	}
}

func AdminVerifyFieldWorker(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		verifyAccount(cfg, c, models.RoleField, models.NotifyFieldVerified, "field worker")
	}
}

// toggleAccountStatus enables or disables a staff account.
func toggleAccountStatus(cfg *config.Config, c *gin.Context, role, label string) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var input struct {
		IsActive *bool `json:"isActive" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "isActive is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	users := col(cfg, "users")
	res, err := users.UpdateOne(ctx, bson.M{"_id": id, "role": role}, bson.M{"$set": bson.M{
		"is_active":  *input.IsActive,
		"updated_at": time.Now(),
	}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not update account"})
		return
	}
	if res.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": label + " not found"})
		return
	}

	var user models.User
	if err := users.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not load account"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userResponse(&user)})
}

func AdminSetReceiverStatus(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) { toggleAccountStatus(cfg, c, models.RoleReceiver, "Receiver") }
}

func AdminSetFieldWorkerStatus(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) { toggleAccountStatus(cfg, c, models.RoleField, "Field worker") }
}

// ---------------- DONORS ----------------

// AdminListDonors returns donor accounts together with their donation
// count and total, aggregated in one pipeline.
func AdminListDonors(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		cursor, err := col(cfg, "users").
			Find(ctx, bson.M{"role": models.RoleDonor}, options.Find().SetSort(bson.M{"created_at": -1}))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not fetch donors"})
			return
		}

		var donors []models.User
		if err := cursor.All(ctx, &donors); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not decode donors"})
			return
		}

		ids := make([]primitive.ObjectID, 0, len(donors))
		for _, d := range donors {
			ids = append(ids, d.ID)
		}

		type donorStats struct {
			ID            primitive.ObjectID `bson:"_id"`
			DonationCount int64              `bson:"donation_count"`
			TotalAmount   float64            `bson:"total_amount"`
		}

		statsByID := map[primitive.ObjectID]donorStats{}
		if len(ids) > 0 {
			pipeline := []bson.M{
				{"$match": bson.M{"donor_id": bson.M{"$in": ids}}},
				{"$group": bson.M{
					"_id":            "$donor_id",
					"donation_count": bson.M{"$sum": 1},
					"total_amount":   bson.M{"$sum": "$amount"},
				}},
			}
			statsCursor, err := col(cfg, "donations").Aggregate(ctx, pipeline)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "could not aggregate donations"})
				return
			}
			var stats []donorStats
			if err := statsCursor.All(ctx, &stats); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "could not decode donation stats"})
				return
			}
			for _, s := range stats {
				statsByID[s.ID] = s
			}
		}

		out := make([]gin.H, 0, len(donors))
		for i := range donors {
			resp := userResponse(&donors[i])
			s := statsByID[donors[i].ID]
			resp["donationCount"] = s.DonationCount
			resp["totalAmount"] = s.TotalAmount
			out = append(out, resp)
		}

		c.JSON(http.StatusOK, gin.H{"donors": out})
	}
}
