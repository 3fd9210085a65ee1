package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	config "github.com/MJG-MindSpire/demodonation/config"
	models "github.com/MJG-MindSpire/demodonation/models"
	utils "github.com/MJG-MindSpire/demodonation/utils"
)

func parseBoolInput(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes":
		return true
	}
	return false
}

// ---------------- CREATE ----------------
// Verified receivers submit funding requests as multipart forms. At
// least one payment channel must be enabled and complete, and at least
// one verification file attached.
func CreateProject(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := currentUserID(c)
		if !ok {
			return
		}

		var input struct {
			FullName        string  `form:"fullName" binding:"required"`
			FatherOrOrgName string  `form:"fatherOrOrgName" binding:"required"`
			CnicOrIDNumber  string  `form:"cnicOrIdNumber"`
			Phone           string  `form:"phone" binding:"required"`
			AlternatePhone  string  `form:"alternatePhone"`
			City            string  `form:"city" binding:"required"`
			FullAddress     string  `form:"fullAddress" binding:"required"`
			Title           string  `form:"title" binding:"required"`
			Purpose         string  `form:"purpose" binding:"required"`
			RequiredAmount  float64 `form:"requiredAmount" binding:"required,gt=0"`
			Category        string  `form:"category" binding:"required"`
			UrgencyLevel    string  `form:"urgencyLevel"`
			Description     string  `form:"description" binding:"required"`
			UsageBreakdown  string  `form:"usageBreakdown" binding:"required"`
			DurationText    string  `form:"durationText"`
			TimelineStart   string  `form:"timelineStart"`
			TimelineEnd     string  `form:"timelineEnd"`

			EnableBank            string `form:"enableBank"`
			BankName              string `form:"bankName"`
			BankAccountHolderName string `form:"bankAccountHolderName"`
			BankAccountNumber     string `form:"bankAccountNumber"`
			BankIban              string `form:"bankIban"`

			EnableJazzcash      string `form:"enableJazzcash"`
			JazzcashAccountName string `form:"jazzcashAccountName"`
			JazzcashMobile      string `form:"jazzcashMobileNumber"`

			EnableEasypaisa      string `form:"enableEasypaisa"`
			EasypaisaAccountName string `form:"easypaisaAccountName"`
			EasypaisaMobile      string `form:"easypaisaMobileNumber"`

			StepKeys   []string `form:"stepKeys"`
			StepTitles []string `form:"stepTitles"`
		}
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		if !models.ValidCategory(input.Category) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid category"})
			return
		}
		urgency := input.UrgencyLevel
		if urgency == "" {
			urgency = models.UrgencyMedium
		}
		if !models.ValidUrgency(urgency) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid urgencyLevel"})
			return
		}

		enableBank := parseBoolInput(input.EnableBank)
		enableJazzcash := parseBoolInput(input.EnableJazzcash)
		enableEasypaisa := parseBoolInput(input.EnableEasypaisa)

		if !enableBank && !enableJazzcash && !enableEasypaisa {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Select and fill at least one payment method"})
			return
		}

		var accounts models.PaymentAccounts
		if enableBank {
			bank := &models.BankAccount{
				BankName:          strings.TrimSpace(input.BankName),
				AccountHolderName: strings.TrimSpace(input.BankAccountHolderName),
				AccountNumber:     strings.TrimSpace(input.BankAccountNumber),
				IBAN:              strings.TrimSpace(input.BankIban),
			}
			if !bank.Complete() {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Bank details are incomplete"})
				return
			}
			accounts.Bank = bank
		}
		if enableJazzcash {
			jc := &models.WalletAccount{
				AccountName:  strings.TrimSpace(input.JazzcashAccountName),
				MobileNumber: strings.TrimSpace(input.JazzcashMobile),
			}
			if !jc.Complete() {
				c.JSON(http.StatusBadRequest, gin.H{"message": "JazzCash details are incomplete"})
				return
			}
			accounts.Jazzcash = jc
		}
		if enableEasypaisa {
			ep := &models.WalletAccount{
				AccountName:  strings.TrimSpace(input.EasypaisaAccountName),
				MobileNumber: strings.TrimSpace(input.EasypaisaMobile),
			}
			if !ep.Complete() {
				c.JSON(http.StatusBadRequest, gin.H{"message": "EasyPaisa details are incomplete"})
				return
			}
			accounts.Easypaisa = ep
		}

		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid form data"})
			return
		}
		files := form.File["verificationFiles"]
		if len(files) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Verification images are required"})
			return
		}

		mediaPaths, err := utils.SaveUploadedFiles(cfg.UploadsDir, utils.UploadReceiverVerifications, files)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not store verification files"})
			return
		}

		steps := models.DefaultSteps()
		if len(input.StepKeys) > 0 && len(input.StepKeys) == len(input.StepTitles) {
			steps = steps[:0]
			for i := range input.StepKeys {
				steps = append(steps, models.ProjectStep{
					Key:   input.StepKeys[i],
					Title: input.StepTitles[i],
					Order: i + 1,
				})
			}
		}

		var timelineStart, timelineEnd *time.Time
		if t, err := time.Parse("2006-01-02", input.TimelineStart); err == nil {
			timelineStart = &t
		}
		if t, err := time.Parse("2006-01-02", input.TimelineEnd); err == nil {
			timelineEnd = &t
		}

		now := time.Now()
		project := models.Project{
			ID:         primitive.NewObjectID(),
			ReceiverID: uid,
			ReceiverDetails: models.ReceiverDetails{
				FullName:        input.FullName,
				FatherOrOrgName: input.FatherOrOrgName,
				CnicOrIDNumber:  input.CnicOrIDNumber,
				Phone:           input.Phone,
				AlternatePhone:  input.AlternatePhone,
				City:            input.City,
				FullAddress:     input.FullAddress,
			},
			Title:                  input.Title,
			Purpose:                input.Purpose,
			RequiredAmount:         input.RequiredAmount,
			Category:               input.Category,
			UrgencyLevel:           urgency,
			Description:            input.Description,
			UsageBreakdown:         input.UsageBreakdown,
			DurationText:           input.DurationText,
			VerificationMediaPaths: mediaPaths,
			TimelineStart:          timelineStart,
			TimelineEnd:            timelineEnd,
			Steps:                  steps,
			PaymentAccounts:        accounts,
			Status:                 models.ProjectStatusPending,
			AssignedFieldWorkerIDs: []primitive.ObjectID{},
			CreatedAt:              now,
			UpdatedAt:              now,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if _, err := col(cfg, "projects").InsertOne(ctx, project); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not create project"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"project": project})
	}
}

// ---------------- MINE ----------------
func MyProjects(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := currentUserID(c)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		cursor, err := col(cfg, "projects").
			Find(ctx, bson.M{"receiver_id": uid}, options.Find().SetSort(bson.M{"created_at": -1}))
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

// ---------------- GET ----------------
// Admins see any project; receivers only their own.
func GetProject(cfg *config.Config) gin.HandlerFunc {
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

		role := c.GetString("role")
		if role != models.RoleAdmin && project.ReceiverID.Hex() != c.GetString("user_id") {
			c.JSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"project": project})
	}
}
