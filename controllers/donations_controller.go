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
	paypal "github.com/MJG-MindSpire/demodonation/paypal"
	utils "github.com/MJG-MindSpire/demodonation/utils"
)

// approvedProject loads a project only if it is published. Drafts and
// rejected requests look like missing projects to donors.
func approvedProject(ctx context.Context, cfg *config.Config, id primitive.ObjectID) (*models.Project, bool) {
	var project models.Project
	err := col(cfg, "projects").
		FindOne(ctx, bson.M{"_id": id, "status": models.ProjectStatusApproved}).
		Decode(&project)
	if err != nil {
		return nil, false
	}
	return &project, true
}

// validateOfflineDetails checks the offline method and the donor's
// transfer details shared by the submit and create paths.
func validateOfflineDetails(c *gin.Context, project *models.Project, rawMethod, accountName, accountNumber, transactionID string) (models.DonationMethod, *models.DonorPaymentDetails, bool) {
	method, err := models.ParseDonationMethod(rawMethod)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return "", nil, false
	}
	if method == models.MethodPayPal {
		c.JSON(http.StatusBadRequest, gin.H{"message": "paypal donations go through the checkout endpoints"})
		return "", nil, false
	}
	if method != models.MethodCash && !project.PaymentAccounts.Supports(method) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "This project does not accept " + string(method) + " payments"})
		return "", nil, false
	}

	name := strings.TrimSpace(accountName)
	number := strings.TrimSpace(accountNumber)
	txID := strings.TrimSpace(transactionID)
	if name == "" || number == "" || txID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "donorAccountName, donorAccountNumberOrMobile and transactionId are required"})
		return "", nil, false
	}

	return method, &models.DonorPaymentDetails{
		DonorAccountName:           name,
		DonorAccountNumberOrMobile: number,
		TransactionID:              txID,
	}, true
}

// newOfflineDonation records the donor's claimed transfer. Payment
// status stays initiated until the receiver confirms; the submitted
// value is stored as both amount and paidAmount.
func newOfflineDonation(projectID, donorID primitive.ObjectID, amount float64, method models.DonationMethod, details *models.DonorPaymentDetails, proofPaths []string) models.Donation {
	now := time.Now()
	return models.Donation{
		ID:                  primitive.NewObjectID(),
		ProjectID:           projectID,
		DonorID:             donorID,
		Amount:              amount,
		PaidAmount:          amount,
		Method:              method,
		PaymentStatus:       models.PaymentInitiated,
		VerificationStatus:  models.VerificationPending,
		ReceiverStatus:      models.ReceiverPending,
		DonorPaymentDetails: details,
		ProofPaths:          proofPaths,
		ReceiptNo:           utils.MakeReceiptNo(),
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

// ---------------- MINE ----------------
func MyDonations(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := currentUserID(c)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		cursor, err := col(cfg, "donations").
			Find(ctx, bson.M{"donor_id": uid}, options.Find().SetSort(bson.M{"created_at": -1}))
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

// ---------------- OFFLINE, PROOF UP FRONT ----------------
// Multipart submit: an offline payment the donor already made through
// one of the project's channels, with proof attached.
func SubmitOfflineDonation(cfg *config.Config) gin.HandlerFunc {
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
			PaidAmount                 float64 `form:"paidAmount" binding:"required,gt=0"`
			Method                     string  `form:"method" binding:"required"`
			DonorAccountName           string  `form:"donorAccountName"`
			DonorAccountNumberOrMobile string  `form:"donorAccountNumberOrMobile"`
			TransactionID              string  `form:"transactionId"`
		}
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		project, ok := approvedProject(ctx, cfg, projectID)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"message": "Project not found"})
			return
		}

		method, details, ok := validateOfflineDetails(c, project, input.Method,
			input.DonorAccountName, input.DonorAccountNumberOrMobile, input.TransactionID)
		if !ok {
			return
		}

		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid form data"})
			return
		}
		files := form.File["proofFiles"]
		if len(files) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Payment proof is required"})
			return
		}

		proofPaths, err := utils.SaveUploadedFiles(cfg.UploadsDir, utils.UploadDonationProofs, files)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not store proof files"})
			return
		}

		donation := newOfflineDonation(projectID, uid, input.PaidAmount, method, details, proofPaths)
		if _, err := col(cfg, "donations").InsertOne(ctx, donation); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not record donation"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"donation": donation})
	}
}

// ---------------- OFFLINE, PROOF LATER ----------------
// JSON create: records the pledge without proof. The receiver cannot
// confirm it until the donor attaches proof via the proof endpoint.
func CreateOfflineDonation(cfg *config.Config) gin.HandlerFunc {
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
			Amount                     float64 `json:"amount" binding:"required,gt=0"`
			Method                     string  `json:"method" binding:"required"`
			DonorAccountName           string  `json:"donorAccountName"`
			DonorAccountNumberOrMobile string  `json:"donorAccountNumberOrMobile"`
			TransactionID              string  `json:"transactionId"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		project, ok := approvedProject(ctx, cfg, projectID)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"message": "Project not found"})
			return
		}

		method, details, ok := validateOfflineDetails(c, project, input.Method,
			input.DonorAccountName, input.DonorAccountNumberOrMobile, input.TransactionID)
		if !ok {
			return
		}

		donation := newOfflineDonation(projectID, uid, input.Amount, method, details, []string{})
		if _, err := col(cfg, "donations").InsertOne(ctx, donation); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not record donation"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"donation": donation})
	}
}

// ---------------- PAYPAL CHECKOUT ----------------
// CreatePayPalOrder records an initiated donation and returns the
// provider approval link. The donation only counts once captured and
// confirmed by the receiver.
func CreatePayPalOrder(cfg *config.Config) gin.HandlerFunc {
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
			Amount    float64 `json:"amount" binding:"required,gt=0"`
			Currency  string  `json:"currency"`
			ReturnURL string  `json:"returnUrl"`
			CancelURL string  `json:"cancelUrl"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		if !cfg.PayPalConfigured() {
			c.JSON(http.StatusBadRequest, gin.H{"message": "PayPal checkout is not configured"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		project, ok := approvedProject(ctx, cfg, projectID)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"message": "Project not found"})
			return
		}

		// client may override return/cancel targets and currency
		returnURL := input.ReturnURL
		if returnURL == "" {
			returnURL = cfg.ClientOrigin + "/donation/paypal/return"
		}
		cancelURL := input.CancelURL
		if cancelURL == "" {
			cancelURL = cfg.ClientOrigin + "/donation/paypal/cancel"
		}

		client := paypal.NewClient(cfg.PayPalMode, cfg.PayPalClientID, cfg.PayPalClientSecret)
		order, err := client.CreateOrder(paypal.OrderArgs{
			Amount:       input.Amount,
			Currency:     input.Currency,
			ProjectTitle: project.Title,
			ReturnURL:    returnURL,
			CancelURL:    cancelURL,
		})
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"message": "could not create PayPal order"})
			return
		}

		now := time.Now()
		donation := models.Donation{
			ID:                 primitive.NewObjectID(),
			ProjectID:          projectID,
			DonorID:            uid,
			Amount:             input.Amount,
			Method:             models.MethodPayPal,
			PaymentStatus:      models.PaymentInitiated,
			VerificationStatus: models.VerificationPending,
			ReceiverStatus:     models.ReceiverPending,
			ProofPaths:         []string{},
			Provider: &models.PaymentProvider{
				Type:    models.ProviderPayPal,
				OrderID: order.OrderID,
			},
			ReceiptNo: utils.MakeReceiptNo(),
			CreatedAt: now,
			UpdatedAt: now,
		}

		if _, err := col(cfg, "donations").InsertOne(ctx, donation); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not record donation"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"donation":   donation,
			"orderId":    order.OrderID,
			"approveUrl": order.ApproveURL,
		})
	}
}

// CapturePayPalOrder completes checkout after buyer approval. The
// donation is located by the order id recorded at creation.
func CapturePayPalOrder(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := currentUserID(c)
		if !ok {
			return
		}

		var input struct {
			OrderID string `json:"orderId" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		donations := col(cfg, "donations")

		var donation models.Donation
		err := donations.FindOne(ctx, bson.M{
			"provider.order_id": input.OrderID,
			"donor_id":          uid,
		}).Decode(&donation)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Donation not found"})
			return
		}

		client := paypal.NewClient(cfg.PayPalMode, cfg.PayPalClientID, cfg.PayPalClientSecret)
		capture, err := client.CaptureOrder(input.OrderID)
		if err != nil {
			donations.UpdateOne(ctx, bson.M{"_id": donation.ID}, bson.M{"$set": bson.M{
				"payment_status": models.PaymentFailed,
				"updated_at":     time.Now(),
			}})
			c.JSON(http.StatusBadGateway, gin.H{"message": "could not capture PayPal order"})
			return
		}

		_, err = donations.UpdateOne(ctx, bson.M{"_id": donation.ID}, bson.M{"$set": bson.M{
			"payment_status":      models.PaymentPaid,
			"paid_amount":         donation.Amount,
			"provider.capture_id": capture.CaptureID,
			"updated_at":          time.Now(),
		}})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not update donation"})
			return
		}

		if err := donations.FindOne(ctx, bson.M{"_id": donation.ID}).Decode(&donation); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not load donation"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"donation": donation})
	}
}

// ---------------- PROOF UPLOAD ----------------
// Donors may attach further proof files after submitting, e.g. a bank
// slip scanned later. Paths append; nothing is replaced.
func UploadDonationProof(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := currentUserID(c)
		if !ok {
			return
		}
		id, ok := objectIDParam(c, "id")
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		donations := col(cfg, "donations")

		var donation models.Donation
		if err := donations.FindOne(ctx, bson.M{"_id": id}).Decode(&donation); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Donation not found"})
			return
		}
		if donation.DonorID != uid {
			c.JSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
			return
		}

		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid form data"})
			return
		}
		files := form.File["proofFiles"]
		if len(files) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Payment proof is required"})
			return
		}

		proofPaths, err := utils.SaveUploadedFiles(cfg.UploadsDir, utils.UploadDonationProofs, files)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not store proof files"})
			return
		}

		_, err = donations.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
			"$push": bson.M{"proof_paths": bson.M{"$each": proofPaths}},
			"$set":  bson.M{"updated_at": time.Now()},
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not update donation"})
			return
		}

		if err := donations.FindOne(ctx, bson.M{"_id": id}).Decode(&donation); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not load donation"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"donation": donation})
	}
}
