package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	config "github.com/MJG-MindSpire/demodonation/config"
	controllers "github.com/MJG-MindSpire/demodonation/controllers"
	middleware "github.com/MJG-MindSpire/demodonation/middleware"
	models "github.com/MJG-MindSpire/demodonation/models"
)

func SetupRoutes(r *gin.Engine, cfg *config.Config) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.ClientOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "If-None-Match"},
		ExposeHeaders:    []string{"ETag", "Last-Modified"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.Static("/uploads", cfg.UploadsDir)

	api := r.Group("/api")
	auth := middleware.AuthMiddleware(cfg)
	verified := middleware.RequireVerifiedUser(cfg)

	// auth
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", controllers.Register(cfg))
		authGroup.POST("/login", controllers.Login(cfg))
		authGroup.GET("/me", auth, controllers.Me(cfg))
		authGroup.PUT("/me/profile", auth, middleware.RequireRoles(models.RoleDonor), controllers.UpdateProfile(cfg))
	}

	// portal
	portal := api.Group("/portal")
	{
		portal.POST("/login", controllers.PortalLogin(cfg))

		creds := portal.Group("/admin/credentials", auth, middleware.RequireRoles(models.RoleAdmin))
		{
			creds.GET("", controllers.ListPortalCredentials(cfg))
			creds.POST("", controllers.CreatePortalCredential(cfg))
			creds.PUT("/:id", controllers.UpdatePortalCredential(cfg))
			creds.DELETE("/:id", controllers.DeletePortalCredential(cfg))
		}
	}

	// public browsing, no token
	public := api.Group("/public")
	{
		public.GET("/projects", controllers.PublicListProjects(cfg))
		public.GET("/projects/:id", controllers.PublicGetProject(cfg))
	}

	// settings
	settings := api.Group("/settings")
	{
		settings.GET("", controllers.GetSettings(cfg))
		settings.PUT("", auth, middleware.RequireRoles(models.RoleAdmin), controllers.UpdateSettings(cfg))
		settings.DELETE("", auth, middleware.RequireRoles(models.RoleAdmin), controllers.ResetSettings(cfg))
		settings.POST("/logo", auth, middleware.RequireRoles(models.RoleAdmin), controllers.UploadLogo(cfg))
	}

	// receiver funding requests
	projects := api.Group("/projects", auth, middleware.RequireRoles(models.RoleReceiver, models.RoleAdmin))
	{
		projects.POST("", middleware.RequireRoles(models.RoleReceiver), verified, controllers.CreateProject(cfg))
		projects.GET("/mine", middleware.RequireRoles(models.RoleReceiver), controllers.MyProjects(cfg))
		projects.GET("/:id", controllers.GetProject(cfg))
	}

	// admin
	admin := api.Group("/admin", auth, middleware.RequireRoles(models.RoleAdmin))
	{
		admin.GET("/projects", controllers.AdminListProjects(cfg))
		admin.GET("/projects/:id", controllers.AdminGetProject(cfg))
		admin.POST("/projects/:id/approve", controllers.ApproveProject(cfg))
		admin.POST("/projects/:id/reject", controllers.RejectProject(cfg))
		admin.POST("/projects/:id/assign-field", controllers.AssignFieldWorkers(cfg))

		admin.GET("/donations", controllers.AdminListDonations(cfg))
		admin.POST("/donations/:id/approve", controllers.AdminApproveDonation(cfg))
		admin.POST("/donations/:id/flag", controllers.AdminFlagDonation(cfg))

		admin.GET("/progress-updates", controllers.AdminListProgressUpdates(cfg))
		admin.POST("/progress-updates/:id/approve", controllers.ApproveProgressUpdate(cfg))
		admin.POST("/progress-updates/:id/reject", controllers.RejectProgressUpdate(cfg))

		admin.GET("/field-workers", controllers.AdminListFieldWorkers(cfg))
		admin.POST("/field-workers", controllers.AdminCreateFieldWorker(cfg))
		admin.POST("/field-workers/:id/verify", controllers.AdminVerifyFieldWorker(cfg))
		admin.PATCH("/field-workers/:id/status", controllers.AdminSetFieldWorkerStatus(cfg))

		admin.GET("/receivers", controllers.AdminListReceivers(cfg))
		admin.POST("/receivers", controllers.AdminCreateReceiver(cfg))
		admin.POST("/receivers/:id/verify", controllers.AdminVerifyReceiver(cfg))
		admin.PATCH("/receivers/:id/status", controllers.AdminSetReceiverStatus(cfg))

		admin.GET("/donors", controllers.AdminListDonors(cfg))
	}

	// donor
	donations := api.Group("/donations", auth, middleware.RequireRoles(models.RoleDonor))
	{
		donations.GET("/mine", controllers.MyDonations(cfg))
		donations.POST("/projects/:projectId/submit-offline", controllers.SubmitOfflineDonation(cfg))
		donations.POST("/projects/:projectId/create-offline", controllers.CreateOfflineDonation(cfg))
		donations.POST("/projects/:projectId/paypal/create-order", controllers.CreatePayPalOrder(cfg))
		donations.POST("/paypal/capture", controllers.CapturePayPalOrder(cfg))
		donations.POST("/:id/proof", controllers.UploadDonationProof(cfg))
	}

	// field worker
	field := api.Group("/field", auth, middleware.RequireRoles(models.RoleField), verified)
	{
		field.GET("/projects", controllers.FieldAssignedProjects(cfg))
		field.GET("/projects/:projectId", controllers.FieldGetProject(cfg))
		field.GET("/projects/:projectId/progress", controllers.FieldListProgress(cfg))
		field.POST("/projects/:projectId/progress", controllers.FieldCreateProgress(cfg))
	}

	// receiver donation confirmation
	receiver := api.Group("/receiver", auth, middleware.RequireRoles(models.RoleReceiver), verified)
	{
		receiver.GET("/donations", controllers.ReceiverListDonations(cfg))
		receiver.POST("/donations/:id/approve", controllers.ReceiverApproveDonation(cfg))
		receiver.POST("/donations/:id/reject", controllers.ReceiverRejectDonation(cfg))
	}

	// notifications, any authenticated role
	notifs := api.Group("/notifications", auth)
	{
		notifs.GET("/mine", controllers.MyNotifications(cfg))
		notifs.GET("/unread-count", controllers.UnreadNotificationCount(cfg))
		notifs.POST("/mark-read", controllers.MarkNotificationsRead(cfg))
	}
}
