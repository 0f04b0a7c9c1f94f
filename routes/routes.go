package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/creative2/guest-feedback-server/config"
	"github.com/creative2/guest-feedback-server/controllers"
	"github.com/creative2/guest-feedback-server/middleware"
	"github.com/creative2/guest-feedback-server/models"
	"github.com/creative2/guest-feedback-server/services"
)

func SetupRoutes(r *gin.Engine) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})
	r.GET("/health", controllers.HealthCheck)

	resolver := services.NewMembershipResolver(services.NewGormMembershipStore(config.DB))

	// ==== Token ====
	tokens := r.Group("/tokens")
	{
		tokens.POST("/review", middleware.RateLimitPublicTokens(), controllers.IssueReviewToken)
		tokens.POST("/widget", middleware.AuthJWT(), controllers.IssueWidgetToken)
		tokens.GET("/:token/claims", middleware.RateLimitPublicTokens(), controllers.GetTokenClaims)
		tokens.POST("/:token/revoke", middleware.AuthJWT(), controllers.RevokeToken)
	}

	// ==== Cấu hình notification theo hotel ====
	tenants := r.Group("/tenants/:hotelId")
	tenants.Use(middleware.AuthJWT(), middleware.RequireHotelAccess(resolver, "hotelId"))
	{
		tenants.GET("/smtp-profile", controllers.GetSmtpProfile)
		tenants.PUT("/smtp-profile", controllers.PutSmtpProfile)
		tenants.GET("/template", controllers.GetEmailTemplate)
		tenants.PUT("/template", controllers.PutEmailTemplate)
		tenants.GET("/email-logs", controllers.ListEmailLogs)
	}

	// ==== Gửi mail mời đánh giá + tra trạng thái ====
	r.POST("/guests/:guestId/notify", middleware.AuthJWT(), controllers.NotifyGuest)
	r.GET("/notifications/status",
		middleware.AuthJWT(), middleware.ResolveHotelScope(resolver), controllers.EmailStatus)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", controllers.Login)
			auth.POST("/google/login", controllers.GoogleLogin)
			auth.GET("/me", middleware.AuthJWT(), controllers.Me)
			auth.POST("/logout", middleware.AuthJWT(), controllers.Logout)
		}

		// Quản lý tài khoản: chỉ super_admin
		users := api.Group("/users")
		users.Use(middleware.AuthJWT(), middleware.RequireSuperAdmin())
		{
			users.GET("", controllers.ListUsers)
			users.GET("/:id", controllers.GetUser)
			users.POST("", controllers.CreateUser)
			users.PUT("/:id", controllers.UpdateUser)
			users.DELETE("/:id", controllers.DeleteUser)
		}

		hotels := api.Group("/hotels")
		hotels.Use(middleware.AuthJWT())
		{
			hotels.GET("", middleware.ResolveHotelScope(resolver), controllers.ListHotels)
			hotels.GET("/:id", middleware.ResolveHotelScope(resolver), controllers.GetHotel)
			hotels.POST("", middleware.RequireSuperAdmin(), controllers.CreateHotel)
			hotels.PUT("/:id", middleware.RequireSuperAdmin(), controllers.UpdateHotel)
			hotels.DELETE("/:id", middleware.RequireSuperAdmin(), controllers.DeleteHotel)
		}

		guests := api.Group("/guests")
		guests.Use(middleware.AuthJWT(), middleware.ResolveHotelScope(resolver))
		{
			guests.GET("", controllers.ListGuests)
			guests.GET("/:id", controllers.GetGuest)
			guests.POST("", controllers.AddGuest)
			guests.PUT("/:id", controllers.UpdateGuest)
			guests.DELETE("/:id", controllers.DeleteGuest)
		}

		feedback := api.Group("/feedback")
		{
			// public: khách gửi đánh giá và widget nhúng
			feedback.POST("", middleware.RateLimitFeedbackSubmit(), controllers.SubmitFeedback)
			feedback.GET("/widget", middleware.RateLimitPublicTokens(), controllers.WidgetFeedback)

			// staff: xem và xử lý
			staff := feedback.Group("")
			staff.Use(middleware.AuthJWT(), middleware.ResolveHotelScope(resolver))
			{
				staff.GET("", controllers.ListFeedback)
				staff.GET("/guest/:guestId", controllers.GetGuestFeedback)
				staff.PUT("/:id/reply", controllers.ReplyFeedback)
				staff.PUT("/:id/state", controllers.SetFeedbackState)
				// xoá đánh giá: không cho role staff
				staff.DELETE("/:id",
					middleware.RequireRole(models.RoleSuperAdmin, models.RoleAdmin, models.RoleManager),
					controllers.DeleteFeedback)
			}
		}
	}
}
