package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"carnet/internal/handlers"
	"carnet/internal/logging"
	"carnet/internal/middleware"
	"carnet/internal/services"
)

type Handlers struct {
	Account *handlers.AccountHandler
	Auth    *handlers.AuthHandler
	Notes   *handlers.NoteHandler
}

func SetupRoutes(r *gin.Engine, h Handlers, auth services.AuthService, log logging.Logger) *gin.Engine {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")

	// ---- public
	api.POST("/signup", h.Account.Signup)
	api.GET("/verify/:token", h.Account.Verify)
	api.GET("/resend-verification-email/:email", h.Account.ResendVerification)
	api.POST("/login", h.Auth.Login)
	api.POST("/forgot-password", h.Auth.ForgotPassword)
	api.POST("/reset-password/:token", h.Auth.ResetPassword)

	// ---- protected
	private := api.Group("/", middleware.Auth(auth, log))
	private.GET("/logout", h.Auth.Logout)

	notes := private.Group("/notes")
	{
		notes.POST("", h.Notes.Create)
		notes.GET("", h.Notes.Index)
		notes.GET("/:id", h.Notes.Show)
		notes.PUT("/:id", h.Notes.Update)
		notes.DELETE("/:id", h.Notes.Delete)
		notes.GET("/:id/pdf", h.Notes.PDF)
		notes.POST("/:id/share", h.Notes.Share)
	}

	return r
}
