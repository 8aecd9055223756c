package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Dinesh259/Free-Solutions/internal/app/controllers"
	"github.com/Dinesh259/Free-Solutions/internal/app/models"
	"github.com/Dinesh259/Free-Solutions/internal/middleware"
	"github.com/Dinesh259/Free-Solutions/internal/pkg/filestorage"
	"github.com/Dinesh259/Free-Solutions/internal/web"
)

// formPrefixSize is how much of an upload body is kept to refill the form
// after the body is rejected
const formPrefixSize = 1 << 20

// Controllers groups the controllers mounted by SetupRouter
type Controllers struct {
	Auth    *controllers.AuthController
	Profile *controllers.ProfileController
	Student *controllers.StudentController
	Admin   *controllers.AdminController
	Health  *controllers.HealthController
}

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	ctrl Controllers,
	authMiddleware *middleware.AuthMiddleware,
	uploadsDir string,
) {
	router.GET("/health", ctrl.Health.Health)
	router.Static(filestorage.URLPrefix, uploadsDir)
	router.StaticFS("/static", web.Static())

	router.NoRoute(middleware.RenderNotFound)

	site := router.Group("")
	site.Use(authMiddleware.LoadSession())

	// --- Public routes ---
	site.GET("/", func(ctx *gin.Context) { ctx.Redirect(http.StatusFound, middleware.LoginPath) })
	site.GET("/login", ctrl.Auth.ShowLogin)
	site.POST("/login", ctrl.Auth.Login)
	site.GET("/logout", ctrl.Auth.Logout)
	site.POST("/logout", ctrl.Auth.Logout)
	site.GET("/student/register", ctrl.Auth.ShowRegister)
	site.POST("/student/register", ctrl.Auth.Register)
	site.GET("/forgot-password", ctrl.Auth.ShowForgotPassword)
	site.POST("/verify-user", ctrl.Auth.VerifyUser)
	site.POST("/reset-password-final", ctrl.Auth.ResetPassword)

	// --- Authenticated routes ---
	authenticated := site.Group("")
	authenticated.Use(authMiddleware.RequireAuthenticated())
	{
		authenticated.GET("/student/complete-profile", ctrl.Profile.ShowCompleteProfile)
		authenticated.POST("/update-profile", ctrl.Profile.UpdateProfile)
		authenticated.GET("/profile", ctrl.Profile.ShowProfile)
		authenticated.GET("/contact", ctrl.Profile.Contact)
		authenticated.GET("/change-password", ctrl.Auth.ShowChangePassword)
		authenticated.POST("/change-password", ctrl.Auth.ChangePassword)
	}

	// Solutions are shared by admins and students with a complete profile
	solutions := authenticated.Group("")
	solutions.Use(authMiddleware.RequireCompleteProfileOrAdmin())
	{
		solutions.GET("/solution/:id", ctrl.Student.Solution)
	}

	// Students with a complete profile
	student := authenticated.Group("")
	student.Use(authMiddleware.RequireCompleteProfile())
	{
		student.GET("/student/dashboard", ctrl.Student.Dashboard)
		student.GET("/content/:subject", ctrl.Student.Chapters)
		student.GET("/content/:subject/:chapter", ctrl.Student.ChapterLevel)
		student.GET("/content/:subject/:chapter/:exercise", ctrl.Student.ExerciseQuestions)
	}

	// --- Admin routes ---
	admin := site.Group("/admin")
	admin.Use(authMiddleware.RequireRole(models.RoleAdmin))
	{
		admin.GET("/dashboard", ctrl.Admin.Dashboard)
		admin.GET("/add-solution", ctrl.Admin.ListSolutions)
		admin.POST("/add-solution", middleware.RecordFormPrefix(formPrefixSize), ctrl.Admin.AddSolution)
		admin.GET("/database", ctrl.Admin.Database)
		admin.GET("/database/export", ctrl.Admin.Export)
		admin.GET("/edit/:id", ctrl.Admin.ShowEdit)
		admin.POST("/edit/:id", middleware.RecordFormPrefix(formPrefixSize), ctrl.Admin.Edit)
		admin.GET("/delete/:id", ctrl.Admin.Delete)
		admin.POST("/delete/:id", ctrl.Admin.Delete)
	}
}
