package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/e-course-backend/controllers"
	"github.com/vnkhanh/e-course-backend/middleware"
)

func SetupRouter(r *gin.Engine, db *gorm.DB) *gin.Engine {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/health", controllers.HealthCheck)

	api := r.Group("/api")
	api.Use(middleware.DBMiddleware(db))

	auth := api.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
		auth.POST("/logingoogle", controllers.GoogleLogin)
		auth.POST("/change-password", middleware.AuthMiddleware(), controllers.ChangePassword)
		auth.GET("/me", middleware.AuthMiddleware(), controllers.Profile)
	}

	categories := api.Group("/categories")
	{
		categories.GET("", controllers.GetCategories)
		categories.GET("/:category/subcategories", controllers.GetSubCategories)
	}

	courses := api.Group("/courses")
	{
		courses.GET("", controllers.ListCourses)
		courses.GET("/:courseId", controllers.GetCourse)

		courses.POST("", middleware.RequireRoles("teacher", "admin"), controllers.CreateCourse)
		courses.PUT("/:courseId", middleware.AuthMiddleware(), controllers.UpdateCourse)
		courses.DELETE("/:courseId", middleware.AuthMiddleware(), controllers.DeleteCourse)

		courses.GET("/:courseId/get-video-upload-url", middleware.AuthMiddleware(), controllers.GetUploadVideoUrl)
		courses.GET("/:courseId/get-cover-photo-upload-url", middleware.AuthMiddleware(), controllers.GetUploadCoverPhotoUrl)

		courses.POST("/:courseId/enroll", middleware.AuthMiddleware(), controllers.EnrollCourse)
	}

	users := api.Group("/users")
	{
		users.GET("/me/courses", middleware.AuthMiddleware(), controllers.ListEnrolledCourses)
		users.GET("/me/teaching", middleware.RequireRoles("teacher", "admin"), controllers.ListTeacherCourses)
		users.GET("/:userId", middleware.AuthMiddleware(), controllers.GetUser)
		users.PUT("/:userId", middleware.AuthMiddleware(), controllers.UpdateUser)
	}

	return r
}
