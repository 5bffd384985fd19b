package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/vnkhanh/e-course-backend/models"
	"github.com/vnkhanh/e-course-backend/services"
	"github.com/vnkhanh/e-course-backend/utils"
)

// ListCourses returns published courses, optionally filtered by category or
// teacher.
func ListCourses(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	query := db.Model(&models.Course{}).Where("status = ?", models.StatusPublished)
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if teacherID := c.Query("teacherId"); teacherID != "" {
		query = query.Where("teacher_id = ?", teacherID)
	}

	var courses []models.Course
	if err := query.Order("created_at DESC").Find(&courses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load courses"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": courses})
}

// ListTeacherCourses returns every course the caller teaches, drafts included.
func ListTeacherCourses(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := c.GetString("user_id")

	var courses []models.Course
	if err := db.Where("teacher_id = ?", userID).Order("created_at DESC").Find(&courses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load courses"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": courses})
}

func GetCourse(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var course models.Course
	if err := db.First(&course, "id = ?", c.Param("courseId")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "course not found", "code": "NOT_FOUND"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load course"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": course})
}

// CreateCourse creates a draft course seeded with defaults; the editor fills
// it in through updates afterwards.
func CreateCourse(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := c.GetString("user_id")

	teacherUUID, err := uuid.Parse(userID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}

	var teacher models.User
	if err := db.First(&teacher, "id = ?", teacherUUID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	var input struct {
		Title string `json:"title"`
	}
	// Body is optional; an empty one yields the default title.
	_ = c.ShouldBindJSON(&input)

	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = "Untitled Course"
	}

	course := models.Course{
		TeacherID:   teacherUUID,
		TeacherName: teacher.FullName,
		Title:       title,
		Slug:        slug.Make(title),
		Category:    "Development",
		SubCategory: "Web Development",
		Image:       models.PlaceholderImage,
		Price:       0,
		Level:       models.LevelBeginner,
		Status:      models.StatusDraft,
	}
	_ = course.SetSections(nil)
	_ = course.SetEnrollments(nil)
	_ = course.SetWhatYoullLearn(nil)
	_ = course.SetRequirements(nil)

	if err := db.Create(&course).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create course"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "course created", "data": course})
}

// UpdateCourse applies a partial update to a course the caller owns. The
// payload may arrive as JSON or as a multipart/urlencoded form with the array
// fields JSON-encoded.
func UpdateCourse(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	course, ok := loadOwnedCourse(c, db)
	if !ok {
		return
	}

	upd, err := bindCourseUpdate(c)
	if err != nil {
		respondUpdateError(c, services.ErrMalformedPayload)
		return
	}

	if updErr := services.ApplyCourseUpdate(course, upd); updErr != nil {
		respondUpdateError(c, updErr)
		return
	}

	if err := db.Save(course).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save course"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "course updated", "data": course})
}

func DeleteCourse(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	course, ok := loadOwnedCourse(c, db)
	if !ok {
		return
	}

	if err := db.Delete(course).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete course"})
		return
	}

	// Stored media is cleaned up best effort.
	if course.Image != "" && course.Image != models.PlaceholderImage {
		if err := utils.DeleteFileByPublicURL(course.Image); err != nil {
			println("failed to delete cover photo:", err.Error())
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "course deleted"})
}

// GetUploadVideoUrl signs a chapter video upload for a course the caller owns.
func GetUploadVideoUrl(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	course, ok := loadOwnedCourse(c, db)
	if !ok {
		return
	}

	sectionID := c.Query("sectionId")
	fileName := c.Query("fileName")
	if sectionID == "" || fileName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sectionId and fileName are required"})
		return
	}

	uploadURL, videoURL, err := utils.SignVideoUpload(course.ID.String(), sectionID, fileName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sign upload"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"uploadUrl": uploadURL,
		"videoUrl":  videoURL,
	}})
}

// GetUploadCoverPhotoUrl signs a cover photo upload. The previous cover, when
// it is a real object and not the placeholder, is deleted from storage.
func GetUploadCoverPhotoUrl(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	course, ok := loadOwnedCourse(c, db)
	if !ok {
		return
	}

	fileName := c.Query("fileName")
	if fileName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fileName is required"})
		return
	}

	uploadURL, coverPhotoURL, err := utils.SignCoverUpload(course.ID.String(), fileName, course.Image)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sign upload"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"uploadUrl":     uploadURL,
		"coverPhotoUrl": coverPhotoURL,
	}})
}

// loadOwnedCourse fetches the route course and checks the caller owns it.
// Admins pass the ownership check. On failure the response is already
// written.
func loadOwnedCourse(c *gin.Context, db *gorm.DB) (*models.Course, bool) {
	var course models.Course
	if err := db.First(&course, "id = ?", c.Param("courseId")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondUpdateError(c, services.ErrCourseNotFound)
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load course"})
		return nil, false
	}

	userID := c.GetString("user_id")
	role := c.GetString("role")
	if course.TeacherID.String() != userID && role != string(models.RoleAdmin) {
		respondUpdateError(c, services.ErrNotAuthorized)
		return nil, false
	}

	return &course, true
}

// bindCourseUpdate reads the update payload from whichever shape the client
// sent it in.
func bindCourseUpdate(c *gin.Context) (services.CourseUpdate, error) {
	contentType := c.ContentType()
	if strings.HasPrefix(contentType, "multipart/form-data") || contentType == "application/x-www-form-urlencoded" {
		if strings.HasPrefix(contentType, "multipart/form-data") {
			if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
				return services.CourseUpdate{}, err
			}
		} else if err := c.Request.ParseForm(); err != nil {
			return services.CourseUpdate{}, err
		}
		return services.CourseUpdateFromValues(c.Request.Form)
	}

	var upd services.CourseUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		return services.CourseUpdate{}, err
	}
	return upd, nil
}

func respondUpdateError(c *gin.Context, err *services.UpdateError) {
	c.JSON(err.Status, gin.H{"error": err.Message, "code": err.Code})
}
