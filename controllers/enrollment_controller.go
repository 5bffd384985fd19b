package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/e-course-backend/models"
)

// EnrollCourse enrolls the caller into a published course.
func EnrollCourse(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := c.GetString("user_id")

	var course models.Course
	if err := db.First(&course, "id = ?", c.Param("courseId")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "course not found", "code": "NOT_FOUND"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load course"})
		return
	}

	if course.Status != models.StatusPublished {
		c.JSON(http.StatusBadRequest, gin.H{"error": "course is not published"})
		return
	}

	enrollments, err := course.DecodedEnrollments()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read enrollments"})
		return
	}
	for _, e := range enrollments {
		if e.UserID == userID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "already enrolled"})
			return
		}
	}

	enrollments = append(enrollments, models.Enrollment{UserID: userID})
	if err := course.SetEnrollments(enrollments); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update enrollments"})
		return
	}

	if err := db.Save(&course).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save enrollment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "enrolled", "data": course})
}

// ListEnrolledCourses returns the published courses the caller is enrolled
// in. Enrollments live inside the course JSON column, so the filter runs over
// the decoded rows.
func ListEnrolledCourses(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := c.GetString("user_id")

	var courses []models.Course
	if err := db.Where("status = ?", models.StatusPublished).Find(&courses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load courses"})
		return
	}

	enrolled := make([]models.Course, 0)
	for _, course := range courses {
		enrollments, err := course.DecodedEnrollments()
		if err != nil {
			continue
		}
		for _, e := range enrollments {
			if e.UserID == userID {
				enrolled = append(enrolled, course)
				break
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"data": enrolled})
}
