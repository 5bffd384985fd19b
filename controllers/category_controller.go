package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/e-course-backend/models"
)

// GetCategories returns the fixed course taxonomy the editor offers.
func GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": models.CourseCategories})
}

// GetSubCategories returns the sub-categories of one category.
func GetSubCategories(c *gin.Context) {
	category := c.Param("category")
	subs := models.SubCategoriesFor(category)
	if subs == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "category not found", "code": "INVALID_CATEGORY"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": subs})
}
