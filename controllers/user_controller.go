package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/vnkhanh/e-course-backend/models"
)

func GetUser(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var user models.User
	if err := db.First(&user, "id = ?", c.Param("userId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": user})
}

type UpdateUserInput struct {
	FullName *string         `json:"fullName"`
	Bio      *string         `json:"bio"`
	URLs     *datatypes.JSON `json:"urls"`
}

// UpdateUser lets a user edit their own profile; admins can edit anyone.
func UpdateUser(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := c.GetString("user_id")
	role := c.GetString("role")

	targetID := c.Param("userId")
	if targetID != userID && role != string(models.RoleAdmin) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not allowed", "code": "NOT_AUTHORIZED"})
		return
	}

	var user models.User
	if err := db.First(&user, "id = ?", targetID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	var input UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.FullName != nil {
		user.FullName = *input.FullName
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.URLs != nil {
		user.URLs = *input.URLs
	}

	if err := db.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "user updated", "data": user})
}
