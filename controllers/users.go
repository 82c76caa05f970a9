package controllers

import (
	"net/http"
	"time"

	"fyp-management-api/models"

	"github.com/gin-gonic/gin"
)

// ListUsers returns accounts, optionally filtered by role. Officer only;
// used by the project-creation form to pick students and advisors.
func ListUsers(c *gin.Context) {
	db := getDB()

	query := db.Where("delete_at IS NULL")
	if role := models.Role(c.Query("role")); role != "" {
		if !role.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
			return
		}
		query = query.Where("role = ?", role)
	}

	var users []models.User
	if err := query.Order("user_lname, user_fname").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// ChangeUserRole is the privileged role mutation; officer only.
func ChangeUserRole(c *gin.Context) {
	userID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Role models.Role `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
		return
	}

	db := getDB()

	var user models.User
	if err := db.Where("user_id = ? AND delete_at IS NULL", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	now := time.Now()
	user.Role = req.Role
	user.UpdateAt = &now

	if err := db.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update role"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
