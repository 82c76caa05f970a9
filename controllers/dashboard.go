package controllers

import (
	"net/http"

	"fyp-management-api/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetDashboardStats returns role-scoped counts for the dashboards:
// officers see system-wide totals, advisors their advised projects and
// pending reviews, students their own projects and submissions.
func GetDashboardStats(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}

	db := getDB()
	stats := gin.H{}

	count := func(query *gorm.DB) int64 {
		var n int64
		query.Count(&n)
		return n
	}

	switch p.Role {
	case models.RoleProjectOfficer:
		stats["projects_total"] = count(db.Model(&models.Project{}))
		stats["projects_active"] = count(db.Model(&models.Project{}).Where("status = ?", models.ProjectActive))
		stats["documents_pending"] = count(db.Model(&models.Document{}).Where("status = ?", models.DocumentPending))
		stats["students"] = count(db.Model(&models.User{}).Where("role = ? AND delete_at IS NULL", models.RoleStudent))
		stats["advisors"] = count(db.Model(&models.User{}).Where("role = ? AND delete_at IS NULL", models.RoleAdvisor))

	case models.RoleAdvisor:
		advised := db.Model(&models.Project{}).Select("project_id").Where("advisor_id = ?", p.UserID)
		stats["projects_advised"] = count(db.Model(&models.Project{}).Where("advisor_id = ?", p.UserID))
		stats["documents_pending"] = count(db.Model(&models.Document{}).
			Where("status = ? AND project_id IN (?)", models.DocumentPending, advised))

	default:
		enrolled := db.Model(&models.ProjectMember{}).Select("project_id").Where("user_id = ?", p.UserID)
		stats["projects"] = count(db.Model(&models.Project{}).Where("project_id IN (?)", enrolled))
		stats["documents_submitted"] = count(db.Model(&models.Document{}).Where("submitted_by = ?", p.UserID))
		stats["documents_approved"] = count(db.Model(&models.Document{}).
			Where("submitted_by = ? AND status = ?", p.UserID, models.DocumentApproved))
	}

	stats["unread_notifications"] = count(db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = 0", p.UserID))

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
