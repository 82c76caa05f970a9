package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"fyp-management-api/config"
	"fyp-management-api/models"
	"fyp-management-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	hub        *services.Hub
	dispatcher *services.Dispatcher
)

// Init wires the realtime hub and dispatcher into the handler package.
// Called once from main before routes are served.
func Init(h *services.Hub) {
	hub = h
	dispatcher = services.NewDispatcher(h)
}

func getDB() *gorm.DB { return config.DB }

// currentPrincipal reads the acting account from the gin context, as set
// by the auth middleware.
func currentPrincipal(c *gin.Context) (services.Principal, bool) {
	uid, ok := c.Get("userID")
	if !ok {
		return services.Principal{}, false
	}
	role, ok := c.Get("role")
	if !ok {
		return services.Principal{}, false
	}
	return services.Principal{UserID: uid.(int), Role: role.(models.Role)}, true
}

func mustPrincipal(c *gin.Context) (services.Principal, bool) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	}
	return p, ok
}

func idParam(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// projectFactsOr404 loads the relationship snapshot for a project and
// maps a missing project to 404.
func projectFactsOr404(c *gin.Context, projectID int) (services.ProjectFacts, bool) {
	facts, err := services.LoadProjectFacts(getDB(), projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load project"})
		}
		return services.ProjectFacts{}, false
	}
	return facts, true
}

func forbidden(c *gin.Context) {
	c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
}

// truncate shortens chat previews used in notification messages,
// counting runes so multibyte text is never cut mid-character.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
