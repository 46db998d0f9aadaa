package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"softdesk/internal/service"
)

type ContributorHandler struct {
	projects *service.ProjectService
}

func NewContributorHandler(projects *service.ProjectService) *ContributorHandler {
	return &ContributorHandler{projects: projects}
}

// List handles GET /projects/:project_id/contributors
func (h *ContributorHandler) List(c *gin.Context) {
	userID, ok := requesterID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	projectID, err := pathID(c, "project_id")
	if err != nil {
		abortWithError(c, err)
		return
	}

	contributors, err := h.projects.ListContributors(c.Request.Context(), userID, projectID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, contributors)
}

// Add handles POST /projects/:project_id/contributors
func (h *ContributorHandler) Add(c *gin.Context) {
	userID, ok := requesterID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	projectID, err := pathID(c, "project_id")
	if err != nil {
		abortWithError(c, err)
		return
	}

	var req struct {
		UserID int64 `json:"user_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	contributor, err := h.projects.AddContributor(c.Request.Context(), userID, projectID, req.UserID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contributor)
}

// Remove handles DELETE /projects/:project_id/contributors/:user_id
func (h *ContributorHandler) Remove(c *gin.Context) {
	userID, ok := requesterID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	projectID, err := pathID(c, "project_id")
	if err != nil {
		abortWithError(c, err)
		return
	}
	targetID, err := pathID(c, "user_id")
	if err != nil {
		abortWithError(c, err)
		return
	}

	if err := h.projects.RemoveContributor(c.Request.Context(), userID, projectID, targetID); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
