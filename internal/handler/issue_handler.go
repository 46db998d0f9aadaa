package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"softdesk/internal/service"
)

type IssueHandler struct {
	issues *service.IssueService
}

func NewIssueHandler(issues *service.IssueService) *IssueHandler {
	return &IssueHandler{issues: issues}
}

// Create handles POST /projects/:project_id/issues
func (h *IssueHandler) Create(c *gin.Context) {
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

	var req service.IssueInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	issue, err := h.issues.Create(c.Request.Context(), userID, projectID, req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, issue)
}

// List handles GET /projects/:project_id/issues
func (h *IssueHandler) List(c *gin.Context) {
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

	issues, err := h.issues.List(c.Request.Context(), userID, projectID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, issues)
}

// Get handles GET /projects/:project_id/issues/:issue_id
func (h *IssueHandler) Get(c *gin.Context) {
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
	issueID, err := pathID(c, "issue_id")
	if err != nil {
		abortWithError(c, err)
		return
	}

	issue, err := h.issues.Get(c.Request.Context(), userID, projectID, issueID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, issue)
}

// Update handles PUT /projects/:project_id/issues/:issue_id
func (h *IssueHandler) Update(c *gin.Context) {
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
	issueID, err := pathID(c, "issue_id")
	if err != nil {
		abortWithError(c, err)
		return
	}

	var req service.IssueUpdateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	issue, err := h.issues.Update(c.Request.Context(), userID, projectID, issueID, req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, issue)
}

// Delete handles DELETE /projects/:project_id/issues/:issue_id
func (h *IssueHandler) Delete(c *gin.Context) {
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
	issueID, err := pathID(c, "issue_id")
	if err != nil {
		abortWithError(c, err)
		return
	}

	if err := h.issues.Delete(c.Request.Context(), userID, projectID, issueID); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
