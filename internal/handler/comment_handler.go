package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"softdesk/internal/service"
)

type CommentHandler struct {
	comments *service.CommentService
}

func NewCommentHandler(comments *service.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

type commentBody struct {
	Description string `json:"description"`
}

// Create handles POST /projects/:project_id/issues/:issue_id/comments
func (h *CommentHandler) Create(c *gin.Context) {
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

	var req commentBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	comment, err := h.comments.Create(c.Request.Context(), userID, projectID, issueID, req.Description)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// List handles GET /projects/:project_id/issues/:issue_id/comments
func (h *CommentHandler) List(c *gin.Context) {
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

	comments, err := h.comments.List(c.Request.Context(), userID, projectID, issueID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// Get handles GET /projects/:project_id/issues/:issue_id/comments/:comment_id
func (h *CommentHandler) Get(c *gin.Context) {
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
	commentID, err := pathUUID(c, "comment_id")
	if err != nil {
		abortWithError(c, err)
		return
	}

	comment, err := h.comments.Get(c.Request.Context(), userID, projectID, issueID, commentID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// Update handles PUT /projects/:project_id/issues/:issue_id/comments/:comment_id
func (h *CommentHandler) Update(c *gin.Context) {
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
	commentID, err := pathUUID(c, "comment_id")
	if err != nil {
		abortWithError(c, err)
		return
	}

	var req commentBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	comment, err := h.comments.Update(c.Request.Context(), userID, projectID, issueID, commentID, req.Description)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// Delete handles DELETE /projects/:project_id/issues/:issue_id/comments/:comment_id
func (h *CommentHandler) Delete(c *gin.Context) {
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
	commentID, err := pathUUID(c, "comment_id")
	if err != nil {
		abortWithError(c, err)
		return
	}

	if err := h.comments.Delete(c.Request.Context(), userID, projectID, issueID, commentID); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
