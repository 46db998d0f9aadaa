package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"softdesk/internal/service"
)

type AccountHandler struct {
	accounts *service.AccountService
}

func NewAccountHandler(accounts *service.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// Export handles GET /me/export (GDPR article 15, right of access).
func (h *AccountHandler) Export(c *gin.Context) {
	userID, ok := requesterID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	export, err := h.accounts.Export(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="personal_data.json"`)
	c.JSON(http.StatusOK, export)
}

// Delete handles DELETE /me (GDPR article 17, right to erasure).
func (h *AccountHandler) Delete(c *gin.Context) {
	userID, ok := requesterID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	if err := h.accounts.Delete(c.Request.Context(), userID); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
