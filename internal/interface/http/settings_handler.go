package httpapi

import (
	"net/http"

	"brand-trends/internal/domain/settings"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleGetSettings(c *gin.Context) {
	st, err := s.settingsUC.Get(c.Request.Context())
	if err != nil {
		s.writeUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "settings": st})
}

// handleUpdateSettings 整份覆蓋；回傳正規化後實際儲存的內容。
func (s *Server) handleUpdateSettings(c *gin.Context) {
	var body settings.Settings
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, http.StatusBadRequest, errCodeBadRequest, "invalid body")
		return
	}
	st, err := s.settingsUC.Update(c.Request.Context(), body)
	if err != nil {
		s.writeUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "settings": st})
}
