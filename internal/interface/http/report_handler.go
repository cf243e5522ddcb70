package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// handleWeekOverview 未帶 id 時回傳最新一週。
func (s *Server) handleWeekOverview(c *gin.Context) {
	out, err := s.reportsUC.WeekOverview(c.Request.Context(), c.Query("id"))
	if err != nil {
		s.writeUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "overview": out})
}

func (s *Server) handleWeekOverviewCSV(c *gin.Context) {
	csv, err := s.reportsUC.ExportWeekCSV(c.Request.Context(), c.Query("id"))
	if err != nil {
		s.writeUseCaseError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="brand-overview.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(csv))
}
