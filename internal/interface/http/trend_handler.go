package httpapi

import (
	"errors"
	"net/http"

	"brand-trends/internal/application/trend"
	domainTrend "brand-trends/internal/domain/trend"

	"github.com/gin-gonic/gin"
)

func selectionFromQuery(c *gin.Context) trend.Selection {
	return trend.Selection{
		Brand:       c.Query("brand"),
		Compare:     c.Query("compare"),
		Metric:      c.Query("metric"),
		SkipMissing: parseBoolDefault(c.Query("skip_missing"), false),
	}
}

// handleTrends 週報不足時仍回傳品牌清單與週數，讓前端顯示提示。
func (s *Server) handleTrends(c *gin.Context) {
	res, err := s.trendUC.Trends(c.Request.Context(), selectionFromQuery(c))
	if errors.Is(err, domainTrend.ErrNotEnoughData) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success":          false,
			"error":            "at least 2 analyses are needed to show trends",
			"error_code":       errCodeNotEnoughData,
			"total_weeks":      res.TotalWeeks,
			"available_brands": res.AvailableBrands,
		})
		return
	}
	if err != nil {
		s.writeUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "trends": res})
}

func (s *Server) handleTrendChart(format trend.ImageFormat) gin.HandlerFunc {
	contentType := "image/png"
	if format == trend.FormatSVG {
		contentType = "image/svg+xml"
	}
	return func(c *gin.Context) {
		img, err := s.trendUC.RenderChart(c.Request.Context(), selectionFromQuery(c), format)
		if err != nil {
			s.writeUseCaseError(c, err)
			return
		}
		c.Header("Cache-Control", "no-store")
		c.Data(http.StatusOK, contentType, img)
	}
}
