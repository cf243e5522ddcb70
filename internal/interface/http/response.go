package httpapi

import (
	"errors"
	"net/http"

	"brand-trends/internal/application/analyses"
	appsettings "brand-trends/internal/application/settings"
	"brand-trends/internal/application/trend"
	"brand-trends/internal/domain/brandanalysis"
	domainTrend "brand-trends/internal/domain/trend"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func writeError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, gin.H{
		"success":    false,
		"error":      msg,
		"error_code": code,
	})
}

// writeUseCaseError 將用例錯誤轉成對應的 HTTP 狀態與錯誤碼；未知錯誤一律 500 並記錄。
func (s *Server) writeUseCaseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, brandanalysis.ErrNotFound):
		writeError(c, http.StatusNotFound, errCodeNotFound, "analysis not found")
	case errors.Is(err, domainTrend.ErrNotEnoughData):
		writeError(c, http.StatusUnprocessableEntity, errCodeNotEnoughData, "at least 2 analyses are needed to show trends")
	case errors.Is(err, domainTrend.ErrInvalidConfig),
		errors.Is(err, analyses.ErrInvalidInput),
		errors.Is(err, appsettings.ErrInvalidSettings),
		errors.Is(err, trend.ErrUnsupportedFormat):
		writeError(c, http.StatusBadRequest, errCodeBadRequest, err.Error())
	default:
		_ = c.Error(err)
		s.log.Error("request failed",
			zap.Error(err),
			zap.String("path", c.FullPath()),
			zap.String("request_id", currentRequestID(c)),
		)
		writeError(c, http.StatusInternalServerError, errCodeInternal, "internal error")
	}
}
