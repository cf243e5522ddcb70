package httpapi

import (
	"net/http"

	"brand-trends/internal/application/analyses"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (s *Server) handleListAnalyses(c *gin.Context) {
	list, err := s.analysesUC.List(c.Request.Context())
	if err != nil {
		s.writeUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "analyses": list, "total": len(list)})
}

func (s *Server) handleGetAnalysis(c *gin.Context) {
	rec, err := s.analysesUC.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "analysis": rec})
}

// handleIngestAnalysis 匯入已抽取完成的週報 JSON；同週重複匯入會覆蓋。
func (s *Server) handleIngestAnalysis(c *gin.Context) {
	var body analyses.IngestInput
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, http.StatusBadRequest, errCodeBadRequest, "invalid body")
		return
	}
	rec, err := s.analysesUC.Ingest(c.Request.Context(), body)
	if err != nil {
		s.writeUseCaseError(c, err)
		return
	}
	s.log.Info("analysis ingested",
		zap.String("id", rec.ID),
		zap.Int("brands", len(rec.BrandsData)),
		zap.String("request_id", currentRequestID(c)),
	)
	c.JSON(http.StatusCreated, gin.H{"success": true, "analysis": rec})
}

func (s *Server) handleDeleteAnalysis(c *gin.Context) {
	id := c.Param("id")
	if err := s.analysesUC.Delete(c.Request.Context(), id); err != nil {
		s.writeUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "id": id})
}
