package httpapi

import (
	"errors"
	"net/http"
	"time"

	"brand-trends/internal/application/auth"
	authDomain "brand-trends/internal/domain/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (s *Server) handleLogin(c *gin.Context) {
	var body struct {
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Password == "" {
		writeError(c, http.StatusBadRequest, errCodeBadRequest, "password is required")
		return
	}

	token, err := s.loginUC.Execute(c.Request.Context(), auth.LoginInput{
		Password: body.Password,
		Meta: authDomain.ClientMeta{
			UserAgent: c.GetHeader("User-Agent"),
			IP:        clientIP(c.Request),
		},
	})
	if errors.Is(err, authDomain.ErrInvalidCredentials) {
		s.log.Warn("login failure", zap.String("client_ip", clientIP(c.Request)))
		writeError(c, http.StatusUnauthorized, errCodeInvalidCredentials, "invalid password")
		return
	}
	if err != nil {
		s.writeUseCaseError(c, err)
		return
	}

	s.setAccessCookie(c, token.AccessToken, token.ExpiresAt)
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"authenticated": true,
		"access_token":  token.AccessToken,
		"token_type":    "Bearer",
		"expiry":        token.ExpiresAt.Format(time.RFC3339),
	})
}

func (s *Server) handleLogout(c *gin.Context) {
	if err := s.logoutUC.Execute(c.Request.Context(), tokenFromRequest(c)); err != nil {
		s.log.Warn("logout", zap.Error(err), zap.String("request_id", currentRequestID(c)))
	}
	s.clearAccessCookie(c)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleCheckAuth(c *gin.Context) {
	res, err := s.checkUC.Execute(c.Request.Context(), tokenFromRequest(c))
	if err != nil {
		s.writeUseCaseError(c, err)
		return
	}
	body := gin.H{"success": true, "authenticated": res.Authenticated}
	if res.ExpiresAt != nil {
		body["expiry"] = res.ExpiresAt.Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, body)
}
