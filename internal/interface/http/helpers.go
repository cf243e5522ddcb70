package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

func clientIP(r *http.Request) string {
	ip := r.Header.Get("X-Forwarded-For")
	if ip == "" {
		ip = r.Header.Get("X-Real-IP")
	}
	if ip == "" {
		host, _, _ := strings.Cut(r.RemoteAddr, ":")
		ip = host
	}
	return strings.TrimSpace(strings.Split(ip, ",")[0])
}

func parseBearer(h string) string {
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// tokenFromRequest 優先使用 Authorization header，其次是 cookie。
func tokenFromRequest(c *gin.Context) string {
	if token := parseBearer(c.GetHeader("Authorization")); token != "" {
		return token
	}
	if t, err := c.Cookie(accessCookieName); err == nil {
		return t
	}
	return ""
}

func (s *Server) setAccessCookie(c *gin.Context, token string, expiry time.Time) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		accessCookieName,
		token,
		int(time.Until(expiry).Seconds()),
		"/",
		"",
		s.cookieSecure,
		true,
	)
}

func (s *Server) clearAccessCookie(c *gin.Context) {
	c.SetCookie(accessCookieName, "", -1, "/", "", s.cookieSecure, true)
}

func currentRequestID(c *gin.Context) string {
	if v, ok := c.Get(requestIDKey); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

func parseBoolDefault(s string, def bool) bool {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return def
	}
	return v
}
