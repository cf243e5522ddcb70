package httpapi

import (
	"database/sql"
	"net/http"

	"brand-trends/internal/application/analyses"
	"brand-trends/internal/application/auth"
	"brand-trends/internal/application/reports"
	appsettings "brand-trends/internal/application/settings"
	"brand-trends/internal/application/trend"
	"brand-trends/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	errCodeBadRequest         = "BAD_REQUEST"
	errCodeInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	errCodeUnauthorized       = "AUTH_UNAUTHORIZED"
	errCodeNotFound           = "NOT_FOUND"
	errCodeNotEnoughData      = "NOT_ENOUGH_DATA"
	errCodeInternal           = "INTERNAL_ERROR"
	accessCookieName          = "access_token"
)

// Deps 為 HTTP 層使用的用例與資源；DB 可為 nil（記憶體模式）。
type Deps struct {
	Analyses *analyses.UseCase
	Settings *appsettings.UseCase
	Trends   *trend.UseCase
	Reports  *reports.UseCase
	Login    *auth.LoginUseCase
	Logout   *auth.LogoutUseCase
	Check    *auth.CheckUseCase
	DB       *sql.DB
	Logger   *zap.Logger
}

// Server 封裝 gin 路由與依賴。
type Server struct {
	engine       *gin.Engine
	log          *zap.Logger
	db           *sql.DB
	analysesUC   *analyses.UseCase
	settingsUC   *appsettings.UseCase
	trendUC      *trend.UseCase
	reportsUC    *reports.UseCase
	loginUC      *auth.LoginUseCase
	logoutUC     *auth.LogoutUseCase
	checkUC      *auth.CheckUseCase
	corsOrigins  []string
	cookieSecure bool
}

// NewServer 建立 API 伺服器並註冊路由。
func NewServer(cfg config.Config, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		engine:       gin.New(),
		log:          logger,
		db:           deps.DB,
		analysesUC:   deps.Analyses,
		settingsUC:   deps.Settings,
		trendUC:      deps.Trends,
		reportsUC:    deps.Reports,
		loginUC:      deps.Login,
		logoutUC:     deps.Logout,
		checkUC:      deps.Check,
		corsOrigins:  cfg.HTTP.CORSOrigins,
		cookieSecure: cfg.Auth.CookieSecure,
	}
	s.registerRoutes()
	return s
}

// Handler 回傳路由處理器，供 HTTP server 掛載。
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) registerRoutes() {
	r := s.engine
	r.Use(gin.Recovery(), s.requestID(), s.requestLogger(), s.corsMiddleware())

	api := r.Group("/api")
	api.GET("/ping", s.handlePing)
	api.GET("/health", s.handleHealth)
	api.POST("/login", s.handleLogin)
	api.POST("/logout", s.handleLogout)
	api.GET("/check-auth", s.handleCheckAuth)

	secured := api.Group("", s.requireAuth())
	secured.GET("/settings", s.handleGetSettings)
	secured.POST("/settings", s.handleUpdateSettings)

	ba := secured.Group("/brand-analyzer")
	ba.GET("/analyses", s.handleListAnalyses)
	ba.POST("/analyses", s.handleIngestAnalysis)
	ba.GET("/analysis/:id", s.handleGetAnalysis)
	ba.DELETE("/analysis/:id", s.handleDeleteAnalysis)
	ba.GET("/trends", s.handleTrends)
	ba.GET("/trends/chart.png", s.handleTrendChart(trend.FormatPNG))
	ba.GET("/trends/chart.svg", s.handleTrendChart(trend.FormatSVG))
	ba.GET("/overview", s.handleWeekOverview)
	ba.GET("/overview.csv", s.handleWeekOverviewCSV)
}
