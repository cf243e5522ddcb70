package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"brand-trends/internal/application/analyses"
	"brand-trends/internal/application/auth"
	"brand-trends/internal/application/reports"
	appsettings "brand-trends/internal/application/settings"
	"brand-trends/internal/application/trend"
	authDomain "brand-trends/internal/domain/auth"
	settingsDomain "brand-trends/internal/domain/settings"
	domainTrend "brand-trends/internal/domain/trend"
	"brand-trends/internal/infra/memory"
	authinfra "brand-trends/internal/infrastructure/auth"
	"brand-trends/internal/infrastructure/chart"
	"brand-trends/internal/infrastructure/config"
	"brand-trends/internal/infrastructure/persistence/file"
	"brand-trends/internal/infrastructure/persistence/postgres"
	httpapi "brand-trends/internal/interface/http"

	"go.uber.org/zap"
)

const (
	purgeInterval = time.Hour
	sessionRetain = 24 * time.Hour
)

// purgeFunc 清除過期 session，回傳刪除數量。
type purgeFunc func(ctx context.Context) (int64, error)

type app struct {
	handler http.Handler
	purge   purgeFunc
}

// buildApp 組裝儲存層、用例與 HTTP server；db 為 nil 時全部使用記憶體儲存。
func buildApp(cfg config.Config, db *sql.DB, log *zap.Logger) (*app, error) {
	var (
		repo     analyses.Repository
		sessions authDomain.SessionStore
		store    settingsDomain.Store
		purge    purgeFunc
	)
	if db != nil {
		repo = postgres.NewAnalysisRepo(db)
		sessionRepo := postgres.NewSessionRepo(db)
		sessions = sessionRepo
		store = postgres.NewSettingsRepo(db)
		purge = func(ctx context.Context) (int64, error) {
			return sessionRepo.PurgeExpired(ctx, sessionRetain)
		}
	} else {
		mem := memory.NewStore()
		repo = mem
		sessions = mem
		store = mem.SettingsStore()
		purge = func(context.Context) (int64, error) {
			return int64(mem.PurgeSessions(time.Now())), nil
		}
	}
	if cfg.Storage.SettingsFile != "" {
		store = file.NewSettingsStore(cfg.Storage.SettingsFile)
	}

	hash, err := authinfra.ResolvePasswordHash(cfg.Auth.AdminPasswordHash, cfg.Auth.AdminPassword)
	if err != nil {
		return nil, fmt.Errorf("admin password hash: %w", err)
	}
	if hash == "" {
		log.Warn("no admin password configured; login is disabled")
	}
	tokens := authinfra.NewJWTIssuer(cfg.Auth.Secret, cfg.Auth.TokenTTL, sessions)

	analysesUC := analyses.NewUseCase(repo)
	settingsUC := appsettings.NewUseCase(store)
	trendUC := trend.NewUseCase(analysesUC, settingsUC, chart.NewRenderer(0, 0), trend.Options{
		Frame: domainTrend.Frame{
			Start:   cfg.Trend.ChartStart,
			Width:   cfg.Trend.ChartWidth,
			Height:  cfg.Trend.ChartHeight,
			Padding: cfg.Trend.ChartPadding,
		},
		Gridlines: cfg.Trend.Gridlines,
	})

	srv := httpapi.NewServer(cfg, httpapi.Deps{
		Analyses: analysesUC,
		Settings: settingsUC,
		Trends:   trendUC,
		Reports:  reports.NewUseCase(analysesUC, settingsUC, 0),
		Login:    auth.NewLoginUseCase(hash, authinfra.BcryptHasher{}, tokens),
		Logout:   auth.NewLogoutUseCase(tokens),
		Check:    auth.NewCheckUseCase(tokens),
		DB:       db,
		Logger:   log,
	})
	return &app{handler: srv.Handler(), purge: purge}, nil
}

// runPurge 定期清除過期 session，直到 ctx 結束。
func (a *app) runPurge(ctx context.Context, every time.Duration, log *zap.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := a.purge(ctx)
			if err != nil {
				log.Warn("purge sessions", zap.Error(err))
				continue
			}
			if n > 0 {
				log.Info("purged sessions", zap.Int64("count", n))
			}
		}
	}
}
