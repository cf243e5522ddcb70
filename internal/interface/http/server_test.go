package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"brand-trends/internal/application/analyses"
	"brand-trends/internal/application/auth"
	"brand-trends/internal/application/reports"
	appsettings "brand-trends/internal/application/settings"
	"brand-trends/internal/application/trend"
	"brand-trends/internal/domain/brandanalysis"
	"brand-trends/internal/infra/memory"
	authinfra "brand-trends/internal/infrastructure/auth"
	"brand-trends/internal/infrastructure/chart"
	"brand-trends/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const testPassword = "s3cret"

var testHash = func() string {
	h, err := authinfra.HashPassword(testPassword)
	if err != nil {
		panic(err)
	}
	return h
}()

func newTestServer(t *testing.T) (*Server, *memory.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	tokens := authinfra.NewJWTIssuer("test-secret", time.Hour, store)
	analysesUC := analyses.NewUseCase(store)
	settingsUC := appsettings.NewUseCase(store.SettingsStore())

	cfg := config.Config{}
	cfg.HTTP.CORSOrigins = []string{"http://localhost:3000"}
	s := NewServer(cfg, Deps{
		Analyses: analysesUC,
		Settings: settingsUC,
		Trends:   trend.NewUseCase(analysesUC, settingsUC, chart.NewRenderer(0, 0), trend.Options{}),
		Reports:  reports.NewUseCase(analysesUC, settingsUC, 0),
		Login:    auth.NewLoginUseCase(testHash, authinfra.BcryptHasher{}, tokens),
		Logout:   auth.NewLogoutUseCase(tokens),
		Check:    auth.NewCheckUseCase(tokens),
	})
	return s, store
}

func seedWeek(t *testing.T, store *memory.Store, year, week int, freebird, group string) {
	t.Helper()
	err := store.Save(context.Background(), brandanalysis.AnalysisRecord{
		ID:         brandanalysis.RecordID(week, year),
		Year:       year,
		WeekNumber: week,
		UploadDate: time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 7*week),
		Status:     brandanalysis.StatusCompleted,
		BrandsData: map[string]brandanalysis.MetricSet{
			"FREEBIRD": {brandanalysis.MetricOmzetIndex: brandanalysis.RawValue(freebird)},
		},
		GroupAverage: brandanalysis.MetricSet{brandanalysis.MetricOmzetIndex: brandanalysis.RawValue(group)},
	})
	require.NoError(t, err)
}

func login(t *testing.T, s *Server) string {
	t.Helper()
	w := doJSON(s, http.MethodPost, "/api/login", map[string]string{"password": testPassword}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func doJSON(s *Server, method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
