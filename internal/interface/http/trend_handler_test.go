package httpapi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrendHandler_NotEnoughData(t *testing.T) {
	s, store := newTestServer(t)
	token := login(t, s)
	seedWeek(t, store, 2024, 38, "100", "90")

	w := doJSON(s, http.MethodGet, "/api/brand-analyzer/trends", nil, token)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decode(t, w)
	assert.Equal(t, errCodeNotEnoughData, resp["error_code"])
	assert.EqualValues(t, 1, resp["total_weeks"])
	assert.Equal(t, []any{"FREEBIRD"}, resp["available_brands"])
}

func TestTrendHandler_Trends(t *testing.T) {
	s, store := newTestServer(t)
	token := login(t, s)
	seedWeek(t, store, 2024, 39, "110", "95")
	seedWeek(t, store, 2024, 38, "100", "90")

	w := doJSON(s, http.MethodGet, "/api/brand-analyzer/trends?brand=freebird&metric=omzet_index", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	trends := decode(t, w)["trends"].(map[string]any)
	assert.Equal(t, "FREEBIRD", trends["brand"])
	assert.Equal(t, "GROUP_AVERAGE", trends["compare"])
	assert.EqualValues(t, 2, trends["total_weeks"])

	view := trends["view"].(map[string]any)
	primary := view["primary_stats"].(map[string]any)
	assert.Equal(t, "FREEBIRD", primary["label"])
	assert.Equal(t, "110.00", primary["latest"])
	assert.Equal(t, "↑ 10.0%", primary["change"])
	assert.Equal(t, "up", primary["direction"])

	comparison := view["comparison_stats"].(map[string]any)
	assert.Equal(t, "Group Average", comparison["label"])
	assert.Equal(t, "92.50", comparison["average"])
}

func TestTrendHandler_UnknownMetric(t *testing.T) {
	s, store := newTestServer(t)
	token := login(t, s)
	seedWeek(t, store, 2024, 39, "110", "95")
	seedWeek(t, store, 2024, 38, "100", "90")

	w := doJSON(s, http.MethodGet, "/api/brand-analyzer/trends?metric=volume", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	view := decode(t, w)["trends"].(map[string]any)["view"].(map[string]any)
	assert.Equal(t, "volume", view["metric_label"])
	assert.Equal(t, "0.00", view["primary_stats"].(map[string]any)["latest"])
}

func TestTrendHandler_Chart(t *testing.T) {
	s, store := newTestServer(t)
	token := login(t, s)
	seedWeek(t, store, 2024, 39, "110", "95")
	seedWeek(t, store, 2024, 38, "100", "90")

	t.Run("PNG", func(t *testing.T) {
		w := doJSON(s, http.MethodGet, "/api/brand-analyzer/trends/chart.png", nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
		assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")))
	})

	t.Run("SVG", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/brand-analyzer/trends/chart.svg?skip_missing=true", nil)
		req.AddCookie(&http.Cookie{Name: accessCookieName, Value: token})
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Body.String(), "<svg")
	})
}

func TestSelectionFromQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?brand=a&compare=b&metric=dvk&skip_missing=1", nil)
	sel := selectionFromQuery(c)
	assert.Equal(t, "a", sel.Brand)
	assert.Equal(t, "b", sel.Compare)
	assert.Equal(t, "dvk", sel.Metric)
	assert.True(t, sel.SkipMissing)
}
