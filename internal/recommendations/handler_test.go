package recommendations

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, svc *Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userId", "guest:8f14e45f-ceea-4672-8e1a-5d2a9f3c1b20")
		c.Set("isGuest", true)
		c.Next()
	})
	NewHandler(svc).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func post(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestRecommendHandler(t *testing.T) {
	router := newTestRouter(t, newTestService(nil, nil))

	resp := post(router, "/api/v1/recommendations",
		`{"profile":{"teamSize":4,"budgetRange":"low"},"currentTools":["Slack"],"limit":5}`)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var body RecommendResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Len(t, body.Recommendations, 5)
	assert.Equal(t, ProfileFromRequest, body.ProfileSource)
	assert.NotContains(t, recIDs(body.Recommendations), "slack")
	assert.NotNil(t, body.Diagnostics)
}

func TestRecommendHandlerErrors(t *testing.T) {
	tests := []struct {
		name   string
		svc    *Service
		body   string
		status int
		code   string
	}{
		{name: "bad json", svc: newTestService(nil, nil), body: `{`, status: http.StatusBadRequest, code: "validation_error"},
		{name: "negative limit", svc: newTestService(nil, nil), body: `{"limit":-2}`, status: http.StatusBadRequest, code: "validation_error"},
		{name: "unknown pricing", svc: newTestService(nil, nil), body: `{"pricingModels":["barter"]}`, status: http.StatusBadRequest, code: "validation_error"},
		{name: "catalog down", svc: func() *Service {
			s := newTestService(nil, nil)
			s.Catalog = stubCatalog{err: errStore}
			return s
		}(), body: `{}`, status: http.StatusServiceUnavailable, code: "catalog_unavailable"},
		{name: "no service", svc: nil, body: `{}`, status: http.StatusInternalServerError, code: "internal_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(newTestRouter(t, tt.svc), "/api/v1/recommendations", tt.body)
			assert.Equal(t, tt.status, resp.Code)
			assert.Contains(t, resp.Body.String(), `"code":"`+tt.code+`"`)
		})
	}
}

func TestExplainHandler(t *testing.T) {
	router := newTestRouter(t, newTestService(nil, nil))

	resp := post(router, "/api/v1/recommendations/explain", `{"toolId":"figma","category":"Design"}`)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var body ExplainResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "figma", body.ToolID)
	assert.Contains(t, body.HTML, "<ul>")

	resp = post(router, "/api/v1/recommendations/explain", `{"toolId":"figma","category":"Analytics"}`)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = post(router, "/api/v1/recommendations/explain", `{}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
