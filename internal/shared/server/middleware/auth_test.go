package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"toolfinder-backend/internal/shared/auth"
)

func TestAuthAllowsOptionsWithoutIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Auth("dev"))
	router.OPTIONS("/api/v1/me/profile", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/me/profile", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
}

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Auth("dev"))
	echo := func(c *gin.Context) {
		c.String(http.StatusOK, UserIDFromContext(c))
	}
	router.GET("/api/v1/tools", echo)
	router.GET("/api/v1/tools/:id", echo)
	router.POST("/api/v1/tools/submissions", echo)
	router.GET("/api/v1/me/profile", echo)
	return router
}

func TestAuthPublicCatalogWithoutIdentity(t *testing.T) {
	router := newAuthRouter()

	for _, path := range []string{"/api/v1/tools", "/api/v1/tools/figma"} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, resp.Code)
		}
		if resp.Body.String() != "" {
			t.Fatalf("%s: expected anonymous caller, got %q", path, resp.Body.String())
		}
	}

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/tools/submissions", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected submissions to require identity, got %d", resp.Code)
	}
}

func TestAuthGuestIDMustBeUUID(t *testing.T) {
	router := newAuthRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me/profile", nil)
	req.Header.Set("X-Guest-Id", "not-a-uuid")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for malformed guest id, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/me/profile", nil)
	req.Header.Set("X-Guest-Id", "8F14E45F-CEEA-4672-8E1A-5D2A9F3C1B20")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := resp.Body.String(); got != "guest:8f14e45f-ceea-4672-8e1a-5d2a9f3c1b20" {
		t.Fatalf("unexpected user id %q", got)
	}
}

func TestAuthBearerToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, err := auth.SignJWT(auth.Claims{Sub: "google:123", Email: "ana@example.com"})
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}
	router := newAuthRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK || resp.Body.String() != "google:123" {
		t.Fatalf("expected authenticated user, got %d %q", resp.Code, resp.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/me/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token+"x")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for tampered token, got %d", resp.Code)
	}
}
