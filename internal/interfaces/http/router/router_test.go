package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dentalhr/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

func serve(engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v2"))

	r.Register(NewDomainGroup("test", "/test").GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	}))
	r.RegisterRoot(NewDomainGroup("root", "").GET("/ready", func(c *gin.Context) {
		c.Status(http.StatusOK)
	}))
	r.Setup()

	w := serve(engine, http.MethodGet, "/api/v2/test/ping", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())

	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/ready", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/api/v1/test/ping", "").Code)
}

func TestDomainGroup(t *testing.T) {
	t.Run("name, prefix and routes", func(t *testing.T) {
		g := NewDomainGroup("articles", "/articles").
			GET("", func(*gin.Context) {}).
			DELETE("/:id", func(*gin.Context) {})

		assert.Equal(t, "articles", g.Name())
		assert.Equal(t, "/articles", g.Prefix())
		assert.Equal(t, []string{"GET /articles", "DELETE /articles/:id"}, g.Routes())
	})

	t.Run("middleware runs before handlers and nil is skipped", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("test", "/test").
			Use(nil, func(c *gin.Context) {
				c.Header("X-Guard", "1")
				c.Next()
			}).
			PUT("/items/:id", func(c *gin.Context) {
				c.String(http.StatusOK, c.Param("id"))
			})
		g.RegisterRoutes(engine.Group("/api/v1"))

		w := serve(engine, http.MethodPut, "/api/v1/test/items/42", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "42", w.Body.String())
		assert.Equal(t, "1", w.Header().Get("X-Guard"))
	})
}

func TestMount(t *testing.T) {
	engine := gin.New()
	denied := func(c *gin.Context) {
		c.AbortWithStatus(http.StatusUnauthorized)
	}
	limited := func(c *gin.Context) {
		c.Header("X-Auth-Limited", "1")
		c.Next()
	}

	Mount(engine, Handlers{
		System:    handler.NewSystemHandler(okPinger{}),
		Auth:      handler.NewAuthHandler(nil),
		Article:   handler.NewArticleHandler(nil, nil),
		Category:  handler.NewCategoryHandler(nil),
		Checklist: handler.NewChecklistHandler(nil),
		Employee:  handler.NewEmployeeHandler(nil),
		External:  handler.NewExternalHandler(nil),
	}, Guards{JWT: denied, AuthRateLimit: limited})

	t.Run("health is public", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/health", "").Code)
	})

	t.Run("webhook is not mounted without a handler", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodPost, "/stripe/webhook", "{}").Code)
	})

	t.Run("login is public and rate limited", func(t *testing.T) {
		w := serve(engine, http.MethodPost, "/api/v1/auth/login", `{}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "1", w.Header().Get("X-Auth-Limited"))
	})

	t.Run("external validators are public", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, serve(engine, http.MethodPost, "/api/v1/external/validate-cf", `{"code":`).Code)
	})

	protected := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/auth/logout"},
		{http.MethodGet, "/api/v1/auth/me"},
		{http.MethodGet, "/api/v1/articles"},
		{http.MethodGet, "/api/v1/articles/search"},
		{http.MethodGet, "/api/v1/articles/pending"},
		{http.MethodGet, "/api/v1/articles/slug/privacy"},
		{http.MethodPost, "/api/v1/articles/6f1c7a52-2c4e-4b43-9a2e-0a7d1d3f5b11/acknowledge"},
		{http.MethodGet, "/api/v1/manual/stats"},
		{http.MethodGet, "/api/v1/categories"},
		{http.MethodPost, "/api/v1/checklists/6f1c7a52-2c4e-4b43-9a2e-0a7d1d3f5b11/execute"},
		{http.MethodDelete, "/api/v1/employees/6f1c7a52-2c4e-4b43-9a2e-0a7d1d3f5b11"},
	}
	for _, tt := range protected {
		t.Run("guarded "+tt.method+" "+tt.path, func(t *testing.T) {
			w := serve(engine, tt.method, tt.path, "")
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Empty(t, w.Header().Get("X-Auth-Limited"))
		})
	}
}

func TestAPIGroupsCoverEveryEndpoint(t *testing.T) {
	var routes []string
	for _, g := range APIGroups(Handlers{
		Auth:      handler.NewAuthHandler(nil),
		Article:   handler.NewArticleHandler(nil, nil),
		Category:  handler.NewCategoryHandler(nil),
		Checklist: handler.NewChecklistHandler(nil),
		Employee:  handler.NewEmployeeHandler(nil),
		External:  handler.NewExternalHandler(nil),
	}, Guards{}) {
		routes = append(routes, g.Routes()...)
	}

	assert.Len(t, routes, 38)
	assert.Contains(t, routes, "GET /articles/:id/revisions/:version")
	assert.Contains(t, routes, "GET /checklists/:id/executions")
	assert.Contains(t, routes, "GET /external/holidays")
}
