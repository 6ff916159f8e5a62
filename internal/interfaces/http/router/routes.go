package router

import (
	"github.com/dentalhr/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// Handlers groups the HTTP handlers mounted by Mount. A nil Webhook leaves
// the Stripe endpoint unmounted.
type Handlers struct {
	System    *handler.SystemHandler
	Auth      *handler.AuthHandler
	Article   *handler.ArticleHandler
	Category  *handler.CategoryHandler
	Checklist *handler.ChecklistHandler
	Employee  *handler.EmployeeHandler
	External  *handler.ExternalHandler
	Webhook   *handler.StripeWebhookHandler
}

// Guards are the middleware placed in front of route groups
type Guards struct {
	JWT           gin.HandlerFunc
	Tenant        gin.HandlerFunc
	AuthRateLimit gin.HandlerFunc
}

// Mount registers every route of the API on engine
func Mount(engine *gin.Engine, h Handlers, g Guards, opts ...RouterOption) *Router {
	r := NewRouter(engine, opts...)

	root := NewDomainGroup("system", "")
	root.GET("/health", h.System.Health)
	if h.Webhook != nil {
		root.POST("/stripe/webhook", h.Webhook.HandleStripeWebhook)
	}
	r.RegisterRoot(root)

	for _, group := range APIGroups(h, g) {
		r.Register(group)
	}
	r.Setup()
	return r
}

// APIGroups builds the versioned route groups
func APIGroups(h Handlers, g Guards) []*DomainGroup {
	authPublic := NewDomainGroup("auth", "/auth").Use(g.AuthRateLimit).
		POST("/register", h.Auth.Register).
		POST("/login", h.Auth.Login).
		POST("/refresh", h.Auth.Refresh)

	authSession := NewDomainGroup("session", "/auth").Use(g.JWT).
		POST("/logout", h.Auth.Logout).
		GET("/me", g.tenant(), h.Auth.Me)

	external := NewDomainGroup("external", "/external").
		GET("/exchange-rates", h.External.ExchangeRates).
		GET("/holidays", h.External.Holidays).
		POST("/validate-cf", h.External.ValidateFiscalCode).
		POST("/validate-email", h.External.ValidateEmail)

	employees := NewDomainGroup("employees", "/employees").Use(g.JWT, g.Tenant).
		GET("", h.Employee.List).
		POST("", h.Employee.Create).
		GET("/:id", h.Employee.Get).
		PUT("/:id", h.Employee.Update).
		DELETE("/:id", h.Employee.Delete)

	categories := NewDomainGroup("categories", "/categories").Use(g.JWT, g.Tenant).
		GET("", h.Category.Tree).
		POST("", h.Category.Create).
		PUT("/:id", h.Category.Update).
		DELETE("/:id", h.Category.Delete)

	articles := NewDomainGroup("articles", "/articles").Use(g.JWT, g.Tenant).
		GET("", h.Article.List).
		POST("", h.Article.Create).
		GET("/search", h.Article.Search).
		GET("/pending", h.Article.Pending).
		GET("/slug/:slug", h.Article.GetBySlug).
		GET("/:id", h.Article.Get).
		PUT("/:id", h.Article.Update).
		DELETE("/:id", h.Article.Delete).
		GET("/:id/revisions", h.Article.ListRevisions).
		GET("/:id/revisions/:version", h.Article.GetRevision).
		POST("/:id/acknowledge", h.Article.Acknowledge).
		GET("/:id/acknowledgments", h.Article.ListAcknowledgments)

	manual := NewDomainGroup("manual", "/manual").Use(g.JWT, g.Tenant).
		GET("/stats", h.Article.Stats)

	checklists := NewDomainGroup("checklists", "/checklists").Use(g.JWT, g.Tenant).
		GET("", h.Checklist.List).
		POST("", h.Checklist.Create).
		GET("/:id", h.Checklist.Get).
		PUT("/:id", h.Checklist.Update).
		DELETE("/:id", h.Checklist.Delete).
		POST("/:id/execute", h.Checklist.Execute).
		GET("/:id/executions", h.Checklist.ListExecutions)

	return []*DomainGroup{authPublic, authSession, external, employees, categories, articles, manual, checklists}
}

// tenant returns the tenant guard or a pass-through when none is configured
func (g Guards) tenant() gin.HandlerFunc {
	if g.Tenant == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return g.Tenant
}
