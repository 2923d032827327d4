package service

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/SinghAman21/spendsplit/internal/auth"
	"github.com/SinghAman21/spendsplit/internal/cache"
	"github.com/SinghAman21/spendsplit/internal/middleware"
	"github.com/SinghAman21/spendsplit/internal/parser"
	"github.com/SinghAman21/spendsplit/internal/storage"
)

// NewRouter assembles the gin engine: middleware chain, health and metrics
// endpoints, and all /api routes.
func NewRouter(store storage.Store, c *cache.Cache, verifier *auth.Verifier, parserClient *parser.Client) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogging())
	r.Use(middleware.Metrics())
	r.Use(middleware.Authentication(verifier))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	groups := NewGroupService(store, c)
	expenses := NewExpenseService(store, parserClient, c)
	analysis := NewAnalysisService(store, c)
	users := NewUserService(store)

	api := r.Group("/api")
	{
		api.GET("/users", users.ListUsers)

		api.GET("/groups", groups.ListGroups)
		api.POST("/groups", groups.CreateGroup)
		api.GET("/groups/:id", groups.GetGroup)
		api.PUT("/groups/:id", groups.UpdateGroup)
		api.POST("/groups/:id/archive", groups.ArchiveGroup)
		api.DELETE("/groups/:id/archive", groups.UnarchiveGroup)

		api.GET("/groups/:id/members", groups.ListMembers)
		api.POST("/groups/:id/members", groups.AddMember)

		api.GET("/groups/:id/expenses", expenses.ListExpenses)
		api.POST("/groups/:id/expenses", expenses.CreateExpense)
		api.POST("/groups/:id/expenses/ai", expenses.CreateExpenseAI)

		api.GET("/groups/:id/analysis", analysis.GetAnalysis)
	}

	return r
}
