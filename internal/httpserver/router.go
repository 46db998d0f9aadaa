package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"softdesk/internal/handler"
	"softdesk/internal/redis"
)

type Router struct {
	Engine *gin.Engine
}

func NewRouter(
	authHandler *handler.AuthHandler,
	projectHandler *handler.ProjectHandler,
	contributorHandler *handler.ContributorHandler,
	issueHandler *handler.IssueHandler,
	commentHandler *handler.CommentHandler,
	accountHandler *handler.AccountHandler,
	jwtSecret string,
	tokens *redis.TokenStore,
) *Router {
	r := gin.Default()
	r.Use(MetricsMiddleware())

	// Public
	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Protected
	auth := r.Group("/")
	auth.Use(AuthMiddleware(jwtSecret, tokens))
	{
		auth.GET("/me", authHandler.Me)
		auth.PUT("/me/consents", authHandler.UpdateConsents)
		auth.GET("/me/export", accountHandler.Export)
		auth.DELETE("/me", accountHandler.Delete)

		auth.GET("/projects", projectHandler.List)
		auth.POST("/projects", projectHandler.Create)
		auth.GET("/projects/:project_id", projectHandler.Get)
		auth.PUT("/projects/:project_id", projectHandler.Update)
		auth.DELETE("/projects/:project_id", projectHandler.Delete)

		auth.GET("/projects/:project_id/contributors", contributorHandler.List)
		auth.POST("/projects/:project_id/contributors", contributorHandler.Add)
		auth.DELETE("/projects/:project_id/contributors/:user_id", contributorHandler.Remove)

		auth.GET("/projects/:project_id/issues", issueHandler.List)
		auth.POST("/projects/:project_id/issues", issueHandler.Create)
		auth.GET("/projects/:project_id/issues/:issue_id", issueHandler.Get)
		auth.PUT("/projects/:project_id/issues/:issue_id", issueHandler.Update)
		auth.DELETE("/projects/:project_id/issues/:issue_id", issueHandler.Delete)

		auth.GET("/projects/:project_id/issues/:issue_id/comments", commentHandler.List)
		auth.POST("/projects/:project_id/issues/:issue_id/comments", commentHandler.Create)
		auth.GET("/projects/:project_id/issues/:issue_id/comments/:comment_id", commentHandler.Get)
		auth.PUT("/projects/:project_id/issues/:issue_id/comments/:comment_id", commentHandler.Update)
		auth.DELETE("/projects/:project_id/issues/:issue_id/comments/:comment_id", commentHandler.Delete)
	}

	return &Router{Engine: r}
}

func (r *Router) Run(port string) error {
	return r.Engine.Run(port)
}
