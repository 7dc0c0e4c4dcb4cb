package handler

import (
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/notegenius/notegenius/internal/middleware"
	"github.com/notegenius/notegenius/internal/pkg/response"
)

type RouterDeps struct {
	Auth        *AuthHandler
	Notes       *NoteHandler
	AI          *AIHandler
	JWTSecret   []byte
	CORSOrigins []string
	RateLimit   time.Duration
}

func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(deps.CORSOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	api := router.Group("/api")
	api.GET("/health", health)
	api.POST("/auth/signup", deps.Auth.Signup)
	api.POST("/auth/login", deps.Auth.Login)

	authGroup := api.Group("")
	authGroup.Use(middleware.JWTAuth(deps.JWTSecret))
	authGroup.GET("/auth/me", deps.Auth.Me)
	authGroup.POST("/auth/upload-avatar", deps.Auth.UploadAvatar)

	authGroup.GET("/notes", deps.Notes.List)
	authGroup.POST("/notes", deps.Notes.Create)
	authGroup.PUT("/notes/:id", deps.Notes.Update)
	authGroup.DELETE("/notes/:id", deps.Notes.Delete)
	authGroup.POST("/notes/:id/summarize", deps.Notes.Summarize)
	authGroup.GET("/folders", deps.Notes.Folders)

	aiGroup := authGroup.Group("/ai")
	aiGroup.Use(middleware.RateLimit(deps.RateLimit))
	aiGroup.POST("/ask", deps.AI.Ask)
	aiGroup.POST("/search", deps.AI.Search)

	return router
}

func health(c *gin.Context) {
	response.Success(c, gin.H{"status": "healthy", "message": "notes api is running"})
}
