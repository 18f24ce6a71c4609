// Package httpapi exposes the content engine over HTTP.
package httpapi

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/calderahq/caldera/internal/engine"
)

// Server serves the content API for one engine.
type Server struct {
	engine *engine.Engine
	log    zerolog.Logger
	router *gin.Engine
}

// New builds the server and its routes.
func New(eng *engine.Engine, log zerolog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{engine: eng, log: log}

	r := gin.New()
	r.Use(gin.Recovery(), s.requestLog())

	v1 := r.Group("/v1/:project/:collection")
	{
		v1.GET("", s.list)
		v1.POST("", s.create)
		v1.GET("/:id", s.get)
		v1.PUT("/:id", s.update)
		v1.DELETE("/:id", s.remove)
		v1.POST("/:id/publish", s.publish)
		v1.POST("/:id/unpublish", s.unpublish)
		v1.POST("/:id/restore", s.restore)
	}

	s.router = r
	return s
}

// Handler returns the underlying router, used by tests.
func (s *Server) Handler() *gin.Engine {
	return s.router
}

// Run serves on addr until the listener fails.
func (s *Server) Run(addr string) error {
	s.log.Info().Str("addr", addr).Msg("content api listening")
	return s.router.Run(addr)
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}
