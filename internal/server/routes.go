package server

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var started = time.Now()

func (s *Server) registerRoutes() {
	s.engine.GET("/", s.handleRoot)
	s.engine.GET("/q", s.handleQuery)
	s.engine.GET("/commands", s.handleCommands)

	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"uptime": time.Since(started).String(),
		})
	})

	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// handleRoot redirects when a query is present, otherwise renders the
// landing page listing every command.
func (s *Server) handleRoot(c *gin.Context) {
	if q := c.Query("q"); q != "" {
		s.redirect(c, q)
		return
	}
	s.renderLanding(c)
}

// handleQuery is the explicit query route for browser keyword setups
// that prefer a path over a bare query string.
func (s *Server) handleQuery(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.Redirect(http.StatusFound, "/")
		return
	}
	s.redirect(c, q)
}

func (s *Server) redirect(c *gin.Context, q string) {
	url := s.resolver.Resolve(c.Request.Context(), q)
	c.Redirect(http.StatusFound, url)
}

// handleCommands returns the loaded commands as JSON, sorted by
// primary binding.
func (s *Server) handleCommands(c *gin.Context) {
	infos := s.resolver.ListCommands()
	sort.Slice(infos, func(i, j int) bool {
		return strings.ToLower(infos[i].Bindings[0]) < strings.ToLower(infos[j].Bindings[0])
	})
	c.JSON(http.StatusOK, gin.H{"commands": infos})
}
