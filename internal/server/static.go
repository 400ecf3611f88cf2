package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// mountStatic serves a built single page frontend from staticDir. Unknown
// GET paths outside /api fall through to index.html so client side routes
// resolve; everything else is a JSON 404.
func (s *Server) mountStatic() {
	index := s.frontendIndex()
	s.engine.NoRoute(func(c *gin.Context) {
		if index == "" || c.Request.Method != http.MethodGet || strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "endpoint not found"})
			return
		}
		c.File(index)
	})
	if index == "" {
		return
	}
	s.engine.GET("/", func(c *gin.Context) { c.File(index) })

	if dir := filepath.Join(s.staticDir, "assets"); isDir(dir) {
		s.engine.StaticFS("/assets", gin.Dir(dir, false))
	}
	if icon := filepath.Join(s.staticDir, "favicon.ico"); fileExists(icon) {
		s.engine.StaticFile("/favicon.ico", icon)
	}
	s.logger.WithField("path", s.staticDir).Info("serving frontend")
}

// frontendIndex returns the index.html path, or "" when the API runs alone.
func (s *Server) frontendIndex() string {
	if s.staticDir == "" {
		s.logger.Info("static directory not configured; serving API only")
		return ""
	}
	log := s.logger.WithField("path", s.staticDir)
	if !isDir(s.staticDir) {
		log.Warn("static directory missing; serving API only")
		return ""
	}
	index := filepath.Join(s.staticDir, "index.html")
	if !fileExists(index) {
		log.Warn("index.html not found; serving API only")
		return ""
	}
	return index
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
